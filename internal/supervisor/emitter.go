package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"laraforge/internal/command"
	"laraforge/internal/model"
)

// QueueResult records the outcome of emitting one queue's stanza.
type QueueResult struct {
	Queue    string
	ConfPath string
	Started  bool
	Err      error
}

// EmitResult is the per-queue outcome of one emission run plus the
// supervisor reconcile steps.
type EmitResult struct {
	Queues   []QueueResult
	Pruned   []string // orphaned conf files removed before reconcile
	Warnings []string // non-fatal issues (log file ownership etc.)

	RereadErr error
	UpdateErr error
}

// Failed returns the names of queues whose stanza could not be written.
func (r EmitResult) Failed() []string {
	var failed []string
	for _, q := range r.Queues {
		if q.Err != nil {
			failed = append(failed, q.Queue)
		}
	}
	return failed
}

// OK reports whether every stanza was written and the supervisor
// reconciled cleanly.
func (r EmitResult) OK() bool {
	return len(r.Failed()) == 0 && r.RereadErr == nil && r.UpdateErr == nil
}

// Emitter writes one supervisord stanza per queue and reconciles the
// supervisor afterwards.
type Emitter struct {
	ConfDir string
	Runner  command.Runner

	// SkipChown disables log file ownership changes, for unprivileged
	// runs and tests.
	SkipChown bool
}

// Emit processes the plan in order. A failure on one queue is recorded
// and emission continues with the rest: one bad queue must not block the
// others. After all stanzas are written, orphaned conf files from queues
// removed since the previous run are pruned, then the supervisor rereads,
// reconciles, and each successfully written group is started.
func (e *Emitter) Emit(plan model.QueuePlan, session *model.Session) EmitResult {
	result := EmitResult{}

	for _, q := range plan.Queues {
		result.Queues = append(result.Queues, e.emitOne(q, session, &result))
	}

	e.pruneOrphans(plan, session, &result)

	ctl := Ctl{Runner: e.Runner}
	result.RereadErr = ctl.Reread()
	result.UpdateErr = ctl.Update()

	for i := range result.Queues {
		qr := &result.Queues[i]
		if qr.Err != nil {
			continue
		}
		group := GroupName(session.ProjectName, qr.Queue)
		if err := ctl.Start(group); err != nil {
			// Already-running groups make start fail; that is fine
			// after an update that restarted them.
			result.Warnings = append(result.Warnings, fmt.Sprintf("start %s: %v", group, err))
			continue
		}
		qr.Started = true
	}

	return result
}

// emitOne writes the log file and stanza for a single queue. The log file
// must exist and be owned by the service user before the stanza activates,
// so it is handled first.
func (e *Emitter) emitOne(q model.QueueDefinition, session *model.Session, result *EmitResult) QueueResult {
	qr := QueueResult{Queue: q.Name}

	logPath := LogPath(session.ProjectPath, q.Name)
	if err := ensureLogFile(logPath); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("log file for %s: %v", q.Name, err))
	} else if !e.SkipChown {
		owner := session.ServiceUser + ":" + session.ServiceUser
		if err := e.Runner.Run("chown", owner, logPath); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("chown log for %s: %v", q.Name, err))
		}
	}

	content, err := RenderStanza(session, q)
	if err != nil {
		qr.Err = err
		return qr
	}

	qr.ConfPath = filepath.Join(e.ConfDir, GroupName(session.ProjectName, q.Name)+".conf")
	if err := atomicWrite(qr.ConfPath, content); err != nil {
		qr.Err = fmt.Errorf("write stanza for %s: %w", q.Name, err)
		qr.ConfPath = ""
	}
	return qr
}

// pruneOrphans removes conf files for this project whose queue is no
// longer in the plan, so the supervisor's update step actually stops the
// removed groups instead of leaving them running off stale files.
func (e *Emitter) pruneOrphans(plan model.QueuePlan, session *model.Session, result *EmitResult) {
	entries, err := os.ReadDir(e.ConfDir)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("scan conf dir: %v", err))
		return
	}

	keep := make(map[string]bool, len(plan.Queues))
	for _, q := range plan.Queues {
		keep[GroupName(session.ProjectName, q.Name)+".conf"] = true
	}

	prefix := session.ProjectName + "_"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".conf") {
			continue
		}
		if keep[name] {
			continue
		}
		path := filepath.Join(e.ConfDir, name)
		if err := os.Remove(path); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("prune %s: %v", name, err))
			continue
		}
		result.Pruned = append(result.Pruned, name)
	}
}
