package cli

import (
	"fmt"
	"os"

	"laraforge/internal/command"
	"laraforge/internal/model"
	"laraforge/internal/monitor"
	"laraforge/internal/prompt"
	"laraforge/internal/queueplan"
	"laraforge/internal/supervisor"
)

// buildSource picks the answer source: a YAML answer file when given,
// otherwise the interactive terminal.
func buildSource(answersPath string) (prompt.Source, error) {
	if answersPath != "" {
		return prompt.LoadAnswers(answersPath)
	}
	return prompt.NewTerminal(os.Stdin, os.Stdout), nil
}

// queueOptions carries the flags shared by provision and queues.
type queueOptions struct {
	confDir   string
	scriptDir string
	dryRun    bool
	skipChown bool
}

// runQueuePipeline executes plan building, stanza emission, and monitor
// installation for an already-populated session.
func runQueuePipeline(session *model.Session, src prompt.Source, opts queueOptions) error {
	count, err := prompt.AskInt(src, "queue_count", "Number of queues", 1)
	if err != nil {
		return err
	}

	builder := &queueplan.Builder{
		Profile: session.Profile,
		Source:  src,
		Out:     os.Stdout,
	}
	plan, err := builder.Build(count)
	if err != nil {
		return err
	}
	session.Plan = plan

	if opts.dryRun {
		for _, q := range plan.Queues {
			content, err := supervisor.RenderStanza(session, q)
			if err != nil {
				return err
			}
			fmt.Printf("--- %s.conf ---\n%s\n", supervisor.GroupName(session.ProjectName, q.Name), content)
		}
		return nil
	}

	emitter := &supervisor.Emitter{
		ConfDir:   opts.confDir,
		Runner:    command.Exec{},
		SkipChown: opts.skipChown,
	}
	result := emitter.Emit(plan, session)
	printEmitResult(result)

	if _, err := monitor.Install(opts.scriptDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else {
		fmt.Printf("monitor script installed: %s/%s\n", opts.scriptDir, monitor.ScriptName)
	}

	if err := session.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: save session: %v\n", err)
	}

	if failed := result.Failed(); len(failed) > 0 {
		return fmt.Errorf("failed to emit queues: %v", failed)
	}
	if result.RereadErr != nil {
		return fmt.Errorf("supervisor reread: %w", result.RereadErr)
	}
	if result.UpdateErr != nil {
		return fmt.Errorf("supervisor update: %w", result.UpdateErr)
	}
	return nil
}

func printEmitResult(result supervisor.EmitResult) {
	for _, q := range result.Queues {
		if q.Err != nil {
			fmt.Fprintf(os.Stderr, "queue %s: %v\n", q.Queue, q.Err)
			continue
		}
		fmt.Printf("queue %s: %s\n", q.Queue, q.ConfPath)
	}
	for _, name := range result.Pruned {
		fmt.Printf("pruned stale conf: %s\n", name)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}
