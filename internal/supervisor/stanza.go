// Package supervisor renders supervisord program stanzas for queue
// workers, drops them into the conf directory, and drives supervisorctl
// to reconcile and start the groups.
package supervisor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"laraforge/internal/model"
)

// stanzaTemplate is the supervisord program block written per queue.
// Field order is fixed so repeated emission is byte-identical.
var stanzaTemplate = template.Must(template.New("stanza").Parse(
	`[program:{{.Group}}]
process_name=%(program_name)s_%(process_num)02d
command={{.Command}}
autostart=true
autorestart=true
stopasgroup=true
killasgroup=true
numprocs={{.NumProcs}}
redirect_stderr=true
stdout_logfile={{.LogFile}}
stopwaitsecs={{.StopWait}}
user={{.User}}
priority={{.Priority}}
`))

type stanzaData struct {
	Group    string
	Command  string
	NumProcs int
	LogFile  string
	StopWait int
	User     string
	Priority int
}

// GroupName is the supervisor process-group name for a queue.
func GroupName(project, queue string) string {
	return fmt.Sprintf("%s_%s", project, queue)
}

// LogPath is the per-queue worker log file inside the project.
func LogPath(projectPath, queue string) string {
	return filepath.Join(projectPath, "storage", "logs", fmt.Sprintf("queue_%s.log", queue))
}

// workerCommand builds the artisan queue:work invocation: sleep 3s when
// the queue is empty, 3 tries per job, job runtime bounded by the
// definition's max runtime, kill timeout at CommandTimeout.
func workerCommand(projectPath string, driver model.Driver, q model.QueueDefinition) string {
	return fmt.Sprintf(
		"php %s/artisan queue:work %s --queue=%s --sleep=3 --tries=3 --max-time=%d --timeout=%d",
		projectPath, driver, q.Name, q.MaxRuntimeSeconds, q.CommandTimeout())
}

// RenderStanza produces the conf file content for one queue definition.
func RenderStanza(session *model.Session, q model.QueueDefinition) ([]byte, error) {
	data := stanzaData{
		Group:    GroupName(session.ProjectName, q.Name),
		Command:  workerCommand(session.ProjectPath, session.Drivers.Queue, q),
		NumProcs: q.ProcessCount,
		LogFile:  LogPath(session.ProjectPath, q.Name),
		StopWait: q.StopWaitSeconds(),
		User:     session.ServiceUser,
		Priority: q.SupervisorPriority(),
	}

	var buf bytes.Buffer
	if err := stanzaTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render stanza for %s: %w", q.Name, err)
	}
	return buf.Bytes(), nil
}
