package supervisor

import (
	"strings"

	"laraforge/internal/command"
)

// Ctl wraps supervisorctl invocations.
type Ctl struct {
	Runner command.Runner
}

// Reread asks supervisord to re-scan its conf directory.
func (c Ctl) Reread() error {
	return c.Runner.Run("supervisorctl", "reread")
}

// Update reconciles running groups with the conf directory: stops removed
// groups, starts added ones, restarts changed ones.
func (c Ctl) Update() error {
	return c.Runner.Run("supervisorctl", "update")
}

// Start explicitly starts every process in a group.
func (c Ctl) Start(group string) error {
	return c.Runner.Run("supervisorctl", "start", group+":*")
}

// Status returns the raw supervisorctl status output.
func (c Ctl) Status() (string, error) {
	return c.Runner.Output("supervisorctl", "status")
}

// StatusRow is one parsed line of supervisorctl status output.
type StatusRow struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Info  string `json:"info,omitempty"`
}

// ParseStatus parses supervisorctl status lines into rows, keeping only
// those whose name contains the given substring (empty keeps all).
func ParseStatus(out, nameFilter string) []StatusRow {
	var rows []StatusRow
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if nameFilter != "" && !strings.Contains(fields[0], nameFilter) {
			continue
		}
		row := StatusRow{Name: fields[0], State: fields[1]}
		if len(fields) > 2 {
			row.Info = strings.Join(fields[2:], " ")
		}
		rows = append(rows, row)
	}
	return rows
}
