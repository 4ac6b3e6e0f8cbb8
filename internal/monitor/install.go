// Package monitor installs the operator status script and provides the
// richer built-in report, HTTP, and watch surfaces.
package monitor

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultScriptDir is where the status script lands on the PATH.
const DefaultScriptDir = "/usr/local/bin"

// ScriptName is the fixed name of the installed status script.
const ScriptName = "laravel-queue-status"

// statusScript is static content: no per-queue parameterization, so the
// script keeps working when queues are added or removed later.
const statusScript = `#!/bin/sh
# Installed by laraforge. Shows queue worker status.
echo "=== Queue workers ==="
supervisorctl status | grep queue
if command -v redis-cli >/dev/null 2>&1; then
    echo ""
    echo "=== Redis default queue depth ==="
    redis-cli llen queues:default
fi
`

// Install writes the status script, overwriting any previous copy.
// Repeated installs are idempotent.
func Install(dir string) (string, error) {
	path := filepath.Join(dir, ScriptName)
	if err := os.WriteFile(path, []byte(statusScript), 0755); err != nil {
		return "", fmt.Errorf("install status script: %w", err)
	}
	return path, nil
}
