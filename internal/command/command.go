// Package command wraps external command execution behind a Runner
// interface and provides ordered fallback chains for install strategies.
package command

import (
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external commands. Provisioning code depends on this
// interface so tests can substitute a recorder.
type Runner interface {
	Run(name string, args ...string) error
	Output(name string, args ...string) (string, error)
	// RunWithStdin runs a command feeding stdin from the given string.
	RunWithStdin(stdin, name string, args ...string) error
}

// Exec is the real Runner backed by os/exec.
type Exec struct{}

func (Exec) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, firstArg(args), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (Exec) Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %s", name, firstArg(args), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (Exec) RunWithStdin(stdin, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, firstArg(args), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
