package command

import (
	"fmt"
	"strings"
	"sync"
)

// Recorder is a Runner test double. It records every invocation and
// answers from scripted responses keyed by command prefix.
type Recorder struct {
	mu sync.Mutex

	// Calls is every invocation joined with spaces, in order.
	Calls []string

	// Fail maps a command-line prefix to an error message. The first
	// matching prefix wins.
	Fail map[string]string

	// Outputs maps a command-line prefix to canned Output text.
	Outputs map[string]string
}

func NewRecorder() *Recorder {
	return &Recorder{
		Fail:    map[string]string{},
		Outputs: map[string]string{},
	}
}

func (r *Recorder) record(name string, args []string) string {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	r.Calls = append(r.Calls, line)
	return line
}

func (r *Recorder) failFor(line string) error {
	for prefix, msg := range r.Fail {
		if strings.HasPrefix(line, prefix) {
			return fmt.Errorf("%s", msg)
		}
	}
	return nil
}

func (r *Recorder) Run(name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failFor(r.record(name, args))
}

func (r *Recorder) Output(name string, args ...string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := r.record(name, args)
	if err := r.failFor(line); err != nil {
		return "", err
	}
	for prefix, out := range r.Outputs {
		if strings.HasPrefix(line, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (r *Recorder) RunWithStdin(stdin, name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failFor(r.record(name, args))
}

// Ran reports whether any call starts with the given prefix.
func (r *Recorder) Ran(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
