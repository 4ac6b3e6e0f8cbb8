// Package prompt abstracts operator interaction behind a Source interface
// so the planning logic can be driven by a terminal, a YAML answer file,
// or a scripted test double without change.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Question is a free-text field with a key (used by answer files), an
// operator-facing label, and a default applied on empty input.
type Question struct {
	Key     string
	Label   string
	Default string
}

// Source supplies answers to the pipeline's prompts.
type Source interface {
	// Ask returns the answer to a free-text question.
	Ask(q Question) (string, error)
	// Confirm asks a yes/no question and returns the decision.
	Confirm(key, label string, def bool) (bool, error)
	// Choose presents a numbered menu and returns the selected index
	// (0-based). An out-of-range selection is an error.
	Choose(key, label string, options []string, def int) (int, error)
}

// Terminal reads answers from an interactive reader and echoes menus and
// defaults to a writer.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Ask(q Question) (string, error) {
	if q.Default != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", q.Label, q.Default)
	} else {
		fmt.Fprintf(t.out, "%s: ", q.Label)
	}
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return q.Default, nil
	}
	return line, nil
}

func (t *Terminal) Confirm(key, label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(t.out, "%s [%s]: ", label, hint)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid confirmation %q (expected y or n)", line)
}

func (t *Terminal) Choose(key, label string, options []string, def int) (int, error) {
	fmt.Fprintf(t.out, "%s\n", label)
	for i, opt := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprintf(t.out, "Select [%d]: ", def+1)

	line, err := t.readLine()
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(options) {
		return 0, fmt.Errorf("invalid selection %q (expected 1-%d)", line, len(options))
	}
	return n - 1, nil
}

// AskInt asks a free-text question and parses the answer as a positive
// integer, applying the default on empty input.
func AskInt(src Source, key, label string, def int) (int, error) {
	answer, err := src.Ask(Question{Key: key, Label: label, Default: strconv.Itoa(def)})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q for %s", answer, key)
	}
	return n, nil
}
