package prompt

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"
)

// Answers replays prompt answers from a YAML file keyed by question key,
// enabling non-interactive runs. A missing key takes the question's
// default, unless Strict is set.
type Answers struct {
	values map[string]string

	// Strict makes a missing key an error instead of falling back to the
	// question default. Useful for CI runs that must not guess.
	Strict bool
}

// LoadAnswers parses a flat YAML map of question key to answer.
func LoadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}

	raw := map[string]any{}
	if err := yamlv3.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers file: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[k] = fmt.Sprintf("%v", v)
	}
	return &Answers{values: values}, nil
}

// NewAnswers builds an answer source from an in-memory map.
func NewAnswers(values map[string]string) *Answers {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Answers{values: copied}
}

func (a *Answers) lookup(key string) (string, bool, error) {
	v, ok := a.values[key]
	if !ok && a.Strict {
		return "", false, fmt.Errorf("answers file: missing key %q", key)
	}
	return v, ok, nil
}

func (a *Answers) Ask(q Question) (string, error) {
	v, ok, err := a.lookup(q.Key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return q.Default, nil
	}
	return v, nil
}

func (a *Answers) Confirm(key, label string, def bool) (bool, error) {
	v, ok, err := a.lookup(key)
	if err != nil {
		return false, err
	}
	if !ok || v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("answers file: invalid confirmation %q for %s", v, key)
}

func (a *Answers) Choose(key, label string, options []string, def int) (int, error) {
	v, ok, err := a.lookup(key)
	if err != nil {
		return 0, err
	}
	if !ok || v == "" {
		return def, nil
	}

	// Accept either the option text or a 1-based index.
	for i, opt := range options {
		if strings.EqualFold(v, opt) {
			return i, nil
		}
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil || n < 1 || n > len(options) {
		return 0, fmt.Errorf("answers file: invalid selection %q for %s", v, key)
	}
	return n - 1, nil
}
