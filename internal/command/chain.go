package command

import (
	"fmt"
	"strings"
)

// Attempt is one strategy in a fallback chain.
type Attempt struct {
	Name string
	Argv []string
}

// Chain is an ordered list of attempts evaluated until one succeeds.
type Chain struct {
	Label    string
	Attempts []Attempt
}

// ChainResult records which attempt succeeded, or that all failed.
type ChainResult struct {
	Succeeded string   // name of the winning attempt, empty if none
	Tried     []string // names in evaluation order
	Errs      []error  // one per failed attempt, aligned with Tried
}

// OK reports whether any attempt succeeded.
func (r ChainResult) OK() bool {
	return r.Succeeded != ""
}

func (r ChainResult) Error() string {
	msgs := make([]string, 0, len(r.Errs))
	for i, err := range r.Errs {
		msgs = append(msgs, fmt.Sprintf("%s: %v", r.Tried[i], err))
	}
	return strings.Join(msgs, "; ")
}

// Eval runs the attempts in order, stopping at the first success. Failures
// before a success are swallowed into the result; if every attempt fails
// the caller decides whether that is fatal.
func (c Chain) Eval(runner Runner) ChainResult {
	result := ChainResult{}
	for _, a := range c.Attempts {
		err := runner.Run(a.Argv[0], a.Argv[1:]...)
		if err == nil {
			result.Succeeded = a.Name
			return result
		}
		result.Tried = append(result.Tried, a.Name)
		result.Errs = append(result.Errs, err)
	}
	return result
}
