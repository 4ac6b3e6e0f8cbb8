package queueplan

import (
	"fmt"
	"regexp"
	"strings"

	"laraforge/internal/model"
)

type ValidationError struct {
	FieldPath string
	Message   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldPath, e.Message)
}

type ValidationErrors struct {
	Errors []ValidationError
}

func (ve *ValidationErrors) Add(fieldPath, message string) {
	ve.Errors = append(ve.Errors, ValidationError{FieldPath: fieldPath, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

func (ve *ValidationErrors) FormatStderr() string {
	var sb strings.Builder
	for _, e := range ve.Errors {
		fmt.Fprintf(&sb, "error: %s: %s\n", e.FieldPath, e.Message)
	}
	return sb.String()
}

// safeName matches names usable in supervisor group names and file paths.
var safeName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidatePlan checks every definition and cross-slot constraints.
// Duplicate names are rejected: two queues with the same name would write
// the same conf file and silently lose a stanza.
func ValidatePlan(plan model.QueuePlan) *ValidationErrors {
	errs := &ValidationErrors{}

	if len(plan.Queues) == 0 {
		errs.Add("queues", "at least one queue is required")
		return errs
	}

	seen := make(map[string]int, len(plan.Queues))
	for i, q := range plan.Queues {
		prefix := fmt.Sprintf("queues[%d]", i)
		validateDefinition(q, prefix, errs)

		if q.Name == "" {
			continue
		}
		if prev, dup := seen[q.Name]; dup {
			errs.Add(prefix+".name", fmt.Sprintf("duplicate queue name %q (already used by queues[%d])", q.Name, prev))
			continue
		}
		seen[q.Name] = i
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateDefinition(q model.QueueDefinition, prefix string, errs *ValidationErrors) {
	if q.Name == "" {
		errs.Add(prefix+".name", "required field is missing")
	} else if !safeName.MatchString(q.Name) {
		errs.Add(prefix+".name", fmt.Sprintf("invalid name %q (allowed: letters, digits, _ and -)", q.Name))
	}
	if q.ProcessCount < 1 {
		errs.Add(prefix+".process_count", fmt.Sprintf("must be >= 1, got %d", q.ProcessCount))
	}
	if q.Priority < 1 || q.Priority > 5 {
		errs.Add(prefix+".priority", fmt.Sprintf("must be 1-5, got %d", q.Priority))
	}
	if q.MaxRuntimeSeconds < 1 {
		errs.Add(prefix+".max_runtime_seconds", fmt.Sprintf("must be >= 1, got %d", q.MaxRuntimeSeconds))
	}
}
