// Package queueplan collects and validates the operator's queue
// definitions against the host profile.
package queueplan

import (
	"fmt"
	"io"

	"laraforge/internal/model"
	"laraforge/internal/prompt"
)

const (
	defaultPriority   = 3
	defaultMaxRuntime = 3600
)

// Builder assembles a QueuePlan from prompt answers. The host profile must
// be computed before Build is called; it supplies slot-1 defaults and the
// over-provisioning bound.
type Builder struct {
	Profile model.HostProfile
	Source  prompt.Source
	Out     io.Writer
}

// Build collects count queue definitions (slots are 1-indexed in all
// operator-facing text). The returned plan preserves entry order.
func (b *Builder) Build(count int) (model.QueuePlan, error) {
	if count < 1 {
		return model.QueuePlan{}, fmt.Errorf("queue count must be >= 1, got %d", count)
	}

	plan := model.QueuePlan{Queues: make([]model.QueueDefinition, 0, count)}
	for i := 1; i <= count; i++ {
		def, err := b.buildSlot(i)
		if err != nil {
			return model.QueuePlan{}, err
		}
		plan.Queues = append(plan.Queues, def)
	}

	if errs := ValidatePlan(plan); errs != nil {
		return model.QueuePlan{}, errs
	}
	return plan, nil
}

func (b *Builder) buildSlot(i int) (model.QueueDefinition, error) {
	defaultName := "default"
	defaultProcs := b.Profile.RecommendedProcesses
	if i > 1 {
		defaultName = fmt.Sprintf("queue%d", i)
		defaultProcs = 2
	}

	name, err := b.Source.Ask(prompt.Question{
		Key:     fmt.Sprintf("queue%d_name", i),
		Label:   fmt.Sprintf("Queue %d name", i),
		Default: defaultName,
	})
	if err != nil {
		return model.QueueDefinition{}, err
	}

	procs, err := prompt.AskInt(b.Source, fmt.Sprintf("queue%d_processes", i),
		fmt.Sprintf("Worker processes for %q", name), defaultProcs)
	if err != nil {
		return model.QueueDefinition{}, err
	}

	procs, err = b.checkOverProvision(i, name, procs)
	if err != nil {
		return model.QueueDefinition{}, err
	}

	priority, err := prompt.AskInt(b.Source, fmt.Sprintf("queue%d_priority", i),
		fmt.Sprintf("Priority for %q (1=highest, 5=lowest)", name), defaultPriority)
	if err != nil {
		return model.QueueDefinition{}, err
	}

	maxRuntime, err := prompt.AskInt(b.Source, fmt.Sprintf("queue%d_max_runtime", i),
		fmt.Sprintf("Max job runtime for %q (seconds)", name), defaultMaxRuntime)
	if err != nil {
		return model.QueueDefinition{}, err
	}

	return model.QueueDefinition{
		Name:              name,
		ProcessCount:      procs,
		Priority:          priority,
		MaxRuntimeSeconds: maxRuntime,
	}, nil
}

// checkOverProvision enforces the sizing rule: a request above twice the
// recommended count needs explicit confirmation. On decline the count is
// replaced with the recommended value and the build continues without
// re-prompting; the substituted value is echoed so the operator sees it.
func (b *Builder) checkOverProvision(slot int, name string, procs int) (int, error) {
	limit := 2 * b.Profile.RecommendedProcesses
	if procs <= limit {
		return procs, nil
	}

	fmt.Fprintf(b.Out, "warning: %d processes for %q exceeds twice the recommended %d for this host\n",
		procs, name, b.Profile.RecommendedProcesses)

	keep, err := b.Source.Confirm(fmt.Sprintf("queue%d_over_provision", slot),
		fmt.Sprintf("Keep %d processes anyway?", procs), false)
	if err != nil {
		return 0, err
	}
	if keep {
		return procs, nil
	}

	fmt.Fprintf(b.Out, "using recommended count %d for %q\n", b.Profile.RecommendedProcesses, name)
	return b.Profile.RecommendedProcesses, nil
}
