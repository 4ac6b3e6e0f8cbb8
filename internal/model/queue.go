package model

// QueueDefinition describes one named worker queue as entered by the
// operator. The name is used verbatim in supervisor group names and file
// paths, so it must survive validation before emission.
type QueueDefinition struct {
	Name              string `yaml:"name" json:"name"`
	ProcessCount      int    `yaml:"process_count" json:"process_count"`
	Priority          int    `yaml:"priority" json:"priority"` // 1 (highest) .. 5
	MaxRuntimeSeconds int    `yaml:"max_runtime_seconds" json:"max_runtime_seconds"`
}

// SupervisorPriority maps the operator-facing 1..5 priority onto the
// supervisord priority range. Lower supervisord values start earlier.
func (q QueueDefinition) SupervisorPriority() int {
	return 990 + q.Priority*10
}

// StopWaitSeconds is how long supervisord waits for a worker to drain its
// current job before killing it on stop: the job runtime bound plus slack.
func (q QueueDefinition) StopWaitSeconds() int {
	return q.MaxRuntimeSeconds + 120
}

// CommandTimeout bounds the worker command itself (--timeout).
func (q QueueDefinition) CommandTimeout() int {
	return q.MaxRuntimeSeconds + 60
}

// QueuePlan is the ordered set of queue definitions. Order is preserved as
// entered; it only determines emission iteration order.
type QueuePlan struct {
	Queues []QueueDefinition `yaml:"queues" json:"queues"`
}

// Names returns the queue names in plan order.
func (p QueuePlan) Names() []string {
	names := make([]string, 0, len(p.Queues))
	for _, q := range p.Queues {
		names = append(names, q.Name)
	}
	return names
}
