package monitor

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queueDepthDesc = prometheus.NewDesc(
		"laraforge_queue_depth",
		"Pending jobs per queue (redis driver only).",
		[]string{"queue"}, nil,
	)
	workerStateDesc = prometheus.NewDesc(
		"laraforge_worker_processes",
		"Supervisor worker processes by state.",
		[]string{"state"}, nil,
	)
)

// reportCollector exposes the live report as Prometheus metrics, sampled
// on every scrape.
type reportCollector struct {
	reporter *Reporter
	timeout  time.Duration
}

func newReportCollector(reporter *Reporter) *reportCollector {
	return &reportCollector{reporter: reporter, timeout: 10 * time.Second}
}

func (c *reportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queueDepthDesc
	ch <- workerStateDesc
}

func (c *reportCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	report, err := c.reporter.Collect(ctx)
	if err != nil {
		log.Printf("metrics: collect report: %v", err)
		return
	}

	states := map[string]int{}
	for _, row := range report.Workers {
		states[strings.ToLower(row.State)]++
	}
	for state, n := range states {
		ch <- prometheus.MustNewConstMetric(workerStateDesc, prometheus.GaugeValue, float64(n), state)
	}

	for queue, depth := range report.QueueDepths {
		ch <- prometheus.MustNewConstMetric(queueDepthDesc, prometheus.GaugeValue, float64(depth), queue)
	}
}
