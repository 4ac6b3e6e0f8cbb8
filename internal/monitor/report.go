package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"laraforge/internal/command"
	"laraforge/internal/model"
	"laraforge/internal/supervisor"
)

// QueueLister is the slice of the redis client the reporter needs.
// *redis.Client satisfies it.
type QueueLister interface {
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Report is a point-in-time view of the queue workers and, when a redis
// driver is in play, the pending job counts.
type Report struct {
	Workers     []supervisor.StatusRow `json:"workers"`
	QueueDepths map[string]int64       `json:"queue_depths,omitempty"`
}

// Reporter collects a Report for one project session.
type Reporter struct {
	Session *model.Session
	Runner  command.Runner

	// Redis is nil when no redis driver was selected; queue depths are
	// then omitted from the report.
	Redis QueueLister
}

// NewRedisClient builds the queue-depth probe client for a session.
// Returns nil when the session's drivers never touch redis.
func NewRedisClient(session *model.Session) QueueLister {
	if !session.Drivers.NeedsInMemoryStore {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: session.RedisAddr})
}

// Collect gathers supervisor status and redis queue depths concurrently.
// A redis probe failure fails the report: a monitor that silently drops
// half its numbers is worse than one that errors.
func (r *Reporter) Collect(ctx context.Context) (Report, error) {
	report := Report{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := supervisor.Ctl{Runner: r.Runner}.Status()
		if err != nil {
			return fmt.Errorf("supervisor status: %w", err)
		}
		report.Workers = supervisor.ParseStatus(out, r.Session.ProjectName+"_")
		return nil
	})

	if r.Redis != nil {
		depths := make(map[string]int64, len(r.Session.Plan.Queues))
		g.Go(func() error {
			for _, q := range r.Session.Plan.Queues {
				n, err := r.Redis.LLen(ctx, "queues:"+q.Name).Result()
				if err != nil {
					return fmt.Errorf("redis llen %s: %w", q.Name, err)
				}
				depths[q.Name] = n
			}
			return nil
		})
		report.QueueDepths = depths
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}

// Print renders the report as text or indented JSON.
func (r Report) Print(w io.Writer, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if len(r.Workers) > 0 {
		fmt.Fprintln(w, "Workers:")
		for _, row := range r.Workers {
			fmt.Fprintf(w, "  %-40s  %-10s  %s\n", row.Name, row.State, row.Info)
		}
	} else {
		fmt.Fprintln(w, "Workers: none")
	}

	if r.QueueDepths != nil {
		names := make([]string, 0, len(r.QueueDepths))
		for name := range r.QueueDepths {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "\nQueue depths:")
		for _, name := range names {
			fmt.Fprintf(w, "  %-20s  %d\n", name, r.QueueDepths[name])
		}
	}
	return nil
}
