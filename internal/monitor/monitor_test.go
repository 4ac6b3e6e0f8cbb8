package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laraforge/internal/command"
	"laraforge/internal/model"
)

func TestInstallIdempotent(t *testing.T) {
	dir := t.TempDir()

	path, err := Install(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ScriptName), path)

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(first), "#!/bin/sh\n"))
	assert.Contains(t, string(first), "supervisorctl status | grep queue")
	assert.Contains(t, string(first), "redis-cli")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	// Reinstall overwrites with identical content.
	_, err = Install(dir)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type fakeLister struct {
	depths map[string]int64
}

func (f fakeLister) LLen(ctx context.Context, key string) *redis.IntCmd {
	name := strings.TrimPrefix(key, "queues:")
	return redis.NewIntResult(f.depths[name], nil)
}

func reporterSession(t *testing.T) *model.Session {
	t.Helper()
	s := model.NewSession("myapp", t.TempDir())
	s.Drivers = model.DriverSelection{
		Queue: model.DriverRedis, Cache: model.DriverFile, Session: model.DriverFile,
		NeedsInMemoryStore: true,
	}
	s.Plan = model.QueuePlan{Queues: []model.QueueDefinition{
		{Name: "default", ProcessCount: 2, Priority: 3, MaxRuntimeSeconds: 3600},
		{Name: "emails", ProcessCount: 1, Priority: 2, MaxRuntimeSeconds: 600},
	}}
	return s
}

func testReporter(t *testing.T) *Reporter {
	t.Helper()
	runner := command.NewRecorder()
	runner.Outputs["supervisorctl status"] = "" +
		"myapp_default:myapp_default_00  RUNNING  pid 101, uptime 0:01:02\n" +
		"myapp_emails:myapp_emails_00   STOPPED  Not started\n" +
		"unrelated_web                  RUNNING  pid 7, uptime 1:00:00\n"

	return &Reporter{
		Session: reporterSession(t),
		Runner:  runner,
		Redis:   fakeLister{depths: map[string]int64{"default": 5, "emails": 0}},
	}
}

func TestReporterCollect(t *testing.T) {
	report, err := testReporter(t).Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Workers, 2, "only this project's groups")
	assert.Equal(t, "RUNNING", report.Workers[0].State)

	require.NotNil(t, report.QueueDepths)
	assert.Equal(t, int64(5), report.QueueDepths["default"])
	assert.Equal(t, int64(0), report.QueueDepths["emails"])
}

func TestReporterCollectWithoutRedis(t *testing.T) {
	r := testReporter(t)
	r.Redis = nil

	report, err := r.Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report.QueueDepths)
}

func TestNewRedisClientNilWithoutInMemoryStore(t *testing.T) {
	s := model.NewSession("myapp", t.TempDir())
	assert.Nil(t, NewRedisClient(s))

	s.Drivers.NeedsInMemoryStore = true
	assert.NotNil(t, NewRedisClient(s))
}

func TestReportPrintText(t *testing.T) {
	report, err := testReporter(t).Collect(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Print(&buf, false))
	out := buf.String()
	assert.Contains(t, out, "myapp_default:myapp_default_00")
	assert.Contains(t, out, "Queue depths:")
	assert.Contains(t, out, "default")
}

func TestReportPrintJSON(t *testing.T) {
	report, err := testReporter(t).Collect(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Print(&buf, true))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Workers, 2)
	assert.Equal(t, int64(5), decoded.QueueDepths["default"])
}

func TestRouterStatusAndHealth(t *testing.T) {
	router := NewRouter(testReporter(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Workers, 2)
}

func TestRouterMetrics(t *testing.T) {
	router := NewRouter(testReporter(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `laraforge_queue_depth{queue="default"} 5`)
	assert.Contains(t, body, `laraforge_worker_processes{state="running"} 1`)
	assert.Contains(t, body, `laraforge_worker_processes{state="stopped"} 1`)
}

// syncBuffer guards the watch output against concurrent writes from the
// watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReportsEvents(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buf := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, buf, dir)
	}()

	// Give the watcher time to register, then trigger an event.
	for i := 0; i < 100 && !strings.Contains(buf.String(), "watching"); i++ {
		time.Sleep(10 * time.Millisecond)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "myapp_default.conf"), []byte("x"), 0644))

	for i := 0; i < 100 && !strings.Contains(buf.String(), "myapp_default.conf"); i++ {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, buf.String(), "myapp_default.conf")
}

func TestWatchNoDirectories(t *testing.T) {
	err := Watch(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
