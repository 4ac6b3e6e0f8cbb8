package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		cores       int
		ramGB       int
		wantTier    Tier
		wantWorkers int
	}{
		{"high tier", 4, 8, TierHigh, 8},
		{"high tier large", 8, 16, TierHigh, 16},
		{"medium tier", 2, 4, TierMedium, 2},
		{"medium ram below high", 4, 7, TierMedium, 4},
		{"medium cores below high", 3, 32, TierMedium, 3},
		{"basic single core", 1, 16, TierBasic, 2},
		{"basic low ram", 8, 2, TierBasic, 2},
		{"basic tiny", 1, 0, TierBasic, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, workers := Classify(tt.cores, tt.ramGB)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantWorkers, workers)
		})
	}
}

func TestQueueDefinitionDerivedFields(t *testing.T) {
	q := QueueDefinition{Name: "default", ProcessCount: 16, Priority: 1, MaxRuntimeSeconds: 3600}

	assert.Equal(t, 1000, q.SupervisorPriority())
	assert.Equal(t, 3720, q.StopWaitSeconds())
	assert.Equal(t, 3660, q.CommandTimeout())

	q.Priority = 5
	q.MaxRuntimeSeconds = 60
	assert.Equal(t, 1040, q.SupervisorPriority())
	assert.Equal(t, 180, q.StopWaitSeconds())
	assert.Equal(t, 120, q.CommandTimeout())
}

func TestHostProfileValidate(t *testing.T) {
	good := HostProfile{CPUCores: 4, TotalRAMGB: 8, AvailableRAMGB: 5, Tier: TierHigh, RecommendedProcesses: 8}
	require.NoError(t, good.Validate())

	bad := good
	bad.CPUCores = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.Tier = "huge"
	assert.Error(t, bad.Validate())

	bad = good
	bad.RecommendedProcesses = 0
	assert.Error(t, bad.Validate())
}

func TestSessionSaveLoad(t *testing.T) {
	dir := t.TempDir()

	s := NewSession("shop", dir)
	s.Profile = HostProfile{CPUCores: 8, TotalRAMGB: 16, AvailableRAMGB: 10, Tier: TierHigh, RecommendedProcesses: 16}
	fallback := DriverDatabase
	s.Drivers = DriverSelection{
		Queue:              DriverRedis,
		QueueFallback:      &fallback,
		Cache:              DriverRedis,
		Session:            DriverFile,
		NeedsInMemoryStore: true,
	}
	s.Plan = QueuePlan{Queues: []QueueDefinition{
		{Name: "default", ProcessCount: 16, Priority: 1, MaxRuntimeSeconds: 3600},
		{Name: "emails", ProcessCount: 2, Priority: 3, MaxRuntimeSeconds: 600},
	}}

	require.NoError(t, s.Save())

	loaded, err := LoadSession(dir)
	require.NoError(t, err)
	assert.Equal(t, s.ProjectName, loaded.ProjectName)
	assert.Equal(t, s.Profile, loaded.Profile)
	assert.Equal(t, s.Plan, loaded.Plan)
	require.NotNil(t, loaded.Drivers.QueueFallback)
	assert.Equal(t, DriverDatabase, *loaded.Drivers.QueueFallback)
	assert.True(t, loaded.Drivers.NeedsInMemoryStore)
}

func TestLoadSessionMissing(t *testing.T) {
	_, err := LoadSession(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestQueuePlanNames(t *testing.T) {
	p := QueuePlan{Queues: []QueueDefinition{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, []string{"a", "b"}, p.Names())
}
