package model

// Driver identifies a Laravel backend driver for queues, cache, or sessions.
type Driver string

const (
	DriverDatabase Driver = "database"
	DriverRedis    Driver = "redis"
	DriverFile     Driver = "file"
)

// QueueDrivers, CacheDrivers, and SessionDrivers are the menu orders shown
// to the operator. Index positions are part of the prompt contract.
var (
	QueueDrivers   = []Driver{DriverDatabase, DriverRedis}
	CacheDrivers   = []Driver{DriverFile, DriverRedis, DriverDatabase}
	SessionDrivers = []Driver{DriverFile, DriverRedis, DriverDatabase}
)

// DriverSelection holds the resolved backend choices. Immutable once
// collected; NeedsInMemoryStore is derived, never set directly.
type DriverSelection struct {
	Queue         Driver  `yaml:"queue" json:"queue"`
	QueueFallback *Driver `yaml:"queue_fallback,omitempty" json:"queue_fallback,omitempty"`
	Cache         Driver  `yaml:"cache" json:"cache"`
	Session       Driver  `yaml:"session" json:"session"`

	// NeedsInMemoryStore is true when any of the three picks is redis,
	// meaning redis-server must be provisioned before workers start.
	NeedsInMemoryStore bool `yaml:"needs_in_memory_store" json:"needs_in_memory_store"`
}
