package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// envKeyOrder keeps appended keys in a stable order so repeated patching
// is deterministic.
var envKeyOrder = []string{"QUEUE_CONNECTION", "CACHE_DRIVER", "SESSION_DRIVER", "REDIS_HOST", "REDIS_PORT"}

// patchEnvDrivers rewrites the driver keys in the project's .env to match
// the selection. Keys not present are appended; everything else in the
// file is left untouched.
func (p *Pipeline) patchEnvDrivers() error {
	path := filepath.Join(p.Session.ProjectPath, ".env")
	updates := map[string]string{
		"QUEUE_CONNECTION": string(p.Session.Drivers.Queue),
		"CACHE_DRIVER":     string(p.Session.Drivers.Cache),
		"SESSION_DRIVER":   string(p.Session.Drivers.Session),
	}
	if p.Session.Drivers.NeedsInMemoryStore {
		host, port, ok := strings.Cut(p.Session.RedisAddr, ":")
		if ok {
			updates["REDIS_HOST"] = host
			updates["REDIS_PORT"] = port
		}
	}
	return patchEnvFile(path, updates)
}

func patchEnvFile(path string, updates map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read .env: %w", err)
	}

	pending := make(map[string]string, len(updates))
	for k, v := range updates {
		pending[k] = v
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		key, _, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if value, exists := pending[key]; exists {
			lines[i] = key + "=" + value
			delete(pending, key)
		}
	}

	for _, key := range envKeyOrder {
		if value, ok := pending[key]; ok {
			lines = append(lines, key+"="+value)
		}
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0640)
}
