package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultConfDir is where supervisor program stanzas are dropped.
const DefaultConfDir = "/etc/supervisor/conf.d"

// Session is the explicit configuration object threaded through every
// pipeline step. It replaces ambient state: nothing in the pipeline reads
// package-level variables or the environment for these values.
type Session struct {
	ProjectName string `yaml:"project_name"`
	ProjectPath string `yaml:"project_path"`
	ServiceUser string `yaml:"service_user"`
	ConfDir     string `yaml:"conf_dir"`
	RedisAddr   string `yaml:"redis_addr,omitempty"`

	Profile HostProfile     `yaml:"profile"`
	Drivers DriverSelection `yaml:"drivers"`
	Plan    QueuePlan       `yaml:"plan"`

	CreatedAt string `yaml:"created_at"`
}

// NewSession fills the fields that have universal defaults.
func NewSession(projectName, projectPath string) *Session {
	return &Session{
		ProjectName: projectName,
		ProjectPath: projectPath,
		ServiceUser: "www-data",
		ConfDir:     DefaultConfDir,
		RedisAddr:   "127.0.0.1:6379",
		CreatedAt:   time.Now().Format(time.RFC3339),
	}
}

// SessionPath is where a session is persisted inside the project.
func SessionPath(projectPath string) string {
	return filepath.Join(projectPath, ".laraforge", "session.yaml")
}

// Save writes the session atomically under <project>/.laraforge/.
func (s *Session) Save() error {
	path := SessionPath(s.ProjectPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	content, err := yamlv3.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".laraforge-tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// LoadSession reads a previously saved session from a project directory.
func LoadSession(projectPath string) (*Session, error) {
	data, err := os.ReadFile(SessionPath(projectPath))
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := yamlv3.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &s, nil
}
