// Package provision runs the system-level installation steps: packages,
// web server, PHP, database, Composer, Node tooling, redis, and TLS. Every
// step shells out through a command.Runner; nothing here implements the
// underlying tools.
package provision

import (
	"fmt"
	"io"
	"log"

	"laraforge/internal/command"
	"laraforge/internal/model"
	"laraforge/internal/prompt"
)

// Pipeline executes the provisioning steps in order against one session.
type Pipeline struct {
	Session *model.Session
	Runner  command.Runner
	Source  prompt.Source
	Out     io.Writer

	// DryRun prints each step without executing it.
	DryRun bool

	// Paths overridable for tests.
	NginxAvailableDir string
	NginxEnabledDir   string
}

// Step is one provisioning action. BestEffort steps warn and continue on
// failure; the rest are fatal.
type Step struct {
	Name       string
	BestEffort bool
	Skip       func(*Pipeline) bool
	Run        func(*Pipeline) error
}

// Steps is the fixed provisioning order. Redis is only provisioned when a
// driver needs the in-memory store; TLS is gated on an operator prompt
// inside its step.
func Steps() []Step {
	return []Step{
		{Name: "system packages", Run: (*Pipeline).installBasePackages},
		{Name: "web server", Run: (*Pipeline).installWebServer},
		{Name: "php runtime", Run: (*Pipeline).installPHP},
		{Name: "database server", Run: (*Pipeline).installDatabase},
		{
			Name: "redis server",
			Skip: func(p *Pipeline) bool { return !p.Session.Drivers.NeedsInMemoryStore },
			Run:  (*Pipeline).installRedis,
		},
		{Name: "composer dependencies", Run: (*Pipeline).runComposer},
		{Name: "frontend build", BestEffort: true, Run: (*Pipeline).runNodeBuild},
		{Name: "environment drivers", Run: (*Pipeline).patchEnvDrivers},
		{Name: "nginx vhost", Run: (*Pipeline).writeVhost},
		{Name: "storage permissions", BestEffort: true, Run: (*Pipeline).fixPermissions},
		{Name: "storage link", BestEffort: true, Run: (*Pipeline).storageLink},
		{Name: "tls certificate", Run: (*Pipeline).issueTLS},
	}
}

// Run executes the steps. Fatal step failures abort immediately;
// best-effort failures are logged as warnings and execution continues.
// Nothing is rolled back on abort.
func (p *Pipeline) Run() error {
	if p.NginxAvailableDir == "" {
		p.NginxAvailableDir = "/etc/nginx/sites-available"
	}
	if p.NginxEnabledDir == "" {
		p.NginxEnabledDir = "/etc/nginx/sites-enabled"
	}

	for _, step := range Steps() {
		if step.Skip != nil && step.Skip(p) {
			continue
		}
		if p.DryRun {
			fmt.Fprintf(p.Out, "would run: %s\n", step.Name)
			continue
		}

		fmt.Fprintf(p.Out, "==> %s\n", step.Name)
		if err := step.Run(p); err != nil {
			if step.BestEffort {
				log.Printf("warning: %s: %v", step.Name, err)
				continue
			}
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}

// confirmContinue asks whether to continue in a degraded state after a
// fallback chain is exhausted.
func (p *Pipeline) confirmContinue(key, label string) (bool, error) {
	return p.Source.Confirm(key, label, false)
}
