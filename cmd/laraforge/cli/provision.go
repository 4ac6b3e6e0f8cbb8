package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"laraforge/internal/command"
	"laraforge/internal/drivers"
	"laraforge/internal/hostinfo"
	"laraforge/internal/model"
	"laraforge/internal/prompt"
	"laraforge/internal/provision"
)

type provisionFlags struct {
	project    string
	path       string
	user       string
	confDir    string
	scriptDir  string
	redisAddr  string
	answers    string
	dryRun     bool
	skipSystem bool
	skipChown  bool
}

var provFlags provisionFlags

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Run the full interactive provisioning pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvision(provFlags)
	},
}

func init() {
	f := provisionCmd.Flags()
	f.StringVar(&provFlags.project, "project", "", "project name (prompted when empty)")
	f.StringVar(&provFlags.path, "path", "", "project path (default /var/www/<project>)")
	f.StringVar(&provFlags.user, "user", "www-data", "service user running the workers")
	f.StringVar(&provFlags.confDir, "conf-dir", model.DefaultConfDir, "supervisor conf drop directory")
	f.StringVar(&provFlags.scriptDir, "script-dir", "/usr/local/bin", "monitor script install directory")
	f.StringVar(&provFlags.redisAddr, "redis-addr", "127.0.0.1:6379", "redis address for driver config and monitoring")
	f.StringVar(&provFlags.answers, "answers", "", "YAML answer file for non-interactive runs")
	f.BoolVar(&provFlags.dryRun, "dry-run", false, "render stanzas and print steps without executing")
	f.BoolVar(&provFlags.skipSystem, "skip-system", false, "skip package and service provisioning")
	f.BoolVar(&provFlags.skipChown, "skip-chown", false, "do not change log file ownership (unprivileged runs)")
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(flags provisionFlags) error {
	src, err := buildSource(flags.answers)
	if err != nil {
		return err
	}

	// The profile must exist before any queue definition is validated
	// against it.
	profile, err := hostinfo.New().Profile()
	if err != nil {
		return fmt.Errorf("host profiling failed: %w", err)
	}
	fmt.Print(hostinfo.Describe(profile))

	projectName := flags.project
	if projectName == "" {
		projectName, err = src.Ask(prompt.Question{Key: "project_name", Label: "Project name", Default: "laravel"})
		if err != nil {
			return err
		}
	}
	projectPath := flags.path
	if projectPath == "" {
		projectPath = "/var/www/" + projectName
	}

	session := model.NewSession(projectName, projectPath)
	session.ServiceUser = flags.user
	session.ConfDir = flags.confDir
	session.RedisAddr = flags.redisAddr
	session.Profile = profile

	selection, err := drivers.Collect(src)
	if err != nil {
		return err
	}
	session.Drivers = selection
	drivers.Echo(os.Stdout, selection)

	if !flags.skipSystem {
		pipeline := &provision.Pipeline{
			Session: session,
			Runner:  command.Exec{},
			Source:  src,
			Out:     os.Stdout,
			DryRun:  flags.dryRun,
		}
		if err := pipeline.Run(); err != nil {
			return err
		}
	}

	return runQueuePipeline(session, src, queueOptions{
		confDir:   flags.confDir,
		scriptDir: flags.scriptDir,
		dryRun:    flags.dryRun,
		skipChown: flags.skipChown,
	})
}
