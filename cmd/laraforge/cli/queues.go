package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"laraforge/internal/drivers"
	"laraforge/internal/hostinfo"
	"laraforge/internal/model"
	"laraforge/internal/prompt"
)

var queuesFlags provisionFlags

var queuesCmd = &cobra.Command{
	Use:   "queues",
	Short: "Plan and emit queue workers for an existing project",
	Long: "Runs only the queue pipeline: host profiling, queue plan building,\n" +
		"supervisor stanza emission, and monitor installation. System packages\n" +
		"and services are assumed to be in place.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueues(queuesFlags)
	},
}

func init() {
	f := queuesCmd.Flags()
	f.StringVar(&queuesFlags.project, "project", "", "project name (prompted when empty)")
	f.StringVar(&queuesFlags.path, "path", "", "project path (default /var/www/<project>)")
	f.StringVar(&queuesFlags.user, "user", "www-data", "service user running the workers")
	f.StringVar(&queuesFlags.confDir, "conf-dir", model.DefaultConfDir, "supervisor conf drop directory")
	f.StringVar(&queuesFlags.scriptDir, "script-dir", "/usr/local/bin", "monitor script install directory")
	f.StringVar(&queuesFlags.redisAddr, "redis-addr", "127.0.0.1:6379", "redis address for driver config and monitoring")
	f.StringVar(&queuesFlags.answers, "answers", "", "YAML answer file for non-interactive runs")
	f.BoolVar(&queuesFlags.dryRun, "dry-run", false, "render stanzas without writing or reloading")
	f.BoolVar(&queuesFlags.skipChown, "skip-chown", false, "do not change log file ownership (unprivileged runs)")
	rootCmd.AddCommand(queuesCmd)
}

func runQueues(flags provisionFlags) error {
	src, err := buildSource(flags.answers)
	if err != nil {
		return err
	}

	profile, err := hostinfo.New().Profile()
	if err != nil {
		return fmt.Errorf("host profiling failed: %w", err)
	}
	fmt.Print(hostinfo.Describe(profile))

	projectName := flags.project
	if projectName == "" {
		var askErr error
		projectName, askErr = src.Ask(prompt.Question{Key: "project_name", Label: "Project name", Default: "laravel"})
		if askErr != nil {
			return askErr
		}
	}
	projectPath := flags.path
	if projectPath == "" {
		projectPath = "/var/www/" + projectName
	}

	// Reuse a saved session's driver selection when one exists so the
	// worker command targets the right queue backend.
	session, err := model.LoadSession(projectPath)
	if err != nil {
		session = model.NewSession(projectName, projectPath)
		selection, selErr := drivers.Collect(src)
		if selErr != nil {
			return selErr
		}
		session.Drivers = selection
		drivers.Echo(os.Stdout, selection)
	}
	session.ProjectName = projectName
	session.ServiceUser = flags.user
	session.ConfDir = flags.confDir
	session.RedisAddr = flags.redisAddr
	session.Profile = profile

	return runQueuePipeline(session, src, queueOptions{
		confDir:   flags.confDir,
		scriptDir: flags.scriptDir,
		dryRun:    flags.dryRun,
		skipChown: flags.skipChown,
	})
}
