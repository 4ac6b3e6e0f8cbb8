package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"laraforge/internal/command"
	"laraforge/internal/model"
	"laraforge/internal/monitor"
)

var (
	monitorPath      string
	monitorScriptDir string
	monitorJSON      bool
	monitorAddr      string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Install and run the queue monitoring tools",
}

var monitorInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the fixed queue status script",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := monitor.Install(monitorScriptDir)
		if err != nil {
			return err
		}
		fmt.Printf("installed %s\n", path)
		return nil
	},
}

var monitorReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a one-shot queue worker report",
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter, err := buildReporter()
		if err != nil {
			return err
		}
		report, err := reporter.Collect(cmd.Context())
		if err != nil {
			return err
		}
		return report.Print(os.Stdout, monitorJSON)
	},
}

var monitorServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the queue report over HTTP with Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter, err := buildReporter()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Printf("monitor listening on %s\n", monitorAddr)
		return monitor.Serve(ctx, monitorAddr, reporter)
	},
}

var monitorWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the supervisor conf and queue log directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := loadMonitorSession()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		logDir := filepath.Join(session.ProjectPath, "storage", "logs")
		return monitor.Watch(ctx, os.Stdout, session.ConfDir, logDir)
	},
}

func init() {
	monitorCmd.PersistentFlags().StringVar(&monitorPath, "path", "", "project path with a saved laraforge session")
	monitorInstallCmd.Flags().StringVar(&monitorScriptDir, "script-dir", monitor.DefaultScriptDir, "install directory")
	monitorReportCmd.Flags().BoolVar(&monitorJSON, "json", false, "machine-readable output")
	monitorServeCmd.Flags().StringVar(&monitorAddr, "addr", ":9741", "listen address")

	monitorCmd.AddCommand(monitorInstallCmd, monitorReportCmd, monitorServeCmd, monitorWatchCmd)
	rootCmd.AddCommand(monitorCmd)
}

func loadMonitorSession() (*model.Session, error) {
	if monitorPath == "" {
		return nil, fmt.Errorf("--path is required (a project provisioned by laraforge)")
	}
	session, err := model.LoadSession(monitorPath)
	if err != nil {
		return nil, fmt.Errorf("no laraforge session at %s: %w", monitorPath, err)
	}
	return session, nil
}

func buildReporter() (*monitor.Reporter, error) {
	session, err := loadMonitorSession()
	if err != nil {
		return nil, err
	}
	return &monitor.Reporter{
		Session: session,
		Runner:  command.Exec{},
		Redis:   monitor.NewRedisClient(session),
	}, nil
}
