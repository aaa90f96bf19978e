package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tgienger/firmdesk/internal/config"
	"github.com/tgienger/firmdesk/internal/db"
	"github.com/tgienger/firmdesk/internal/logging"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// session is what every command runs with. It is built once per invocation
// by the root command.
type session struct {
	cfg *config.Config
	log *logrus.Logger
}

func (s *session) openStore() (*db.DB, error) {
	s.log.WithField("path", s.cfg.DBPath).Debug("opening database")
	return db.New(s.cfg.DBPath)
}

var (
	// Used for flags.
	dbPath     string
	configPath string

	sess *session

	rootCmd = &cobra.Command{
		Use:   "firmdesk",
		Short: "Manage clients, tasks, teams and todos for a small practice.",
		Long: `firmdesk keeps a practice's clients, tasks, assignee teams and personal todos in a local database.
Records can be added one at a time or uploaded in bulk from CSV files; every upload is validated row by row before anything is written.`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.SetVersionTemplate("firmdesk {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (overrides config).")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file.")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

// setup loads the configuration and builds the logger for the command.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	sess = &session{cfg: cfg, log: log}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
