package cmd

import (
	"fmt"

	"github.com/abhisek/practiz/internal/app"
	"github.com/abhisek/practiz/internal/config"
	"github.com/spf13/cobra"
)

// openApp loads the config named by --config, applies --db (highest
// priority), and builds the application.
func openApp(cmd *cobra.Command) (*app.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	return app.New(cfg, app.Options{LogWriter: cmd.ErrOrStderr()})
}

// learnerFlag returns the required --learner flag.
func learnerFlag(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("learner")
	if id == "" {
		return "", fmt.Errorf("--learner is required")
	}
	return id, nil
}
