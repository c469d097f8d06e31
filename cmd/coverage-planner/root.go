package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/internal/config"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "coverage-planner",
	Short: "Boustrophedon coverage planner for small UAV fleets",
	Long: `coverage-planner turns a survey polygon into a serpentine flight path
that sweeps the area with evenly spaced passes. It can also seed a hexagonal
survey grid in Neo4j, assign cells to a UAV fleet and serve everything over
HTTP.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig runs before any command. Without --config the built-in defaults
// apply; with it, the file is read over the defaults.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		cfg = config.Default()
		return nil
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(serveCmd)
}
