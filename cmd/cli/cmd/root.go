// Package cmd provides the CLI commands for fleet-cost.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fleet-cost/core/engine"
	"fleet-cost/core/inventory"
	"fleet-cost/internal/config"
	"fleet-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

const version = "1.0.0"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fleet-cost",
	Short: "Simulate and query EC2 fleet cost and usage",
	Long: `fleet-cost is a synthetic Cost-Explorer-style engine for EC2 fleets.

It fabricates deterministic, internally-consistent cost and usage data
from an instance inventory, and can proxy the real Cost Explorer API
when AWS credentials are configured.

Examples:
  fleet-cost query --start 2025-09-01 --end 2025-09-08
  fleet-cost query --start 2025-09-01 --end 2025-10-01 --granularity MONTHLY --group-by TAG:Team
  fleet-cost dimensions REGION --start 2025-09-01 --end 2025-09-08
  fleet-cost tags Team`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fleet-cost.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(dimensionsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
}

// buildEngine wires the simulator from the active configuration
func buildEngine() (*engine.Engine, error) {
	cfg := config.Get()

	var source inventory.Source
	if _, err := os.Stat(cfg.Inventory.Path); err == nil {
		source = inventory.NewFileSource(cfg.Inventory.Path)
	} else {
		base := time.Now().UTC()
		if cfg.Simulation.ReferenceDate != "" {
			if parsed, err := time.Parse("2006-01-02", cfg.Simulation.ReferenceDate); err == nil {
				base = parsed
			}
		}
		source = inventory.NewSyntheticSource(cfg.Inventory.SyntheticCount, "fleet", base)
	}

	var opts []engine.Option
	if cfg.Simulation.ReferenceDate != "" {
		ref, err := time.Parse("2006-01-02", cfg.Simulation.ReferenceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid reference date %q: %w", cfg.Simulation.ReferenceDate, err)
		}
		opts = append(opts, engine.WithReference(ref))
	}
	return engine.New(source, opts...), nil
}

// versionCmd prints the CLI version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fleet-cost %s\n", version)
	},
}
