// Package main is the fleet-cost API server entry point
package main

import (
	"context"
	"flag"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	awsadapter "fleet-cost/adapters/aws"
	"fleet-cost/api"
	"fleet-cost/core/engine"
	"fleet-cost/core/inventory"
	"fleet-cost/internal/config"
	"fleet-cost/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgFile := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			logging.Fatal("load config", zap.Error(err))
		}
		config.Set(loaded)
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	source, err := buildSource(cfg)
	if err != nil {
		logging.Fatal("build inventory source", zap.Error(err))
	}

	var opts []engine.Option
	if cfg.Simulation.ReferenceDate != "" {
		ref, err := time.Parse("2006-01-02", cfg.Simulation.ReferenceDate)
		if err != nil {
			logging.Fatal("invalid reference date", zap.String("date", cfg.Simulation.ReferenceDate))
		}
		opts = append(opts, engine.WithReference(ref))
	}
	eng := engine.New(source, opts...)

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}

	server := api.NewServer(eng, version)
	if err := server.Run(listen); err != nil {
		logging.Fatal("server failed", zap.Error(err))
	}
}

// buildSource picks the inventory source: live EC2 when configured, a
// JSON file when present, otherwise a seeded synthetic fleet.
func buildSource(cfg *config.Config) (inventory.Source, error) {
	if cfg.AWS.Live {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.AWS.Region),
			awsconfig.WithSharedConfigProfile(cfg.AWS.Profile),
		)
		if err != nil {
			return nil, err
		}
		logging.Info("using live EC2 inventory", zap.String("region", cfg.AWS.Region))
		return awsadapter.NewEC2Inventory(awsCfg), nil
	}

	if _, err := os.Stat(cfg.Inventory.Path); err == nil {
		logging.Info("using inventory file", zap.String("path", cfg.Inventory.Path))
		return inventory.NewFileSource(cfg.Inventory.Path), nil
	}

	logging.Info("using synthetic inventory", zap.Int("count", cfg.Inventory.SyntheticCount))
	return inventory.NewSyntheticSource(cfg.Inventory.SyntheticCount, "fleet", time.Now().UTC()), nil
}
