// Package main is the entry point for the mesh viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
	"github.com/Faultbox/meshview/pkg/formats"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if config.SaveRequested() {
		path, err := cfg.Persist()
		if err != nil {
			logger.Error("saving config", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", path))
		logger.Sync()
		return
	}

	if err := run(cfg); err != nil {
		var pe *formats.ParseError
		if errors.As(err, &pe) {
			logger.Error("cannot load mesh", zap.String("path", pe.Path), zap.Int("line", pe.Line), zap.Error(pe.Err))
		} else {
			logger.Error("viewer error", zap.Error(err))
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run keeps the deferred teardown ahead of os.Exit.
func run(cfg *config.Config) error {
	logger.Info("=== meshview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.Open(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		return err
	}

	logger.Info("viewer closed normally")
	return nil
}
