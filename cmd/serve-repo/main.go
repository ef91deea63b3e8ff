// Package main serves a Kodi add-on repository directory over HTTP with
// byte-range support.
package main

import (
	"errors"
	"flag"
	"os"

	"kodi-localsubs-go/internal/app"
	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/logging"
)

func main() {
	cfg, _, err := config.Parse("serve-repo", os.Args[1:], os.Stderr, config.ServerFlags)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logging.New("info", false, nil).Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	// Create and initialize application
	application, err := app.New(cfg)
	if err != nil {
		logging.New(cfg.LogLevel, cfg.LogJSON, nil).Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer application.Shutdown()

	if info, err := os.Stat(cfg.Directory); err != nil || !info.IsDir() {
		application.Ctx.Log.Error("directory does not exist", "directory", cfg.Directory)
		os.Exit(1)
	}

	// Run the server
	if err := application.Run(); err != nil {
		application.Ctx.Log.Error("server error", "error", err)
		os.Exit(1)
	}
}
