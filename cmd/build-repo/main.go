// Package main packages Kodi add-ons into a repository directory and
// optionally verifies a published copy of it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"kodi-localsubs-go/internal/app"
	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/logging"
	"kodi-localsubs-go/pkg/repo"
)

func main() {
	var verifyURL string
	verifyFlags := func(fs *flag.FlagSet, cfg *config.Config) {
		fs.StringVar(&verifyURL, "verify", "", "After packaging, verify the repository published at this URL")
	}

	cfg, _, err := config.Parse("build-repo", os.Args[1:], os.Stderr, config.RepoFlags, verifyFlags)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logging.New("info", false, nil).Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	application, err := app.New(cfg)
	if err != nil {
		logging.New(cfg.LogLevel, cfg.LogJSON, nil).Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Shutdown()
	log := application.Ctx.Log

	packages, err := application.BuildRepo()
	if err != nil {
		log.Error("packaging failed", "error", err)
		os.Exit(1)
	}
	for _, pkg := range packages {
		fmt.Printf("Packaged %s %s -> %s\n", pkg.Addon.ID, pkg.Addon.Version, pkg.ZipPath)
	}
	fmt.Printf("Updated repo manifest -> %s\n", filepath.Join(cfg.RepoDir, repo.ManifestFile))

	if verifyURL == "" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks, err := application.VerifyRepo(ctx, verifyURL)
	for _, c := range checks {
		status := "ok"
		if !c.OK() {
			status = "MISMATCH"
		}
		fmt.Printf("%-8s %s\n", status, c.URL)
	}
	if err != nil {
		log.Error("verification failed", "url", verifyURL, "error", err)
		os.Exit(1)
	}
}
