// Package app provides the main application setup and dependency injection.
package app

import (
	"context"
	"fmt"

	"kodi-localsubs-go/pkg/appctx"
	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/handlers/files"
	"kodi-localsubs-go/pkg/httpclient"
	"kodi-localsubs-go/pkg/kodi"
	"kodi-localsubs-go/pkg/logging"
	"kodi-localsubs-go/pkg/repo"
	"kodi-localsubs-go/pkg/server"
	"kodi-localsubs-go/pkg/services"
)

// App is the main application container.
type App struct {
	Ctx    *appctx.Context
	Server *server.Server
	Kodi   *kodi.Client
}

// New creates and initializes the application from cfg.
func New(cfg *config.Config) (*App, error) {
	log := logging.New(cfg.LogLevel, cfg.LogJSON, nil)
	return NewWithLogger(cfg, log)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, log *logging.Logger) (*App, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	log.Debug("initializing", "directory", cfg.Directory, "port", cfg.Port, "log_level", cfg.LogLevel)

	// Create application context
	ctx := appctx.New(cfg, log)

	// Create HTTP client
	httpClient := httpclient.New(cfg, log)
	ctx.WithHTTPClient(httpClient)

	// Kodi is the player subtitles are applied to
	kodiClient := kodi.NewClient(cfg.KodiURL, cfg.KodiUsername, cfg.KodiPassword, httpClient, log)
	ctx.WithPlayer(kodiClient)

	ctx.WithSubtitles(services.NewSubtitleService(cfg, ctx.Player, log))

	// Create HTTP server and mount the repository directory
	srv := server.New(cfg, log)
	files.NewHandler(cfg.Directory, log).RegisterRoutes(srv.Router())

	return &App{
		Ctx:    ctx,
		Server: srv,
		Kodi:   kodiClient,
	}, nil
}

// Run starts the repository file server and blocks until it stops.
func (a *App) Run() error {
	return a.Server.Start()
}

// BuildRepo packages the configured add-ons into the repository directory.
func (a *App) BuildRepo() ([]*repo.Package, error) {
	packager := repo.NewPackager(a.Ctx.Config.RepoDir, a.Ctx.Log)
	return packager.Build(a.Ctx.Config.AddonDirs)
}

// VerifyRepo checks the repository published at baseURL.
func (a *App) VerifyRepo(ctx context.Context, baseURL string) ([]repo.Check, error) {
	return repo.NewVerifier(a.Ctx.HTTPClient, a.Ctx.Log).Verify(ctx, baseURL)
}

// Shutdown releases application resources.
func (a *App) Shutdown() {
	a.Ctx.Log.Debug("shutting down application")
}
