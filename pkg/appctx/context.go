// Package appctx provides the application context that holds all runtime dependencies.
package appctx

import (
	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/httpclient"
	"kodi-localsubs-go/pkg/interfaces"
	"kodi-localsubs-go/pkg/logging"
	"kodi-localsubs-go/pkg/services"
)

// Context holds all application runtime dependencies.
// Pass this single struct to components instead of individual parameters.
type Context struct {
	Config     *config.Config
	Log        *logging.Logger
	HTTPClient *httpclient.Client
	Player     interfaces.Player
	Subtitles  *services.SubtitleService
}

// New creates a new application context.
func New(cfg *config.Config, log *logging.Logger) *Context {
	return &Context{
		Config: cfg,
		Log:    log,
	}
}

// WithHTTPClient sets the outbound HTTP client.
func (c *Context) WithHTTPClient(client *httpclient.Client) *Context {
	c.HTTPClient = client
	return c
}

// WithPlayer sets the media player subtitles are applied to.
func (c *Context) WithPlayer(p interfaces.Player) *Context {
	c.Player = p
	return c
}

// WithSubtitles sets the subtitle service.
func (c *Context) WithSubtitles(s *services.SubtitleService) *Context {
	c.Subtitles = s
	return c
}
