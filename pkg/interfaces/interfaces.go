// Package interfaces defines the abstractions shared between the tools and
// their collaborators: the media player that shows subtitles and the HTTP
// fetcher used to inspect published repositories.
package interfaces

import (
	"context"

	"kodi-localsubs-go/pkg/types"
)

// Player is the host media player a subtitle is applied to.
//
// The Kodi JSON-RPC client in pkg/kodi is the production implementation;
// tests use in-memory fakes.
type Player interface {
	// ShowSubtitles toggles subtitle rendering on the active player.
	ShowSubtitles(ctx context.Context, show bool) error

	// SetSubtitles loads the subtitle file at path into the active player.
	SetSubtitles(ctx context.Context, path string) error

	// Notify shows a transient notification on the player UI.
	Notify(ctx context.Context, n types.Notification) error
}

// Fetcher downloads a URL and returns its body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

