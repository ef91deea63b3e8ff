package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/interfaces"
	"kodi-localsubs-go/pkg/logging"
	"kodi-localsubs-go/pkg/subtitles"
	"kodi-localsubs-go/pkg/types"
)

// NotificationTitle heads every notification shown on the player.
const NotificationTitle = "Local Subtitles"

// labelLimit caps the file name shown in the success notification.
const labelLimit = 40

// SubtitleService lists subtitle files and applies them to the player.
type SubtitleService struct {
	dir       string
	recursive bool
	version   string
	cache     *subtitles.Cache
	player    interfaces.Player
	log       *logging.Logger
}

// NewSubtitleService creates a subtitle service from the subtitle settings in cfg.
func NewSubtitleService(cfg *config.Config, player interfaces.Player, log *logging.Logger) *SubtitleService {
	return &SubtitleService{
		dir:       cfg.SubsDir,
		recursive: cfg.SubsRecursive,
		version:   cfg.AddonVersion,
		cache:     subtitles.NewCache(cfg.SubsCacheDir),
		player:    player,
		log:       log.WithComponent("subtitle-service"),
	}
}

// Dir returns the directory subtitles are listed from.
func (s *SubtitleService) Dir() string {
	return s.dir
}

// List returns the subtitles found under the configured directory. When
// there are none the player is told so.
func (s *SubtitleService) List(ctx context.Context) ([]types.Subtitle, error) {
	paths, err := subtitles.Walk(s.dir, s.recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	result := make([]types.Subtitle, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		lang := subtitles.DetectLanguage(name)
		result = append(result, types.Subtitle{
			Path:     path,
			Name:     name,
			Label:    subtitles.Ellipsize(name, 60),
			Language: lang.Code,
			LangName: lang.Name,
		})
	}

	s.log.Debug("listed subtitles", "dir", s.dir, "recursive", s.recursive, "count", len(result))

	if len(result) == 0 {
		s.notify(ctx, "No files found", types.NotificationInfo, 3000*time.Millisecond)
	}
	return result, nil
}

// Apply stages the subtitle at path and loads it into the active player.
func (s *SubtitleService) Apply(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		s.notify(ctx, "File not found", types.NotificationError, 3000*time.Millisecond)
		return fmt.Errorf("%s: %w", path, subtitles.ErrNotFound)
	}

	if err := s.apply(ctx, path); err != nil {
		s.log.WithError(err).Error("failed to apply subtitle", "path", path)
		s.notify(ctx, fmt.Sprintf("Failed:\n%s\n\n%v", path, err), types.NotificationError, 0)
		return err
	}

	s.notify(ctx,
		fmt.Sprintf("%s • v%s", subtitles.Ellipsize(filepath.Base(path), labelLimit), s.version),
		types.NotificationInfo,
		2500*time.Millisecond,
	)
	return nil
}

func (s *SubtitleService) apply(ctx context.Context, path string) error {
	cached, err := s.cache.Store(path)
	if err != nil {
		return err
	}
	if err := s.player.ShowSubtitles(ctx, true); err != nil {
		return fmt.Errorf("failed to enable subtitles: %w", err)
	}
	if err := s.player.SetSubtitles(ctx, cached); err != nil {
		return fmt.Errorf("failed to load subtitle: %w", err)
	}

	s.log.Info("applied subtitle", "path", path, "cached", cached)
	return nil
}

// notify shows a message on the player. Delivery failures are logged only.
func (s *SubtitleService) notify(ctx context.Context, message string, level types.NotificationLevel, display time.Duration) {
	err := s.player.Notify(ctx, types.Notification{
		Title:   NotificationTitle,
		Message: message,
		Level:   level,
		Display: display,
	})
	if err != nil {
		s.log.Warn("failed to send notification", "message", message, "error", err)
	}
}
