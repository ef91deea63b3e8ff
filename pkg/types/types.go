// Package types defines core domain types used throughout the application.
package types

import "time"

// Subtitle is a subtitle file found under the configured directory.
type Subtitle struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Language string `json:"language,omitempty"` // ISO 639-1 code, optionally with region ("pt-BR")
	LangName string `json:"language_name"`
}

// NotificationLevel selects the icon of a player notification.
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a transient message shown on the player UI.
type Notification struct {
	Title   string
	Message string
	Level   NotificationLevel
	Display time.Duration
}
