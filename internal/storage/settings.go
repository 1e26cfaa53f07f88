package storage

import "context"

// Settings keys the core reads as hints
const (
	SettingUserDefaultColor = "user_default_color"
	SettingRecentCategories = "recent_categories"
)

// SettingsStorage is the opaque key-value store for UI preferences
type SettingsStorage interface {
	// GetSetting returns ErrSettingNotFound when key is absent
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting creates or overwrites key
	SetSetting(ctx context.Context, key, value string) error

	// DeleteSetting is a no-op for absent keys
	DeleteSetting(ctx context.Context, key string) error

	// ListSettings returns every stored key/value pair
	ListSettings(ctx context.Context) (map[string]string, error)
}
