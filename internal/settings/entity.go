package settings

type ThemeMode string

const (
	ThemeSystem ThemeMode = "system"
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
)

func (m ThemeMode) Valid() bool {
	switch m {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

const storageKey = "vision-board-settings"

type Settings struct {
	ThemeMode            ThemeMode `json:"theme_mode"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
}

func Defaults() Settings {
	return Settings{ThemeMode: ThemeSystem, NotificationsEnabled: true}
}
