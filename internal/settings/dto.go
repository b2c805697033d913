package settings

type UpdateThemeDTO struct {
	ThemeMode ThemeMode `json:"theme_mode" validate:"required,oneof=system light dark"`
}

type UpdateNotificationsDTO struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
