package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/kvstore"
)

var ErrInvalidTheme = errors.New("invalid theme mode")

// Canceller drops every scheduled reminder of an owner.
type Canceller interface {
	CancelAll(ctx context.Context, owner string) error
}

type Service interface {
	Get(ctx context.Context, owner string) (Settings, error)
	SetThemeMode(ctx context.Context, owner string, mode ThemeMode) (Settings, error)
	ToggleDarkMode(ctx context.Context, owner string) (Settings, error)
	SetNotificationsEnabled(ctx context.Context, owner string, enabled bool) (Settings, error)
	NotificationsEnabled(ctx context.Context, owner string) (bool, error)
}

type service struct {
	store     kvstore.Store
	canceller Canceller
}

func NewService(store kvstore.Store, canceller Canceller) Service {
	return &service{store: store, canceller: canceller}
}

func (s *service) Get(ctx context.Context, owner string) (Settings, error) {
	current := Defaults()
	if _, err := s.store.Get(ctx, owner, storageKey, &current); err != nil {
		return Defaults(), err
	}
	if !current.ThemeMode.Valid() {
		current.ThemeMode = ThemeSystem
	}
	return current, nil
}

func (s *service) save(ctx context.Context, owner string, st Settings) (Settings, error) {
	if err := s.store.Set(ctx, owner, storageKey, st); err != nil {
		return st, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}

func (s *service) SetThemeMode(ctx context.Context, owner string, mode ThemeMode) (Settings, error) {
	if !mode.Valid() {
		return Settings{}, fmt.Errorf("%w: %q", ErrInvalidTheme, mode)
	}
	current, err := s.Get(ctx, owner)
	if err != nil {
		return current, err
	}
	current.ThemeMode = mode
	return s.save(ctx, owner, current)
}

// ToggleDarkMode goes dark from anything but dark, and light from dark.
func (s *service) ToggleDarkMode(ctx context.Context, owner string) (Settings, error) {
	current, err := s.Get(ctx, owner)
	if err != nil {
		return current, err
	}
	if current.ThemeMode == ThemeDark {
		current.ThemeMode = ThemeLight
	} else {
		current.ThemeMode = ThemeDark
	}
	return s.save(ctx, owner, current)
}

// SetNotificationsEnabled cancels all reminders when disabling. Re-enabling
// does not reschedule anything.
func (s *service) SetNotificationsEnabled(ctx context.Context, owner string, enabled bool) (Settings, error) {
	log := config.WithContext(ctx)

	current, err := s.Get(ctx, owner)
	if err != nil {
		return current, err
	}
	current.NotificationsEnabled = enabled

	saved, err := s.save(ctx, owner, current)
	if err != nil {
		return saved, err
	}

	if !enabled && s.canceller != nil {
		if err := s.canceller.CancelAll(ctx, owner); err != nil {
			log.WithError(err).Error("Failed to cancel reminders")
			return saved, err
		}
		log.Info("All notifications cancelled")
	}
	return saved, nil
}

func (s *service) NotificationsEnabled(ctx context.Context, owner string) (bool, error) {
	current, err := s.Get(ctx, owner)
	if err != nil {
		return true, err
	}
	return current.NotificationsEnabled, nil
}
