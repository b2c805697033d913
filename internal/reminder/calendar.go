package reminder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
)

var (
	ErrDecryptionFailed   = errors.New("failed to decrypt google refresh token")
	ErrMissingCalendarKey = errors.New("google calendar refresh token not configured")
)

var rruleDays = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

type serviceFactory func(ctx context.Context) (*gcal.Service, error)

// calendarRegistrar mirrors reminders as Google Calendar events.
type calendarRegistrar struct {
	calendarID string
	newService serviceFactory
	now        func() time.Time
}

func NewCalendarRegistrar(cfg config.CalendarConfig) Registrar {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}

	factory := func(ctx context.Context) (*gcal.Service, error) {
		log := config.WithContext(ctx)

		if cfg.EncryptedRefreshToken == "" {
			return nil, ErrMissingCalendarKey
		}
		refreshToken, err := config.Decrypt(cfg.EncryptedRefreshToken)
		if err != nil {
			log.WithError(err).Error("Failed to decrypt refresh token")
			return nil, ErrDecryptionFailed
		}

		token := &oauth2.Token{
			TokenType:    "Bearer",
			RefreshToken: refreshToken,
			Expiry:       time.Now().Add(-time.Hour),
		}
		tokenSource := oauthConfig.TokenSource(ctx, token)
		if _, err := tokenSource.Token(); err != nil {
			log.WithError(err).Warn("Failed to refresh Google token")
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}

		return gcal.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	}

	return newCalendarRegistrar(cfg.CalendarID, factory)
}

func newCalendarRegistrar(calendarID string, factory serviceFactory) *calendarRegistrar {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &calendarRegistrar{calendarID: calendarID, newService: factory, now: time.Now}
}

func (c *calendarRegistrar) Name() string { return "google_calendar" }

func (c *calendarRegistrar) Register(ctx context.Context, r *Reminder) error {
	log := config.WithContext(ctx)

	srv, err := c.newService(ctx)
	if err != nil {
		return err
	}

	event, err := c.buildEvent(r)
	if err != nil {
		return err
	}

	created, err := srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		if isPermissionError(err) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		log.WithError(err).Error("Failed to insert calendar event")
		return err
	}

	r.ExternalID = created.Id
	return nil
}

func (c *calendarRegistrar) Unregister(ctx context.Context, r Reminder) error {
	if r.ExternalID == "" {
		return nil
	}
	log := config.WithContext(ctx)

	srv, err := c.newService(ctx)
	if err != nil {
		if errors.Is(err, ErrMissingCalendarKey) || errors.Is(err, ErrDecryptionFailed) {
			log.Warnf("Skipping Google Calendar deletion for event %s due to missing/invalid token", r.ExternalID)
			return nil
		}
		return err
	}

	err = srv.Events.Delete(c.calendarID, r.ExternalID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			log.Warnf("Calendar event %s not found on Google, considering deleted.", r.ExternalID)
			return nil
		}
		log.WithError(err).Error("Failed to delete calendar event")
		return err
	}
	return nil
}

func (c *calendarRegistrar) buildEvent(r *Reminder) (*gcal.Event, error) {
	loc := util.Location()
	now := c.now().In(loc)

	var start time.Time
	var recurrence []string

	switch r.Kind {
	case TriggerWeekly:
		if r.Weekday < 1 || r.Weekday > 7 {
			return nil, fmt.Errorf("weekday %d out of range", r.Weekday)
		}
		start = nextWeekly(now, time.Weekday(r.Weekday-1), r.Hour, r.Minute)
		recurrence = []string{"RRULE:FREQ=WEEKLY;BYDAY=" + rruleDays[r.Weekday-1]}
	case TriggerInterval:
		start = now.Add(time.Duration(r.Seconds) * time.Second)
	default:
		return nil, fmt.Errorf("unknown trigger kind %q", r.Kind)
	}

	return &gcal.Event{
		Summary:     r.Title,
		Description: r.Body,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()},
		End:         &gcal.EventDateTime{DateTime: start.Add(15 * time.Minute).Format(time.RFC3339), TimeZone: loc.String()},
		Recurrence:  recurrence,
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			Overrides:       []*gcal.EventReminder{{Method: "popup", Minutes: 0, ForceSendFields: []string{"Minutes"}}},
			ForceSendFields: []string{"UseDefault"},
		},
	}, nil
}

func isPermissionError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden
}

// nextWeekly returns the first weekday at hour:minute that is not before now.
func nextWeekly(now time.Time, day time.Weekday, hour, minute int) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	offset := (int(day) - int(now.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, offset)
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
