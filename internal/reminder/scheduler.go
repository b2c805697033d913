package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/metrics"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
)

const (
	notificationTitle = "Time to Suffer 💪"
	defaultMotivation = "Because you said you would."
)

// Preferences reports whether an owner wants notifications at all.
type Preferences interface {
	NotificationsEnabled(ctx context.Context, owner string) (bool, error)
}

type Scheduler struct {
	repo      Repository
	registrar Registrar
	prefs     Preferences
	platform  Platform
	metrics   *metrics.Collector
	now       func() time.Time
}

func NewScheduler(repo Repository, registrar Registrar, platform Platform, m *metrics.Collector) *Scheduler {
	return &Scheduler{
		repo:      repo,
		registrar: registrar,
		platform:  platform,
		metrics:   m,
		now:       time.Now,
	}
}

// SetPreferences is called once settings exist, which themselves cancel
// through the scheduler.
func (s *Scheduler) SetPreferences(p Preferences) {
	s.prefs = p
}

func (s *Scheduler) ScheduleRegimen(ctx context.Context, plan Plan) Outcome {
	log := config.WithContext(ctx).WithField("vision_id", plan.VisionID)

	var out Outcome
	if len(plan.Items) == 0 {
		return out
	}

	if s.prefs != nil {
		enabled, err := s.prefs.NotificationsEnabled(ctx, plan.Owner)
		if err != nil {
			log.WithError(err).Warn("Failed to read notification preference, assuming enabled")
		} else if !enabled {
			log.Info("Notifications disabled by user")
			out.Disabled = true
			return out
		}
	}

	body := defaultMotivation
	if len(plan.Motivations) > 0 && plan.Motivations[0] != "" {
		body = plan.Motivations[0]
	}

	defer func() {
		s.metrics.RecordReminder("scheduled", out.Scheduled)
		s.metrics.RecordReminder("skipped", out.Skipped)
		s.metrics.RecordReminder("failed", out.Errors)
	}()

	for _, item := range plan.Items {
		hour, minute, err := schedule.ParseClock(item.Time)
		if err != nil {
			log.Warnf("Skipping notification: %q is not a valid time for task %q", item.Time, item.Task)
			out.Skipped++
			continue
		}

		for _, r := range s.buildReminders(plan, item, body, hour, minute) {
			if err := s.register(ctx, &r); err != nil {
				if errors.Is(err, ErrPermissionDenied) {
					log.WithError(err).Warn("Notification permission not granted")
					out.PermissionDenied = true
					return out
				}
				log.WithError(err).Errorf("Failed to register reminder for task %q", item.Task)
				out.Errors++
				continue
			}
			out.Scheduled++
		}
	}

	log.WithField("scheduled", out.Scheduled).WithField("skipped", out.Skipped).Info("Notifications scheduled")
	return out
}

func (s *Scheduler) register(ctx context.Context, r *Reminder) error {
	if err := s.registrar.Register(ctx, r); err != nil {
		return err
	}
	return s.repo.Create(ctx, r)
}

func (s *Scheduler) buildReminders(plan Plan, item schedule.Item, body string, hour, minute int) []Reminder {
	base := Reminder{
		Owner:    plan.Owner,
		VisionID: plan.VisionID,
		ItemID:   item.ID,
		Title:    notificationTitle,
		Body:     item.Task + " - " + body,
		Hour:     hour,
		Minute:   minute,
	}

	if s.platformFor(plan) == PlatformAndroid {
		now := s.now().In(util.Location())
		target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !target.After(now) {
			target = target.AddDate(0, 0, 1)
		}
		base.Kind = TriggerInterval
		base.Seconds = int64(target.Sub(now) / time.Second)
		base.FireAt = &target
		return []Reminder{base}
	}

	out := make([]Reminder, 0, len(item.ActiveDays))
	for _, day := range item.ActiveDays {
		r := base
		r.Kind = TriggerWeekly
		r.Repeats = true
		r.Weekday = day + 1
		out = append(out, r)
	}
	return out
}

func (s *Scheduler) platformFor(plan Plan) Platform {
	if plan.Platform.Valid() {
		return plan.Platform
	}
	return s.platform
}

func (s *Scheduler) List(ctx context.Context, owner string) ([]Reminder, error) {
	return s.repo.FindByOwner(ctx, owner)
}

func (s *Scheduler) CancelVision(ctx context.Context, visionID string) error {
	rows, err := s.repo.FindByVision(ctx, visionID)
	if err != nil {
		return err
	}
	s.unregister(ctx, rows)
	return s.repo.DeleteByVision(ctx, visionID)
}

func (s *Scheduler) CancelAll(ctx context.Context, owner string) error {
	rows, err := s.repo.FindByOwner(ctx, owner)
	if err != nil {
		return err
	}
	s.unregister(ctx, rows)
	return s.repo.DeleteByOwner(ctx, owner)
}

func (s *Scheduler) unregister(ctx context.Context, rows []Reminder) {
	log := config.WithContext(ctx)
	for _, r := range rows {
		if err := s.registrar.Unregister(ctx, r); err != nil {
			log.WithError(err).Warnf("Failed to unregister reminder %s from %s", r.ID, s.registrar.Name())
		}
	}
}
