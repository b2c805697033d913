package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
	"github.com/saulo-duarte/visionboard-lambda/internal/reminder"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
)

var (
	ErrNotFound         = errors.New("vision not found")
	ErrNoSchedule       = errors.New("vision has no schedule")
	ErrEmptyText        = errors.New("vision text is required")
	ErrUnknownMilestone = errors.New("milestone not found")
)

// Reminders drops and registers the notifications of a vision's schedule.
type Reminders interface {
	CancelVision(ctx context.Context, visionID string) error
	ScheduleRegimen(ctx context.Context, plan reminder.Plan) reminder.Outcome
}

type MilestoneOracle interface {
	GenerateMilestones(ctx context.Context, goal string) []oracle.MilestoneDraft
}

type Service interface {
	// Subscribe streams the owner's visions, newest first. The initial
	// snapshot is followed by one after every successful write.
	Subscribe(ctx context.Context, owner string) (<-chan []Vision, func())
	Create(ctx context.Context, owner string, dto CreateVisionDTO) (*Vision, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateVisionDTO) (*Vision, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleMilestone(ctx context.Context, id uuid.UUID, milestoneID string) (*Vision, error)
	StartPlan(ctx context.Context, id uuid.UUID) (*Vision, error)
	GenerateMilestones(ctx context.Context, id uuid.UUID) (*Vision, error)
	List(ctx context.Context, owner string) ([]Vision, error)
	Get(ctx context.Context, id uuid.UUID) (*Vision, error)
	LastError() error
}

type service struct {
	repo      Repository
	reminders Reminders
	oracle    MilestoneOracle
	feed      *feed
	now       func() time.Time

	errMu   sync.RWMutex
	lastErr error
}

func NewService(repo Repository, reminders Reminders, o MilestoneOracle) Service {
	return &service{
		repo:      repo,
		reminders: reminders,
		oracle:    o,
		feed:      newFeed(),
		now:       time.Now,
	}
}

func (s *service) LastError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

func (s *service) setLastError(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}

// fail records a store failure and passes it on.
func (s *service) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	config.WithContext(ctx).WithError(err).Errorf("Failed to %s vision", op)
	s.setLastError(err)
	return err
}

func (s *service) Subscribe(ctx context.Context, owner string) (<-chan []Vision, func()) {
	id, sub := s.feed.add(owner)

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			s.feed.remove(id)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	if snapshot, err := s.List(ctx, owner); err == nil {
		s.feed.send(id, snapshot)
	}
	return sub.ch, cancel
}

// publish pushes a fresh snapshot to the owner's subscribers.
func (s *service) publish(ctx context.Context, owner string) {
	if !s.feed.hasSubscribers(owner) {
		return
	}
	snapshot, err := s.List(ctx, owner)
	if err != nil {
		return
	}
	s.feed.publish(owner, snapshot)
}

func (s *service) List(ctx context.Context, owner string) ([]Vision, error) {
	visions, err := s.repo.FindAllByUserID(ctx, owner)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Vision subscription error")
		s.setLastError(err)
		return nil, err
	}
	s.setLastError(nil)
	if visions == nil {
		visions = []Vision{}
	}
	return visions, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Vision, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *service) Create(ctx context.Context, owner string, dto CreateVisionDTO) (*Vision, error) {
	log := config.WithContext(ctx)

	text := strings.TrimSpace(dto.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if owner == "" {
		owner = "anonymous"
	}

	v := &Vision{
		UserID:           owner,
		Text:             text,
		ImageURI:         dto.ImageURI,
		InterviewSummary: dto.InterviewSummary,
		Milestones:       datatypes.JSONSlice[Milestone]{},
	}
	if len(dto.Interview) > 0 {
		v.Interview = datatypes.JSONSlice[TranscriptEntry](dto.Interview)
	}
	if len(dto.Schedule) > 0 {
		v.Schedule = datatypes.JSONSlice[schedule.Item](schedule.AssignIDs(dto.Schedule, s.now()))
	}
	if len(dto.Motivations) > 0 {
		v.Motivations = datatypes.JSONSlice[string](dto.Motivations)
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	log.WithField("vision_id", v.ID).Info("Vision created")
	s.publish(ctx, owner)
	return v, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateVisionDTO) (*Vision, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Text != nil {
		text := strings.TrimSpace(*dto.Text)
		if text == "" {
			return nil, ErrEmptyText
		}
		v.Text = text
	}
	if dto.ImageURI != nil {
		v.ImageURI = *dto.ImageURI
	}
	if dto.Schedule != nil {
		if len(*dto.Schedule) == 0 {
			v.Schedule = nil
			v.StartedAt = nil
		} else {
			v.Schedule = datatypes.JSONSlice[schedule.Item](schedule.AssignIDs(*dto.Schedule, s.now()))
		}
	}
	if dto.Motivations != nil {
		v.Motivations = datatypes.JSONSlice[string](*dto.Motivations)
	}
	if dto.Milestones != nil {
		v.Milestones = datatypes.JSONSlice[Milestone](*dto.Milestones)
	}

	saved, err := s.save(ctx, v)
	if err != nil {
		return nil, err
	}
	if dto.Schedule != nil {
		s.replaceReminders(ctx, saved)
	}
	return saved, nil
}

// replaceReminders drops the notifications of the old schedule and registers
// the current one, if any.
func (s *service) replaceReminders(ctx context.Context, v *Vision) {
	if s.reminders == nil {
		return
	}
	log := config.WithContext(ctx).WithField("vision_id", v.ID)

	if err := s.reminders.CancelVision(ctx, v.ID.String()); err != nil {
		log.WithError(err).Warn("Failed to cancel reminders of replaced schedule")
	}
	if !v.HasSchedule() {
		return
	}

	outcome := s.reminders.ScheduleRegimen(ctx, reminder.Plan{
		Owner:       v.UserID,
		VisionID:    v.ID.String(),
		Motivations: v.Motivations,
		Items:       v.Schedule,
	})
	log.WithField("scheduled", outcome.Scheduled).Info("Reminders re-registered")
}

func (s *service) save(ctx context.Context, v *Vision) (*Vision, error) {
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, s.fail(ctx, "update", err)
	}
	s.publish(ctx, v.UserID)
	return v, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	v, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete", err)
	}

	if s.reminders != nil {
		if err := s.reminders.CancelVision(ctx, id.String()); err != nil {
			log.WithError(err).Warnf("Failed to cancel reminders for vision %s", id)
		}
	}

	s.publish(ctx, v.UserID)
	return nil
}

func (s *service) ToggleMilestone(ctx context.Context, id uuid.UUID, milestoneID string) (*Vision, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	milestones := make(datatypes.JSONSlice[Milestone], len(v.Milestones))
	for i, m := range v.Milestones {
		if m.ID == milestoneID {
			m.Completed = !m.Completed
			found = true
		}
		milestones[i] = m
	}
	if !found {
		return nil, ErrUnknownMilestone
	}
	v.Milestones = milestones

	return s.save(ctx, v)
}

// StartPlan is idempotent: a started plan keeps its original start time.
func (s *service) StartPlan(ctx context.Context, id uuid.UUID) (*Vision, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.HasSchedule() {
		return nil, ErrNoSchedule
	}
	if v.StartedAt != nil {
		return v, nil
	}

	now := s.now()
	v.StartedAt = &now
	return s.save(ctx, v)
}

func (s *service) GenerateMilestones(ctx context.Context, id uuid.UUID) (*Vision, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	drafts := s.oracle.GenerateMilestones(ctx, v.Text)
	stamp := s.now().UnixMilli()

	milestones := make(datatypes.JSONSlice[Milestone], 0, len(drafts))
	for i, d := range drafts {
		milestones = append(milestones, Milestone{
			ID:     fmt.Sprintf("milestone-%d-%d", stamp, i),
			Month:  d.Month,
			Target: d.Target,
			Snark:  d.Snark,
		})
	}
	v.Milestones = milestones

	return s.save(ctx, v)
}
