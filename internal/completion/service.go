package completion

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/kvstore"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
	"github.com/saulo-duarte/visionboard-lambda/internal/vision"
)

const keyPrefix = "task_completions_"

type VisionLister interface {
	List(ctx context.Context, owner string) ([]vision.Vision, error)
}

type Task struct {
	Key        string           `json:"key"`
	ItemID     string           `json:"item_id"`
	VisionID   string           `json:"vision_id"`
	VisionText string           `json:"vision_text"`
	Task       string           `json:"task"`
	Time       string           `json:"time"`
	Type       schedule.Cadence `json:"type"`
	Completed  bool             `json:"completed"`
}

type Today struct {
	Date           string `json:"date"`
	Tasks          []Task `json:"tasks"`
	HasActivePlans bool   `json:"has_active_plans"`
}

type Service struct {
	store   kvstore.Store
	visions VisionLister
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sync.Mutex
	refs int
}

func NewService(store kvstore.Store, visions VisionLister) *Service {
	return &Service{
		store:   store,
		visions: visions,
		now:     time.Now,
		locks:   map[string]*ownerLock{},
	}
}

// lock serializes read-modify-write cycles on one owner's day.
func (s *Service) lock(owner string) func() {
	s.mu.Lock()
	l, ok := s.locks[owner]
	if !ok {
		l = &ownerLock{}
		s.locks[owner] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, owner)
		}
		s.mu.Unlock()
	}
}

// TaskKey identifies a schedule item across visions.
func TaskKey(visionID, itemID string) string {
	return visionID + "_" + itemID
}

func (s *Service) todayKey() string {
	return keyPrefix + util.DayKey(s.now())
}

// LoadToday returns today's completion flags. Other days are never read.
func (s *Service) LoadToday(ctx context.Context, owner string) (map[string]bool, error) {
	completions := map[string]bool{}
	if _, err := s.store.Get(ctx, owner, s.todayKey(), &completions); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load completions")
		return map[string]bool{}, err
	}
	if completions == nil {
		completions = map[string]bool{}
	}
	return completions, nil
}

// Toggle flips one task and writes the whole day back.
func (s *Service) Toggle(ctx context.Context, owner, taskKey string) (map[string]bool, error) {
	if taskKey == "" {
		return nil, fmt.Errorf("task key is required")
	}

	unlock := s.lock(owner)
	defer unlock()

	completions, err := s.LoadToday(ctx, owner)
	if err != nil {
		return nil, err
	}
	completions[taskKey] = !completions[taskKey]

	if err := s.store.Set(ctx, owner, s.todayKey(), completions); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to save completions")
		return completions, err
	}
	return completions, nil
}

func (s *Service) TodayTasks(ctx context.Context, owner string) (*Today, error) {
	visions, err := s.visions.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	completions, err := s.LoadToday(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekday := util.Weekday(now)
	today := &Today{Date: util.DayKey(now), Tasks: []Task{}}

	for _, v := range visions {
		if !v.Started() {
			continue
		}
		today.HasActivePlans = true

		for _, item := range v.Schedule {
			if !item.ActiveOn(weekday) {
				continue
			}
			key := TaskKey(v.ID.String(), item.ID)
			today.Tasks = append(today.Tasks, Task{
				Key:        key,
				ItemID:     item.ID,
				VisionID:   v.ID.String(),
				VisionText: v.Text,
				Task:       item.Task,
				Time:       item.Time,
				Type:       item.Type,
				Completed:  completions[key],
			})
		}
	}

	sort.SliceStable(today.Tasks, func(i, j int) bool {
		return clockOrder(today.Tasks[i].Time) < clockOrder(today.Tasks[j].Time)
	})
	return today, nil
}

// clockOrder sorts valid times by minute of day and everything else last.
func clockOrder(s string) int {
	h, m, err := schedule.ParseClock(s)
	if err != nil {
		return 24 * 60
	}
	return h*60 + m
}
