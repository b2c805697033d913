package schedule

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
)

type Proposer interface {
	ProposeSchedule(ctx context.Context, goal string, history []oracle.Turn) oracle.ScheduleDraft
}

type Synthesizer struct {
	oracle Proposer
	now    func() time.Time
}

func NewSynthesizer(p Proposer) *Synthesizer {
	return &Synthesizer{oracle: p, now: time.Now}
}

// WithClock replaces the id time source.
func (s *Synthesizer) WithClock(now func() time.Time) *Synthesizer {
	s.now = now
	return s
}

func (s *Synthesizer) Synthesize(ctx context.Context, goal string, history []oracle.Turn) (*Proposal, error) {
	log := config.WithContext(ctx)

	draft := s.oracle.ProposeSchedule(ctx, goal, history)
	if len(draft.Schedule) == 0 {
		draft = oracle.FallbackSchedule()
	}

	stamp := s.now()
	items := make([]Item, 0, len(draft.Schedule))
	for i, d := range draft.Schedule {
		items = append(items, Item{
			ID:         ItemID(stamp, i),
			Type:       coerceCadence(d.Type),
			Time:       strings.TrimSpace(d.Time),
			Task:       strings.TrimSpace(d.Task),
			ActiveDays: normalizeDays(d.ActiveDays, coerceCadence(d.Type)),
		})
	}

	motivations := make([]string, 0, len(draft.Motivations))
	for _, m := range draft.Motivations {
		if m = strings.TrimSpace(m); m != "" {
			motivations = append(motivations, m)
		}
	}

	log.WithField("items", len(items)).Info("Schedule synthesized")
	return &Proposal{Items: items, Motivations: motivations}, nil
}

func coerceCadence(v string) Cadence {
	switch Cadence(strings.ToLower(strings.TrimSpace(v))) {
	case CadenceDaily:
		return CadenceDaily
	case CadenceWeekly:
		return CadenceWeekly
	default:
		return CadenceCustom
	}
}

// normalizeDays keeps 0..6, dedupes and sorts. A daily item without days runs
// every day.
func normalizeDays(days []int, cadence Cadence) []int {
	seen := make(map[int]bool, 7)
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	if len(out) == 0 && cadence == CadenceDaily {
		out = []int{0, 1, 2, 3, 4, 5, 6}
	}
	return out
}
