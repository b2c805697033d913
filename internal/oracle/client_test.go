package oracle_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/visionboard-lambda/internal/metrics"
	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
)

type stubProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newClient(p oracle.Provider) (*oracle.Client, *metrics.Collector) {
	m := metrics.NewCollector("test")
	return oracle.NewClient(p, time.Second, m), m
}

func TestNextQuestion(t *testing.T) {
	ctx := context.Background()
	history := []oracle.Turn{{Question: "How much time?", Answer: "30 minutes"}}

	t.Run("ContinueWithProseAndFences", func(t *testing.T) {
		p := &stubProvider{replies: []string{"Sure thing!\n```json\n{\"question\": \"Morning or night, slacker?\", \"inputType\": \"select\", \"options\": [\"Morning\", \"Night\"]}\n```\nGood luck."}}
		c, m := newClient(p)

		step := c.NextQuestion(ctx, "Run a Marathon", history)

		q, ok := step.(oracle.ContinueInterview)
		require.True(t, ok, "expected ContinueInterview, got %T", step)
		assert.Equal(t, "Morning or night, slacker?", q.Question)
		assert.Equal(t, oracle.InputSingleChoice, q.Input)
		assert.Equal(t, []string{"Morning", "Night"}, q.Options)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCalls.WithLabelValues("next_question", "ok")))

		require.Len(t, p.prompts, 1)
		assert.Contains(t, p.prompts[0], `"Run a Marathon"`)
		assert.Contains(t, p.prompts[0], `[{"q":"How much time?","a":"30 minutes"}]`)
	})

	t.Run("Complete", func(t *testing.T) {
		c, _ := newClient(&stubProvider{replies: []string{`{"final": true}`}})
		step := c.NextQuestion(ctx, "Run a Marathon", history)
		assert.Equal(t, oracle.CompleteInterview{}, step)
	})

	t.Run("ChipsWithoutOptionsDegradeToText", func(t *testing.T) {
		c, _ := newClient(&stubProvider{replies: []string{`{"question": "Which days?", "inputType": "chips"}`}})
		step := c.NextQuestion(ctx, "Learn piano", nil)
		assert.Equal(t, oracle.ContinueInterview{Question: "Which days?", Input: oracle.InputText}, step)
	})

	unusable := map[string]string{
		"Empty":          "",
		"NoJSON":         "I refuse to answer in JSON today.",
		"Unbalanced":     `{"question": "When?"`,
		"NeitherVariant": `{"hello": "world"}`,
	}
	for name, reply := range unusable {
		t.Run("Fallback"+name, func(t *testing.T) {
			c, m := newClient(&stubProvider{replies: []string{reply}})
			step := c.NextQuestion(ctx, "Learn piano", history)
			assert.Equal(t, oracle.FallbackQuestion(), step)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCalls.WithLabelValues("next_question", "fallback")))
		})
	}

	undecodable := map[string]string{
		"BadJSON":    `{"question": "When?",}`,
		"WrongTypes": `{"question": 42}`,
	}
	for name, reply := range undecodable {
		t.Run("FailedToThink"+name, func(t *testing.T) {
			c, m := newClient(&stubProvider{replies: []string{reply}})
			step := c.NextQuestion(ctx, "Learn piano", history)
			assert.Equal(t, oracle.ContinueInterview{Question: "Failed to think. Just tell me what you want.", Input: oracle.InputText}, step)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCalls.WithLabelValues("next_question", "fallback")))
		})
	}

	t.Run("ProviderError", func(t *testing.T) {
		c, _ := newClient(&stubProvider{err: errors.New("quota exceeded")})
		step := c.NextQuestion(ctx, "Learn piano", history)
		q, ok := step.(oracle.ContinueInterview)
		require.True(t, ok)
		assert.Equal(t, "Failed to think. Just tell me what you want.", q.Question)
		assert.Equal(t, oracle.InputText, q.Input)
	})
}

func TestProposeSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		reply := `{"schedule": [{"type":"daily", "time":"06:00", "task":"Run 2 miles", "activeDays":[1,3,5]}], "motivations":["Because future-you is watching"]}`
		c, _ := newClient(&stubProvider{replies: []string{reply}})

		draft := c.ProposeSchedule(ctx, "Run a Marathon", nil)

		require.Len(t, draft.Schedule, 1)
		assert.Equal(t, oracle.DraftItem{Type: "daily", Time: "06:00", Task: "Run 2 miles", ActiveDays: []int{1, 3, 5}}, draft.Schedule[0])
		assert.Equal(t, []string{"Because future-you is watching"}, draft.Motivations)
	})

	t.Run("BracesInsideStrings", func(t *testing.T) {
		reply := `Here: {"schedule": [{"type":"weekly", "time":"18:30", "task":"Review {notes}", "activeDays":[6]}], "motivations":["a \"quoted\" } brace"]} trailing {junk}`
		c, _ := newClient(&stubProvider{replies: []string{reply}})

		draft := c.ProposeSchedule(ctx, "Study", nil)

		require.Len(t, draft.Schedule, 1)
		assert.Equal(t, "Review {notes}", draft.Schedule[0].Task)
		assert.Equal(t, []string{`a "quoted" } brace`}, draft.Motivations)
	})

	for name, reply := range map[string]string{
		"Empty":         "",
		"Prose":         "no schedule for you",
		"EmptySchedule": `{"schedule": [], "motivations": ["x"]}`,
	} {
		t.Run("Fallback"+name, func(t *testing.T) {
			c, _ := newClient(&stubProvider{replies: []string{reply}})
			assert.Equal(t, oracle.FallbackSchedule(), c.ProposeSchedule(ctx, "Study", nil))
		})
	}

	t.Run("UndecodableSpanUsesFailureSchedule", func(t *testing.T) {
		c, _ := newClient(&stubProvider{replies: []string{`{"schedule": [{"time": 8}]}`}})
		draft := c.ProposeSchedule(ctx, "Study", nil)
		require.Len(t, draft.Schedule, 1)
		assert.Equal(t, "Do the thing", draft.Schedule[0].Task)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, draft.Schedule[0].ActiveDays)
	})

	t.Run("ProviderError", func(t *testing.T) {
		c, _ := newClient(&stubProvider{err: errors.New("boom")})
		draft := c.ProposeSchedule(ctx, "Study", nil)
		require.Len(t, draft.Schedule, 1)
		assert.Equal(t, "Do the thing", draft.Schedule[0].Task)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, draft.Schedule[0].ActiveDays)
	})
}

func TestGenerateMilestones(t *testing.T) {
	ctx := context.Background()

	t.Run("Array", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("```json\n[")
		for i := 1; i <= 14; i++ {
			if i > 1 {
				b.WriteString(",")
			}
			b.WriteString(`{"month":"Month X","target":"Do it","snark":"sure"}`)
		}
		b.WriteString("]\n```")
		c, _ := newClient(&stubProvider{replies: []string{b.String()}})

		milestones := c.GenerateMilestones(ctx, "Write a novel")
		assert.Len(t, milestones, 12)
	})

	t.Run("WrappedObject", func(t *testing.T) {
		c, _ := newClient(&stubProvider{replies: []string{`{"milestones": [{"month":"Month 1","target":"Outline","snark":"ha"}]}`}})
		milestones := c.GenerateMilestones(ctx, "Write a novel")
		assert.Equal(t, []oracle.MilestoneDraft{{Month: "Month 1", Target: "Outline", Snark: "ha"}}, milestones)
	})

	for name, reply := range map[string]string{
		"Empty":     "",
		"Garbage":   "[not json",
		"NoTargets": `[{"month":"Month 1"}]`,
	} {
		t.Run("Fallback"+name, func(t *testing.T) {
			c, _ := newClient(&stubProvider{replies: []string{reply}})
			milestones := c.GenerateMilestones(ctx, "Write a novel")
			assert.Equal(t, oracle.FallbackMilestones(), milestones)
			assert.Len(t, milestones, 3)
		})
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestClientTimeoutFallsBack(t *testing.T) {
	c := oracle.NewClient(slowProvider{}, 10*time.Millisecond, nil)
	step := c.NextQuestion(context.Background(), "Learn piano", nil)
	_, ok := step.(oracle.ContinueInterview)
	assert.True(t, ok)
}

func TestBreakerProvider(t *testing.T) {
	p := &stubProvider{err: errors.New("down")}
	b := oracle.NewBreakerProvider(p, "test")

	for i := 0; i < 5; i++ {
		_, err := b.Generate(context.Background(), "hi")
		require.Error(t, err)
	}
	_, err := b.Generate(context.Background(), "hi")
	require.Error(t, err)

	assert.Len(t, p.prompts, 5, "breaker should stop forwarding once open")
}
