package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/metrics"
)

const (
	entryInterview  = "next_question"
	entrySchedule   = "schedule"
	entryMilestones = "milestones"

	maxMilestones = 12
)

var (
	errNoJSON     = errors.New("no JSON object in response")
	errMalformed  = errors.New("malformed JSON in response")
	errIncomplete = errors.New("response is missing required fields")
)

// Client talks to the oracle and never fails: malformed or missing output is
// replaced with a fixed fallback payload.
type Client struct {
	provider Provider
	timeout  time.Duration
	metrics  *metrics.Collector
}

func NewClient(provider Provider, timeout time.Duration, m *metrics.Collector) *Client {
	return &Client{provider: provider, timeout: timeout, metrics: m}
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.provider.Generate(ctx, prompt)
}

func (c *Client) NextQuestion(ctx context.Context, goal string, history []Turn) Step {
	log := config.WithContext(ctx)

	raw, err := c.generate(ctx, BuildInterviewPrompt(goal, history))
	if err != nil {
		log.WithError(err).Warn("[ORACLE] interview call failed, using fallback question")
		c.metrics.RecordOracleCall(entryInterview, "fallback")
		return providerFailureQuestion()
	}

	step, err := parseInterviewStep(raw)
	if err != nil {
		log.WithError(err).Warnf("[ORACLE] unusable interview response, using fallback question:\n%s", raw)
		c.metrics.RecordOracleCall(entryInterview, "fallback")
		if errors.Is(err, errMalformed) {
			return providerFailureQuestion()
		}
		return FallbackQuestion()
	}

	c.metrics.RecordOracleCall(entryInterview, "ok")
	return step
}

func (c *Client) ProposeSchedule(ctx context.Context, goal string, history []Turn) ScheduleDraft {
	log := config.WithContext(ctx)

	raw, err := c.generate(ctx, BuildSchedulePrompt(goal, history))
	if err != nil {
		log.WithError(err).Warn("[ORACLE] schedule call failed, using fallback schedule")
		c.metrics.RecordOracleCall(entrySchedule, "fallback")
		return providerFailureSchedule()
	}

	draft, err := parseScheduleDraft(raw)
	if err != nil {
		log.WithError(err).Warnf("[ORACLE] unusable schedule response, using fallback schedule:\n%s", raw)
		c.metrics.RecordOracleCall(entrySchedule, "fallback")
		if errors.Is(err, errMalformed) {
			return providerFailureSchedule()
		}
		return FallbackSchedule()
	}

	c.metrics.RecordOracleCall(entrySchedule, "ok")
	log.Infof("[ORACLE] schedule proposed with %d items", len(draft.Schedule))
	return draft
}

func (c *Client) GenerateMilestones(ctx context.Context, goal string) []MilestoneDraft {
	log := config.WithContext(ctx)

	raw, err := c.generate(ctx, BuildMilestonesPrompt(goal))
	if err != nil {
		log.WithError(err).Warn("[ORACLE] milestones call failed, using fallback milestones")
		c.metrics.RecordOracleCall(entryMilestones, "fallback")
		return FallbackMilestones()
	}

	milestones, ok := parseMilestones(raw)
	if !ok {
		log.Warnf("[ORACLE] unusable milestones response, using fallback milestones:\n%s", raw)
		c.metrics.RecordOracleCall(entryMilestones, "fallback")
		return FallbackMilestones()
	}

	c.metrics.RecordOracleCall(entryMilestones, "ok")
	return milestones
}

// parseInterviewStep fails with errNoJSON when there is no object span,
// errMalformed when the span does not decode and errIncomplete when it decodes
// into neither variant.
func parseInterviewStep(raw string) (Step, error) {
	span, ok := extractObject(raw)
	if !ok {
		return nil, errNoJSON
	}

	var payload interviewPayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	if payload.Final {
		return CompleteInterview{}, nil
	}

	question := strings.TrimSpace(payload.Question)
	if question == "" {
		return nil, errIncomplete
	}

	step := ContinueInterview{
		Question: question,
		Input:    coerceInputKind(payload.InputType),
	}
	for _, opt := range payload.Options {
		if o := strings.TrimSpace(opt); o != "" {
			step.Options = append(step.Options, o)
		}
	}
	switch step.Input {
	case InputSingleChoice, InputMultipleChoice:
		if len(step.Options) == 0 {
			step.Input = InputText
		}
	default:
		step.Options = nil
	}
	return step, nil
}

func coerceInputKind(v string) InputKind {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "select", "single", "single_choice", "radio":
		return InputSingleChoice
	case "chips", "multi", "multiple", "multiple_choice", "checkbox":
		return InputMultipleChoice
	case "date":
		return InputDate
	default:
		return InputText
	}
}

func parseScheduleDraft(raw string) (ScheduleDraft, error) {
	span, ok := extractObject(raw)
	if !ok {
		return ScheduleDraft{}, errNoJSON
	}

	var draft ScheduleDraft
	if err := json.Unmarshal([]byte(span), &draft); err != nil {
		return ScheduleDraft{}, fmt.Errorf("%w: %v", errMalformed, err)
	}

	items := draft.Schedule[:0]
	for _, item := range draft.Schedule {
		if strings.TrimSpace(item.Task) == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return ScheduleDraft{}, errIncomplete
	}
	draft.Schedule = items
	return draft, nil
}

func parseMilestones(raw string) ([]MilestoneDraft, bool) {
	span, isArray, ok := extractArrayOrObject(raw)
	if !ok {
		return nil, false
	}

	var drafts []MilestoneDraft
	if isArray {
		if err := json.Unmarshal([]byte(span), &drafts); err != nil {
			return nil, false
		}
	} else {
		var wrapped struct {
			Milestones []MilestoneDraft `json:"milestones"`
		}
		if err := json.Unmarshal([]byte(span), &wrapped); err != nil {
			return nil, false
		}
		drafts = wrapped.Milestones
	}

	out := make([]MilestoneDraft, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.Target) == "" {
			continue
		}
		out = append(out, d)
		if len(out) == maxMilestones {
			break
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
