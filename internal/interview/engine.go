package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
	"github.com/saulo-duarte/visionboard-lambda/internal/reminder"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
	"github.com/saulo-duarte/visionboard-lambda/internal/vision"
)

var (
	ErrSessionNotFound = errors.New("interview not found")
	ErrTurnInProgress  = errors.New("a turn is already in progress")
	ErrEmptyAnswer     = errors.New("answer is required")
	ErrEmptyGoal       = errors.New("goal text is required")
	ErrInvalidStage    = errors.New("operation not allowed in current stage")
	ErrImageRequired   = errors.New("an image is required to save the vision")
)

type Interviewer interface {
	NextQuestion(ctx context.Context, goal string, history []oracle.Turn) oracle.Step
}

type Synthesizer interface {
	Synthesize(ctx context.Context, goal string, history []oracle.Turn) (*schedule.Proposal, error)
}

type VisionCreator interface {
	Create(ctx context.Context, owner string, dto vision.CreateVisionDTO) (*vision.Vision, error)
}

type ReminderScheduler interface {
	ScheduleRegimen(ctx context.Context, plan reminder.Plan) reminder.Outcome
}

type Engine struct {
	sessions    *SessionStore
	oracle      Interviewer
	synthesizer Synthesizer
	visions     VisionCreator
	reminders   ReminderScheduler
	maxTurns    int
	now         func() time.Time
}

func NewEngine(store *SessionStore, o Interviewer, s Synthesizer, v VisionCreator, r ReminderScheduler, maxTurns int) *Engine {
	return &Engine{
		sessions:    store,
		oracle:      o,
		synthesizer: s,
		visions:     v,
		reminders:   r,
		maxTurns:    maxTurns,
		now:         time.Now,
	}
}

// turn runs fn under the session's turn guard and saves the result. Nothing
// is written when fn fails.
func (e *Engine) turn(ctx context.Context, id string, fn func(*Session) error) (*View, error) {
	sess, err := e.sessions.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		e.release(ctx, id)
		return nil, err
	}
	if err := e.sessions.Save(ctx, sess); err != nil {
		e.release(ctx, id)
		return nil, err
	}
	return e.view(sess), nil
}

func (e *Engine) release(ctx context.Context, id string) {
	if err := e.sessions.Release(ctx, id); err != nil {
		config.WithContext(ctx).WithError(err).WithField("interview_id", id).Error("Failed to release interview turn")
	}
}

func (e *Engine) view(sess *Session) *View {
	v := &View{
		ID:        sess.ID,
		Owner:     sess.Owner,
		Goal:      sess.Goal,
		ImageURI:  sess.ImageURI,
		Stage:     sess.Stage,
		History:   append([]oracle.Turn{}, sess.History...),
		Proposal:  sess.Proposal.Data(),
		Turns:     sess.Round,
		MaxTurns:  e.maxTurns,
		Busy:      sess.InFlight,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
	if q := sess.Question.Data(); q != nil {
		copied := *q
		v.Question = &copied
	}
	return v
}

func (e *Engine) Create(ctx context.Context, goal, imageURI, owner string) (*View, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, ErrEmptyGoal
	}
	if owner == "" {
		owner = "anonymous"
	}

	log := config.WithContext(ctx)
	if n, err := e.sessions.Prune(ctx); err != nil {
		log.WithError(err).Warn("Failed to prune idle interviews")
	} else if n > 0 {
		log.WithField("pruned", n).Debug("Pruned idle interviews")
	}

	now := e.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Goal:      goal,
		ImageURI:  strings.TrimSpace(imageURI),
		Stage:     StageSetup,
		History:   datatypes.JSONSlice[oracle.Turn]{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.sessions.Create(ctx, sess); err != nil {
		log.WithError(err).Error("Failed to create interview")
		return nil, err
	}

	log.WithField("interview_id", sess.ID).Info("Interview created")
	return e.view(sess), nil
}

func (e *Engine) Get(ctx context.Context, id string) (*View, error) {
	sess, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.view(sess), nil
}

func (e *Engine) Discard(ctx context.Context, id string) error {
	deleted, err := e.sessions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}

// AttachImage sets the image before confirmation.
func (e *Engine) AttachImage(ctx context.Context, id, imageURI string) (*View, error) {
	if err := e.sessions.SetImage(ctx, id, strings.TrimSpace(imageURI)); err != nil {
		return nil, err
	}
	return e.Get(ctx, id)
}

// Begin moves SETUP to INTERVIEWING and fetches the first question.
func (e *Engine) Begin(ctx context.Context, id string) (*View, error) {
	return e.turn(ctx, id, func(sess *Session) error {
		if sess.Stage != StageSetup {
			return fmt.Errorf("%w: begin from %s", ErrInvalidStage, sess.Stage)
		}
		sess.Stage = StageInterviewing
		sess.Round = 0

		return e.apply(ctx, sess, e.oracle.NextQuestion(ctx, sess.Goal, nil))
	})
}

func (e *Engine) Answer(ctx context.Context, id, answer string) (*View, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	return e.turn(ctx, id, func(sess *Session) error {
		question := sess.Question.Data()
		if sess.Stage != StageInterviewing || question == nil {
			return fmt.Errorf("%w: answer in %s", ErrInvalidStage, sess.Stage)
		}
		sess.History = append(sess.History, oracle.Turn{Question: question.Question, Answer: answer})
		sess.Round++

		if e.maxTurns > 0 && sess.Round >= e.maxTurns {
			config.WithContext(ctx).WithField("turns", len(sess.History)).Info("Turn cap reached, forcing completion")
			return e.apply(ctx, sess, oracle.CompleteInterview{})
		}
		history := append([]oracle.Turn{}, sess.History...)
		return e.apply(ctx, sess, e.oracle.NextQuestion(ctx, sess.Goal, history))
	})
}

// apply moves the session according to the oracle's step.
func (e *Engine) apply(ctx context.Context, sess *Session, step oracle.Step) error {
	switch s := step.(type) {
	case oracle.ContinueInterview:
		sess.Question = datatypes.NewJSONType(&s)
		return nil
	case oracle.CompleteInterview:
		return e.propose(ctx, sess)
	default:
		return fmt.Errorf("unexpected interview step %T", step)
	}
}

func (e *Engine) propose(ctx context.Context, sess *Session) error {
	history := append([]oracle.Turn{}, sess.History...)
	proposal, err := e.synthesizer.Synthesize(ctx, sess.Goal, history)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to synthesize schedule")
		return err
	}

	sess.Proposal = datatypes.NewJSONType(proposal)
	sess.Question = datatypes.NewJSONType[*oracle.ContinueInterview](nil)
	sess.Stage = StageProposal

	config.WithContext(ctx).WithField("interview_id", sess.ID).Info("Schedule proposed")
	return nil
}

// Redo discards the proposal and asks what was wrong with it.
func (e *Engine) Redo(ctx context.Context, id string) (*View, error) {
	return e.turn(ctx, id, func(sess *Session) error {
		if sess.Stage != StageProposal {
			return fmt.Errorf("%w: redo from %s", ErrInvalidStage, sess.Stage)
		}
		sess.Proposal = datatypes.NewJSONType[*schedule.Proposal](nil)
		sess.Stage = StageInterviewing
		sess.Round = 0
		sess.Question = datatypes.NewJSONType(&oracle.ContinueInterview{Question: redoQuestion, Input: oracle.InputText})
		return nil
	})
}

// Confirm saves the proposal as a vision, registers its reminders on the
// given platform and closes the interview. An empty platform uses the
// scheduler's default.
func (e *Engine) Confirm(ctx context.Context, id string, platform reminder.Platform) (*Confirmation, error) {
	log := config.WithContext(ctx)

	sess, err := e.sessions.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}

	proposal := sess.Proposal.Data()
	if sess.Stage != StageProposal || proposal == nil {
		e.release(ctx, id)
		return nil, fmt.Errorf("%w: confirm in %s", ErrInvalidStage, sess.Stage)
	}
	if sess.ImageURI == "" {
		e.release(ctx, id)
		return nil, ErrImageRequired
	}

	transcript := make([]vision.TranscriptEntry, 0, len(sess.History))
	for _, t := range sess.History {
		transcript = append(transcript, vision.TranscriptEntry{Question: t.Question, Answer: t.Answer})
	}
	saved, err := e.visions.Create(ctx, sess.Owner, vision.CreateVisionDTO{
		Text:             sess.Goal,
		ImageURI:         sess.ImageURI,
		Interview:        transcript,
		InterviewSummary: interviewSummary,
		Schedule:         proposal.Items,
		Motivations:      proposal.Motivations,
	})
	if err != nil {
		log.WithError(err).Error("Save failed")
		e.release(ctx, id)
		return nil, err
	}

	outcome := e.reminders.ScheduleRegimen(ctx, reminder.Plan{
		Owner:       sess.Owner,
		VisionID:    saved.ID.String(),
		Platform:    platform,
		Motivations: saved.Motivations,
		Items:       saved.Schedule,
	})

	if _, err := e.sessions.Delete(context.WithoutCancel(ctx), id); err != nil {
		log.WithError(err).Warn("Failed to close confirmed interview")
	}
	log.WithField("vision_id", saved.ID).Info("Interview confirmed")

	return &Confirmation{Vision: saved, Reminders: outcome}, nil
}
