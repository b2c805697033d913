package voice

import (
	"sync"
	"time"

	"github.com/saulo-duarte/visionboard-lambda/internal/interview"
	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
)

type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
	StateError      State = "error"
)

const (
	FrameAnswer   = "answer"
	FrameQuestion = "question"
	FrameProposal = "proposal"
	FrameError    = "error"
)

const completionMessage = "Alright, I've got everything I need! Let me put together a plan for you."

type ClientFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ServerFrame struct {
	Type     string                    `json:"type"`
	Stage    interview.Stage           `json:"stage,omitempty"`
	Question *oracle.ContinueInterview `json:"question,omitempty"`
	Proposal *schedule.Proposal        `json:"proposal,omitempty"`
	Message  string                    `json:"message,omitempty"`
}

// Status is the last known state of the voice connection for one interview.
type Status struct {
	State     State     `json:"state"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker records connection state per interview. Dropped connections are
// not retried; the client opens a new one.
type Tracker struct {
	mu       sync.RWMutex
	statuses map[string]Status
	now      func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{statuses: make(map[string]Status), now: time.Now}
}

func (t *Tracker) Set(id string, state State, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := Status{State: state, UpdatedAt: t.now()}
	if err != nil {
		st.Error = err.Error()
	} else if prev, ok := t.statuses[id]; ok && state == StateClosed {
		st.Error = prev.Error
	}
	t.statuses[id] = st
}

func (t *Tracker) Get(id string) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.statuses[id]
	return st, ok
}

func (t *Tracker) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.statuses, id)
}
