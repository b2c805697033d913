package voice

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/interview"
)

const (
	writeWait       = 10 * time.Second
	defaultPongWait = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Engine is the part of the interview engine a voice session drives.
type Engine interface {
	Get(ctx context.Context, id string) (*interview.View, error)
	Begin(ctx context.Context, id string) (*interview.View, error)
	Answer(ctx context.Context, id, answer string) (*interview.View, error)
}

type Handler struct {
	engine  Engine
	tracker *Tracker

	// pongWait is how long the client may stay silent while the server is
	// waiting for it. Pings go out at nine tenths of it.
	pongWait time.Duration
}

func NewHandler(engine Engine, tracker *Tracker) *Handler {
	return &Handler{engine: engine, tracker: tracker, pongWait: defaultPongWait}
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*interview.View, bool) {
	view, err := h.engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || view.Owner != auth.OwnerFromContext(r.Context()) {
		http.Error(w, interview.ErrSessionNotFound.Error(), http.StatusNotFound)
		return nil, false
	}
	return view, true
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	view, ok := h.lookup(w, r)
	if !ok {
		return
	}
	status, found := h.tracker.Get(view.ID)
	if !found {
		status = Status{State: StateClosed}
	}
	config.JSON(w, http.StatusOK, status)
}

// Connect runs a spoken interview over a websocket. The device does speech
// recognition and synthesis; this side only exchanges text.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	view, ok := h.lookup(w, r)
	if !ok {
		return
	}
	id := view.ID
	h.tracker.Set(id, StateConnecting, nil)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade voice connection")
		h.tracker.Set(id, StateError, err)
		return
	}
	defer conn.Close()
	h.tracker.Set(id, StateOpen, nil)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go keepAlive(ctx, conn, h.pongWait*9/10)

	s := &session{conn: conn, engine: h.engine, id: id, pongWait: h.pongWait}
	if err := s.greet(ctx, view); err != nil {
		log.WithError(err).Warn("Voice greeting failed")
		h.tracker.Set(id, StateError, err)
		return
	}

	err = s.run(ctx)
	switch {
	case err == nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		h.tracker.Set(id, StateClosed, nil)
	default:
		log.WithError(err).Warn("Voice connection dropped")
		h.tracker.Set(id, StateError, err)
	}
}

func keepAlive(ctx context.Context, conn *websocket.Conn, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

type session struct {
	conn     *websocket.Conn
	engine   Engine
	id       string
	pongWait time.Duration
}

func (s *session) send(frame ServerFrame) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(frame)
}

func (s *session) sendView(view *interview.View) error {
	if view.Stage == interview.StageProposal {
		return s.send(ServerFrame{Type: FrameProposal, Stage: view.Stage, Proposal: view.Proposal, Message: completionMessage})
	}
	return s.send(ServerFrame{Type: FrameQuestion, Stage: view.Stage, Question: view.Question})
}

func (s *session) sendError(err error) error {
	return s.send(ServerFrame{Type: FrameError, Message: err.Error()})
}

// greet starts the interview if needed and sends whatever the caller should
// hear first.
func (s *session) greet(ctx context.Context, view *interview.View) error {
	if view.Stage == interview.StageSetup {
		started, err := s.engine.Begin(ctx, s.id)
		if err != nil {
			return s.sendError(err)
		}
		view = started
	}
	return s.sendView(view)
}

func (s *session) run(ctx context.Context) error {
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	for {
		// The deadline only covers the client. Time spent in Answer does
		// not count against it.
		s.conn.SetReadDeadline(time.Now().Add(s.pongWait))

		var frame ClientFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			return err
		}

		if frame.Type != FrameAnswer {
			if err := s.send(ServerFrame{Type: FrameError, Message: "unsupported frame type " + frame.Type}); err != nil {
				return err
			}
			continue
		}

		view, err := s.engine.Answer(ctx, s.id, frame.Text)
		if err != nil {
			config.WithContext(ctx).WithError(err).Warn("Voice answer rejected")
			if err := s.sendError(err); err != nil {
				return err
			}
			continue
		}
		if err := s.sendView(view); err != nil {
			return err
		}
	}
}
