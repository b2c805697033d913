package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/interview"
	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
)

// fakeEngine asks two questions and then proposes.
type fakeEngine struct {
	mu      sync.Mutex
	view    interview.View
	answers []string
	delay   time.Duration
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{view: interview.View{ID: "iv-1", Owner: auth.AnonymousOwner, Goal: "Run", Stage: interview.StageSetup}}
}

func (f *fakeEngine) snapshot() *interview.View {
	v := f.view
	return &v
}

func (f *fakeEngine) Get(ctx context.Context, id string) (*interview.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.view.ID {
		return nil, interview.ErrSessionNotFound
	}
	return f.snapshot(), nil
}

func (f *fakeEngine) Begin(ctx context.Context, id string) (*interview.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.Stage = interview.StageInterviewing
	f.view.Question = &oracle.ContinueInterview{Question: "How far today?", Input: oracle.InputText}
	return f.snapshot(), nil
}

func (f *fakeEngine) Answer(ctx context.Context, id, answer string) (*interview.View, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(answer) == "" {
		return nil, interview.ErrEmptyAnswer
	}
	f.answers = append(f.answers, answer)
	if len(f.answers) >= 2 {
		f.view.Stage = interview.StageProposal
		f.view.Question = nil
		f.view.Proposal = &schedule.Proposal{Items: []schedule.Item{{ID: "schedule-1-0", Type: schedule.CadenceDaily, Time: "06:00", Task: "Run"}}}
	} else {
		f.view.Question = &oracle.ContinueInterview{Question: "Which days?", Input: oracle.InputText}
	}
	return f.snapshot(), nil
}

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) ServerFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame ServerFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestVoiceInterview(t *testing.T) {
	engine := newFakeEngine()
	container := NewContainer(engine)
	server := httptest.NewServer(Routes(container.Handler))
	defer server.Close()

	conn := dial(t, server, "/interviews/iv-1")

	first := readFrame(t, conn)
	assert.Equal(t, FrameQuestion, first.Type)
	assert.Equal(t, "How far today?", first.Question.Question)

	st, ok := container.Tracker.Get("iv-1")
	require.True(t, ok)
	assert.Equal(t, StateOpen, st.State)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameAnswer, Text: "   "}))
	failed := readFrame(t, conn)
	assert.Equal(t, FrameError, failed.Type)
	assert.Equal(t, interview.ErrEmptyAnswer.Error(), failed.Message)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: "shout", Text: "hey"}))
	assert.Equal(t, FrameError, readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameAnswer, Text: "Three miles"}))
	second := readFrame(t, conn)
	assert.Equal(t, "Which days?", second.Question.Question)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameAnswer, Text: "Weekdays"}))
	done := readFrame(t, conn)
	assert.Equal(t, FrameProposal, done.Type)
	assert.Equal(t, interview.StageProposal, done.Stage)
	assert.Equal(t, completionMessage, done.Message)
	require.NotNil(t, done.Proposal)
	assert.Len(t, done.Proposal.Items, 1)

	engine.mu.Lock()
	assert.Equal(t, []string{"Three miles", "Weekdays"}, engine.answers)
	engine.mu.Unlock()

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool {
		st, _ := container.Tracker.Get("iv-1")
		return st.State == StateClosed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSlowAnswerDoesNotExpireConnection(t *testing.T) {
	engine := newFakeEngine()
	engine.delay = 600 * time.Millisecond
	container := NewContainer(engine)
	container.Handler.pongWait = 200 * time.Millisecond
	server := httptest.NewServer(Routes(container.Handler))
	defer server.Close()

	conn := dial(t, server, "/interviews/iv-1")
	assert.Equal(t, FrameQuestion, readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameAnswer, Text: "Three miles"}))
	second := readFrame(t, conn)
	require.Equal(t, FrameQuestion, second.Type)
	assert.Equal(t, "Which days?", second.Question.Question)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameAnswer, Text: "Weekdays"}))
	assert.Equal(t, FrameProposal, readFrame(t, conn).Type)

	st, _ := container.Tracker.Get("iv-1")
	assert.Equal(t, StateOpen, st.State)
}

func TestVoiceRejectsUnknownInterview(t *testing.T) {
	server := httptest.NewServer(Routes(NewContainer(newFakeEngine()).Handler))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/interviews/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatus(t *testing.T) {
	container := NewContainer(newFakeEngine())
	router := Routes(container.Handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interviews/iv-1/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"closed"`)

	container.Tracker.Set("iv-1", StateError, assert.AnError)
	container.Tracker.Set("iv-1", StateClosed, nil)
	st, _ := container.Tracker.Get("iv-1")
	assert.Equal(t, assert.AnError.Error(), st.Error, "closing keeps the last error")
}
