package interview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
	"github.com/saulo-duarte/visionboard-lambda/internal/testutil"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(testutil.NewDB(t, &Session{}), time.Hour)
}

func seed(t *testing.T, s *SessionStore, id string) *Session {
	t.Helper()
	now := time.Now()
	sess := &Session{
		ID:        id,
		Owner:     "u1",
		Goal:      "Learn Go",
		Stage:     StageSetup,
		History:   datatypes.JSONSlice[oracle.Turn]{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Create(context.Background(), sess))
	return sess
}

func TestSessionStoreGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("OneWinner", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "a")

		sess, err := s.Acquire(ctx, "a")
		require.NoError(t, err)
		assert.True(t, sess.InFlight)

		_, err = s.Acquire(ctx, "a")
		assert.ErrorIs(t, err, ErrTurnInProgress)

		_, err = s.Acquire(ctx, "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("SaveDropsGuard", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "a")

		sess, err := s.Acquire(ctx, "a")
		require.NoError(t, err)
		sess.Stage = StageInterviewing
		sess.Question = datatypes.NewJSONType(&oracle.ContinueInterview{Question: "Why?", Input: oracle.InputText})
		sess.History = append(sess.History, oracle.Turn{Question: "Q", Answer: "A"})
		sess.Round = 1
		require.NoError(t, s.Save(ctx, sess))

		stored, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, stored.InFlight)
		assert.Equal(t, StageInterviewing, stored.Stage)
		assert.Equal(t, 1, stored.Round)
		require.NotNil(t, stored.Question.Data())
		assert.Equal(t, "Why?", stored.Question.Data().Question)
		assert.Len(t, stored.History, 1)
		assert.Nil(t, stored.Proposal.Data())
	})

	t.Run("ReleaseSurvivesCancelledContext", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "a")

		_, err := s.Acquire(ctx, "a")
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		require.NoError(t, s.Release(cancelled, "a"))

		_, err = s.Acquire(ctx, "a")
		assert.NoError(t, err)
	})

	t.Run("StaleGuardIsTakenOver", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "a")

		_, err := s.Acquire(ctx, "a")
		require.NoError(t, err)

		s.now = func() time.Time { return time.Now().Add(staleTurn + time.Minute) }
		_, err = s.Acquire(ctx, "a")
		assert.NoError(t, err)
	})

	t.Run("TurnDoesNotClobberImage", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "a")

		sess, err := s.Acquire(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, s.SetImage(ctx, "a", "https://img.example/late.png"))

		sess.Stage = StageInterviewing
		require.NoError(t, s.Save(ctx, sess))

		stored, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/late.png", stored.ImageURI)

		assert.ErrorIs(t, s.SetImage(ctx, "missing", "https://img.example/x.png"), ErrSessionNotFound)
	})

	t.Run("SaveAfterDiscard", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "a")

		sess, err := s.Acquire(ctx, "a")
		require.NoError(t, err)
		deleted, err := s.Delete(ctx, "a")
		require.NoError(t, err)
		assert.True(t, deleted)

		assert.ErrorIs(t, s.Save(ctx, sess), ErrSessionNotFound)
		_, err = s.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrSessionNotFound, "a finished turn does not bring a discarded interview back")
	})
}

func TestSessionStorePrune(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seed(t, s, "idle")
	seed(t, s, "busy")

	_, err := s.Acquire(ctx, "busy")
	require.NoError(t, err)

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is old enough yet")

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err = s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Get(ctx, "idle")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(ctx, "busy")
	assert.NoError(t, err, "sessions mid-turn are kept")
}
