package interview

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// staleTurn is how long a turn guard may be held before another caller may
// take it over. It outlasts any oracle round-trip.
const staleTurn = 2 * time.Minute

// turnColumns are the fields a turn may change. The image is written only by
// SetImage so a turn never clobbers it.
var turnColumns = []string{"stage", "history", "question", "proposal", "round", "in_flight", "updated_at"}

// SessionStore persists interviews so any process can serve any turn.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

func (s *SessionStore) Create(ctx context.Context, sess *Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	res := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&sess)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Acquire takes the turn guard and returns the session as it was when taken.
// Exactly one concurrent caller wins, whichever process it runs in.
func (s *SessionStore) Acquire(ctx context.Context, id string) (*Session, error) {
	res := s.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ? AND (in_flight = ? OR updated_at < ?)", id, false, s.now().Add(-staleTurn)).
		Update("in_flight", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrTurnInProgress
	}
	return s.Get(ctx, id)
}

// Save writes the outcome of a turn and drops the guard.
func (s *SessionStore) Save(ctx context.Context, sess *Session) error {
	sess.InFlight = false
	res := s.db.WithContext(ctx).Model(sess).Select(turnColumns).Updates(sess)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Release drops the guard without touching anything else. It runs even when
// the request that took the guard has been cancelled.
func (s *SessionStore) Release(ctx context.Context, id string) error {
	return s.db.WithContext(context.WithoutCancel(ctx)).
		Model(&Session{}).
		Where("id = ?", id).
		Update("in_flight", false).Error
}

func (s *SessionStore) SetImage(ctx context.Context, id, imageURI string) error {
	res := s.db.WithContext(ctx).Model(&Session{}).Where("id = ?", id).Update("image_uri", imageURI)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&Session{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Prune drops idle sessions older than the store ttl. Sessions mid-turn are
// kept.
func (s *SessionStore) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("updated_at < ? AND in_flight = ?", s.now().Add(-s.ttl), false).
		Delete(&Session{})
	return res.RowsAffected, res.Error
}
