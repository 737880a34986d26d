package authentication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"playlist-courses-backend/models/users"
	"playlist-courses-backend/services"
)

// SessionStore issues and validates server-side sessions.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

// Issue creates a session for userID with a random opaque token.
func (s *SessionStore) Issue(ctx context.Context, userID uint) (*users.Session, error) {
	session := &users.Session{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Resolve implements Strategy for session ids.
func (s *SessionStore) Resolve(ctx context.Context, token string) (*users.User, error) {
	db := s.db.WithContext(ctx)

	var session users.Session
	if err := db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid session", services.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, fmt.Errorf("%w: session expired", services.ErrUnauthorized)
	}

	var user users.User
	if err := db.First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", services.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load user %d: %w", session.UserID, err)
	}
	return &user, nil
}

// Revoke deletes the session with the given token, if any.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&users.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
