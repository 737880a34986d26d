package users

import "time"

// Session binds an opaque token, sent as X-Session-ID, to a user until
// ExpiresAt.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"unique;not null" json:"session_token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
