package models

import "time"

// Session is a login session issued by the identity service. Only the
// PBKDF2 hash of the session token is persisted.
type Session struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	TokenHash string `gorm:"not null"`
	TokenSalt string `gorm:"not null"`

	UserID   string `gorm:"type:varchar(36);index"`
	DeviceID string `gorm:"type:varchar(64);index"`
	Provider string `gorm:"type:varchar(20)"`

	// Anonymous (identify-only) sessions are not authenticated.
	Authenticated bool `gorm:"not null;default:false"`

	Email      string
	CustomerID string
	FacebookID string

	ExpiresAt time.Time `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsActive reports whether the session can still be used at now.
func (s *Session) IsActive(now time.Time) bool {
	return !s.IsRevoked() && !s.IsExpired(now)
}
