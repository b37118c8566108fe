package models

import (
	"time"
)

// Identity provider names stored on users and sessions.
const (
	ProviderLocal   = "local"
	ProviderHTTPAPI = "http_api"
	ProviderKratos  = "kratos"
)

type User struct {
	ID         string `gorm:"primaryKey"`
	Email      string `gorm:"uniqueIndex;not null"`
	CustomerID string `gorm:"index"`
	FacebookID string
	FullName   string

	// External identity support
	ExternalID string `gorm:"index"`           // Subject in the external backend (HTTP API user ID, Kratos identity ID)
	Provider   string `gorm:"default:'local'"` // "local", "http_api" or "kratos"
	IsActive   bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExternal returns true if the account is owned by an external backend
func (u *User) IsExternal() bool {
	return u.Provider != ProviderLocal && u.Provider != ""
}
