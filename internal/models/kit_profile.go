package models

import "time"

// KitProfile is the engagement-platform profile kept per device.
type KitProfile struct {
	DeviceID   string `gorm:"primaryKey;type:varchar(64)"`
	Email      string
	CustomerID string
	FacebookID string
	FirstName  string
	LastName   string
	Gender     string

	// LastIdentifiedEmail is the email most recently sent to the platform's
	// identify call; a new identify is only issued when the email changes.
	LastIdentifiedEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (KitProfile) TableName() string {
	return "kit_profiles"
}
