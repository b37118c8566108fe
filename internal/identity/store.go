package identity

import "github.com/go-authgate/idgate/internal/models"

// UserStore is the persistence needed by the providers. *store.Store
// satisfies it.
type UserStore interface {
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	UpsertExternalUser(provider, externalID, email, customerID string) (*models.User, error)
}

func accountFromUser(user *models.User, provider string) *Account {
	return &Account{
		UserID:     user.ID,
		ExternalID: user.ExternalID,
		Email:      user.Email,
		CustomerID: user.CustomerID,
		FacebookID: user.FacebookID,
		FullName:   user.FullName,
		Provider:   provider,
	}
}
