package repositories

import "plotpilot/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetByIdentifier looks up a user whose username or email equals identifier.
	GetByIdentifier(identifier string) (*models.User, error)
}
