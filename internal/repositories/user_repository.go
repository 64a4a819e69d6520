package repositories

import (
	"nexusstore/internal/models"
)

// UserRepository defines the interface for user data access. Users are
// seed-only, so the surface is minimal.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
