package repository

import (
	"context"

	"github.com/fastygo/taskdesk/domain"
)

// UserRepository is the auth service's user directory. Create returns
// domain.ErrEmailTaken when the normalized email is already present.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfession(ctx context.Context, id string, profession domain.Profession) (*domain.User, error)
}
