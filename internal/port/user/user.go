package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainuser "github.com/alanyang/leadroute/internal/domain/user"
)

var ErrNotFound = errors.New("user not found")

// Repository manages owner accounts.
type Repository interface {
	Create(ctx context.Context, u domainuser.User) (domainuser.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domainuser.User, error)
	GetByEmail(ctx context.Context, email string) (domainuser.User, error)
}
