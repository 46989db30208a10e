package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/orgspace-auth/internal/domain"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrEmailTaken indicates a registration attempt with an email that is
// already in use.
var ErrEmailTaken = errors.New("repository: email already exists")

// UserRepository exposes persistence for user accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID string) (domain.User, error)
	// CreateWithDefaultOrg inserts the user, their default organisation, and
	// the creator membership as a single transaction.
	CreateWithDefaultOrg(ctx context.Context, user domain.User, org domain.Organisation) (domain.User, domain.Organisation, error)
}

// OrgRepository exposes persistence for organisations and memberships.
type OrgRepository interface {
	GetByID(ctx context.Context, orgID string) (domain.Organisation, error)
	// CreateWithCreator inserts the organisation and its creator membership
	// atomically.
	CreateWithCreator(ctx context.Context, org domain.Organisation) (domain.Organisation, error)
	AddMember(ctx context.Context, orgID, userID string) error
	// ListForUser returns organisations the user created or belongs to.
	ListForUser(ctx context.Context, userID string) ([]domain.Organisation, error)
}
