package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence contract for users.
type UserRepository interface {
	// FindByID retrieves a user by id.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindAll retrieves every registered user ordered by creation time.
	FindAll(ctx context.Context) ([]*User, error)

	// FindByIDs retrieves a set of users keyed by id; missing ids are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)

	// ExistsByID reports whether a user with the given id exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// EmailTaken reports whether the email is used by a user other than except.
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)

	// Save persists a new user.
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error

	// Delete removes a user by id.
	Delete(ctx context.Context, id uuid.UUID) error
}
