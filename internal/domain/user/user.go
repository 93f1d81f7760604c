package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// User is the aggregate root for a registered platform member.
type User struct {
	id        uuid.UUID
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new User with validated fields.
func NewUser(name, email string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("a well-formed email is required")
	}

	now := time.Now().UTC()
	return &User{
		id:        uuid.New(),
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// --- Behavior ---

// Update applies a partial patch: fields are only overwritten when the
// provided value is non-blank.
func (u *User) Update(name, email string) {
	if strings.TrimSpace(name) != "" {
		u.name = name
	}
	if strings.TrimSpace(email) != "" {
		u.email = email
	}
	u.updatedAt = time.Now().UTC()
}
