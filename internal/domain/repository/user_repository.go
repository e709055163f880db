package repository

import "github.com/vestira/account-service/internal/domain/entity"

// UserPatch carries the mutable profile fields for UpdateUser. Nil fields
// are left untouched. Email and the password hash are deliberately not
// patchable through this path.
type UserPatch struct {
	FirstName        *string
	LastName         *string
	OrganizationName *string
	JobTitle         *string
	EmailVerified    *bool
}

// UserRepository defines the storage operations for user records and
// their outstanding verification tokens.
type UserRepository interface {
	// CreateUser stores a new user, assigning ID and timestamps. It fails
	// with ErrDuplicateEmail if a user with the same normalized email
	// already exists; the duplicate check and insert are atomic.
	CreateUser(u *entity.User) (*entity.User, error)
	// GetByEmail looks a user up by normalized email.
	GetByEmail(email string) (*entity.User, error)
	// GetByID looks a user up by ID.
	GetByID(id string) (*entity.User, error)
	// UpdateUser merges the patch into the stored record and bumps
	// UpdatedAt. It fails with ErrNotFound if the ID is absent.
	UpdateUser(id string, patch UserPatch) (*entity.User, error)

	// SaveVerification stores a verification token record.
	SaveVerification(v *entity.VerificationToken) error
	// ConsumeVerification removes the record for the exact token string
	// and returns it. The lookup and removal are atomic: for a given
	// token, exactly one caller ever receives the record; every other
	// call fails with ErrNotFound.
	ConsumeVerification(token string) (*entity.VerificationToken, error)
}
