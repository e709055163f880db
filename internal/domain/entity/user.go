package entity

import (
	"strings"
	"time"
)

// OrganizationType classifies the tenant a user belongs to.
type OrganizationType string

const (
	OrgAllocator     OrganizationType = "allocator"
	OrgManager       OrganizationType = "manager"
	OrgConsultant    OrganizationType = "consultant"
	OrgIndustryGroup OrganizationType = "industry-group"
)

// Valid reports whether t is one of the known organization types.
func (t OrganizationType) Valid() bool {
	switch t {
	case OrgAllocator, OrgManager, OrgConsultant, OrgIndustryGroup:
		return true
	}
	return false
}

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash, never a plaintext password.
// Email uniqueness is enforced on the normalized (lower-cased) form.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	OrganizationType OrganizationType
	OrganizationName string
	JobTitle         string
	EmailVerified    bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizeEmail lower-cases and trims an email address for uniqueness
// comparisons and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicUser is the externally visible projection of a User. It never
// carries the password hash.
type PublicUser struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	OrganizationType OrganizationType `json:"organization_type"`
	OrganizationName string           `json:"organization_name"`
	JobTitle         string           `json:"job_title"`
	EmailVerified    bool             `json:"email_verified"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Public returns the user without credential material.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		OrganizationType: u.OrganizationType,
		OrganizationName: u.OrganizationName,
		JobTitle:         u.JobTitle,
		EmailVerified:    u.EmailVerified,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
