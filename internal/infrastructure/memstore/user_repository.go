package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vestira/account-service/internal/domain/entity"
	"github.com/vestira/account-service/internal/domain/repository"
)

// UserRepository is a process-memory implementation of
// repository.UserRepository. Records do not survive a restart.
//
// A single mutex guards both maps so the duplicate-email check and the
// insert happen atomically: two concurrent signups for the same email
// cannot both succeed.
type UserRepository struct {
	mu sync.RWMutex

	// normalized email -> user
	byEmail map[string]*entity.User
	// id -> normalized email
	byID map[string]string
	// token string -> verification record
	verifications map[string]*entity.VerificationToken
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byEmail:       make(map[string]*entity.User),
		byID:          make(map[string]string),
		verifications: make(map[string]*entity.VerificationToken),
	}
}

func (r *UserRepository) CreateUser(u *entity.User) (*entity.User, error) {
	email := entity.NormalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, repository.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	stored := *u
	stored.ID = uuid.NewString()
	stored.Email = email
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byEmail[email] = &stored
	r.byID[stored.ID] = email

	out := stored
	return &out, nil
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *r.byEmail[email]
	return &out, nil
}

func (r *UserRepository) UpdateUser(id string, patch repository.UserPatch) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.byEmail[email]

	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.OrganizationName != nil {
		u.OrganizationName = *patch.OrganizationName
	}
	if patch.JobTitle != nil {
		u.JobTitle = *patch.JobTitle
	}
	if patch.EmailVerified != nil {
		u.EmailVerified = *patch.EmailVerified
	}
	u.UpdatedAt = time.Now().UTC()

	out := *u
	return &out, nil
}

func (r *UserRepository) SaveVerification(v *entity.VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *v
	r.verifications[v.Token] = &stored
	return nil
}

func (r *UserRepository) ConsumeVerification(token string) (*entity.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.verifications[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.verifications, token)

	out := *v
	return &out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
