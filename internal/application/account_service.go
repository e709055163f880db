package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vestira/account-service/internal/domain/entity"
	"github.com/vestira/account-service/internal/domain/repository"
	"github.com/vestira/account-service/pkg/helpers"
	"github.com/vestira/account-service/pkg/mailer"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified is returned on login when the password matched
	// but the account has not completed email verification.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrDuplicateEmail is returned on signup for an already-taken email.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrTokenAlreadyUsed marks a verification token whose stored record
	// is gone: either consumed earlier or never issued by this process.
	ErrTokenAlreadyUsed = errors.New("verification token already used or unknown")
	// ErrUserNotFound marks a valid token referencing a user that no
	// longer exists; an internal consistency failure.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenExpired and ErrTokenInvalid re-export the token issuer's
	// taxonomy so handlers depend on a single package.
	ErrTokenExpired = helpers.ErrTokenExpired
	ErrTokenInvalid = helpers.ErrTokenInvalid
)

// EmailPublisher puts email jobs on the delivery queue.
// *helpers.RabbitPublisher implements it.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Service orchestrates the account lifecycle: signup, email verification,
// and login. Only this service mutates the credential store.
type Service struct {
	Repo   repository.UserRepository
	Hasher *helpers.Hasher
	JWT    *helpers.JWTManager
	Pub    EmailPublisher
	Logger *logrus.Logger

	// VerifyLink builds the link embedded in verification emails.
	VerifyLink func(token string) string
	// LoginURL is embedded in the welcome email.
	LoginURL string
	// MailEnabled gates the fire-and-forget email publishes.
	MailEnabled bool
}

func NewService(repo repository.UserRepository, hasher *helpers.Hasher, jwt *helpers.JWTManager, pub EmailPublisher, logger *logrus.Logger, verifyLink func(string) string, loginURL string, mailEnabled bool) *Service {
	return &Service{
		Repo:        repo,
		Hasher:      hasher,
		JWT:         jwt,
		Pub:         pub,
		Logger:      logger,
		VerifyLink:  verifyLink,
		LoginURL:    loginURL,
		MailEnabled: mailEnabled,
	}
}

// SignupInput carries the validated signup fields. The handler performs
// shape validation; the service normalizes and stores.
type SignupInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationType entity.OrganizationType
	OrganizationName string
	JobTitle         string
}

// Signup registers a new account in the PendingVerification state, issues
// a verification token, and enqueues the verification email. The email
// publish is fire-and-forget: a delivery failure never rolls back the
// created user. No session token is returned; the user must verify first.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*entity.PublicUser, error) {
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.Repo.CreateUser(&entity.User{
		Email:            entity.NormalizeEmail(in.Email),
		PasswordHash:     hash,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		OrganizationType: in.OrganizationType,
		OrganizationName: in.OrganizationName,
		JobTitle:         in.JobTitle,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if err := s.issueVerification(ctx, u); err != nil {
		// The account exists and can request a resend; log and move on.
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to issue verification token")
	}

	pub := u.Public()
	return &pub, nil
}

// VerifyEmail consumes a verification token and flips the account to the
// Verified state. Tokens are single-use: the stored record is removed
// atomically on consumption, so a replay fails even while the signature is
// still valid and two concurrent calls cannot both succeed.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*entity.PublicUser, error) {
	claims, err := s.JWT.ParseVerificationToken(token)
	if err != nil {
		return nil, err
	}

	rec, err := s.Repo.ConsumeVerification(token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenAlreadyUsed
		}
		return nil, err
	}
	if rec.Expired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}

	u, err := s.Repo.GetByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	verified := true
	updated, err := s.Repo.UpdateUser(u.ID, repository.UserPatch{EmailVerified: &verified})
	if err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{"user_id": updated.ID, "email": updated.Email}).Info("email verified")

	s.sendWelcome(ctx, updated)

	pub := updated.Public()
	return &pub, nil
}

// Login authenticates by email and password and issues a session token.
// It is read-only on the store.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.PublicUser, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(entity.NormalizeEmail(email))
	if err != nil {
		// Burn a hash comparison so unknown emails take as long as
		// wrong passwords.
		_, _ = s.Hasher.Verify(password, decoyHash)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	ok, err := s.Hasher.Verify(password, u.PasswordHash)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("stored password hash is malformed")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !ok {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if !u.EmailVerified {
		return nil, "", time.Time{}, ErrEmailNotVerified
	}

	token, exp, err := s.JWT.GenerateSessionToken(u.ID, u.Email, string(u.OrganizationType), u.FirstName, u.LastName)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	pub := u.Public()
	return &pub, token, exp, nil
}

// ResendVerification re-issues a verification token for an unverified
// account. It reports nothing about whether the email exists.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(entity.NormalizeEmail(email))
	if err != nil || u.EmailVerified {
		return nil
	}
	if err := s.issueVerification(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to re-issue verification token")
	}
	return nil
}

// GetProfile returns the public fields of a user.
func (s *Service) GetProfile(id string) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// UpdateProfileInput carries the patchable profile fields; nil means
// leave unchanged.
type UpdateProfileInput struct {
	FirstName        *string
	LastName         *string
	OrganizationName *string
	JobTitle         *string
}

// UpdateProfile patches profile fields. Email, verification state, and the
// password hash are not reachable through this path.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*entity.PublicUser, error) {
	updated, err := s.Repo.UpdateUser(id, repository.UserPatch{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		OrganizationName: in.OrganizationName,
		JobTitle:         in.JobTitle,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := updated.Public()
	return &pub, nil
}

func (s *Service) issueVerification(ctx context.Context, u *entity.User) error {
	token, exp, err := s.JWT.GenerateVerificationToken(u.Email)
	if err != nil {
		return err
	}
	if err := s.Repo.SaveVerification(&entity.VerificationToken{
		Email:     u.Email,
		Token:     token,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: exp,
	}); err != nil {
		return err
	}

	if s.Pub == nil || !s.MailEnabled {
		return nil
	}
	link := token
	if s.VerifyLink != nil {
		link = s.VerifyLink(token)
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateVerifyEmail,
		Data: map[string]any{
			"Name":      u.FirstName,
			"VerifyURL": link,
			"ExpiresAt": exp,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("failed to publish verification email job")
	}
	return nil
}

// sendWelcome enqueues the welcome email after a successful verification.
// Like the verification email, delivery is fire-and-forget.
func (s *Service) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name":             u.FirstName,
			"OrganizationType": string(u.OrganizationType),
			"LoginURL":         s.LoginURL,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("failed to publish welcome email job")
	}
}

// decoyHash is a bcrypt hash of a random string, compared against when the
// email is unknown to keep login timing uniform.
const decoyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
