package application_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vestira/account-service/internal/application"
	"github.com/vestira/account-service/internal/domain/entity"
	"github.com/vestira/account-service/internal/domain/repository"
	"github.com/vestira/account-service/internal/infrastructure/memstore"
	"github.com/vestira/account-service/pkg/helpers"
	"github.com/vestira/account-service/pkg/mailer"
)

// recordingRepo captures the last saved verification record so tests can
// get at the token Signup issues.
type recordingRepo struct {
	repository.UserRepository
	lastVerification *entity.VerificationToken
}

func (r *recordingRepo) SaveVerification(v *entity.VerificationToken) error {
	r.lastVerification = v
	return r.UserRepository.SaveVerification(v)
}

type fixture struct {
	svc  *application.Service
	repo *recordingRepo
	jwt  *helpers.JWTManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &recordingRepo{UserRepository: memstore.NewUserRepository()}
	jwtm := helpers.NewJWTManager("test-secret", time.Hour, time.Hour)
	svc := application.NewService(
		repo,
		helpers.NewHasher(bcrypt.MinCost),
		jwtm,
		nil, // no publisher: email delivery is fire-and-forget anyway
		logger,
		func(token string) string { return "http://localhost/api/verify?token=" + token },
		"http://localhost:3000/login",
		false,
	)
	return &fixture{svc: svc, repo: repo, jwt: jwtm}
}

// capturingPublisher records published email jobs in place of a queue.
type capturingPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *capturingPublisher) PublishJSON(ctx context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func signupInput(email string) application.SignupInput {
	return application.SignupInput{
		Email:            email,
		Password:         "Secret123!",
		FirstName:        "Jane",
		LastName:         "Doe",
		OrganizationType: entity.OrgAllocator,
		OrganizationName: "Acme Pension",
		JobTitle:         "Analyst",
	}
}

func TestSignupVerifyLoginLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// signup: account starts unverified, no session token handed out
	u, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.False(t, u.EmailVerified)
	require.NotNil(t, f.repo.lastVerification)

	// login before verification is refused with a distinct outcome
	_, _, _, err = f.svc.Login(ctx, "a@b.com", "Secret123!")
	require.ErrorIs(t, err, application.ErrEmailNotVerified)

	// verify flips the flag
	verified, err := f.svc.VerifyEmail(ctx, f.repo.lastVerification.Token)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	// login now succeeds and the token decodes back to the identity
	got, token, exp, err := f.svc.Login(ctx, "a@b.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, exp.After(time.Now()))

	claims, err := f.jwt.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, string(entity.OrgAllocator), claims.OrganizationType)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupInput("EMAIL@x.com"))
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, signupInput("email@x.com"))
	require.ErrorIs(t, err, application.ErrDuplicateEmail)
}

func TestVerifyEmailSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)
	token := f.repo.lastVerification.Token

	_, err = f.svc.VerifyEmail(ctx, token)
	require.NoError(t, err)

	// the signature is still valid, but the record is consumed
	_, err = f.svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, application.ErrTokenAlreadyUsed)
}

func TestVerifyEmailConcurrentUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)
	token := f.repo.lastVerification.Token

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.VerifyEmail(ctx, token)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, application.ErrTokenAlreadyUsed)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestEmailJobsPublished(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &recordingRepo{UserRepository: memstore.NewUserRepository()}
	pub := &capturingPublisher{}
	svc := application.NewService(
		repo,
		helpers.NewHasher(bcrypt.MinCost),
		helpers.NewJWTManager("test-secret", time.Hour, time.Hour),
		pub,
		logger,
		func(token string) string { return "http://localhost/api/verify?token=" + token },
		"http://localhost:3000/login",
		true,
	)
	ctx := context.Background()

	// signup enqueues the verification email
	_, err := svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1)
	assert.Equal(t, mailer.TemplateVerifyEmail, pub.jobs[0].Template)
	assert.Equal(t, "a@b.com", pub.jobs[0].To)
	assert.Contains(t, pub.jobs[0].Data["VerifyURL"], "token=")

	// successful verification enqueues the welcome email
	_, err = svc.VerifyEmail(ctx, repo.lastVerification.Token)
	require.NoError(t, err)
	require.Len(t, pub.jobs, 2)
	assert.Equal(t, mailer.TemplateWelcome, pub.jobs[1].Template)
	assert.Equal(t, "a@b.com", pub.jobs[1].To)
	assert.Equal(t, "allocator", pub.jobs[1].Data["OrganizationType"])
	assert.Equal(t, "http://localhost:3000/login", pub.jobs[1].Data["LoginURL"])

	// a replayed token never re-sends the welcome email
	_, err = svc.VerifyEmail(ctx, repo.lastVerification.Token)
	require.ErrorIs(t, err, application.ErrTokenAlreadyUsed)
	assert.Len(t, pub.jobs, 2)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)

	// issue an already-expired token with the same secret
	expired := helpers.NewJWTManager("test-secret", time.Hour, -time.Minute)
	token, exp, err := expired.GenerateVerificationToken("a@b.com")
	require.NoError(t, err)
	require.NoError(t, f.repo.SaveVerification(&entity.VerificationToken{
		Email:     "a@b.com",
		Token:     token,
		IssuedAt:  time.Now().UTC().Add(-25 * time.Hour),
		ExpiresAt: exp,
	}))

	_, err = f.svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, application.ErrTokenExpired)
}

func TestVerifyEmailInvalidToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyEmail(context.Background(), "garbage")
	require.ErrorIs(t, err, application.ErrTokenInvalid)
}

func TestVerifyEmailUserGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// a token whose user was never created
	token, exp, err := f.jwt.GenerateVerificationToken("ghost@b.com")
	require.NoError(t, err)
	require.NoError(t, f.repo.SaveVerification(&entity.VerificationToken{
		Email:     "ghost@b.com",
		Token:     token,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: exp,
	}))

	_, err = f.svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestLoginEnumerationResistance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)

	_, _, _, errUnknown := f.svc.Login(ctx, "nobody@b.com", "Secret123!")
	_, _, _, errWrongPwd := f.svc.Login(ctx, "a@b.com", "WrongPassword1!")

	require.ErrorIs(t, errUnknown, application.ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPwd, application.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPwd)
}

func TestLoginNormalizesEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)
	_, err = f.svc.VerifyEmail(ctx, f.repo.lastVerification.Token)
	require.NoError(t, err)

	_, _, _, err = f.svc.Login(ctx, "A@B.COM", "Secret123!")
	require.NoError(t, err)
}

func TestResendVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)
	first := f.repo.lastVerification.Token

	require.NoError(t, f.svc.ResendVerification(ctx, "a@b.com"))
	second := f.repo.lastVerification.Token
	assert.NotEqual(t, first, second)

	// both outstanding tokens work, each exactly once
	_, err = f.svc.VerifyEmail(ctx, second)
	require.NoError(t, err)

	// unknown emails get the same silent success
	require.NoError(t, f.svc.ResendVerification(ctx, "nobody@b.com"))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Signup(ctx, signupInput("a@b.com"))
	require.NoError(t, err)

	title := "Director"
	updated, err := f.svc.UpdateProfile(ctx, u.ID, application.UpdateProfileInput{JobTitle: &title})
	require.NoError(t, err)
	assert.Equal(t, "Director", updated.JobTitle)
	assert.Equal(t, "Jane", updated.FirstName)
	// verification state is not reachable through profile updates
	assert.False(t, updated.EmailVerified)

	_, err = f.svc.UpdateProfile(ctx, "missing", application.UpdateProfileInput{JobTitle: &title})
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestSeedDemoAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f.svc.SeedDemoAccounts(ctx, logger)

	// seeded accounts log in through the normal path
	u, _, _, err := f.svc.Login(ctx, "demo.manager@vestira.dev", "DemoPass123!")
	require.NoError(t, err)
	assert.Equal(t, entity.OrgManager, u.OrganizationType)

	// idempotent on restart
	f.svc.SeedDemoAccounts(ctx, logger)
	_, _, _, err = f.svc.Login(ctx, "demo.manager@vestira.dev", "DemoPass123!")
	require.NoError(t, err)
}
