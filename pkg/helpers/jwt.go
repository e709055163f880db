package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerificationPurpose is the purpose claim carried by verification tokens.
// Session tokens never carry it; a session token can therefore not be
// replayed against the verify endpoint.
const VerificationPurpose = "email-verification"

var (
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid marks a malformed, forged, or wrong-purpose token.
	ErrTokenInvalid = errors.New("token invalid")
)

// JWTManager signs and validates the two token kinds the service issues:
// stateless session tokens and single-use email-verification tokens.
type JWTManager struct {
	Secret          []byte
	SessionTTL      time.Duration
	VerificationTTL time.Duration
}

func NewJWTManager(secret string, sessionTTL, verificationTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:          []byte(secret),
		SessionTTL:      sessionTTL,
		VerificationTTL: verificationTTL,
	}
}

// SessionClaims are embedded in session tokens. Possession of a valid,
// non-expired token is sufficient to authenticate; no server-side session
// record exists.
type SessionClaims struct {
	UserID           string `json:"uid"`
	Email            string `json:"email"`
	OrganizationType string `json:"org_type"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	jwt.RegisteredClaims
}

// VerificationClaims are embedded in email-verification tokens.
type VerificationClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session token for the given identity.
func (m *JWTManager) GenerateSessionToken(userID, email, orgType, firstName, lastName string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.SessionTTL)
	claims := &SessionClaims{
		UserID:           userID,
		Email:            email,
		OrganizationType: orgType,
		FirstName:        firstName,
		LastName:         lastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// GenerateVerificationToken signs an email-verification token.
func (m *JWTManager) GenerateVerificationToken(email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.VerificationTTL)
	claims := &VerificationClaims{
		Email:   email,
		Purpose: VerificationPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// ParseSessionToken validates signature and expiry and returns the claims.
func (m *JWTManager) ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseVerificationToken validates signature, expiry, and the purpose claim.
func (m *JWTManager) ParseVerificationToken(tokenStr string) (*VerificationClaims, error) {
	claims := &VerificationClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != VerificationPurpose {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *JWTManager) parse(tokenStr string, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !tkn.Valid {
		return ErrTokenInvalid
	}
	return nil
}
