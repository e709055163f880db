package entity

import "time"

// VerificationToken records an outstanding email-verification token.
// Tokens are single-use: the record is removed on successful verification,
// so a replayed token that no longer has a record must be rejected even if
// its signature is still valid.
type VerificationToken struct {
	Email     string
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (v *VerificationToken) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
