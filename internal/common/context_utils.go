package common

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

type contextKey string

const (
	// AuthSubjectKey holds the external-auth subject id extracted from the
	// bearer token.
	AuthSubjectKey contextKey = "auth_subject"
)

// GetAuthSubjectFromContext extracts the external-auth subject id set by the
// JWT middleware.
func GetAuthSubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(AuthSubjectKey).(string)
	return subject, ok && subject != ""
}

// WithAuthSubject returns a context carrying the external-auth subject id.
func WithAuthSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, AuthSubjectKey, subject)
}

// nitPattern: 6 to 10 digits, a hyphen, and the checksum digit,
// e.g. "900123456-7".
var nitPattern = regexp.MustCompile(`^[0-9]{6,10}-[0-9]$`)

// IsValidNIT reports whether the tax identifier matches the required format.
func IsValidNIT(nit string) bool {
	return nitPattern.MatchString(nit)
}

// GenerateSecurityCode produces the opaque random token stored on both
// company representations and used later as the tenant access code.
func GenerateSecurityCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate security code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
