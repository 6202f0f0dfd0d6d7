package auth

import (
	"strings"

	"github.com/desertthunder/taskly/internal/shared"
)

// ProviderError is a rejection reported by the identity provider, e.g. EMAIL_EXISTS or
// INVALID_LOGIN_CREDENTIALS. It matches [shared.ErrAuthFailed].
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string { return "identity provider: " + e.Code }

func (e *ProviderError) Unwrap() error { return shared.ErrAuthFailed }

// Reason returns a readable description of the provider code.
func (e *ProviderError) Reason() string {
	code, detail, _ := strings.Cut(e.Code, " : ")
	switch code {
	case "EMAIL_EXISTS":
		return "an account with this email already exists"
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return "invalid email or password"
	case "INVALID_EMAIL":
		return "the email address is badly formatted"
	case "USER_DISABLED":
		return "this account has been disabled"
	case "WEAK_PASSWORD":
		if detail != "" {
			return detail
		}
		return "password should be at least 6 characters"
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "too many attempts, try again later"
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN":
		return "session expired, sign in again"
	default:
		return strings.ToLower(strings.ReplaceAll(code, "_", " "))
	}
}
