package models

import (
	"fmt"
	"time"
)

// Session providers
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// Session is a persisted sign-in for one [User].
type Session struct {
	id           string
	sequence     int
	user         User
	provider     string
	idToken      string
	refreshToken string
	expiresAt    time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

var _ Model = (*Session)(nil)

// NewSession creates an unsaved session for user.
func NewSession(user User, provider, idToken, refreshToken string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		user:         user,
		provider:     provider,
		idToken:      idToken,
		refreshToken: refreshToken,
		expiresAt:    expiresAt,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Sequence() int         { return s.sequence }
func (s *Session) User() User            { return s.user }
func (s *Session) Provider() string      { return s.provider }
func (s *Session) IDToken() string       { return s.idToken }
func (s *Session) RefreshToken() string  { return s.refreshToken }
func (s *Session) ExpiresAt() time.Time  { return s.expiresAt }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Session) DeletedAt() *time.Time { return s.deletedAt }

func (s *Session) SetID(id string)           { s.id = id }
func (s *Session) SetSequence(seq int)       { s.sequence = seq }
func (s *Session) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Session) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *Session) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// SetTokens replaces the tokens after a refresh. An empty refresh token keeps the current one.
func (s *Session) SetTokens(idToken, refresh string, expiresAt time.Time) {
	s.idToken = idToken
	if refresh != "" {
		s.refreshToken = refresh
	}
	s.expiresAt = expiresAt
}

// Expired reports whether the ID token's expiry has passed. A zero expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}

// Validate checks the session identifies a user and a provider.
func (s *Session) Validate() error {
	if s.user.ID == "" {
		return fmt.Errorf("session user id is required")
	}
	if s.provider == "" {
		return fmt.Errorf("session provider is required")
	}
	return nil
}
