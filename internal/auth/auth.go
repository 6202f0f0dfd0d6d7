package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/shared"
)

// Messages reported by the sign-in surfaces.
const (
	MsgSignedIn   = "Signed in successfully!"
	MsgRegistered = "Account created successfully!"
	MsgSignedOut  = "Signed out successfully!"
)

// refreshSkew renews ID tokens slightly before they expire.
const refreshSkew = time.Minute

// Provider is the identity boundary: a current-user signal plus actions that resolve or fail.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	SignInWithGoogle(ctx context.Context) (*models.User, error)
	SignOut(ctx context.Context) error
	Current() (*models.User, bool)
	Subscribe(fn func(*models.User))
}

// Identity is the identity provider API. [*IdentityClient] satisfies it.
type Identity interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Credentials, error)
	SignUp(ctx context.Context, email, password string) (*Credentials, error)
	SignInWithGoogleIDToken(ctx context.Context, googleIDToken, requestURI string) (*Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (*Credentials, error)
}

// GoogleSignIn obtains a Google ID token interactively. [*GoogleFlow] satisfies it.
type GoogleSignIn interface {
	IDToken(ctx context.Context) (string, error)
	RedirectURL() string
}

// SessionStore persists the active session. [*repositories.SessionRepository] satisfies it.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	Active(ctx context.Context) (*models.Session, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Manager implements [Provider] on top of the identity API, keeping at most one active session.
type Manager struct {
	mu          sync.Mutex
	identity    Identity
	google      GoogleSignIn
	sessions    SessionStore
	logger      *log.Logger
	now         func() time.Time
	current     *models.Session
	subscribers []func(*models.User)
}

var _ Provider = (*Manager)(nil)

// NewManager creates a signed-out manager. google and sessions may be nil, which disables
// Google sign-in and session persistence respectively.
func NewManager(identity Identity, google GoogleSignIn, sessions SessionStore, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{identity: identity, google: google, sessions: sessions, logger: logger, now: time.Now}
}

// Restore loads the last persisted session, if any. It reports [shared.ErrNotAuthenticated]
// when there is none.
func (m *Manager) Restore(ctx context.Context) (*models.User, error) {
	if m.sessions == nil {
		return nil, shared.ErrNotAuthenticated
	}

	session, err := m.sessions.Active(ctx)
	if err != nil {
		return nil, err
	}

	user := m.setCurrent(session)
	m.logger.Debug("restored session", "user", user.ID, "provider", session.Provider())
	return user, nil
}

// SignIn signs in with email and password.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	creds, err := m.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	return m.establish(ctx, creds, models.ProviderPassword)
}

// SignUp registers an email/password account and signs it in.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	creds, err := m.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return m.establish(ctx, creds, models.ProviderPassword)
}

// SignInWithGoogle runs the browser flow and signs in with the resulting Google identity.
func (m *Manager) SignInWithGoogle(ctx context.Context) (*models.User, error) {
	if m.google == nil {
		return nil, fmt.Errorf("%w: google sign-in requires auth.google.client_id and client_secret", shared.ErrMissingConfig)
	}

	idToken, err := m.google.IDToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	creds, err := m.identity.SignInWithGoogleIDToken(ctx, idToken, m.google.RedirectURL())
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	return m.establish(ctx, creds, models.ProviderGoogle)
}

// SignOut forgets the current session, locally and in the session store.
func (m *Manager) SignOut(ctx context.Context) error {
	if m.sessions != nil {
		if _, err := m.sessions.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}
	}

	m.setCurrent(nil)
	m.logger.Info("signed out")
	return nil
}

// Current returns the signed-in user.
func (m *Manager) Current() (*models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, false
	}
	user := m.current.User()
	return &user, true
}

// Subscribe registers fn to be called with the user on sign-in and nil on sign-out.
func (m *Manager) Subscribe(fn func(*models.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Token returns a valid ID token for the current session, refreshing it when it is about to expire.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	session := m.current
	if session == nil {
		m.mu.Unlock()
		return "", shared.ErrNotAuthenticated
	}
	idToken, refreshToken := session.IDToken(), session.RefreshToken()
	expired := session.Expired(m.now().Add(refreshSkew))
	m.mu.Unlock()

	if !expired {
		return idToken, nil
	}
	if refreshToken == "" {
		return "", fmt.Errorf("%w: session expired", shared.ErrNotAuthenticated)
	}

	creds, err := m.identity.Refresh(ctx, refreshToken)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return "", fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, perr.Reason())
		}
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	m.mu.Lock()
	session.SetTokens(creds.IDToken, creds.RefreshToken, creds.ExpiresAt)
	m.mu.Unlock()

	if m.sessions != nil {
		if err := m.sessions.Update(ctx, session); err != nil {
			m.logger.Warn("failed to persist refreshed token", "error", err)
		}
	}

	m.logger.Debug("refreshed id token", "expires_at", creds.ExpiresAt)
	return creds.IDToken, nil
}

func (m *Manager) establish(ctx context.Context, creds *Credentials, provider string) (*models.User, error) {
	session := models.NewSession(creds.User, provider, creds.IDToken, creds.RefreshToken, creds.ExpiresAt)

	if m.sessions != nil {
		if _, err := m.sessions.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear previous sessions: %w", err)
		}
		if err := m.sessions.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}

	user := m.setCurrent(session)
	m.logger.Info("signed in", "user", user.ID, "provider", provider)
	return user, nil
}

// setCurrent swaps the session and publishes the change outside the lock.
func (m *Manager) setCurrent(session *models.Session) *models.User {
	m.mu.Lock()
	m.current = session
	subs := slices.Clone(m.subscribers)
	m.mu.Unlock()

	var user *models.User
	if session != nil {
		u := session.User()
		user = &u
	}

	for _, fn := range subs {
		fn(user)
	}
	return user
}

// FailureMessage renders a sign-in error for display, e.g. "Sign-in failed: invalid email or password".
func FailureMessage(prefix string, err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return prefix + ": " + perr.Reason()
	}
	if inner := errors.Unwrap(err); inner != nil {
		err = inner
	}
	return prefix + ": " + err.Error()
}
