package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/shared"
)

const (
	defaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenURL    = "https://securetoken.googleapis.com/v1"
)

// Credentials is the outcome of a successful identity provider call.
type Credentials struct {
	User         models.User
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// IdentityClient talks to the identity provider's REST API (Identity Toolkit accounts endpoints
// plus the secure token endpoint for refreshes).
type IdentityClient struct {
	apiKey      string
	identityURL string
	tokenURL    string
	httpClient  *http.Client
	now         func() time.Time
}

// NewIdentityClient creates a client. Empty URLs fall back to the public Google endpoints.
func NewIdentityClient(apiKey, identityURL, tokenURL string, client *http.Client) *IdentityClient {
	if identityURL == "" {
		identityURL = defaultIdentityURL
	}
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &IdentityClient{
		apiKey:      apiKey,
		identityURL: strings.TrimRight(identityURL, "/"),
		tokenURL:    strings.TrimRight(tokenURL, "/"),
		httpClient:  client,
		now:         time.Now,
	}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type idpRequest struct {
	PostBody          string `json:"postBody"`
	RequestURI        string `json:"requestUri"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword signs in an existing email/password account.
func (c *IdentityClient) SignInWithPassword(ctx context.Context, email, password string) (*Credentials, error) {
	body := passwordRequest{Email: email, Password: password, ReturnSecureToken: true}
	return c.account(ctx, "accounts:signInWithPassword", body)
}

// SignUp creates an email/password account. The new account is signed in.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (*Credentials, error) {
	body := passwordRequest{Email: email, Password: password, ReturnSecureToken: true}
	return c.account(ctx, "accounts:signUp", body)
}

// SignInWithGoogleIDToken exchanges a Google ID token for provider credentials.
func (c *IdentityClient) SignInWithGoogleIDToken(ctx context.Context, googleIDToken, requestURI string) (*Credentials, error) {
	form := url.Values{}
	form.Set("id_token", googleIDToken)
	form.Set("providerId", models.ProviderGoogle)

	body := idpRequest{PostBody: form.Encode(), RequestURI: requestURI, ReturnSecureToken: true}
	return c.account(ctx, "accounts:signInWithIdp", body)
}

// Refresh trades a refresh token for a new ID token. The returned user carries only the ID.
func (c *IdentityClient) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := c.tokenURL + "/token?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp refreshResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	return &Credentials{
		User:         models.User{ID: resp.UserID},
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    c.expiry(resp.ExpiresIn),
	}, nil
}

func (c *IdentityClient) account(ctx context.Context, method string, body any) (*Credentials, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.identityURL + "/" + method + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp accountResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.LocalID == "" || resp.IDToken == "" {
		return nil, fmt.Errorf("%w: response is missing the account id or token", shared.ErrAuthFailed)
	}

	return &Credentials{
		User:         models.User{ID: resp.LocalID, Email: resp.Email, DisplayName: resp.DisplayName},
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    c.expiry(resp.ExpiresIn),
	}, nil
}

func (c *IdentityClient) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error.Message != "" {
			return &ProviderError{Code: errResp.Error.Message}
		}
		return fmt.Errorf("%w: identity provider returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// expiry converts an expires_in seconds string into an absolute time. Unparseable values mean no expiry.
func (c *IdentityClient) expiry(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return c.now().Add(time.Duration(secs) * time.Second)
}
