// Package authclient is the HTTP client the mobile and desktop shells use to
// talk to the BudgetWise auth API. Errors returned by this package carry the
// message the UI should show verbatim.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/budgetwise/budgetwise-go/internal/util"
)

const (
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 1 << 20
)

// ErrNetwork is returned for any transport-level failure. The message is
// shown to the user as-is, so it stays generic regardless of the cause.
var ErrNetwork = errors.New("Network error. Please try again.")

// ErrTokenInvalid reports that the backend rejected a session token.
var ErrTokenInvalid = errors.New("Session expired. Please log in again.")

// Per-operation fallback messages, used when the backend fails without a
// usable error payload.
const (
	loginFallback       = "Login failed. Please try again."
	signupFallback      = "Signup failed. Please try again."
	forgotFallback      = "Failed to process request. Please try again."
	verifyResetFallback = "Invalid or expired reset token."
	resetFallback       = "Failed to reset password. Please try again."
	getProfileFallback  = "Failed to load profile."
	saveProfileFallback = "Failed to update profile."
)

// Client talks to a single BudgetWise backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the backend at baseURL, e.g.
// "https://api.budgetwise.app".
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: defaultTimeout})
}

// NewWithHTTPClient is New with a caller-supplied http.Client, mainly for
// tests and custom transports.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	UserID  string   `json:"userId"`
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// SignupResult is the payload of a successful signup.
type SignupResult struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// Identity is the subject a verified token resolves to.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Login exchanges credentials for a session token and the user's profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.post(ctx, "/auth/login", "", body, &out, loginFallback); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account. Name is optional; pass "" to omit it.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*SignupResult, error) {
	body := map[string]any{"email": email, "password": password}
	if name != "" {
		body["name"] = name
	}
	var out SignupResult
	if err := c.post(ctx, "/auth/signup", "", body, &out, signupFallback); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyToken asks the backend whether token still identifies a session.
// A rejected token returns ErrTokenInvalid.
func (c *Client) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	var out struct {
		Valid  bool   `json:"valid"`
		UserID string `json:"userId"`
		Email  string `json:"email"`
	}
	if err := c.post(ctx, "/auth/verify", "", map[string]string{"token": token}, &out, loginFallback); err != nil {
		return nil, err
	}
	if !out.Valid {
		return nil, ErrTokenInvalid
	}
	return &Identity{UserID: out.UserID, Email: out.Email}, nil
}

// RequestPasswordReset starts the reset flow and returns the confirmation
// message to display. The backend answers identically whether or not the
// email has an account.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/auth/forgot-password", "", map[string]string{"email": email}, &out, forgotFallback); err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyPasswordResetToken checks a reset token before showing the
// new-password form.
func (c *Client) VerifyPasswordResetToken(ctx context.Context, token string) error {
	return c.post(ctx, "/auth/reset-password/verify", "", map[string]string{"token": token}, nil, verifyResetFallback)
}

// ResetPassword completes the reset flow. The password policy is enforced
// locally first so a weak password never consumes the single-use token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !util.IsValidPassword(newPassword) {
		return errors.New(util.PasswordPolicyMessage)
	}
	body := map[string]string{"token": token, "newPassword": newPassword}
	return c.post(ctx, "/auth/reset-password", "", body, nil, resetFallback)
}

// GetProfile fetches the profile for the session behind token.
func (c *Client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/profile", nil)
	if err != nil {
		return nil, ErrNetwork
	}
	req.Header.Set("Authorization", "Bearer "+token)

	data, status, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrTokenInvalid
	}
	if msg := errorMessage(data, status); msg != "" {
		return nil, errors.New(msg)
	}
	if status >= 400 {
		return nil, errors.New(getProfileFallback)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, errors.New(getProfileFallback)
	}
	return &profile, nil
}

// UpdateProfile sends a partial profile update. The backend keeps any field
// absent from updates unchanged.
func (c *Client) UpdateProfile(ctx context.Context, token string, updates map[string]any) error {
	return c.post(ctx, "/api/profile", token, updates, nil, saveProfileFallback)
}

// post issues a JSON POST and decodes the response into out when non-nil.
// API-level failures come back as errors carrying the backend's message, or
// fallback when the backend gave none.
func (c *Client) post(ctx context.Context, path, token string, body, out any, fallback string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return ErrNetwork
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	data, status, err := c.send(req)
	if err != nil {
		return err
	}
	if msg := errorMessage(data, status); msg != "" {
		return errors.New(msg)
	}
	if status >= 400 {
		return errors.New(fallback)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.New(fallback)
		}
	}
	return nil
}

func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", req.URL.String()).Msg("auth request failed")
		return nil, 0, ErrNetwork
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, ErrNetwork
	}
	return data, resp.StatusCode, nil
}

// errorMessage extracts the backend's error message from a failed response,
// or "" when the response does not look like a failure.
func errorMessage(data []byte, status int) string {
	var probe struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	if probe.Error != "" && (status >= 400 || probe.Success == nil || !*probe.Success) {
		return probe.Error
	}
	return ""
}
