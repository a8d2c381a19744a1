// Package identity talks to the managed identity provider (a GoTrue-style
// auth service). The provider owns credential storage, password hashing and
// JWT session issuance; this client only calls its admin and token
// endpoints and verifies the JWTs it returns.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/utils/safe"
)

// Client is the HTTP implementation of interfaces.IdentityClient
type Client struct {
	baseURL    string
	serviceKey string
	jwtSecret  string
	httpClient *http.Client
}

var _ interfaces.IdentityClient = &Client{}

// New creates an identity provider client. baseURL is the provider
// endpoint, serviceKey authorizes admin operations, jwtSecret verifies
// provider-issued session JWTs.
func New(baseURL, serviceKey, jwtSecret string) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("identity provider base URL is required")
	}
	if serviceKey == "" {
		return nil, goerr.New("identity provider service key is required")
	}
	if jwtSecret == "" {
		return nil, goerr.New("identity provider JWT secret is required")
	}

	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		jwtSecret:  jwtSecret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// statusError carries the provider's HTTP status so callers can
// distinguish conflict responses from transport failures
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("identity provider returned %d", e.code)
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// CreateUser provisions a provider account via the admin endpoint. An
// empty password leaves the account unable to log in until a password is
// set through the provider's own recovery flow.
func (c *Client) CreateUser(ctx context.Context, email, password string) (*interfaces.IdentityUser, error) {
	payload := map[string]interface{}{
		"email":         email,
		"email_confirm": password != "",
	}
	if password != "" {
		payload["password"] = password
	}

	var user userResponse
	if err := c.do(ctx, http.MethodPost, "/admin/users", payload, &user); err != nil {
		// GoTrue answers 422 (some deployments 409) when the email is taken
		var se *statusError
		if errors.As(err, &se) && (se.code == http.StatusUnprocessableEntity || se.code == http.StatusConflict) {
			return nil, goerr.Wrap(interfaces.ErrEmailRegistered, "provider account exists", goerr.V("email", email))
		}
		return nil, goerr.Wrap(err, "failed to create identity user", goerr.V("email", email))
	}
	if user.ID == "" {
		return nil, goerr.New("identity provider returned no user ID", goerr.V("email", email))
	}

	return &interfaces.IdentityUser{ID: user.ID, Email: user.Email}, nil
}

// DeleteUser removes a provider account
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/users/"+id, nil, nil); err != nil {
		return goerr.Wrap(err, "failed to delete identity user", goerr.V("id", id))
	}
	return nil
}

// SignIn performs a password grant and verifies the returned JWT
func (c *Client) SignIn(ctx context.Context, email, password string) (*interfaces.IdentityUser, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", payload, &resp); err != nil {
		return nil, goerr.Wrap(err, "password grant failed", goerr.V("email", email))
	}
	if resp.Error != "" {
		return nil, goerr.New("identity provider rejected credentials",
			goerr.V("error", resp.Error), goerr.V("description", resp.ErrorDescription))
	}

	return c.verifyAccessToken(resp.AccessToken)
}

// verifyAccessToken validates the provider-issued HS256 JWT and extracts
// the user identity from its claims
func (c *Client) verifyAccessToken(accessToken string) (*interfaces.IdentityUser, error) {
	token, err := jwt.Parse([]byte(accessToken),
		jwt.WithKey(jwa.HS256, []byte(c.jwtSecret)),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to verify access token")
	}

	sub := token.Subject()
	if sub == "" {
		return nil, goerr.New("access token has no subject")
	}

	email := ""
	if v, ok := token.Get("email"); ok {
		if s, ok := v.(string); ok {
			email = s
		}
	}

	return &interfaces.IdentityUser{ID: sub, Email: email}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "identity provider request failed", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.Wrap(&statusError{code: resp.StatusCode}, "identity provider request failed",
			goerr.V("path", path), goerr.V("body", string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return goerr.Wrap(err, "failed to decode identity provider response", goerr.V("path", path))
		}
	}
	return nil
}
