// Package whoop is the gateway to the WHOOP developer API: OAuth2
// authorization-code flow, lazy token refresh, and paginated collection
// fetches with retry on transient upstream failures.
package whoop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"

	"github.com/mkorolev/whoopsync/internal/common"
	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/models"
)

// Production endpoints of the WHOOP developer API.
const (
	DefaultBaseURL  = "https://api.prod.whoop.com/developer"
	DefaultAuthURL  = "https://api.prod.whoop.com/oauth/oauth2/auth"
	DefaultTokenURL = "https://api.prod.whoop.com/oauth/oauth2/token"
)

// DefaultScopes covers every resource the sync engine reads. "offline" asks
// WHOOP for a refresh token.
var DefaultScopes = []string{
	"read:cycles",
	"read:recovery",
	"read:sleep",
	"read:workout",
	"read:profile",
	"read:body_measurement",
	"offline",
}

// refreshWindow is how close to expiry a token may get before each call
// refreshes it first.
const refreshWindow = 5 * time.Minute

// CredentialSource loads the persisted token pair.
// Returns common.ErrNotFound when nothing is stored.
type CredentialSource interface {
	Load(ctx context.Context) (*models.Token, error)
}

// CredentialSink persists a token pair. The client calls it with every
// refreshed pair before the request that triggered the refresh proceeds, so
// a crash never strands a revoked refresh token on disk.
type CredentialSink interface {
	Save(ctx context.Context, token *models.Token) error
}

// CredentialStore combines both sides; internal/credstore implements it.
type CredentialStore interface {
	CredentialSource
	CredentialSink
}

// Config carries the OAuth client registration plus optional endpoint
// overrides (used by tests).
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	BaseURL  string
	AuthURL  string
	TokenURL string

	HTTPClient *http.Client
}

// Client talks to the WHOOP API on behalf of the single authorized user.
// It is safe for concurrent use.
type Client struct {
	oauth  *oauth2.Config
	http   *http.Client
	base   string
	creds  CredentialStore
	logger logging.Logger

	// retryBase seeds the exponential backoff; tests shrink it.
	retryBase time.Duration

	mu    sync.Mutex
	token *models.Token
}

func NewClient(cfg Config, creds CredentialStore, logger logging.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       DefaultScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		http:      httpClient,
		base:      base,
		creds:     creds,
		logger:    logger.With("component", "whoop"),
		retryBase: 500 * time.Millisecond,
	}
}

// AuthorizationURL returns the URL to send the user to, together with the
// fresh CSRF state embedded in it. Pass scopes to narrow the default set.
func (c *Client) AuthorizationURL(scopes ...string) (authURL, state string) {
	cfg := c.oauth
	if len(scopes) > 0 {
		narrowed := *c.oauth
		narrowed.Scopes = scopes
		cfg = &narrowed
	}
	state = uuid.NewString()
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), state
}

// ExchangeCode trades an authorization code for a token pair, persists it,
// and adopts it for subsequent calls.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*models.Token, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	t := fromOAuth2(tok)
	if err := c.creds.Save(ctx, t); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = t
	c.mu.Unlock()

	c.logger.Info(ctx, "authorized with whoop", "expires_at", t.ExpiresAt)
	return t, nil
}

// accessToken returns a token valid for at least refreshWindow, loading the
// stored pair on first use and refreshing when needed. The refreshed pair
// is persisted before the caller's request goes out.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		t, err := c.creds.Load(ctx)
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrAuthMissing
		}
		if err != nil {
			return "", err
		}
		c.token = t
	}

	if time.Until(c.token.ExpiresAt) >= refreshWindow {
		return c.token.AccessToken, nil
	}

	src := c.oauth.TokenSource(ctx, &oauth2.Token{
		RefreshToken: c.token.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("refreshing access token: %w", err)
	}

	t := fromOAuth2(tok)
	if t.RefreshToken == "" {
		t.RefreshToken = c.token.RefreshToken
	}
	if err := c.creds.Save(ctx, t); err != nil {
		return "", fmt.Errorf("persisting refreshed token: %w", err)
	}
	c.token = t

	c.logger.Debug(ctx, "refreshed access token", "expires_at", t.ExpiresAt)
	return t.AccessToken, nil
}

func fromOAuth2(tok *oauth2.Token) *models.Token {
	return &models.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry.UTC(),
	}
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// get performs one authenticated GET with capped exponential backoff on
// transient statuses and returns the raw response body.
func (c *Client) get(ctx context.Context, resource string, q url.Values) ([]byte, error) {
	access, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	u := c.base + resource
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body []byte
	backoff := retry.WithMaxRetries(3, retry.NewExponential(c.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+access)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			uerr := &UpstreamError{
				Resource:   resource,
				StatusCode: resp.StatusCode,
				Body:       snippet(data),
			}
			if transientStatus(resp.StatusCode) {
				c.logger.Warn(ctx, "transient upstream failure, retrying",
					"resource", resource, "status", resp.StatusCode)
				return retry.RetryableError(uerr)
			}
			return uerr
		}

		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// snippet trims a response body down to something loggable.
func snippet(b []byte) string {
	const max = 256
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}

// FetchPage retrieves a single page of a collection resource. The second
// return value is the next-page token, empty on the last page.
func FetchPage[T any](ctx context.Context, c *Client, resource string, p PageParams) ([]T, string, error) {
	q := url.Values{}
	if !p.Start.IsZero() {
		q.Set("start", p.Start.UTC().Format(time.RFC3339))
	}
	if !p.End.IsZero() {
		q.Set("end", p.End.UTC().Format(time.RFC3339))
	}
	limit := p.Limit
	if limit <= 0 || limit > pageLimit {
		limit = pageLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	if p.NextToken != "" {
		q.Set("nextToken", p.NextToken)
	}

	body, err := c.get(ctx, resource, q)
	if err != nil {
		return nil, "", err
	}

	var pg page[T]
	if err := json.Unmarshal(body, &pg); err != nil {
		return nil, "", fmt.Errorf("decoding %s page: %w", resource, err)
	}
	return pg.Records, pg.NextToken, nil
}

// FetchAll follows next_token until the collection is exhausted, preserving
// upstream order.
func FetchAll[T any](ctx context.Context, c *Client, resource string, start, end time.Time) ([]T, error) {
	var all []T
	params := PageParams{Start: start, End: end}
	for {
		records, next, err := FetchPage[T](ctx, c, resource, params)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		if next == "" {
			return all, nil
		}
		params.NextToken = next
	}
}

// Cycles returns every cycle starting within [start, end].
func (c *Client) Cycles(ctx context.Context, start, end time.Time) ([]models.Cycle, error) {
	return FetchAll[models.Cycle](ctx, c, ResourceCycles, start, end)
}

// Recoveries returns every recovery created within [start, end].
func (c *Client) Recoveries(ctx context.Context, start, end time.Time) ([]models.Recovery, error) {
	return FetchAll[models.Recovery](ctx, c, ResourceRecoveries, start, end)
}

// Sleeps returns every sleep activity starting within [start, end].
func (c *Client) Sleeps(ctx context.Context, start, end time.Time) ([]models.Sleep, error) {
	return FetchAll[models.Sleep](ctx, c, ResourceSleeps, start, end)
}

// Workouts returns every workout starting within [start, end].
func (c *Client) Workouts(ctx context.Context, start, end time.Time) ([]models.Workout, error) {
	return FetchAll[models.Workout](ctx, c, ResourceWorkouts, start, end)
}

// Profile fetches the basic user profile singleton.
func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	body, err := c.get(ctx, ResourceProfile, nil)
	if err != nil {
		return nil, err
	}
	var p models.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &p, nil
}

// BodyMeasurement fetches the body measurement singleton.
func (c *Client) BodyMeasurement(ctx context.Context) (*models.BodyMeasurement, error) {
	body, err := c.get(ctx, ResourceBodyMeasurement, nil)
	if err != nil {
		return nil, err
	}
	var m models.BodyMeasurement
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decoding body measurement: %w", err)
	}
	return &m, nil
}
