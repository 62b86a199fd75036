package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/types"
)

// TokenHeader is the header the scheduler reads its ACL token from
const TokenHeader = "X-Nomad-Token"

// DefaultTimeout bounds a single scheduler request
const DefaultTimeout = 30 * time.Second

const redacted = "[redacted]"

// Token is a scheduler ACL token. It never prints or serializes its value.
type Token string

// Value returns the raw token for use on the wire
func (t Token) Value() string {
	return string(t)
}

// IsZero reports whether no token is set
func (t Token) IsZero() bool {
	return t == ""
}

func (t Token) String() string {
	if t == "" {
		return ""
	}
	return redacted
}

func (t Token) GoString() string {
	return fmt.Sprintf("client.Token(%q)", t.String())
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Client is an HTTP client that authenticates every request with a scheduler
// token and decodes JSON responses.
type Client struct {
	http *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The token transport is
// layered over its Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.http = &clone
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// NewClient creates a client that sends token on every request. An empty
// token sends no header.
func NewClient(token Token, opts ...Option) *Client {
	c := &Client{http: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &tokenTransport{base: base, token: token}

	return c
}

// GetJSON issues a GET for rawURL with query appended and decodes the JSON
// body into out. Transport failures and non-2xx responses wrap
// types.ErrNetwork; undecodable bodies wrap types.ErrDecode. Both name the URL.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: invalid url %q: %v", types.ErrConfigInvalid, rawURL, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to build request for %s: %v", types.ErrNetwork, target, err)
	}
	req.Header.Set("Accept", "application/json")

	logger := log.WithComponent("client")
	logger.Debug().Str("url", target).Msg("GET")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", target, errors.Join(types.ErrNetwork, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %s: %s", types.ErrNetwork, target, resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response from %s: %v", types.ErrDecode, target, err)
	}

	logger.Trace().Str("url", target).Int("status", resp.StatusCode).Msg("decoded response")
	return nil
}

type tokenTransport struct {
	base  http.RoundTripper
	token Token
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token.IsZero() {
		return t.base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	out.Header.Set(TokenHeader, t.token.Value())
	return t.base.RoundTrip(out)
}
