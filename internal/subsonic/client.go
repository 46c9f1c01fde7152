package subsonic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/thanhpk/randstr"
	"golang.org/x/time/rate"

	"navisync/internal/metrics"
)

const (
	APIVersion     = "1.16.1"
	ClientName     = "navisync"
	DefaultTimeout = 30 * time.Second
	saltLength     = 7
	statusOK       = "ok"
)

var (
	ErrMissingCredentials = errors.New("server url, username and password are required")
	ErrTransport          = errors.New("request failed")
	ErrHTTPStatus         = errors.New("unexpected http status")
	ErrDecode             = errors.New("malformed response")
	ErrFailedStatus       = errors.New("server returned a failed status")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Credentials identify the user on the server. The password never leaves the
// process; each request carries md5(password+salt) with a fresh salt.
type Credentials struct {
	BaseURL  string
	Username string
	Password string
}

func (c Credentials) complete() bool {
	return c.BaseURL != "" && c.Username != "" && c.Password != ""
}

type Client struct {
	creds      Credentials
	HTTPClient *http.Client
	// Limiter paces requests when set. Nil means unlimited.
	Limiter *rate.Limiter
}

type Option func(*Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithRateLimit allows at most rps requests per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpointURL mirrors how users paste server addresses: with or without a
// trailing slash or /rest suffix.
func endpointURL(base, endpoint string) string {
	u := strings.TrimSpace(base)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	if !strings.HasSuffix(u, "/rest/") {
		u += "rest/"
	}
	return u + endpoint + ".view"
}

// authParams returns the query parameters common to every request.
func authParams(username, password, salt string) url.Values {
	sum := md5.Sum([]byte(password + salt))
	v := url.Values{}
	v.Set("f", "json")
	v.Set("u", username)
	v.Set("v", APIVersion)
	v.Set("c", ClientName)
	v.Set("t", hex.EncodeToString(sum[:]))
	v.Set("s", salt)
	return v
}

// DoRequest calls endpoint and returns the decoded subsonic-response body.
// Every failure mode comes back as an error wrapping one of the package
// sentinels; there is never a partial response.
func (c *Client) DoRequest(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	if !c.creds.complete() {
		return nil, ErrMissingCredentials
	}

	start := time.Now()
	resp, err := c.do(ctx, endpoint, params)
	metrics.RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		slog.Debug("Subsonic request failed", "endpoint", endpoint, "error", err)
	}
	metrics.RemoteRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	return resp, err
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	query := authParams(c.creds.Username, c.creds.Password, randstr.String(saltLength))
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL(c.creds.BaseURL, endpoint)+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", ClientName+"/"+APIVersion)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s %d", ErrHTTPStatus, endpoint, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, endpoint, err)
	}
	if env.Response == nil {
		return nil, fmt.Errorf("%w: %s: no subsonic-response", ErrDecode, endpoint)
	}
	if env.Response.Status != statusOK {
		if env.Response.Error != nil {
			return nil, fmt.Errorf("%w: %s: %d %s", ErrFailedStatus, endpoint, env.Response.Error.Code, env.Response.Error.Message)
		}
		return nil, fmt.Errorf("%w: %s: %q", ErrFailedStatus, endpoint, env.Response.Status)
	}
	return env.Response, nil
}
