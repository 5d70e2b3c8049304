// Package client talks to a running ringclock HTTP server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultServer is the address used when no server is configured.
const DefaultServer = "http://localhost:8000"

// Reading is a clock time as reported by the server.
type Reading struct {
	clock.Time
	Display string `json:"display"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// leveledSlog adapts slog to retryablehttp. Intermediate failures are
// retried, so errors are logged as warnings.
type leveledSlog struct {
	inner *slog.Logger
}

func (l leveledSlog) Error(msg string, keysAndValues ...any) { l.inner.Warn(msg, keysAndValues...) }
func (l leveledSlog) Warn(msg string, keysAndValues ...any)  { l.inner.Warn(msg, keysAndValues...) }
func (l leveledSlog) Info(msg string, keysAndValues ...any)  { l.inner.Debug(msg, keysAndValues...) }
func (l leveledSlog) Debug(msg string, keysAndValues ...any) { l.inner.Debug(msg, keysAndValues...) }

// Client calls the ringclock HTTP API.
type Client struct {
	base   *url.URL
	http   *http.Client
	dialer *websocket.Dialer
}

// Option configures the underlying retrying client.
type Option func(*retryablehttp.Client)

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(c *retryablehttp.Client) {
		c.RetryMax = n
	}
}

// WithRetryWait sets the backoff bounds between retries.
func WithRetryWait(lo, hi time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = lo
		c.RetryWaitMax = hi
	}
}

// WithLogger sets the logger for retry messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *retryablehttp.Client) {
		c.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: logger})
	}
}

// New returns a client for the server at base, for example
// "http://localhost:8000".
func New(base string, opts ...Option) (*Client, error) {
	if base == "" {
		base = DefaultServer
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", base)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Transport = cleanhttp.DefaultPooledTransport()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: slog.Default().With("subsystem", "client")})
	rc.CheckRetry = retryPolicy

	for _, opt := range opts {
		opt(rc)
	}

	hc := rc.StandardClient()
	hc.Timeout = 10 * time.Second

	return &Client{
		base: u,
		http: hc,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}, nil
}

// retryPolicy retries connection errors and 5xx responses. Client errors
// are final.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode < 500 {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Time reads the current clock time.
func (c *Client) Time(ctx context.Context) (Reading, error) {
	return c.do(ctx, http.MethodGet, "/api/time", nil)
}

// Sync resets the clock to the server's wall-clock time.
func (c *Client) Sync(ctx context.Context) (Reading, error) {
	return c.do(ctx, http.MethodPost, "/api/sync", nil)
}

// Adjust sets the clock. Negative components are not sent, so the server
// keeps their current value.
func (c *Client) Adjust(ctx context.Context, hour, minute, second int) (Reading, error) {
	form := url.Values{}
	for name, v := range map[string]int{"hour": hour, "minute": minute, "second": second} {
		if v >= 0 {
			form.Set(name, strconv.Itoa(v))
		}
	}
	return c.do(ctx, http.MethodPost, "/api/adjust", form)
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) (Reading, error) {
	var r Reading

	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return r, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return r, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error == "" {
			er.Error = http.StatusText(resp.StatusCode)
		}
		return r, &APIError{StatusCode: resp.StatusCode, Message: er.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return r, fmt.Errorf("decode response: %w", err)
	}
	return r, nil
}

// Watch streams readings to fn until ctx is done, the server closes the
// stream, or fn returns an error. A normal close returns nil.
func (c *Client) Watch(ctx context.Context, fn func(Reading) error) error {
	u := *c.base.JoinPath("/api/stream")
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		var r Reading
		if err := conn.ReadJSON(&r); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}
		if err := fn(r); err != nil {
			if errors.Is(err, ErrStopWatch) {
				return nil
			}
			return err
		}
	}
}

// ErrStopWatch can be returned from a Watch callback to end the stream
// without an error.
var ErrStopWatch = errors.New("stop watching")
