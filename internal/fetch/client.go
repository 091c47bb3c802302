// Package fetch implements the widget Fetcher over HTTP.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/zalando/go-keyring"

	"github.com/rebelice/datalist/internal/config"
	"github.com/rebelice/datalist/internal/logging"
)

// maxErrorBody bounds how much of a failed response is kept in a StatusError
const maxErrorBody = 4096

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct {
	log *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}

// Client performs GET and POST requests against the data endpoints.
// Only GETs are retried: a POST may insert a row and is sent once.
type Client struct {
	httpClient *http.Client
	postClient *http.Client
	token      string
	log        *logging.Logger
}

// TokenLookup returns the bearer token for a service and user
type TokenLookup func(service, user string) (string, error)

// KeyringToken reads the token from the OS keyring. A missing entry is not an error.
func KeyringToken(service, user string) (string, error) {
	token, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// NewClient creates a client with retries configured from cfg. The token is
// looked up only when cfg names a token user.
func NewClient(cfg config.FetchConfig, lookup TokenLookup, log *logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.Nop()
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}

	c := &Client{
		httpClient: newRetryClient(httpClient, cfg, cfg.RetryMax, log),
		postClient: newRetryClient(httpClient, cfg, 0, log),
		log:        log,
	}

	if cfg.TokenUser != "" && lookup != nil {
		token, err := lookup(cfg.TokenService, cfg.TokenUser)
		if err != nil {
			return nil, err
		}
		c.token = token
	}
	return c, nil
}

func newRetryClient(httpClient *http.Client, cfg config.FetchConfig, retryMax int, log *logging.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = time.Duration(cfg.RetryWaitMinMs) * time.Millisecond
	retryClient.RetryWaitMax = time.Duration(cfg.RetryWaitMaxMs) * time.Millisecond
	retryClient.Logger = &retryLogger{log: log}
	// hand the last response back so a failed status surfaces as a StatusError
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return retryClient.StandardClient()
}

// Get fetches a JSON document
func (c *Client) Get(ctx context.Context, target string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(c.httpClient, req)
}

// Post sends form values and returns the JSON response, if any
func (c *Client) Post(ctx context.Context, target string, form url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(c.postClient, req)
}

func (c *Client) do(httpClient *http.Client, req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.Redacted(),
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: response is not valid JSON", req.URL.Redacted())
	}
	return json.RawMessage(body), nil
}
