package webapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/blang/semver"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SupportedVersions is the range of web API versions this client understands
var SupportedVersions = ">=0.0.3 <0.1.0"

// ErrUnsupportedVersion indicates the server speaks a web API version outside SupportedVersions
var ErrUnsupportedVersion = errors.New("unsupported web API version")

// Client represents a cuwo web API client.
// A Client holds no mutable state and is safe for concurrent use.
type Client struct {
	scheme     string
	host       string
	port       int
	key        string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new web API client for the server at host.
// No request is made until an operation is called.
func NewClient(key, host string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if key == "" {
		return nil, configError("shared key is required")
	}
	if host == "" {
		return nil, configError("host is required")
	}
	if o.port <= 0 || o.port > 65535 {
		return nil, configError(fmt.Sprintf("port %d out of range", o.port))
	}
	if o.scheme != "http" && o.scheme != "https" {
		return nil, configError(fmt.Sprintf("unsupported scheme %q", o.scheme))
	}

	httpClient := o.httpClient
	if o.customClient && httpClient == nil {
		return nil, configError("HTTP client is unavailable")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		scheme:     o.scheme,
		host:       host,
		port:       o.port,
		key:        key,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func configError(msg string) *APIError {
	return &APIError{Kind: KindInvalidConfig, Message: msg}
}

// send performs one round trip and returns the decoded response object.
// A POST is issued when body is not nil, a GET otherwise.
func (c *Client) send(ctx context.Context, endpoint string, body *string, authenticated bool, extra url.Values) (object, error) {
	method := http.MethodGet
	var payload io.Reader
	if body != nil {
		method = http.MethodPost
		payload = strings.NewReader(*body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BuildURL(endpoint, authenticated, extra), payload)
	if err != nil {
		return object{}, &APIError{Kind: KindTransport, Endpoint: endpoint, Message: "failed to create request", Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", "/"+endpoint).
		Str("request_id", requestID).
		Msg("Making web API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return object{}, &APIError{Kind: KindTransport, Endpoint: endpoint, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return object{}, &APIError{Kind: KindTransport, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	obj, decodeErr := decodeObject("response", data)
	// Any error marker, even a null one, means the call failed
	if decodeErr == nil && obj.present("error") {
		var code int
		if isNull(obj.fields["error"]) {
			return object{}, &APIError{
				Kind:       KindMalformedResponse,
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Err:        &FieldError{Model: obj.model, Field: "error", Reason: "null error code"},
			}
		}
		if err := obj.field("error", &code); err != nil {
			return object{}, &APIError{Kind: KindMalformedResponse, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
		}

		c.logger.Debug().
			Str("endpoint", "/"+endpoint).
			Str("request_id", requestID).
			Int("code", code).
			Msg("Web API returned error")

		apiErr := serverError(endpoint, code)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr.StatusCode = resp.StatusCode
		}
		return object{}, apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return object{}, &APIError{
			Kind:       KindTransport,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(data), 200),
		}
	}

	if decodeErr != nil {
		return object{}, &APIError{Kind: KindMalformedResponse, Endpoint: endpoint, Err: decodeErr}
	}

	return obj, nil
}

// succeeded reports the outcome of an operation that answers with {"success": ...}.
// Only the presence of the key matters, not its value.
func succeeded(endpoint string, obj object) (bool, error) {
	if !obj.present("success") {
		return false, malformed(endpoint, `response has neither "success" nor "error"`)
	}
	return true, nil
}

func wrapField(endpoint string, err error) error {
	return &APIError{Kind: KindMalformedResponse, Endpoint: endpoint, Err: err}
}

// Version returns the web API version reported by the server
func (c *Client) Version(ctx context.Context) (string, error) {
	obj, err := c.send(ctx, "", nil, false, nil)
	if err != nil {
		return "", err
	}

	var version string
	if err := obj.field("version", &version); err != nil {
		return "", wrapField("", err)
	}
	return version, nil
}

// Status retrieves the current server status
func (c *Client) Status(ctx context.Context) (*Status, error) {
	const endpoint = "status"

	obj, err := c.send(ctx, endpoint, nil, true, nil)
	if err != nil {
		return nil, err
	}

	status, err := DecodeStatus(obj.data)
	if err != nil {
		return nil, wrapField(endpoint, err)
	}

	c.logger.Debug().Int("players", len(status.Players)).Msg("Retrieved server status")
	return status, nil
}

// Player retrieves details about an online player
func (c *Client) Player(ctx context.Context, name string, include Include) (*Player, error) {
	endpoint := segment("player", name)

	obj, err := c.send(ctx, endpoint, nil, true, include.query())
	if err != nil {
		return nil, err
	}

	raw, err := obj.raw("player")
	if err != nil {
		return nil, wrapField(endpoint, err)
	}

	player, err := DecodePlayer(raw)
	if err != nil {
		return nil, wrapField(endpoint, err)
	}
	return player, nil
}

// Kick disconnects an online player
func (c *Client) Kick(ctx context.Context, name string) (bool, error) {
	endpoint := segment("kick", name)

	obj, err := c.send(ctx, endpoint, nil, true, nil)
	if err != nil {
		return false, err
	}

	ok, err := succeeded(endpoint, obj)
	if err == nil {
		c.logger.Info().Str("player", name).Msg("Kicked player")
	}
	return ok, err
}

// Time returns the in-game clock
func (c *Client) Time(ctx context.Context) (string, error) {
	const endpoint = "time"

	obj, err := c.send(ctx, endpoint, nil, true, nil)
	if err != nil {
		return "", err
	}

	var value string
	if err := obj.field("time", &value); err != nil {
		return "", wrapField(endpoint, err)
	}
	return value, nil
}

// SetTime sets the in-game clock. Malformed values are rejected without contacting the server.
func (c *Client) SetTime(ctx context.Context, value string) (bool, error) {
	if err := ValidateTime(value); err != nil {
		return false, err
	}

	endpoint := segment("time", value)
	obj, err := c.send(ctx, endpoint, nil, true, nil)
	if err != nil {
		return false, err
	}
	return succeeded(endpoint, obj)
}

// Message sends a chat message. An empty receiver broadcasts to every player.
func (c *Client) Message(ctx context.Context, text, receiver string) (bool, error) {
	endpoint := "message/"
	if receiver != "" {
		endpoint = segment("message", receiver) + "/"
	}

	obj, err := c.send(ctx, endpoint, &text, true, nil)
	if err != nil {
		return false, err
	}
	return succeeded(endpoint, obj)
}

// CheckVersion fetches the server version and checks it against SupportedVersions.
// The parsed version is returned even when it is unsupported.
func (c *Client) CheckVersion(ctx context.Context) (semver.Version, error) {
	raw, err := c.Version(ctx)
	if err != nil {
		return semver.Version{}, err
	}

	v, err := semver.ParseTolerant(raw)
	if err != nil {
		return semver.Version{}, malformed("", "version %q is not semantic: %v", raw, err)
	}

	supported, err := semver.ParseRange(SupportedVersions)
	if err != nil {
		return v, fmt.Errorf("invalid supported version range: %w", err)
	}
	if !supported(v) {
		return v, fmt.Errorf("%w: server reports %s, client supports %s", ErrUnsupportedVersion, v, SupportedVersions)
	}

	return v, nil
}

// TestConnection checks that the server is reachable, speaks a supported version
// and accepts the shared key
func (c *Client) TestConnection(ctx context.Context) error {
	v, err := c.CheckVersion(ctx)
	if err != nil {
		return err
	}

	if _, err := c.Status(ctx); err != nil {
		return err
	}

	c.logger.Debug().Str("version", v.String()).Msg("Successfully connected to web API")
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
