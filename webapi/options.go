package webapi

import (
	"net/http"
	"time"
)

const (
	// DefaultPort is the port the web API script listens on unless configured otherwise
	DefaultPort = 12350
	// DefaultTimeout bounds a single round trip when no custom HTTP client is supplied
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the client to the server
	DefaultUserAgent = "CuwoAPI/0.0.3"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	scheme     string
	port       int
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	// customClient is set by WithHTTPClient, even when called with nil
	customClient bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		scheme:    "http",
		port:      DefaultPort,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
}

// WithPort sets the web API port.
func WithPort(port int) Option {
	return func(o *clientOptions) {
		o.port = port
	}
}

// WithScheme sets the URL scheme, for servers behind a TLS terminating proxy.
func WithScheme(scheme string) Option {
	return func(o *clientOptions) {
		o.scheme = scheme
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient sets the HTTP client used for every request.
// Passing nil makes NewClient fail with ErrInvalidConfig.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
		o.customClient = true
	}
}
