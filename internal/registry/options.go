package registry

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultURL is the registry used when no URL has been configured.
	DefaultURL = "https://demo.registry.azure-mcp.net"

	// DefaultListLimit is the page size used when browsing the registry.
	DefaultListLimit = 30

	// MaxListLimit is the largest page the registry will return, and the page size used for batch resolution.
	MaxListLimit = 100

	// DefaultTimeout bounds every HTTP request made to the registry.
	DefaultTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*Options) error

// Options contains optional configuration for a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func defaultOptions() Options {
	return Options{
		BaseURL: DefaultURL,
		Timeout: DefaultTimeout,
	}
}

// NewOptions applies the supplied options over the defaults.
// Nil options are skipped.
func NewOptions(opt ...Option) (Options, error) {
	opts := defaultOptions()
	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return Options{}, err
		}
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return opts, nil
}

// WithBaseURL sets the registry base URL. A trailing '/' is removed.
func WithBaseURL(url string) Option {
	return func(o *Options) error {
		url = strings.TrimRight(strings.TrimSpace(url), "/")
		if url == "" {
			return fmt.Errorf("registry URL cannot be empty")
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("registry URL must use http or https: %s", url)
		}
		o.BaseURL = url
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for registry calls, overriding WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		o.HTTPClient = c
		return nil
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		o.Timeout = d
		return nil
	}
}

// clampLimit keeps limit within the range the registry accepts.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
