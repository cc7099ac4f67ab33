package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/z9m/backdrop/pkg/buildinfo"
)

// Defaults for NewFetcher.
const (
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBytes caps a single download. 4K backdrops are rarely above
	// a few megabytes.
	DefaultMaxBytes = 32 << 20
)

// ErrTooLarge is returned when a body exceeds the fetcher's size limit.
var ErrTooLarge = errors.New("response too large")

// Fetcher downloads image bodies.
type Fetcher struct {
	client   *http.Client
	base     *url.URL
	cache    *Cache
	maxBytes int64
	attempts int
	delay    time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithBaseURL resolves relative sources against base. An unparsable base
// is ignored.
func WithBaseURL(base string) FetcherOption {
	return func(f *Fetcher) {
		if u, err := url.Parse(base); err == nil && u.Scheme != "" {
			f.base = u
		}
	}
}

// WithCache stores bodies in c.
func WithCache(c *Cache) FetcherOption {
	return func(f *Fetcher) { f.cache = c }
}

// WithMaxBytes caps the body size.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) { f.maxBytes = n }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) FetcherOption {
	return func(f *Fetcher) { f.attempts, f.delay = attempts, delay }
}

// NewFetcher returns a Fetcher with a 30 second client timeout and three
// attempts per request.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Resolve turns src into an absolute URL.
func (f *Fetcher) Resolve(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", src, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if f.base == nil {
		return "", fmt.Errorf("relative url %q without a base url", src)
	}
	return f.base.ResolveReference(u).String(), nil
}

// IsRemote reports whether src is an http(s) URL, or a root-relative path
// that a Fetcher with a base URL would resolve.
func (f *Fetcher) IsRemote(src string) bool {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return true
	}
	return f.base != nil && strings.HasPrefix(src, "/")
}

// Fetch returns the body at src, from the cache when fresh.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	target, err := f.Resolve(src)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if data, ok, _ := f.cache.Get(target); ok {
			return data, nil
		}
	}

	var body []byte
	err = Retry(ctx, f.attempts, f.delay, func() error {
		b, err := f.get(ctx, target)
		body = b
		return err
	})
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		_ = f.cache.Set(target, body)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "backdrop/"+buildinfo.Version)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", target, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("get %s: status %d", target, resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, &RetryableError{Err: err}
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", target, err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("get %s: %w", target, ErrTooLarge)
	}
	return data, nil
}
