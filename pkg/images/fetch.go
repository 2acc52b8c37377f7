package images

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/observability"
)

const (
	DefaultMaxBytes = 5 << 20
	DefaultTimeout  = 7 * time.Second
)

// Limits bounds a single download. Zero values disable the bound.
type Limits struct {
	MaxBytes int64
	Timeout  time.Duration
}

// DefaultLimits returns a 5 MiB cap and a 7 second timeout.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, Timeout: DefaultTimeout}
}

// Fetcher downloads the body at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string, lim Limits) ([]byte, error)
}

// HTTPFetcher fetches over HTTP(S). Only a 200 response is accepted, and a
// body larger than the cap is rejected rather than truncated.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher sending userAgent. A nil client uses a
// fresh http.Client; the per-request timeout comes from Limits.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, lim Limits) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if lim.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lim.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	hooks := observability.HTTP()
	host, p := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, p)
	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, p, err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, p, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeNetwork, "unexpected status %d", resp.StatusCode)
	}
	if lim.MaxBytes > 0 && resp.ContentLength > lim.MaxBytes {
		return nil, errors.New(errors.ErrCodeTooLarge, "content-length %d exceeds limit %d", resp.ContentLength, lim.MaxBytes)
	}

	var body io.Reader = resp.Body
	if lim.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, lim.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, p, err)
		return nil, transportError(ctx, err)
	}
	if lim.MaxBytes > 0 && int64(len(data)) > lim.MaxBytes {
		return nil, errors.New(errors.ErrCodeTooLarge, "response exceeded byte limit %d", lim.MaxBytes)
	}
	return data, nil
}

func transportError(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "download timed out")
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "download failed")
}

var _ Fetcher = (*HTTPFetcher)(nil)
