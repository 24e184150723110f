package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"macrowatch/models"
)

// Remote fetches the panel CSV from a URL with rate limiting and retries.
type Remote struct {
	httpClient      *http.Client
	limiter         *rate.Limiter
	maxRetryTimeout time.Duration
}

// RemoteOptions holds options for creating a new Remote loader
type RemoteOptions struct {
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewRemote creates a new HTTP panel loader with rate limiting
func NewRemote(opts RemoteOptions) *Remote {
	// Set default values if not provided
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 30 * time.Second
	}

	return &Remote{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:         rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		maxRetryTimeout: opts.MaxRetryTimeout,
	}
}

// Fetch downloads the panel CSV with retries and parses it.
func (r *Remote) Fetch(ctx context.Context, url string) (models.Panel, error) {
	// Wait for rate limiter
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("non-200 status code: %s", http.StatusText(resp.StatusCode))
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = r.maxRetryTimeout

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, &models.LoadError{Reason: "fetch panel: " + err.Error()}
	}

	return ParseCSV(bytes.NewReader(body))
}
