package httpsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/drugbox/internal/source"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "drugbox/1.0"
)

var ErrTooLarge = errors.New("sheet exceeds size limit")

// HTTPError reports a non-2xx answer from the sheet host.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error %d (%s) from %s", e.StatusCode, e.Status, e.URL)
}

// HTTPSource downloads a published spreadsheet CSV export with GET.
type HTTPSource struct {
	url      string
	maxBytes int64
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPSource returns a source for url. A zero timeout uses 30s and a
// non-positive maxBytes uses source.DefaultMaxBytes.
func NewHTTPSource(url string, timeout time.Duration, maxBytes int64, logger *slog.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = source.DefaultMaxBytes
	}
	return &HTTPSource{
		url:      url,
		maxBytes: maxBytes,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (s *HTTPSource) Location() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: s.url}
	}

	// Read one byte past the limit to tell "exactly at limit" from "too large".
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxBytes)
	}

	s.logger.Debug("sheet fetched",
		"url", s.url,
		"bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}
