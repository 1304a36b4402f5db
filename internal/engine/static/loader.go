// internal/engine/static/loader.go
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/internal/engine"
	"github.com/law-makers/top100/internal/ratelimit"
	"github.com/law-makers/top100/internal/retry"
	"github.com/law-makers/top100/pkg/models"
)

// maxBodyBytes bounds how much of a response is read. Larger pages fail
// rather than being parsed truncated.
var maxBodyBytes int64 = 20 << 20

// Loader fetches the raw server HTML over plain HTTP. Pages that build their
// content in the browser need the dynamic loader instead.
type Loader struct {
	client    *http.Client
	limiter   ratelimit.Limiter
	retry     retry.Config
	userAgent string
}

// New creates a static Loader with its dependencies injected
func New(client *http.Client, lim ratelimit.Limiter, rc retry.Config, ua string) *Loader {
	if client == nil {
		client = &http.Client{}
	}
	return &Loader{
		client:    client,
		limiter:   lim,
		retry:     rc,
		userAgent: ua,
	}
}

// Name returns the name of this loader
func (l *Loader) Name() string {
	return "static"
}

// Load fetches opts.URL, retrying transient failures
func (l *Loader) Load(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	start := time.Now()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	log.Debug().
		Str("url", opts.URL).
		Str("loader", l.Name()).
		Msg("Starting load")

	var page *models.Page
	err := retry.Do(ctx, l.retry, func(attempt int) error {
		if l.limiter != nil {
			if err := l.limiter.Wait(ctx, opts.URL); err != nil {
				return err
			}
		}
		p, err := l.fetch(ctx, opts)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, engine.LoadError(engine.ErrCodeNetworkError, opts.URL, err)
	}

	page.ResponseTime = time.Since(start).Milliseconds()

	log.Info().
		Str("url", opts.URL).
		Int("status", page.StatusCode).
		Int64("response_time_ms", page.ResponseTime).
		Int("bytes", len(page.HTML)).
		Msg("Page loaded")

	return page, nil
}

func (l *Loader) fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, retry.Permanent(engine.NewEngineError(engine.ErrCodeValidation, "failed to create request", err))
	}

	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, retry.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), opts.URL)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "html") {
		return nil, retry.Permanent(engine.NewEngineError(engine.ErrCodeParseError, "unexpected content type "+ct, engine.ErrParseError))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, retry.Permanent(engine.NewEngineError(engine.ErrCodeParseError,
			fmt.Sprintf("page exceeds %d bytes", maxBodyBytes), engine.ErrParseError))
	}

	return &models.Page{
		URL:        opts.URL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
		Loader:     l.Name(),
		FetchedAt:  time.Now(),
	}, nil
}
