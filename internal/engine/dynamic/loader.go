// internal/engine/dynamic/loader.go
package dynamic

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/internal/engine"
	"github.com/law-makers/top100/pkg/models"
)

// maxIdleRequests is how many requests may stay in flight while the page
// still counts as settled
const maxIdleRequests = 2

// Loader renders a page in headless Chrome so that content built by scripts
// is present in the returned HTML
type Loader struct {
	opts        Options
	networkIdle time.Duration
}

// New creates a dynamic Loader. networkIdle is how long the network must stay
// quiet after the wait selector is ready; zero skips the idle wait.
func New(opts Options, networkIdle time.Duration) *Loader {
	return &Loader{
		opts:        opts,
		networkIdle: networkIdle,
	}
}

// Name returns the name of this loader
func (l *Loader) Name() string {
	return "dynamic"
}

// Load starts a browser, renders opts.URL and returns its outer HTML. The
// browser is closed before Load returns.
func (l *Loader) Load(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	start := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	bopts := l.opts
	if opts.Proxy != "" {
		bopts.Proxy = opts.Proxy
	}
	browser := NewBrowser(ctx, bopts)
	defer browser.Close()

	tracker := newNetworkTracker(maxIdleRequests)
	chromedp.ListenTarget(browser.Context(), tracker.handle)

	selector := opts.WaitSelector
	if selector == "" {
		selector = "body"
	}

	var title, location, html string
	tasks := chromedp.Tasks{network.Enable()}
	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(headers))
	}
	tasks = append(tasks,
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if l.networkIdle <= 0 {
				return nil
			}
			log.Debug().Dur("quiet", l.networkIdle).Msg("Waiting for network idle")
			return tracker.waitIdle(ctx, l.networkIdle)
		}),
		chromedp.Title(&title),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	log.Debug().
		Str("url", opts.URL).
		Str("loader", l.Name()).
		Str("wait_selector", selector).
		Msg("Starting load")

	if err := chromedp.Run(browser.Context(), tasks); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, engine.LoadError(classify(err), opts.URL, err)
	}

	page := &models.Page{
		URL:          opts.URL,
		FinalURL:     location,
		StatusCode:   tracker.Status(),
		Title:        strings.TrimSpace(title),
		HTML:         html,
		Loader:       l.Name(),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}
	if page.FinalURL == "" {
		page.FinalURL = tracker.FinalURL()
	}

	if page.StatusCode >= 400 {
		log.Warn().Int("status", page.StatusCode).Str("url", opts.URL).Msg("Page returned an error status")
	}

	log.Info().
		Str("url", opts.URL).
		Int("status", page.StatusCode).
		Int64("response_time_ms", page.ResponseTime).
		Int("bytes", len(page.HTML)).
		Msg("Page rendered")

	return page, nil
}

// classify picks the error code for a failed chromedp run. Chrome reports
// navigation failures as net::ERR_* strings.
func classify(err error) engine.ErrorCode {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "net::ERR_"):
		return engine.ErrCodeNetworkError
	case strings.Contains(msg, "executable file not found"), strings.Contains(msg, "no such file"):
		return engine.ErrCodeNotFound
	default:
		return engine.ErrCodeBrowserCrash
	}
}
