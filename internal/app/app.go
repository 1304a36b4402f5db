// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/internal/config"
	"github.com/law-makers/top100/internal/downloader"
	"github.com/law-makers/top100/internal/engine"
	"github.com/law-makers/top100/internal/engine/dynamic"
	"github.com/law-makers/top100/internal/engine/metadata"
	"github.com/law-makers/top100/internal/engine/static"
	"github.com/law-makers/top100/internal/extract"
	"github.com/law-makers/top100/internal/ratelimit"
	"github.com/law-makers/top100/internal/report"
	"github.com/law-makers/top100/internal/reqctx"
	"github.com/law-makers/top100/internal/retry"
	"github.com/law-makers/top100/pkg/models"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation. Use Close() to release
// resources on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Loader      engine.Loader
	Coordinator *extract.Coordinator
	HTTPClient  *http.Client
	Envelope    report.Envelope
	Images      *downloader.Pool

	now       func() time.Time
	startTime time.Time
	closed    bool
}

// Outcome describes a completed run
type Outcome struct {
	RunID    string
	Result   models.ScrapeResult
	Strategy string
	Counts   map[string]int
	Path     string
	Images   []*downloader.Result
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Builds the page loader for the configured mode
//   - Builds the extraction strategies and their coordinator
//   - Prepares the report envelope
//   - Builds the image download pool when an images directory is set
//
// No browser is started here; the dynamic loader starts one per load.
func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg)

	strategies, err := extract.NewStrategies(cfg.Strategies, extract.Options{
		ParagraphSelector: cfg.ParagraphSelector,
		CaptionSelector:   cfg.CaptionSelector,
		RankMarker:        cfg.RankMarker,
	})
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               proxyFunc(cfg.Proxy),
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	a := &Application{
		Config:      cfg,
		Logger:      &logger,
		Coordinator: extract.NewCoordinator(strategies...),
		HTTPClient:  httpClient,
		Envelope: report.Envelope{
			Source:      cfg.Source,
			URL:         cfg.URL,
			ArticleDate: cfg.ArticleDate,
		},
		now:       time.Now,
		startTime: time.Now(),
	}

	a.Loader, err = a.newLoader(models.LoaderMode(cfg.Mode))
	if err != nil {
		return nil, err
	}

	if cfg.ImagesDir != "" {
		rc := retry.DefaultConfig()
		rc.MaxAttempts = cfg.RetryAttempts
		a.Images = downloader.NewPool(
			downloader.New(
				httpClient,
				ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.ImageWorkers),
				rc,
				cfg.UserAgent,
			),
			cfg.ImageWorkers,
		)
	}

	logger.Debug().
		Str("mode", cfg.Mode).
		Strs("strategies", cfg.Strategies).
		Msg("Application initialized")

	return a, nil
}

// SetupLogging configures the global zerolog logger from cfg and returns it
func SetupLogging(cfg *config.Config) zerolog.Logger {
	// Progress goes to the console through the CLI, so info logs are opt-in
	switch cfg.LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	if cfg.JSONLog {
		w = os.Stderr
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}

func (a *Application) newLoader(mode models.LoaderMode) (engine.Loader, error) {
	switch mode {
	case models.ModeDynamic:
		return dynamic.New(dynamic.Options{
			Headless:   a.Config.BrowserHeadless,
			UserAgent:  a.Config.UserAgent,
			Proxy:      a.Config.Proxy,
			ChromePath: a.Config.ChromePath,
		}, a.Config.NetworkIdle), nil
	case models.ModeStatic:
		rc := retry.DefaultConfig()
		rc.MaxAttempts = a.Config.RetryAttempts
		return static.New(
			a.HTTPClient,
			ratelimit.NewHostLimiter(a.Config.RateLimitRPS, a.Config.RateLimitBurst),
			rc,
			a.Config.UserAgent,
		), nil
	case models.ModeFile:
		return engine.NewFileLoader(), nil
	default:
		return nil, fmt.Errorf("unknown loader mode %q", mode)
	}
}

// Run loads the configured page, extracts courses and writes the report.
// A failed load writes nothing.
func (a *Application) Run(ctx context.Context) (*Outcome, error) {
	ctx = reqctx.WithRunContext(ctx)
	rc := reqctx.GetRunContext(ctx)
	logger := log.With().Str("run_id", rc.RunID).Logger()

	target := a.Config.URL
	if models.LoaderMode(a.Config.Mode) == models.ModeFile {
		target = a.Config.InputPath
	}

	logger.Info().
		Str("url", target).
		Str("loader", a.Loader.Name()).
		Msg("Loading page")

	page, err := a.Loader.Load(ctx, models.RequestOptions{
		URL:          target,
		Mode:         models.LoaderMode(a.Config.Mode),
		Headers:      a.Config.Headers,
		Timeout:      a.Config.Timeout,
		Proxy:        a.Config.Proxy,
		WaitSelector: a.Config.WaitSelector,
	})
	if err != nil {
		logger.Error().Err(err).Str("code", string(engine.CodeOf(err))).Msg("Page load failed")
		return nil, reqctx.NewRunError(ctx, err)
	}

	// A saved page's relative links point at the article it was taken from
	if page.Loader == "file" && page.FinalURL == "" {
		page.FinalURL = a.Config.URL
	}

	if a.Config.SnapshotPath != "" && page.Loader != "file" {
		if err := engine.SaveSnapshot(page, a.Config.SnapshotPath); err != nil {
			logger.Warn().Err(err).Msg("Failed to save snapshot")
		}
	}

	out, err := a.Process(ctx, page)
	if err != nil {
		return nil, reqctx.NewRunError(ctx, err)
	}
	out.RunID = rc.RunID

	if a.Images != nil {
		out.Images = a.downloadImages(ctx, out.Result.Courses)
	}

	logger.Info().
		Int("courses", out.Result.TotalCourses).
		Str("strategy", out.Strategy).
		Str("path", out.Path).
		Dur("elapsed", time.Since(rc.StartTime)).
		Msg("Run complete")

	return out, nil
}

// Process extracts courses from an already loaded page and writes the report
func (a *Application) Process(ctx context.Context, page *models.Page) (*Outcome, error) {
	doc, err := extract.NewDocument(page)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeParseError, "failed to parse page", err)
	}

	res := a.Coordinator.Extract(doc)

	env := a.Envelope
	if env.ArticleDate == "" {
		env.ArticleDate = metadata.Extract(doc.Query()).ArticleDate()
	}

	result := report.Build(res.Courses, env, a.now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := report.Save(result, a.Config.OutputPath, a.Config.Format); err != nil {
		return nil, err
	}

	if result.TotalCourses == 0 {
		log.Warn().Str("path", a.Config.OutputPath).Msg("No courses extracted")
	}

	return &Outcome{
		Result:   result,
		Strategy: res.Strategy,
		Counts:   res.Counts,
		Path:     a.Config.OutputPath,
	}, nil
}

// Closed reports whether Close has run
func (a *Application) Closed() bool {
	return a.closed
}

// downloadImages saves each course's article image. Failures are logged and
// never fail the run.
func (a *Application) downloadImages(ctx context.Context, courses []models.CourseRecord) []*downloader.Result {
	jobs := downloader.JobsFromCourses(courses)
	if len(jobs) == 0 {
		return nil
	}

	results := a.Images.DownloadAll(ctx, jobs, a.Config.ImagesDir)
	failed := 0
	for _, r := range results {
		if !r.Success() {
			failed++
			log.Warn().Err(r.Err).Str("url", r.URL).Msg("Image download failed")
		}
	}

	log.Info().
		Int("images", len(results)-failed).
		Int("failed", failed).
		Str("dir", a.Config.ImagesDir).
		Msg("Images downloaded")

	return results
}

// Close releases the application's resources. Calls after the first are
// no-ops.
func (a *Application) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}
