package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	headersutil "github.com/law-makers/top100/internal/utils/headers"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Page loading. InputPath is the saved page read in file mode; URL
	// stays the article's address for the report.
	URL          string
	InputPath    string
	Mode         string
	Timeout      time.Duration
	UserAgent    string
	Proxy        string
	WaitSelector string
	Headers      map[string]string
	SnapshotPath string

	// Static loader
	RateLimitRPS   float64
	RateLimitBurst int
	RetryAttempts  int

	// Browser
	BrowserHeadless bool
	ChromePath      string
	NetworkIdle     time.Duration

	// Extraction
	Strategies        []string
	ParagraphSelector string
	CaptionSelector   string
	RankMarker        string

	// Report
	Source       string
	ArticleDate  string
	OutputPath   string
	Format       string
	PreviewCount int

	// Images
	ImagesDir    string
	ImageWorkers int
}

// Defaults returns a Config populated with the default values only.
func Defaults() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		URL:               DefaultURL,
		Mode:              DefaultMode,
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		WaitSelector:      DefaultWaitSelect,
		Headers:           map[string]string{},
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
		RetryAttempts:     DefaultRetryAttempts,
		BrowserHeadless:   DefaultHeadless,
		NetworkIdle:       DefaultNetworkIdle,
		Strategies:        append([]string(nil), DefaultStrategies...),
		ParagraphSelector: DefaultParagraphSelector,
		CaptionSelector:   DefaultCaptionSelector,
		RankMarker:        DefaultRankMarker,
		Source:            DefaultSource,
		OutputPath:        DefaultOutputPath,
		Format:            DefaultFormat,
		PreviewCount:      DefaultPreviewCount,
		ImageWorkers:      DefaultImageWorkers,
	}
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	return load(cmd, nil)
}

// LoadForFile is Load for offline extraction of a saved page at path
func LoadForFile(cmd *cobra.Command, path string) (*Config, error) {
	return load(cmd, func(cfg *Config) {
		cfg.Mode = "file"
		cfg.InputPath = path
		cfg.SnapshotPath = ""
	})
}

func load(cmd *cobra.Command, override func(*Config)) (*Config, error) {
	cfg := Defaults()

	path := os.Getenv("TOP100_CONFIG")
	if s := flagString(cmd, "config"); s != "" {
		path = s
	}
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		fc.apply(cfg)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if cmd != nil {
		if err := applyFlags(cmd, cfg); err != nil {
			return nil, fmt.Errorf("invalid flag: %w", err)
		}
	}
	if override != nil {
		override(cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides cfg from TOP100_* environment variables
func applyEnv(cfg *Config) error {
	if v := os.Getenv("TOP100_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("TOP100_MODE"); v != "" {
		cfg.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("TOP100_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("TOP100_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TOP100_OUTPUT"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("TOP100_IMAGES"); v != "" {
		cfg.ImagesDir = v
	}
	if v := os.Getenv("TOP100_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("TOP100_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOP100_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("TOP100_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOP100_HEADLESS %q: %w", v, err)
		}
		cfg.BrowserHeadless = b
	}
	// CHROME_PATH is also honoured by the Chrome lookup itself
	if v := os.Getenv("TOP100_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	return nil
}

// applyFlags overrides cfg with flags the user explicitly set
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	if s := flagString(cmd, "user-agent"); s != "" {
		cfg.UserAgent = s
	}
	if s := flagString(cmd, "proxy"); s != "" {
		cfg.Proxy = s
	}
	if s := flagString(cmd, "timeout"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("--timeout %q: %w", s, err)
		}
		cfg.Timeout = d
	}
	if flagBool(cmd, "json") {
		cfg.JSONLog = true
	}
	if flagBool(cmd, "verbose") {
		cfg.LogLevel = "debug"
	} else if flagBool(cmd, "quiet") {
		cfg.LogLevel = "error"
	}
	if s := flagString(cmd, "output"); s != "" {
		cfg.OutputPath = s
	}
	if s := flagString(cmd, "format"); s != "" {
		cfg.Format = strings.ToLower(s)
	}
	if s := flagString(cmd, "strategy"); s != "" && strings.ToLower(s) != "auto" {
		cfg.Strategies = []string{strings.ToLower(s)}
	}
	if s := flagString(cmd, "images"); s != "" {
		cfg.ImagesDir = s
	}
	if s := flagString(cmd, "image-workers"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("--image-workers %q: %w", s, err)
		}
		cfg.ImageWorkers = n
	}
	if s := flagString(cmd, "url"); s != "" {
		cfg.URL = s
	}
	if s := flagString(cmd, "mode"); s != "" {
		cfg.Mode = strings.ToLower(s)
	}
	if s := flagString(cmd, "snapshot"); s != "" {
		cfg.SnapshotPath = s
	}
	if s := flagString(cmd, "wait-selector"); s != "" {
		cfg.WaitSelector = s
	}
	if f := cmd.Flags().Lookup("header"); f != nil && f.Changed {
		if values, err := cmd.Flags().GetStringArray("header"); err == nil {
			for k, v := range headersutil.ParseHeaders(values) {
				cfg.Headers[k] = v
			}
		}
	}
	if flagBool(cmd, "headful") {
		cfg.BrowserHeadless = false
	}
	return nil
}

// flagString returns the value of a flag the user changed, or ""
func flagString(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return ""
	}
	return f.Value.String()
}

func flagBool(cmd *cobra.Command, name string) bool {
	return flagString(cmd, name) == "true"
}
