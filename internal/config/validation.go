package config

import (
	"fmt"

	urlutil "github.com/law-makers/top100/internal/utils/url"
)

var (
	validModes      = map[string]bool{"dynamic": true, "static": true, "file": true}
	validFormats    = map[string]bool{"json": true, "csv": true, "markdown": true}
	validStrategies = map[string]bool{"walk": true, "element": true, "text": true}
)

func validate(c *Config) error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode %q (must be dynamic, static or file)", c.Mode)
	}
	if c.Mode == "file" {
		if c.InputPath == "" {
			return fmt.Errorf("file mode needs an input path")
		}
	} else if err := urlutil.ValidateURL(c.URL); err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format %q (must be json, csv or markdown)", c.Format)
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("at least one extraction strategy is required")
	}
	for _, s := range c.Strategies {
		if !validStrategies[s] {
			return fmt.Errorf("unknown extraction strategy %q", s)
		}
	}
	if c.RetryAttempts < 1 || c.RetryAttempts > MaxRetryAttempts {
		return fmt.Errorf("retry attempts must be between 1 and %d", MaxRetryAttempts)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be > 0")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if c.PreviewCount < 0 {
		return fmt.Errorf("preview count must be >= 0")
	}
	if c.ImageWorkers < 1 || c.ImageWorkers > MaxImageWorkers {
		return fmt.Errorf("image workers must be between 1 and %d", MaxImageWorkers)
	}
	return nil
}
