package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file schema. Zero values leave the
// defaults untouched.
type FileConfig struct {
	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`

	Page struct {
		URL          string            `yaml:"url"`
		Mode         string            `yaml:"mode"`
		Timeout      time.Duration     `yaml:"timeout"`
		UserAgent    string            `yaml:"userAgent"`
		Proxy        string            `yaml:"proxy"`
		WaitSelector string            `yaml:"waitSelector"`
		Headers      map[string]string `yaml:"headers"`
		Snapshot     string            `yaml:"snapshot"`
	} `yaml:"page"`

	Static struct {
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
		Retries int     `yaml:"retries"`
	} `yaml:"static"`

	Browser struct {
		Headless    *bool         `yaml:"headless"`
		ChromePath  string        `yaml:"chromePath"`
		NetworkIdle time.Duration `yaml:"networkIdle"`
	} `yaml:"browser"`

	Extract struct {
		Strategies        []string `yaml:"strategies"`
		ParagraphSelector string   `yaml:"paragraphSelector"`
		CaptionSelector   string   `yaml:"captionSelector"`
		RankMarker        string   `yaml:"rankMarker"`
	} `yaml:"extract"`

	Report struct {
		Source      string `yaml:"source"`
		ArticleDate string `yaml:"articleDate"`
		Output      string `yaml:"output"`
		Format      string `yaml:"format"`
		Preview     *int   `yaml:"preview"`
	} `yaml:"report"`

	Images struct {
		Dir     string `yaml:"dir"`
		Workers int    `yaml:"workers"`
	} `yaml:"images"`
}

// LoadFile reads a YAML configuration file
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// apply overlays the non-zero file values onto cfg
func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.LogLevel, strings.ToLower(fc.Log.Level))
	if fc.Log.JSON {
		cfg.JSONLog = true
	}

	setString(&cfg.URL, fc.Page.URL)
	setString(&cfg.Mode, strings.ToLower(fc.Page.Mode))
	if fc.Page.Timeout > 0 {
		cfg.Timeout = fc.Page.Timeout
	}
	setString(&cfg.UserAgent, fc.Page.UserAgent)
	setString(&cfg.Proxy, fc.Page.Proxy)
	setString(&cfg.WaitSelector, fc.Page.WaitSelector)
	setString(&cfg.SnapshotPath, fc.Page.Snapshot)
	for k, v := range fc.Page.Headers {
		cfg.Headers[k] = v
	}

	if fc.Static.RPS > 0 {
		cfg.RateLimitRPS = fc.Static.RPS
	}
	if fc.Static.Burst > 0 {
		cfg.RateLimitBurst = fc.Static.Burst
	}
	if fc.Static.Retries > 0 {
		cfg.RetryAttempts = fc.Static.Retries
	}

	if fc.Browser.Headless != nil {
		cfg.BrowserHeadless = *fc.Browser.Headless
	}
	setString(&cfg.ChromePath, fc.Browser.ChromePath)
	if fc.Browser.NetworkIdle > 0 {
		cfg.NetworkIdle = fc.Browser.NetworkIdle
	}

	if len(fc.Extract.Strategies) > 0 {
		cfg.Strategies = cfg.Strategies[:0]
		for _, s := range fc.Extract.Strategies {
			cfg.Strategies = append(cfg.Strategies, strings.ToLower(strings.TrimSpace(s)))
		}
	}
	setString(&cfg.ParagraphSelector, fc.Extract.ParagraphSelector)
	setString(&cfg.CaptionSelector, fc.Extract.CaptionSelector)
	setString(&cfg.RankMarker, fc.Extract.RankMarker)

	setString(&cfg.Source, fc.Report.Source)
	setString(&cfg.ArticleDate, fc.Report.ArticleDate)
	setString(&cfg.OutputPath, fc.Report.Output)
	setString(&cfg.Format, strings.ToLower(fc.Report.Format))
	if fc.Report.Preview != nil {
		cfg.PreviewCount = *fc.Report.Preview
	}

	setString(&cfg.ImagesDir, fc.Images.Dir)
	if fc.Images.Workers > 0 {
		cfg.ImageWorkers = fc.Images.Workers
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
