package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "warn"
	DefaultJSONLog  = false

	DefaultURL         = "https://www.golfaustralia.com.au/feature/ranking-australias-top-100-courses-for-2024-604333/page0"
	DefaultSource      = "Golf Australia Top-100 Courses 2024"
	DefaultMode        = "dynamic"
	DefaultUserAgent   = "Top100/1.0 (https://github.com/law-makers/top100)"
	DefaultTimeout     = 30 * time.Second
	DefaultWaitSelect  = "body"
	DefaultHeadless    = true
	DefaultNetworkIdle = 500 * time.Millisecond

	DefaultRateLimitRPS   = 1.0
	DefaultRateLimitBurst = 1
	DefaultRetryAttempts  = 3
	MaxRetryAttempts      = 10

	DefaultParagraphSelector = "p"
	DefaultCaptionSelector   = "figure"
	DefaultRankMarker        = "font-size:24px"

	DefaultOutputPath   = "golf-courses-2024.json"
	DefaultFormat       = "json"
	DefaultPreviewCount = 5

	DefaultImageWorkers = 4
	MaxImageWorkers     = 16
)

// DefaultStrategies is the order strategies run in; ties go to the earlier one.
var DefaultStrategies = []string{"walk", "element", "text"}
