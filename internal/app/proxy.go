package app

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// proxyFunc returns the transport proxy for raw, falling back to the
// environment when raw is empty or invalid
func proxyFunc(raw string) func(*http.Request) (*url.URL, error) {
	if raw == "" {
		return http.ProxyFromEnvironment
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		log.Warn().Str("proxy", raw).Msg("Invalid proxy URL, using environment settings")
		return http.ProxyFromEnvironment
	}
	return http.ProxyURL(u)
}
