package dynamic

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
)

// browserBinaries are looked up on PATH when no install location matches
var browserBinaries = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"msedge",
}

// FindChrome locates a Chrome/Chromium executable. A configured path wins,
// then CHROME_PATH, then the usual install locations, then PATH. An empty
// result lets chromedp use its own lookup.
func FindChrome(configured string) string {
	explicit := []struct {
		source string
		path   string
	}{
		{"config", configured},
		{"CHROME_PATH", os.Getenv("CHROME_PATH")},
	}
	for _, e := range explicit {
		if e.path == "" {
			continue
		}
		if isExecutable(e.path) {
			log.Debug().Str("path", e.path).Str("source", e.source).Msg("Using Chrome")
			return e.path
		}
		log.Warn().Str("path", e.path).Str("source", e.source).Msg("Chrome path is not executable")
	}

	for _, path := range installCandidates(runtime.GOOS, os.Getenv) {
		if isExecutable(path) {
			log.Debug().Str("path", path).Msg("Chrome found at standard location")
			return path
		}
	}

	for _, name := range browserBinaries {
		if path, err := exec.LookPath(name); err == nil {
			log.Debug().Str("path", path).Msg("Chrome found in PATH")
			return path
		}
	}

	log.Warn().Str("os", runtime.GOOS).Msg("Chrome not found, falling back to chromedp default")
	return ""
}

// installCandidates lists the usual install locations for goos, most
// likely first
func installCandidates(goos string, getenv func(string) string) []string {
	var candidates []string
	home := getenv("HOME")

	switch goos {
	case "darwin":
		apps := []string{
			"Google Chrome.app/Contents/MacOS/Google Chrome",
			"Chromium.app/Contents/MacOS/Chromium",
			"Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
		for _, app := range apps {
			candidates = append(candidates, filepath.Join("/Applications", app))
		}
		if home != "" {
			for _, app := range apps[:2] {
				candidates = append(candidates, filepath.Join(home, "Applications", app))
			}
		}

	case "windows":
		for _, base := range []string{getenv("ProgramFiles"), getenv("ProgramFiles(x86)"), getenv("LocalAppData")} {
			if base == "" {
				continue
			}
			candidates = append(candidates,
				filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(base, "Chromium", "Application", "chrome.exe"),
				filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
			)
		}

	case "linux":
		for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium-browser", "chromium"} {
			candidates = append(candidates, filepath.Join("/usr/bin", name))
		}
		candidates = append(candidates, "/snap/bin/chromium")
		if home != "" {
			candidates = append(candidates,
				filepath.Join(home, ".local/share/flatpak/exports/bin/com.google.Chrome"),
				filepath.Join(home, ".local/share/flatpak/exports/bin/org.chromium.Chromium"),
			)
		}
	}

	return candidates
}

// isExecutable reports whether path is a file this user may run
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}
