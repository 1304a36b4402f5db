// Package downloader saves the article image of each ranked course to disk.
package downloader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/internal/ratelimit"
	"github.com/law-makers/top100/internal/retry"
	"github.com/law-makers/top100/pkg/models"
)

// maxImageBytes bounds a single image download. Larger images fail rather
// than being saved truncated.
var maxImageBytes int64 = 25 << 20

// Job is one image to fetch. Index is the course's position in the report.
type Job struct {
	Index int
	URL   string
	Name  string
}

// Result represents the result of one image download
type Result struct {
	Job
	FilePath string
	Size     int64
	Err      error
	Duration time.Duration
}

// Success reports whether the image was written
func (r *Result) Success() bool {
	return r.Err == nil && r.FilePath != ""
}

// Downloader streams course images to disk
type Downloader struct {
	client    *http.Client
	limiter   ratelimit.Limiter
	retry     retry.Config
	userAgent string
}

// New creates a Downloader sharing the application's HTTP client
func New(client *http.Client, lim ratelimit.Limiter, rc retry.Config, ua string) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{
		client:    client,
		limiter:   lim,
		retry:     rc,
		userAgent: ua,
	}
}

// JobsFromCourses returns one job per course that has an article image.
// Files are named after the rank when known, otherwise the report position.
func JobsFromCourses(courses []models.CourseRecord) []Job {
	jobs := make([]Job, 0, len(courses))
	for i, c := range courses {
		if c.ArticleImageURL == "" {
			continue
		}
		n := i + 1
		if c.Ranking != nil {
			n = *c.Ranking
		}
		jobs = append(jobs, Job{
			Index: i,
			URL:   c.ArticleImageURL,
			Name:  fmt.Sprintf("%03d-%s", n, slug(c.Name)),
		})
	}
	return jobs
}

// Download fetches job.URL into dir
func (d *Downloader) Download(ctx context.Context, job Job, dir string) *Result {
	result := &Result{Job: job}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	u, err := url.Parse(job.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		result.Err = fmt.Errorf("invalid image URL %q", job.URL)
		return result
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.Err = fmt.Errorf("failed to create output directory: %w", err)
		return result
	}

	result.Err = retry.Do(ctx, d.retry, func(attempt int) error {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx, job.URL); err != nil {
				return err
			}
		}
		p, n, err := d.fetch(ctx, job, u, dir)
		if err != nil {
			return err
		}
		result.FilePath, result.Size = p, n
		return nil
	})
	if result.Err != nil {
		return result
	}

	log.Debug().
		Str("url", job.URL).
		Str("file", result.FilePath).
		Int64("bytes", result.Size).
		Msg("Image saved")

	return result
}

func (d *Downloader) fetch(ctx context.Context, job Job, u *url.URL, dir string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return "", 0, retry.Permanent(err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/*,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", 0, retry.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), job.URL)
	}

	filePath := filepath.Join(dir, job.Name+extension(u, resp.Header.Get("Content-Type")))
	out, err := os.Create(filePath)
	if err != nil {
		return "", 0, retry.Permanent(fmt.Errorf("failed to create file: %w", err))
	}

	n, err := io.Copy(out, io.LimitReader(resp.Body, maxImageBytes+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filePath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}
	if n > maxImageBytes {
		os.Remove(filePath)
		return "", 0, retry.Permanent(fmt.Errorf("image exceeds %d bytes", maxImageBytes))
	}

	return filePath, n, nil
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".avif": true, ".svg": true,
}

// extension picks a file extension from the URL path, then the content type
func extension(u *url.URL, contentType string) string {
	if ext := strings.ToLower(path.Ext(u.Path)); imageExts[ext] {
		return ext
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "image/jpeg":
			return ".jpg"
		case "image/png":
			return ".png"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		case "image/avif":
			return ".avif"
		case "image/svg+xml":
			return ".svg"
		}
	}
	return ".img"
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug turns a course name into a safe file stem
func slug(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "course"
	}
	if len(s) > 80 {
		s = strings.TrimRight(s[:80], "-")
	}
	return s
}
