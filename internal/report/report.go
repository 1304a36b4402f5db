// Package report wraps extracted courses in the output envelope, writes it
// to disk and prints a console preview.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/internal/ui"
	"github.com/law-makers/top100/pkg/models"
)

// scrapedAtLayout is ISO-8601 in UTC with millisecond precision
const scrapedAtLayout = "2006-01-02T15:04:05.000Z"

// Supported output formats
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Envelope holds the constants written around the course list
type Envelope struct {
	Source      string
	URL         string
	ArticleDate string
}

// Build wraps courses in a ScrapeResult stamped with now
func Build(courses []models.CourseRecord, env Envelope, now time.Time) models.ScrapeResult {
	if courses == nil {
		courses = []models.CourseRecord{}
	}
	return models.ScrapeResult{
		Source:       env.Source,
		URL:          env.URL,
		ArticleDate:  env.ArticleDate,
		ScrapedAt:    now.UTC().Format(scrapedAtLayout),
		TotalCourses: len(courses),
		Courses:      courses,
	}
}

// Save writes result to path in the given format. The file is written even
// when there are no courses.
func Save(result models.ScrapeResult, path, format string) error {
	var (
		content []byte
		err     error
	)

	switch strings.ToLower(format) {
	case "", FormatJSON:
		content, err = encodeJSON(result)
	case FormatCSV:
		content, err = encodeCSV(result)
	case FormatMarkdown, "md":
		content, err = encodeMarkdown(result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s output: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Str("format", format).
		Int("bytes", len(content)).
		Msg("Report written")

	return nil
}

// NoCoursesMessage is printed when extraction found nothing
const NoCoursesMessage = "No courses found. The page structure might have changed."

// Preview prints up to n courses to w
func Preview(w io.Writer, result models.ScrapeResult, n int) {
	if result.TotalCourses == 0 || len(result.Courses) == 0 {
		fmt.Fprintln(w, ui.Info(NoCoursesMessage))
		return
	}

	if n > len(result.Courses) {
		n = len(result.Courses)
	}

	fmt.Fprintf(w, "\n%s\n", ui.Bold(fmt.Sprintf("First %d courses:", n)))
	for i, c := range result.Courses[:n] {
		fmt.Fprintf(w, "\n%s\n", ui.Success(fmt.Sprintf("%d. %s", i+1, c.Name)))
		previewField(w, "Ranking", rankingText(c.Ranking))
		previewField(w, "Location", c.Location)
		previewField(w, "Designers", c.Designers)
		previewField(w, "Average points", string(c.AveragePoints))
		previewField(w, "2022 ranking", c.Ranking2022)
		if first := c.FirstComment(); first != "" {
			previewField(w, "Comment", first)
		}
	}
}

func previewField(w io.Writer, label, value string) {
	if value == "" {
		value = ui.ColorDim + "-" + ui.ColorReset
	}
	fmt.Fprintf(w, "   %s%-15s%s %s\n", ui.ColorCyan, label+":", ui.ColorReset, value)
}

func rankingText(r *int) string {
	if r == nil {
		return ""
	}
	return strconv.Itoa(*r)
}
