package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/law-makers/top100/internal/config"
	"github.com/law-makers/top100/internal/engine"
	"github.com/law-makers/top100/pkg/models"
)

const textArticle = `<html><head>
<meta property="article:published_time" content="2024-02-19T09:30:00+11:00">
</head><body>
<h1>Ranking Australia's Top-100 Courses for 2024</h1>
<h2>ROYAL MELBOURNE</h2>
<p>Black Rock, VIC</p>
<p>Designers: Alister MacKenzie</p>
<p>Average points: 9.75</p>
<h2>KINGSTON HEATH</h2>
<p>Cheltenham, VIC</p>
<p>Designers: Dan Soutar</p>
<p>"Immaculate" – Tom Ramsey</p>
<h2>BROKEN ENTRY</h2>
<p>Somewhere, NSW</p>
<p>No labels here.</p>
<h2>BARNBOUGLE DUNES</h2>
<p>Bridport, TAS</p>
<p>Average points: 9.2</p>
</body></html>`

func testConfig(t *testing.T, html string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "page.html")
	if err := os.WriteFile(src, []byte(html), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.Mode = "file"
	cfg.InputPath = src
	cfg.OutputPath = filepath.Join(dir, "out.json")
	cfg.LogLevel = "error"
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t, textArticle)
	cfg.Strategies = []string{"text"}

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	a.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	out, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.RunID == "" {
		t.Error("Expected a run ID")
	}
	if out.Strategy != "text" {
		t.Errorf("Expected text strategy, got %s", out.Strategy)
	}

	raw, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	var result models.ScrapeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatal(err)
	}

	if result.TotalCourses != 3 || len(result.Courses) != 3 {
		t.Fatalf("Expected 3 courses, got %d", result.TotalCourses)
	}
	names := []string{"ROYAL MELBOURNE", "KINGSTON HEATH", "BARNBOUGLE DUNES"}
	for i, name := range names {
		if result.Courses[i].Name != name {
			t.Errorf("Course %d: expected %s, got %s", i, name, result.Courses[i].Name)
		}
	}
	if result.Source != config.DefaultSource || result.URL != config.DefaultURL {
		t.Errorf("Expected default envelope, got %q %q", result.Source, result.URL)
	}
	if result.ArticleDate != "2024-02-19" {
		t.Errorf("Expected article date from page metadata, got %q", result.ArticleDate)
	}
	if result.ScrapedAt != "2024-03-01T00:00:00.000Z" {
		t.Errorf("Unexpected scrapedAt %q", result.ScrapedAt)
	}
}

func TestRun_ConfiguredArticleDateWins(t *testing.T) {
	cfg := testConfig(t, textArticle)
	cfg.ArticleDate = "2024-02-20"

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	out, err := a.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out.Result.ArticleDate != "2024-02-20" {
		t.Errorf("Expected configured article date, got %q", out.Result.ArticleDate)
	}
}

func TestRun_EmptyPageStillWritesFile(t *testing.T) {
	cfg := testConfig(t, `<html><body><p>Page moved.</p></body></html>`)

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	out, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Result.TotalCourses != 0 {
		t.Errorf("Expected no courses, got %d", out.Result.TotalCourses)
	}
	if _, err := os.Stat(cfg.OutputPath); err != nil {
		t.Errorf("Expected output file for empty result: %v", err)
	}
}

func TestRun_LoadFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t, "<p>x</p>")
	cfg.InputPath = filepath.Join(t.TempDir(), "missing.html")

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = a.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if engine.CodeOf(err) != engine.ErrCodeNotFound {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
		t.Error("No output file should be written after a failed load")
	}
}

func TestNew_SelectsLoader(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"dynamic", "dynamic"},
		{"static", "static"},
		{"file", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Mode = tt.mode
			cfg.LogLevel = "error"
			a, err := New(cfg)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if a.Loader.Name() != tt.want {
				t.Errorf("Expected loader %s, got %s", tt.want, a.Loader.Name())
			}
		})
	}
}

func TestNew_RejectsUnknownStrategy(t *testing.T) {
	cfg := config.Defaults()
	cfg.Strategies = []string{"magic"}
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}

func TestRun_DownloadsCourseImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg"))
	}))
	defer server.Close()

	article := fmt.Sprintf(`<html><body>
<p style="font-size:24px"><img src="/rank-1.png">ROYAL MELBOURNE</p>
<p>Black Rock, VIC</p>
<p>Designer: Alister MacKenzie</p>
<figure><img src="%[1]s/royal.jpg"><figcaption>The 6th</figcaption></figure>
<p style="font-size:24px"><img src="/rank-2.png">KINGSTON HEATH</p>
<p>Cheltenham, VIC</p>
<p>Designer: Dan Soutar</p>
<figure><img src="%[1]s/broken.jpg"><figcaption>The 15th</figcaption></figure>
</body></html>`, server.URL)

	cfg := testConfig(t, article)
	cfg.Strategies = []string{"walk"}
	cfg.ImagesDir = filepath.Join(t.TempDir(), "images")
	cfg.RetryAttempts = 1

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	out, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Result.TotalCourses != 2 {
		t.Fatalf("Expected 2 courses, got %d", out.Result.TotalCourses)
	}
	if len(out.Images) != 2 {
		t.Fatalf("Expected 2 image results, got %d", len(out.Images))
	}
	if !out.Images[0].Success() {
		t.Errorf("Expected first image to download: %v", out.Images[0].Err)
	}
	if out.Images[1].Success() {
		t.Error("Expected missing image to fail")
	}
	if _, err := os.Stat(filepath.Join(cfg.ImagesDir, "001-royal-melbourne.jpg")); err != nil {
		t.Errorf("Expected image on disk: %v", err)
	}
}

func TestRun_LeadingZeroPointsStillWritten(t *testing.T) {
	cfg := testConfig(t, `<html><body>
<h2>KINGSTON HEATH</h2>
<p>Cheltenham, VIC</p>
<p>Designers: Dan Soutar</p>
<p>Average points: 09.5</p>
</body></html>`)
	cfg.Strategies = []string{"text"}

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	out, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Result.TotalCourses != 1 {
		t.Fatalf("Expected 1 course, got %d", out.Result.TotalCourses)
	}

	raw, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	var result models.ScrapeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatal(err)
	}
	if result.Courses[0].AveragePoints != "9.5" {
		t.Errorf("Expected averagePoints 9.5, got %q", result.Courses[0].AveragePoints)
	}
}
