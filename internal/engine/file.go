package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/pkg/models"
)

// FileLoader reads a page from a saved HTML snapshot
type FileLoader struct{}

// NewFileLoader creates a FileLoader
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Name returns the name of this loader
func (f *FileLoader) Name() string {
	return "file"
}

// Load reads opts.URL as a file path
func (f *FileLoader) Load(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, LoadError(ErrCodeNetworkError, opts.URL, err)
	}

	start := time.Now()
	data, err := os.ReadFile(opts.URL)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewEngineError(ErrCodeNotFound, "snapshot not found", err).WithDetail("path", opts.URL)
		}
		return nil, NewEngineError(ErrCodeParseError, "failed to read snapshot", err).WithDetail("path", opts.URL)
	}
	if len(data) == 0 {
		return nil, NewEngineError(ErrCodeParseError, "snapshot is empty", ErrEmptyPage).WithDetail("path", opts.URL)
	}

	log.Debug().
		Str("path", opts.URL).
		Int("bytes", len(data)).
		Msg("Snapshot loaded")

	return &models.Page{
		URL:          opts.URL,
		HTML:         string(data),
		Loader:       f.Name(),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}, nil
}

// SaveSnapshot writes the rendered HTML of page to path
func SaveSnapshot(page *models.Page, path string) error {
	if page == nil {
		return fmt.Errorf("page is nil")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(page.HTML), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Debug().Str("path", path).Int("bytes", len(page.HTML)).Msg("Snapshot saved")
	return nil
}
