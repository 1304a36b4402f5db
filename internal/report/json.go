package report

import (
	"bytes"
	"encoding/json"

	"github.com/law-makers/top100/pkg/models"
)

// encodeJSON renders result with two-space indentation. HTML characters
// stay as written so quotes and ampersands in comments remain readable.
func encodeJSON(result models.ScrapeResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
