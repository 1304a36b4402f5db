package extract

import (
	"testing"

	"github.com/law-makers/top100/pkg/models"
)

const testPageURL = "https://www.example.com/feature/top-100/page0"

func newTestDocument(t *testing.T, html string) *Document {
	t.Helper()
	doc, err := NewDocument(&models.Page{URL: testPageURL, HTML: html})
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	return doc
}

func testWalk() Walk {
	return Walk{ParagraphSelector: "p", CaptionSelector: "figure", RankMarker: "font-size:24px"}
}
