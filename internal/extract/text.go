package extract

import (
	"regexp"
	"strings"

	"github.com/law-makers/top100/pkg/models"
)

// headingLineRe matches a line made only of upper-case letters, spaces and '&'
var headingLineRe = regexp.MustCompile(`^[A-Z][A-Z\s&]+$`)

const minBlockLines = 3

// TextBlocks splits the visible page text into blocks that start at heading
// lines and reads each block as one course
type TextBlocks struct{}

// Name returns the strategy name
func (TextBlocks) Name() string {
	return "text"
}

// Extract implements Strategy
func (TextBlocks) Extract(doc *Document) []models.CourseRecord {
	return parseTextBlocks(doc.Text)
}

func parseTextBlocks(text string) []models.CourseRecord {
	records := []models.CourseRecord{}
	for _, block := range splitBlocks(text) {
		if rec, ok := parseBlock(block); ok {
			records = append(records, rec)
		}
	}
	return records
}

// splitBlocks groups trimmed non-empty lines; every heading line opens a new
// block and is its first line
func splitBlocks(text string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if headingLineRe.MatchString(line) && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func parseBlock(lines []string) (models.CourseRecord, bool) {
	if len(lines) < minBlockLines {
		return models.CourseRecord{}, false
	}

	name := lines[0]
	if rejectedName(name) {
		return models.CourseRecord{}, false
	}

	rec := models.CourseRecord{Name: name, Comments: []models.Comment{}}
	for _, line := range lines[1:] {
		applyRules(textRules, &rec, line)
	}

	if rec.Designers == "" && rec.AveragePoints == "" {
		return models.CourseRecord{}, false
	}
	return rec, true
}
