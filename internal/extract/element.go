package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/law-makers/top100/pkg/models"
)

const elementSelector = "p, div, h3, h4, h5, h6"

// ElementBlocks reads every block element whose text carries both a designer
// label and an average-points label as one course.
//
// Unlike the scraper this tool replaces, which emitted a record for every
// matching element, only the innermost match is used: a wrapper div around a
// matching paragraph would otherwise repeat that course. Counts can therefore
// be lower than the old element pass reported, which matters to the
// coordinator since it picks the strategy with the most records.
type ElementBlocks struct{}

// Name returns the strategy name
func (ElementBlocks) Name() string {
	return "element"
}

// Extract implements Strategy
func (ElementBlocks) Extract(doc *Document) []models.CourseRecord {
	var candidates []*html.Node
	texts := make(map[*html.Node]string)

	doc.Find(elementSelector).Each(func(i int, sel *goquery.Selection) {
		n := sel.Nodes[0]
		text := doc.NodeText(n)
		if strings.Contains(text, "Designer:") && strings.Contains(text, "Average points:") {
			candidates = append(candidates, n)
			texts[n] = text
		}
	})

	// An element wrapping another candidate would repeat its course
	outer := make(map[*html.Node]bool)
	for _, n := range candidates {
		for p := n.Parent; p != nil; p = p.Parent {
			if _, ok := texts[p]; ok {
				outer[p] = true
			}
		}
	}

	records := []models.CourseRecord{}
	for _, n := range candidates {
		if outer[n] {
			continue
		}
		if rec, ok := parseElementLines(strings.Split(texts[n], "\n")); ok {
			records = append(records, rec)
		}
	}
	return records
}

func parseElementLines(lines []string) (models.CourseRecord, bool) {
	rec := models.CourseRecord{Comments: []models.Comment{}}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if applyRules(labelRules, &rec, line) {
			continue
		}
		if utf8.RuneCountInString(line) >= maxNameLength || isCredit(line) {
			continue
		}
		if rec.Name == "" {
			rec.Name = line
		} else if rec.Location == "" && strings.Contains(line, ",") {
			rec.Location = line
		}
	}

	if rec.Name == "" || rec.Designers == "" {
		return models.CourseRecord{}, false
	}
	return rec, true
}
