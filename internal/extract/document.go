package extract

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/law-makers/top100/pkg/models"
)

// attributionMark is written after the contents of an attribution element
// (<em>, <i>, <cite>) so comment authors end where their markup closes.
const attributionMark = '\x1f'

var (
	skipElements = map[string]bool{
		"script": true, "style": true, "noscript": true, "template": true, "svg": true, "iframe": true,
	}
	blockElements = map[string]bool{
		"address": true, "article": true, "aside": true, "blockquote": true, "dd": true, "div": true,
		"dl": true, "dt": true, "figcaption": true, "figure": true, "footer": true, "form": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
		"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true, "pre": true,
		"section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
	}
	attributionElements = map[string]bool{"em": true, "i": true, "cite": true}
)

// Document is a parsed page shared by all strategies
type Document struct {
	URL   string
	Title string
	// Text is the visible text of the body, one trimmed non-empty line per
	// rendered line.
	Text string

	query     *goquery.Document
	positions map[*html.Node]int
}

// NewDocument parses a loaded page
func NewDocument(page *models.Page) (*Document, error) {
	if page == nil {
		return nil, fmt.Errorf("page is nil")
	}

	query, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc := &Document{
		URL:       page.BaseURL(),
		Title:     page.Title,
		query:     query,
		positions: indexNodes(query.Nodes[0]),
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSpace(query.Find("title").First().Text())
	}

	root := query.Nodes[0]
	if body := query.Find("body"); body.Length() > 0 {
		root = body.Nodes[0]
	}
	doc.Text = doc.NodeText(root)

	return doc, nil
}

// Query returns the underlying goquery document
func (d *Document) Query() *goquery.Document {
	return d.query
}

// Find runs a CSS selector against the whole document
func (d *Document) Find(selector string) *goquery.Selection {
	return d.query.Find(selector)
}

// Position returns the document-order index of n, or -1 for foreign nodes
func (d *Document) Position(n *html.Node) int {
	if pos, ok := d.positions[n]; ok {
		return pos
	}
	return -1
}

// NodeText renders the visible text of n: whitespace runs collapse to one
// space, block elements and <br> break lines, empty lines are dropped.
func (d *Document) NodeText(n *html.Node) string {
	return cleanLines(renderText(n, false))
}

// markedText is NodeText on a single line with attribution elements
// terminated by attributionMark.
func (d *Document) markedText(n *html.Node) string {
	return strings.Join(strings.Split(cleanLines(renderText(n, true)), "\n"), " ")
}

// flatText is NodeText joined onto a single line
func (d *Document) flatText(n *html.Node) string {
	return strings.Join(strings.Split(d.NodeText(n), "\n"), " ")
}

func indexNodes(root *html.Node) map[*html.Node]int {
	positions := make(map[*html.Node]int)
	next := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		positions[n] = next
		next++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return positions
}

func renderText(n *html.Node, markAttribution bool) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			writeCollapsed(&b, n.Data)
			return
		case html.ElementNode:
			if skipElements[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteByte('\n')
				return
			}
			block := blockElements[n.Data]
			if block {
				b.WriteByte('\n')
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if markAttribution && attributionElements[n.Data] {
				b.WriteRune(attributionMark)
			}
			if block {
				b.WriteByte('\n')
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// writeCollapsed writes s with every whitespace run (including non-breaking
// spaces) replaced by a single space
func writeCollapsed(b *strings.Builder, s string) {
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
}

func cleanLines(s string) string {
	s = norm.NFC.String(s)
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// stripMarks removes attribution marks and surrounding whitespace
func stripMarks(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, string(attributionMark), ""))
}
