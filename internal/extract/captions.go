package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/top100/internal/utils/url"
)

// captionBlock is an article image with its caption, placed by its
// document-order position
type captionBlock struct {
	pos     int
	src     string
	caption string
}

// collectCaptions returns the caption blocks matching selector in document order
func collectCaptions(doc *Document, selector string) []captionBlock {
	var blocks []captionBlock
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		img := sel.Find("img").First()
		if img.Length() == 0 && goquery.NodeName(sel) == "img" {
			img = sel
		}
		src := imageSource(img)
		if src == "" {
			return
		}

		caption := ""
		if fc := sel.Find("figcaption").First(); fc.Length() > 0 {
			caption = doc.flatText(fc.Nodes[0])
		}
		if caption == "" {
			alt, _ := img.Attr("alt")
			caption = strings.TrimSpace(alt)
		}

		blocks = append(blocks, captionBlock{
			pos:     doc.Position(sel.Nodes[0]),
			src:     urlutil.ResolveURL(doc.URL, src),
			caption: caption,
		})
	})
	return blocks
}

// imageSource returns the src of img, falling back to lazy-loading attributes
func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// captionCursor hands out caption blocks in document order, each at most once
type captionCursor struct {
	blocks []captionBlock
	next   int
}

// take returns the first unconsumed block lying strictly between start and
// end. Blocks at or before start are skipped for good: later courses start
// even further down the page.
func (c *captionCursor) take(start, end int) (captionBlock, bool) {
	for c.next < len(c.blocks) && c.blocks[c.next].pos <= start {
		c.next++
	}
	if c.next < len(c.blocks) && c.blocks[c.next].pos < end {
		b := c.blocks[c.next]
		c.next++
		return b, true
	}
	return captionBlock{}, false
}
