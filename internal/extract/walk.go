package extract

import (
	"encoding/json"
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/pkg/models"
)

var (
	// leading run of upper-case words: letters, '&', en-dash and '.'
	courseNameRe     = regexp.MustCompile(`^(?:[A-Z&–.]+(?:\s+|$))+`)
	digitsRe         = regexp.MustCompile(`\d+`)
	statsRanking2022 = regexp.MustCompile(`2022 ranking:\s*(.+?)\.?\s*$`)
)

const commentsLabel = "Comments:"

// walkStage is where the walk is within one course
type walkStage int

const (
	seekingStart walkStage = iota
	readingLocation
	readingDesigners
	readingStats
	readingComments
	matchingImage
)

func (s walkStage) String() string {
	switch s {
	case seekingStart:
		return "seeking_start"
	case readingLocation:
		return "reading_location"
	case readingDesigners:
		return "reading_designers"
	case readingStats:
		return "reading_stats"
	case readingComments:
		return "reading_comments"
	case matchingImage:
		return "matching_image"
	default:
		return "unknown"
	}
}

// Walk reads the article paragraph by paragraph. A paragraph holding an image
// and the ranking-badge font size starts a course; the paragraphs after it are
// the location, the designers, the stats line and a run of comments.
type Walk struct {
	ParagraphSelector string
	CaptionSelector   string
	RankMarker        string
}

// Name returns the strategy name
func (w Walk) Name() string {
	return "walk"
}

type paragraph struct {
	pos    int
	text   string
	marked string
	img    string
	start  bool
}

// Extract implements Strategy
func (w Walk) Extract(doc *Document) []models.CourseRecord {
	paras := w.paragraphs(doc)
	captions := &captionCursor{}
	if w.CaptionSelector != "" {
		captions.blocks = collectCaptions(doc, w.CaptionSelector)
	}

	records := []models.CourseRecord{}
	for i := 0; i < len(paras); {
		if !paras[i].start {
			i++
			continue
		}
		rec, next := readCourse(paras, i, captions)
		records = append(records, rec)
		i = next
	}
	return records
}

func (w Walk) paragraphs(doc *Document) []paragraph {
	selector := w.ParagraphSelector
	if selector == "" {
		selector = "p"
	}
	marker := compactLower(w.RankMarker)

	var paras []paragraph
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		n := sel.Nodes[0]
		p := paragraph{
			pos:    doc.Position(n),
			text:   doc.flatText(n),
			marked: doc.markedText(n),
		}
		if img := sel.Find("img").First(); img.Length() > 0 {
			p.img = imageSource(img)
			markup, err := goquery.OuterHtml(sel)
			p.start = err == nil && marker != "" && strings.Contains(compactLower(markup), marker)
		}
		paras = append(paras, p)
	})
	return paras
}

// readCourse reads one course starting at paras[i] and returns it with the
// index of the first paragraph it did not consume
func readCourse(paras []paragraph, i int, captions *captionCursor) (models.CourseRecord, int) {
	start := paras[i]
	rec := models.CourseRecord{
		Name:     courseName(start.text),
		Ranking:  rankFromImage(start.img),
		Comments: []models.Comment{},
	}

	j := i + 1
	available := func() bool {
		return j < len(paras) && !paras[j].start
	}

	for stage := readingLocation; stage != seekingStart; {
		switch stage {
		case readingLocation:
			if available() {
				rec.Location = paras[j].text
				j++
			}
			stage = readingDesigners

		case readingDesigners:
			if available() {
				if d := capture(designersRe, paras[j].text); d != "" {
					rec.Designers = d
				} else {
					rec.Designers = paras[j].text
				}
				j++
			}
			stage = readingStats

		case readingStats:
			if available() {
				rec.AveragePoints = parsePoints(paras[j].text)
				rec.Ranking2022 = capture(statsRanking2022, paras[j].text)
				j++
			}
			stage = readingComments

		case readingComments:
			if available() {
				body := paras[j].marked
				labelled := false
				if idx := strings.Index(body, commentsLabel); idx >= 0 {
					body = body[idx+len(commentsLabel):]
					labelled = true
				}
				if comments := parseAttributions(body); len(comments) > 0 || labelled {
					rec.Comments = append(rec.Comments, comments...)
					j++
					for available() {
						more := parseAttributions(paras[j].marked)
						if len(more) == 0 {
							break
						}
						rec.Comments = append(rec.Comments, more...)
						j++
					}
				}
			}
			stage = matchingImage

		case matchingImage:
			end := math.MaxInt
			for k := j; k < len(paras); k++ {
				if paras[k].start {
					end = paras[k].pos
					break
				}
			}
			if c, ok := captions.take(start.pos, end); ok {
				rec.ArticleImageURL = c.src
				rec.ArticleImageCaption = c.caption
			}
			stage = seekingStart
		}
	}

	log.Debug().
		Str("course", rec.Name).
		Int("paragraphs", j-i).
		Int("comments", len(rec.Comments)).
		Msg("Course read")

	return rec, j
}

// courseName returns the leading upper-case run of text, or all of it
func courseName(text string) string {
	text = strings.TrimSpace(text)
	name := strings.TrimSpace(courseNameRe.FindString(text))
	if countLetters(name) < 2 {
		return text
	}
	return name
}

// rankFromImage reads the course index from the badge file name, taking the
// last run of at most three digits so years are not mistaken for ranks
func rankFromImage(src string) *int {
	if src == "" {
		return nil
	}
	if idx := strings.IndexAny(src, "?#"); idx >= 0 {
		src = src[:idx]
	}
	base := path.Base(src)
	base = strings.TrimSuffix(base, path.Ext(base))

	runs := digitsRe.FindAllString(base, -1)
	for k := len(runs) - 1; k >= 0; k-- {
		if len(runs[k]) > 3 {
			continue
		}
		if n, err := strconv.Atoi(runs[k]); err == nil {
			return &n
		}
	}
	return nil
}

func parsePoints(text string) json.Number {
	raw := capture(pointsRe, text)
	if raw == "" {
		return ""
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}

func compactLower(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			n++
		}
	}
	return n
}
