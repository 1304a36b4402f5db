package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/law-makers/top100/pkg/models"
)

const maxNameLength = 100

var (
	designersRe   = regexp.MustCompile(`Designers?:\s*(.+)`)
	pointsRe      = regexp.MustCompile(`Average points:\s*(\d+(?:\.\d+)?)`)
	ranking2022Re = regexp.MustCompile(`2022 ranking:\s*(.+)`)
	jsonNumberRe  = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?$`)

	// `"<text>" – <author>` where the author runs to the next opening quote
	// or the end of its attribution markup
	attributionRe     = regexp.MustCompile(`["“]([^"”]+)["”]\s*[–—-]\s*([^"“\x1f]+)`)
	attributionLineRe = regexp.MustCompile(`^["“]([^"”]+)["”]\s*[–—-]\s*(.+)$`)
)

// lineRule classifies one line of a course block. Rules are evaluated in
// order and the first whose match reports true consumes the line; apply only
// fills fields that are still unset.
type lineRule struct {
	field string
	match func(rec *models.CourseRecord, line string) bool
	apply func(rec *models.CourseRecord, line string)
}

var (
	locationRule = lineRule{
		field: "location",
		match: func(rec *models.CourseRecord, line string) bool {
			return rec.Location == "" &&
				strings.Contains(line, ",") &&
				!strings.Contains(line, "Designer") &&
				!strings.Contains(line, "Average") &&
				!strings.Contains(line, "2022")
		},
		apply: func(rec *models.CourseRecord, line string) {
			rec.Location = line
		},
	}

	designersRule = lineRule{
		field: "designers",
		match: func(_ *models.CourseRecord, line string) bool {
			return strings.Contains(line, "Designer:") || strings.Contains(line, "Designers:")
		},
		apply: func(rec *models.CourseRecord, line string) {
			if rec.Designers == "" {
				rec.Designers = capture(designersRe, line)
			}
		},
	}

	pointsRule = lineRule{
		field: "averagePoints",
		match: func(_ *models.CourseRecord, line string) bool {
			return strings.Contains(line, "Average points:")
		},
		apply: func(rec *models.CourseRecord, line string) {
			if rec.AveragePoints == "" {
				rec.AveragePoints = exactPoints(capture(pointsRe, line))
			}
		},
	}

	ranking2022Rule = lineRule{
		field: "ranking2022",
		match: func(_ *models.CourseRecord, line string) bool {
			return strings.Contains(line, "2022 ranking:")
		},
		apply: func(rec *models.CourseRecord, line string) {
			if rec.Ranking2022 == "" {
				rec.Ranking2022 = capture(ranking2022Re, line)
			}
		},
	}

	commentRule = lineRule{
		field: "comments",
		match: func(_ *models.CourseRecord, line string) bool {
			_, ok := parseComment(line)
			return ok
		},
		apply: func(rec *models.CourseRecord, line string) {
			if c, ok := parseComment(line); ok {
				rec.Comments = append(rec.Comments, c)
			}
		},
	}
)

// labelRules are the labelled fields shared by the text and element strategies
var labelRules = []lineRule{designersRule, pointsRule, ranking2022Rule, commentRule}

// textRules lets an unlabelled line with a comma claim the location first
var textRules = append([]lineRule{locationRule}, labelRules...)

// applyRules runs rules against line and reports whether one consumed it
func applyRules(rules []lineRule, rec *models.CourseRecord, line string) bool {
	for _, r := range rules {
		if r.match(rec, line) {
			r.apply(rec, line)
			return true
		}
	}
	return false
}

// capture returns the first submatch of re in s, trimmed
func capture(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// exactPoints keeps the points text as written when it is a valid JSON
// number ("9.50" stays "9.50"). Other digit runs, such as "09.5", are
// rewritten from their parsed value so the report always encodes.
func exactPoints(raw string) json.Number {
	if raw == "" || jsonNumberRe.MatchString(raw) {
		return json.Number(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}

// parseComment reads a quoted line, with an author when it is attributed
func parseComment(line string) (models.Comment, bool) {
	line = strings.TrimSpace(line)
	if m := attributionLineRe.FindStringSubmatch(line); m != nil {
		text := strings.TrimSpace(m[1])
		if text != "" {
			return models.Comment{Text: text, Author: cleanAuthor(m[2])}, true
		}
	}

	if utf8.RuneCountInString(line) < 2 {
		return models.Comment{}, false
	}
	first, _ := utf8.DecodeRuneInString(line)
	last, _ := utf8.DecodeLastRuneInString(line)
	if !isOpenQuote(first) || !isCloseQuote(last) {
		return models.Comment{}, false
	}
	text := strings.TrimSpace(line[utf8.RuneLen(first) : len(line)-utf8.RuneLen(last)])
	if text == "" {
		return models.Comment{}, false
	}
	return models.Comment{Text: text}, true
}

// parseAttributions returns every `"<text>" – <author>` pair in s
func parseAttributions(s string) []models.Comment {
	var comments []models.Comment
	for _, m := range attributionRe.FindAllStringSubmatch(s, -1) {
		text := stripMarks(m[1])
		if text == "" {
			continue
		}
		comments = append(comments, models.Comment{Text: text, Author: cleanAuthor(m[2])})
	}
	return comments
}

func cleanAuthor(s string) string {
	return strings.TrimRight(stripMarks(s), " ,;")
}

func isOpenQuote(r rune) bool {
	return r == '"' || r == '“'
}

func isCloseQuote(r rune) bool {
	return r == '"' || r == '”'
}

// rejectedName reports whether a candidate name is a caption, credit or
// over-long line
func rejectedName(name string) bool {
	return name == "" ||
		utf8.RuneCountInString(name) > maxNameLength ||
		isCredit(name)
}

func isCredit(line string) bool {
	return strings.Contains(line, "©") || strings.Contains(line, "PHOTO:")
}
