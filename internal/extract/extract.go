package extract

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/pkg/models"
)

// Strategy is the interface every extraction heuristic implements
type Strategy interface {
	// Extract returns the course records found in doc, in document order
	Extract(doc *Document) []models.CourseRecord

	// Name returns the name of the strategy
	Name() string
}

// Options configures the strategies built by NewStrategies
type Options struct {
	ParagraphSelector string
	CaptionSelector   string
	RankMarker        string
}

// NewStrategies builds strategies by name, keeping the given order
func NewStrategies(names []string, opts Options) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		switch name {
		case "walk":
			strategies = append(strategies, Walk{
				ParagraphSelector: opts.ParagraphSelector,
				CaptionSelector:   opts.CaptionSelector,
				RankMarker:        opts.RankMarker,
			})
		case "element":
			strategies = append(strategies, ElementBlocks{})
		case "text":
			strategies = append(strategies, TextBlocks{})
		default:
			return nil, fmt.Errorf("unknown extraction strategy %q", name)
		}
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no extraction strategies configured")
	}
	return strategies, nil
}

// Result is the outcome of a coordinated extraction
type Result struct {
	Strategy string
	Courses  []models.CourseRecord
	Counts   map[string]int
}

// Coordinator runs several strategies over the same document and keeps the
// result with the most records. Ties go to the strategy listed first.
type Coordinator struct {
	strategies []Strategy
}

// NewCoordinator creates a Coordinator over the given strategies
func NewCoordinator(strategies ...Strategy) *Coordinator {
	return &Coordinator{strategies: strategies}
}

// Extract runs every strategy and returns the best result
func (c *Coordinator) Extract(doc *Document) Result {
	best := Result{Courses: []models.CourseRecord{}, Counts: make(map[string]int)}
	found := false

	for _, s := range c.strategies {
		courses := s.Extract(doc)
		best.Counts[s.Name()] = len(courses)

		log.Info().
			Str("strategy", s.Name()).
			Int("courses", len(courses)).
			Msg("Strategy finished")

		if !found || len(courses) > len(best.Courses) {
			best.Strategy = s.Name()
			best.Courses = courses
			found = true
		}
	}

	return best
}
