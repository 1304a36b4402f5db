package extract

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/law-makers/top100/pkg/models"
)

type fixedStrategy struct {
	name  string
	count int
}

func (f fixedStrategy) Name() string { return f.name }

func (f fixedStrategy) Extract(doc *Document) []models.CourseRecord {
	records := make([]models.CourseRecord, f.count)
	for i := range records {
		records[i] = models.CourseRecord{Name: f.name, Comments: []models.Comment{}}
	}
	return records
}

func TestCoordinator_PicksMostRecords(t *testing.T) {
	doc := newTestDocument(t, `<body></body>`)

	tests := []struct {
		name       string
		strategies []Strategy
		want       string
		count      int
	}{
		{
			name:       "largest wins",
			strategies: []Strategy{fixedStrategy{"walk", 1}, fixedStrategy{"element", 3}, fixedStrategy{"text", 2}},
			want:       "element",
			count:      3,
		},
		{
			name:       "tie goes to first",
			strategies: []Strategy{fixedStrategy{"walk", 2}, fixedStrategy{"element", 2}, fixedStrategy{"text", 1}},
			want:       "walk",
			count:      2,
		},
		{
			name:       "all empty",
			strategies: []Strategy{fixedStrategy{"walk", 0}, fixedStrategy{"text", 0}},
			want:       "walk",
			count:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewCoordinator(tt.strategies...).Extract(doc)
			if res.Strategy != tt.want {
				t.Errorf("Expected strategy %s, got %s", tt.want, res.Strategy)
			}
			if len(res.Courses) != tt.count {
				t.Errorf("Expected %d courses, got %d", tt.count, len(res.Courses))
			}
			if len(res.Counts) != len(tt.strategies) {
				t.Errorf("Expected a count per strategy, got %v", res.Counts)
			}
		})
	}
}

func TestNewStrategies(t *testing.T) {
	strategies, err := NewStrategies([]string{"text", "walk"}, Options{RankMarker: "font-size:24px"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(strategies) != 2 || strategies[0].Name() != "text" || strategies[1].Name() != "walk" {
		t.Errorf("Unexpected strategies %v", strategies)
	}

	if _, err := NewStrategies([]string{"magic"}, Options{}); err == nil {
		t.Error("Expected error for unknown strategy")
	}
	if _, err := NewStrategies(nil, Options{}); err == nil {
		t.Error("Expected error for empty strategy list")
	}
}

const articleHTML = `<html><head><title>Ranking Australia's Top-100 Courses for 2024</title></head><body>
<p>The panel's verdict is in.</p>
<p style="font-size:24px"><img src="/top100/rank-1.png">ROYAL MELBOURNE – WEST</p>
<p>Black Rock, VIC</p>
<p>Designer: Alister MacKenzie</p>
<p>Average points: 9.75. 2022 ranking: 1.</p>
<p>"Peerless" – <em>Ann Lee</em></p>
<figure><img src="/photos/rm.jpg"><figcaption>The 6th hole</figcaption></figure>
<p style="font-size:24px"><img src="/top100/rank-2.png">KINGSTON HEATH</p>
<p>Cheltenham, VIC</p>
<p>Designers: Dan Soutar &amp; Alister MacKenzie</p>
<p>Average points: 9.5. 2022 ranking: 2.</p>
<p>"Immaculate" – <em>Tom Ramsey</em></p>
<p style="font-size:24px"><img src="/top100/rank-3.png">BARNBOUGLE DUNES</p>
<p>Bridport, TAS</p>
<p>Designer: Tom Doak</p>
<p>Average points: 9.25. 2022 ranking: 3.</p>
<p>Advertisement</p>
</body></html>`

func TestCoordinator_DefaultOrderOnArticle(t *testing.T) {
	doc := newTestDocument(t, articleHTML)
	strategies, err := NewStrategies([]string{"walk", "element", "text"}, Options{
		ParagraphSelector: "p",
		CaptionSelector:   "figure",
		RankMarker:        "font-size:24px",
	})
	if err != nil {
		t.Fatal(err)
	}

	res := NewCoordinator(strategies...).Extract(doc)
	if res.Strategy != "walk" {
		t.Errorf("Expected walk strategy, got %s (counts %v)", res.Strategy, res.Counts)
	}
	if len(res.Courses) != 3 {
		t.Fatalf("Expected 3 courses, got %d", len(res.Courses))
	}

	for i, rec := range res.Courses {
		if rec.Ranking == nil || *rec.Ranking != i+1 {
			t.Errorf("Course %d: expected ranking %d, got %v", i, i+1, rec.Ranking)
		}
	}
	if res.Courses[0].ArticleImageCaption != "The 6th hole" {
		t.Errorf("Expected caption on first course, got %q", res.Courses[0].ArticleImageCaption)
	}
	if res.Courses[1].ArticleImageURL != "" {
		t.Errorf("Second course should have no image, got %q", res.Courses[1].ArticleImageURL)
	}
}

func TestExtraction_Idempotent(t *testing.T) {
	strategies := []Strategy{testWalk(), ElementBlocks{}, TextBlocks{}}

	for _, s := range strategies {
		first, err := json.Marshal(s.Extract(newTestDocument(t, articleHTML)))
		if err != nil {
			t.Fatal(err)
		}
		second, err := json.Marshal(s.Extract(newTestDocument(t, articleHTML)))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: extraction is not deterministic", s.Name())
		}
	}
}
