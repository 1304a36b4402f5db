package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/top100/pkg/models"
)

func intPtr(i int) *int { return &i }

func sampleCourses() []models.CourseRecord {
	return []models.CourseRecord{
		{
			Name:          "ROYAL MELBOURNE – WEST",
			Ranking:       intPtr(1),
			Location:      "Black Rock, VIC",
			Designers:     "Alister MacKenzie",
			AveragePoints: json.Number("9.75"),
			Ranking2022:   "1",
			Comments: []models.Comment{
				{Text: "Peerless & timeless", Author: "Ann Lee"},
				{Text: "Second opinion"},
			},
			ArticleImageURL:     "https://www.example.com/rm.jpg",
			ArticleImageCaption: "The 6th hole",
		},
		{
			Name:     "KINGSTON HEATH",
			Comments: []models.Comment{},
		},
	}
}

var testEnvelope = Envelope{
	Source: "Golf Australia Top-100 Courses 2024",
	URL:    "https://www.example.com/feature/top-100/page0",
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 20, 30, 123456789, time.FixedZone("AEDT", 11*3600))
	result := Build(sampleCourses(), testEnvelope, now)

	if result.TotalCourses != 2 || len(result.Courses) != 2 {
		t.Errorf("Expected 2 courses, got %d/%d", result.TotalCourses, len(result.Courses))
	}
	if result.ScrapedAt != "2024-02-29T23:20:30.123Z" {
		t.Errorf("Expected UTC millisecond timestamp, got %s", result.ScrapedAt)
	}
	if result.Source != testEnvelope.Source || result.URL != testEnvelope.URL {
		t.Errorf("Envelope constants not copied: %+v", result)
	}
}

func TestBuild_Empty(t *testing.T) {
	result := Build(nil, testEnvelope, time.Now())
	if result.TotalCourses != 0 || result.Courses == nil {
		t.Errorf("Expected empty non-nil course list, got %#v", result.Courses)
	}
}

func TestSave_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "courses.json")
	result := Build(sampleCourses(), testEnvelope, time.Now())

	if err := Save(result, path, FormatJSON); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  \"source\"") {
		t.Error("Expected two-space indentation")
	}
	if !strings.Contains(string(raw), `"averagePoints": 9.75`) {
		t.Error("Expected averagePoints as a JSON number")
	}
	if !strings.Contains(string(raw), "Peerless & timeless") {
		t.Error("Expected unescaped ampersand")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, ok := decoded["articleDate"]; ok {
		t.Error("Empty articleDate should be omitted")
	}

	courses := decoded["courses"].([]interface{})
	second := courses[1].(map[string]interface{})
	if _, ok := second["comments"]; !ok {
		t.Error("comments must always be present")
	}
	for _, key := range []string{"ranking", "location", "designers", "averagePoints", "ranking2022", "articleImageUrl"} {
		if _, ok := second[key]; ok {
			t.Errorf("Unset field %s should be omitted", key)
		}
	}
}

func TestSave_EmptyResultStillWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := Save(Build(nil, testEnvelope, time.Now()), path, ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var result models.ScrapeResult
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatal(err)
	}
	if result.TotalCourses != 0 || result.Courses == nil {
		t.Errorf("Expected empty courses array, got %+v", result)
	}
	if !strings.Contains(string(raw), `"courses": []`) {
		t.Errorf("Expected an empty courses array in %s", raw)
	}
}

func TestSave_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.csv")
	if err := Save(Build(sampleCourses(), testEnvelope, time.Now()), path, FormatCSV); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "1" || rows[1][6] != "Peerless & timeless" || rows[1][7] != "Ann Lee" {
		t.Errorf("Unexpected first row %v", rows[1])
	}
	if rows[2][0] != "" || rows[2][6] != "" {
		t.Errorf("Unexpected second row %v", rows[2])
	}
}

func TestSave_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.md")
	if err := Save(Build(sampleCourses(), testEnvelope, time.Now()), path, FormatMarkdown); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(raw)

	for _, want := range []string{
		"# Golf Australia",
		"| ROYAL MELBOURNE – WEST |",
		"![The 6th hole](https://www.example.com/rm.jpg)",
		"> Peerless & timeless",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in markdown output:\n%s", want, out)
		}
	}
}

func TestSave_UnknownFormat(t *testing.T) {
	err := Save(Build(nil, testEnvelope, time.Now()), filepath.Join(t.TempDir(), "x"), "xml")
	if err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestPreview(t *testing.T) {
	courses := sampleCourses()
	for i := 0; i < 5; i++ {
		courses = append(courses, models.CourseRecord{Name: "EXTRA", Comments: []models.Comment{}})
	}

	var buf bytes.Buffer
	Preview(&buf, Build(courses, testEnvelope, time.Now()), 5)
	out := buf.String()

	if !strings.Contains(out, "1. ROYAL MELBOURNE – WEST") {
		t.Errorf("Expected first course in preview:\n%s", out)
	}
	if !strings.Contains(out, "Peerless & timeless") {
		t.Error("Expected first comment in preview")
	}
	if strings.Contains(out, "Second opinion") {
		t.Error("Only the first comment should be previewed")
	}
	if strings.Contains(out, "6. ") {
		t.Error("Preview should stop at 5 courses")
	}
}

func TestPreview_NoCourses(t *testing.T) {
	var buf bytes.Buffer
	Preview(&buf, Build(nil, testEnvelope, time.Now()), 5)
	if !strings.Contains(buf.String(), NoCoursesMessage) {
		t.Errorf("Expected warning, got %q", buf.String())
	}
}
