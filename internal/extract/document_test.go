package extract

import (
	"testing"

	"github.com/law-makers/top100/pkg/models"
)

func TestNewDocument_Text(t *testing.T) {
	html := `<html><head><title>Top 100</title><style>p { color: red }</style></head>
<body>
	<p>Hello <b>big</b>
	   world</p>
	<script>var hidden = "Designer: nobody";</script>
	<div>Line one<br>Line&nbsp;&nbsp;two</div>
	<ul><li>First</li><li>Second</li></ul>
</body></html>`

	doc := newTestDocument(t, html)

	want := "Hello big world\nLine one\nLine two\nFirst\nSecond"
	if doc.Text != want {
		t.Errorf("Expected text %q, got %q", want, doc.Text)
	}
	if doc.Title != "Top 100" {
		t.Errorf("Expected title 'Top 100', got '%s'", doc.Title)
	}
}

func TestNewDocument_NilPage(t *testing.T) {
	if _, err := NewDocument(nil); err == nil {
		t.Error("Expected error for nil page")
	}
}

func TestDocument_PositionFollowsDocumentOrder(t *testing.T) {
	doc := newTestDocument(t, `<body><p id="a">A</p><figure id="b"></figure><p id="c">C</p></body>`)

	a := doc.Position(doc.Find("#a").Nodes[0])
	b := doc.Position(doc.Find("#b").Nodes[0])
	c := doc.Position(doc.Find("#c").Nodes[0])

	if !(a < b && b < c) {
		t.Errorf("Expected increasing positions, got a=%d b=%d c=%d", a, b, c)
	}

	other := newTestDocument(t, `<body><p>x</p></body>`)
	if pos := doc.Position(other.Find("p").Nodes[0]); pos != -1 {
		t.Errorf("Expected -1 for a node of another document, got %d", pos)
	}
}

func TestDocument_MarkedText(t *testing.T) {
	doc := newTestDocument(t, `<body><p>"Fine" – <em>A. Critic</em>, judge</p></body>`)
	got := doc.markedText(doc.Find("p").Nodes[0])
	want := "\"Fine\" – A. Critic\x1f, judge"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDocument_BaseURLUsesFinalURL(t *testing.T) {
	doc, err := NewDocument(&models.Page{URL: "https://a.example/x", FinalURL: "https://b.example/y", HTML: "<p>x</p>"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.URL != "https://b.example/y" {
		t.Errorf("Expected final URL, got %s", doc.URL)
	}
}
