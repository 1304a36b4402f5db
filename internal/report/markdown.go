package report

import (
	"bytes"
	"fmt"
	"html/template"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/law-makers/top100/pkg/models"
)

var markdownTemplate = template.Must(template.New("report").Parse(`<h1>{{.Source}}</h1>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>{{if .ArticleDate}}Published {{.ArticleDate}}. {{end}}Scraped {{.ScrapedAt}}. {{.TotalCourses}} courses.</p>
{{if .Courses}}<table>
<thead><tr><th>#</th><th>Course</th><th>Location</th><th>Designers</th><th>Avg points</th><th>2022</th></tr></thead>
<tbody>
{{range .Courses}}<tr><td>{{with .Ranking}}{{.}}{{end}}</td><td>{{.Name}}</td><td>{{.Location}}</td><td>{{.Designers}}</td><td>{{.AveragePoints}}</td><td>{{.Ranking2022}}</td></tr>
{{end}}</tbody>
</table>
{{range .Courses}}{{$c := .}}{{if or .Comments .ArticleImageURL}}<h2>{{.Name}}</h2>
{{with .ArticleImageURL}}<p><img src="{{.}}" alt="{{$c.ArticleImageCaption}}"></p>{{end}}
{{range .Comments}}<blockquote><p>{{.Text}}{{with .Author}} <em>({{.}})</em>{{end}}</p></blockquote>
{{end}}{{end}}{{end}}{{end}}`))

// encodeMarkdown renders result as an HTML report and converts it to
// GitHub-flavoured Markdown
func encodeMarkdown(result models.ScrapeResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	// Course images carry their caption as alt text
	converter.AddRules(md.Rule{
		Filter: []string{"img"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			src, ok := selec.Attr("src")
			if !ok || src == "" {
				return nil
			}
			alt, _ := selec.Attr("alt")
			str := fmt.Sprintf("![%s](%s)", alt, src)
			return &str
		},
	})

	out, err := converter.ConvertString(buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to convert report: %w", err)
	}
	return []byte(out + "\n"), nil
}
