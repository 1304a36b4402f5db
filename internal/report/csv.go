package report

import (
	"bytes"
	"encoding/csv"

	"github.com/law-makers/top100/pkg/models"
)

var csvHeader = []string{
	"ranking", "name", "location", "designers", "averagePoints", "ranking2022",
	"comment", "commentAuthor", "articleImageUrl", "articleImageCaption",
}

// encodeCSV writes one row per course with its first comment only
func encodeCSV(result models.ScrapeResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, c := range result.Courses {
		var comment models.Comment
		if len(c.Comments) > 0 {
			comment = c.Comments[0]
		}
		row := []string{
			rankingText(c.Ranking),
			c.Name,
			c.Location,
			c.Designers,
			string(c.AveragePoints),
			c.Ranking2022,
			comment.Text,
			comment.Author,
			c.ArticleImageURL,
			c.ArticleImageCaption,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
