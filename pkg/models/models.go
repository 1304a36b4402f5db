package models

import (
	"encoding/json"
	"time"
)

// Page represents a rendered page as returned by a loader
type Page struct {
	URL          string    `json:"url"`
	FinalURL     string    `json:"final_url,omitempty"`
	StatusCode   int       `json:"status_code"`
	Title        string    `json:"title,omitempty"`
	HTML         string    `json:"html,omitempty"`
	Loader       string    `json:"loader"`
	FetchedAt    time.Time `json:"fetched_at"`
	ResponseTime int64     `json:"response_time_ms"`
}

// BaseURL returns the URL relative links on the page resolve against
func (p *Page) BaseURL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}

// LoaderMode selects how a page is obtained
type LoaderMode string

const (
	ModeDynamic LoaderMode = "dynamic"
	ModeStatic  LoaderMode = "static"
	ModeFile    LoaderMode = "file"
)

// RequestOptions contains options for loading a page
type RequestOptions struct {
	URL          string
	Mode         LoaderMode
	Headers      map[string]string
	Timeout      time.Duration
	Proxy        string
	WaitSelector string
}

// Comment is an attributed quotation about a course
type Comment struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// CourseRecord is one ranked golf course
type CourseRecord struct {
	Name                string      `json:"name"`
	Ranking             *int        `json:"ranking,omitempty"`
	Location            string      `json:"location,omitempty"`
	Designers           string      `json:"designers,omitempty"`
	AveragePoints       json.Number `json:"averagePoints,omitempty"`
	Ranking2022         string      `json:"ranking2022,omitempty"`
	Comments            []Comment   `json:"comments"`
	ArticleImageURL     string      `json:"articleImageUrl,omitempty"`
	ArticleImageCaption string      `json:"articleImageCaption,omitempty"`
}

// FirstComment returns the first comment text, or "" when there is none
func (c CourseRecord) FirstComment() string {
	if len(c.Comments) == 0 {
		return ""
	}
	return c.Comments[0].Text
}

// ScrapeResult is the output envelope written by the report writer
type ScrapeResult struct {
	Source       string         `json:"source"`
	URL          string         `json:"url"`
	ArticleDate  string         `json:"articleDate,omitempty"`
	ScrapedAt    string         `json:"scrapedAt"`
	TotalCourses int            `json:"totalCourses"`
	Courses      []CourseRecord `json:"courses"`
}
