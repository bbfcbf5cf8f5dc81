package entity

import (
	"net/url"
	"strings"
)

type SearchResult struct {
	Title     string
	URL       string
	Snippet   string
	Domain    string
	Rank      int
	Simulated bool
}

type Page struct {
	URL   string
	Title string
	Text  string
}

type ExtractedSource struct {
	URL       string
	Domain    string
	Title     string
	Snippet   string
	Text      string
	Relevance float64
	Rank      int
}

// DomainOf returns the lower-cased host of rawURL without a leading "www.".
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
