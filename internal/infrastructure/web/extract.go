package web

import (
	"strings"

	"golang.org/x/net/html"
)

type CleanConfig struct {
	TagsToRemove []string
	// MarkersToRemove drops elements whose class or id contains any of these substrings.
	MarkersToRemove []string
}

var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe", "canvas", "template",
		"link", "meta", "head", "nav", "header", "footer", "aside", "form", "button",
	},
	MarkersToRemove: []string{
		"cookie", "consent", "banner", "newsletter", "subscribe", "share", "social",
		"advert", "breadcrumb", "sidebar", "menu", "related",
	},
}

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "tr": true, "table": true, "blockquote": true,
	"pre": true, "dd": true, "dt": true, "figcaption": true,
}

// ExtractText parses rawHTML and returns the page title and the readable text of its main
// content, one block per line.
func ExtractText(rawHTML string, cfg *CleanConfig) (string, string, error) {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", "", err
	}

	title := ""
	if t := findFirst(doc, func(n *html.Node) bool { return n.Data == "title" }); t != nil {
		title = collapseSpaces(nodeText(t))
	}

	root := contentRoot(doc)
	cleanNode(root, cfg)

	var sb strings.Builder
	renderText(root, &sb)

	return title, sb.String(), nil
}

// contentRoot prefers <article>, then <main> or role=main, then <body>.
func contentRoot(doc *html.Node) *html.Node {
	if n := findFirst(doc, func(n *html.Node) bool { return n.Data == "article" }); n != nil {
		return n
	}
	if n := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "main" || attr(n, "role") == "main"
	}); n != nil {
		return n
	}
	if n := findFirst(doc, func(n *html.Node) bool { return n.Data == "body" }); n != nil {
		return n
	}
	return doc
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// cleanNode removes comments, unwanted tags and boilerplate containers below n.
func cleanNode(n *html.Node, cfg *CleanConfig) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && (isOneOf(c.Data, cfg.TagsToRemove...) || hasMarker(c, cfg.MarkersToRemove)):
			n.RemoveChild(c)
		default:
			cleanNode(c, cfg)
		}
		c = next
	}
}

func hasMarker(n *html.Node, markers []string) bool {
	if len(markers) == 0 {
		return false
	}
	ident := strings.ToLower(attr(n, "class") + " " + attr(n, "id"))
	if strings.TrimSpace(ident) == "" {
		return false
	}
	for _, m := range markers {
		if strings.Contains(ident, m) {
			return true
		}
	}
	return false
}

func renderText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(c, sb)
	}
	if block {
		sb.WriteString("\n")
	}
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
