package web

import (
	"regexp"
	"strings"
)

// boilerplateLine matches short lines that are navigation, legal or promotional chrome.
var boilerplateLine = regexp.MustCompile(`(?i)^(.{0,40}\b)?(cookie policy|privacy policy|terms of (service|use)|subscribe to|follow us|all rights reserved|sign up for|accept (all )?cookies|skip to (main )?content|share this)`)

// copyrightLine matches footer notices such as "© 2024 Example Corp" but not prose about copyright.
var copyrightLine = regexp.MustCompile(`(?i)^(.{0,40}\s)?(copyright|©)\s*(\(c\)\s*)?((19|20)\d{2}\b|.{0,60}all rights reserved)`)

// boilerplatePhrase removes leftover chrome inside longer lines.
var boilerplatePhrase = regexp.MustCompile(`(?i)(cookie policy|privacy policy|terms of (service|use)|all rights reserved)[.:]?`)

const maxBoilerplateLine = 200

// CleanText drops boilerplate lines and phrases and collapses whitespace into single spaces.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = collapseSpaces(line)
		if line == "" {
			continue
		}
		if len(line) <= maxBoilerplateLine && (boilerplateLine.MatchString(line) || copyrightLine.MatchString(line)) {
			continue
		}
		kept = append(kept, line)
	}

	joined := strings.Join(kept, " ")
	joined = boilerplatePhrase.ReplaceAllString(joined, "")
	return collapseSpaces(joined)
}

// Truncate cuts s to at most maxChars runes.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
