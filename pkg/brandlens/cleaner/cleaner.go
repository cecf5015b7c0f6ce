// Package cleaner normalizes raw mention text before sentiment scoring and
// embedding. Social posts arrive with markup, links, and emoji that only add
// noise downstream.
package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var urlRe = regexp.MustCompile(`https?://\S+|www\.\S+`)

// StripMarkup removes HTML tags and returns the concatenated text content.
// Malformed input is returned as-is rather than dropped.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return buf.String()
}

// Clean runs the full normalization: markup stripped, URLs removed, emoji and
// other symbols dropped, lowercased, whitespace collapsed.
func Clean(s string) string {
	s = StripMarkup(s)
	s = urlRe.ReplaceAllString(s, " ")
	s = strings.ToLower(s)

	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			buf.WriteRune(r)
		case unicode.IsSpace(r):
			buf.WriteRune(' ')
		case r == '\'' || r == '-':
			// Keep contractions and hyphenated terms intact.
			buf.WriteRune(r)
		case unicode.IsPunct(r):
			// Punctuation becomes a boundary so "fast.shipping" splits.
			buf.WriteRune(' ')
		}
		// Emoji, symbols, and control runes are dropped.
	}

	return strings.Join(strings.Fields(buf.String()), " ")
}
