package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// The rich-text widget is an opaque collaborator that hands us an HTML
// string; its output is sanitised before it is sent anywhere.
var descriptionPolicy = bluemonday.UGCPolicy()

// SanitizeDescription strips unsafe markup from a rich-text description.
func SanitizeDescription(html string) string {
	if html == "" {
		return ""
	}
	return descriptionPolicy.Sanitize(html)
}

// Excerpt extracts a plain-text excerpt of at most max runes from a rich-text
// description. Used by the SEO preview and the coverage report.
func Excerpt(html string, max int) string {
	if html == "" || max <= 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

// FirstImageURL returns the src of the first image embedded in a rich-text
// description, or empty when there is none. Candidate for the og:image
// preview when the translation sets no explicit one.
func FirstImageURL(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
