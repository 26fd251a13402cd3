// Package overview summarises the catalog tree for the console landing page.
package overview

import (
	"sort"
	"strings"

	"akvapump.com/site-admin/internal/admin/catalog"
)

// Report aggregates catalog health for the console landing page.
type Report struct {
	TotalEntries    int            `json:"totalEntries"`
	ActiveEntries   int            `json:"activeEntries"`
	InactiveEntries int            `json:"inactiveEntries"`
	ChildEntries    int            `json:"childEntries"`
	Attachments     int            `json:"attachments"`
	Languages       []LanguageStat `json:"languages"`
}

// LanguageStat describes translation coverage for one language.
type LanguageStat struct {
	Lang           string `json:"lang"`
	Translated     int    `json:"translated"`
	MissingSlug    int    `json:"missingSlug"`
	MissingSEO     int    `json:"missingSeo"`
	EmptyDesc      int    `json:"emptyDescription"`
	CoveragePct    int    `json:"coveragePct"`
	UntranslatedOf int    `json:"untranslatedOf"`
}

// Preview is how a translation would render as a search or social snippet.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
}

const previewExcerptLimit = 160

// BuildReport walks the catalog tree and aggregates entry and translation
// coverage. Children count toward every total alongside their parents.
func BuildReport(entries []catalog.Entry) Report {
	report := Report{}
	stats := map[string]*LanguageStat{}

	var walk func(e catalog.Entry)
	walk = func(e catalog.Entry) {
		report.TotalEntries++
		if e.Active {
			report.ActiveEntries++
		} else {
			report.InactiveEntries++
		}
		report.Attachments += len(e.Catalogs)

		for _, tr := range e.Translations {
			lang := catalog.CanonicalLang(tr.LangCode)
			if lang == "" {
				continue
			}
			stat, ok := stats[lang]
			if !ok {
				stat = &LanguageStat{Lang: lang}
				stats[lang] = stat
			}
			if strings.TrimSpace(tr.Title) != "" {
				stat.Translated++
			}
			if strings.TrimSpace(tr.Slug) == "" {
				stat.MissingSlug++
			}
			if strings.TrimSpace(tr.SEOTitle) == "" && strings.TrimSpace(tr.SEODescription) == "" {
				stat.MissingSEO++
			}
			if strings.TrimSpace(tr.Description) == "" {
				stat.EmptyDesc++
			}
		}

		for _, child := range e.Children {
			report.ChildEntries++
			walk(child)
		}
	}
	for _, e := range entries {
		walk(e)
	}

	langs := make([]string, 0, len(stats))
	for lang := range stats {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	for _, lang := range langs {
		stat := *stats[lang]
		stat.UntranslatedOf = report.TotalEntries
		if report.TotalEntries > 0 {
			stat.CoveragePct = stat.Translated * 100 / report.TotalEntries
		}
		report.Languages = append(report.Languages, stat)
	}
	return report
}

// BuildPreview renders the snippet for one translation of an entry. The
// description falls back to an excerpt of the rich text, and the image to the
// first one embedded in it.
func BuildPreview(entry catalog.Entry, lang string) (Preview, bool) {
	tr, ok := entry.Translation(catalog.CanonicalLang(lang))
	if !ok {
		return Preview{}, false
	}

	preview := Preview{
		Title: tr.SEOTitle,
		Slug:  tr.Slug,
		Image: tr.OGImage,
	}
	if preview.Title == "" {
		preview.Title = tr.Title
	}
	preview.Description = tr.SEODescription
	if preview.Description == "" {
		preview.Description = catalog.Excerpt(tr.Description, previewExcerptLimit)
	}
	if preview.Image == "" {
		preview.Image = catalog.FirstImageURL(tr.Description)
	}
	if preview.Image == "" {
		preview.Image = entry.ImageURL
	}
	return preview, true
}
