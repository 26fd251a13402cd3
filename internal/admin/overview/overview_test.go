package overview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"akvapump.com/site-admin/internal/admin/catalog"
	"akvapump.com/site-admin/internal/admin/overview"
)

func sampleTree() []catalog.Entry {
	return []catalog.Entry{
		{
			ID:       catalog.Int64Ptr(10),
			Active:   true,
			ImageURL: "https://cdn/centrifugal.jpg",
			Translations: []catalog.Translation{
				{LangCode: "tr", Title: "Santrifüj Pompalar", Slug: "santrifuj-pompalar-10", SEOTitle: "Santrifüj | Akvapump", Description: "<p>Seri açıklaması</p>"},
				{LangCode: "en", Title: "Centrifugal Pumps", Slug: "centrifugal-pumps-10"},
			},
			Catalogs: []catalog.Attachment{{Name: "Katalog", FileURL: "https://cdn/doc.pdf"}},
			Children: []catalog.Entry{
				{
					ID:     catalog.Int64Ptr(11),
					Active: false,
					Translations: []catalog.Translation{
						{LangCode: "tr", Title: "NK Serisi"},
					},
				},
			},
		},
		{
			ID:     catalog.Int64Ptr(20),
			Active: true,
			Translations: []catalog.Translation{
				{LangCode: "tr", Title: "Dalgıç Pompalar", Slug: "dalgic-pompalar-20", SEODescription: "Dalgıç pompa serisi"},
			},
		},
	}
}

func TestBuildReportCounts(t *testing.T) {
	t.Parallel()

	report := overview.BuildReport(sampleTree())

	require.Equal(t, 3, report.TotalEntries)
	require.Equal(t, 2, report.ActiveEntries)
	require.Equal(t, 1, report.InactiveEntries)
	require.Equal(t, 1, report.ChildEntries)
	require.Equal(t, 1, report.Attachments)
}

func TestBuildReportLanguageCoverage(t *testing.T) {
	t.Parallel()

	report := overview.BuildReport(sampleTree())
	require.Len(t, report.Languages, 2)

	en := report.Languages[0]
	require.Equal(t, "en", en.Lang)
	require.Equal(t, 1, en.Translated)
	require.Equal(t, 1, en.MissingSEO)
	require.Equal(t, 33, en.CoveragePct)

	tr := report.Languages[1]
	require.Equal(t, "tr", tr.Lang)
	require.Equal(t, 3, tr.Translated)
	require.Equal(t, 1, tr.MissingSlug, "the child lacks a Turkish slug")
	require.Equal(t, 1, tr.MissingSEO)
	require.Equal(t, 100, tr.CoveragePct)
}

func TestBuildReportEmpty(t *testing.T) {
	t.Parallel()

	report := overview.BuildReport(nil)
	require.Zero(t, report.TotalEntries)
	require.Empty(t, report.Languages)
}

func TestBuildPreviewFallbacks(t *testing.T) {
	t.Parallel()

	entry := catalog.Entry{
		ImageURL: "https://cdn/entry.jpg",
		Translations: []catalog.Translation{
			{
				LangCode:    "tr",
				Title:       "Santrifüj Pompalar",
				Slug:        "santrifuj-pompalar-10",
				Description: `<p>Endüstriyel santrifüj pompa serisi.</p><img src="https://cdn/inline.jpg">`,
			},
		},
	}

	preview, ok := overview.BuildPreview(entry, "TR")
	require.True(t, ok)
	require.Equal(t, "Santrifüj Pompalar", preview.Title, "SEO title falls back to the entry title")
	require.Equal(t, "Endüstriyel santrifüj pompa serisi.", preview.Description)
	require.Equal(t, "santrifuj-pompalar-10", preview.Slug)
	require.Equal(t, "https://cdn/inline.jpg", preview.Image, "og image falls back to the first inline image")
}

func TestBuildPreviewExplicitSEOWins(t *testing.T) {
	t.Parallel()

	entry := catalog.Entry{
		Translations: []catalog.Translation{
			{
				LangCode:       "en",
				Title:          "Centrifugal Pumps",
				SEOTitle:       "Centrifugal Pumps | Akvapump",
				SEODescription: "Industrial centrifugal range.",
				OGImage:        "https://cdn/og.jpg",
			},
		},
	}

	preview, ok := overview.BuildPreview(entry, "en")
	require.True(t, ok)
	require.Equal(t, "Centrifugal Pumps | Akvapump", preview.Title)
	require.Equal(t, "Industrial centrifugal range.", preview.Description)
	require.Equal(t, "https://cdn/og.jpg", preview.Image)
}

func TestBuildPreviewMissingLanguage(t *testing.T) {
	t.Parallel()

	_, ok := overview.BuildPreview(catalog.Entry{}, "de")
	require.False(t, ok)
}
