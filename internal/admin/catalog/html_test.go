package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"akvapump.com/site-admin/internal/admin/catalog"
)

func TestSanitizeDescription(t *testing.T) {
	t.Parallel()

	out := catalog.SanitizeDescription(`<p>Safe</p><script>alert(1)</script>`)
	require.Contains(t, out, "<p>Safe</p>")
	require.NotContains(t, out, "script")

	require.Empty(t, catalog.SanitizeDescription(""))
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	html := `<p>Endüstriyel   santrifüj</p><p>pompa serisi geniş debi aralığı sunar.</p>`

	require.Equal(t, "Endüstriyel santrifüj pompa serisi geniş debi aralığı sunar.", catalog.Excerpt(html, 200))
	require.Equal(t, "Endüstriyel santrifüj…", catalog.Excerpt(html, 25))
	require.Empty(t, catalog.Excerpt(html, 0))
	require.Empty(t, catalog.Excerpt("", 50))
}

func TestFirstImageURL(t *testing.T) {
	t.Parallel()

	html := `<p>intro</p><img src=" https://cdn/x.jpg "><img src="https://cdn/y.jpg">`
	require.Equal(t, "https://cdn/x.jpg", catalog.FirstImageURL(html))
	require.Empty(t, catalog.FirstImageURL("<p>no image</p>"))
}
