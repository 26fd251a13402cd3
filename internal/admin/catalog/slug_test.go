package catalog

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlugifyTransliterates(t *testing.T) {
	got := Slugify("Ö pompa!!")
	require.Equal(t, "o-pompa", got)
	require.Regexp(t, regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`), got)
}

func TestSlugifyCollapsesSeparators(t *testing.T) {
	require.Equal(t, "santrifuj-pompa-serisi", Slugify("  Santrifüj   pompa / serisi "))
}

func TestUniqueSlugWithPersistedID(t *testing.T) {
	id := int64(7)
	require.Equal(t, "pump-7", UniqueSlug("pump", &id))
	require.Equal(t, "7", UniqueSlug("", &id), "empty base still yields a usable slug")
}

func TestUniqueSlugWithoutIDUsesTimestamp(t *testing.T) {
	times := []time.Time{
		time.UnixMilli(1700000000001),
		time.UnixMilli(1700000000002),
	}
	idx := 0
	restore := slugNow
	slugNow = func() time.Time {
		ts := times[idx]
		idx++
		return ts
	}
	t.Cleanup(func() { slugNow = restore })

	first := UniqueSlug("pump", nil)
	second := UniqueSlug("pump", nil)
	require.Equal(t, "pump-1700000000001", first)
	require.Equal(t, "pump-1700000000002", second)
	require.NotEqual(t, first, second)
}

func TestTranslationSlugKeepsExisting(t *testing.T) {
	id := int64(3)
	tr := Translation{Title: "Pump A", Slug: "custom"}
	require.Equal(t, "custom", TranslationSlug(tr, &id))

	tr.Slug = ""
	require.Equal(t, "pump-a-3", TranslationSlug(tr, &id))
}
