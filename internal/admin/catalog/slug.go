package catalog

import (
	"strconv"
	"time"

	gslug "github.com/gosimple/slug"
)

// slugNow is swapped out by tests that need deterministic timestamp suffixes.
var slugNow = time.Now

// Slugify lowercases the title, transliterates locale-specific characters to
// ASCII and collapses runs of non-alphanumerics to single hyphens with no
// leading or trailing hyphen. "Ö pompa!!" becomes "o-pompa".
func Slugify(title string) string {
	return gslug.Make(title)
}

// UniqueSlug appends a collision-resistant suffix to the slug base: the
// entry id once persisted, otherwise the current unix-millisecond timestamp.
// The result is never empty, so every saved translation gets a usable slug
// without a global uniqueness lookup.
func UniqueSlug(base string, id *int64) string {
	var suffix string
	if id != nil {
		suffix = strconv.FormatInt(*id, 10)
	} else {
		suffix = strconv.FormatInt(slugNow().UnixMilli(), 10)
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// TranslationSlug derives the slug for a translation that has none: slugified
// title plus the uniqueness suffix.
func TranslationSlug(tr Translation, id *int64) string {
	if tr.Slug != "" {
		return tr.Slug
	}
	return UniqueSlug(Slugify(tr.Title), id)
}
