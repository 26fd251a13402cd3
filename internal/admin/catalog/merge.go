package catalog

// BuildSavePayload assembles the outgoing entry for a save. Translations are
// merged field by field against the pristine snapshot so a language that was
// loaded but never touched in this edit session goes back out exactly as it
// came in. Features, catalogs and children pass through from the live buffer
// as-is; children are stamped with the saving entry's id as their parent.
func BuildSavePayload(live, pristine Entry) Entry {
	out := live.Clone()
	out.Translations = make([]Translation, len(live.Translations))
	for i, tr := range live.Translations {
		fallback, _ := pristine.Translation(tr.LangCode)
		out.Translations[i] = mergeTranslation(tr, fallback, live.ID)
	}
	for i := range out.Children {
		out.Children[i].ParentID = cloneInt64(live.ID)
	}
	return out
}

// mergeTranslation takes the live value per field when non-empty, else the
// pristine value, else the empty string. Slugs still empty after the fallback
// are derived from the merged title.
//
// Only an edited description is sanitised. A description that matches the
// snapshot, or that falls back to it, is editor-untouched content already
// stored on the backend and must round-trip byte for byte.
func mergeTranslation(live, pristine Translation, id *int64) Translation {
	merged := Translation{
		LangCode:       live.LangCode,
		Title:          firstNonEmpty(live.Title, pristine.Title),
		Description:    mergeDescription(live.Description, pristine.Description),
		Slug:           firstNonEmpty(live.Slug, pristine.Slug),
		SEOTitle:       firstNonEmpty(live.SEOTitle, pristine.SEOTitle),
		SEODescription: firstNonEmpty(live.SEODescription, pristine.SEODescription),
		SEOKeywords:    firstNonEmpty(live.SEOKeywords, pristine.SEOKeywords),
		OGTitle:        firstNonEmpty(live.OGTitle, pristine.OGTitle),
		OGDescription:  firstNonEmpty(live.OGDescription, pristine.OGDescription),
		OGImage:        firstNonEmpty(live.OGImage, pristine.OGImage),
	}
	if merged.Slug == "" {
		merged.Slug = UniqueSlug(Slugify(merged.Title), id)
	}
	return merged
}

func mergeDescription(live, pristine string) string {
	if live == "" {
		return pristine
	}
	if live == pristine {
		return pristine
	}
	return SanitizeDescription(live)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
