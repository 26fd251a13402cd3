package catalog

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Field precedence tables for the historical naming conventions the backend
// has shipped over time. The first key present in the raw record wins.
var (
	entryIDKeys       = []string{"id", "entryId", "entry_id"}
	entryImageKeys    = []string{"imageUrl", "image_url", "image"}
	entryActiveKeys   = []string{"active", "isActive", "is_active"}
	entryParentKeys   = []string{"parentId", "parent_id"}
	entryOrderKeys    = []string{"displayOrder", "display_order", "order"}
	translationsKeys  = []string{"translations", "translationList", "translation_list"}
	featuresKeys      = []string{"features", "featureList", "feature_list"}
	catalogsKeys      = []string{"catalogs", "catalogFiles", "catalog_files", "files"}
	childrenKeys      = []string{"children", "childList", "child_list", "subEntries"}
	langCodeKeys      = []string{"langCode", "lang_code", "lang", "locale"}
	trTitleKeys       = []string{"title", "name"}
	trDescriptionKeys = []string{"description", "content"}
	trSlugKeys        = []string{"slug", "seoUrl", "seo_url"}
	trSEOTitleKeys    = []string{"seoTitle", "seo_title"}
	trSEODescKeys     = []string{"seoDescription", "seo_description"}
	trSEOKeywordsKeys = []string{"seoKeywords", "seo_keywords"}
	trOGTitleKeys     = []string{"seoOgTitle", "seo_og_title", "ogTitle"}
	trOGDescKeys      = []string{"seoOgDescription", "seo_og_description", "ogDescription"}
	trOGImageKeys     = []string{"seoOgImage", "seo_og_image", "ogImage"}
	featureNameKeys   = []string{"name", "featureName", "feature_name", "title"}
	featureValueKeys  = []string{"value", "featureValue", "feature_value"}
	featureFreqKeys   = []string{"frequency", "freq", "groupNo", "group_no"}
	attachmentName    = []string{"name", "fileName", "file_name", "title"}
	attachmentURL     = []string{"fileUrl", "file_url", "url"}
)

// Normalize maps an arbitrarily shaped backend record onto the canonical
// Entry. It is a pure function: absent numeric fields come back nil, absent
// booleans default to true, children are normalised recursively and sorted by
// display order (falling back to id). Applying it twice yields the same
// result.
func Normalize(raw map[string]any) Entry {
	entry := Entry{
		ID:           pickInt64(raw, entryIDKeys),
		ImageURL:     pickString(raw, entryImageKeys),
		Active:       pickBool(raw, entryActiveKeys, true),
		ParentID:     pickParentID(raw),
		DisplayOrder: pickInt(raw, entryOrderKeys),
	}

	for _, item := range pickList(raw, translationsKeys) {
		entry.Translations = append(entry.Translations, normalizeTranslation(item))
	}
	for _, item := range pickList(raw, featuresKeys) {
		entry.Features = append(entry.Features, normalizeFeature(item))
	}
	for _, item := range pickList(raw, catalogsKeys) {
		entry.Catalogs = append(entry.Catalogs, Attachment{
			Name:    pickString(item, attachmentName),
			FileURL: pickString(item, attachmentURL),
		})
	}
	for _, item := range pickList(raw, childrenKeys) {
		entry.Children = append(entry.Children, Normalize(item))
	}
	SortSiblings(entry.Children)
	return entry
}

// NormalizeEntry re-applies the canonical ordering and language codes to an
// already-decoded Entry, e.g. a save response that came back in canonical
// shape.
func NormalizeEntry(entry Entry) Entry {
	out := entry.Clone()
	for i := range out.Translations {
		out.Translations[i].LangCode = CanonicalLang(out.Translations[i].LangCode)
	}
	for i := range out.Features {
		out.Features[i].LangCode = CanonicalLang(out.Features[i].LangCode)
	}
	for i := range out.Children {
		out.Children[i] = NormalizeEntry(out.Children[i])
	}
	SortSiblings(out.Children)
	return out
}

// SortSiblings orders a sibling slice by display order, falling back to id
// when the order is absent, with ties broken by id.
func SortSiblings(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ki, kj := orderKey(entries[i]), orderKey(entries[j])
		if ki != kj {
			return ki < kj
		}
		return idKey(entries[i]) < idKey(entries[j])
	})
}

// CanonicalLang lowercases and canonicalises a language code to its BCP-47
// base ("TR" and "tr-TR" both become "tr"). Unparseable codes are kept
// lowercased so no translation is silently dropped.
func CanonicalLang(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return strings.ToLower(raw)
	}
	return base.String()
}

func normalizeTranslation(raw map[string]any) Translation {
	return Translation{
		LangCode:       CanonicalLang(pickString(raw, langCodeKeys)),
		Title:          pickString(raw, trTitleKeys),
		Description:    pickString(raw, trDescriptionKeys),
		Slug:           pickString(raw, trSlugKeys),
		SEOTitle:       pickString(raw, trSEOTitleKeys),
		SEODescription: pickString(raw, trSEODescKeys),
		SEOKeywords:    pickString(raw, trSEOKeywordsKeys),
		OGTitle:        pickString(raw, trOGTitleKeys),
		OGDescription:  pickString(raw, trOGDescKeys),
		OGImage:        pickString(raw, trOGImageKeys),
	}
}

func normalizeFeature(raw map[string]any) Feature {
	return Feature{
		LangCode:  CanonicalLang(pickString(raw, langCodeKeys)),
		Name:      pickString(raw, featureNameKeys),
		Value:     pickString(raw, featureValueKeys),
		Frequency: pickInt(raw, featureFreqKeys),
	}
}

func orderKey(e Entry) int64 {
	if e.DisplayOrder != nil {
		return int64(*e.DisplayOrder)
	}
	if e.ID != nil {
		return *e.ID
	}
	return math.MaxInt64
}

func idKey(e Entry) int64 {
	if e.ID != nil {
		return *e.ID
	}
	return math.MaxInt64
}

// pickParentID resolves the parent reference, which historically appeared as
// a flat field or nested under a "parent" object.
func pickParentID(raw map[string]any) *int64 {
	if v := pickInt64(raw, entryParentKeys); v != nil {
		return v
	}
	if parent, ok := raw["parent"].(map[string]any); ok {
		return pickInt64(parent, entryIDKeys)
	}
	return nil
}

func pickString(raw map[string]any, keys []string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func pickBool(raw map[string]any, keys []string, fallback bool) bool {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

func pickInt64(raw map[string]any, keys []string) *int64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := numeric(v); ok {
			return &n
		}
	}
	return nil
}

func pickInt(raw map[string]any, keys []string) *int {
	if v := pickInt64(raw, keys); v != nil {
		n := int(*v)
		return &n
	}
	return nil
}

func pickList(raw map[string]any, keys []string) []map[string]any {
	for _, key := range keys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// numeric coerces the value types encoding/json may hand back for an integer
// field. Strings holding digits are accepted because one backend revision
// serialised ids that way.
func numeric(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
