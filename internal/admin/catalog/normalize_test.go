package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"akvapump.com/site-admin/internal/admin/catalog"
)

func TestNormalizeFieldNamingVariants(t *testing.T) {
	t.Parallel()

	variants := []map[string]any{
		{"id": float64(5), "imageUrl": "x", "active": true, "parentId": float64(2), "displayOrder": float64(3)},
		{"id": float64(5), "image_url": "x", "isActive": true, "parent_id": float64(2), "display_order": float64(3)},
		{"id": float64(5), "image": "x", "parent": map[string]any{"id": float64(2)}, "order": float64(3)},
	}

	first := catalog.Normalize(variants[0])
	for _, raw := range variants[1:] {
		require.Equal(t, first, catalog.Normalize(raw))
	}
	require.Equal(t, "x", first.ImageURL)
	require.True(t, first.Active)
	require.NotNil(t, first.ParentID)
	require.EqualValues(t, 2, *first.ParentID)
	require.NotNil(t, first.DisplayOrder)
	require.Equal(t, 3, *first.DisplayOrder)
}

func TestNormalizePrecedenceOrder(t *testing.T) {
	t.Parallel()

	// First listed candidate wins even when a later variant is also present.
	entry := catalog.Normalize(map[string]any{
		"imageUrl":  "new",
		"image_url": "old",
		"image":     "older",
	})
	require.Equal(t, "new", entry.ImageURL)
}

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	entry := catalog.Normalize(map[string]any{})
	require.Nil(t, entry.ID)
	require.Nil(t, entry.ParentID)
	require.Nil(t, entry.DisplayOrder)
	require.True(t, entry.Active, "absent booleans default to true")
	require.Empty(t, entry.Translations)
}

func TestNormalizeTranslationAndFeatureFallbacks(t *testing.T) {
	t.Parallel()

	entry := catalog.Normalize(map[string]any{
		"translation_list": []any{
			map[string]any{
				"lang_code": "TR",
				"title":     "Pompa",
				"content":   "<p>detay</p>",
				"seo_url":   "pompa-1",
			},
		},
		"feature_list": []any{
			map[string]any{"lang_code": "tr", "feature_name": "Debi", "feature_value": "10 m³/h", "freq": float64(50)},
			map[string]any{"lang_code": "tr", "title": "Gövde", "value": "Çelik"},
		},
		"files": []any{
			map[string]any{"file_name": "Katalog", "file_url": "https://cdn/x.pdf"},
		},
	})

	require.Len(t, entry.Translations, 1)
	tr := entry.Translations[0]
	require.Equal(t, "tr", tr.LangCode, "language codes are canonicalised")
	require.Equal(t, "Pompa", tr.Title)
	require.Equal(t, "<p>detay</p>", tr.Description)
	require.Equal(t, "pompa-1", tr.Slug)

	require.Len(t, entry.Features, 2)
	require.Equal(t, "Debi", entry.Features[0].Name)
	require.NotNil(t, entry.Features[0].Frequency)
	require.Equal(t, 50, *entry.Features[0].Frequency)
	require.Equal(t, "Gövde", entry.Features[1].Name, "feature name falls back through title")
	require.Nil(t, entry.Features[1].Frequency)

	require.Len(t, entry.Catalogs, 1)
	require.Equal(t, "Katalog", entry.Catalogs[0].Name)
}

func TestNormalizeSortsChildren(t *testing.T) {
	t.Parallel()

	entry := catalog.Normalize(map[string]any{
		"id": float64(1),
		"children": []any{
			map[string]any{"id": float64(7)},
			map[string]any{"id": float64(3), "displayOrder": float64(2)},
			map[string]any{"id": float64(9), "displayOrder": float64(1)},
		},
	})

	require.Len(t, entry.Children, 3)
	require.EqualValues(t, 9, *entry.Children[0].ID, "explicit order 1 first")
	require.EqualValues(t, 3, *entry.Children[1].ID)
	require.EqualValues(t, 7, *entry.Children[2].ID, "missing order falls back to id")
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"id":        float64(4),
		"image_url": "img",
		"is_active": false,
		"parent_id": float64(1),
		"order":     float64(2),
		"translation_list": []any{
			map[string]any{"lang": "en-US", "name": "Pump", "ogTitle": "Pump"},
		},
		"children": []any{
			map[string]any{"id": float64(8), "display_order": float64(1)},
		},
	}

	once := catalog.Normalize(raw)

	// Serialise the canonical form back to a raw record and normalise again.
	encoded, err := json.Marshal(once)
	require.NoError(t, err)
	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal(encoded, &roundTrip))

	require.Equal(t, once, catalog.Normalize(roundTrip))
	require.Equal(t, once, catalog.NormalizeEntry(once))
	require.Equal(t, "en", once.Translations[0].LangCode)
}
