package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"akvapump.com/site-admin/internal/admin/catalog"
)

func sibling(id int64, order int, langs ...string) catalog.Entry {
	e := catalog.Entry{ID: catalog.Int64Ptr(id), DisplayOrder: catalog.IntPtr(order)}
	for _, lang := range langs {
		e.Translations = append(e.Translations, catalog.Translation{LangCode: lang, Title: "t"})
	}
	return e
}

func TestPlanMoveDownSwapsAdjacent(t *testing.T) {
	t.Parallel()

	siblings := []catalog.Entry{
		sibling(1, 1, "tr"),
		sibling(2, 2, "tr"),
		sibling(3, 3, "tr"),
	}

	updates, ok := catalog.PlanMove(siblings, 2, catalog.DirectionDown, "tr")
	require.True(t, ok)
	require.Equal(t, []catalog.RankUpdate{
		{ID: 1, DisplayOrder: 1},
		{ID: 3, DisplayOrder: 2},
		{ID: 2, DisplayOrder: 3},
	}, updates)
}

func TestPlanMoveUpSwapsAdjacent(t *testing.T) {
	t.Parallel()

	siblings := []catalog.Entry{
		sibling(1, 1, "tr"),
		sibling(2, 2, "tr"),
		sibling(3, 3, "tr"),
	}

	updates, ok := catalog.PlanMove(siblings, 3, catalog.DirectionUp, "tr")
	require.True(t, ok)
	require.Equal(t, []catalog.RankUpdate{
		{ID: 1, DisplayOrder: 1},
		{ID: 3, DisplayOrder: 2},
		{ID: 2, DisplayOrder: 3},
	}, updates)
}

func TestPlanMoveBoundariesAreNoOps(t *testing.T) {
	t.Parallel()

	siblings := []catalog.Entry{
		sibling(1, 1, "tr"),
		sibling(2, 2, "tr"),
	}

	_, ok := catalog.PlanMove(siblings, 1, catalog.DirectionUp, "tr")
	require.False(t, ok, "moving the first entry up is a no-op")

	_, ok = catalog.PlanMove(siblings, 2, catalog.DirectionDown, "tr")
	require.False(t, ok, "moving the last entry down is a no-op")
}

func TestPlanMoveRanksAreContiguous(t *testing.T) {
	t.Parallel()

	// Sparse, unordered input ranks straight from a backend that was never
	// strict about contiguity.
	siblings := []catalog.Entry{
		sibling(4, 9, "tr"),
		sibling(8, 2, "tr"),
		sibling(6, 5, "tr"),
		sibling(2, 12, "tr"),
	}

	updates, ok := catalog.PlanMove(siblings, 6, catalog.DirectionUp, "tr")
	require.True(t, ok)
	require.Len(t, updates, 4)

	seen := map[int]bool{}
	for i, update := range updates {
		require.Equal(t, i+1, update.DisplayOrder, "the whole set is reassigned 1..N")
		seen[update.DisplayOrder] = true
	}
	require.Len(t, seen, 4)
	require.Equal(t, []catalog.RankUpdate{
		{ID: 6, DisplayOrder: 1},
		{ID: 8, DisplayOrder: 2},
		{ID: 4, DisplayOrder: 3},
		{ID: 2, DisplayOrder: 4},
	}, updates)
}

func TestPlanMoveSkipsSiblingsInvisibleInLanguage(t *testing.T) {
	t.Parallel()

	siblings := []catalog.Entry{
		sibling(1, 1, "tr", "en"),
		sibling(2, 2, "tr"), // invisible in english
		sibling(3, 3, "tr", "en"),
	}

	updates, ok := catalog.PlanMove(siblings, 3, catalog.DirectionUp, "en")
	require.True(t, ok)
	// The tr-only sibling takes no part in the rank computation.
	require.Equal(t, []catalog.RankUpdate{
		{ID: 3, DisplayOrder: 1},
		{ID: 1, DisplayOrder: 2},
	}, updates)
}

func TestPlanMoveIgnoresUnsavedDrafts(t *testing.T) {
	t.Parallel()

	draft := catalog.Entry{
		DisplayOrder: catalog.IntPtr(2),
		Translations: []catalog.Translation{{LangCode: "tr", Title: "Taslak"}},
	}
	siblings := []catalog.Entry{
		sibling(1, 1, "tr"),
		draft, // never saved, has no id yet
		sibling(3, 3, "tr"),
	}

	updates, ok := catalog.PlanMove(siblings, 3, catalog.DirectionUp, "tr")
	require.True(t, ok)
	// The draft holds no backend rank, so it must not leave a gap in the
	// submitted sequence.
	require.Equal(t, []catalog.RankUpdate{
		{ID: 3, DisplayOrder: 1},
		{ID: 1, DisplayOrder: 2},
	}, updates)
}

func TestPlanMoveUnknownTarget(t *testing.T) {
	t.Parallel()

	siblings := []catalog.Entry{sibling(1, 1, "tr")}
	_, ok := catalog.PlanMove(siblings, 99, catalog.DirectionDown, "tr")
	require.False(t, ok)
}

func TestPlanMoveFallsBackToIDOrder(t *testing.T) {
	t.Parallel()

	noOrder := catalog.Entry{ID: catalog.Int64Ptr(7), Translations: []catalog.Translation{{LangCode: "tr", Title: "t"}}}
	siblings := []catalog.Entry{
		noOrder,
		sibling(5, 5, "tr"),
	}

	updates, ok := catalog.PlanMove(siblings, 5, catalog.DirectionDown, "tr")
	require.True(t, ok)
	require.Equal(t, []catalog.RankUpdate{
		{ID: 7, DisplayOrder: 1},
		{ID: 5, DisplayOrder: 2},
	}, updates)
}
