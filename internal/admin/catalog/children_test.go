package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"akvapump.com/site-admin/internal/admin/catalog"
)

func TestChildWorkflowBeginPersistsUnsavedParent(t *testing.T) {
	t.Parallel()

	static := catalog.NewStaticService()
	store := catalog.NewStore(static, nil)
	wf := catalog.NewChildWorkflow(store)

	parent := store.NewDraft("tr", nil)
	parent.Translations[0].Title = "Vidalı Pompalar"
	store.SetLive(parent)

	child, err := wf.Begin(context.Background(), "token", "tr")
	require.NoError(t, err)
	require.Nil(t, child.ID)
	require.NotNil(t, child.ParentID, "parent must be persisted before the child draft opens")

	saved, ok := store.Live()
	require.True(t, ok)
	require.Equal(t, *saved.ParentID, *child.ParentID)
	require.Nil(t, saved.ID, "the child draft is now the edit session")
}

func TestChildWorkflowBeginReusesPersistedParent(t *testing.T) {
	t.Parallel()

	static := catalog.NewStaticService()
	store := catalog.NewStore(static, nil)
	wf := catalog.NewChildWorkflow(store)

	_, err := store.LoadDetail(context.Background(), "token", 10)
	require.NoError(t, err)

	child, err := wf.Begin(context.Background(), "token", "en")
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	require.EqualValues(t, 10, *child.ParentID)
	require.Equal(t, "en", child.Translations[0].LangCode)
}

func TestChildWorkflowBeginRequiresSession(t *testing.T) {
	t.Parallel()

	store := catalog.NewStore(catalog.NewStaticService(), nil)
	wf := catalog.NewChildWorkflow(store)

	_, err := wf.Begin(context.Background(), "token", "tr")
	require.ErrorIs(t, err, catalog.ErrNoEntryLoaded)
}

func TestChildWorkflowOpenPreservesParentID(t *testing.T) {
	t.Parallel()

	static := catalog.NewStaticService()
	store := catalog.NewStore(static, nil)
	wf := catalog.NewChildWorkflow(store)

	// The backend omits parentId from detail responses; Open records it
	// before loading so the buffer keeps the reference.
	child, err := wf.Open(context.Background(), "token", 10, 11)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	require.EqualValues(t, 10, *child.ParentID)
}

func TestChildWorkflowSaveRefusesOrphan(t *testing.T) {
	t.Parallel()

	store := catalog.NewStore(catalog.NewStaticService(), nil)
	wf := catalog.NewChildWorkflow(store)

	_, err := wf.Save(context.Background(), "token", catalog.Entry{
		Translations: []catalog.Translation{{LangCode: "tr", Title: "Parça"}},
	})
	require.ErrorIs(t, err, catalog.ErrParentNotPersisted)
}

func TestChildWorkflowSaveReloadsParent(t *testing.T) {
	t.Parallel()

	static := catalog.NewStaticService()
	store := catalog.NewStore(static, nil)
	wf := catalog.NewChildWorkflow(store)

	child, err := wf.Begin(context.Background(), "token", "tr")
	require.Error(t, err) // no session yet

	_, err = store.LoadDetail(context.Background(), "token", 10)
	require.NoError(t, err)

	child, err = wf.Begin(context.Background(), "token", "tr")
	require.NoError(t, err)
	child.Translations[0].Title = "Yeni Alt Grup"
	store.SetLive(child)

	saved, err := wf.Save(context.Background(), "token", child)
	require.NoError(t, err)
	require.NotNil(t, saved.ID)

	// After the save the edit buffer holds the reloaded parent, whose
	// children list now includes the new entry.
	parent, ok := store.Live()
	require.True(t, ok)
	require.EqualValues(t, 10, *parent.ID)

	var found bool
	for _, c := range parent.Children {
		if c.ID != nil && *c.ID == *saved.ID {
			found = true
		}
	}
	require.True(t, found, "saved child must appear under the reloaded parent")
}

func TestChildWorkflowDeleteRefreshesParent(t *testing.T) {
	t.Parallel()

	static := catalog.NewStaticService()
	store := catalog.NewStore(static, nil)
	wf := catalog.NewChildWorkflow(store)

	require.NoError(t, wf.Delete(context.Background(), "token", 10, 12))

	parent, ok := store.Live()
	require.True(t, ok)
	require.EqualValues(t, 10, *parent.ID)
	for _, c := range parent.Children {
		require.NotEqualValues(t, 12, *c.ID)
	}
}

func TestChildWorkflowToggleRefreshesParent(t *testing.T) {
	t.Parallel()

	static := catalog.NewStaticService()
	store := catalog.NewStore(static, nil)
	wf := catalog.NewChildWorkflow(store)

	active, err := wf.Toggle(context.Background(), "token", 10, 11)
	require.NoError(t, err)
	require.False(t, active)

	parent, ok := store.Live()
	require.True(t, ok)
	for _, c := range parent.Children {
		if *c.ID == 11 {
			require.False(t, c.Active)
		}
	}
}
