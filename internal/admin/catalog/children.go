package catalog

import (
	"context"
	"fmt"
)

// ChildWorkflow orchestrates the child-entry lifecycle. A child may only
// reference a parent that is already persisted, so beginning a child edit on
// an unsaved parent forces the parent through Save first. Every child
// mutation ends with a parent detail reload so the children list reflects
// backend truth.
type ChildWorkflow struct {
	store *Store
}

// NewChildWorkflow wraps the store with the child-entry rules.
func NewChildWorkflow(store *Store) *ChildWorkflow {
	return &ChildWorkflow{store: store}
}

// Begin opens an edit session for a new child of the currently edited entry.
// When that parent has no backend id yet it is saved first; the child form
// only opens once the save resolves with a non-nil id.
func (w *ChildWorkflow) Begin(ctx context.Context, token, lang string) (Entry, error) {
	parent, ok := w.store.Live()
	if !ok {
		return Entry{}, ErrNoEntryLoaded
	}
	if parent.ID == nil {
		saved, err := w.store.Save(ctx, token, parent)
		if err != nil {
			return Entry{}, fmt.Errorf("catalog: persist parent before child: %w", err)
		}
		if saved.ID == nil {
			return Entry{}, ErrParentNotPersisted
		}
		parent = saved
	}
	return w.store.NewDraft(lang, parent.ID), nil
}

// Open loads an existing child into the edit buffer. The parent id is
// recorded up front so it survives a detail response that omits it.
func (w *ChildWorkflow) Open(ctx context.Context, token string, parentID, childID int64) (Entry, error) {
	w.store.RememberParent(parentID)
	return w.store.LoadDetail(ctx, token, childID)
}

// Save persists the child with its parent reference fixed, then reloads the
// parent so its children list is refreshed from the backend.
func (w *ChildWorkflow) Save(ctx context.Context, token string, child Entry) (Entry, error) {
	if child.ParentID == nil {
		return Entry{}, ErrParentNotPersisted
	}
	saved, err := w.store.Save(ctx, token, child)
	if err != nil {
		return Entry{}, err
	}
	if _, err := w.store.LoadDetail(ctx, token, *child.ParentID); err != nil {
		return saved, err
	}
	return saved, nil
}

// Delete removes a child and refreshes the parent.
func (w *ChildWorkflow) Delete(ctx context.Context, token string, parentID, childID int64) error {
	if err := w.store.Remove(ctx, token, childID); err != nil {
		return err
	}
	_, err := w.store.LoadDetail(ctx, token, parentID)
	return err
}

// Toggle flips a child's active flag and refreshes the parent.
func (w *ChildWorkflow) Toggle(ctx context.Context, token string, parentID, childID int64) (bool, error) {
	active, err := w.store.ToggleActive(ctx, token, childID)
	if err != nil {
		return false, err
	}
	if _, err := w.store.LoadDetail(ctx, token, parentID); err != nil {
		return active, err
	}
	return active, nil
}
