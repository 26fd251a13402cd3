package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Store owns the in-memory entry list and the single edit session: the live
// buffer the editor mutates and the pristine snapshot of the entry as last
// fetched, kept so untouched-language data can be recovered at save time.
//
// Every mutating call is followed by a reload before the console is
// considered consistent; the store never trusts its own optimistic patch as
// final truth because the backend may silently adjust ranks and parent ids.
// The mutex only protects buffer integrity: editing is single-editor,
// last-write-wins, and a second mutation issued while one is in flight is a
// race the store does not arbitrate.
type Store struct {
	svc Service
	log *zap.Logger

	mu       sync.Mutex
	entries  []Entry
	live     *Entry
	pristine *Entry

	// preservedParentID compensates for a long-standing backend omission:
	// detail and save responses sometimes drop parentId. The last known
	// non-nil value from the current edit session is substituted so a child
	// entry never silently becomes top-level.
	preservedParentID *int64
}

// NewStore constructs a Store over the given backend service.
func NewStore(svc Service, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{svc: svc, log: log}
}

// LoadList fetches all entries, normalises them and sorts every sibling set
// by display order (ties by id).
func (s *Store) LoadList(ctx context.Context, token string) ([]Entry, error) {
	raw, err := s.svc.List(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", ErrLoadFailed, err)
	}
	entries := make([]Entry, 0, len(raw))
	for _, record := range raw {
		entries = append(entries, Normalize(record))
	}
	SortSiblings(entries)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.log.Debug("catalog list loaded", zap.Int("entries", len(entries)))
	return cloneEntries(entries), nil
}

// Entries returns the last loaded entry list.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries)
}

// LoadDetail fetches one entry, normalises it, derives missing translation
// slugs and opens an edit session for it: the live buffer and a deep-copied
// pristine snapshot both hold the fetched state. When the backend response
// omits parentId the value preserved from the current session is substituted.
func (s *Store) LoadDetail(ctx context.Context, token string, id int64) (Entry, error) {
	raw, err := s.svc.Detail(ctx, token, id)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: detail %d: %w", ErrLoadFailed, id, err)
	}
	entry := Normalize(raw)
	deriveSlugs(&entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreParentID(&entry)
	s.openSession(entry)
	return entry.Clone(), nil
}

// NewDraft starts an edit session for a not-yet-persisted entry carrying one
// empty translation for the active language. ParentID is nil for a top-level
// draft.
func (s *Store) NewDraft(lang string, parentID *int64) Entry {
	draft := Entry{
		Active:       true,
		ParentID:     cloneInt64(parentID),
		Translations: []Translation{{LangCode: CanonicalLang(lang)}},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if parentID != nil {
		s.preservedParentID = cloneInt64(parentID)
	}
	s.openSession(draft)
	return draft.Clone()
}

// Live returns the current edit buffer, if an edit session is open.
func (s *Store) Live() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return Entry{}, false
	}
	return s.live.Clone(), true
}

// Pristine returns the snapshot backing the current edit session.
func (s *Store) Pristine() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pristine == nil {
		return Entry{}, false
	}
	return s.pristine.Clone(), true
}

// SetLive replaces the edit buffer with the editor's current state. The
// pristine snapshot is left alone.
func (s *Store) SetLive(entry Entry) {
	clone := entry.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = &clone
	if entry.ParentID != nil {
		s.preservedParentID = cloneInt64(entry.ParentID)
	}
}

// Save merges the live entry against the pristine snapshot, submits the full
// payload and re-normalises the response into a fresh edit session. On
// failure the live buffer is left unchanged so the editor can retry; nothing
// is partially applied.
func (s *Store) Save(ctx context.Context, token string, live Entry) (Entry, error) {
	if !live.HasAnyTitle() {
		return Entry{}, fmt.Errorf("%w: %w", ErrSaveFailed, ErrNoTitle)
	}

	s.mu.Lock()
	pristine := Entry{}
	if s.pristine != nil {
		pristine = s.pristine.Clone()
	}
	if live.ParentID != nil {
		s.preservedParentID = cloneInt64(live.ParentID)
	}
	s.mu.Unlock()

	payload := BuildSavePayload(live, pristine)
	raw, err := s.svc.Save(ctx, token, payload)
	if err != nil {
		s.log.Warn("catalog save failed", zap.Error(err))
		return Entry{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	saved := Normalize(raw)
	deriveSlugs(&saved)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreParentID(&saved)
	s.openSession(saved)
	s.log.Info("catalog entry saved", zap.Int64p("id", saved.ID))
	return saved.Clone(), nil
}

// Remove deletes an entry and reloads the list. When the removed entry was
// the one being edited the edit session is closed.
func (s *Store) Remove(ctx context.Context, token string, id int64) error {
	if err := s.svc.Delete(ctx, token, id); err != nil {
		return fmt.Errorf("catalog: delete %d: %w", id, err)
	}

	s.mu.Lock()
	if s.live != nil && s.live.ID != nil && *s.live.ID == id {
		s.live = nil
		s.pristine = nil
	}
	s.mu.Unlock()

	_, err := s.LoadList(ctx, token)
	return err
}

// ToggleActive flips the active flag through the dedicated endpoint and
// merges only the returned value back into the buffers.
func (s *Store) ToggleActive(ctx context.Context, token string, id int64) (bool, error) {
	active, err := s.svc.Toggle(ctx, token, id)
	if err != nil {
		return false, fmt.Errorf("catalog: toggle %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live != nil && s.live.ID != nil && *s.live.ID == id {
		s.live.Active = active
	}
	setActive(s.entries, id, active)
	return active, nil
}

// Move shifts an entry one position within the siblings visible in the
// active language and submits the full contiguous rank reassignment in one
// batch, then reloads the list as the source of truth. A move with no room
// (first up, last down) is a no-op. On submit failure the list is reloaded
// anyway to resync from the backend before the error is surfaced.
func (s *Store) Move(ctx context.Context, token string, id int64, dir Direction, lang string) error {
	s.mu.Lock()
	_, parentID, found := findEntry(s.entries, id)
	var siblings []Entry
	if found {
		siblings = cloneEntries(SiblingsOf(s.entries, parentID))
	}
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("catalog: move %d: %w", id, ErrEntryNotFound)
	}

	updates, ok := PlanMove(siblings, id, dir, lang)
	if !ok {
		return nil
	}

	if err := s.svc.Reorder(ctx, token, updates); err != nil {
		// Local order is no longer trusted; resync before surfacing.
		if _, reloadErr := s.LoadList(ctx, token); reloadErr != nil {
			s.log.Warn("catalog resync after failed reorder also failed", zap.Error(reloadErr))
		}
		return fmt.Errorf("catalog: reorder: %w", err)
	}

	_, err := s.LoadList(ctx, token)
	return err
}

// RememberParent records the parent id for the next detail load, covering
// the case where a child is opened directly from the list and the backend
// response omits parentId.
func (s *Store) RememberParent(parentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preservedParentID = &parentID
}

// openSession replaces the edit buffers; callers hold the mutex.
func (s *Store) openSession(entry Entry) {
	live := entry.Clone()
	pristine := entry.Clone()
	s.live = &live
	s.pristine = &pristine
}

// restoreParentID substitutes the session's preserved parent id when the
// backend dropped it, and records it when present. Callers hold the mutex.
func (s *Store) restoreParentID(entry *Entry) {
	if entry.ParentID == nil {
		entry.ParentID = cloneInt64(s.preservedParentID)
		return
	}
	s.preservedParentID = cloneInt64(entry.ParentID)
}

// deriveSlugs fills missing translation slugs from the entry title, for the
// entry and recursively for its children.
func deriveSlugs(entry *Entry) {
	for i, tr := range entry.Translations {
		if tr.Slug == "" {
			entry.Translations[i].Slug = TranslationSlug(tr, entry.ID)
		}
	}
	for i := range entry.Children {
		deriveSlugs(&entry.Children[i])
	}
}

// findEntry locates an entry in the two-level tree, returning its parent id
// (nil for top level).
func findEntry(entries []Entry, id int64) (Entry, *int64, bool) {
	for _, e := range entries {
		if e.ID != nil && *e.ID == id {
			return e, nil, true
		}
		for _, child := range e.Children {
			if child.ID != nil && *child.ID == id {
				return child, cloneInt64(e.ID), true
			}
		}
	}
	return Entry{}, nil, false
}

func setActive(entries []Entry, id int64, active bool) {
	for i := range entries {
		if entries[i].ID != nil && *entries[i].ID == id {
			entries[i].Active = active
			return
		}
		for j := range entries[i].Children {
			child := &entries[i].Children[j]
			if child.ID != nil && *child.ID == id {
				child.Active = active
				return
			}
		}
	}
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
