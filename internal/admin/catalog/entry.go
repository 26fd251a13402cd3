// Package catalog implements the product-catalog editing core for the admin
// console: canonical entry model, backend payload normalisation, slug
// derivation, sibling reordering, per-language translation merging and the
// feature frequency-group model. The backend is reached through the Service
// interface; HTTPService talks to the real site API and StaticService is the
// deterministic development fake.
package catalog

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrLoadFailed wraps list or detail fetches that could not complete.
	ErrLoadFailed = errors.New("catalog load failed")
	// ErrSaveFailed wraps server-side save rejections. The live buffer is left
	// untouched so the editor can retry.
	ErrSaveFailed = errors.New("catalog save failed")
	// ErrNoTitle indicates a save was blocked client-side because no language
	// carries a title.
	ErrNoTitle = errors.New("catalog entry has no title in any language")
	// ErrEntryNotFound is returned when the backend does not know the entry.
	ErrEntryNotFound = errors.New("catalog entry not found")
	// ErrNoEntryLoaded indicates an operation that needs the edit buffer was
	// invoked before any entry was loaded.
	ErrNoEntryLoaded = errors.New("no catalog entry loaded")
	// ErrParentNotPersisted indicates a child entry was submitted for a parent
	// that has no backend id yet.
	ErrParentNotPersisted = errors.New("parent entry is not persisted")
)

// Entry is one node of the catalog tree. A nil ID means the entry has not
// been persisted yet; a nil ParentID means it is a top-level entry. The model
// is recursive but the editing workflow only ever builds two levels.
type Entry struct {
	ID           *int64        `json:"id"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	Active       bool          `json:"active"`
	ParentID     *int64        `json:"parentId"`
	DisplayOrder *int          `json:"displayOrder"`
	Translations []Translation `json:"translations"`
	Features     []Feature     `json:"features"`
	Catalogs     []Attachment  `json:"catalogs"`
	Children     []Entry       `json:"children,omitempty"`
}

// Translation carries the language-specific text and SEO fields of an entry.
// At most one Translation exists per language.
type Translation struct {
	LangCode       string `json:"langCode"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Slug           string `json:"slug"`
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
	SEOKeywords    string `json:"seoKeywords"`
	OGTitle        string `json:"seoOgTitle"`
	OGDescription  string `json:"seoOgDescription"`
	OGImage        string `json:"seoOgImage"`
}

// Feature is a language-scoped attribute/value pair. Frequency is an optional
// numeric group key; nil means the ungrouped set.
type Feature struct {
	LangCode  string `json:"langCode"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Frequency *int   `json:"frequency"`
}

// Attachment is a downloadable file linked to an entry.
type Attachment struct {
	Name    string `json:"name"`
	FileURL string `json:"fileUrl"`
}

// RankUpdate carries one entry's new display order for a batched reorder.
type RankUpdate struct {
	ID           int64 `json:"id"`
	DisplayOrder int   `json:"displayOrder"`
}

// Service is the backend contract consumed by the editing core.
type Service interface {
	// List returns every catalog entry with children nested inline. Payload
	// shapes vary historically; callers normalise through Normalize.
	List(ctx context.Context, token string) ([]map[string]any, error)

	// Detail returns one entry with full detail.
	Detail(ctx context.Context, token string, id int64) (map[string]any, error)

	// Save persists the full entry payload (id nullable) and returns the
	// saved record, with the id populated for new entries.
	Save(ctx context.Context, token string, entry Entry) (map[string]any, error)

	// Reorder submits the batched rank reassignment for one sibling set.
	Reorder(ctx context.Context, token string, updates []RankUpdate) error

	// Toggle flips the active flag and returns the resulting value.
	Toggle(ctx context.Context, token string, id int64) (bool, error)

	// Delete removes an entry.
	Delete(ctx context.Context, token string, id int64) error

	// Upload streams a file to the backend upload endpoint and returns the
	// public URL. File content is opaque to the console.
	Upload(ctx context.Context, token, filename string, content io.Reader) (string, error)
}

// Translation returns the translation for the given language, if present.
func (e *Entry) Translation(lang string) (Translation, bool) {
	for _, tr := range e.Translations {
		if tr.LangCode == lang {
			return tr, true
		}
	}
	return Translation{}, false
}

// HasTranslation reports whether the entry is visible in the given language.
func (e *Entry) HasTranslation(lang string) bool {
	_, ok := e.Translation(lang)
	return ok
}

// Persisted reports whether the entry has a backend identity.
func (e *Entry) Persisted() bool {
	return e.ID != nil
}

// Clone returns a deep copy of the entry. The pristine snapshot relies on
// this to stay independent from the live buffer.
func (e Entry) Clone() Entry {
	out := e
	out.ID = cloneInt64(e.ID)
	out.ParentID = cloneInt64(e.ParentID)
	out.DisplayOrder = cloneInt(e.DisplayOrder)
	out.Translations = append([]Translation(nil), e.Translations...)
	out.Catalogs = append([]Attachment(nil), e.Catalogs...)
	if e.Features != nil {
		out.Features = make([]Feature, len(e.Features))
		for i, f := range e.Features {
			f.Frequency = cloneInt(f.Frequency)
			out.Features[i] = f
		}
	}
	if e.Children != nil {
		out.Children = make([]Entry, len(e.Children))
		for i, child := range e.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// HasAnyTitle reports whether at least one language carries a non-empty
// title. Saves are blocked client-side when it is false.
func (e *Entry) HasAnyTitle() bool {
	for _, tr := range e.Translations {
		if tr.Title != "" {
			return true
		}
	}
	return false
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Int64Ptr returns a pointer to v. Convenience for building entries in
// handlers and tests.
func Int64Ptr(v int64) *int64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
