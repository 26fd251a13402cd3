package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// StaticService provides deterministic catalog data suitable for local
// development and tests. Its responses reproduce the backend's quirks on
// purpose: records come back in the older snake_case naming and detail/save
// responses omit parent_id, so the dev loop exercises the normaliser and the
// store's parent-id preservation the same way production does.
type StaticService struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
}

// NewStaticService returns a StaticService populated with a representative
// two-level pump catalog in Turkish and English.
func NewStaticService() *StaticService {
	freq50 := 50
	freq60 := 60

	entries := []Entry{
		{
			ID:           Int64Ptr(10),
			ImageURL:     "https://cdn.akvapump.example/img/centrifugal.jpg",
			Active:       true,
			DisplayOrder: IntPtr(1),
			Translations: []Translation{
				{
					LangCode:       "tr",
					Title:          "Santrifüj Pompalar",
					Description:    "<p>Endüstriyel santrifüj pompa serisi.</p>",
					Slug:           "santrifuj-pompalar-10",
					SEOTitle:       "Santrifüj Pompalar | Akvapump",
					SEODescription: "Endüstriyel santrifüj pompa serisi.",
				},
				{
					LangCode:       "en",
					Title:          "Centrifugal Pumps",
					Description:    "<p>Industrial centrifugal pump range.</p>",
					Slug:           "centrifugal-pumps-10",
					SEOTitle:       "Centrifugal Pumps | Akvapump",
					SEODescription: "Industrial centrifugal pump range.",
				},
			},
			Features: []Feature{
				{LangCode: "tr", Name: "Debi", Value: "120 m³/h", Frequency: &freq50},
				{LangCode: "tr", Name: "Basma Yüksekliği", Value: "45 m", Frequency: &freq50},
				{LangCode: "tr", Name: "Debi", Value: "140 m³/h", Frequency: &freq60},
				{LangCode: "tr", Name: "Gövde", Value: "Dökme demir"},
				{LangCode: "en", Name: "Flow Rate", Value: "120 m³/h", Frequency: &freq50},
				{LangCode: "en", Name: "Casing", Value: "Cast iron"},
			},
			Catalogs: []Attachment{
				{Name: "Seri kataloğu", FileURL: "https://cdn.akvapump.example/docs/centrifugal-tr.pdf"},
			},
			Children: []Entry{
				{
					ID:           Int64Ptr(11),
					ParentID:     Int64Ptr(10),
					Active:       true,
					DisplayOrder: IntPtr(1),
					Translations: []Translation{
						{LangCode: "tr", Title: "NK Serisi", Slug: "nk-serisi-11"},
						{LangCode: "en", Title: "NK Series", Slug: "nk-series-11"},
					},
				},
				{
					ID:           Int64Ptr(12),
					ParentID:     Int64Ptr(10),
					Active:       true,
					DisplayOrder: IntPtr(2),
					Translations: []Translation{
						{LangCode: "tr", Title: "NB Serisi", Slug: "nb-serisi-12"},
					},
				},
			},
		},
		{
			ID:           Int64Ptr(20),
			Active:       true,
			DisplayOrder: IntPtr(2),
			Translations: []Translation{
				{LangCode: "tr", Title: "Dalgıç Pompalar", Slug: "dalgic-pompalar-20"},
				{LangCode: "en", Title: "Submersible Pumps", Slug: "submersible-pumps-20"},
			},
		},
	}

	return &StaticService{entries: entries, nextID: 100}
}

// List returns every entry in the legacy snake_case shape.
func (s *StaticService) List(ctx context.Context, token string) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, rawEntry(e, true))
	}
	return out, nil
}

// Detail returns one entry, omitting parent_id like the real backend does.
func (s *StaticService) Detail(ctx context.Context, token string, id int64) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.find(id); ok {
		return rawEntry(e, false), nil
	}
	return nil, fmt.Errorf("static catalog: entry %d: %w", id, ErrEntryNotFound)
}

// Save stores the entry, assigning an id to new records, and echoes it back
// in the legacy shape without parent_id.
func (s *StaticService) Save(ctx context.Context, token string, entry Entry) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := entry.Clone()
	if stored.ID == nil {
		id := s.nextID
		s.nextID++
		stored.ID = &id
	}
	s.upsert(stored)
	return rawEntry(stored, false), nil
}

// Reorder applies the batched display-order reassignment.
func (s *StaticService) Reorder(ctx context.Context, token string, updates []RankUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, update := range updates {
		s.setOrder(update.ID, update.DisplayOrder)
	}
	SortSiblings(s.entries)
	for i := range s.entries {
		SortSiblings(s.entries[i].Children)
	}
	return nil
}

// Toggle flips the active flag.
func (s *StaticService) Toggle(ctx context.Context, token string, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID != nil && *s.entries[i].ID == id {
			s.entries[i].Active = !s.entries[i].Active
			return s.entries[i].Active, nil
		}
		for j := range s.entries[i].Children {
			child := &s.entries[i].Children[j]
			if child.ID != nil && *child.ID == id {
				child.Active = !child.Active
				return child.Active, nil
			}
		}
	}
	return false, fmt.Errorf("static catalog: entry %d: %w", id, ErrEntryNotFound)
}

// Delete removes an entry or child.
func (s *StaticService) Delete(ctx context.Context, token string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID != nil && *s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
		children := s.entries[i].Children
		for j := range children {
			if children[j].ID != nil && *children[j].ID == id {
				s.entries[i].Children = append(children[:j], children[j+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("static catalog: entry %d: %w", id, ErrEntryNotFound)
}

// Upload returns a deterministic CDN-style URL for the uploaded filename.
func (s *StaticService) Upload(ctx context.Context, token, filename string, content io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", fmt.Errorf("static catalog: read upload: %w", err)
	}
	name := Slugify(strings.TrimSuffix(filename, ext(filename)))
	return "https://cdn.akvapump.example/uploads/" + name + ext(filename), nil
}

func (s *StaticService) find(id int64) (Entry, bool) {
	for _, e := range s.entries {
		if e.ID != nil && *e.ID == id {
			return e.Clone(), true
		}
		for _, child := range e.Children {
			if child.ID != nil && *child.ID == id {
				return child.Clone(), true
			}
		}
	}
	return Entry{}, false
}

func (s *StaticService) upsert(entry Entry) {
	if entry.ParentID != nil {
		for i := range s.entries {
			if s.entries[i].ID != nil && *s.entries[i].ID == *entry.ParentID {
				children := s.entries[i].Children
				for j := range children {
					if children[j].ID != nil && *children[j].ID == *entry.ID {
						children[j] = entry
						return
					}
				}
				s.entries[i].Children = append(children, entry)
				return
			}
		}
	}
	for i := range s.entries {
		if s.entries[i].ID != nil && *s.entries[i].ID == *entry.ID {
			entry.Children = s.entries[i].Children
			s.entries[i] = entry
			return
		}
	}
	s.entries = append(s.entries, entry)
}

func (s *StaticService) setOrder(id int64, order int) {
	for i := range s.entries {
		if s.entries[i].ID != nil && *s.entries[i].ID == id {
			s.entries[i].DisplayOrder = IntPtr(order)
			return
		}
		for j := range s.entries[i].Children {
			child := &s.entries[i].Children[j]
			if child.ID != nil && *child.ID == id {
				child.DisplayOrder = IntPtr(order)
				return
			}
		}
	}
}

// rawEntry renders an entry in the legacy snake_case wire shape. parent_id
// is only included for list responses; detail and save responses drop it,
// matching the backend omission the store compensates for.
func rawEntry(e Entry, includeParent bool) map[string]any {
	raw := map[string]any{
		"id":        numberOrNil(e.ID),
		"image_url": e.ImageURL,
		"is_active": e.Active,
	}
	if e.DisplayOrder != nil {
		raw["display_order"] = float64(*e.DisplayOrder)
	}
	if includeParent && e.ParentID != nil {
		raw["parent_id"] = float64(*e.ParentID)
	}

	translations := make([]any, 0, len(e.Translations))
	for _, tr := range e.Translations {
		translations = append(translations, map[string]any{
			"lang_code":          tr.LangCode,
			"title":              tr.Title,
			"content":            tr.Description,
			"seo_url":            tr.Slug,
			"seo_title":          tr.SEOTitle,
			"seo_description":    tr.SEODescription,
			"seo_keywords":       tr.SEOKeywords,
			"seo_og_title":       tr.OGTitle,
			"seo_og_description": tr.OGDescription,
			"seo_og_image":       tr.OGImage,
		})
	}
	raw["translation_list"] = translations

	features := make([]any, 0, len(e.Features))
	for _, f := range e.Features {
		feature := map[string]any{
			"lang_code":     f.LangCode,
			"feature_name":  f.Name,
			"feature_value": f.Value,
		}
		if f.Frequency != nil {
			feature["freq"] = float64(*f.Frequency)
		}
		features = append(features, feature)
	}
	raw["feature_list"] = features

	files := make([]any, 0, len(e.Catalogs))
	for _, a := range e.Catalogs {
		files = append(files, map[string]any{
			"file_name": a.Name,
			"file_url":  a.FileURL,
		})
	}
	raw["files"] = files

	if len(e.Children) > 0 {
		children := make([]any, 0, len(e.Children))
		for _, child := range e.Children {
			children = append(children, rawEntry(child, includeParent))
		}
		raw["child_list"] = children
	}
	return raw
}

func numberOrNil(v *int64) any {
	if v == nil {
		return nil
	}
	return float64(*v)
}

func ext(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[idx:]
	}
	return ""
}
