package catalog

import "sort"

// FeatureGroups models the frequency-grouped view of an entry's feature list
// for one editing language. Features partition by their optional numeric
// frequency key; the editor works in exactly one group at a time and every
// mutation is scoped to it, so other groups and other languages are never
// replaced wholesale.
//
// A group the user has just created by entering a new frequency value is
// selectable before any feature has been assigned to it.
type FeatureGroups struct {
	lang    string
	active  *int
	created []int
}

// NewFeatureGroups opens the grouped view for a language, starting in the
// ungrouped set.
func NewFeatureGroups(lang string) *FeatureGroups {
	return &FeatureGroups{lang: CanonicalLang(lang)}
}

// Lang returns the language this view is scoped to.
func (g *FeatureGroups) Lang() string { return g.lang }

// Active returns the currently selected group key; nil is the ungrouped set.
func (g *FeatureGroups) Active() *int { return cloneInt(g.active) }

// Select switches the active group. Only the rendered subset changes.
func (g *FeatureGroups) Select(freq *int) {
	g.active = cloneInt(freq)
}

// Create registers a brand-new group key and makes it active. The group
// stays selectable even while empty.
func (g *FeatureGroups) Create(freq int) {
	for _, v := range g.created {
		if v == freq {
			g.active = IntPtr(freq)
			return
		}
	}
	g.created = append(g.created, freq)
	g.active = IntPtr(freq)
}

// Options returns the selectable group keys: the ungrouped set first (nil),
// then the union of frequencies present among this language's features and
// the groups created in this session, ascending.
func (g *FeatureGroups) Options(features []Feature) []*int {
	seen := make(map[int]struct{})
	for _, f := range features {
		if f.LangCode != g.lang || f.Frequency == nil {
			continue
		}
		seen[*f.Frequency] = struct{}{}
	}
	for _, v := range g.created {
		seen[v] = struct{}{}
	}
	keys := make([]int, 0, len(seen))
	for v := range seen {
		keys = append(keys, v)
	}
	sort.Ints(keys)

	options := make([]*int, 0, len(keys)+1)
	options = append(options, nil)
	for _, v := range keys {
		options = append(options, IntPtr(v))
	}
	return options
}

// Visible returns the features of the active group in their stored order.
func (g *FeatureGroups) Visible(features []Feature) []Feature {
	var out []Feature
	for _, f := range features {
		if g.inScope(f) {
			out = append(out, f)
		}
	}
	return out
}

// Add appends a feature to the active group, leaving every other group and
// language untouched.
func (g *FeatureGroups) Add(all []Feature, name, value string) []Feature {
	out := append([]Feature(nil), all...)
	return append(out, Feature{
		LangCode:  g.lang,
		Name:      name,
		Value:     value,
		Frequency: cloneInt(g.active),
	})
}

// Update replaces the name/value of the idx-th visible feature of the active
// group. Out-of-range indexes are a no-op.
func (g *FeatureGroups) Update(all []Feature, idx int, name, value string) []Feature {
	out := append([]Feature(nil), all...)
	if abs, ok := g.absoluteIndex(out, idx); ok {
		out[abs].Name = name
		out[abs].Value = value
	}
	return out
}

// Remove deletes the idx-th visible feature of the active group.
func (g *FeatureGroups) Remove(all []Feature, idx int) []Feature {
	abs, ok := g.absoluteIndex(all, idx)
	if !ok {
		return all
	}
	out := make([]Feature, 0, len(all)-1)
	out = append(out, all[:abs]...)
	return append(out, all[abs+1:]...)
}

// Apply splices an edited rendition of the active group back into the full
// feature list: members of the active (language, group) scope are replaced by
// the edited set, everything else keeps its position.
func (g *FeatureGroups) Apply(all []Feature, edited []Feature) []Feature {
	out := make([]Feature, 0, len(all)+len(edited))
	for _, f := range all {
		if !g.inScope(f) {
			out = append(out, f)
		}
	}
	for _, f := range edited {
		f.LangCode = g.lang
		f.Frequency = cloneInt(g.active)
		out = append(out, f)
	}
	return out
}

func (g *FeatureGroups) inScope(f Feature) bool {
	return f.LangCode == g.lang && freqEqual(f.Frequency, g.active)
}

func (g *FeatureGroups) absoluteIndex(all []Feature, idx int) (int, bool) {
	if idx < 0 {
		return 0, false
	}
	n := 0
	for i, f := range all {
		if !g.inScope(f) {
			continue
		}
		if n == idx {
			return i, true
		}
		n++
	}
	return 0, false
}

func freqEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
