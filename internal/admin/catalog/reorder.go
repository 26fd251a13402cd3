package catalog

// Direction names a single-step move within a sibling set.
type Direction string

const (
	// DirectionUp moves the entry one position earlier.
	DirectionUp Direction = "up"
	// DirectionDown moves the entry one position later.
	DirectionDown Direction = "down"
)

// PlanMove computes the batched rank reassignment for moving one entry a
// single step within its sibling set. Only siblings visible in the active
// language take part: entries without a translation in that language are
// excluded from the rank computation entirely, because ranks are only
// meaningful relative to what the editor can see. Cross-language rank
// consistency is therefore best-effort.
//
// The visible set is sorted by display order (fallback id), the target is
// swapped with its neighbour in the requested direction, and every visible
// sibling is reassigned a contiguous 1-based rank. Moving the first entry up
// or the last entry down returns ok=false and no updates.
func PlanMove(siblings []Entry, id int64, dir Direction, lang string) ([]RankUpdate, bool) {
	visible := make([]Entry, 0, len(siblings))
	for _, e := range siblings {
		if e.ID == nil {
			// Unsaved drafts have no backend rank to reassign and must not
			// occupy a slot in the contiguous sequence.
			continue
		}
		if lang != "" && !e.HasTranslation(lang) {
			continue
		}
		visible = append(visible, e)
	}
	SortSiblings(visible)

	idx := -1
	for i, e := range visible {
		if *e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	adjacent := idx - 1
	if dir == DirectionDown {
		adjacent = idx + 1
	}
	if adjacent < 0 || adjacent >= len(visible) {
		return nil, false
	}
	visible[idx], visible[adjacent] = visible[adjacent], visible[idx]

	// The whole visible set is resubmitted, not just the swapped pair, so the
	// backend ends up with a contiguous sequence regardless of what it held
	// before.
	updates := make([]RankUpdate, len(visible))
	for i, e := range visible {
		updates[i] = RankUpdate{ID: *e.ID, DisplayOrder: i + 1}
	}
	return updates, true
}

// SiblingsOf collects the entries sharing the given parent from a normalised
// entry list. A nil parent selects the top-level set; otherwise the parent's
// nested children are returned.
func SiblingsOf(entries []Entry, parentID *int64) []Entry {
	if parentID == nil {
		return entries
	}
	for _, e := range entries {
		if e.ID != nil && *e.ID == *parentID {
			return e.Children
		}
	}
	return nil
}
