package races

import "github.com/preston-bernstein/next-to-go-service/internal/domain/categories"

// Selection is a set of category ids chosen by the caller.
// An empty selection means no category filter is applied.
// The zero value is an empty selection ready to use; it is not safe for concurrent use.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle adds id when absent and removes it when present. It reports whether id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

// SelectAll replaces the selection with every known category.
func (s *Selection) SelectAll() {
	*s = NewSelection(categories.IDs()...)
}

// Clear empties the selection, which disables category filtering.
func (s *Selection) Clear() {
	s.ids = nil
}

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Empty reports whether no category is selected.
func (s Selection) Empty() bool {
	return len(s.ids) == 0
}

// IDs returns a copy of the selected ids in selection order.
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Names returns the display names of selected, known categories in table order.
func (s Selection) Names() []string {
	names := make([]string, 0, len(s.ids))
	for _, c := range categories.All() {
		if s.Contains(c.ID) {
			names = append(names, c.Name)
		}
	}
	return names
}
