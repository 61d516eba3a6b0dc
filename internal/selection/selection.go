// Package selection tracks which leads a user has checked on the dashboard
// and prices them against the user's download history. The server keeps no
// selection state: Toggle, SelectAll and Clear model the dashboard's
// contract, while the service uses New, IDs, Cost and Partition.
package selection

import "sort"

// Set is a set of selected lead ids. The zero value is an empty selection.
type Set struct {
	ids map[string]struct{}
}

// New returns a selection holding ids; duplicates collapse
func New(ids ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle flips membership of id
func (s *Set) Toggle(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll clears the selection when every filtered lead is already
// selected, otherwise replaces it with exactly the filtered leads
func (s *Set) SelectAll(filtered []string) {
	if s.coversExactly(filtered) {
		s.Clear()
		return
	}
	s.ids = make(map[string]struct{}, len(filtered))
	for _, id := range filtered {
		s.ids[id] = struct{}{}
	}
}

func (s *Set) coversExactly(filtered []string) bool {
	distinct := make(map[string]struct{}, len(filtered))
	for _, id := range filtered {
		if !s.Has(id) {
			return false
		}
		distinct[id] = struct{}{}
	}
	return len(distinct) == s.Len()
}

// Clear empties the selection
func (s *Set) Clear() {
	s.ids = make(map[string]struct{})
}

// Has reports whether id is selected
func (s *Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len is the number of selected ids
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Cost is one credit per selected lead not present in downloaded. It is
// recomputed on every call.
func (s *Set) Cost(downloaded map[string]bool) int {
	cost := 0
	for id := range s.ids {
		if !downloaded[id] {
			cost++
		}
	}
	return cost
}

// Partition splits the selection into leads that must be paid for and leads
// that were downloaded before
func (s *Set) Partition(downloaded map[string]bool) (fresh, repeat []string) {
	fresh, repeat = []string{}, []string{}
	for _, id := range s.IDs() {
		if downloaded[id] {
			repeat = append(repeat, id)
		} else {
			fresh = append(fresh, id)
		}
	}
	return fresh, repeat
}
