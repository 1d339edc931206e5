// Package ident allocates entity ids for templates, sections, and notes.
package ident

// Next returns the smallest non-negative integer not present in existing.
// Template ids are scoped globally, section ids per template, note ids
// globally; callers pass the sibling collection's ids.
func Next(existing []int) int {
	taken := make(map[int]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}
	id := 0
	for {
		if _, ok := taken[id]; !ok {
			return id
		}
		id++
	}
}
