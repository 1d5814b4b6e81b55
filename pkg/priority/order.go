package priority

import "sort"

// FileEntry is one text file of the input set.
type FileEntry struct {
	Path     string
	Content  string
	Priority int
}

// Order sorts entries ascending by priority. Equal priorities keep their
// discovery order, so the highest priority files end up last.
func Order(entries []FileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
}
