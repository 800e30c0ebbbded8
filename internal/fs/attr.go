package fs

import "strings"

// Attr is a bit-set of node attribute flags.
type Attr uint8

const (
	// AttrHidden marks a node as hidden
	AttrHidden Attr = 1 << iota
	// AttrReadOnly gates all mutating operations on the node and, for
	// directories, creation and removal of children beneath it
	AttrReadOnly
	// AttrSystem marks a node as a system entry
	AttrSystem
	// AttrArchive marks a node as changed since last archive
	AttrArchive

	// AttrNone clears all flags
	AttrNone Attr = 0
)

// String renders the bit-set in fixed HRSA order, one letter per set
// flag and a dash for each clear one, e.g. "-R-A".
func (a Attr) String() string {
	var b strings.Builder
	flags := []struct {
		bit Attr
		ch  byte
	}{
		{AttrHidden, 'H'},
		{AttrReadOnly, 'R'},
		{AttrSystem, 'S'},
		{AttrArchive, 'A'},
	}
	for _, f := range flags {
		if a&f.bit != 0 {
			b.WriteByte(f.ch)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
