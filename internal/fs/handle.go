package fs

import (
	"io"
)

// OpenMode is the requested access mode for a descriptor.
type OpenMode uint8

const (
	// OpenRead allows reads only
	OpenRead OpenMode = 1 << iota
	// OpenWrite allows writes only
	OpenWrite

	// OpenReadWrite allows both
	OpenReadWrite = OpenRead | OpenWrite
)

func (mode OpenMode) canRead() bool  { return mode&OpenRead != 0 }
func (mode OpenMode) canWrite() bool { return mode&OpenWrite != 0 }

// slot is one entry of the descriptor table: a non-owning node reference
// plus a cursor. The generation is captured at open time so a descriptor
// whose node has since been removed fails cleanly instead of operating
// on a detached buffer.
type slot struct {
	node   *node
	gen    uint64
	cursor int
	mode   OpenMode
	used   bool
}

// Open resolves the path to a file, validates the requested mode against
// the read-only attribute, and occupies the first free descriptor slot
// with the cursor at zero.
func (m *MemFS) Open(path string, mode OpenMode) (int, error) {
	if mode == 0 || mode&^OpenReadWrite != 0 {
		return -1, newError(OpOpen, path, ErrInvalidArgument)
	}
	f, err := m.walkNode(path)
	if err != nil {
		return -1, newError(OpOpen, path, err)
	}
	if !f.isFile() {
		return -1, newError(OpOpen, path, ErrNotAFile)
	}
	if mode.canWrite() && f.readOnly() {
		return -1, newError(OpOpen, path, ErrReadOnly)
	}

	for i := range m.slots {
		if !m.slots[i].used {
			m.slots[i] = slot{node: f, gen: f.gen, mode: mode, used: true}
			f.touchAccessed(m.now())
			m.logger.WithField("path", path).WithField("fd", i).Trace("descriptor opened")
			return i, nil
		}
	}
	return -1, newError(OpOpen, path, ErrCapacity)
}

// CloseFD frees a descriptor slot. Descriptors whose node has been
// removed can still be closed.
func (m *MemFS) CloseFD(fd int) error {
	if fd < 0 || fd >= len(m.slots) || !m.slots[fd].used {
		return newError(OpClose, "", ErrInvalidArgument)
	}
	m.slots[fd] = slot{}
	return nil
}

// fdSlot validates that fd names an occupied slot whose node is still
// attached to the tree.
func (m *MemFS) fdSlot(fd int) (*slot, error) {
	if fd < 0 || fd >= len(m.slots) || !m.slots[fd].used {
		return nil, ErrInvalidArgument
	}
	s := &m.slots[fd]
	if s.node.gen != s.gen {
		return nil, ErrStaleHandle
	}
	return s, nil
}

// ReadFD reads up to maxLen bytes at the descriptor's cursor, advancing
// the cursor by the number of bytes read.
func (m *MemFS) ReadFD(fd, maxLen int) ([]byte, error) {
	s, err := m.fdSlot(fd)
	if err != nil {
		return nil, newError(OpRead, "", err)
	}
	if !s.mode.canRead() {
		return nil, newError(OpRead, "", ErrInvalidArgument)
	}
	if maxLen < 0 {
		return nil, newError(OpRead, "", ErrInvalidArgument)
	}
	out := m.readAt(s.node, s.cursor, maxLen)
	s.cursor += len(out)
	return out, nil
}

// WriteFD writes buf at the descriptor's cursor, advancing the cursor by
// the number of bytes written.
func (m *MemFS) WriteFD(fd int, buf []byte) (int, error) {
	s, err := m.fdSlot(fd)
	if err != nil {
		return 0, newError(OpWrite, "", err)
	}
	if !s.mode.canWrite() {
		return 0, newError(OpWrite, "", ErrInvalidArgument)
	}
	// The read-only attribute may have been set after open.
	if s.node.readOnly() {
		return 0, newError(OpWrite, "", ErrReadOnly)
	}
	n, err := m.writeAt(s.node, s.cursor, buf)
	if err != nil {
		return 0, newError(OpWrite, "", err)
	}
	s.cursor += n
	return n, nil
}

// Seek recomputes the descriptor's cursor from a base (io.SeekStart,
// io.SeekCurrent, or io.SeekEnd) plus a signed offset and returns the
// new absolute position. A negative result is rejected; a position
// beyond the current size is accepted, so a later write creates a hole.
func (m *MemFS) Seek(fd int, off int, whence int) (int, error) {
	s, err := m.fdSlot(fd)
	if err != nil {
		return 0, newError(OpSeek, "", err)
	}

	var base int
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = s.cursor
	case io.SeekEnd:
		base = s.node.size
	default:
		return 0, newError(OpSeek, "", ErrInvalidArgument)
	}

	pos := base + off
	if pos < 0 {
		return 0, newError(OpSeek, "", ErrInvalidArgument)
	}
	s.cursor = pos
	return pos, nil
}
