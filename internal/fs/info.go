package fs

import (
	"time"
)

// Info is a node's metadata snapshot.
type Info struct {
	Name     string
	Kind     Kind
	Created  time.Time
	Modified time.Time
	Accessed time.Time
	Attrs    Attr

	// Size is the logical byte length for files and zero for
	// directories.
	Size int
	// ChildCount is the number of direct children for directories and
	// zero for files.
	ChildCount int
}

// IsDir reports whether the info describes a directory.
func (i Info) IsDir() bool { return i.Kind == KindDir }

// Stat returns a node's metadata. Looking a node up for its info is a
// read-like touch, so the returned accessed time is current.
func (m *MemFS) Stat(path string) (Info, error) {
	n, err := m.walkNode(path)
	if err != nil {
		return Info{}, newError(OpStat, path, err)
	}
	n.touchAccessed(m.now())

	info := Info{
		Name:     n.name,
		Kind:     n.kind,
		Created:  n.created,
		Modified: n.modified,
		Accessed: n.accessed,
		Attrs:    n.attrs,
	}
	if n.isFile() {
		info.Size = n.size
	} else {
		info.ChildCount = len(n.children)
	}
	return info, nil
}

// SetAttr replaces a node's attribute bit-set wholesale. Setting
// attributes is permitted even while the read-only bit is set, otherwise
// the bit could never be cleared.
func (m *MemFS) SetAttr(path string, attrs Attr) error {
	n, err := m.walkNode(path)
	if err != nil {
		return newError(OpSetattr, path, err)
	}
	n.attrs = attrs
	n.touchModified(m.now())
	return nil
}

// Touch refreshes a node's modified and accessed timestamps.
func (m *MemFS) Touch(path string) error {
	n, err := m.walkNode(path)
	if err != nil {
		return newError(OpTouch, path, err)
	}
	if n.readOnly() {
		return newError(OpTouch, path, ErrReadOnly)
	}
	n.touchModified(m.now())
	return nil
}
