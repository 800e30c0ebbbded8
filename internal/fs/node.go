package fs

import (
	"time"
)

// Kind distinguishes directory nodes from file nodes.
type Kind uint8

const (
	// KindDir is a directory node
	KindDir Kind = iota + 1
	// KindFile is a file node
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// node is a single entry in the namespace tree. The tree owns its nodes
// exclusively: a directory owns its children slice, and the parent link
// is a non-owning back-reference used only for traversal.
type node struct {
	kind   Kind
	name   string // empty only for the root
	parent *node  // nil only for the root

	created  time.Time
	modified time.Time
	accessed time.Time

	attrs Attr

	// gen is bumped when the node is detached from the tree so that
	// descriptors opened against it fail instead of writing into a
	// dangling buffer.
	gen uint64

	// Directory only. Order is insertion order, disturbed by
	// swap-with-last removal.
	children []*node

	// File only. len(data) is allocated capacity; size is logical length.
	data []byte
	size int
}

func newNode(kind Kind, name string, parent *node, now time.Time) *node {
	return &node{
		kind:     kind,
		name:     name,
		parent:   parent,
		created:  now,
		modified: now,
		accessed: now,
	}
}

func (n *node) isDir() bool  { return n.kind == KindDir }
func (n *node) isFile() bool { return n.kind == KindFile }

// readOnly reports whether the node carries the read-only attribute.
func (n *node) readOnly() bool { return n.attrs&AttrReadOnly != 0 }

// touchAccessed records a read-like touch. Timestamps never go backwards.
func (n *node) touchAccessed(now time.Time) {
	if now.After(n.accessed) {
		n.accessed = now
	}
}

// touchModified records a content or structural change, which is also a touch.
func (n *node) touchModified(now time.Time) {
	if now.After(n.modified) {
		n.modified = now
	}
	n.touchAccessed(now)
}

// findChild returns the child with the given name, or nil.
func (n *node) findChild(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// attach appends child to the directory's children, enforcing the
// fan-out bound. The child's parent link is set on success.
func (n *node) attach(child *node, maxChildren int) error {
	if len(n.children) >= maxChildren {
		return ErrCapacity
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// detach removes child from the directory by swapping with the last
// entry. Returns false if the child is not present.
func (n *node) detach(child *node) bool {
	for i, c := range n.children {
		if c == child {
			last := len(n.children) - 1
			n.children[i] = n.children[last]
			n.children[last] = nil
			n.children = n.children[:last]
			child.parent = nil
			return true
		}
	}
	return false
}

// release recursively severs a subtree so stale descriptors fail and the
// nodes become unreachable.
func (n *node) release() {
	n.gen++
	for _, c := range n.children {
		c.release()
		c.parent = nil
	}
	n.children = nil
	n.data = nil
	n.size = 0
}

// fullPath reconstructs the absolute path by walking parent links to the
// root and joining with slashes. The root yields "/".
func (n *node) fullPath() string {
	if n.parent == nil {
		return "/"
	}
	var parts []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	// parts are leaf-first; build root-first
	size := 0
	for _, p := range parts {
		size += len(p) + 1
	}
	buf := make([]byte, 0, size)
	for i := len(parts) - 1; i >= 0; i-- {
		buf = append(buf, '/')
		buf = append(buf, parts[i]...)
	}
	return string(buf)
}
