package fs

// DirEntry is one row of a directory listing.
type DirEntry struct {
	Name  string
	IsDir bool
}

// String renders the entry with the trailing marker that distinguishes
// directories from files.
func (e DirEntry) String() string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// MkdirAll creates a directory path, making missing parents as needed.
// It is idempotent: existing directory components are accepted and
// traversal continues, while an existing component that is a file is a
// hard failure. An empty path or "/" is a no-op success.
//
// This is the one operation that resolves and mutates in a single pass,
// token by token, touching each traversed or created directory as it
// goes.
func (m *MemFS) MkdirAll(path string) error {
	cur := m.cwd
	if isAbs(path) {
		cur = m.root
	}
	if cur == nil {
		return newError(OpMkdir, path, ErrInvalidArgument)
	}

	now := m.now()
	for _, tok := range splitPath(path) {
		if len(tok) > m.limits.MaxNameLen {
			return newError(OpMkdir, path, ErrInvalidName)
		}
		switch tok {
		case ".":
			// stay
		case "..":
			if cur.parent != nil {
				cur = cur.parent
			}
		default:
			child := cur.findChild(tok)
			if child == nil {
				if cur.readOnly() {
					return newError(OpMkdir, path, ErrReadOnly)
				}
				child = newNode(KindDir, tok, cur, now)
				if err := cur.attach(child, m.limits.MaxChildren); err != nil {
					return newError(OpMkdir, path, err)
				}
				cur.touchModified(now)
			} else if !child.isDir() {
				return newError(OpMkdir, path, ErrNotADirectory)
			} else {
				child.touchAccessed(now)
			}
			cur = child
		}
	}
	return nil
}

// Create makes a new empty file. The parent directory must already
// exist; there is no overwrite of an existing entry of either kind.
func (m *MemFS) Create(path string) error {
	parent, leaf, err := m.walkParent(path)
	if err != nil {
		return newError(OpCreate, path, err)
	}
	if err := m.validLeaf(leaf); err != nil {
		return newError(OpCreate, path, err)
	}
	if parent.readOnly() {
		return newError(OpCreate, path, ErrReadOnly)
	}
	if parent.findChild(leaf) != nil {
		return newError(OpCreate, path, ErrAlreadyExists)
	}

	now := m.now()
	f := newNode(KindFile, leaf, parent, now)
	if err := parent.attach(f, m.limits.MaxChildren); err != nil {
		return newError(OpCreate, path, err)
	}
	parent.touchModified(now)
	m.logger.WithField("path", path).Trace("file created")
	return nil
}

// Remove deletes a file. A directory with the same name is not removed
// by this operation.
func (m *MemFS) Remove(path string) error {
	parent, leaf, err := m.walkParent(path)
	if err != nil {
		return newError(OpRemove, path, err)
	}
	target := parent.findChild(leaf)
	if target == nil {
		return newError(OpRemove, path, ErrNotFound)
	}
	if !target.isFile() {
		return newError(OpRemove, path, ErrNotAFile)
	}
	if parent.readOnly() || target.readOnly() {
		return newError(OpRemove, path, ErrReadOnly)
	}

	parent.detach(target)
	target.release()
	parent.touchModified(m.now())
	m.logger.WithField("path", path).Trace("file removed")
	return nil
}

// RemoveDir deletes an empty directory. The root is never removed.
func (m *MemFS) RemoveDir(path string) error {
	target, err := m.walkNode(path)
	if err != nil {
		return newError(OpRmdir, path, err)
	}
	if !target.isDir() {
		return newError(OpRmdir, path, ErrNotADirectory)
	}
	if target.parent == nil {
		return newError(OpRmdir, path, ErrInvalidArgument)
	}
	if len(target.children) > 0 {
		return newError(OpRmdir, path, ErrNotEmpty)
	}
	parent := target.parent
	if target.readOnly() || parent.readOnly() {
		return newError(OpRmdir, path, ErrReadOnly)
	}

	parent.detach(target)
	target.release()
	if m.cwd == target {
		// Removing the working directory would leave the session
		// dangling; fall back to the parent.
		m.cwd = parent
	}
	parent.touchModified(m.now())
	m.logger.WithField("path", path).Trace("directory removed")
	return nil
}

// Rename moves or renames a node. If re-attachment to the new parent
// fails on the fan-out bound, the node is restored to its original
// parent before the failure is reported.
func (m *MemFS) Rename(oldPath, newPath string) error {
	src, err := m.walkNode(oldPath)
	if err != nil {
		return newError(OpRename, oldPath, err)
	}
	if src.parent == nil {
		return newError(OpRename, oldPath, ErrInvalidArgument)
	}
	if src.readOnly() || src.parent.readOnly() {
		return newError(OpRename, oldPath, ErrReadOnly)
	}

	dstParent, leaf, err := m.walkParent(newPath)
	if err != nil {
		return newError(OpRename, newPath, err)
	}
	if err := m.validLeaf(leaf); err != nil {
		return newError(OpRename, newPath, err)
	}
	if dstParent.readOnly() {
		return newError(OpRename, newPath, ErrReadOnly)
	}
	if dstParent.findChild(leaf) != nil {
		return newError(OpRename, newPath, ErrAlreadyExists)
	}
	// A directory cannot be moved beneath itself; the tree stays acyclic.
	for p := dstParent; p != nil; p = p.parent {
		if p == src {
			return newError(OpRename, newPath, ErrInvalidArgument)
		}
	}

	now := m.now()
	oldParent := src.parent
	if dstParent != oldParent {
		oldParent.detach(src)
		if err := dstParent.attach(src, m.limits.MaxChildren); err != nil {
			// Roll back: the slot we just vacated is still free.
			_ = oldParent.attach(src, m.limits.MaxChildren)
			return newError(OpRename, newPath, err)
		}
		oldParent.touchModified(now)
	}
	src.name = leaf
	src.touchModified(now)
	dstParent.touchModified(now)
	m.logger.WithField("from", oldPath).WithField("to", newPath).Trace("renamed")
	return nil
}

// List returns the entries of a directory in its current child order:
// insertion order, not necessarily stable across removals. An empty path
// lists the working directory.
func (m *MemFS) List(path string) ([]DirEntry, error) {
	var dir *node
	if path == "" || path == "." {
		dir = m.cwd
		if dir == nil {
			return nil, newError(OpList, path, ErrInvalidArgument)
		}
	} else {
		n, err := m.walkNode(path)
		if err != nil {
			return nil, newError(OpList, path, err)
		}
		dir = n
	}
	if !dir.isDir() {
		return nil, newError(OpList, path, ErrNotADirectory)
	}

	dir.touchAccessed(m.now())
	entries := make([]DirEntry, 0, len(dir.children))
	for _, c := range dir.children {
		entries = append(entries, DirEntry{Name: c.name, IsDir: c.isDir()})
	}
	return entries, nil
}
