package fuse

import (
	"context"
	"os"
	"syscall"

	memfs "memfs/internal/fs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var dirLogger = fsLogger.WithField("node", "dir")

// Dir is a directory of the in-memory namespace exposed over FUSE. It
// holds the session plus an absolute path; every operation re-resolves
// the path through the core, so a Dir never outlives a rename badly.
type Dir struct {
	fs   *FS
	path string
}

// Attr implements the Node interface, returning directory attributes.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	info, err := d.fs.sess.Stat(d.path)
	if err != nil {
		return memfs.ToErrno(err)
	}

	mode := os.FileMode(0o755)
	if info.Attrs&memfs.AttrReadOnly != 0 {
		mode = 0o555
	}
	a.Mode = os.ModeDir | mode
	a.Atime = info.Accessed
	a.Mtime = info.Modified
	a.Ctime = info.Created
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid
	return nil
}

// Lookup implements the NodeStringLookuper interface, finding a child node.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	childPath := joinPath(d.path, name)
	info, err := d.fs.sess.Stat(childPath)
	if err != nil {
		return nil, memfs.ToErrno(err)
	}
	if info.IsDir() {
		return &Dir{fs: d.fs, path: childPath}, nil
	}
	return &File{fs: d.fs, path: childPath}, nil
}

// ReadDirAll implements the HandleReadDirAller interface, listing directory contents.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	children, err := d.fs.sess.List(d.path)
	if err != nil {
		return nil, memfs.ToErrno(err)
	}

	entries := make([]fuse.Dirent, 0, len(children)+2)
	entries = append(entries,
		fuse.Dirent{Name: ".", Type: fuse.DT_Dir},
		fuse.Dirent{Name: "..", Type: fuse.DT_Dir},
	)
	for _, c := range children {
		t := fuse.DT_File
		if c.IsDir {
			t = fuse.DT_Dir
		}
		entries = append(entries, fuse.Dirent{Name: c.Name, Type: t})
	}
	dirLogger.WithField("path", d.path).WithField("entries", len(entries)).Trace("readdir")
	return entries, nil
}

// Mkdir implements the NodeMkdirer interface. The core's MkdirAll is
// idempotent, but FUSE mkdir must fail on an existing entry, so
// existence is checked first.
func (d *Dir) Mkdir(_ context.Context, req *fuse.MkdirRequest) (fusefs.Node, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	childPath := joinPath(d.path, req.Name)
	if _, err := d.fs.sess.Stat(childPath); err == nil {
		return nil, syscall.EEXIST
	}
	if err := d.fs.sess.MkdirAll(childPath); err != nil {
		return nil, memfs.ToErrno(err)
	}
	dirLogger.WithField("path", childPath).Debug("directory created")
	return &Dir{fs: d.fs, path: childPath}, nil
}

// Create implements the NodeCreater interface, making a new empty file
// and opening a descriptor for it.
func (d *Dir) Create(_ context.Context, req *fuse.CreateRequest, _ *fuse.CreateResponse) (fusefs.Node, fusefs.Handle, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	childPath := joinPath(d.path, req.Name)
	if err := d.fs.sess.Create(childPath); err != nil {
		return nil, nil, memfs.ToErrno(err)
	}

	fd, err := d.fs.sess.Open(childPath, openModeFromFlags(int(req.Flags)))
	if err != nil {
		return nil, nil, memfs.ToErrno(err)
	}

	dirLogger.WithField("path", childPath).Debug("file created")
	file := &File{fs: d.fs, path: childPath}
	return file, &FileHandle{fs: d.fs, fd: fd, path: childPath}, nil
}

// Remove implements the NodeRemover interface, removing a file or an
// empty directory.
func (d *Dir) Remove(_ context.Context, req *fuse.RemoveRequest) error {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	childPath := joinPath(d.path, req.Name)
	var err error
	if req.Dir {
		err = d.fs.sess.RemoveDir(childPath)
	} else {
		err = d.fs.sess.Remove(childPath)
	}
	if err != nil {
		return memfs.ToErrno(err)
	}
	dirLogger.WithField("path", childPath).Debug("removed")
	return nil
}

// Rename implements the NodeRenamer interface, renaming/moving a node.
func (d *Dir) Rename(_ context.Context, req *fuse.RenameRequest, newDir fusefs.Node) error {
	target, ok := newDir.(*Dir)
	if !ok {
		return syscall.EINVAL
	}

	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	oldPath := joinPath(d.path, req.OldName)
	newPath := joinPath(target.path, req.NewName)
	if err := d.fs.sess.Rename(oldPath, newPath); err != nil {
		return memfs.ToErrno(err)
	}
	dirLogger.WithField("from", oldPath).WithField("to", newPath).Debug("renamed")
	return nil
}

// Setattr implements the NodeSetattrer interface.
func (d *Dir) Setattr(_ context.Context, req *fuse.SetattrRequest, _ *fuse.SetattrResponse) error {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()
	return applySetattr(d.fs.sess, d.path, req)
}

// applySetattr maps the FUSE attribute change onto the core's attribute
// bit-set. Only the owner write bit has a counterpart (the read-only
// flag); size changes have none, since file size only moves via writes.
func applySetattr(sess *memfs.MemFS, path string, req *fuse.SetattrRequest) error {
	info, err := sess.Stat(path)
	if err != nil {
		return memfs.ToErrno(err)
	}

	if req.Valid.Size() && int(req.Size) != info.Size {
		return syscall.EPERM
	}

	if req.Valid.Mode() {
		attrs := info.Attrs
		if req.Mode&0o200 == 0 {
			attrs |= memfs.AttrReadOnly
		} else {
			attrs &^= memfs.AttrReadOnly
		}
		if attrs != info.Attrs {
			if err := sess.SetAttr(path, attrs); err != nil {
				return memfs.ToErrno(err)
			}
		}
	}

	if req.Valid.Mtime() || req.Valid.Atime() {
		if err := sess.Touch(path); err != nil {
			return memfs.ToErrno(err)
		}
	}
	return nil
}
