package fuse

import (
	"context"
	"io"
	"os"

	memfs "memfs/internal/fs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var fileLogger = fsLogger.WithField("node", "file")

// File is a file of the in-memory namespace exposed over FUSE.
type File struct {
	fs   *FS
	path string
}

// Attr implements the Node interface, returning the file's attributes.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	info, err := f.fs.sess.Stat(f.path)
	if err != nil {
		return memfs.ToErrno(err)
	}

	mode := os.FileMode(0o644)
	if info.Attrs&memfs.AttrReadOnly != 0 {
		mode = 0o444
	}
	a.Mode = mode
	a.Size = safeIntToUint64(info.Size)
	a.Atime = info.Accessed
	a.Mtime = info.Modified
	a.Ctime = info.Created
	a.Uid = f.fs.uid
	a.Gid = f.fs.gid
	a.BlockSize = 4096
	a.Blocks = safeIntToUint64((info.Size + 511) / 512)
	return nil
}

// openModeFromFlags maps open(2) access flags onto the core's descriptor
// modes.
func openModeFromFlags(flags int) memfs.OpenMode {
	switch {
	case flags&os.O_RDWR != 0:
		return memfs.OpenReadWrite
	case flags&os.O_WRONLY != 0:
		return memfs.OpenWrite
	default:
		return memfs.OpenRead
	}
}

// Open implements the NodeOpener interface, occupying a descriptor slot
// in the core table.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	fd, err := f.fs.sess.Open(f.path, openModeFromFlags(int(req.Flags)))
	if err != nil {
		return nil, memfs.ToErrno(err)
	}

	resp.Flags |= fuse.OpenDirectIO

	fileLogger.WithField("path", f.path).WithField("fd", fd).Debug("opened")
	return &FileHandle{fs: f.fs, fd: fd, path: f.path}, nil
}

// Setattr implements the NodeSetattrer interface.
func (f *File) Setattr(_ context.Context, req *fuse.SetattrRequest, _ *fuse.SetattrResponse) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	return applySetattr(f.fs.sess, f.path, req)
}

// Fsync implements the NodeFsyncer interface. There is no backing store,
// so there is nothing to flush.
func (f *File) Fsync(_ context.Context, _ *fuse.FsyncRequest) error {
	return nil
}

// FileHandle pairs a core descriptor with the session it belongs to.
// FUSE supplies absolute offsets, so each transfer seeks the descriptor
// cursor first.
type FileHandle struct {
	fs   *FS
	fd   int
	path string // for logging
}

// Read implements the HandleReader interface.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fh.fs.mu.Lock()
	defer fh.fs.mu.Unlock()

	if _, err := fh.fs.sess.Seek(fh.fd, int(req.Offset), io.SeekStart); err != nil {
		return memfs.ToErrno(err)
	}
	data, err := fh.fs.sess.ReadFD(fh.fd, req.Size)
	if err != nil {
		return memfs.ToErrno(err)
	}
	resp.Data = data
	fileLogger.WithField("path", fh.path).WithField("bytes", len(data)).Trace("read")
	return nil
}

// Write implements the HandleWriter interface.
func (fh *FileHandle) Write(_ context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	fh.fs.mu.Lock()
	defer fh.fs.mu.Unlock()

	if _, err := fh.fs.sess.Seek(fh.fd, int(req.Offset), io.SeekStart); err != nil {
		return memfs.ToErrno(err)
	}
	n, err := fh.fs.sess.WriteFD(fh.fd, req.Data)
	if err != nil {
		return memfs.ToErrno(err)
	}
	resp.Size = n
	fileLogger.WithField("path", fh.path).WithField("bytes", n).Trace("write")
	return nil
}

// Release implements the HandleReleaser interface, freeing the
// descriptor slot.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fh.fs.mu.Lock()
	defer fh.fs.mu.Unlock()

	fileLogger.WithField("path", fh.path).WithField("fd", fh.fd).Debug("released")
	return memfs.ToErrno(fh.fs.sess.CloseFD(fh.fd))
}
