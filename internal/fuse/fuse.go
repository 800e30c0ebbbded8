// Package fuse exposes the in-memory namespace through a FUSE mount.
package fuse

import (
	"fmt"
	"os"
	"sync"
	"time"

	memfs "memfs/internal/fs"
	"memfs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var fsLogger = logging.GetLogger("fuse")

// FS adapts a filesystem session to the bazil FUSE interfaces. The core
// session is single-threaded, so a coarse mutex serializes every FUSE
// callback.
type FS struct {
	sess *memfs.MemFS
	conn *fuse.Conn
	name string
	uid  uint32
	gid  uint32
	mu   sync.Mutex
}

// New wraps an existing filesystem session for mounting.
func New(sess *memfs.MemFS, name string) *FS {
	if name == "" {
		name = "memfs"
	}
	return &FS{
		sess: sess,
		name: name,
		uid:  safeIntToUint32(os.Getuid()),
		gid:  safeIntToUint32(os.Getgid()),
	}
}

// Root implements the fusefs.FS interface, returning the root directory node.
func (f *FS) Root() (fusefs.Node, error) {
	return &Dir{fs: f, path: "/"}, nil
}

func waitForMount(mountpoint string) error {
	for i := 0; i < 30; i++ {
		info, err := os.Stat(mountpoint)
		if err == nil && info.IsDir() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("mount point not available after 3 seconds")
}

// Mount mounts the namespace and starts serving FUSE requests in a
// background goroutine.
func (f *FS) Mount(mountPoint string, allowOther bool) error {
	fsLogger.WithField("mountpoint", mountPoint).Info("mounting filesystem")

	mountOpts := []fuse.MountOption{
		fuse.FSName(f.name),
		fuse.Subtype("memfs"),
		fuse.DefaultPermissions(),
	}
	if allowOther {
		mountOpts = append(mountOpts, fuse.AllowOther())
	}

	c, err := fuse.Mount(mountPoint, mountOpts...)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	f.conn = c

	go func() {
		if err := fusefs.Serve(c, f); err != nil {
			fsLogger.WithError(err).Error("FUSE server error")
		}
	}()

	if err := waitForMount(mountPoint); err != nil {
		c.Close()
		return fmt.Errorf("mount point failed to initialize: %w", err)
	}

	fsLogger.Info("filesystem mounted")
	return nil
}

// Unmount cleanly unmounts the filesystem.
func (f *FS) Unmount(mountPoint string) error {
	fsLogger.WithField("mountpoint", mountPoint).Info("unmounting filesystem")
	if f.conn == nil {
		return nil
	}
	if err := fuse.Unmount(mountPoint); err != nil {
		fsLogger.WithError(err).Error("unmount failed")
		return err
	}
	return nil
}

// joinPath builds a child path under dir. The root needs special casing
// so lookups under "/" don't produce a double slash.
func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
