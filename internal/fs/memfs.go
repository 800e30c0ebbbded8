package fs

import (
	"time"

	"memfs/internal/logging"

	"github.com/sirupsen/logrus"
)

// Limits bounds the namespace. Zero values fall back to the defaults.
type Limits struct {
	// MaxNameLen bounds the length of a single path component.
	MaxNameLen int
	// MaxChildren bounds a directory's fan-out. Exceeding it is a hard
	// capacity error, not a resize.
	MaxChildren int
	// MaxOpenFiles is the size of the descriptor table.
	MaxOpenFiles int
	// MaxFileSize caps a file buffer's capacity. Growth past it fails
	// with ErrCapacity and leaves the file untouched.
	MaxFileSize int
}

// Default limits.
const (
	DefaultMaxNameLen   = 32
	DefaultMaxChildren  = 64
	DefaultMaxOpenFiles = 16
	DefaultMaxFileSize  = 64 << 20
)

// withDefaults fills in zero fields.
func (l Limits) withDefaults() Limits {
	if l.MaxNameLen <= 0 {
		l.MaxNameLen = DefaultMaxNameLen
	}
	if l.MaxChildren <= 0 {
		l.MaxChildren = DefaultMaxChildren
	}
	if l.MaxOpenFiles <= 0 {
		l.MaxOpenFiles = DefaultMaxOpenFiles
	}
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = DefaultMaxFileSize
	}
	return l
}

// MemFS is a single session over an in-memory namespace tree: the root,
// the session's working directory, and the open-file descriptor table.
// It is not safe for concurrent use; callers that share a session across
// goroutines (the FUSE adapter does) must serialize access themselves.
type MemFS struct {
	root   *node
	cwd    *node
	limits Limits
	slots  []slot
	clock  func() time.Time
	logger *logrus.Entry
}

// New creates a namespace containing only the root directory, with the
// working directory set to the root.
func New(limits Limits) *MemFS {
	limits = limits.withDefaults()
	now := time.Now()
	root := newNode(KindDir, "", nil, now)
	m := &MemFS{
		root:   root,
		cwd:    root,
		limits: limits,
		slots:  make([]slot, limits.MaxOpenFiles),
		clock:  time.Now,
		logger: logging.GetLogger("fs"),
	}
	m.logger.WithFields(logrus.Fields{
		"max_name":  limits.MaxNameLen,
		"fan_out":   limits.MaxChildren,
		"max_open":  limits.MaxOpenFiles,
		"max_bytes": limits.MaxFileSize,
	}).Debug("namespace initialized")
	return m
}

// Limits returns the session's effective limits.
func (m *MemFS) Limits() Limits {
	return m.limits
}

// Close destroys the entire tree and invalidates every open descriptor
// and outstanding node reference. The session is unusable afterwards;
// calling Close again is a no-op.
func (m *MemFS) Close() {
	if m.root == nil {
		return
	}
	m.logger.Debug("tearing down namespace")
	for i := range m.slots {
		m.slots[i] = slot{}
	}
	m.root.release()
	m.root = nil
	m.cwd = nil
}

// Chdir changes the session's working directory, the relative-resolution
// base for every other operation.
func (m *MemFS) Chdir(path string) error {
	n, err := m.walkNode(path)
	if err != nil {
		return newError(OpChdir, path, err)
	}
	if !n.isDir() {
		return newError(OpChdir, path, ErrNotADirectory)
	}
	n.touchAccessed(m.clock())
	m.cwd = n
	return nil
}

// Getwd returns the absolute path of the working directory.
func (m *MemFS) Getwd() string {
	if m.cwd == nil {
		return ""
	}
	return m.cwd.fullPath()
}

// now returns the session clock reading. Tests substitute the clock to
// get deterministic timestamps.
func (m *MemFS) now() time.Time {
	return m.clock()
}
