// Package fs implements an in-memory hierarchical namespace: a tree of
// directories and files addressed by slash-separated paths, with
// byte-addressable file content and a small open-file descriptor table.
//
// This file contains error types and error handling utilities.
package fs

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrNotFound indicates a path component doesn't exist
	ErrNotFound = errors.New("path not found")

	// ErrNotADirectory indicates a file where a directory was required
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotAFile indicates a directory where a file was required
	ErrNotAFile = errors.New("not a file")

	// ErrAlreadyExists indicates a sibling with the target name exists
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrNotEmpty indicates attempt to remove a non-empty directory
	ErrNotEmpty = errors.New("directory not empty")

	// ErrReadOnly indicates a mutation attempted on a read-only node
	ErrReadOnly = errors.New("node is read-only")

	// ErrCapacity indicates the fan-out bound, descriptor table, or
	// file size ceiling was exceeded
	ErrCapacity = errors.New("capacity exceeded")

	// ErrInvalidName indicates an empty, dot, or over-length name component
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidArgument indicates a malformed required input
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStaleHandle indicates a descriptor whose node was removed
	ErrStaleHandle = errors.New("stale file handle")
)

// Error wraps filesystem errors with context about the operation and
// affected path to provide more detailed error information.
type Error struct {
	Op   string // Operation that failed (e.g., "create", "rename")
	Path string // Affected path
	Err  error  // Underlying error
}

// Error implements the error interface, providing a formatted error message
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("operation %s on %s failed: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates an Error with the given operation, path, and underlying error
func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// ToErrno translates a filesystem error into the syscall errno that FUSE
// expects. Unknown errors map to EIO.
func ToErrno(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, ErrNotAFile):
		return syscall.EISDIR
	case errors.Is(err, ErrAlreadyExists):
		return syscall.EEXIST
	case errors.Is(err, ErrNotEmpty):
		return syscall.ENOTEMPTY
	case errors.Is(err, ErrReadOnly):
		return syscall.EACCES
	case errors.Is(err, ErrCapacity):
		return syscall.ENOSPC
	case errors.Is(err, ErrInvalidName):
		return syscall.EINVAL
	case errors.Is(err, ErrInvalidArgument):
		return syscall.EINVAL
	case errors.Is(err, ErrStaleHandle):
		return syscall.EBADF
	default:
		return syscall.EIO
	}
}

// Common operation names for consistent logging and error reporting
const (
	OpChdir   = "chdir"   // Changing the working directory
	OpMkdir   = "mkdir"   // Creating a directory path
	OpCreate  = "create"  // Creating a new file
	OpRemove  = "remove"  // Removing a file
	OpRmdir   = "rmdir"   // Removing an empty directory
	OpRename  = "rename"  // Renaming/moving a node
	OpList    = "list"    // Listing directory contents
	OpRead    = "read"    // Reading file content
	OpWrite   = "write"   // Writing file content
	OpOpen    = "open"    // Opening a descriptor
	OpClose   = "close"   // Closing a descriptor
	OpSeek    = "seek"    // Repositioning a descriptor cursor
	OpStat    = "stat"    // Reading node metadata
	OpSetattr = "setattr" // Setting attribute flags
	OpTouch   = "touch"   // Refreshing timestamps
	OpSearch  = "search"  // Searching the subtree
)
