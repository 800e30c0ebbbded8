package fs

// baseCap is the initial buffer capacity of a file that has ever been
// written to. Capacity doubles from here until it covers the requested
// extent.
const baseCap = 64

// ensureCap grows the file buffer to cover want bytes. Newly exposed
// bytes are zero-filled. Growth past the size ceiling fails with no
// mutation of the existing buffer or size.
func (m *MemFS) ensureCap(f *node, want int) error {
	if want <= len(f.data) {
		return nil
	}
	if want > m.limits.MaxFileSize {
		return ErrCapacity
	}
	newCap := len(f.data)
	if newCap == 0 {
		newCap = baseCap
	}
	for newCap < want {
		newCap *= 2
		if newCap <= 0 || newCap > m.limits.MaxFileSize {
			// Doubling overshot the ceiling (or wrapped); want is known
			// to fit, so the ceiling itself is a valid capacity.
			newCap = m.limits.MaxFileSize
			break
		}
	}
	grown := make([]byte, newCap)
	copy(grown, f.data[:f.size])
	f.data = grown
	return nil
}

// WriteAt copies buf into the file at the given absolute offset, growing
// the buffer as needed. Writing past the current end of file is
// permitted and leaves a zero-filled hole. Returns the number of bytes
// written.
func (m *MemFS) WriteAt(path string, off int, buf []byte) (int, error) {
	f, err := m.walkNode(path)
	if err != nil {
		return 0, newError(OpWrite, path, err)
	}
	if !f.isFile() {
		return 0, newError(OpWrite, path, ErrNotAFile)
	}
	if f.readOnly() {
		return 0, newError(OpWrite, path, ErrReadOnly)
	}
	if off < 0 {
		return 0, newError(OpWrite, path, ErrInvalidArgument)
	}

	n, err := m.writeAt(f, off, buf)
	if err != nil {
		return 0, newError(OpWrite, path, err)
	}
	return n, nil
}

// writeAt is the buffer-level write shared by path and descriptor I/O.
// Access checks are the caller's job.
func (m *MemFS) writeAt(f *node, off int, buf []byte) (int, error) {
	// Guard the extent computation itself: off near MaxInt would wrap
	// negative and slip past the ceiling check.
	if off > m.limits.MaxFileSize-len(buf) {
		return 0, ErrCapacity
	}
	need := off + len(buf)
	if err := m.ensureCap(f, need); err != nil {
		return 0, err
	}
	copy(f.data[off:], buf)
	if need > f.size {
		f.size = need
	}
	f.touchModified(m.now())
	return len(buf), nil
}

// ReadAt reads up to maxLen bytes from the file starting at the given
// offset. An offset at or beyond the current size reads zero bytes,
// which is not an error.
func (m *MemFS) ReadAt(path string, off, maxLen int) ([]byte, error) {
	f, err := m.walkNode(path)
	if err != nil {
		return nil, newError(OpRead, path, err)
	}
	if !f.isFile() {
		return nil, newError(OpRead, path, ErrNotAFile)
	}
	if off < 0 || maxLen < 0 {
		return nil, newError(OpRead, path, ErrInvalidArgument)
	}
	return m.readAt(f, off, maxLen), nil
}

// readAt is the buffer-level read shared by path and descriptor I/O.
func (m *MemFS) readAt(f *node, off, maxLen int) []byte {
	f.touchAccessed(m.now())
	if off >= f.size {
		return nil
	}
	n := f.size - off
	if n > maxLen {
		n = maxLen
	}
	out := make([]byte, n)
	copy(out, f.data[off:off+n])
	return out
}
