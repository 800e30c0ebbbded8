package fs

import (
	"strings"
)

// splitPath tokenizes a slash-separated path. Empty segments produced by
// consecutive or trailing slashes are discarded, so "/a//b/" yields
// ["a" "b"]. Dot segments are kept; the walk interprets them.
func splitPath(path string) []string {
	var tokens []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			tokens = append(tokens, seg)
		}
	}
	return tokens
}

// isAbs reports whether the path is resolved from the root rather than
// the session's working directory.
func isAbs(path string) bool {
	return strings.HasPrefix(path, "/")
}

// walkNode resolves path to the node itself, starting at the session's
// working directory unless the path is absolute. An empty path or "/"
// yields the starting directory.
func (m *MemFS) walkNode(path string) (*node, error) {
	n, _, err := m.walk(path, false)
	return n, err
}

// walkParent resolves path one level short: it returns the containing
// directory plus the final token, without requiring the leaf to exist.
func (m *MemFS) walkParent(path string) (*node, string, error) {
	return m.walk(path, true)
}

// walk is the single path-resolution algorithm underlying every
// operation. Tokens are evaluated left to right against a current
// directory pointer: "." is a no-op, ".." moves to the parent (a no-op at
// the root), and any other token must name an existing child directory,
// except for the last token, whose handling depends on wantParent.
// Resolution never mutates the tree or metadata.
func (m *MemFS) walk(path string, wantParent bool) (*node, string, error) {
	cur := m.cwd
	if isAbs(path) {
		cur = m.root
	}
	if cur == nil {
		return nil, "", ErrInvalidArgument
	}

	tokens := splitPath(path)
	if len(tokens) == 0 {
		// Path is empty or exactly "/".
		return cur, "", nil
	}

	for i, tok := range tokens {
		if len(tok) > m.limits.MaxNameLen {
			return nil, "", ErrInvalidName
		}
		last := i == len(tokens)-1

		switch {
		case tok == ".":
			// stay in cur
		case tok == "..":
			if cur.parent != nil {
				cur = cur.parent
			}
		case last && wantParent:
			return cur, tok, nil
		case last:
			child := cur.findChild(tok)
			if child == nil {
				return nil, "", ErrNotFound
			}
			return child, "", nil
		default:
			child := cur.findChild(tok)
			if child == nil {
				return nil, "", ErrNotFound
			}
			if !child.isDir() {
				return nil, "", ErrNotADirectory
			}
			cur = child
		}
	}

	// The trailing tokens were all dots; the caller gets the directory
	// the walk ended in. In parent mode "." names the directory itself,
	// which no creation operation accepts as a leaf.
	if wantParent {
		return cur, tokens[len(tokens)-1], nil
	}
	return cur, "", nil
}

// validLeaf checks a name produced by parent-mode resolution before it is
// used to create or rename a node.
func (m *MemFS) validLeaf(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if len(name) > m.limits.MaxNameLen {
		return ErrInvalidName
	}
	return nil
}
