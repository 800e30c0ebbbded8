package fs

import (
	"strings"
)

// Match is one search hit: the node's reconstructed absolute path and
// its kind marker.
type Match struct {
	Path  string
	IsDir bool
}

// String renders the match with the trailing directory marker.
func (s Match) String() string {
	if s.IsDir {
		return s.Path + "/"
	}
	return s.Path
}

// Search recursively scans the subtree rooted at the working directory
// for nodes whose name contains term, reporting each match's full path.
// Every node visited during the scan gets an accessed touch, match or
// not. The root's empty name never matches. An empty term is an error.
func (m *MemFS) Search(term string) ([]Match, error) {
	if term == "" {
		return nil, newError(OpSearch, "", ErrInvalidArgument)
	}
	if m.cwd == nil {
		return nil, newError(OpSearch, "", ErrInvalidArgument)
	}

	var matches []Match
	m.searchNode(m.cwd, term, &matches)
	m.logger.WithField("term", term).WithField("matches", len(matches)).Trace("search complete")
	return matches, nil
}

func (m *MemFS) searchNode(n *node, term string, matches *[]Match) {
	n.touchAccessed(m.now())
	if n.name != "" && strings.Contains(n.name, term) {
		*matches = append(*matches, Match{Path: n.fullPath(), IsDir: n.isDir()})
	}
	for _, c := range n.children {
		m.searchNode(c, term, matches)
	}
}
