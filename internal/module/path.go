// Package module defines the module-level data model for Cairo crates:
// canonical module paths, source modules with their resolved imports, the
// catalog view over a workspace, and the synthesized attachment modules
// used to keep a reduced module tree connected.
package module

import (
	"sort"
	"strings"
)

// Separator joins the segments of a canonical module path.
const Separator = "::"

// Path is a canonical, fully-qualified module path within a crate,
// e.g. "token::erc20::interface". The first segment is the owning crate.
type Path string

// NewPath builds a path from its segments.
func NewPath(segments ...string) Path {
	return Path(strings.Join(segments, Separator))
}

func (p Path) String() string {
	return string(p)
}

// Segments returns the ordered name segments of the path.
func (p Path) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), Separator)
}

// Depth is the number of segments.
func (p Path) Depth() int {
	return len(p.Segments())
}

// Crate returns the first segment, the name of the owning crate.
func (p Path) Crate() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// Parent returns the path with its last segment removed. The parent of a
// single-segment path is the empty path.
func (p Path) Parent() Path {
	segs := p.Segments()
	if len(segs) <= 1 {
		return ""
	}
	return NewPath(segs[:len(segs)-1]...)
}

// Child appends a segment.
func (p Path) Child(name string) Path {
	if p == "" {
		return Path(name)
	}
	return Path(string(p) + Separator + name)
}

// IsValid reports whether the path has at least one segment and no empty
// segments.
func (p Path) IsValid() bool {
	segs := p.Segments()
	if len(segs) == 0 {
		return false
	}
	for _, s := range segs {
		if s == "" {
			return false
		}
	}
	return true
}

// Compare orders two paths lexicographically over their segment
// sequences. This differs from plain string comparison when one segment
// is a prefix of another, so sorted output stays stable regardless of the
// separator's byte value.
func (p Path) Compare(o Path) int {
	a, b := p.Segments(), o.Segments()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// SortPaths sorts paths in place by segment order.
func SortPaths(paths []Path) {
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Compare(paths[j]) < 0
	})
}
