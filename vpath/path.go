// Package vpath implements the path algebra of the namespace: immutable path
// values, normalization, combination, relative-path computation and the
// wildcard-free prefix used to bound pattern walks.
package vpath

import (
	"slices"
	"strings"

	"github.com/brettbedarf/vtree/errors"
)

// Canonical spellings of the special segments inside a [Path]. A [Syntax]
// maps its own spellings onto these when parsing and back when formatting.
const (
	current = "."
	parent  = ".."
)

// Syntax holds the spellings used to parse and format paths.
type Syntax struct {
	Separator string // "/" by default
	Current   string // "." by default
	Parent    string // ".." by default
}

// DefaultSyntax is the unix-like syntax used by [Parse] and [Path.String].
var DefaultSyntax = Syntax{Separator: "/", Current: ".", Parent: ".."}

// Path is an immutable sequence of name segments plus an absolute flag.
// The zero value is the empty relative path, which formats as ".".
type Path struct {
	segments []string
	absolute bool
}

// Parse parses s with [DefaultSyntax].
func Parse(s string) Path {
	return DefaultSyntax.Parse(s)
}

// Parse splits s into segments. Empty segments (repeated separators) are
// dropped; "." and ".." are kept until [Path.Normalize].
func (sx Syntax) Parse(s string) Path {
	sep := sx.separator()
	p := Path{absolute: strings.HasPrefix(s, sep)}
	for _, seg := range strings.Split(s, sep) {
		switch seg {
		case "":
			continue
		case sx.Current:
			p.segments = append(p.segments, current)
		case sx.Parent:
			p.segments = append(p.segments, parent)
		default:
			p.segments = append(p.segments, seg)
		}
	}
	return p
}

func (sx Syntax) separator() string {
	if sx.Separator == "" {
		return DefaultSyntax.Separator
	}
	return sx.Separator
}

// Root returns the absolute root path.
func Root() Path {
	return Path{absolute: true}
}

// New builds a path from already split segments.
func New(absolute bool, segments ...string) Path {
	return Path{segments: slices.Clone(segments), absolute: absolute}
}

func (p Path) IsAbsolute() bool { return p.absolute }

// IsRoot reports whether p is the absolute root.
func (p Path) IsRoot() bool { return p.absolute && len(p.segments) == 0 }

// IsEmpty reports whether p is a relative path without segments.
func (p Path) IsEmpty() bool { return !p.absolute && len(p.segments) == 0 }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// Segment returns the i-th segment. Negative indexes count from the end.
func (p Path) Segment(i int) string {
	if i < 0 {
		i += len(p.segments)
	}
	return p.segments[i]
}

// Segments returns a copy of the segments.
func (p Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Name returns the last segment, or "" for the root and the empty path.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Dir returns the path without its last segment. The root is its own Dir.
func (p Path) Dir() Path {
	if len(p.segments) == 0 {
		return p
	}
	return Path{segments: slices.Clone(p.segments[:len(p.segments)-1]), absolute: p.absolute}
}

// Join returns a new path with names appended.
func (p Path) Join(names ...string) Path {
	segs := make([]string, 0, len(p.segments)+len(names))
	segs = append(segs, p.segments...)
	segs = append(segs, names...)
	return Path{segments: segs, absolute: p.absolute}
}

// Append returns p followed by the segments of rel. The absolute flag of rel
// is ignored.
func (p Path) Append(rel Path) Path {
	return p.Join(rel.segments...)
}

// Normalize removes "." segments and collapses ".." against the preceding
// real segment. A relative path keeps leading ".." segments it cannot
// collapse; an absolute path climbing above the root is an error.
func (p Path) Normalize() (Path, error) {
	out := make([]string, 0, len(p.segments))
	for _, seg := range p.segments {
		switch seg {
		case current:
		case parent:
			if n := len(out); n > 0 && out[n-1] != parent {
				out = out[:n-1]
				continue
			}
			if p.absolute {
				return Path{}, errors.Newf(errors.ErrInvalidArgument, "path climbs above the root: %s", p)
			}
			out = append(out, parent)
		default:
			out = append(out, seg)
		}
	}
	return Path{segments: out, absolute: p.absolute}, nil
}

// IsNormalized reports whether p contains no "." and no collapsible "..".
func (p Path) IsNormalized() bool {
	n, err := p.Normalize()
	return err == nil && n.Equal(p)
}

// Combine resolves p against the absolute base. An absolute p ignores base.
// The result is normalized.
func Combine(base, p Path) (Path, error) {
	if p.absolute {
		return p.Normalize()
	}
	if !base.absolute {
		return Path{}, errors.Newf(errors.ErrInvalidArgument, "base path is not absolute: %s", base)
	}
	return base.Append(p).Normalize()
}

// Rel returns the shortest path that leads from base to target. Both must be
// absolute. Equal paths yield the empty relative path ("."); paths sharing
// no segment while base is not the root yield target unchanged.
func Rel(target, base Path) (Path, error) {
	if !target.absolute || !base.absolute {
		return Path{}, errors.Newf(errors.ErrInvalidArgument, "relative path needs two absolute paths: %s, %s", target, base)
	}
	t, err := target.Normalize()
	if err != nil {
		return Path{}, err
	}
	b, err := base.Normalize()
	if err != nil {
		return Path{}, err
	}

	common := 0
	for common < len(t.segments) && common < len(b.segments) && t.segments[common] == b.segments[common] {
		common++
	}
	if common == 0 && len(b.segments) > 0 {
		return t, nil
	}

	segs := make([]string, 0, len(b.segments)-common+len(t.segments)-common)
	for range len(b.segments) - common {
		segs = append(segs, parent)
	}
	segs = append(segs, t.segments[common:]...)
	return Path{segments: segs}, nil
}

// HasPrefix reports whether prefix is a segment-wise prefix of p. A path is
// a prefix of itself.
func (p Path) HasPrefix(prefix Path) bool {
	if p.absolute != prefix.absolute || len(prefix.segments) > len(p.segments) {
		return false
	}
	return slices.Equal(p.segments[:len(prefix.segments)], prefix.segments)
}

// TrimPrefix returns the relative remainder of p after prefix. If prefix is
// not a prefix of p, p is returned unchanged.
func (p Path) TrimPrefix(prefix Path) Path {
	if !p.HasPrefix(prefix) {
		return p
	}
	return Path{segments: slices.Clone(p.segments[len(prefix.segments):])}
}

// Rebase replaces the prefix from with to. Paths outside from are returned
// unchanged.
func (p Path) Rebase(from, to Path) Path {
	if !p.HasPrefix(from) {
		return p
	}
	return to.Append(p.TrimPrefix(from))
}

// SplitFixed splits p into its fixed prefix (the longest leading run of
// segments without wildcards, keeping p's absolute flag) and the remaining
// relative pattern segments.
func (p Path) SplitFixed(hasWildcard func(segment string) bool) (prefix, rest Path) {
	i := 0
	for i < len(p.segments) && !hasWildcard(p.segments[i]) {
		i++
	}
	prefix = Path{segments: slices.Clone(p.segments[:i]), absolute: p.absolute}
	rest = Path{segments: slices.Clone(p.segments[i:])}
	return prefix, rest
}

// FixedPrefix returns the wildcard-free prefix of p. See [Path.SplitFixed].
func (p Path) FixedPrefix(hasWildcard func(segment string) bool) Path {
	prefix, _ := p.SplitFixed(hasWildcard)
	return prefix
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	return p.absolute == o.absolute && slices.Equal(p.segments, o.segments)
}

// String formats p with [DefaultSyntax].
func (p Path) String() string {
	return p.Format(DefaultSyntax)
}

// Format renders p with the spellings of sx.
func (p Path) Format(sx Syntax) string {
	sep := sx.separator()
	if len(p.segments) == 0 {
		if p.absolute {
			return sep
		}
		return sx.Current
	}
	parts := make([]string, len(p.segments))
	for i, seg := range p.segments {
		switch seg {
		case current:
			parts[i] = sx.Current
		case parent:
			parts[i] = sx.Parent
		default:
			parts[i] = seg
		}
	}
	s := strings.Join(parts, sep)
	if p.absolute {
		return sep + s
	}
	return s
}

// Key returns a string usable as a map key. Distinct paths never share a
// key as long as segments do not contain NUL.
func (p Path) Key() string {
	k := strings.Join(p.segments, "\x00")
	if p.absolute {
		return "\x00" + k
	}
	return k
}
