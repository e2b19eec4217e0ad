package file

import (
	"fmt"
	"path"
	"strings"
)

const (
	DirSeparator = "/"
	RootPath     = Path(DirSeparator)
)

// Path is a "/"-delimited location within a repository. Paths are always interpreted as absolute.
type Path string

// Normalize trims surrounding whitespace, collapses repeated separators, resolves "." and ".." elements (clamped at
// the root) and removes any trailing separator. The root path normalizes to "/".
func (p Path) Normalize() Path {
	segments := p.Segments()
	if len(segments) == 0 {
		return RootPath
	}
	return Path(DirSeparator + strings.Join(segments, DirSeparator))
}

// Segments returns the non-empty elements of the path, in order from the root. "." elements are dropped and ".."
// removes the preceding element; a path can never climb above the root.
func (p Path) Segments() []string {
	trimmed := strings.Trim(string(p), " ")
	var segments []string
	for _, s := range strings.Split(trimmed, DirSeparator) {
		switch s {
		case "", ".":
			continue
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func (p Path) IsRoot() bool {
	return p.Normalize() == RootPath
}

func (p Path) Basename() string {
	return path.Base(string(p.Normalize()))
}

func (p Path) Depth() int {
	return len(p.Segments())
}

func (p Path) ParentPath() (Path, error) {
	normalized := p.Normalize()
	if normalized == RootPath {
		return "", fmt.Errorf("no parent")
	}
	parent, _ := path.Split(string(normalized))
	return Path(parent).Normalize(), nil
}

// Join appends the given elements to this path and normalizes the result.
func (p Path) Join(elems ...string) Path {
	return Path(path.Join(append([]string{string(p)}, elems...)...)).Normalize()
}

// AllPaths returns every ancestor of this path (starting with the root) followed by the path itself.
func (p Path) AllPaths() []Path {
	segments := p.Segments()
	fullPaths := make([]Path, len(segments)+1)
	fullPaths[0] = RootPath
	for idx := range segments {
		fullPaths[idx+1] = Path(DirSeparator + strings.Join(segments[:idx+1], DirSeparator))
	}
	return fullPaths
}

func (p Path) String() string {
	return string(p)
}

type Paths []Path

func (p Paths) Len() int           { return len(p) }
func (p Paths) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p Paths) Less(i, j int) bool { return p[i] < p[j] }
