package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Normalize(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "Trim Right Whitespace",
			path:     "/some/path ",
			expected: "/some/path",
		},
		{
			name:     "Trim Left Whitespace",
			path:     "   /some/path ",
			expected: "/some/path",
		},
		{
			name:     "Trim extra slashes",
			path:     "/some/path////",
			expected: "/some/path",
		},
		{
			name:     "Collapse inner slashes",
			path:     "/some//path",
			expected: "/some/path",
		},
		{
			name:     "Relative becomes absolute",
			path:     "some/path",
			expected: "/some/path",
		},
		{
			name:     "Root",
			path:     "/",
			expected: "/",
		},
		{
			name:     "Empty",
			path:     "",
			expected: "/",
		},
		{
			name:     "Dot segments",
			path:     "/some/./path/.",
			expected: "/some/path",
		},
		{
			name:     "Parent segment",
			path:     "/some/other/../path",
			expected: "/some/path",
		},
		{
			name:     "Parent segments clamp at root",
			path:     "/../../etc/secret",
			expected: "/etc/secret",
		},
		{
			name:     "Relative parent segments clamp at root",
			path:     "../a/../../b",
			expected: "/b",
		},
		{
			name:     "Only parent segments",
			path:     "/a/..",
			expected: "/",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Path(c.path).Normalize()
			expected := Path(c.expected)
			if got != expected {
				t.Errorf("Didn't normalize correctly ('%v' != '%v')", got, expected)
			}
		})
	}
}

func TestPath_AllPaths(t *testing.T) {
	path := Path("/some/path/to/a/file.txt")
	expected := []Path{
		Path("/"),
		Path("/some"),
		Path("/some/path"),
		Path("/some/path/to"),
		Path("/some/path/to/a"),
		Path("/some/path/to/a/file.txt"),
	}

	paths := path.AllPaths()
	if len(paths) != len(expected) {
		t.Fatalf("unexpected number of parent paths (%+v!=%v): %+v", len(paths), len(expected), paths)
	}

	for idx := range paths {
		if paths[idx] != expected[idx] {
			t.Errorf("unexpected path ('%v' != '%v')", paths[idx], expected[idx])
		}
	}

	assert.Equal(t, []Path{"/"}, Path("/").AllPaths())
}

func TestPath_ParentPath(t *testing.T) {
	path := Path("/some/path/to/a/file.txt")
	expected := Path("/some/path/to/a")

	actual, err := path.ParentPath()
	if err != nil {
		t.Fatal("no parent path", err)
	}
	if expected != actual {
		t.Fatalf("bad parent path: expected '%+v', got '%+v'", expected, actual)
	}
}

func TestPath_ParentPath_Root(t *testing.T) {
	path := Path("/home")

	parent, err := path.ParentPath()
	if err != nil {
		t.Fatal("expected /home to have parent path:", err)
	}
	if parent != RootPath {
		t.Fatalf("expected /home parent to be / , got '%v':", parent)
	}

	path = Path("/")

	parent, err = path.ParentPath()
	if err == nil {
		t.Fatalf("expected no parent path, got one: '%+v'", parent)
	}
}

func TestPath_Join(t *testing.T) {
	assert.Equal(t, Path("/a/b/c"), Path("/a").Join("b", "c"))
	assert.Equal(t, Path("/c"), RootPath.Join("c"))
	assert.Equal(t, "c", Path("/a/b/c/").Basename())
	assert.Equal(t, 3, Path("/a/b/c/").Depth())
}

func TestPath_Segments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "/", want: nil},
		{path: "/a/b", want: []string{"a", "b"}},
		{path: "/a/x/../b", want: []string{"a", "b"}},
		{path: "/../../a", want: []string{"a"}},
		{path: "/a/b/../..", want: nil},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			assert.Equal(t, test.want, Path(test.path).Segments())
		})
	}
}
