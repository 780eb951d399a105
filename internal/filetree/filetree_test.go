package filetree

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() *FSTree {
	return New(fstest.MapFS{
		"app/Resources/FooBundle/views/layout.html.twig": {Data: []byte("{{ 1 }}")},
		"src/res/dummy.html.twig":                        {},
		"templates/base.html.twig":                       {},
	}, "/project")
}

func TestFindRelativeFile(t *testing.T) {
	tree := newTestTree()

	rel, ok := tree.FindRelativeFile("app", "Resources", "FooBundle", "views", "layout.html.twig")
	require.True(t, ok)
	assert.Equal(t, "app/Resources/FooBundle/views/layout.html.twig", rel)

	rel, ok = tree.FindRelativeFile("app/Resources/FooBundle/views/layout.html.twig")
	require.True(t, ok)
	assert.Equal(t, "app/Resources/FooBundle/views/layout.html.twig", rel)

	rel, ok = tree.FindRelativeFile(`src\res\dummy.html.twig`)
	require.True(t, ok)
	assert.Equal(t, "src/res/dummy.html.twig", rel)

	_, ok = tree.FindRelativeFile("app", "Resources")
	assert.False(t, ok, "directories are not files")

	_, ok = tree.FindRelativeFile("missing.html.twig")
	assert.False(t, ok)

	_, ok = tree.FindRelativeFile("..", "etc", "passwd")
	assert.False(t, ok)
}

func TestExistsAndIsDir(t *testing.T) {
	tree := newTestTree()

	assert.True(t, tree.Exists("src/res"))
	assert.True(t, tree.IsDir("src/res"))
	assert.True(t, tree.Exists("/src/res/dummy.html.twig"))
	assert.False(t, tree.IsDir("src/res/dummy.html.twig"))
	assert.False(t, tree.Exists("src/other"))
	assert.True(t, tree.IsDir(""))
}

func TestReadFile(t *testing.T) {
	tree := newTestTree()

	content, err := tree.ReadFile("app/Resources/FooBundle/views/layout.html.twig")
	require.NoError(t, err)
	assert.Equal(t, "{{ 1 }}", string(content))

	_, err = tree.ReadFile("../outside")
	assert.ErrorIs(t, err, ErrOutsideTree)
}

func TestWalk(t *testing.T) {
	tree := newTestTree()

	var files []string
	err := tree.Walk("", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"app/Resources/FooBundle/views/layout.html.twig",
		"src/res/dummy.html.twig",
		"templates/base.html.twig",
	}, files)
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"", ".", nil},
		{"/", ".", nil},
		{"a/b/../c", "a/c", nil},
		{`a\b`, "a/b", nil},
		{"//a//b/", "a/b", nil},
		{"..", "", ErrOutsideTree},
		{"a/../../b", "", ErrOutsideTree},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Clean(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "src/res/bar.html.twig", Join("src", "", "res", "bar.html.twig"))
	assert.Equal(t, "res", Join(".", "res"))
	assert.Equal(t, ".", Join("", "."))
}

func TestSkipDir(t *testing.T) {
	assert.True(t, SkipDir(".git"))
	assert.True(t, SkipDir("node_modules"))
	assert.True(t, SkipDir("var"))
	assert.False(t, SkipDir("."))
	assert.False(t, SkipDir("vendor"))
	assert.False(t, SkipDir("src"))
}
