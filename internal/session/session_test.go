package session

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/dshills/twigcontext-mcp/internal/config"
	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject() fstest.MapFS {
	return fstest.MapFS{
		"src/ide-twig.json":                                      {Data: []byte(`{"namespaces": [{"namespace": "foo", "path": "res"}]}`)},
		"config/packages/twig.yaml":                              {Data: []byte("twig:\n    paths:\n        'lib/views': lib\n")},
		"src/FooBundle/Resources/views/index.html.twig":          {Data: []byte("foo")},
		"src/Acme/BarBundle/Resources/views/Default/a.html.twig": {Data: []byte("bar")},
		"src/EmptyBundle/Controller/x.php":                       {Data: []byte("<?php")},
		"node_modules/HiddenBundle/Resources/views/x.html.twig":  {Data: []byte("x")},
	}
}

func TestNew_EmptySnapshot(t *testing.T) {
	s := New(filetree.New(newProject(), "/p"))

	assert.Equal(t, 0, s.Mapping().Len())
	assert.Empty(t, s.Bundles())
	assert.Equal(t, uint64(0), s.Generation())
}

func TestLoad(t *testing.T) {
	s := New(filetree.New(newProject(), "/p"))
	require.NoError(t, s.Load(context.Background()))

	entries := s.Mapping().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "foo", entries[0].Namespace, "ide-twig.json entries come first")
	assert.Equal(t, "src/res", entries[0].Dir)
	assert.Equal(t, "lib", entries[1].Namespace)
	assert.Equal(t, "lib/views", entries[1].Dir)

	assert.Equal(t, []Bundle{
		{Name: "BarBundle", Dir: "src/Acme/BarBundle"},
		{Name: "FooBundle", Dir: "src/FooBundle"},
	}, s.Bundles())
	assert.Equal(t, "src/FooBundle/Resources/views", s.Bundles()[1].ViewsDir())
	assert.Equal(t, uint64(1), s.Generation())
}

func TestLoad_MissingConfiguration(t *testing.T) {
	s := New(filetree.New(fstest.MapFS{
		"templates/base.html.twig": {Data: []byte("x")},
	}, "/p"))

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Mapping().Len())
	assert.Empty(t, s.Bundles())
}

func TestLoad_InvalidConfigurationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	fsys := newProject()
	fsys["ide-twig.json"] = &fstest.MapFile{Data: []byte(`{not json`)}

	s := New(filetree.New(fsys, "/p"), WithLogger(logger))
	require.NoError(t, s.Load(context.Background()))

	assert.Contains(t, buf.String(), "invalid template path configuration")
	assert.Len(t, s.Mapping().Lookup("foo", config.TypePath), 1)
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(filetree.New(newProject(), "/p"))
	assert.Error(t, s.Load(ctx))
	assert.Equal(t, uint64(0), s.Generation())
}

func TestInvalidate(t *testing.T) {
	s := New(filetree.New(newProject(), "/p"))
	require.NoError(t, s.Load(context.Background()))

	before := s.Current()
	s.Invalidate()

	assert.Equal(t, 0, s.Mapping().Len())
	assert.Empty(t, s.Bundles())
	assert.Equal(t, uint64(2), s.Generation())
	assert.Equal(t, 2, before.Mapping.Len(), "old snapshots are not modified")

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, uint64(3), s.Generation())
	assert.Equal(t, 2, s.Mapping().Len())
}

func TestSnapshot_Bundle(t *testing.T) {
	snap := &Snapshot{Bundles: []Bundle{
		{Name: "FooBundle", Dir: "a/FooBundle"},
		{Name: "BarBundle", Dir: "b/BarBundle"},
		{Name: "FooBundle", Dir: "c/FooBundle"},
	}}

	found := snap.Bundle("FooBundle")
	require.Len(t, found, 2)
	assert.Equal(t, "a/FooBundle", found[0].Dir)
	assert.Empty(t, snap.Bundle("Foo"))
}
