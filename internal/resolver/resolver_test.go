package resolver

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/internal/session"
	"github.com/dshills/twigcontext-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ideTwigJSON = `{
  "namespaces": [
    {"namespace": "foo", "path": "res"},
    {"path": "res"},
    {"namespace": "FooBundle", "path": "res", "type": "Bundle"}
  ]
}`

var overrideFiles = []string{
	"app/Resources/TwigUtilIntegrationBundle/views/layout.html.twig",
	"app/Resources/TwigUtilIntegrationBundle/views/Foo/layout.html.twig",
	"app/Resources/TwigUtilIntegrationBundle/views/Foo/Bar/layout.html.twig",
}

func newResolver(t *testing.T, fsys fstest.MapFS) *Resolver {
	t.Helper()
	sess := session.New(filetree.New(fsys, "/project"))
	require.NoError(t, sess.Load(context.Background()))
	return New(sess)
}

func dummyFiles(paths ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, p := range paths {
		fsys[p] = &fstest.MapFile{Data: []byte("{# dummy #}")}
	}
	return fsys
}

func TestGetTemplateNameByOverwrite(t *testing.T) {
	tree := filetree.New(dummyFiles(overrideFiles...), "/project")

	tests := []struct {
		file string
		want string
	}{
		{overrideFiles[0], "TwigUtilIntegrationBundle:layout.html.twig"},
		{overrideFiles[1], "TwigUtilIntegrationBundle:Foo/layout.html.twig"},
		{overrideFiles[2], "TwigUtilIntegrationBundle:Foo/Bar/layout.html.twig"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			name, ok := GetTemplateNameByOverwrite(tree, tt.file)
			assert.True(t, ok)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestGetTemplateNameByOverwrite_Absent(t *testing.T) {
	tree := filetree.New(dummyFiles(
		"app/Resources/views/base.html.twig",
		"app/Resources/NotABundleDir/views/a.html.twig",
		"src/FooBundle/Resources/views/a.html.twig",
	), "/project")

	for _, file := range []string{
		"app/Resources/views/base.html.twig",
		"app/Resources/NotABundleDir/views/a.html.twig",
		"src/FooBundle/Resources/views/a.html.twig",
		"app/Resources/MissingBundle/views/a.html.twig",
		"app/Resources/views",
	} {
		t.Run(file, func(t *testing.T) {
			_, ok := GetTemplateNameByOverwrite(tree, file)
			assert.False(t, ok)
		})
	}
}

func TestGetTemplateNameByOverwrite_TemplatesBundles(t *testing.T) {
	tree := filetree.New(dummyFiles("templates/bundles/Twig/Foo/layout.html.twig"), "/project")

	name, ok := GetTemplateNameByOverwrite(tree, "templates/bundles/Twig/Foo/layout.html.twig")
	assert.True(t, ok)
	assert.Equal(t, "@Twig/Foo/layout.html.twig", name)
}

func TestOverwriteRoundTrip(t *testing.T) {
	files := append([]string{"templates/bundles/Twig/layout.html.twig"}, overrideFiles...)
	r := newResolver(t, dummyFiles(files...))

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			name, ok := r.TemplateNameByOverwrite(file)
			require.True(t, ok)
			assert.Contains(t, r.TemplateFiles(name), file)

			resolved, ok := r.GetTemplateName(name)
			assert.True(t, ok)
			assert.Equal(t, file, resolved)
		})
	}
}

func TestGetCreateAbleTemplatePaths(t *testing.T) {
	fsys := dummyFiles("src/res/dummy.html.twig", "src/res/foo/dummy.html.twig")
	fsys["src/ide-twig.json"] = &fstest.MapFile{Data: []byte(ideTwigJSON)}
	r := newResolver(t, fsys)

	tests := []struct {
		name string
		want string
	}{
		{"@foo/bar.html.twig", "src/res/bar.html.twig"},
		{"bar.html.twig", "src/res/bar.html.twig"},
		{"FooBundle:Bar:dummy.html.twig", "src/res/Bar/dummy.html.twig"},
		{"FooBundle:Bar\\Foo:dummy.html.twig", "src/res/Bar/Foo/dummy.html.twig"},
		{"FooBundle:Bar:Foo\\dummy.html.twig", "src/res/Bar/Foo/dummy.html.twig"},
		{"@FooBundle/Bar/dummy.html.twig", "src/res/Bar/dummy.html.twig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, r.GetCreateAbleTemplatePaths(tt.name), tt.want)
		})
	}
}

func TestGetCreateAbleTemplatePaths_MapShape(t *testing.T) {
	fsys := dummyFiles("src/res/dummy.html.twig")
	fsys["src/ide-twig.json"] = &fstest.MapFile{Data: []byte(`{
  "foo": ["res"],
  "__main__": ["res"],
  "FooBundle": "res"
}`)}
	r := newResolver(t, fsys)

	tests := []struct {
		name string
		want []string
	}{
		{"@foo/bar.html.twig", []string{"src/res/bar.html.twig"}},
		{"bar.html.twig", []string{"src/res/bar.html.twig"}},
		{"@FooBundle/Bar/dummy.html.twig", []string{"src/res/Bar/dummy.html.twig"}},
		// Map entries are namespaces, not bundle roots
		{"FooBundle:Bar:dummy.html.twig", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.GetCreateAbleTemplatePaths(tt.name))
		})
	}
}

func TestTemplateNames_BundleMapping(t *testing.T) {
	fsys := dummyFiles("src/res/Bar/dummy.html.twig")
	fsys["src/ide-twig.json"] = &fstest.MapFile{Data: []byte(ideTwigJSON)}
	r := newResolver(t, fsys)

	names := r.TemplateNames("src/res/Bar/dummy.html.twig")
	assert.Equal(t, []string{
		"@foo/Bar/dummy.html.twig",
		"Bar/dummy.html.twig",
		"FooBundle:Bar/dummy.html.twig",
		"@FooBundle/Bar/dummy.html.twig",
	}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, r.TemplateFiles(name), "src/res/Bar/dummy.html.twig")
		})
	}
}

func TestGetCreateAbleTemplatePaths_Empty(t *testing.T) {
	fsys := dummyFiles("src/res/dummy.html.twig")
	fsys["src/ide-twig.json"] = &fstest.MapFile{Data: []byte(`{"namespaces": [{"namespace": "foo", "path": "res"}]}`)}
	r := newResolver(t, fsys)

	for _, name := range []string{
		"",
		"@foo",
		"not a template",
		"../escape.html.twig",
		"A:B:C:d.html.twig",
		"@unknown/bar.html.twig",
		"UnknownBundle:Bar:bar.html.twig",
		"bar.html.twig",
	} {
		t.Run(name, func(t *testing.T) {
			paths := r.GetCreateAbleTemplatePaths(name)
			assert.NotNil(t, paths)
			assert.Empty(t, paths)
		})
	}
}

func TestGetCreateAbleTemplatePaths_OnePathPerRoot(t *testing.T) {
	fsys := dummyFiles("templates/bundles/Acme/.keep", "src/AcmeBundle/Resources/views/.keep")
	fsys["ide-twig.json"] = &fstest.MapFile{Data: []byte(`{"Acme": ["one", "two"]}`)}
	r := newResolver(t, fsys)

	assert.Equal(t, []string{
		"one/page.html.twig",
		"two/page.html.twig",
		"templates/bundles/Acme/page.html.twig",
		"src/AcmeBundle/Resources/views/page.html.twig",
	}, r.GetCreateAbleTemplatePaths("@Acme/page.html.twig"))
}

func priorityFixture() fstest.MapFS {
	fsys := dummyFiles(
		"custom/acme/page.html.twig",
		"templates/bundles/Acme/page.html.twig",
		"app/Resources/AcmeBundle/views/page.html.twig",
		"src/AcmeBundle/Resources/views/page.html.twig",
		"templates/base.html.twig",
		"app/Resources/views/base.html.twig",
	)
	fsys["ide-twig.json"] = &fstest.MapFile{Data: []byte(`{"namespaces": [{"namespace": "Acme", "path": "custom/acme"}]}`)}
	return fsys
}

func TestTemplateFiles_Priority(t *testing.T) {
	r := newResolver(t, priorityFixture())

	tests := []struct {
		name string
		want []string
	}{
		{"@Acme/page.html.twig", []string{
			"custom/acme/page.html.twig",
			"templates/bundles/Acme/page.html.twig",
			"app/Resources/AcmeBundle/views/page.html.twig",
			"src/AcmeBundle/Resources/views/page.html.twig",
		}},
		{"AcmeBundle:page.html.twig", []string{
			"custom/acme/page.html.twig",
			"app/Resources/AcmeBundle/views/page.html.twig",
			"templates/bundles/Acme/page.html.twig",
			"src/AcmeBundle/Resources/views/page.html.twig",
		}},
		{"base.html.twig", []string{
			"templates/base.html.twig",
			"app/Resources/views/base.html.twig",
		}},
		{"::base.html.twig", []string{
			"app/Resources/views/base.html.twig",
			"templates/base.html.twig",
		}},
		{"missing.html.twig", []string{}},
		{"not a name", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.TemplateFiles(tt.name))
		})
	}
}

func TestTemplateFiles_CacheDroppedOnReload(t *testing.T) {
	fsys := dummyFiles("templates/base.html.twig")
	r := newResolver(t, fsys)

	assert.Empty(t, r.TemplateFiles("new.html.twig"))

	fsys["templates/new.html.twig"] = &fstest.MapFile{Data: []byte("x")}
	assert.Empty(t, r.TemplateFiles("new.html.twig"), "cached until the session changes")

	r.Session().Invalidate()
	assert.Equal(t, []string{"templates/new.html.twig"}, r.TemplateFiles("new.html.twig"))
}

func TestTemplateFiles_ResultIsCopied(t *testing.T) {
	r := newResolver(t, dummyFiles("templates/base.html.twig"))

	files := r.TemplateFiles("base.html.twig")
	require.Len(t, files, 1)
	files[0] = "changed"
	assert.Equal(t, []string{"templates/base.html.twig"}, r.TemplateFiles("base.html.twig"))
}

func TestTemplateNames(t *testing.T) {
	r := newResolver(t, priorityFixture())

	tests := []struct {
		file string
		want []string
	}{
		{"src/AcmeBundle/Resources/views/page.html.twig", []string{"AcmeBundle:page.html.twig", "@Acme/page.html.twig"}},
		{"custom/acme/page.html.twig", []string{"@Acme/page.html.twig"}},
		{"app/Resources/AcmeBundle/views/page.html.twig", []string{"AcmeBundle:page.html.twig"}},
		{"templates/bundles/Acme/page.html.twig", []string{"@Acme/page.html.twig", "bundles/Acme/page.html.twig"}},
		{"templates/base.html.twig", []string{"base.html.twig"}},
		{"app/Resources/views/base.html.twig", []string{"base.html.twig"}},
		{"elsewhere/x.html.twig", nil},
		{"../x.html.twig", nil},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, r.TemplateNames(tt.file))
		})
	}
}

func TestCandidates(t *testing.T) {
	r := newResolver(t, priorityFixture())

	got := r.Candidates("AcmeBundle:Default:page.html.twig")
	require.NotEmpty(t, got)
	assert.Equal(t, Candidate{Root: "custom/acme", Path: "custom/acme/Default/page.html.twig", Source: SourceMapping}, got[0])
	assert.Equal(t, SourceBundle, got[len(got)-1].Source)

	assert.Nil(t, r.Candidates("::"))
}

func TestParseTemplateReference(t *testing.T) {
	tests := []struct {
		raw  string
		want types.TemplateReference
	}{
		{"@foo/bar.html.twig", types.TemplateReference{Kind: types.RefNamespaced, Namespace: "foo", File: "bar.html.twig"}},
		{"@FooBundle/Bar/dummy.html.twig", types.TemplateReference{Kind: types.RefNamespaced, Namespace: "FooBundle", Dir: "Bar", File: "dummy.html.twig"}},
		{"FooBundle:Bar:dummy.html.twig", types.TemplateReference{Kind: types.RefBundle, Namespace: "FooBundle", Dir: "Bar", File: "dummy.html.twig"}},
		{"FooBundle:Bar\\Foo:dummy.html.twig", types.TemplateReference{Kind: types.RefBundle, Namespace: "FooBundle", Dir: "Bar/Foo", File: "dummy.html.twig"}},
		{"FooBundle:Bar:Foo\\dummy.html.twig", types.TemplateReference{Kind: types.RefBundle, Namespace: "FooBundle", Dir: "Bar/Foo", File: "dummy.html.twig"}},
		{"FooBundle:Foo/layout.html.twig", types.TemplateReference{Kind: types.RefBundle, Namespace: "FooBundle", Dir: "Foo", File: "layout.html.twig"}},
		{"FooBundle::layout.html.twig", types.TemplateReference{Kind: types.RefBundle, Namespace: "FooBundle", File: "layout.html.twig"}},
		{"::base.html.twig", types.TemplateReference{Kind: types.RefBundle, File: "base.html.twig"}},
		{":Default:index.html.twig", types.TemplateReference{Kind: types.RefBundle, Dir: "Default", File: "index.html.twig"}},
		{"bar.html.twig", types.TemplateReference{Kind: types.RefPath, File: "bar.html.twig"}},
		{"a/b/c.html.twig", types.TemplateReference{Kind: types.RefPath, Dir: "a/b", File: "c.html.twig"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseTemplateReference(tt.raw)
			require.True(t, ok)
			tt.want.Raw = tt.raw
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTemplateReference_Malformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"@",
		"@foo",
		"@/bar.html.twig",
		"@foo/",
		"A:B:C:d.html.twig",
		"Foo Bundle:x.html.twig",
		"Foo:x.html.twig",
		"Foo:Bar:baz.html.twig",
		"Bundle:x.html.twig",
		"FooBundle:Bar:",
		"../x.html.twig",
		"a//b.html.twig",
		"a b.html.twig",
		"{{ x }}",
	} {
		t.Run(raw, func(t *testing.T) {
			_, ok := ParseTemplateReference(raw)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeTemplateName(t *testing.T) {
	assert.Equal(t, "FooBundle:Bar/Foo/dummy.html.twig", NormalizeTemplateName("FooBundle:Bar\\Foo:dummy.html.twig"))
	assert.Equal(t, "FooBundle:Bar/dummy.html.twig", NormalizeTemplateName("FooBundle:Bar:dummy.html.twig"))
	assert.Equal(t, "@foo/bar/baz.html.twig", NormalizeTemplateName("@foo\\bar\\baz.html.twig"))
	assert.Equal(t, "base.html.twig", NormalizeTemplateName(" base.html.twig "))
	assert.Equal(t, "not a/name", NormalizeTemplateName("not a\\name"))
}
