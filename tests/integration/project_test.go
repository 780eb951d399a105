package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/twigcontext-mcp/internal/config"
	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/internal/indexer"
	"github.com/dshills/twigcontext-mcp/internal/resolver"
	"github.com/dshills/twigcontext-mcp/internal/searcher"
	"github.com/dshills/twigcontext-mcp/internal/session"
	"github.com/dshills/twigcontext-mcp/internal/storage"
	"github.com/dshills/twigcontext-mcp/pkg/types"
)

const fixtureTemplates = 7

// ProjectTestSuite runs resolution and indexing against the fixture project
type ProjectTestSuite struct {
	suite.Suite
	storage     storage.Storage
	indexer     *indexer.Indexer
	resolver    *resolver.Resolver
	fixturesDir string
	ctx         context.Context
}

// SetupSuite runs once before all tests
func (s *ProjectTestSuite) SetupSuite() {
	s.ctx = context.Background()

	wd, err := os.Getwd()
	s.Require().NoError(err)
	s.fixturesDir = filepath.Join(filepath.Dir(wd), "testdata", "fixtures")

	_, err = os.Stat(s.fixturesDir)
	s.Require().NoError(err, "fixtures directory should exist")

	sess := session.New(filetree.NewOS(s.fixturesDir))
	s.Require().NoError(sess.Load(s.ctx))
	s.resolver = resolver.New(sess)
}

// SetupTest runs before each test
func (s *ProjectTestSuite) SetupTest() {
	store, err := storage.NewSQLiteStorage(":memory:")
	s.Require().NoError(err)
	s.storage = store
	s.indexer = indexer.New(s.storage)
}

// TearDownTest runs after each test
func (s *ProjectTestSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *ProjectTestSuite) index() *storage.Project {
	stats, err := s.indexer.IndexProject(s.ctx, s.fixturesDir, &indexer.Config{Workers: 2, BatchSize: 3})
	s.Require().NoError(err)
	s.Require().Equal(fixtureTemplates, stats.TemplatesIndexed, "errors: %v", stats.ErrorMessages)
	s.Equal(0, stats.ParseErrors)

	project, err := s.storage.GetProject(s.ctx, s.fixturesDir)
	s.Require().NoError(err)
	return project
}

// TestSessionLoaded checks both configuration sources and the bundle scan
func (s *ProjectTestSuite) TestSessionLoaded() {
	sess := s.resolver.Session()

	s.Len(sess.Bundles(), 1)
	s.Equal("AcmeBundle", sess.Bundles()[0].Name)

	mapping := sess.Mapping()
	s.NotEmpty(mapping.Lookup("theme", config.TypePath), "ide-twig.json namespace")
	s.NotEmpty(mapping.Lookup("shared", config.TypePath), "twig.yaml namespace")
}

// TestTemplateFiles resolves every naming convention the fixtures use
func (s *ProjectTestSuite) TestTemplateFiles() {
	tests := []struct {
		name string
		want []string
	}{
		{"base.html.twig", []string{"templates/base.html.twig"}},
		{"@theme/header.html.twig", []string{"themes/default/header.html.twig"}},
		{"@shared/macros.html.twig", []string{"shared/macros.html.twig"}},
		{"@Acme/layout.html.twig", []string{
			"templates/bundles/Acme/layout.html.twig",
			"src/AcmeBundle/Resources/views/layout.html.twig",
		}},
		{"AcmeBundle::layout.html.twig", []string{
			"templates/bundles/Acme/layout.html.twig",
			"src/AcmeBundle/Resources/views/layout.html.twig",
		}},
		{"AcmeBundle:Default:index.html.twig", []string{
			"app/Resources/AcmeBundle/views/Default/index.html.twig",
			"src/AcmeBundle/Resources/views/Default/index.html.twig",
		}},
		{"missing.html.twig", []string{}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, s.resolver.TemplateFiles(tt.name))
		})
	}
}

// TestOverwriteNames maps override files back to the names they replace
func (s *ProjectTestSuite) TestOverwriteNames() {
	name, ok := s.resolver.TemplateNameByOverwrite("templates/bundles/Acme/layout.html.twig")
	s.True(ok)
	s.Equal("@Acme/layout.html.twig", name)

	name, ok = s.resolver.TemplateNameByOverwrite("app/Resources/AcmeBundle/views/Default/index.html.twig")
	s.True(ok)
	s.Equal("AcmeBundle:Default/index.html.twig", name)

	_, ok = s.resolver.TemplateNameByOverwrite("templates/base.html.twig")
	s.False(ok)
}

// TestCreateAblePaths offers the configured and existing roots
func (s *ProjectTestSuite) TestCreateAblePaths() {
	s.Equal([]string{"themes/default/footer.html.twig"},
		s.resolver.GetCreateAbleTemplatePaths("@theme/footer.html.twig"))

	s.Equal([]string{
		"templates/bundles/Acme/new.html.twig",
		"app/Resources/AcmeBundle/views/new.html.twig",
		"src/AcmeBundle/Resources/views/new.html.twig",
	}, s.resolver.GetCreateAbleTemplatePaths("@Acme/new.html.twig"))
}

// TestIndexedDomains checks the file level domains stored per template
func (s *ProjectTestSuite) TestIndexedDomains() {
	project := s.index()

	domains := map[string]string{
		"templates/base.html.twig":                               "app",
		"src/AcmeBundle/Resources/views/Default/index.html.twig": "acme",
		"themes/default/header.html.twig":                        "",
	}
	for file, want := range domains {
		tmpl, err := s.storage.GetTemplate(s.ctx, project.ID, file)
		s.Require().NoError(err, file)
		s.Equal(want, tmpl.DefaultDomain, file)
	}
}

// TestIndexedReferences follows extends, include and import edges
func (s *ProjectTestSuite) TestIndexedReferences() {
	project := s.index()

	refs, err := s.storage.ListReferencesByTarget(s.ctx, project.ID, "base.html.twig")
	s.Require().NoError(err)
	var files []string
	for _, r := range refs {
		s.Equal("extends", r.Tag)
		files = append(files, r.FilePath)
	}
	s.ElementsMatch([]string{
		"templates/bundles/Acme/layout.html.twig",
		"src/AcmeBundle/Resources/views/layout.html.twig",
	}, files)

	refs, err = s.storage.ListReferencesByTarget(s.ctx, project.ID, "@shared/macros.html.twig")
	s.Require().NoError(err)
	s.Require().Len(refs, 1)
	s.Equal("import", refs[0].Tag)
	s.Equal(3, refs[0].Line)

	refs, err = s.storage.ListReferencesByTarget(s.ctx, project.ID, "AcmeBundle:layout.html.twig")
	s.Require().NoError(err)
	s.Require().Len(refs, 1)
	s.Equal("app/Resources/AcmeBundle/views/Default/index.html.twig", refs[0].FilePath)
}

// TestIndexedTranslations checks keys with explicit and inherited domains
func (s *ProjectTestSuite) TestIndexedTranslations() {
	project := s.index()

	want := map[string]string{
		"site.title":  "app",
		"welcome":     "acme",
		"goodbye":     "messages",
		"site.header": "",
	}
	for key, domain := range want {
		matches, err := s.storage.ListTranslationsByKey(s.ctx, project.ID, key)
		s.Require().NoError(err, key)
		s.Require().Len(matches, 1, key)
		s.Equal(domain, matches[0].Domain, key)
	}
}

// TestSearch ranks names across the whole fixture project
func (s *ProjectTestSuite) TestSearch() {
	project := s.index()
	srch := searcher.NewSearcher(s.storage)

	resp, err := srch.Search(s.ctx, searcher.SearchRequest{
		Query:     "base.html.twig",
		ProjectID: project.ID,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(resp.Results)
	s.Equal("base.html.twig", resp.Results[0].Name)
	s.Equal(1.0, resp.Results[0].RelevanceScore)

	resp, err = srch.Search(s.ctx, searcher.SearchRequest{
		Query:     "index",
		ProjectID: project.ID,
		Kinds:     []types.ReferenceKind{types.RefNamespaced},
	})
	s.Require().NoError(err)
	s.Require().Len(resp.Results, 1)
	s.Equal("@Acme/Default/index.html.twig", resp.Results[0].Name)
}

// TestReindexSkipsUnchanged reruns the indexer over an unchanged tree
func (s *ProjectTestSuite) TestReindexSkipsUnchanged() {
	s.index()

	stats, err := s.indexer.IndexProject(s.ctx, s.fixturesDir, nil)
	s.Require().NoError(err)
	s.Equal(0, stats.TemplatesIndexed)
	s.Equal(fixtureTemplates, stats.TemplatesSkipped)
	s.Equal(0, stats.TemplatesRemoved)
}

func TestProjectSuite(t *testing.T) {
	suite.Run(t, new(ProjectTestSuite))
}
