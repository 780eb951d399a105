// Package resolver maps Twig template names to files and back.
//
// Symfony projects reference templates in several notations, all accepted by
// ParseTemplateReference:
//
//	FooBundle:Bar:dummy.html.twig   bundle notation (Bundle:Controller:file)
//	@Foo/Bar/dummy.html.twig        namespaced notation
//	base/layout.html.twig           plain path below a template root
//
// # Resolution Order
//
// A name expands to an ordered list of candidate roots. Configured roots from
// ide-twig.json and the Symfony twig configuration always come first, so an
// explicit mapping wins over a directory that merely follows a naming
// convention. After them:
//
//	@Foo/x        templates/bundles/Foo, app/Resources/FooBundle/views,
//	              <FooBundle>/Resources/views
//	FooBundle:x   "@Foo" mappings, bundle typed mappings,
//	              app/Resources/FooBundle/views, templates/bundles/Foo,
//	              <FooBundle>/Resources/views
//	x             global mappings, templates, app/Resources/views
//
// TemplateFiles returns the candidates that exist. GetCreateAbleTemplatePaths
// returns where a missing template may be created: every configured root and
// every convention root whose directory exists.
//
// # Override Names
//
// GetTemplateNameByOverwrite is the inverse for bundle override files. A file
// at app/Resources/FooBundle/views/Bar/a.html.twig is named
// FooBundle:Bar/a.html.twig, and resolving that name finds the file again.
// TemplateNames lists every name a file is reachable under, which the
// indexer stores for search.
//
// # Caching
//
// TemplateFiles results are kept in an LRU cache that is purged whenever the
// session generation changes.
package resolver
