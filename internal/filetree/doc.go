// Package filetree provides the read-only project file tree the resolvers query.
//
// The tree is a capability handed to the analysis code; it never writes and
// never watches. Any fs.FS can back it, which keeps tests in memory:
//
//	tree := filetree.New(fstest.MapFS{
//	    "app/Resources/FooBundle/views/layout.html.twig": {},
//	}, "/project")
//
//	rel, ok := tree.FindRelativeFile("app", "Resources", "FooBundle", "views", "layout.html.twig")
//
// Production code roots the tree at a directory on disk:
//
//	tree := filetree.NewOS("/path/to/project")
//
// Paths going in may use "\" or "/" separators; paths coming out are always
// "/" separated and relative to the root. Paths escaping the root are
// rejected with ErrOutsideTree.
package filetree
