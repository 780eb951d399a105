// Package config loads the template path mappings a Symfony project declares.
//
// Two sources feed a TemplatePathMapping:
//   - ide-twig.json descriptors anywhere in the project, relative to their
//     own directory
//   - the twig section of config/packages/twig.yaml or app/config/config.yml
//
// # ide-twig.json
//
// The plugin shape lists namespaces explicitly:
//
//	{
//	    "namespaces": [
//	        {"namespace": "foo", "path": "res"},
//	        {"path": "res"},
//	        {"namespace": "FooBundle", "path": "res", "type": "Bundle"}
//	    ]
//	}
//
// An entry without a namespace (or with "__main__") serves plain names like
// "base.html.twig". Bundle typed entries serve "FooBundle:Bar:dummy.html.twig"
// names. The compact map shape {"foo": ["res"]} is accepted as well.
//
// # Lookups
//
// Namespace lookups are exact and case-sensitive. Entries keep declaration
// order, which is the order the resolver tries them in:
//
//	roots := mapping.Lookup("foo", config.TypePath)
//
// # Error Handling
//
// A broken descriptor never aborts loading. Parse functions return every
// valid entry together with an error describing the rejected ones, and a
// missing descriptor is simply absent.
package config
