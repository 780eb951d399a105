// Package types provides shared type definitions for the twigcontext MCP server.
//
// This package defines domain types used across multiple components,
// most importantly the parsed form of a Twig template name and the
// search results returned for indexed templates.
//
// # Template References
//
// Symfony accepts three template naming conventions. TemplateReference
// carries the decomposed parts of each one:
//
//	// Legacy bundle notation
//	ref := types.TemplateReference{
//	    Kind:      types.RefBundle,
//	    Namespace: "FooBundle",
//	    Dir:       "Bar",
//	    File:      "dummy.html.twig",
//	}
//	ref.String() // "FooBundle:Bar/dummy.html.twig"
//
//	// Namespaced notation
//	ref = types.TemplateReference{
//	    Kind:      types.RefNamespaced,
//	    Namespace: "Foo",
//	    Dir:       "Bar",
//	    File:      "dummy.html.twig",
//	}
//	ref.String() // "@Foo/Bar/dummy.html.twig"
//
// Plain references ("base.html.twig") use RefPath and resolve against the
// global template roots.
//
// Output paths always use "/" separators, whatever separator the raw
// name used.
//
// # Bundle Names
//
// A bundle "FooBundle" is addressed as "@Foo" in namespaced form:
//
//	types.ShortBundleName("FooBundle") // "Foo"
//
// # Validation
//
// References and search results implement Validate:
//
//	if err := ref.Validate(); err != nil {
//	    return err
//	}
//
// A reference never contains empty or ".." segments, so paths derived from it
// stay inside their template root.
package types
