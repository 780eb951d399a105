// Package parser builds a syntax tree from Twig template source.
//
// The parser is a tokenizer and tree builder for the parts of Twig that
// template analysis needs: text, comments, print blocks, tags, paired blocks,
// string literals (with interpolations), filters and bracket groups. It does
// not evaluate expressions and does not know operator precedence.
//
// # Basic Usage
//
//	doc := parser.Parse(source)
//	node := doc.NodeAt(offset)
//	if str := node.Ancestor(parser.KindString); str != nil {
//	    value, ok := str.Value()
//	    ...
//	}
//
// # Tree Shape
//
// Every tag is a KindTag node holding its delimiters, the tag name and its
// tokens. Tags with a body such as if, for, block or trans are wrapped in a
// KindBlock node together with their content and end tag; embed gets its own
// KindEmbed kind because it opens a new scope:
//
//	document
//	  tag (trans_default_domain)
//	  embed
//	    tag (embed)
//	    text
//	    print_block
//	    tag (endembed)
//
// Inside blocks, string literals are KindString nodes whose children are the
// quotes, KindStringText runs and KindInterpolation groups. A filter such as
// |trans('x') is a single KindFilter node holding the pipe, the name and its
// KindParens argument group, so the filter directly follows the string it
// applies to in the sibling list.
//
// # Error Handling
//
// Parse never fails. Unterminated blocks, strings and stray end tags are
// recorded in Document.Errors and the partial tree is kept:
//
//	doc := parser.Parse(src)
//	if doc.HasErrors() {
//	    for _, parseErr := range doc.Errors {
//	        fmt.Printf("Parse error: %v\n", parseErr)
//	    }
//	}
//
// This allows indexing to continue even when some templates are broken.
//
// # Offsets
//
// Node.Start and Node.End are byte offsets into the source, End exclusive.
// Document.Position converts an offset to a 1-based line and column.
package parser
