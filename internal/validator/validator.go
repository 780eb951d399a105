// Package validator decides which string literals are usable as template
// names.
//
// A string qualifies only when its value is fully known at analysis time:
// it must not contain #{...} interpolations and must not be concatenated
// with ~ on either side. Callers check IsValidTemplateString before handing
// a string to the resolver.
package validator

import "github.com/dshills/twigcontext-mcp/internal/parser"

// IsValidTemplateString reports whether the string literal containing node
// is a plain, non-interpolated and non-concatenated literal.
// node may be the string itself or any node inside it.
func IsValidTemplateString(node *parser.Node) bool {
	str := node.Ancestor(parser.KindString)
	if str == nil {
		return false
	}

	if str.HasInterpolation() {
		return false
	}

	if str.PrevSiblingSkipping(parser.KindWhitespace).Is(parser.KindConcat) {
		return false
	}
	if str.NextSiblingSkipping(parser.KindWhitespace).Is(parser.KindConcat) {
		return false
	}

	return true
}

// TemplateString returns the value of the string literal containing node
// when it passes IsValidTemplateString
func TemplateString(node *parser.Node) (string, bool) {
	if !IsValidTemplateString(node) {
		return "", false
	}
	return node.Ancestor(parser.KindString).Value()
}
