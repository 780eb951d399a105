package indexer

import (
	"github.com/dshills/twigcontext-mcp/internal/parser"
	"github.com/dshills/twigcontext-mcp/internal/resolver"
	"github.com/dshills/twigcontext-mcp/internal/translation"
	"github.com/dshills/twigcontext-mcp/internal/validator"
)

// Reference is a literal template name used inside a template
type Reference struct {
	Tag    string // Tag or function name
	Target string // Normalized template name
	Offset int    // Offset of the string literal
}

// referenceTags take template names as operands
var referenceTags = map[string]bool{
	"extends": true,
	"include": true,
	"embed":   true,
	"import":  true,
	"from":    true,
	"use":     true,
}

// referenceFunctions take a template name as first argument
var referenceFunctions = map[string]bool{
	"include": true,
	"source":  true,
}

// operandStops end the template part of a tag
var operandStops = map[string]bool{
	"with":   true,
	"only":   true,
	"ignore": true,
	"as":     true,
	"import": true,
}

// References lists the template names a document refers to, in document
// order. Only strings that pass validator.IsValidTemplateString count.
func References(doc *parser.Document) []Reference {
	var out []Reference

	doc.Root.Walk(func(n *parser.Node) bool {
		switch {
		case n.Kind == parser.KindTag && referenceTags[n.Name]:
			for _, op := range n.Operands() {
				if op.Kind == parser.KindIdentifier && operandStops[op.Text] {
					break
				}
				out = appendStrings(out, n.Name, op)
			}

		case n.Kind == parser.KindIdentifier && referenceFunctions[n.Text]:
			parens := n.NextSiblingSkipping(parser.KindWhitespace)
			if args := translation.Arguments(parens); len(args) > 0 && len(args[0]) == 1 {
				out = appendStrings(out, n.Text, args[0][0])
			}
		}
		return true
	})

	return out
}

// appendStrings records node when it is a template string, or the template
// strings of an array literal
func appendStrings(out []Reference, tag string, node *parser.Node) []Reference {
	switch node.Kind {
	case parser.KindString:
		if name, ok := validator.TemplateString(node); ok && name != "" {
			out = append(out, Reference{Tag: tag, Target: resolver.NormalizeTemplateName(name), Offset: node.Start})
		}
	case parser.KindArray:
		for _, c := range node.Children {
			if c.Kind == parser.KindString {
				out = appendStrings(out, tag, c)
			}
		}
	}
	return out
}
