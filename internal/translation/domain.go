package translation

import "github.com/dshills/twigcontext-mcp/internal/parser"

// Translation filter and tag names
const (
	FilterTrans       = "trans"
	FilterTransChoice = "transchoice"
)

// IsTransName reports whether name is a translating filter or tag
func IsTransName(name string) bool {
	return name == FilterTrans || name == FilterTransChoice
}

// GetDomainTrans returns the domain passed to the trans or transchoice
// filter applied to the string literal containing node.
//
// The domain is the last argument and must be a plain string literal. Every
// argument before it must be a hash, an array, a bare identifier, a number
// or left empty ("trans(, 'foo')"). Any other argument shape yields false.
func GetDomainTrans(node *parser.Node) (string, bool) {
	str := node.Ancestor(parser.KindString)
	if str == nil {
		return "", false
	}

	filter := str.NextSiblingSkipping(parser.KindWhitespace)
	if !filter.Is(parser.KindFilter) || !IsTransName(filter.Name) {
		return "", false
	}

	args := filter.FirstChild(parser.KindParens)
	if args == nil {
		return "", false
	}
	return DomainArgument(args)
}

// DomainArgument extracts the domain from a parenthesized argument list
func DomainArgument(parens *parser.Node) (string, bool) {
	args := Arguments(parens)
	if len(args) < 2 {
		return "", false
	}

	last := args[len(args)-1]
	if len(last) != 1 {
		return "", false
	}
	domain, ok := last[0].Value()
	if !ok {
		return "", false
	}

	for _, arg := range args[:len(args)-1] {
		if !leadingArgument(arg) {
			return "", false
		}
	}
	return domain, true
}

// leadingArgument reports whether arg may precede the domain
func leadingArgument(arg []*parser.Node) bool {
	switch len(arg) {
	case 0:
		return true
	case 1:
		return arg[0].Is(parser.KindHash, parser.KindArray, parser.KindIdentifier, parser.KindNumber)
	default:
		return false
	}
}

// Arguments splits a parens node on its top level commas.
// Whitespace is dropped, so a hole in the list is an empty argument.
// "()" has no arguments.
func Arguments(parens *parser.Node) [][]*parser.Node {
	if !parens.Is(parser.KindParens) {
		return nil
	}

	var args [][]*parser.Node
	var current []*parser.Node
	seen := false

	for i, c := range parens.Children {
		if c.Kind == parser.KindPunctuation {
			if i == 0 && c.Text == "(" {
				continue
			}
			if i == len(parens.Children)-1 && c.Text == ")" {
				continue
			}
			if c.Text == "," {
				args = append(args, current)
				current = nil
				seen = true
				continue
			}
		}
		if c.Kind == parser.KindWhitespace {
			continue
		}
		current = append(current, c)
		seen = true
	}

	if seen {
		args = append(args, current)
	}
	return args
}

// TagDomain returns the domain named by "from" on the trans or transchoice
// tag enclosing node: {% trans from 'app' %}...{% endtrans %}
func TagDomain(node *parser.Node) (string, bool) {
	for block := node.Ancestor(parser.KindBlock); block != nil; block = block.Parent.Ancestor(parser.KindBlock) {
		if !IsTransName(block.Name) {
			continue
		}

		operands := block.OpeningTag().Operands()
		for i, op := range operands {
			if op.Kind == parser.KindIdentifier && op.Text == "from" && i+1 < len(operands) {
				return operands[i+1].Value()
			}
		}
		return "", false
	}
	return "", false
}
