package translation

import "github.com/dshills/twigcontext-mcp/internal/parser"

// TagTransDefaultDomain sets the default domain of its scope
const TagTransDefaultDomain = "trans_default_domain"

// ScopeKind classifies tree nodes for default domain lookup
type ScopeKind int

const (
	ScopeOther           ScopeKind = iota // Anything without scope meaning
	ScopeFileRoot                         // Document root
	ScopeEmbed                            // {% embed %} ... {% endembed %}
	ScopeDomainDirective                  // {% trans_default_domain "x" %}
)

// String returns the kind name
func (k ScopeKind) String() string {
	switch k {
	case ScopeFileRoot:
		return "file-root"
	case ScopeEmbed:
		return "embed-block"
	case ScopeDomainDirective:
		return "domain-directive"
	default:
		return "other"
	}
}

// ScopeNode is a read-only view of a tree node that only knows its scope
// kind and its parent. The zero value is the parent of the file root.
type ScopeNode struct {
	node *parser.Node
}

// ScopeOf wraps a tree node
func ScopeOf(n *parser.Node) ScopeNode {
	return ScopeNode{node: n}
}

// Valid reports whether s refers to a node
func (s ScopeNode) Valid() bool {
	return s.node != nil
}

// Node returns the wrapped tree node
func (s ScopeNode) Node() *parser.Node {
	return s.node
}

// Kind classifies the wrapped node
func (s ScopeNode) Kind() ScopeKind {
	switch {
	case s.node == nil:
		return ScopeOther
	case s.node.Kind == parser.KindDocument:
		return ScopeFileRoot
	case s.node.Kind == parser.KindEmbed:
		return ScopeEmbed
	case s.node.Kind == parser.KindTag && s.node.Name == TagTransDefaultDomain:
		return ScopeDomainDirective
	default:
		return ScopeOther
	}
}

// Parent moves one level up
func (s ScopeNode) Parent() ScopeNode {
	if s.node == nil {
		return ScopeNode{}
	}
	return ScopeNode{node: s.node.Parent}
}

// Owner returns the closest file root or embed block strictly above s
func (s ScopeNode) Owner() ScopeNode {
	for p := s.Parent(); p.Valid(); p = p.Parent() {
		if k := p.Kind(); k == ScopeFileRoot || k == ScopeEmbed {
			return p
		}
	}
	return ScopeNode{}
}

// Directive is a trans_default_domain tag with a literal domain
type Directive struct {
	Domain string
	Offset int
	Owner  ScopeNode
}

// Directives lists the domain directives below root in document order
func Directives(root *parser.Node) []Directive {
	var out []Directive
	if root == nil {
		return out
	}

	root.Walk(func(n *parser.Node) bool {
		scope := ScopeOf(n)
		if scope.Kind() != ScopeDomainDirective {
			return true
		}
		operands := n.Operands()
		if len(operands) == 0 {
			return false
		}
		if domain, ok := operands[0].Value(); ok {
			out = append(out, Directive{
				Domain: domain,
				Offset: n.Start,
				Owner:  scope.Owner(),
			})
		}
		return false
	})
	return out
}

// GetTransDefaultDomainOnScope returns the trans_default_domain in effect at
// node.
//
// Scopes are searched from the innermost embed block enclosing node out to
// the file root. Within a scope the last directive owned by that scope whose
// offset is at or before node wins. The first scope with a match ends the
// search, so a domain declared inside an embed shadows the file domain.
func GetTransDefaultDomainOnScope(node *parser.Node) (string, bool) {
	if node == nil {
		return "", false
	}

	root := node
	for root.Parent != nil {
		root = root.Parent
	}
	directives := Directives(root)
	if len(directives) == 0 {
		return "", false
	}

	offset := node.Start
	for scope := innermostScope(node, offset); scope.Valid(); scope = scope.Owner() {
		if d, ok := lastInScope(directives, scope, offset); ok {
			return d.Domain, true
		}
	}
	return "", false
}

// innermostScope returns the scope offset belongs to.
// The {% embed %} tag itself is part of the outer scope.
func innermostScope(node *parser.Node, offset int) ScopeNode {
	scope := ScopeOf(node)
	if k := scope.Kind(); k != ScopeFileRoot && k != ScopeEmbed {
		scope = scope.Owner()
	}

	for scope.Kind() == ScopeEmbed {
		opening := scope.Node().OpeningTag()
		if opening == nil || offset >= opening.End {
			break
		}
		scope = scope.Owner()
	}
	return scope
}

// lastInScope returns the last directive owned by scope at or before offset.
// Directives of nested embeds have a different owner and are never matched.
func lastInScope(directives []Directive, scope ScopeNode, offset int) (Directive, bool) {
	var found Directive
	ok := false

	for _, d := range directives {
		if d.Offset > offset {
			break
		}
		if d.Owner != scope {
			continue
		}
		found = d
		ok = true
	}
	return found, ok
}

// FileDomain returns the default domain declared at the top level of a
// document, the last one if it is declared more than once
func FileDomain(doc *parser.Document) (string, bool) {
	root := ScopeOf(doc.Root)
	domain, ok := "", false
	for _, d := range Directives(doc.Root) {
		if d.Owner == root {
			domain, ok = d.Domain, true
		}
	}
	return domain, ok
}
