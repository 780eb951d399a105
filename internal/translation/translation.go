package translation

import "github.com/dshills/twigcontext-mcp/internal/parser"

// DomainSource tells where a resolved domain came from
type DomainSource string

const (
	SourceFilter  DomainSource = "filter"
	SourceTag     DomainSource = "tag"
	SourceDefault DomainSource = "default"
)

// Domain is a resolved translation domain
type Domain struct {
	Name   string
	Source DomainSource
}

// DomainAt resolves the translation domain at offset: an explicit filter
// argument first, then the "from" clause of an enclosing trans tag, then
// the trans_default_domain in scope
func DomainAt(doc *parser.Document, offset int) (Domain, bool) {
	node := doc.NodeAt(offset)
	if node == nil {
		return Domain{}, false
	}
	return DomainOf(node)
}

// DomainOf is DomainAt for a node that is already located
func DomainOf(node *parser.Node) (Domain, bool) {
	if name, ok := GetDomainTrans(node); ok {
		return Domain{Name: name, Source: SourceFilter}, true
	}
	if name, ok := TagDomain(node); ok {
		return Domain{Name: name, Source: SourceTag}, true
	}
	if name, ok := GetTransDefaultDomainOnScope(node); ok {
		return Domain{Name: name, Source: SourceDefault}, true
	}
	return Domain{}, false
}

// Usage is a translation key passed through a trans or transchoice filter
type Usage struct {
	Key    string
	Domain string
	Offset int
}

// Usages lists every literal key translated with a filter in doc.
// Keys with no resolvable domain have an empty Domain.
func Usages(doc *parser.Document) []Usage {
	var out []Usage
	doc.Root.Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindString {
			return true
		}
		filter := n.NextSiblingSkipping(parser.KindWhitespace)
		if !filter.Is(parser.KindFilter) || !IsTransName(filter.Name) {
			return false
		}
		key, ok := n.Value()
		if !ok {
			return false
		}
		usage := Usage{Key: key, Offset: n.Start}
		if domain, ok := DomainOf(n); ok {
			usage.Domain = domain.Name
		}
		out = append(out, usage)
		return false
	})
	return out
}
