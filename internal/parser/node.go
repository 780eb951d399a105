package parser

import "fmt"

// NodeKind tags every node of the syntax tree
type NodeKind int

const (
	KindDocument      NodeKind = iota // Root of a parsed template
	KindText                          // Raw template text outside any block
	KindComment                       // {# ... #}
	KindPrintBlock                    // {{ ... }}
	KindTag                           // {% name ... %}
	KindBlock                         // Paired tag: {% if %} ... {% endif %}
	KindEmbed                         // {% embed %} ... {% endembed %}
	KindDelimiter                     // {{ }} {% %} and their whitespace control forms
	KindTagName                       // Name following {%
	KindString                        // Quoted string literal
	KindQuote                         // ' or "
	KindStringText                    // Literal characters inside a string
	KindInterpolation                 // #{ ... } inside a double quoted string
	KindIdentifier                    // Names
	KindNumber                        // Numeric literal
	KindOperator                      // Arithmetic, comparison and logic operators
	KindConcat                        // ~
	KindFilter                        // |name or |name(args)
	KindParens                        // ( ... )
	KindHash                          // { ... }
	KindArray                         // [ ... ]
	KindPunctuation                   // , : . | and brackets
	KindWhitespace                    // Whitespace inside blocks
)

var kindNames = map[NodeKind]string{
	KindDocument:      "document",
	KindText:          "text",
	KindComment:       "comment",
	KindPrintBlock:    "print_block",
	KindTag:           "tag",
	KindBlock:         "block",
	KindEmbed:         "embed",
	KindDelimiter:     "delimiter",
	KindTagName:       "tag_name",
	KindString:        "string",
	KindQuote:         "quote",
	KindStringText:    "string_text",
	KindInterpolation: "interpolation",
	KindIdentifier:    "identifier",
	KindNumber:        "number",
	KindOperator:      "operator",
	KindConcat:        "concat",
	KindFilter:        "filter",
	KindParens:        "parens",
	KindHash:          "hash",
	KindArray:         "array",
	KindPunctuation:   "punctuation",
	KindWhitespace:    "whitespace",
}

// String returns the kind name
func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is an element of the syntax tree.
// Start and End are byte offsets into the source, End exclusive.
type Node struct {
	Kind  NodeKind
	Start int
	End   int

	// Text is the source text of leaf nodes
	Text string

	// Name is the tag name for tags, blocks and embeds, and the filter name
	// for filters
	Name string

	Parent   *Node
	Children []*Node

	index int
}

// addChild appends child and extends n to cover it
func (n *Node) addChild(child *Node) {
	child.Parent = n
	child.index = len(n.Children)
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 && n.Start > child.Start {
		n.Start = child.Start
	}
	if child.End > n.End {
		n.End = child.End
	}
}

// PrevSibling returns the sibling before n, or nil
func (n *Node) PrevSibling() *Node {
	if n.Parent == nil || n.index == 0 {
		return nil
	}
	return n.Parent.Children[n.index-1]
}

// NextSibling returns the sibling after n, or nil
func (n *Node) NextSibling() *Node {
	if n.Parent == nil || n.index+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[n.index+1]
}

// PrevSiblingSkipping returns the closest previous sibling whose kind is not in skip
func (n *Node) PrevSiblingSkipping(skip ...NodeKind) *Node {
	for s := n.PrevSibling(); s != nil; s = s.PrevSibling() {
		if !s.Is(skip...) {
			return s
		}
	}
	return nil
}

// NextSiblingSkipping returns the closest next sibling whose kind is not in skip
func (n *Node) NextSiblingSkipping(skip ...NodeKind) *Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if !s.Is(skip...) {
			return s
		}
	}
	return nil
}

// Is reports whether n has one of kinds
func (n *Node) Is(kinds ...NodeKind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Ancestor returns the closest ancestor (n included) with one of kinds, or nil
func (n *Node) Ancestor(kinds ...NodeKind) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Is(kinds...) {
			return cur
		}
	}
	return nil
}

// Contains reports whether offset lies inside n
func (n *Node) Contains(offset int) bool {
	return offset >= n.Start && offset < n.End
}

// FirstChild returns the first child with one of kinds, or nil
func (n *Node) FirstChild(kinds ...NodeKind) *Node {
	for _, c := range n.Children {
		if c.Is(kinds...) {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants in document order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// OpeningTag returns the tag that opens a block or embed, or nil
func (n *Node) OpeningTag() *Node {
	if !n.Is(KindBlock, KindEmbed) || len(n.Children) == 0 {
		return nil
	}
	if first := n.Children[0]; first.Kind == KindTag {
		return first
	}
	return nil
}

// Value returns the content of a string literal.
// It reports false for non-strings and for strings with interpolations.
func (n *Node) Value() (string, bool) {
	if n == nil || n.Kind != KindString {
		return "", false
	}
	value := ""
	for _, c := range n.Children {
		switch c.Kind {
		case KindInterpolation:
			return "", false
		case KindStringText:
			value += c.Text
		}
	}
	return value, true
}

// HasInterpolation reports whether a string literal contains #{...}
func (n *Node) HasInterpolation() bool {
	return n.Is(KindString) && n.FirstChild(KindInterpolation) != nil
}

// Operands returns the non-whitespace, non-delimiter children of a tag or
// print block following the tag name
func (n *Node) Operands() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Is(KindWhitespace, KindDelimiter, KindTagName) {
			continue
		}
		out = append(out, c)
	}
	return out
}
