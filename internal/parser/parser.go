package parser

import (
	"fmt"
	"strings"
)

// ParseError represents a recoverable problem found while parsing
type ParseError struct {
	Offset  int
	Message string
}

// Error implements the error interface
func (pe ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", pe.Offset, pe.Message)
}

// Document is a parsed template
type Document struct {
	Root   *Node
	Source string
	Errors []ParseError
}

// HasErrors returns true if any parsing errors occurred
func (d *Document) HasErrors() bool {
	return len(d.Errors) > 0
}

// pairedTags open a block closed by "end<name>"
var pairedTags = map[string]bool{
	"apply":       true,
	"autoescape":  true,
	"block":       true,
	"cache":       true,
	"embed":       true,
	"filter":      true,
	"for":         true,
	"if":          true,
	"macro":       true,
	"sandbox":     true,
	"set":         true,
	"spaceless":   true,
	"trans":       true,
	"transchoice": true,
	"with":        true,
}

// rawTags keep their body as text
var rawTags = map[string]bool{
	"verbatim": true,
	"raw":      true,
}

// Parse builds a syntax tree from template source.
// It never fails: problems are recorded in Document.Errors and the partial
// tree is kept.
func Parse(src string) *Document {
	doc := &Document{
		Source: src,
		Root:   &Node{Kind: KindDocument, Start: 0, End: len(src)},
	}
	p := &parser{src: src, errs: &doc.Errors}
	p.stack = []*Node{doc.Root}
	p.parse()

	for len(p.stack) > 1 {
		open := p.pop()
		doc.Errors = append(doc.Errors, ParseError{Offset: open.Start, Message: "unclosed " + open.Name})
	}
	doc.Root.End = len(src)
	return doc
}

type parser struct {
	src   string
	pos   int
	errs  *[]ParseError
	stack []*Node
}

func (p *parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *parser) push(n *Node) {
	p.top().addChild(n)
	p.stack = append(p.stack, n)
}

// pop closes the innermost open block and extends its parent over it
func (p *parser) pop() *Node {
	n := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	if parent := p.top(); n.End > parent.End {
		parent.End = n.End
	}
	return n
}

func (p *parser) parse() {
	for p.pos < len(p.src) {
		next := nextBlockStart(p.src, p.pos)
		if next < 0 {
			p.text(len(p.src))
			return
		}
		p.text(next)

		switch p.src[next+1] {
		case '#':
			p.comment()
		case '{':
			p.printBlock()
		case '%':
			p.tag()
		}
	}
}

// nextBlockStart returns the offset of the next "{{", "{%" or "{#", or -1
func nextBlockStart(src string, from int) int {
	for i := from; i+1 < len(src); i++ {
		if src[i] == '{' {
			switch src[i+1] {
			case '{', '%', '#':
				return i
			}
		}
	}
	return -1
}

func (p *parser) text(end int) {
	if end <= p.pos {
		return
	}
	p.top().addChild(&Node{Kind: KindText, Start: p.pos, End: end, Text: p.src[p.pos:end]})
	p.pos = end
}

func (p *parser) comment() {
	start := p.pos
	end := strings.Index(p.src[start+2:], "#}")
	if end < 0 {
		*p.errs = append(*p.errs, ParseError{Offset: start, Message: "unterminated comment"})
		p.pos = len(p.src)
	} else {
		p.pos = start + 2 + end + 2
	}
	p.top().addChild(&Node{Kind: KindComment, Start: start, End: p.pos, Text: p.src[start:p.pos]})
}

// openDelimiter consumes "{{" or "{%" with an optional "-" or "~" modifier
func (p *parser) openDelimiter() *Node {
	start := p.pos
	p.pos += 2
	if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '~') {
		p.pos++
	}
	return &Node{Kind: KindDelimiter, Start: start, End: p.pos, Text: p.src[start:p.pos]}
}

// closer matches "}}" or "%}" with an optional "-" or "~" modifier
func closer(end byte) closeFunc {
	return func(src string, pos int) int {
		if (src[pos] == '-' || src[pos] == '~') && pos+2 < len(src) && src[pos+1] == end && src[pos+2] == '}' {
			return 3
		}
		if src[pos] == end && pos+1 < len(src) && src[pos+1] == '}' {
			return 2
		}
		return 0
	}
}

// body lexes the inside of a block into n and consumes the close delimiter
func (p *parser) body(n *Node, tokens []*Node, closeLen int) {
	for _, tok := range group(tokens, p.errs) {
		n.addChild(tok)
	}
	if closeLen == 0 {
		*p.errs = append(*p.errs, ParseError{Offset: n.Start, Message: "unterminated " + n.Kind.String()})
		return
	}
	start := p.pos
	p.pos += closeLen
	n.addChild(&Node{Kind: KindDelimiter, Start: start, End: p.pos, Text: p.src[start:p.pos]})
}

func (p *parser) printBlock() {
	n := &Node{Kind: KindPrintBlock, Start: p.pos, End: p.pos}
	n.addChild(p.openDelimiter())

	lx := &lexer{src: p.src, pos: p.pos, errs: p.errs}
	tokens, closeLen := lx.expression(closer('}'))
	p.pos = lx.pos
	p.body(n, tokens, closeLen)

	p.top().addChild(n)
}

func (p *parser) tag() {
	n := &Node{Kind: KindTag, Start: p.pos, End: p.pos}
	n.addChild(p.openDelimiter())

	lx := &lexer{src: p.src, pos: p.pos, errs: p.errs}
	tokens, closeLen := lx.expression(closer('%'))
	p.pos = lx.pos

	if i := skipWhitespace(tokens, 0); i < len(tokens) && tokens[i].Kind == KindIdentifier {
		tokens[i].Kind = KindTagName
		n.Name = tokens[i].Text
	}
	p.body(n, tokens, closeLen)

	p.placeTag(n)

	if rawTags[n.Name] {
		p.rawBody(n.Name)
	}
}

// placeTag attaches a tag to the tree, opening or closing paired blocks
func (p *parser) placeTag(n *Node) {
	name := n.Name

	if pairedTags[name] && opensBlock(n) {
		kind := KindBlock
		if name == "embed" {
			kind = KindEmbed
		}
		block := &Node{Kind: kind, Start: n.Start, End: n.End, Name: name}
		block.addChild(n)
		p.push(block)
		return
	}

	if strings.HasPrefix(name, "end") && pairedTags[name[3:]] {
		opened := name[3:]
		for i := len(p.stack) - 1; i > 0; i-- {
			if p.stack[i].Name != opened {
				continue
			}
			for len(p.stack)-1 > i {
				unclosed := p.pop()
				*p.errs = append(*p.errs, ParseError{Offset: unclosed.Start, Message: "unclosed " + unclosed.Name})
			}
			p.top().addChild(n)
			p.pop()
			return
		}
		*p.errs = append(*p.errs, ParseError{Offset: n.Start, Message: "unexpected " + name})
	}

	p.top().addChild(n)
}

// opensBlock reports whether a paired tag has a body.
// "{% set x = 1 %}" and "{% block title 'Home' %}" are self-contained.
func opensBlock(n *Node) bool {
	operands := n.Operands()
	switch n.Name {
	case "set":
		for _, op := range operands {
			if op.Kind == KindOperator && op.Text == "=" {
				return false
			}
		}
	case "block":
		return len(operands) <= 1
	}
	return true
}

// rawBody keeps everything up to the matching end tag as text
func (p *parser) rawBody(name string) {
	end := "end" + name
	for i := p.pos; ; {
		next := strings.Index(p.src[i:], "{%")
		if next < 0 {
			p.text(len(p.src))
			*p.errs = append(*p.errs, ParseError{Offset: p.pos, Message: "unclosed " + name})
			return
		}
		at := i + next
		rest := strings.TrimLeft(p.src[at+2:], "-~ \t\r\n")
		if strings.HasPrefix(rest, end) {
			p.text(at)
			return
		}
		i = at + 2
	}
}

// NodeAt returns the deepest node containing offset.
// An offset at the end of the source resolves to the last leaf.
func (d *Document) NodeAt(offset int) *Node {
	if offset < 0 || len(d.Source) == 0 {
		return nil
	}
	if offset >= len(d.Source) {
		offset = len(d.Source) - 1
	}

	cur := d.Root
	for {
		var next *Node
		for _, c := range cur.Children {
			if c.Contains(offset) {
				next = c
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// Position converts a byte offset to a 1-based line and column
func (d *Document) Position(offset int) (line, column int) {
	if offset > len(d.Source) {
		offset = len(d.Source)
	}
	line = 1 + strings.Count(d.Source[:offset], "\n")
	column = offset - strings.LastIndex(d.Source[:offset], "\n")
	return line, column
}

// Offset converts a 1-based line and column to a byte offset. Positions
// past the end of a line clamp to its end; lines past the end of the
// source report -1.
func (d *Document) Offset(line, column int) int {
	if line < 1 || column < 1 {
		return -1
	}
	start := 0
	for l := 1; l < line; l++ {
		next := strings.IndexByte(d.Source[start:], '\n')
		if next < 0 {
			return -1
		}
		start += next + 1
	}
	end := len(d.Source)
	if nl := strings.IndexByte(d.Source[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	if start+column-1 > end {
		return end
	}
	return start + column - 1
}

// TextOf returns the source text covered by n
func (d *Document) TextOf(n *Node) string {
	if n == nil || n.Start < 0 || n.End > len(d.Source) || n.Start > n.End {
		return ""
	}
	return d.Source[n.Start:n.End]
}

// Tags returns every tag named name in document order
func (d *Document) Tags(name string) []*Node {
	var out []*Node
	d.Root.Walk(func(n *Node) bool {
		if n.Kind == KindTag && n.Name == name {
			out = append(out, n)
		}
		return true
	})
	return out
}
