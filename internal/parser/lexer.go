package parser

import (
	"strings"
)

// multiCharOperators are matched before single character operators
var multiCharOperators = []string{"..", "//", "**", "==", "!=", "<=", ">=", "??", "?:"}

const singleCharOperators = "+-*/%<>=!?"

// lexer turns the inside of a block into flat tokens.
// String literals come out as composite KindString nodes.
type lexer struct {
	src  string
	pos  int
	errs *[]ParseError
}

// closeFunc reports the length of a closing delimiter at pos, or 0
type closeFunc func(src string, pos int) int

// expression lexes tokens until end matches at bracket depth zero or the
// source ends. It returns the tokens and the closing delimiter length found
// (0 when the source ended first).
func (l *lexer) expression(end closeFunc) ([]*Node, int) {
	var tokens []*Node
	depth := 0

	for l.pos < len(l.src) {
		if depth == 0 {
			if n := end(l.src, l.pos); n > 0 {
				return tokens, n
			}
		}

		tok := l.next()
		if tok.Kind == KindPunctuation {
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth > 0 {
					depth--
				}
			}
		}
		tokens = append(tokens, tok)
	}

	return tokens, 0
}

// next lexes one token at l.pos
func (l *lexer) next() *Node {
	start := l.pos
	c := l.src[l.pos]

	switch {
	case isSpace(c):
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		return l.leaf(KindWhitespace, start)

	case c == '\'' || c == '"':
		return l.str()

	case isDigit(c):
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
			l.pos++
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
		return l.leaf(KindNumber, start)

	case isNameStart(c):
		for l.pos < len(l.src) && isNameChar(l.src[l.pos]) {
			l.pos++
		}
		return l.leaf(KindIdentifier, start)

	case c == '~':
		l.pos++
		return l.leaf(KindConcat, start)
	}

	for _, op := range multiCharOperators {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += len(op)
			return l.leaf(KindOperator, start)
		}
	}

	l.pos++
	if strings.IndexByte(singleCharOperators, c) >= 0 {
		return l.leaf(KindOperator, start)
	}
	return l.leaf(KindPunctuation, start)
}

// str lexes a quoted string starting at l.pos
func (l *lexer) str() *Node {
	quote := l.src[l.pos]
	node := &Node{Kind: KindString, Start: l.pos, End: l.pos}

	open := l.pos
	l.pos++
	node.addChild(l.leaf(KindQuote, open))

	textStart := l.pos
	flushText := func() {
		if l.pos > textStart {
			node.addChild(&Node{Kind: KindStringText, Start: textStart, End: l.pos, Text: l.src[textStart:l.pos]})
		}
	}

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.src):
			l.pos += 2
			continue

		case c == quote:
			flushText()
			closing := l.pos
			l.pos++
			node.addChild(l.leaf(KindQuote, closing))
			return node

		case quote == '"' && c == '#' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '{':
			flushText()
			node.addChild(l.interpolation())
			textStart = l.pos
			continue
		}
		l.pos++
	}

	flushText()
	l.errorf(node.Start, "unterminated string")
	return node
}

// interpolation lexes #{ ... } starting at l.pos
func (l *lexer) interpolation() *Node {
	node := &Node{Kind: KindInterpolation, Start: l.pos, End: l.pos}

	open := l.pos
	l.pos += 2
	node.addChild(l.leaf(KindDelimiter, open))

	tokens, closeLen := l.expression(func(src string, pos int) int {
		if src[pos] == '}' {
			return 1
		}
		return 0
	})
	for _, tok := range group(tokens, l.errs) {
		node.addChild(tok)
	}

	if closeLen == 0 {
		l.errorf(node.Start, "unterminated interpolation")
		return node
	}
	closing := l.pos
	l.pos += closeLen
	node.addChild(l.leaf(KindDelimiter, closing))
	return node
}

func (l *lexer) leaf(kind NodeKind, start int) *Node {
	return &Node{Kind: kind, Start: start, End: l.pos, Text: l.src[start:l.pos]}
}

func (l *lexer) errorf(offset int, msg string) {
	*l.errs = append(*l.errs, ParseError{Offset: offset, Message: msg})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

// group nests bracketed token runs into parens, hash and array nodes and
// folds "|name(args)" into filter nodes
func group(tokens []*Node, errs *[]ParseError) []*Node {
	pos := 0
	out := groupUntil(tokens, &pos, "", errs)
	return foldFilters(out)
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

var groupKinds = map[string]NodeKind{"(": KindParens, "[": KindArray, "{": KindHash}

func groupUntil(tokens []*Node, pos *int, closer string, errs *[]ParseError) []*Node {
	var out []*Node

	for *pos < len(tokens) {
		tok := tokens[*pos]
		*pos++

		if tok.Kind != KindPunctuation {
			out = append(out, tok)
			continue
		}

		if closer != "" && tok.Text == closer {
			out = append(out, tok)
			return out
		}

		if want, ok := closers[tok.Text]; ok {
			g := &Node{Kind: groupKinds[tok.Text], Start: tok.Start, End: tok.End}
			for _, child := range foldFilters(append([]*Node{tok}, groupUntil(tokens, pos, want, errs)...)) {
				g.addChild(child)
			}
			if last := g.Children[len(g.Children)-1]; last.Text != want || last.Kind != KindPunctuation {
				*errs = append(*errs, ParseError{Offset: g.Start, Message: "unclosed " + tok.Text})
			}
			out = append(out, g)
			continue
		}

		out = append(out, tok)
	}

	return out
}

// foldFilters rewrites "|", name and an optional argument list into a filter node
func foldFilters(tokens []*Node) []*Node {
	out := make([]*Node, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind != KindPunctuation || tok.Text != "|" {
			out = append(out, tok)
			continue
		}

		j := skipWhitespace(tokens, i+1)
		if j >= len(tokens) || tokens[j].Kind != KindIdentifier {
			out = append(out, tok)
			continue
		}

		filter := &Node{Kind: KindFilter, Start: tok.Start, End: tok.End, Name: tokens[j].Text}
		for _, t := range tokens[i : j+1] {
			filter.addChild(t)
		}
		i = j

		if k := skipWhitespace(tokens, j+1); k < len(tokens) && tokens[k].Kind == KindParens {
			for _, t := range tokens[j+1 : k+1] {
				filter.addChild(t)
			}
			i = k
		}
		out = append(out, filter)
	}

	return out
}

func skipWhitespace(tokens []*Node, i int) int {
	for i < len(tokens) && tokens[i].Kind == KindWhitespace {
		i++
	}
	return i
}
