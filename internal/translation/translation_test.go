package translation

import (
	"strings"
	"testing"

	"github.com/dshills/twigcontext-mcp/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const caret = "<caret>"

// parseAtCaret parses src with the caret marker removed and returns the node
// under the marker
func parseAtCaret(t *testing.T, src string) (*parser.Document, *parser.Node) {
	t.Helper()
	offset := strings.Index(src, caret)
	require.GreaterOrEqual(t, offset, 0, "missing caret in %q", src)

	doc := parser.Parse(strings.Replace(src, caret, "", 1))
	node := doc.NodeAt(offset)
	require.NotNil(t, node)
	return doc, node
}

func TestGetDomainTrans(t *testing.T) {
	blocks := []string{
		"{{ '<caret>'|transchoice(3, {}, 'foo') }}",
		"{{ '<caret>'|transchoice(3, [], 'foo') }}",
		"{{ '<caret>'|trans({}, 'foo') }}",
		"{{ '<caret>'|trans([], 'foo') }}",
		"{{ '<caret>'|trans(, 'foo') }}",
		"{{ '<caret>'|trans({'foo': 'foo', 'foo'}, 'foo') }}",
		"{{ '<caret>' | transchoice(count, {'%var%': value}, 'foo') }}",
		"{{ '<caret>' | transchoice(c, {'%var%': value}, 'foo') }}",
		"{{ '<caret>' | transchoice(, {'%var%': value}, 'foo') }}",
		"{{ 'key<caret>'|trans({}, \"foo\") }}",
	}

	for _, src := range blocks {
		t.Run(src, func(t *testing.T) {
			_, node := parseAtCaret(t, src)
			domain, ok := GetDomainTrans(node)
			assert.True(t, ok)
			assert.Equal(t, "foo", domain)
		})
	}
}

func TestGetDomainTrans_Absent(t *testing.T) {
	blocks := []string{
		"{{ '<caret>'|trans }}",
		"{{ '<caret>'|trans() }}",
		"{{ '<caret>'|trans('foo') }}",
		"{{ '<caret>'|trans({}, domain) }}",
		"{{ '<caret>'|trans({}, 'f' ~ 'oo') }}",
		"{{ '<caret>'|trans({}, \"#{d}\") }}",
		"{{ '<caret>'|trans(a.b, 'foo') }}",
		"{{ '<caret>'|trans(params|merge(x), 'foo') }}",
		"{{ '<caret>'|upper({}, 'foo') }}",
		"{{ '<caret>' ~ x|trans({}, 'foo') }}",
		"{{ <caret>x|trans({}, 'foo') }}",
	}

	for _, src := range blocks {
		t.Run(src, func(t *testing.T) {
			_, node := parseAtCaret(t, src)
			_, ok := GetDomainTrans(node)
			assert.False(t, ok)
		})
	}
}

func TestArguments(t *testing.T) {
	tests := []struct {
		src  string
		want []int
	}{
		{"{{ f() }}", nil},
		{"{{ f(a) }}", []int{1}},
		{"{{ f(a, b) }}", []int{1, 1}},
		{"{{ f(, b) }}", []int{0, 1}},
		{"{{ f(a.b, {x: 1}) }}", []int{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			doc := parser.Parse(tt.src)
			var parens *parser.Node
			doc.Root.Walk(func(n *parser.Node) bool {
				if parens == nil && n.Kind == parser.KindParens {
					parens = n
				}
				return parens == nil
			})
			require.NotNil(t, parens)

			var got []int
			for _, arg := range Arguments(parens) {
				got = append(got, len(arg))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagDomain(t *testing.T) {
	_, node := parseAtCaret(t, "{% trans with {'%n%': 1} from 'app' %}He<caret>llo{% endtrans %}")
	domain, ok := TagDomain(node)
	assert.True(t, ok)
	assert.Equal(t, "app", domain)

	_, node = parseAtCaret(t, "{% transchoice count from \"app\" %}{% if a %}<caret>x{% endif %}{% endtranschoice %}")
	domain, ok = TagDomain(node)
	assert.True(t, ok)
	assert.Equal(t, "app", domain)

	_, node = parseAtCaret(t, "{% trans %}He<caret>llo{% endtrans %}")
	_, ok = TagDomain(node)
	assert.False(t, ok)

	_, node = parseAtCaret(t, "{% if a %}<caret>x{% endif %}")
	_, ok = TagDomain(node)
	assert.False(t, ok)
}

func TestGetTransDefaultDomainOnScope_FileScope(t *testing.T) {
	_, node := parseAtCaret(t, `{% trans_default_domain "foo" %}{{ <caret> }}`)

	domain, ok := GetTransDefaultDomainOnScope(node)
	assert.True(t, ok)
	assert.Equal(t, "foo", domain)
}

func TestGetTransDefaultDomainOnScope_EmbedScope(t *testing.T) {
	src := "" +
		"{% trans_default_domain \"foo\" %}\n" +
		"{% embed 'default/e.html.twig' %}\n" +
		"  {% trans_default_domain \"foobar\" %}\n" +
		"  {{ <caret> }}\n" +
		"{% endembed %}\n"

	_, node := parseAtCaret(t, src)
	domain, ok := GetTransDefaultDomainOnScope(node)
	assert.True(t, ok)
	assert.Equal(t, "foobar", domain)
}

func TestGetTransDefaultDomainOnScope_OutsideEmbed(t *testing.T) {
	src := "" +
		"{% trans_default_domain \"foo\" %}\n" +
		"{% embed 'default/e.html.twig' %}\n" +
		"  {% trans_default_domain \"foobar\" %}\n" +
		"{% endembed %}\n" +
		"{{ <caret> }}\n"

	_, node := parseAtCaret(t, src)
	domain, ok := GetTransDefaultDomainOnScope(node)
	assert.True(t, ok)
	assert.Equal(t, "foo", domain)
}

func TestGetTransDefaultDomainOnScope_Cases(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   string
		wantOK bool
	}{
		{
			name:   "no directive",
			src:    "{{ <caret> }}",
			wantOK: false,
		},
		{
			name:   "directive after position",
			src:    "{{ <caret> }}{% trans_default_domain 'foo' %}",
			wantOK: false,
		},
		{
			name:   "last directive before position wins",
			src:    "{% trans_default_domain 'a' %}{% trans_default_domain 'b' %}{{ <caret> }}{% trans_default_domain 'c' %}",
			want:   "b",
			wantOK: true,
		},
		{
			name:   "embed without own directive inherits file domain",
			src:    "{% trans_default_domain 'foo' %}{% embed 'e' %}{{ <caret> }}{% endembed %}",
			want:   "foo",
			wantOK: true,
		},
		{
			name:   "embed directive after position falls back to file",
			src:    "{% trans_default_domain 'foo' %}{% embed 'e' %}{{ <caret> }}{% trans_default_domain 'bar' %}{% endembed %}",
			want:   "foo",
			wantOK: true,
		},
		{
			name:   "nested embeds use the innermost",
			src:    "{% trans_default_domain 'a' %}{% embed 'x' %}{% trans_default_domain 'b' %}{% embed 'y' %}{% trans_default_domain 'c' %}{{ <caret> }}{% endembed %}{% endembed %}",
			want:   "c",
			wantOK: true,
		},
		{
			name:   "nested embed without directive uses enclosing embed",
			src:    "{% trans_default_domain 'a' %}{% embed 'x' %}{% trans_default_domain 'b' %}{% embed 'y' %}{{ <caret> }}{% endembed %}{% endembed %}",
			want:   "b",
			wantOK: true,
		},
		{
			name:   "closed sibling embed does not leak its directive",
			src:    "{% trans_default_domain 'a' %}{% embed 'x' %}{% trans_default_domain 'b' %}{% endembed %}{% embed 'y' %}{{ <caret> }}{% endembed %}",
			want:   "a",
			wantOK: true,
		},
		{
			name:   "directive inside block belongs to file scope",
			src:    "{% block body %}{% trans_default_domain 'foo' %}{% endblock %}{{ <caret> }}",
			want:   "foo",
			wantOK: true,
		},
		{
			name:   "embed tag itself belongs to the outer scope",
			src:    "{% trans_default_domain 'foo' %}{% embed '<caret>e' %}{% trans_default_domain 'bar' %}{% endembed %}",
			want:   "foo",
			wantOK: true,
		},
		{
			name:   "variable domain is ignored",
			src:    "{% trans_default_domain domain %}{{ <caret> }}",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, node := parseAtCaret(t, tt.src)
			domain, ok := GetTransDefaultDomainOnScope(node)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, domain)
		})
	}
}

func TestScopeNode(t *testing.T) {
	doc := parser.Parse("{% embed 'e' %}{% trans_default_domain 'x' %}{% endembed %}")

	root := ScopeOf(doc.Root)
	assert.Equal(t, ScopeFileRoot, root.Kind())
	assert.False(t, root.Parent().Valid())
	assert.False(t, root.Owner().Valid())

	embed := ScopeOf(doc.Root.Children[0])
	assert.Equal(t, ScopeEmbed, embed.Kind())
	assert.Equal(t, root, embed.Owner())

	directives := Directives(doc.Root)
	require.Len(t, directives, 1)
	assert.Equal(t, "x", directives[0].Domain)
	assert.Equal(t, embed, directives[0].Owner)

	assert.Equal(t, "domain-directive", ScopeDomainDirective.String())
	assert.Equal(t, "other", ScopeOther.String())
}

func TestFileDomain(t *testing.T) {
	doc := parser.Parse("{% trans_default_domain 'a' %}{% embed 'e' %}{% trans_default_domain 'b' %}{% endembed %}")
	domain, ok := FileDomain(doc)
	assert.True(t, ok)
	assert.Equal(t, "a", domain)

	_, ok = FileDomain(parser.Parse("{{ x }}"))
	assert.False(t, ok)
}

func TestDomainAt(t *testing.T) {
	src := "{% trans_default_domain 'scope' %}" +
		"{{ 'a'|trans({}, 'filter') }}" +
		"{% trans from 'tag' %}b{% endtrans %}" +
		"{{ 'c'|trans }}"
	doc := parser.Parse(src)

	tests := []struct {
		at   string
		want Domain
	}{
		{"a'|trans({}", Domain{Name: "filter", Source: SourceFilter}},
		{"b{%", Domain{Name: "tag", Source: SourceTag}},
		{"c'|", Domain{Name: "scope", Source: SourceDefault}},
	}

	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			got, ok := DomainAt(doc, strings.Index(src, tt.at))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := DomainAt(parser.Parse("{{ x }}"), 3)
	assert.False(t, ok)
}

func TestUsages(t *testing.T) {
	src := "{% trans_default_domain 'app' %}" +
		"{{ 'title'|trans }}" +
		"{{ 'count'|transchoice(2, {}, 'stats') }}" +
		"{{ 'plain'|upper }}" +
		"{{ \"x#{y}\"|trans }}"

	usages := Usages(parser.Parse(src))
	require.Len(t, usages, 2)
	assert.Equal(t, "title", usages[0].Key)
	assert.Equal(t, "app", usages[0].Domain)
	assert.Equal(t, "count", usages[1].Key)
	assert.Equal(t, "stats", usages[1].Domain)
}
