package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/twigcontext-mcp/internal/parser"
)

func TestReferences(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Reference
	}{
		{"extends", `{% extends 'base.html.twig' %}`, []Reference{{Tag: "extends", Target: "base.html.twig", Offset: 11}}},
		{"include with variables", `{% include 'a.twig' with {x: 1} only %}`, []Reference{{Tag: "include", Target: "a.twig", Offset: 11}}},
		{"include array", `{% include ['a.twig', 'b.twig'] ignore missing %}`, []Reference{
			{Tag: "include", Target: "a.twig", Offset: 12},
			{Tag: "include", Target: "b.twig", Offset: 22},
		}},
		{"embed", `{% embed 'card.twig' %}{% endembed %}`, []Reference{{Tag: "embed", Target: "card.twig", Offset: 9}}},
		{"from", `{% from 'macros.twig' import input %}`, []Reference{{Tag: "from", Target: "macros.twig", Offset: 8}}},
		{"import", `{% import 'forms.twig' as forms %}`, []Reference{{Tag: "import", Target: "forms.twig", Offset: 10}}},
		{"use", `{% use 'blocks.twig' %}`, []Reference{{Tag: "use", Target: "blocks.twig", Offset: 7}}},
		{"conditional extends", `{% extends x ? 'a.twig' : 'b.twig' %}`, []Reference{
			{Tag: "extends", Target: "a.twig", Offset: 15},
			{Tag: "extends", Target: "b.twig", Offset: 26},
		}},
		{"include function", `{{ include('x.twig') }}`, []Reference{{Tag: "include", Target: "x.twig", Offset: 11}}},
		{"source function", `{{ source('raw.txt') }}`, []Reference{{Tag: "source", Target: "raw.txt", Offset: 10}}},
		{"bundle notation is normalized", `{% include 'FooBundle:Default:index.html.twig' %}`, []Reference{
			{Tag: "include", Target: "FooBundle:Default/index.html.twig", Offset: 11},
		}},
		{"concatenation", `{% include 'a/' ~ name %}`, nil},
		{"interpolation", `{% include "#{dir}/x.twig" %}`, nil},
		{"empty name", `{% include '' %}`, nil},
		{"printed string", `{{ 'x.twig' }}`, nil},
		{"other tag", `{% set x = 'y.twig' %}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parser.Parse(tt.src)
			assert.Equal(t, tt.want, References(doc))
		})
	}
}
