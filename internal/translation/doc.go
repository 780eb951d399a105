// Package translation resolves Symfony translation domains in Twig
// templates.
//
// A domain can be given in three places, checked in this order by DomainAt:
//
//	{{ 'key'|trans({}, 'app') }}                 filter argument
//	{% trans from 'app' %}key{% endtrans %}      tag clause
//	{% trans_default_domain 'app' %}             scope default
//
// # Filter Arguments
//
// GetDomainTrans accepts the trans(params, domain) and
// transchoice(count, params, domain) shapes. The domain is the last argument
// and must be a literal string; the arguments before it may be hashes,
// arrays, identifiers, numbers or holes. Anything else is reported as
// unresolved rather than guessed.
//
// # Scopes
//
// trans_default_domain applies to the scope it is declared in. The file is
// one scope and every embed block opens a nested one, since the embedded
// template is rendered separately. GetTransDefaultDomainOnScope searches the
// scopes from the innermost outwards and within each scope takes the last
// directive at or before the position:
//
//	{% trans_default_domain "foo" %}
//	{% embed 'e.html.twig' %}
//	  {% trans_default_domain "foobar" %}
//	  {{ 'a'|trans }}                            foobar
//	{% endembed %}
//	{{ 'b'|trans }}                              foo
//
// Scope traversal only relies on ScopeNode, which reduces tree nodes to a
// ScopeKind and a parent link.
package translation
