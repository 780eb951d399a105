// Package mcp implements the Model Context Protocol (MCP) server for TwigContext.
//
// The MCP server exposes the Twig analysis of a Symfony project to AI coding
// assistants:
//   - index_templates: Index template names, references and translations
//   - resolve_template: Map a template name to its files
//   - template_name_by_overwrite: Name a bundle override file
//   - create_template_paths: Where a missing template could be created
//   - translation_domain: Translation domain at a cursor position
//   - validate_template_string: Whether a string literal is a usable template name
//   - search_templates: Search indexed template names
//   - find_template_usages: Templates referencing a template
//   - find_translation_usages: Templates translating a key
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// # Sessions
//
// Resolution tools read the project configuration (ide-twig.json, the
// Symfony twig yaml files and the bundle layout) through a session that is
// loaded on first use and kept per project root. index_templates reloads the
// session of the project it indexed, so configuration edits are picked up
// by indexing again.
//
// Resolution tools do not need an index. search_templates and the usage
// tools do, and fail with -32003 until index_templates ran.
//
// # Tool: resolve_template
//
//	Request:
//	{
//	  "name": "resolve_template",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "name": "FooBundle:Default:index.html.twig"
//	  }
//	}
//
//	Response:
//	{
//	  "name": "FooBundle:Default:index.html.twig",
//	  "normalized": "FooBundle:Default/index.html.twig",
//	  "valid": true,
//	  "kind": "bundle",
//	  "files": [
//	    "app/Resources/FooBundle/views/Default/index.html.twig",
//	    "src/FooBundle/Resources/views/Default/index.html.twig"
//	  ],
//	  "primary": "app/Resources/FooBundle/views/Default/index.html.twig"
//	}
//
// # Tool: translation_domain
//
// The position is given as a byte offset, or as line and column. The
// template is read from file below path, or passed inline as source:
//
//	Request:
//	{
//	  "name": "translation_domain",
//	  "arguments": {
//	    "source": "{% trans_default_domain 'admin' %}{{ 'title'|trans }}",
//	    "offset": 38
//	  }
//	}
//
//	Response:
//	{
//	  "found": true,
//	  "domain": "admin",
//	  "source": "default",
//	  "file_default_domain": "admin",
//	  "offset": 38,
//	  "line": 1,
//	  "column": 39
//	}
//
// # Error Handling
//
// Failures are returned as MCPError values:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "invalid path",
//	    "data": {
//	      "param": "path",
//	      "reason": "path does not exist"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: No Twig templates below path
//   - -32002: Indexing in progress
//   - -32003: Project not indexed
//   - -32004: Empty search query
//
// # Logging
//
// The server logs to stderr; stdout is reserved for the MCP protocol.
package mcp
