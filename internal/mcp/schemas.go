package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the Symfony project root",
	}
	fileProperty = map[string]interface{}{
		"type":        "string",
		"description": "Template file, relative to the project root or absolute inside it",
	}
	nameProperty = map[string]interface{}{
		"type":        "string",
		"description": "Template name, e.g. '@Foo/bar.html.twig', 'FooBundle:Bar:baz.html.twig' or 'base.html.twig'",
	}
	sourceProperty = map[string]interface{}{
		"type":        "string",
		"description": "Inline template source; used instead of reading file from path",
	}
	offsetProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Byte offset of the cursor in the template",
		"minimum":     0,
	}
	lineProperty = map[string]interface{}{
		"type":        "integer",
		"description": "1-based cursor line, used with column when offset is absent",
		"minimum":     1,
	}
	columnProperty = map[string]interface{}{
		"type":        "integer",
		"description": "1-based cursor column",
		"minimum":     1,
	}
)

// indexTemplatesTool returns the tool definition for index_templates
func indexTemplatesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_templates",
		Description: "Index the Twig templates of a Symfony project: names, references and translations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"force_reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-index all templates ignoring content hashes (full rebuild)",
					"default":     false,
				},
				"include_vendor": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, index templates below vendor/",
					"default":     false,
				},
				"workers": map[string]interface{}{
					"type":        "integer",
					"description": "Number of concurrent parse workers (default: number of CPUs)",
					"minimum":     1,
				},
			},
			Required: []string{"path"},
		},
	}
}

// resolveTemplateTool returns the tool definition for resolve_template
func resolveTemplateTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_template",
		Description: "Resolve a Twig template name to the files it refers to, highest priority first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"name": nameProperty,
				"include_candidates": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, list every root the name was tried against",
					"default":     false,
				},
			},
			Required: []string{"path", "name"},
		},
	}
}

// templateNameByOverwriteTool returns the tool definition for template_name_by_overwrite
func templateNameByOverwriteTool() mcp.Tool {
	return mcp.Tool{
		Name:        "template_name_by_overwrite",
		Description: "Name a bundle override file is exposed under, plus every other name the file is reachable by",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"file": fileProperty,
			},
			Required: []string{"path", "file"},
		},
	}
}

// createTemplatePathsTool returns the tool definition for create_template_paths
func createTemplatePathsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_template_paths",
		Description: "Paths a missing template could be created at, one per matching template root",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"name": nameProperty,
			},
			Required: []string{"path", "name"},
		},
	}
}

// translationDomainTool returns the tool definition for translation_domain
func translationDomainTool() mcp.Tool {
	return mcp.Tool{
		Name:        "translation_domain",
		Description: "Translation domain in effect at a position: trans filter argument, trans tag 'from', or trans_default_domain in scope",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path":   pathProperty,
				"file":   fileProperty,
				"source": sourceProperty,
				"offset": offsetProperty,
				"line":   lineProperty,
				"column": columnProperty,
			},
		},
	}
}

// validateTemplateStringTool returns the tool definition for validate_template_string
func validateTemplateStringTool() mcp.Tool {
	return mcp.Tool{
		Name:        "validate_template_string",
		Description: "Check whether the string literal at a position is a plain template name (no interpolation, no concatenation)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path":   pathProperty,
				"file":   fileProperty,
				"source": sourceProperty,
				"offset": offsetProperty,
				"line":   lineProperty,
				"column": columnProperty,
			},
		},
	}
}

// searchTemplatesTool returns the tool definition for search_templates
func searchTemplatesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_templates",
		Description: "Search indexed template names; exact matches rank above prefix and substring matches",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Part of a template name",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"kinds": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to these naming conventions",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"bundle", "namespaced", "path"},
					},
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// findTemplateUsagesTool returns the tool definition for find_template_usages
func findTemplateUsagesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_template_usages",
		Description: "Templates that extend, include, embed, import or use a template, given its name or file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"name": nameProperty,
				"file": fileProperty,
			},
			Required: []string{"path"},
		},
	}
}

// findTranslationUsagesTool returns the tool definition for find_translation_usages
func findTranslationUsagesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_translation_usages",
		Description: "Places a translation key is passed through the trans or transchoice filter",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Translation key",
				},
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "Only report usages resolved to this domain",
				},
			},
			Required: []string{"path", "key"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a Symfony project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
			},
			Required: []string{"path"},
		},
	}
}
