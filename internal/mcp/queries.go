package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/internal/parser"
	"github.com/dshills/twigcontext-mcp/internal/resolver"
	"github.com/dshills/twigcontext-mcp/internal/translation"
	"github.com/dshills/twigcontext-mcp/internal/validator"
)

// handleResolveTemplate handles the resolve_template tool invocation
func (s *Server) handleResolveTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}

	res, err := s.resolverFor(ctx, root)
	if err != nil {
		return nil, internalError("failed to load project", err)
	}

	response := map[string]interface{}{
		"name":       name,
		"normalized": resolver.NormalizeTemplateName(name),
	}

	ref, ok := resolver.ParseTemplateReference(name)
	response["valid"] = ok
	if !ok {
		response["files"] = []string{}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	response["kind"] = ref.Kind

	files := res.TemplateFiles(name)
	response["files"] = files
	if primary, found := res.GetTemplateName(name); found {
		response["primary"] = primary
	}

	if getBoolDefault(args, "include_candidates", false) {
		candidates := make([]map[string]interface{}, 0)
		for _, c := range res.Candidates(name) {
			candidates = append(candidates, map[string]interface{}{
				"root":   c.Root,
				"path":   c.Path,
				"source": c.Source,
			})
		}
		response["candidates"] = candidates
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleTemplateNameByOverwrite handles the template_name_by_overwrite tool invocation
func (s *Server) handleTemplateNameByOverwrite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}
	file, err := requireString(args, "file")
	if err != nil {
		return nil, err
	}
	rel, err := relativeFile(root, file)
	if err != nil {
		return nil, invalidParam("file", err)
	}

	res, err := s.resolverFor(ctx, root)
	if err != nil {
		return nil, internalError("failed to load project", err)
	}

	response := map[string]interface{}{
		"file":  rel,
		"names": nonNil(res.TemplateNames(rel)),
	}

	name, ok := res.TemplateNameByOverwrite(rel)
	response["overwrite"] = ok
	if ok {
		response["name"] = name
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCreateTemplatePaths handles the create_template_paths tool invocation
func (s *Server) handleCreateTemplatePaths(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}

	res, err := s.resolverFor(ctx, root)
	if err != nil {
		return nil, internalError("failed to load project", err)
	}

	response := map[string]interface{}{
		"name":     name,
		"paths":    res.GetCreateAbleTemplatePaths(name),
		"existing": res.TemplateFiles(name),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleTranslationDomain handles the translation_domain tool invocation
func (s *Server) handleTranslationDomain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	doc, err := loadDocument(args)
	if err != nil {
		return nil, err
	}
	offset, err := location(doc, args)
	if err != nil {
		return nil, err
	}

	line, column := doc.Position(offset)
	response := map[string]interface{}{
		"offset": offset,
		"line":   line,
		"column": column,
	}

	domain, ok := translation.DomainAt(doc, offset)
	response["found"] = ok
	if ok {
		response["domain"] = domain.Name
		response["source"] = domain.Source
	}
	if fileDomain, ok := translation.FileDomain(doc); ok {
		response["file_default_domain"] = fileDomain
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleValidateTemplateString handles the validate_template_string tool invocation
func (s *Server) handleValidateTemplateString(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	doc, err := loadDocument(args)
	if err != nil {
		return nil, err
	}
	offset, err := location(doc, args)
	if err != nil {
		return nil, err
	}

	node := doc.NodeAt(offset)
	str := node.Ancestor(parser.KindString)

	response := map[string]interface{}{
		"offset":    offset,
		"in_string": str != nil,
		"valid":     node != nil && validator.IsValidTemplateString(node),
	}
	if str != nil {
		response["text"] = doc.TextOf(str)
	}

	value, ok := "", false
	if node != nil {
		value, ok = validator.TemplateString(node)
	}
	if ok {
		response["value"] = value
		if ref, parsed := resolver.ParseTemplateReference(value); parsed {
			response["kind"] = ref.Kind
		}

		// Resolve against the project when one is given
		if _, hasPath := args["path"]; hasPath {
			root, err := projectRoot(args)
			if err != nil {
				return nil, err
			}
			res, err := s.resolverFor(ctx, root)
			if err != nil {
				return nil, internalError("failed to load project", err)
			}
			response["files"] = res.TemplateFiles(value)
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindTemplateUsages handles the find_template_usages tool invocation
func (s *Server) handleFindTemplateUsages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}

	var names []string
	switch {
	case getStringDefault(args, "name", "") != "":
		names = []string{resolver.NormalizeTemplateName(getStringDefault(args, "name", ""))}
	case getStringDefault(args, "file", "") != "":
		rel, err := relativeFile(root, getStringDefault(args, "file", ""))
		if err != nil {
			return nil, invalidParam("file", err)
		}
		res, err := s.resolverFor(ctx, root)
		if err != nil {
			return nil, internalError("failed to load project", err)
		}
		names = res.TemplateNames(rel)
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, "name or file parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	project, err := s.indexedProject(ctx, root)
	if err != nil {
		return nil, err
	}

	usages := make([]map[string]interface{}, 0)
	for _, name := range names {
		refs, err := s.storage.ListReferencesByTarget(ctx, project.ID, name)
		if err != nil {
			return nil, internalError("failed to list references", err)
		}
		for _, ref := range refs {
			usages = append(usages, map[string]interface{}{
				"file":   ref.FilePath,
				"tag":    ref.Tag,
				"target": ref.Target,
				"line":   ref.Line,
			})
		}
	}

	response := map[string]interface{}{
		"names":       nonNil(names),
		"usages":      usages,
		"total_count": len(usages),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindTranslationUsages handles the find_translation_usages tool invocation
func (s *Server) handleFindTranslationUsages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}
	key, err := requireString(args, "key")
	if err != nil {
		return nil, err
	}
	domain, filterDomain := args["domain"].(string)

	project, err := s.indexedProject(ctx, root)
	if err != nil {
		return nil, err
	}

	matches, err := s.storage.ListTranslationsByKey(ctx, project.ID, key)
	if err != nil {
		return nil, internalError("failed to list translations", err)
	}

	usages := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		if filterDomain && m.Domain != domain {
			continue
		}
		usages = append(usages, map[string]interface{}{
			"file":   m.FilePath,
			"domain": m.Domain,
			"line":   m.Line,
		})
	}

	response := map[string]interface{}{
		"key":         key,
		"usages":      usages,
		"total_count": len(usages),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// loadDocument parses the inline source parameter, or the file parameter
// read from the project at path
func loadDocument(args map[string]interface{}) (*parser.Document, error) {
	if src, ok := args["source"].(string); ok {
		return parser.Parse(src), nil
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}
	file, err := requireString(args, "file")
	if err != nil {
		return nil, err
	}
	rel, err := relativeFile(root, file)
	if err != nil {
		return nil, invalidParam("file", err)
	}

	content, err := filetree.NewOS(root).ReadFile(rel)
	if err != nil {
		return nil, invalidParam("file", err)
	}
	return parser.Parse(string(content)), nil
}

// location reads the offset parameter, or line and column, and checks it
// against doc
func location(doc *parser.Document, args map[string]interface{}) (int, error) {
	offset := getIntDefault(args, "offset", -1)
	if offset < 0 {
		line := getIntDefault(args, "line", 0)
		column := getIntDefault(args, "column", 0)
		if line == 0 && column == 0 {
			return 0, newMCPError(ErrorCodeInvalidParams, "offset or line and column are required", map[string]interface{}{
				"param":  "offset",
				"reason": "missing",
			})
		}
		offset = doc.Offset(line, column)
	}

	if offset < 0 || offset > len(doc.Source) {
		return 0, newMCPError(ErrorCodeInvalidParams, "position outside the template", map[string]interface{}{
			"param":  "offset",
			"length": len(doc.Source),
		})
	}
	return offset, nil
}

func invalidParam(param string, err error) error {
	return newMCPError(ErrorCodeInvalidParams, "invalid "+param, map[string]interface{}{
		"param":  param,
		"reason": err.Error(),
	})
}

func internalError(message string, err error) error {
	return newMCPError(ErrorCodeInternalError, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// nonNil keeps empty lists rendering as [] instead of null
func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
