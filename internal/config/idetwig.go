package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dshills/twigcontext-mcp/internal/filetree"
)

// IdeTwigFileName is the project-local mapping descriptor
const IdeTwigFileName = "ide-twig.json"

var (
	// ErrInvalidConfig is returned for descriptors that cannot be decoded
	ErrInvalidConfig = errors.New("invalid template path configuration")
	// ErrInvalidPath is returned for entries whose directory escapes the project
	ErrInvalidPath = errors.New("invalid template path")
)

// ideTwigNamespace is one element of the plugin's "namespaces" array
type ideTwigNamespace struct {
	Namespace string `json:"namespace"`
	Path      string `json:"path"`
	Type      string `json:"type"`
}

// ParseIdeTwig decodes an ide-twig.json document.
//
// Two shapes are accepted:
//
//	{"namespaces": [{"namespace": "foo", "path": "res", "type": "Bundle"}]}
//	{"foo": ["res", "other"], "": ["res"]}
//
// Directories are relative to baseDir, the directory holding the file.
// Entries with invalid directories are dropped and reported in the returned
// error while the remaining entries are still returned.
func ParseIdeTwig(data []byte, baseDir, source string) ([]PathEntry, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, source, err)
	}

	if raw, ok := doc["namespaces"]; ok {
		var namespaces []ideTwigNamespace
		if err := json.Unmarshal(raw, &namespaces); err == nil {
			return pluginEntries(namespaces, baseDir, source)
		}
	}

	return mapEntries(doc, baseDir, source)
}

func pluginEntries(namespaces []ideTwigNamespace, baseDir, source string) ([]PathEntry, error) {
	entries := make([]PathEntry, 0, len(namespaces))
	var errs []error

	for _, ns := range namespaces {
		dir, err := resolveDir(baseDir, ns.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: namespace %q: %w", source, ns.Namespace, err))
			continue
		}

		typ := TypePath
		if strings.EqualFold(ns.Type, "bundle") {
			typ = TypeBundle
		}

		entries = append(entries, PathEntry{
			Namespace: strings.TrimPrefix(ns.Namespace, "@"),
			Dir:       dir,
			Type:      typ,
			Source:    source,
		})
	}

	return entries, errors.Join(errs...)
}

func mapEntries(doc map[string]json.RawMessage, baseDir, source string) ([]PathEntry, error) {
	// Map iteration order is random; sort keys so resolution order is stable.
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entries []PathEntry
	var errs []error

	for _, key := range keys {
		dirs, err := decodeDirs(doc[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: namespace %q: %v", ErrInvalidConfig, source, key, err))
			continue
		}

		for _, d := range dirs {
			dir, err := resolveDir(baseDir, d)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: namespace %q: %w", source, key, err))
				continue
			}
			entries = append(entries, PathEntry{
				Namespace: strings.TrimPrefix(key, "@"),
				Dir:       dir,
				Type:      TypePath,
				Source:    source,
			})
		}
	}

	return entries, errors.Join(errs...)
}

// decodeDirs accepts either a single directory string or a list of them
func decodeDirs(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, errors.New("expected a directory or a list of directories")
	}
	return []string{single}, nil
}

// resolveDir joins a configured directory onto baseDir inside the tree.
// A leading "/" anchors the directory at the tree root.
func resolveDir(baseDir, dir string) (string, error) {
	dir = strings.ReplaceAll(strings.TrimSpace(dir), "\\", "/")
	if !strings.HasPrefix(dir, "/") {
		dir = path.Join(baseDir, dir)
	}

	clean, err := filetree.Clean(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, dir)
	}
	return clean, nil
}
