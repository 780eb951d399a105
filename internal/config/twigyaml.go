package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// TwigYAMLFiles are the Symfony configuration files that may declare twig paths
var TwigYAMLFiles = []string{
	"config/packages/twig.yaml",
	"config/packages/twig.yml",
	"app/config/config.yml",
}

// kernelParameters expand to directories relative to the project root
var kernelParameters = map[string]string{
	"kernel.project_dir": "",
	"kernel.root_dir":    "app",
}

var parameterPattern = regexp.MustCompile(`%([^%]+)%`)

// ErrUnknownParameter is returned for paths using parameters we cannot expand
var ErrUnknownParameter = errors.New("unknown container parameter")

// twigYAML mirrors the part of the framework configuration we read
type twigYAML struct {
	Twig struct {
		DefaultPath string    `yaml:"default_path"`
		Paths       yaml.Node `yaml:"paths"`
	} `yaml:"twig"`
}

// ParseTwigYAML decodes the twig section of a Symfony configuration file.
//
//	twig:
//	    default_path: '%kernel.project_dir%/templates'
//	    paths:
//	        '%kernel.project_dir%/src/res': foo
//	        'lib/views': ~
//
// Directories are relative to the project root. A null namespace maps the
// directory into the global namespace. Documents without a twig section
// yield no entries and no error.
func ParseTwigYAML(data []byte, source string) ([]PathEntry, error) {
	var doc twigYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, source, err)
	}

	var entries []PathEntry
	var errs []error

	add := func(dir, namespace string) {
		expanded, err := expandParameters(dir)
		if err == nil {
			expanded, err = resolveDir("", "/"+expanded)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", source, err))
			return
		}
		entries = append(entries, PathEntry{
			Namespace: strings.TrimPrefix(namespace, "@"),
			Dir:       expanded,
			Type:      TypePath,
			Source:    source,
		})
	}

	paths := &doc.Twig.Paths
	switch paths.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(paths.Content); i += 2 {
			dir, ns := paths.Content[i], paths.Content[i+1]
			namespace := ""
			if ns.ShortTag() != "!!null" {
				namespace = ns.Value
			}
			add(dir.Value, namespace)
		}
	case yaml.SequenceNode:
		for _, dir := range paths.Content {
			add(dir.Value, "")
		}
	}

	if doc.Twig.DefaultPath != "" {
		add(doc.Twig.DefaultPath, "")
	}

	return entries, errors.Join(errs...)
}

// expandParameters replaces known %parameter% tokens
func expandParameters(dir string) (string, error) {
	var unknown []string
	out := parameterPattern.ReplaceAllStringFunc(dir, func(match string) string {
		name := strings.Trim(match, "%")
		value, ok := kernelParameters[name]
		if !ok {
			unknown = append(unknown, name)
			return match
		}
		return value
	})

	if len(unknown) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownParameter, strings.Join(unknown, ", "))
	}
	return out, nil
}
