package config

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/dshills/twigcontext-mcp/internal/filetree"
)

// DiscoverIdeTwigFiles finds every ide-twig.json in the tree.
// Shallower files come first so the project root descriptor wins ties.
func DiscoverIdeTwigFiles(ctx context.Context, tree filetree.Tree) ([]string, error) {
	var files []string

	err := tree.Walk("", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if filetree.SkipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == IdeTwigFileName {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		di, dj := strings.Count(files[i], "/"), strings.Count(files[j], "/")
		if di != dj {
			return di < dj
		}
		return files[i] < files[j]
	})
	return files, nil
}

// LoadIdeTwigFile reads and decodes one ide-twig.json
func LoadIdeTwigFile(tree filetree.Tree, rel string) ([]PathEntry, error) {
	data, err := tree.ReadFile(rel)
	if err != nil {
		return nil, err
	}
	return ParseIdeTwig(data, path.Dir(rel), rel)
}

// LoadTwigYAML reads the twig paths of every Symfony configuration file present.
// Missing files are skipped.
func LoadTwigYAML(tree filetree.Tree) ([]PathEntry, error) {
	var entries []PathEntry
	var errs []error

	for _, rel := range TwigYAMLFiles {
		data, err := tree.ReadFile(rel)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		found, err := ParseTwigYAML(data, rel)
		entries = append(entries, found...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return entries, errors.Join(errs...)
}
