// Package dictionary loads tipa pronunciation dictionaries from disk.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temporal-IPA/tipa/pkg/phono"
)

// Load reads one dictionary file. The path may be absolute or relative.
func Load(path string) (phono.Dictionary, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("dictionary: empty path")
	}
	dir, file := filepath.Split(filepath.Clean(path))
	if file == "" {
		return nil, fmt.Errorf("dictionary: path %q has no file component", path)
	}
	if dir == "" {
		dir = "."
	}
	d, err := phono.LoadPaths(os.DirFS(dir), phono.MergeModeAppend, file)
	if err != nil {
		return nil, fmt.Errorf("dictionary: load %s: %w", path, err)
	}
	return d, nil
}

// LoadPair reads a main dictionary and an optional fallback dictionary.
// An empty final path yields a nil fallback.
func LoadPair(main, final string) (phono.Dictionary, phono.Dictionary, error) {
	m, err := Load(main)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(final) == "" {
		return m, nil, nil
	}
	f, err := Load(final)
	if err != nil {
		return nil, nil, err
	}
	return m, f, nil
}
