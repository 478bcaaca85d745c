package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInputNotFound is returned when no candidate input path exists.
var ErrInputNotFound = errors.New("input not found")

// Load reads and parses scanner input.
//
// path is tried first as given. When it does not exist, each fallback
// directory is tried in order with path joined beneath it, so a relative
// input name resolves the same way from a package directory and from the
// repository root.
func Load(path string, fallbackDirs ...string) ([]Scanner, error) {
	resolved, err := Resolve(path, fallbackDirs...)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	scanners, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resolved, err)
	}
	return scanners, nil
}

// Resolve returns the first existing candidate for path.
func Resolve(path string, fallbackDirs ...string) (string, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		for _, dir := range fallbackDirs {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: searched %s", ErrInputNotFound, strings.Join(candidates, ", "))
}
