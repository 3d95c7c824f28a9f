// Package locale loads and persists per-locale translation dictionaries.
//
// Each locale maps 1:1 to a JSON document <dir>/<locale>.json: a UTF-8
// object of arbitrary nesting depth whose leaves are normally strings.
// Missing files are reported distinctly from broken ones so callers can
// tolerate absence without swallowing parse errors.
package locale

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/FiammaMuscari/analizer/keytree"
)

// Store reads and writes locale files in a single directory.
type Store struct {
	Dir string
}

// Path returns the on-disk path for a locale's JSON file.
func (s Store) Path(locale string) string {
	return filepath.Join(s.Dir, locale+".json")
}

// Exists reports whether the locale file is present.
func (s Store) Exists(locale string) bool {
	info, err := os.Stat(s.Path(locale))
	return err == nil && !info.IsDir()
}

// Load reads and parses one locale's dictionary. A missing file yields
// an error satisfying errors.Is(err, fs.ErrNotExist); a file that exists
// but is not a JSON object yields a distinct parse error.
func (s Store) Load(locale string) (keytree.Tree, error) {
	path := s.Path(locale)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var tree keytree.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if tree == nil {
		tree = make(keytree.Tree)
	}
	return tree, nil
}

// Save serializes the dictionary with stable 2-space indentation and a
// trailing newline, writing to a temp file in the same directory and
// renaming over the target so a crash cannot leave a torn file.
func (s Store) Save(locale string, tree keytree.Tree) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encoding %s: %w", locale, err)
	}

	path := s.Path(locale)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+locale+"-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// IsNotExist reports whether err marks a locale file that simply is not
// there (as opposed to one that failed to parse).
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Discover probes candidate directories in order and returns the first
// one that exists. The second result is false when none do.
func Discover(candidates []string) (string, bool) {
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// DisplayName returns a human-readable English name for a locale code,
// e.g. "es" -> "Spanish". Unrecognized codes come back unchanged.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
