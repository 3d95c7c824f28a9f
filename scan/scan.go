// Package scan walks a source tree and collects translation keys
// referenced by t() lookup calls.
//
// Extraction is regex-based over raw file text. That means an unrelated
// function that happens to be called t() will produce false positives;
// this is the accepted scope of the heuristic, the same trade-off every
// text-level i18n extractor makes.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultExtensions lists the source file extensions scanned for
// translation calls.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

// DefaultSkipDirs lists directory names never descended into:
// dependency caches, build output and version-control metadata.
var DefaultSkipDirs = []string{
	".git",
	"node_modules",
	"dist",
	"build",
	"coverage",
	".next",
}

// defaultPatterns match translation-lookup invocations that pass a
// literal string key, with single, double or backtick delimiters:
//
//	t("key")           bare single-argument call
//	t("key", {...})    trailing options argument
//	i18n.t("key")      namespaced-object style
//
// A "namespace:key" literal matches any of these and is normalized by
// stripNamespace.
var defaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bt\(\s*['"\x60]([^'"\x60]+)['"\x60]\s*\)`),
	regexp.MustCompile(`\bt\(\s*['"\x60]([^'"\x60]+)['"\x60]\s*,`),
	regexp.MustCompile(`\bi18n\.t\(\s*['"\x60]([^'"\x60]+)['"\x60]`),
}

// Scanner collects used translation keys from source directories.
type Scanner struct {
	extensions map[string]bool
	skipDirs   map[string]bool
	patterns   []*regexp.Regexp

	// Logf receives per-item diagnostics (unreadable files and
	// directories). Nil means silent.
	Logf func(format string, args ...any)
}

// New returns a Scanner for the given extensions and skip-directory
// names. Empty slices select the defaults.
func New(extensions, skipDirs []string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if len(skipDirs) == 0 {
		skipDirs = DefaultSkipDirs
	}

	s := &Scanner{
		extensions: make(map[string]bool, len(extensions)),
		skipDirs:   make(map[string]bool, len(skipDirs)),
		patterns:   defaultPatterns,
	}
	for _, ext := range extensions {
		s.extensions[ext] = true
	}
	for _, dir := range skipDirs {
		s.skipDirs[dir] = true
	}
	return s
}

func (s *Scanner) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

// Scan recursively walks each root directory and returns the
// deduplicated set of translation keys referenced in matching source
// files. Unreadable files and directories are logged and skipped; they
// never abort the scan.
func (s *Scanner) Scan(dirs []string) map[string]bool {
	used := make(map[string]bool)

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logf("skipping %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				if s.skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !s.extensions[filepath.Ext(path)] {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				s.logf("skipping %s: %v", path, err)
				return nil
			}
			for key := range s.ScanText(string(data)) {
				used[key] = true
			}
			return nil
		})
		if err != nil {
			s.logf("skipping %s: %v", dir, err)
		}
	}

	return used
}

// ScanText applies the extraction patterns to one file's text content.
func (s *Scanner) ScanText(text string) map[string]bool {
	keys := make(map[string]bool)
	for _, pattern := range s.patterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			key := stripNamespace(m[1])
			if key != "" {
				keys[key] = true
			}
		}
	}
	return keys
}

// stripNamespace removes an i18next "namespace:" prefix so that
// "common:hello" and "hello" count as the same key.
func stripNamespace(key string) string {
	if idx := strings.Index(key, ":"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
