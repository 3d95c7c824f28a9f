// Package config builds the explicit configuration value the analizer
// components receive at startup: candidate locale directories, source
// directories, scanned extensions, skipped directories and the locale
// list. Defaults cover a conventional web project layout; a
// .analizer.yaml file in the project root overrides any of them.
// No component reads ambient global state.
package config

import (
	"path/filepath"
)

// Config holds all process-wide settings, constructed once in main and
// passed by value into each component's entry point.
type Config struct {
	// Root is the project root directory.
	Root string
	// LocaleDirCandidates are probed in order; the first existing
	// directory holds the locale JSON files.
	LocaleDirCandidates []string
	// SourceDirs are the roots scanned for translation-key usage.
	SourceDirs []string
	// DefaultLocale is the comparison baseline (its file must load).
	DefaultLocale string
	// Locales is the full locale list, default locale included.
	Locales []string
	// Extensions is the allow-list of scanned file extensions.
	Extensions []string
	// SkipDirs is the deny-list of directory names during scanning.
	SkipDirs []string
}

// Default returns the conventional configuration for a project root.
func Default(root string) Config {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return Config{
		Root: abs,
		LocaleDirCandidates: []string{
			filepath.Join(abs, "public", "locales"),
			filepath.Join(abs, "src", "locales"),
			filepath.Join(abs, "src", "i18n", "locales"),
			filepath.Join(abs, "locales"),
		},
		SourceDirs:    []string{filepath.Join(abs, "src")},
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		Extensions:    []string{".js", ".jsx", ".ts", ".tsx"},
		SkipDirs:      []string{".git", "node_modules", "dist", "build", "coverage", ".next"},
	}
}

// Secondaries returns the locales other than the default one.
func (c Config) Secondaries() []string {
	var out []string
	for _, l := range c.Locales {
		if l != c.DefaultLocale {
			out = append(out, l)
		}
	}
	return out
}
