// .analizer.yaml configuration file support.
//
// When a .analizer.yaml exists in the project root, its non-empty
// fields override the defaults. Relative paths are resolved against
// the project root.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the root.
const FileName = ".analizer.yaml"

// analizerFile is the YAML schema of .analizer.yaml. All fields are
// optional; zero values keep the defaults.
type analizerFile struct {
	// LocaleDirs are candidate locale directories, probed in order.
	LocaleDirs []string `yaml:"locale_dirs,omitempty"`
	// SourceDirs are roots scanned for translation-key usage.
	SourceDirs []string `yaml:"source_dirs,omitempty"`
	// DefaultLocale is the baseline locale code (default "en").
	DefaultLocale string `yaml:"default_locale,omitempty"`
	// Locales is the full locale list (default locale included).
	Locales []string `yaml:"locales,omitempty"`
	// Extensions is the scanned-extension allow-list.
	Extensions []string `yaml:"extensions,omitempty"`
	// SkipDirs is the directory-name deny-list during scanning.
	SkipDirs []string `yaml:"skip_dirs,omitempty"`
}

// Load returns the configuration for root: the defaults overlaid with
// any .analizer.yaml found there. A missing file is not an error; a
// present but invalid one is.
func Load(root string) (Config, error) {
	cfg := Default(root)

	path := filepath.Join(cfg.Root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	var file analizerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(file.LocaleDirs) > 0 {
		cfg.LocaleDirCandidates = resolveAll(cfg.Root, file.LocaleDirs)
	}
	if len(file.SourceDirs) > 0 {
		cfg.SourceDirs = resolveAll(cfg.Root, file.SourceDirs)
	}
	if file.DefaultLocale != "" {
		cfg.DefaultLocale = file.DefaultLocale
	}
	if len(file.Locales) > 0 {
		cfg.Locales = file.Locales
	}
	if len(file.Extensions) > 0 {
		cfg.Extensions = file.Extensions
	}
	if len(file.SkipDirs) > 0 {
		cfg.SkipDirs = file.SkipDirs
	}

	// The default locale always takes part in the analysis.
	if !contains(cfg.Locales, cfg.DefaultLocale) {
		cfg.Locales = append([]string{cfg.DefaultLocale}, cfg.Locales...)
	}

	return cfg, nil
}

func resolveAll(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(root, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
