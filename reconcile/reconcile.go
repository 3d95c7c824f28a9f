// Package reconcile compares the keys defined in the locale files with
// the keys referenced by the source tree and produces a per-key status
// report, plus the two mutations driven by that report: inserting
// missing keys and deleting unused ones.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FiammaMuscari/analizer/config"
	"github.com/FiammaMuscari/analizer/keytree"
	"github.com/FiammaMuscari/analizer/locale"
	"github.com/FiammaMuscari/analizer/scan"
)

// KeyStatus records one key's presence across code usage and each
// available locale.
type KeyStatus struct {
	Key       string
	InCode    bool
	InLocales map[string]bool
}

// Report is the outcome of one analysis pass. It is read-only once
// built; mutations act on the locale store and require a fresh pass.
type Report struct {
	// DefaultLocale is the comparison baseline.
	DefaultLocale string
	// Locales are the locales whose files actually loaded, default
	// locale first.
	Locales []string
	// Statuses holds one entry per key in the universe (union of all
	// locale key sets and the used-key set), sorted ascending.
	Statuses []KeyStatus
}

// Engine wires the store, the scanner and the configuration together.
type Engine struct {
	Store   locale.Store
	Scanner *scan.Scanner
	Config  config.Config

	// Logf receives degraded-but-continue diagnostics. Nil means silent.
	Logf func(format string, args ...any)
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}

// Analyze loads every locale, scans the source tree and builds the
// report. The default locale is the baseline: its file being absent or
// unparsable fails the whole run. A secondary locale that fails to load
// is logged and excluded from the available locales.
func (e *Engine) Analyze() (*Report, error) {
	defaultTree, err := e.Store.Load(e.Config.DefaultLocale)
	if err != nil {
		if locale.IsNotExist(err) {
			return nil, fmt.Errorf("default locale %q has no file at %s", e.Config.DefaultLocale, e.Store.Path(e.Config.DefaultLocale))
		}
		return nil, fmt.Errorf("default locale %q: %w", e.Config.DefaultLocale, err)
	}

	localeKeys := map[string]map[string]bool{
		e.Config.DefaultLocale: keytree.Keys(defaultTree),
	}
	available := []string{e.Config.DefaultLocale}

	for _, loc := range e.Config.Secondaries() {
		tree, err := e.Store.Load(loc)
		if err != nil {
			if locale.IsNotExist(err) {
				e.logf("locale %q: file not found, excluded from report", loc)
			} else {
				e.logf("locale %q: %v, excluded from report", loc, err)
			}
			continue
		}
		localeKeys[loc] = keytree.Keys(tree)
		available = append(available, loc)
	}

	used := e.Scanner.Scan(e.Config.SourceDirs)

	// Universe: every key defined anywhere or used anywhere.
	universe := make(map[string]bool, len(used))
	for key := range used {
		universe[key] = true
	}
	for _, keys := range localeKeys {
		for key := range keys {
			universe[key] = true
		}
	}

	statuses := make([]KeyStatus, 0, len(universe))
	for key := range universe {
		status := KeyStatus{
			Key:       key,
			InCode:    used[key],
			InLocales: make(map[string]bool, len(available)),
		}
		for _, loc := range available {
			status.InLocales[loc] = localeKeys[loc][key]
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Key < statuses[j].Key
	})

	return &Report{
		DefaultLocale: e.Config.DefaultLocale,
		Locales:       available,
		Statuses:      statuses,
	}, nil
}

// Missing returns keys used in code but absent from the default
// locale, the comparison baseline. These are the keys the add
// operation offers values for; the insertion itself then covers every
// available locale that lacks the key.
func (r *Report) Missing() []string {
	var keys []string
	for _, st := range r.Statuses {
		if st.InCode && !st.InLocales[r.DefaultLocale] {
			keys = append(keys, st.Key)
		}
	}
	return keys
}

// Incomplete returns keys that are defined in the default locale but
// absent from at least one secondary locale — translation gaps that
// the status table surfaces without feeding the add operation.
func (r *Report) Incomplete() []string {
	var keys []string
	for _, st := range r.Statuses {
		if !st.InLocales[r.DefaultLocale] {
			continue
		}
		for _, loc := range r.Locales {
			if !st.InLocales[loc] {
				keys = append(keys, st.Key)
				break
			}
		}
	}
	return keys
}

// UnusedIn returns keys present in the given locale but never
// referenced by the scanned sources, sorted ascending.
func (r *Report) UnusedIn(loc string) []string {
	var keys []string
	for _, st := range r.Statuses {
		if st.InLocales[loc] && !st.InCode {
			keys = append(keys, st.Key)
		}
	}
	return keys
}

// Has reports whether loc is among the report's available locales.
func (r *Report) Has(loc string) bool {
	for _, l := range r.Locales {
		if l == loc {
			return true
		}
	}
	return false
}

// CountIn returns how many universe keys the given locale defines.
func (r *Report) CountIn(loc string) int {
	n := 0
	for _, st := range r.Statuses {
		if st.InLocales[loc] {
			n++
		}
	}
	return n
}

// Placeholder synthesizes the visible stand-in value written for a key
// when the operator supplies none, so untranslated entries stay easy to
// spot later.
func Placeholder(key string) string {
	return "[" + key + "]"
}

// AddMissing inserts every missing key (used in code, absent from the
// default locale) into each available locale that lacks it. valueFor
// supplies the translation for a key; an empty result falls back to
// Placeholder. Each locale file is re-read from disk immediately
// before the edit and written immediately after, one key at a time, so
// progress is durable even if the run is cut short. Returns the number
// of individual insertions performed.
func (e *Engine) AddMissing(rep *Report, valueFor func(key string) string) int {
	added := 0
	for _, st := range rep.Statuses {
		if !st.InCode || st.InLocales[rep.DefaultLocale] {
			continue
		}

		var value string
		resolved := false

		for _, loc := range rep.Locales {
			if st.InLocales[loc] {
				continue
			}
			if !resolved {
				if valueFor != nil {
					value = valueFor(st.Key)
				}
				if value == "" {
					value = Placeholder(st.Key)
				}
				resolved = true
			}

			tree, err := e.Store.Load(loc)
			if err != nil {
				if !locale.IsNotExist(err) {
					e.logf("locale %q: %v, skipping key %q", loc, err, st.Key)
					continue
				}
				tree = make(keytree.Tree)
			}
			keytree.Set(tree, strings.Split(st.Key, "."), value)
			if err := e.Store.Save(loc, tree); err != nil {
				e.logf("locale %q: %v, key %q not written", loc, err, st.Key)
				continue
			}
			added++
		}
	}
	return added
}

// DeleteUnused removes the given keys from one locale's tree, skipping
// keys already absent, and writes the tree once at the end. Locale
// files other than loc are untouched. Returns how many keys were
// actually removed.
func (e *Engine) DeleteUnused(loc string, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	tree, err := e.Store.Load(loc)
	if err != nil {
		return 0, fmt.Errorf("locale %q: %w", loc, err)
	}

	removed := 0
	for _, key := range keys {
		if keytree.Remove(tree, strings.Split(key, ".")) {
			removed++
		}
	}

	if removed > 0 {
		if err := e.Store.Save(loc, tree); err != nil {
			return removed, fmt.Errorf("locale %q: %w", loc, err)
		}
	}
	return removed, nil
}
