package reconcile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/FiammaMuscari/analizer/config"
	"github.com/FiammaMuscari/analizer/keytree"
	"github.com/FiammaMuscari/analizer/locale"
	"github.com/FiammaMuscari/analizer/scan"
)

// newEngine builds an engine over temp dirs with the given locale
// trees and one source file referencing usedKeys via t() calls.
func newEngine(t *testing.T, trees map[string]keytree.Tree, usedKeys []string) *Engine {
	t.Helper()

	localesDir := t.TempDir()
	store := locale.Store{Dir: localesDir}
	for loc, tree := range trees {
		if err := store.Save(loc, tree); err != nil {
			t.Fatalf("seeding %s: %v", loc, err)
		}
	}

	srcDir := t.TempDir()
	src := ""
	for _, key := range usedKeys {
		src += "t(\"" + key + "\");\n"
	}
	if err := os.WriteFile(filepath.Join(srcDir, "app.js"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default(srcDir)
	cfg.SourceDirs = []string{srcDir}

	return &Engine{
		Store:   store,
		Scanner: scan.New(nil, nil),
		Config:  cfg,
	}
}

func statusByKey(rep *Report, key string) (KeyStatus, bool) {
	for _, st := range rep.Statuses {
		if st.Key == key {
			return st, true
		}
	}
	return KeyStatus{}, false
}

func TestAnalyzeClassification(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{
		"en": {"greeting": "Hello", "farewell": "Bye"},
		"es": {"greeting": "Hola"},
	}, []string{"greeting", "welcome"})

	rep, err := e.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !reflect.DeepEqual(rep.Locales, []string{"en", "es"}) {
		t.Fatalf("locales = %v, want [en es]", rep.Locales)
	}

	tests := []struct {
		key                string
		inCode, inEn, inEs bool
	}{
		{"greeting", true, true, true},
		{"farewell", false, true, false},
		{"welcome", true, false, false},
	}
	for _, tc := range tests {
		st, ok := statusByKey(rep, tc.key)
		if !ok {
			t.Fatalf("key %q missing from report", tc.key)
		}
		if st.InCode != tc.inCode || st.InLocales["en"] != tc.inEn || st.InLocales["es"] != tc.inEs {
			t.Fatalf("%q status = code:%v en:%v es:%v, want code:%v en:%v es:%v",
				tc.key, st.InCode, st.InLocales["en"], st.InLocales["es"], tc.inCode, tc.inEn, tc.inEs)
		}
	}

	// Sorted ascending by key.
	for i := 1; i < len(rep.Statuses); i++ {
		if rep.Statuses[i-1].Key >= rep.Statuses[i].Key {
			t.Fatalf("statuses not sorted: %q before %q", rep.Statuses[i-1].Key, rep.Statuses[i].Key)
		}
	}
}

func TestAnalyzeDefaultLocaleFatal(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{"es": {"a": "1"}}, []string{"a"})
	if _, err := e.Analyze(); err == nil {
		t.Fatal("absent default locale should fail the run")
	}

	// Unparsable default locale is fatal too.
	e = newEngine(t, nil, []string{"a"})
	if err := os.WriteFile(e.Store.Path("en"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Analyze(); err == nil {
		t.Fatal("unparsable default locale should fail the run")
	}
}

func TestAnalyzeSecondaryLocaleTolerated(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{"en": {"a": "1"}}, []string{"a"})

	var logged int
	e.Logf = func(format string, args ...any) { logged++ }

	rep, err := e.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(rep.Locales, []string{"en"}) {
		t.Fatalf("locales = %v, want [en] (es excluded)", rep.Locales)
	}
	if logged == 0 {
		t.Fatal("missing secondary locale should be logged")
	}

	st, _ := statusByKey(rep, "a")
	if st.InLocales["es"] {
		t.Fatal("excluded locale must not report presence")
	}
}

func TestMissingAndUnusedQueries(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{
		"en": {"used": "u", "stale": "s"},
		"es": {"used": "u"},
	}, []string{"used", "untranslated"})

	rep, err := e.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := rep.Missing(); !reflect.DeepEqual(got, []string{"untranslated"}) {
		t.Fatalf("Missing() = %v, want [untranslated]", got)
	}
	if got := rep.UnusedIn("en"); !reflect.DeepEqual(got, []string{"stale"}) {
		t.Fatalf("UnusedIn(en) = %v, want [stale]", got)
	}
	if got := rep.UnusedIn("es"); got != nil {
		t.Fatalf("UnusedIn(es) = %v, want none", got)
	}
}

func TestIncompleteTranslationGap(t *testing.T) {
	// A key defined in the default locale but absent from a secondary
	// one is a translation gap, not a candidate for the add operation.
	e := newEngine(t, map[string]keytree.Tree{
		"en": {"partial": "p"},
		"es": {},
	}, []string{"partial"})

	rep, err := e.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := rep.Missing(); got != nil {
		t.Fatalf("Missing() = %v, want none", got)
	}
	if got := rep.Incomplete(); !reflect.DeepEqual(got, []string{"partial"}) {
		t.Fatalf("Incomplete() = %v, want [partial]", got)
	}
}

func TestAddMissingPlaceholder(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{
		"en": {"a": "1"},
		"es": {},
	}, []string{"a", "b"})

	rep, err := e.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	added := e.AddMissing(rep, nil)
	if added != 2 {
		t.Fatalf("AddMissing() = %d insertions, want 2 (b into en and es)", added)
	}

	en, err := e.Store.Load("en")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(en, keytree.Tree{"a": "1", "b": "[b]"}) {
		t.Fatalf("en = %v, want existing key kept and [b] placeholder", en)
	}

	es, err := e.Store.Load("es")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(es, keytree.Tree{"b": "[b]"}) {
		t.Fatalf("es = %v, want only the [b] placeholder", es)
	}
}

func TestAddMissingSuppliedValueAndNesting(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{
		"en": {},
		"es": {},
	}, []string{"menu.file.open"})

	rep, err := e.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	e.AddMissing(rep, func(key string) string {
		if key == "menu.file.open" {
			return "Open"
		}
		return ""
	})

	for _, loc := range []string{"en", "es"} {
		tree, err := e.Store.Load(loc)
		if err != nil {
			t.Fatal(err)
		}
		if got := keytree.Resolve(tree, "menu.file.open"); got != "Open" {
			t.Fatalf("%s menu.file.open = %q, want Open (tree %v)", loc, got, tree)
		}
	}
}

func TestDeleteUnused(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{
		"en": {"a": "1", "b": "2"},
		"es": {"b": "2"},
	}, []string{"a"})

	rep, err := e.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	removed, err := e.DeleteUnused("en", rep.UnusedIn("en"))
	if err != nil {
		t.Fatalf("DeleteUnused: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	en, err := e.Store.Load("en")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(en, keytree.Tree{"a": "1"}) {
		t.Fatalf("en = %v, want {a:1}", en)
	}

	// The untargeted locale is untouched.
	es, err := e.Store.Load("es")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(es, keytree.Tree{"b": "2"}) {
		t.Fatalf("es = %v, want untouched {b:2}", es)
	}
}

func TestDeleteUnusedSkipsAbsentKeys(t *testing.T) {
	e := newEngine(t, map[string]keytree.Tree{
		"en": {"a": "1"},
		"es": {},
	}, nil)

	removed, err := e.DeleteUnused("en", []string{"a", "already.gone"})
	if err != nil {
		t.Fatalf("DeleteUnused: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1 (absent key skipped without error)", removed)
	}
}
