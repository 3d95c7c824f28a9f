// Package i18n localizes analizer's own user-facing strings.
//
// It wraps the gotext library behind T() and N() helpers. Catalogs are
// embedded in the binary and loaded once via Init(); before Init (or
// for languages without a catalog) both helpers pass the original
// string through, so the tool always has usable English output.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the PO translation catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/analizer.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for analizer.
const domain = "analizer"

var catalog *gotext.Locale

// Init loads the catalog for lang. An empty lang auto-detects from the
// environment variables LANGUAGE, LC_ALL, LC_MESSAGES, LANG in that
// order, matching GNU gettext behavior. Call once at startup.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	catalog = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	catalog.AddDomain(domain)
	catalog.SetDomain(domain)
}

// T translates a string, returning it unchanged when no translation is
// available.
func T(msgid string) string {
	if catalog == nil {
		return msgid
	}
	return catalog.Get(msgid)
}

// N translates a string with plural forms.
func N(singular, plural string, n int) string {
	if catalog == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return catalog.GetN(singular, plural, n)
}

// detectLanguage reads the gettext environment variables to determine
// the user's preferred language.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// Strip encoding suffix (e.g. "es_ES.UTF-8" -> "es_ES").
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
