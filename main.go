// analizer — reconciles i18next-style locale files against the
// translation keys actually referenced by a source tree.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FiammaMuscari/analizer/config"
	"github.com/FiammaMuscari/analizer/i18n"
	"github.com/FiammaMuscari/analizer/locale"
	"github.com/FiammaMuscari/analizer/reconcile"
	"github.com/FiammaMuscari/analizer/scan"
	"github.com/FiammaMuscari/analizer/session"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// Exit statuses for fatal conditions.
const (
	exitFatal       = 1 // default locale absent/unparsable, other fatal errors
	exitNoLocaleDir = 2 // no locales directory among the candidates
)

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "analizer",
		Short: "Reconcile locale files against translation-key usage",
		Long: `analizer — reconcile locale JSON files against source-code usage.

Discovers the project's locales directory, extracts every key from the
locale files (nested objects flattened to dot paths), scans the source
tree for t() translation calls, and reports which keys are used in
code, defined in the default locale, and defined in each secondary
locale. Missing keys can be inserted and unused keys deleted.

Commands:
  status      Show the key status table (read-only)
  menu        Interactive session: status, add, delete, re-analyze
  add         Insert placeholder values for keys missing from the default locale
  prune       Delete unused keys from one locale`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init("")
		},
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newMenuCmd(),
		newAddCmd(),
		newPruneCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(exitFatal)
	}
}

// ---------------------------------------------------------------------------
// engine construction (shared by all commands)
// ---------------------------------------------------------------------------

// buildEngine loads the configuration, discovers the locales directory
// and wires the engine. Fatal conditions exit here with their distinct
// statuses: 2 when no candidate directory exists, 1 for a broken
// configuration file.
func buildEngine() *reconcile.Engine {
	cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(exitFatal)
	}

	dir, ok := locale.Discover(cfg.LocaleDirCandidates)
	if !ok {
		logError("No locales directory found. Tried:")
		for _, candidate := range cfg.LocaleDirCandidates {
			fmt.Fprintf(os.Stderr, "  - %s\n", candidate)
		}
		os.Exit(exitNoLocaleDir)
	}
	logInfo("Locales directory: %s", dir)

	scanner := scan.New(cfg.Extensions, cfg.SkipDirs)
	scanner.Logf = logWarning

	return &reconcile.Engine{
		Store:   locale.Store{Dir: dir},
		Scanner: scanner,
		Config:  cfg,
		Logf:    logWarning,
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("analizer version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// status (read-only key report)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the key status table",
		Long: `Analyze the project and print one row per key: whether it is used
in code, defined in the default locale, and defined in each secondary
locale. Does not modify any files.`,
		Run: func(cmd *cobra.Command, args []string) {
			engine := buildEngine()
			report, err := engine.Analyze()
			if err != nil {
				logError("%v", err)
				os.Exit(exitFatal)
			}
			session.RenderReport(os.Stdout, report)
		},
	}
}

// ---------------------------------------------------------------------------
// menu (interactive session)
// ---------------------------------------------------------------------------

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive session: status, add, delete, re-analyze",
		Long: `Run the interactive reconciliation menu:

  1) Show key status table
  2) Add missing keys (prompts for each value)
  3) Delete unused keys from the default locale
  4) Delete unused keys from the secondary locale
  5) Re-run analysis
  6) Exit

Deleting keys asks for confirmation twice; declining either question
leaves every file unchanged.`,
		Run: func(cmd *cobra.Command, args []string) {
			s := &session.Session{
				Engine: buildEngine(),
				In:     os.Stdin,
				Out:    os.Stdout,
			}
			if err := s.Run(); err != nil {
				logError("%v", err)
				os.Exit(exitFatal)
			}
		},
	}
}

// ---------------------------------------------------------------------------
// add (non-interactive: placeholders for missing keys)
// ---------------------------------------------------------------------------

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Insert placeholder values for missing keys",
		Long: `Insert every key that is used in code but absent from the default
locale into each locale file lacking it, with a bracketed placeholder
value derived from the key (e.g. "[menu.open]"). Placeholders are easy
to grep for when filling in real translations later.`,
		Run: func(cmd *cobra.Command, args []string) {
			engine := buildEngine()
			report, err := engine.Analyze()
			if err != nil {
				logError("%v", err)
				os.Exit(exitFatal)
			}

			missing := report.Missing()
			if len(missing) == 0 {
				logSuccess("No missing keys")
				return
			}

			added := engine.AddMissing(report, nil)
			logSuccess("Inserted %d placeholder value(s) for %d key(s)", added, len(missing))
		},
	}
}

// ---------------------------------------------------------------------------
// prune (delete unused keys from one locale)
// ---------------------------------------------------------------------------

func newPruneCmd() *cobra.Command {
	var (
		lang string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete unused keys from one locale",
		Long: `Delete keys defined in the given locale but never referenced by the
scanned sources. Asks for confirmation twice unless --yes is given;
declining either question leaves the file unchanged.`,
		Run: func(cmd *cobra.Command, args []string) {
			engine := buildEngine()
			if lang == "" {
				lang = engine.Config.DefaultLocale
			}

			report, err := engine.Analyze()
			if err != nil {
				logError("%v", err)
				os.Exit(exitFatal)
			}
			if !report.Has(lang) {
				logError("Locale %q was not loaded", lang)
				os.Exit(exitFatal)
			}

			unused := report.UnusedIn(lang)
			if len(unused) == 0 {
				logSuccess("No unused keys in %s", lang)
				return
			}

			fmt.Fprintf(os.Stderr, "Unused keys in %s:\n", lang)
			for _, key := range unused {
				fmt.Fprintf(os.Stderr, "  - %s\n", key)
			}

			if !yes {
				if !askYes(fmt.Sprintf("Delete these %d key(s) from %s?", len(unused), lang)) ||
					!askYes("This cannot be undone. Really delete?") {
					logInfo("Aborted; nothing changed")
					return
				}
			}

			removed, err := engine.DeleteUnused(lang, unused)
			if err != nil {
				logError("%v", err)
				os.Exit(exitFatal)
			}
			logSuccess("Removed %d key(s) from %s", removed, lang)
		},
	}

	cmd.Flags().StringVar(&lang, "locale", "", "Locale to prune (default: the default locale)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip both confirmation prompts")

	return cmd
}

// askYes asks a stderr yes/no question answered on stdin; anything but
// y/yes declines.
func askYes(message string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", message)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
