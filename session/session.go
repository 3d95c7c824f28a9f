// Package session drives the interactive reconciliation menu: it
// presents the status report and dispatches the mutation operations,
// reading answers line by line from an injected reader so the whole
// protocol is scriptable in tests.
package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/FiammaMuscari/analizer/i18n"
	"github.com/FiammaMuscari/analizer/locale"
	"github.com/FiammaMuscari/analizer/reconcile"
)

// Session runs the menu loop over one reconciliation engine.
type Session struct {
	Engine *reconcile.Engine
	In     io.Reader
	Out    io.Writer

	input  *bufio.Scanner
	report *reconcile.Report
}

// Run performs the initial analysis and loops over the menu until the
// operator exits. Only fatal analysis errors are returned; everything
// else is reported inline and the loop continues.
func (s *Session) Run() error {
	s.input = bufio.NewScanner(s.In)

	if err := s.analyze(); err != nil {
		return err
	}

	for {
		s.printMenu()
		choice, ok := s.readLine()
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			s.printTable()
		case "2":
			if err := s.addMissing(); err != nil {
				return err
			}
		case "3":
			if err := s.deleteUnused(s.report.DefaultLocale); err != nil {
				return err
			}
		case "4":
			secondaries := s.Engine.Config.Secondaries()
			if len(secondaries) == 0 {
				fmt.Fprintln(s.Out, i18n.T("No secondary locale configured."))
				break
			}
			if err := s.deleteUnused(secondaries[0]); err != nil {
				return err
			}
		case "5":
			if err := s.analyze(); err != nil {
				return err
			}
			fmt.Fprintln(s.Out, i18n.T("Analysis refreshed."))
			continue
		case "6":
			return nil
		default:
			fmt.Fprintln(s.Out, i18n.T("Please choose an option between 1 and 6."))
			continue
		}

		if !s.confirm(i18n.T("Return to the menu?"), true) {
			return nil
		}
	}
}

func (s *Session) analyze() error {
	report, err := s.Engine.Analyze()
	if err != nil {
		return err
	}
	s.report = report
	return nil
}

func (s *Session) printMenu() {
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, i18n.T("What would you like to do?"))
	fmt.Fprintln(s.Out, "  1) "+i18n.T("Show key status table"))
	fmt.Fprintln(s.Out, "  2) "+i18n.T("Add missing keys"))
	fmt.Fprintf(s.Out, "  3) "+i18n.T("Delete unused keys from %s")+"\n", s.report.DefaultLocale)
	secondary := "-"
	if secs := s.Engine.Config.Secondaries(); len(secs) > 0 {
		secondary = secs[0]
	}
	fmt.Fprintf(s.Out, "  4) "+i18n.T("Delete unused keys from %s")+"\n", secondary)
	fmt.Fprintln(s.Out, "  5) "+i18n.T("Re-run analysis"))
	fmt.Fprintln(s.Out, "  6) "+i18n.T("Exit"))
	fmt.Fprint(s.Out, "> ")
}

func (s *Session) printTable() {
	RenderReport(s.Out, s.report)
}

// RenderReport writes the per-key status table for a report. Shared by
// the interactive menu and the one-shot status command.
func RenderReport(w io.Writer, rep *reconcile.Report) {
	fmt.Fprintln(w)
	for _, loc := range rep.Locales {
		fmt.Fprintf(w, "%s — %s (%d %s)\n",
			loc, locale.DisplayName(loc), rep.CountIn(loc), i18n.T("keys"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-40s %-6s", i18n.T("KEY"), i18n.T("CODE"))
	for _, loc := range rep.Locales {
		fmt.Fprintf(w, " %-6s", loc)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 48+7*len(rep.Locales)))

	for _, st := range rep.Statuses {
		fmt.Fprintf(w, "%-40s %-6s", st.Key, mark(st.InCode))
		for _, loc := range rep.Locales {
			fmt.Fprintf(w, " %-6s", mark(st.InLocales[loc]))
		}
		fmt.Fprintln(w)
	}

	if missing := rep.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "\n"+i18n.T("%d key(s) used in code but missing from %s")+"\n",
			len(missing), rep.DefaultLocale)
	}
}

func mark(present bool) string {
	if present {
		return "✓"
	}
	return "✗"
}

// addMissing walks the missing-key list, prompting for a value per key
// (empty answer keeps the bracketed placeholder), then re-runs the
// analysis so the next menu round reflects the writes.
func (s *Session) addMissing() error {
	missing := s.report.Missing()
	if len(missing) == 0 {
		fmt.Fprintln(s.Out, i18n.T("No missing keys."))
		return nil
	}

	values := make(map[string]string, len(missing))
	for _, key := range missing {
		fmt.Fprintf(s.Out, i18n.T("Value for %q (Enter keeps %q): "), key, reconcile.Placeholder(key))
		answer, ok := s.readLine()
		if !ok {
			break
		}
		values[key] = strings.TrimSpace(answer)
	}

	added := s.Engine.AddMissing(s.report, func(key string) string {
		return values[key]
	})
	fmt.Fprintf(s.Out, i18n.T("Inserted %d value(s).")+"\n", added)

	return s.analyze()
}

// deleteUnused lists the unused keys for one locale and requires two
// independent affirmative confirmations before mutating anything.
func (s *Session) deleteUnused(loc string) error {
	if !s.report.Has(loc) {
		fmt.Fprintf(s.Out, i18n.T("Locale %q was not loaded; nothing to delete.")+"\n", loc)
		return nil
	}

	unused := s.report.UnusedIn(loc)
	if len(unused) == 0 {
		fmt.Fprintf(s.Out, i18n.T("No unused keys in %s.")+"\n", loc)
		return nil
	}

	fmt.Fprintf(s.Out, i18n.T("Unused keys in %s:")+"\n", loc)
	for _, key := range unused {
		fmt.Fprintf(s.Out, "  - %s\n", key)
	}

	if !s.confirm(fmt.Sprintf(i18n.T("Delete these %d key(s) from %s?"), len(unused), loc), false) {
		fmt.Fprintln(s.Out, i18n.T("Aborted; nothing changed."))
		return nil
	}
	if !s.confirm(i18n.T("This cannot be undone. Really delete?"), false) {
		fmt.Fprintln(s.Out, i18n.T("Aborted; nothing changed."))
		return nil
	}

	removed, err := s.Engine.DeleteUnused(loc, unused)
	if err != nil {
		fmt.Fprintf(s.Out, i18n.T("Delete failed: %v")+"\n", err)
		return nil
	}
	fmt.Fprintf(s.Out, i18n.T("Removed %d key(s) from %s.")+"\n", removed, loc)

	return s.analyze()
}

// confirm asks a yes/no question. defaultYes selects the answer an
// empty line means.
func (s *Session) confirm(message string, defaultYes bool) bool {
	suffix := " [y/N] "
	if defaultYes {
		suffix = " [Y/n] "
	}
	fmt.Fprint(s.Out, message+suffix)

	answer, ok := s.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

// readLine returns the next input line; ok is false at end of input,
// which the caller treats as a graceful exit.
func (s *Session) readLine() (string, bool) {
	if !s.input.Scan() {
		return "", false
	}
	return s.input.Text(), true
}
