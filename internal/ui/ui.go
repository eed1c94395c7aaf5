// Package ui provides terminal UI components using pterm.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"bkspell/internal/similarity"
)

// UI wraps pterm components for bkspell.
type UI struct {
	quiet   bool
	verbose bool
	out     io.Writer
}

// New creates a new UI instance. Quiet mode silences everything except
// query results, which are then printed as plain lines.
func New(quiet, verbose bool) *UI {
	if quiet {
		pterm.DisableOutput()
	}
	if verbose {
		pterm.EnableDebugMessages()
	}
	return &UI{quiet: quiet, verbose: verbose, out: os.Stdout}
}

// Banner prints the application banner.
func (u *UI) Banner() {
	pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("bk", pterm.NewStyle(pterm.FgCyan)),
		pterm.NewLettersFromStringWithStyle("spell", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()

	pterm.DefaultCenter.Println(
		pterm.FgGray.Sprint("Approximate word lookup over a BK-tree"),
	)
	pterm.Println()
}

// Config prints the configuration summary.
func (u *UI) Config(rows [][]string) {
	pterm.DefaultSection.Println("Configuration")
	pterm.DefaultTable.WithData(rows).Render()
	pterm.Println()
}

// Spinner wraps a pterm spinner so callers need not check for nil.
type Spinner struct {
	sp *pterm.SpinnerPrinter
}

// Spinner starts a spinner for long operations.
func (u *UI) Spinner(message string) *Spinner {
	if u.quiet {
		return &Spinner{}
	}
	sp, _ := pterm.DefaultSpinner.
		WithRemoveWhenDone(true).
		Start(message)
	return &Spinner{sp: sp}
}

// Stop stops the spinner.
func (s *Spinner) Stop() {
	if s.sp != nil {
		s.sp.Stop()
	}
}

// Results prints one search result. A limit above zero caps the rows shown.
func (u *UI) Results(res *similarity.SearchResult, limit int) {
	matches := res.Matches
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	if u.quiet {
		for _, m := range matches {
			fmt.Fprintln(u.out, m.Word)
		}
		return
	}

	if len(matches) == 0 {
		pterm.Warning.Printfln("No matches for %q within distance %d", res.Query, res.Accuracy)
		return
	}

	if res.Exact {
		pterm.Success.Printfln("%q is a known word", res.Query)
		return
	}

	pterm.Info.Printfln("Matches for %q (max distance: %d)", res.Query, res.Accuracy)
	data := pterm.TableData{{"Word", "Distance"}}
	for _, m := range matches {
		data = append(data, []string{m.Word, fmt.Sprintf("%d", m.Distance)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if hidden := len(res.Matches) - len(matches); hidden > 0 {
		pterm.FgGray.Printfln("  ... %d more", hidden)
	}
	u.Debug(fmt.Sprintf("visited %d nodes, pruned %d branches", res.Stats.Visited, res.Stats.Pruned))
}

// Values prints every stored word, one per line.
func (u *UI) Values(tree *similarity.Tree) {
	for v := range tree.Values() {
		fmt.Fprintln(u.out, v)
	}
}

// Tree renders the tree structure down to maxDepth levels (0 = all).
func (u *UI) Tree(tree *similarity.Tree, maxDepth int) {
	var list pterm.LeveledList
	tree.WalkDepthFirst(func(info similarity.NodeInfo) bool {
		if maxDepth > 0 && info.Depth >= maxDepth {
			return true
		}
		text := info.Value
		if info.Depth > 0 {
			text = fmt.Sprintf("%s %s", pterm.FgGray.Sprintf("[%d]", info.EdgeDistance), info.Value)
		}
		list = append(list, pterm.LeveledListItem{Level: info.Depth, Text: text})
		return true
	})

	pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(list)).Render()
}

// TreeStats prints the shape of the index.
func (u *UI) TreeStats(stats similarity.TreeStats, duplicates int, loadTime time.Duration) {
	pterm.DefaultSection.WithLevel(2).Println("Index")

	data := [][]string{
		{"Words", fmt.Sprintf("%d", stats.Nodes)},
		{"Duplicates skipped", fmt.Sprintf("%d", duplicates)},
		{"Height", fmt.Sprintf("%d", stats.Height)},
		{"Max fan-out", fmt.Sprintf("%d", stats.MaxFanout)},
		{"Leaves", fmt.Sprintf("%d", stats.Leaves)},
		{"Load time", loadTime.Round(time.Millisecond).String()},
	}

	pterm.DefaultTable.WithData(data).Render()
	pterm.Println()
}

// Prompt prints the interactive prompt.
func (u *UI) Prompt() {
	fmt.Fprint(u.out, "~ ")
}

// Checking echoes the word being checked in interactive mode.
func (u *UI) Checking(word string) {
	fmt.Fprintf(u.out, "spellcheck: %s\n", word)
}

// Success prints a success message.
func (u *UI) Success(message string) {
	pterm.Success.Println(message)
}

// Error prints an error message.
func (u *UI) Error(message string) {
	pterm.Error.Println(message)
}

// Warning prints a warning message.
func (u *UI) Warning(message string) {
	pterm.Warning.Println(message)
}

// Info prints an info message.
func (u *UI) Info(message string) {
	pterm.Info.Println(message)
}

// Debug prints a debug message (only in verbose mode).
func (u *UI) Debug(message string) {
	if u.verbose {
		pterm.Debug.Println(message)
	}
}
