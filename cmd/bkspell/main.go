// bkspell - approximate word lookup using a BK-tree.
// Usage: bkspell -f <dictionary> [options] [query...]
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"bkspell/internal/config"
	"bkspell/internal/ingest"
	"bkspell/internal/metrics"
	"bkspell/internal/similarity"
	"bkspell/internal/ui"

	"github.com/spf13/pflag"
)

func main() {
	// Flags
	configPath := pflag.StringP("config", "c", "", "Path to bkspell.toml (default: search . and parents)")
	dictPath := pflag.StringP("file", "f", "", "Dictionary file of whitespace-separated words")
	accuracy := pflag.IntP("accuracy", "a", 1, "Maximum edit distance of a match")
	limit := pflag.IntP("limit", "l", 0, "Maximum matches to show per query (0 = all)")
	jsonOutput := pflag.BoolP("json", "j", false, "Output results as JSON")
	interactive := pflag.BoolP("interactive", "i", false, "Read words to check from stdin")
	printValues := pflag.Bool("print", false, "Print every indexed word, breadth-first")
	showTree := pflag.Bool("tree", false, "Render the tree structure")
	treeDepth := pflag.Int("tree-depth", 3, "Levels to render with --tree (0 = all)")
	showStats := pflag.Bool("stats", false, "Show index statistics")
	fold := pflag.Bool("fold", false, "Lowercase and strip diacritics from words and queries")
	stripPunct := pflag.Bool("strip-punct", true, "Cut queries at their first punctuation character")
	maxVisits := pflag.Int("max-visits", 0, "Per-query node budget (0 = unlimited)")
	workers := pflag.IntP("workers", "w", 0, "Number of parallel query workers (0 = auto)")
	metricsDir := pflag.String("metrics-dir", "", "Write run metrics under this directory")
	quiet := pflag.BoolP("quiet", "q", false, "Only print matches")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose logging")

	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}

	// Flags given on the command line win over the config file.
	opts := cfg.Defaults
	flags := pflag.CommandLine
	if flags.Changed("file") {
		opts.Dictionary = *dictPath
	}
	if flags.Changed("accuracy") {
		opts.Accuracy = *accuracy
	}
	if flags.Changed("limit") {
		opts.Limit = *limit
	}
	if flags.Changed("fold") {
		opts.Fold = *fold
	}
	if flags.Changed("strip-punct") {
		opts.StripPunct = *stripPunct
	}
	if flags.Changed("max-visits") {
		opts.MaxVisits = *maxVisits
	}
	if flags.Changed("workers") {
		opts.Workers = *workers
	}
	if flags.Changed("metrics-dir") {
		opts.MetricsDir = *metricsDir
	}
	if flags.Changed("quiet") {
		opts.Quiet = *quiet
	}
	if flags.Changed("verbose") {
		opts.Verbose = *verbose
	}

	if opts.Accuracy < 0 {
		fail(errors.New("accuracy must not be negative"))
	}
	if opts.Dictionary == "" {
		fmt.Fprintln(os.Stderr, "Usage: bkspell -f <dictionary> [options] [query...]")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		pflag.PrintDefaults()
		os.Exit(1)
	}

	// Auto-detect workers
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Workers > config.MaxWorkers {
		opts.Workers = config.MaxWorkers
	}

	term := ui.New(opts.Quiet || *jsonOutput, opts.Verbose)
	if cfg.Path != "" {
		term.Debug(fmt.Sprintf("Config: %s", cfg.Path))
	}

	queries := pflag.Args()
	runREPL := *interactive || (len(queries) == 0 && !*printValues && !*showTree && !*showStats)

	if !opts.Quiet && !*jsonOutput && !runREPL {
		term.Banner()
		term.Config([][]string{
			{"Dictionary", opts.Dictionary},
			{"Accuracy", fmt.Sprintf("%d", opts.Accuracy)},
			{"Fold", fmt.Sprintf("%t", opts.Fold)},
			{"Workers", fmt.Sprintf("%d", opts.Workers)},
		})
	}

	collector := metrics.NewCollector()
	collector.SetConfigMap(map[string]any{
		"dictionary": opts.Dictionary,
		"accuracy":   opts.Accuracy,
		"fold":       opts.Fold,
		"max_visits": opts.MaxVisits,
		"workers":    opts.Workers,
	})

	// Build the index
	collector.StartStage(metrics.StageLoad)
	spinner := term.Spinner(fmt.Sprintf("Indexing %s...", opts.Dictionary))
	tree, dict, err := loadTree(opts.Dictionary, ingest.Options{Fold: opts.Fold})
	spinner.Stop()
	if err != nil {
		fail(err)
	}
	collector.AddCounter("words", int64(tree.Size()))
	collector.AddCounter("duplicates", int64(tree.Duplicates()))
	collector.AddCounter("tokens_skipped", int64(dict.Skipped()))
	collector.EndStage(metrics.StageLoad)
	collector.SetStageCounter(metrics.StageLoad, "height", int64(tree.Stats().Height))

	term.Debug(fmt.Sprintf("Indexed %d words (%d duplicates skipped)", tree.Size(), tree.Duplicates()))

	if *showStats {
		term.TreeStats(tree.Stats(), tree.Duplicates(), collector.StageDuration(metrics.StageLoad))
	}
	if *printValues {
		term.Values(tree)
	}
	if *showTree {
		term.Tree(tree, *treeDepth)
	}

	q := &querier{
		tree:     tree,
		term:     term,
		opts:     opts,
		json:     *jsonOutput,
		out:      os.Stdout,
		clean:    ingest.Options{Fold: opts.Fold, StripPunct: opts.StripPunct},
		searchOp: similarity.SearchOptions{MaxVisits: opts.MaxVisits},
	}

	collector.StartStage(metrics.StageQuery)
	if len(queries) > 0 {
		q.batch(queries, collector)
	}
	if runREPL {
		q.repl(os.Stdin, collector)
	}
	collector.EndStage(metrics.StageQuery)
	if n := collector.Counter(metrics.StageQuery, "queries"); n > 0 {
		visited := collector.Counter(metrics.StageQuery, "visited")
		collector.SetStageGauge(metrics.StageQuery, "visited_per_query", float64(visited)/float64(n))
	}

	if opts.MetricsDir != "" {
		writeMetrics(term, collector, opts.MetricsDir)
	}
}

// loadTree opens a dictionary and indexes every word in it.
func loadTree(path string, opts ingest.Options) (*similarity.Tree, *ingest.Dictionary, error) {
	dict, err := ingest.Open(path, opts)
	if err != nil {
		return nil, nil, err
	}
	defer dict.Close()

	tree, err := similarity.Build(dict)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to index %s: %w", path, err)
	}
	return tree, dict, nil
}

type querier struct {
	tree     *similarity.Tree
	term     *ui.UI
	opts     config.Defaults
	json     bool
	out      io.Writer
	clean    ingest.Options
	searchOp similarity.SearchOptions
}

// batch answers the command-line queries in parallel.
func (q *querier) batch(words []string, collector *metrics.Collector) {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if c := ingest.Clean(w, q.clean); c != "" {
			cleaned = append(cleaned, c)
		}
	}

	start := time.Now()
	results := similarity.BatchQuery(q.tree, cleaned, q.opts.Accuracy, q.searchOp, q.opts.Workers)
	elapsed := time.Since(start)

	stats := similarity.AggregateBatch(results)
	collector.AddCounter("queries", int64(stats.Queries))
	collector.AddCounter("matches", int64(stats.Matches))
	collector.AddCounter("visited", int64(stats.Visited))
	collector.AddCounter("pruned", int64(stats.Pruned))
	collector.AddCounter("over_budget", int64(stats.OverLimit))

	for _, r := range results {
		q.show(r.Result, r.Err)
	}

	q.term.Debug(fmt.Sprintf("%d queries in %s, %d nodes visited", stats.Queries, elapsed.Round(time.Microsecond), stats.Visited))
}

// repl checks each word read from r until EOF.
func (q *querier) repl(r io.Reader, collector *metrics.Collector) {
	interactive := !q.opts.Quiet && !q.json
	scanner := ingest.NewScanner(r, q.clean)

	if interactive {
		q.term.Prompt()
	}
	for {
		word, ok := scanner.Next()
		if !ok {
			break
		}
		if interactive {
			q.term.Checking(word)
		}

		res, err := q.tree.Search(word, q.opts.Accuracy, q.searchOp)
		collector.AddCounter("queries", 1)
		collector.AddCounter("matches", int64(len(res.Matches)))
		collector.AddCounter("visited", int64(res.Stats.Visited))
		q.show(res, err)

		if interactive {
			q.term.Prompt()
		}
	}

	if err := scanner.Err(); err != nil {
		q.term.Error(fmt.Sprintf("reading input: %v", err))
	}
}

func (q *querier) show(res *similarity.SearchResult, err error) {
	if errors.Is(err, similarity.ErrBudgetExceeded) {
		q.term.Warning(fmt.Sprintf("%q: stopped after %d nodes, results are partial", res.Query, res.Stats.Visited))
	}

	if !q.json {
		q.term.Results(res, q.opts.Limit)
		return
	}

	out := *res
	if q.opts.Limit > 0 && len(out.Matches) > q.opts.Limit {
		out.Matches = out.Matches[:q.opts.Limit]
	}
	if out.Matches == nil {
		out.Matches = []similarity.Match{}
	}
	json.NewEncoder(q.out).Encode(out)
}

func writeMetrics(term *ui.UI, collector *metrics.Collector, dir string) {
	reporter, err := metrics.NewReporter(dir)
	if err != nil {
		term.Warning(err.Error())
		return
	}

	// Get previous run for comparison
	previousRun, _ := reporter.LastRun()

	runMetrics := collector.Finalize()
	if err := reporter.Write(runMetrics); err != nil {
		term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		return
	}
	term.Debug(fmt.Sprintf("Metrics written: %s", runMetrics.RunID))

	if previousRun != nil {
		term.Info(metrics.FormatComparison(metrics.CompareRuns(runMetrics, previousRun)))
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
