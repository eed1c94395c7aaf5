// bkbench - query benchmark for the BK-tree index.
// Usage: bkbench -f <dictionary> [options] [query...]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bkspell/internal/config"
	"bkspell/internal/ingest"
	"bkspell/internal/similarity"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

// Result holds the measurements for one accuracy level.
type Result struct {
	Accuracy     int     `json:"accuracy"`
	Queries      int     `json:"queries"`
	MeanNs       int64   `json:"mean_ns"`
	LinearMeanNs int64   `json:"linear_mean_ns"`
	Speedup      float64 `json:"speedup"`
	MeanVisited  float64 `json:"mean_visited"`
	VisitedRatio float64 `json:"visited_ratio"`
	MeanMatches  float64 `json:"mean_matches"`
}

func main() {
	configPath := pflag.StringP("config", "c", "", "Path to bkspell.toml")
	dictPath := pflag.StringP("file", "f", "", "Dictionary file of whitespace-separated words")
	accuracies := pflag.IntSliceP("accuracy", "a", nil, "Accuracy levels to measure (default from config)")
	iterations := pflag.IntP("iterations", "n", 0, "Iterations per query (default from config)")
	outputDir := pflag.StringP("output", "o", "", "Write a JSON report to this directory")
	fold := pflag.Bool("fold", false, "Lowercase and strip diacritics from words")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dictionary := cfg.Defaults.Dictionary
	if *dictPath != "" {
		dictionary = *dictPath
	}
	levels := cfg.Bench.Accuracies
	if len(*accuracies) > 0 {
		levels = *accuracies
	}
	iters := cfg.Bench.Iterations
	if *iterations > 0 {
		iters = *iterations
	}
	if iters <= 0 {
		iters = 1
	}

	dict, err := ingest.Open(dictionary, ingest.Options{Fold: *fold || cfg.Defaults.Fold})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	tree, err := similarity.Build(dict)
	dict.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	loadTime := time.Since(start)

	words := make([]string, 0, tree.Size())
	for w := range tree.Values() {
		words = append(words, w)
	}

	queries := pflag.Args()
	if len(queries) == 0 {
		queries = cfg.Bench.Queries
	}
	if len(queries) == 0 {
		queries = sampleQueries(words, 20)
	}

	pterm.Info.Printfln("Indexed %d words in %s", tree.Size(), loadTime.Round(time.Millisecond))

	var results []Result
	for _, acc := range levels {
		results = append(results, measure(tree, words, queries, acc, iters))
	}

	printSummary(results)

	if *outputDir != "" {
		if err := writeReport(*outputDir, dictionary, tree.Size(), loadTime, iters, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
			os.Exit(1)
		}
	}
}

// sampleQueries derives misspelled queries from evenly spaced words.
func sampleQueries(words []string, n int) []string {
	if len(words) < n {
		n = len(words)
	}
	queries := make([]string, 0, n)
	for i := 0; i < n; i++ {
		w := words[i*len(words)/n]
		queries = append(queries, w+"x")
	}
	return queries
}

// measure times tree queries against a linear scan at one accuracy level.
func measure(tree *similarity.Tree, words, queries []string, accuracy, iterations int) Result {
	res := Result{Accuracy: accuracy, Queries: len(queries)}
	if len(queries) == 0 {
		return res
	}

	var visited, matches int
	start := time.Now()
	for i := 0; i < iterations; i++ {
		for _, q := range queries {
			r, _ := tree.Search(q, accuracy, similarity.SearchOptions{})
			visited += r.Stats.Visited
			matches += len(r.Matches)
		}
	}
	treeTime := time.Since(start)

	start = time.Now()
	for i := 0; i < iterations; i++ {
		for _, q := range queries {
			linearScan(words, q, accuracy)
		}
	}
	linearTime := time.Since(start)

	runs := float64(iterations * len(queries))
	res.MeanNs = int64(float64(treeTime.Nanoseconds()) / runs)
	res.LinearMeanNs = int64(float64(linearTime.Nanoseconds()) / runs)
	if res.MeanNs > 0 {
		res.Speedup = float64(res.LinearMeanNs) / float64(res.MeanNs)
	}
	res.MeanVisited = float64(visited) / runs
	res.MeanMatches = float64(matches) / runs
	if len(words) > 0 {
		res.VisitedRatio = res.MeanVisited / float64(len(words))
	}
	return res
}

func linearScan(words []string, query string, accuracy int) []string {
	var out []string
	for _, w := range words {
		if similarity.Distance(w, query) <= accuracy {
			out = append(out, w)
		}
	}
	return out
}

func printSummary(results []Result) {
	data := pterm.TableData{{"Accuracy", "Mean", "Linear", "Speedup", "Visited", "Matches"}}
	for _, r := range results {
		data = append(data, []string{
			fmt.Sprintf("%d", r.Accuracy),
			time.Duration(r.MeanNs).String(),
			time.Duration(r.LinearMeanNs).String(),
			fmt.Sprintf("%.2fx", r.Speedup),
			fmt.Sprintf("%.1f (%.1f%%)", r.MeanVisited, r.VisitedRatio*100),
			fmt.Sprintf("%.1f", r.MeanMatches),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func writeReport(dir, dictionary string, words int, loadTime time.Duration, iterations int, results []Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("benchmark_%s.json",
		time.Now().Format("2006-01-02_15-04-05")))

	output := map[string]any{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"dictionary": dictionary,
		"words":      words,
		"load_ms":    loadTime.Milliseconds(),
		"iterations": iterations,
		"results":    results,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	pterm.Success.Printfln("Results written to: %s", path)
	return nil
}
