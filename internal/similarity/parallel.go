package similarity

import "sync"

// BatchResult holds the outcome of one query in a batch.
type BatchResult struct {
	Result *SearchResult
	Err    error
}

// BatchQuery runs Search for every word using a pool of workers and returns
// the results in input order. The tree must not be modified while a batch
// is running.
func BatchQuery(t *Tree, words []string, accuracy int, opts SearchOptions, workers int) []BatchResult {
	results := make([]BatchResult, len(words))

	if workers <= 1 || len(words) <= 1 {
		for i, w := range words {
			res, err := t.Search(w, accuracy, opts)
			results[i] = BatchResult{Result: res, Err: err}
		}
		return results
	}

	if workers > len(words) {
		workers = len(words)
	}

	jobs := make(chan int, len(words))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := t.Search(words[i], accuracy, opts)
				// Each index is written by exactly one worker.
				results[i] = BatchResult{Result: res, Err: err}
			}
		}()
	}

	for i := range words {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// BatchStats aggregates statistics from a batch.
type BatchStats struct {
	Queries   int
	Exact     int
	Matches   int
	Visited   int
	Pruned    int
	OverLimit int
}

// AggregateBatch computes totals over a batch.
func AggregateBatch(results []BatchResult) BatchStats {
	stats := BatchStats{Queries: len(results)}
	for _, r := range results {
		if r.Err != nil {
			stats.OverLimit++
		}
		if r.Result == nil {
			continue
		}
		if r.Result.Exact {
			stats.Exact++
		}
		stats.Matches += len(r.Result.Matches)
		stats.Visited += r.Result.Stats.Visited
		stats.Pruned += r.Result.Stats.Pruned
	}
	return stats
}
