package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	if c.RunID() == "" {
		t.Error("Expected non-empty run ID")
	}

	c.SetConfigMap(map[string]any{"accuracy": 2, "fold": true})

	c.StartStage(StageLoad)
	time.Sleep(10 * time.Millisecond)
	c.AddCounter("words", 400)
	c.AddCounter("words", 100)
	c.EndStage(StageLoad)
	c.SetStageCounter(StageLoad, "duplicates", 3)

	c.StartStage(StageQuery)
	c.AddCounter("queries", 2)
	c.SetStageGauge(StageQuery, "visited_per_query", 12.5)
	c.EndStage(StageQuery)

	// no active stage: dropped
	c.AddCounter("queries", 100)

	metrics := c.Finalize()

	if metrics.Totals.WordsIndexed != 500 {
		t.Errorf("Expected 500 words, got %d", metrics.Totals.WordsIndexed)
	}
	if metrics.Totals.Queries != 2 {
		t.Errorf("Expected 2 queries, got %d", metrics.Totals.Queries)
	}
	if metrics.Totals.LoadThroughput <= 0 {
		t.Errorf("Expected positive load throughput, got %f", metrics.Totals.LoadThroughput)
	}
	if metrics.Stages[StageLoad].Counters["duplicates"] != 3 {
		t.Errorf("Expected duplicates = 3, got %d", metrics.Stages[StageLoad].Counters["duplicates"])
	}
	if metrics.Stages[StageQuery].Gauges["visited_per_query"] != 12.5 {
		t.Error("Expected visited_per_query gauge")
	}
	if metrics.Config["accuracy"] != 2 {
		t.Errorf("Expected accuracy config, got %v", metrics.Config["accuracy"])
	}
	if c.StageDuration(StageLoad) < 10*time.Millisecond {
		t.Errorf("Load stage duration = %v, want >= 10ms", c.StageDuration(StageLoad))
	}
	if c.StageDuration("missing") != 0 {
		t.Error("Expected zero duration for unknown stage")
	}
}

func TestReporter(t *testing.T) {
	tmpDir := t.TempDir()

	reporter, err := NewReporter(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	if last, err := reporter.LastRun(); err != nil || last != nil {
		t.Fatalf("LastRun() on empty history = %v, %v", last, err)
	}

	c := NewCollector()
	c.StartStage(StageLoad)
	c.AddCounter("words", 100)
	c.EndStage(StageLoad)
	metrics := c.Finalize()

	if err := reporter.Write(metrics); err != nil {
		t.Fatalf("Failed to write metrics: %v", err)
	}

	for _, name := range []string{"latest.json", "history.jsonl", "run_" + metrics.RunID + ".json"} {
		if _, err := os.Stat(filepath.Join(tmpDir, "metrics", name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}

	runs, err := reporter.ReadHistory(10)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run in history, got %d", len(runs))
	}

	lastRun, err := reporter.LastRun()
	if err != nil {
		t.Fatalf("Failed to get last run: %v", err)
	}
	if lastRun.RunID != metrics.RunID {
		t.Errorf("Expected run ID %s, got %s", metrics.RunID, lastRun.RunID)
	}
	if lastRun.Totals.WordsIndexed != 100 {
		t.Errorf("Expected 100 words in history, got %d", lastRun.Totals.WordsIndexed)
	}
}

func TestComparison(t *testing.T) {
	previous := NewCollector().Finalize()
	previous.Totals.WordsIndexed = 1000
	previous.Totals.LoadThroughput = 1000

	current := NewCollector().Finalize()
	current.Totals.WordsIndexed = 1200
	current.Totals.LoadThroughput = 2000

	comparison := CompareRuns(current, previous)
	if comparison == nil {
		t.Fatal("Expected non-nil comparison")
	}
	if comparison.SpeedupFactor != 2.0 {
		t.Errorf("Expected 2x speedup, got %.2f", comparison.SpeedupFactor)
	}
	if comparison.WordsDiff != 200 {
		t.Errorf("Expected +200 words, got %d", comparison.WordsDiff)
	}

	formatted := FormatComparison(comparison)
	if !strings.Contains(formatted, "2.00x faster") {
		t.Errorf("Unexpected comparison text: %s", formatted)
	}

	if CompareRuns(current, nil) != nil {
		t.Error("Expected nil comparison without a previous run")
	}
	if FormatComparison(nil) != "No previous run to compare" {
		t.Error("Unexpected text for nil comparison")
	}
}
