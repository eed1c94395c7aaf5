package metrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Reporter writes run metrics and keeps a history file.
type Reporter struct {
	outputDir   string
	historyFile string
}

// NewReporter creates a reporter writing under dir/metrics.
func NewReporter(dir string) (*Reporter, error) {
	metricsDir := filepath.Join(dir, "metrics")
	if err := os.MkdirAll(metricsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics dir: %w", err)
	}

	return &Reporter{
		outputDir:   metricsDir,
		historyFile: filepath.Join(metricsDir, "history.jsonl"),
	}, nil
}

// Write writes latest.json, a per-run file and a history line.
func (r *Reporter) Write(metrics *RunMetrics) error {
	latestPath := filepath.Join(r.outputDir, "latest.json")
	if err := r.writeJSON(latestPath, metrics); err != nil {
		return fmt.Errorf("failed to write latest.json: %w", err)
	}

	runPath := filepath.Join(r.outputDir, fmt.Sprintf("run_%s.json", metrics.RunID))
	if err := r.writeJSON(runPath, metrics); err != nil {
		return fmt.Errorf("failed to write run file: %w", err)
	}

	if err := r.appendHistory(metrics); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

func (r *Reporter) writeJSON(path string, metrics *RunMetrics) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metrics)
}

func (r *Reporter) appendHistory(metrics *RunMetrics) error {
	file, err := os.OpenFile(r.historyFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	line, err := json.Marshal(metrics)
	if err != nil {
		return err
	}

	_, err = file.Write(append(line, '\n'))
	return err
}

// ReadHistory reads the last limit runs from history; limit <= 0 reads all.
func (r *Reporter) ReadHistory(limit int) ([]*RunMetrics, error) {
	file, err := os.Open(r.historyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var runs []*RunMetrics
	scanner := bufio.NewScanner(file)

	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		var run RunMetrics
		if err := json.Unmarshal(scanner.Bytes(), &run); err != nil {
			continue // Skip malformed lines
		}
		runs = append(runs, &run)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}

	return runs, nil
}

// LastRun returns the most recent run from history, or nil.
func (r *Reporter) LastRun() (*RunMetrics, error) {
	runs, err := r.ReadHistory(1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

// Comparison is the difference between two runs' index builds.
type Comparison struct {
	CurrentRunID   string  `json:"current_run_id"`
	PreviousRunID  string  `json:"previous_run_id"`
	SpeedupFactor  float64 `json:"speedup_factor"`
	WordsDiff      int64   `json:"words_diff"`
	ThroughputDiff float64 `json:"throughput_diff"`
}

// CompareRuns compares load throughput of two runs.
func CompareRuns(current, previous *RunMetrics) *Comparison {
	if current == nil || previous == nil || current.Totals == nil || previous.Totals == nil {
		return nil
	}

	speedup := float64(1)
	if previous.Totals.LoadThroughput > 0 {
		speedup = current.Totals.LoadThroughput / previous.Totals.LoadThroughput
	}

	return &Comparison{
		CurrentRunID:   current.RunID,
		PreviousRunID:  previous.RunID,
		SpeedupFactor:  speedup,
		WordsDiff:      current.Totals.WordsIndexed - previous.Totals.WordsIndexed,
		ThroughputDiff: current.Totals.LoadThroughput - previous.Totals.LoadThroughput,
	}
}

// FormatComparison returns a human-readable comparison string.
func FormatComparison(c *Comparison) string {
	if c == nil {
		return "No previous run to compare"
	}

	direction := "faster"
	if c.SpeedupFactor < 1 {
		direction = "slower"
	}

	return fmt.Sprintf(
		"index load %.2fx %s than previous run (%+d words, %+.0f words/sec)",
		c.SpeedupFactor,
		direction,
		c.WordsDiff,
		c.ThroughputDiff,
	)
}
