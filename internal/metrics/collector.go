// Package metrics records timings and counters for index builds and queries.
package metrics

import (
	"crypto/rand"
	"encoding/hex"
	"runtime"
	"time"
)

// Stage names used by bkspell.
const (
	StageLoad  = "load"
	StageQuery = "query"
)

// StageMetrics holds metrics for a single processing stage.
type StageMetrics struct {
	Name       string             `json:"name"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	DurationMs int64              `json:"duration_ms"`
	Counters   map[string]int64   `json:"counters,omitempty"`
	Gauges     map[string]float64 `json:"gauges,omitempty"`
}

// RunMetrics holds all metrics for a complete run.
type RunMetrics struct {
	RunID       string                   `json:"run_id"`
	Timestamp   time.Time                `json:"timestamp"`
	Config      map[string]any           `json:"config"`
	Stages      map[string]*StageMetrics `json:"stages"`
	Totals      *TotalMetrics            `json:"totals"`
	Environment *EnvironmentInfo         `json:"environment"`
}

// TotalMetrics holds aggregate metrics.
type TotalMetrics struct {
	DurationMs     int64   `json:"duration_ms"`
	PeakMemoryMB   float64 `json:"peak_memory_mb"`
	WordsIndexed   int64   `json:"words_indexed"`
	Queries        int64   `json:"queries"`
	LoadThroughput float64 `json:"load_words_per_sec"`
}

// EnvironmentInfo holds system environment details.
type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
	NumCPU    int    `json:"num_cpu"`
}

// Collector collects metrics during a run. It is not safe for concurrent use.
type Collector struct {
	runID       string
	startTime   time.Time
	config      map[string]any
	stages      map[string]*StageMetrics
	activeStage string
	peakMemory  uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		runID:     generateRunID(),
		startTime: time.Now(),
		config:    make(map[string]any),
		stages:    make(map[string]*StageMetrics),
	}
}

func generateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return timestamp + "-" + hex.EncodeToString(bytes)
}

// SetConfigMap stores configuration values for the run.
func (c *Collector) SetConfigMap(config map[string]any) {
	for k, v := range config {
		c.config[k] = v
	}
}

// StartStage begins timing a stage and makes it the active one.
func (c *Collector) StartStage(name string) {
	c.activeStage = name
	c.stages[name] = &StageMetrics{
		Name:      name,
		StartTime: time.Now(),
		Counters:  make(map[string]int64),
		Gauges:    make(map[string]float64),
	}
	c.updatePeakMemory()
}

// EndStage completes timing for a stage.
func (c *Collector) EndStage(name string) {
	if stage, ok := c.stages[name]; ok {
		stage.EndTime = time.Now()
		stage.DurationMs = stage.EndTime.Sub(stage.StartTime).Milliseconds()
	}
	if c.activeStage == name {
		c.activeStage = ""
	}
	c.updatePeakMemory()
}

// AddCounter adds delta to a counter of the active stage.
func (c *Collector) AddCounter(name string, delta int64) {
	if stage, ok := c.stages[c.activeStage]; ok {
		stage.Counters[name] += delta
	}
}

// SetStageCounter sets a counter for a specific stage.
func (c *Collector) SetStageCounter(stage, name string, value int64) {
	if s, ok := c.stages[stage]; ok {
		s.Counters[name] = value
	}
}

// SetStageGauge sets a gauge for a specific stage.
func (c *Collector) SetStageGauge(stage, name string, value float64) {
	if s, ok := c.stages[stage]; ok {
		s.Gauges[name] = value
	}
}

func (c *Collector) updatePeakMemory() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.Alloc > c.peakMemory {
		c.peakMemory = m.Alloc
	}
}

// Counter returns a counter of a stage, or 0.
func (c *Collector) Counter(stage, name string) int64 {
	if s, ok := c.stages[stage]; ok {
		return s.Counters[name]
	}
	return 0
}

// Finalize creates the final RunMetrics report.
func (c *Collector) Finalize() *RunMetrics {
	c.updatePeakMemory()
	totalDuration := time.Since(c.startTime)

	words := c.Counter(StageLoad, "words")
	throughput := float64(0)
	if d := c.StageDuration(StageLoad); d > 0 {
		throughput = float64(words) / d.Seconds()
	}

	return &RunMetrics{
		RunID:     c.runID,
		Timestamp: c.startTime,
		Config:    c.config,
		Stages:    c.stages,
		Totals: &TotalMetrics{
			DurationMs:     totalDuration.Milliseconds(),
			PeakMemoryMB:   float64(c.peakMemory) / 1024 / 1024,
			WordsIndexed:   words,
			Queries:        c.Counter(StageQuery, "queries"),
			LoadThroughput: throughput,
		},
		Environment: &EnvironmentInfo{
			GoVersion: runtime.Version(),
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
			NumCPU:    runtime.NumCPU(),
		},
	}
}

// RunID returns the run identifier.
func (c *Collector) RunID() string {
	return c.runID
}

// StageDuration returns the duration of a completed stage.
func (c *Collector) StageDuration(name string) time.Duration {
	if stage, ok := c.stages[name]; ok && !stage.EndTime.IsZero() {
		return stage.EndTime.Sub(stage.StartTime)
	}
	return 0
}
