package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pharmalign/drugalign/internal/utils"
)

// runRecord is the yaml sidecar written next to the output directories so a
// results folder stays self-describing.
type runRecord struct {
	RunID         string    `yaml:"run_id"`
	StartedAt     time.Time `yaml:"started_at"`
	FinishedAt    time.Time `yaml:"finished_at"`
	DrugsFile     string    `yaml:"drugs_file"`
	ReferenceFile string    `yaml:"reference_file"`
	Threshold     int       `yaml:"threshold"`
	Metric        string    `yaml:"metric"`

	SourceCount    int `yaml:"source_count"`
	ReferenceCount int `yaml:"reference_count"`
	ExactMatched   int `yaml:"exact_matched"`
	FuzzyMatched   int `yaml:"fuzzy_matched"`
	StillUnmatched int `yaml:"still_unmatched"`

	FuzzyScoreMin  int     `yaml:"fuzzy_score_min,omitempty"`
	FuzzyScoreMax  int     `yaml:"fuzzy_score_max,omitempty"`
	FuzzyScoreMean float64 `yaml:"fuzzy_score_mean,omitempty"`

	Residual map[string]int `yaml:"residual_categories"`
}

// WriteRunSummary records a completed run as run_summary.yaml in outDir and
// returns the path written.
func WriteRunSummary(opts Options, sum *Summary, started time.Time) (string, error) {
	rec := runRecord{
		RunID:          uuid.NewString(),
		StartedAt:      started.UTC(),
		FinishedAt:     time.Now().UTC(),
		DrugsFile:      opts.DrugsPath,
		ReferenceFile:  opts.ReferencePath,
		Threshold:      opts.Threshold,
		Metric:         string(opts.Metric),
		SourceCount:    sum.SourceCount,
		ReferenceCount: sum.ReferenceCount,
		ExactMatched:   sum.ExactMatched,
		FuzzyMatched:   sum.FuzzyMatched,
		StillUnmatched: sum.StillUnmatched,
		FuzzyScoreMin:  sum.FuzzyScores.Min,
		FuzzyScoreMax:  sum.FuzzyScores.Max,
		FuzzyScoreMean: sum.FuzzyScores.Mean,
		Residual:       map[string]int{},
	}
	for _, c := range sum.Residual {
		if c.Count > 0 {
			rec.Residual[c.Name] = c.Count
		}
	}

	b, err := yaml.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("marshal run summary: %w", err)
	}
	path := filepath.Join(opts.OutDir, "run_summary.yaml")
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", fmt.Errorf("write run summary: %w", err)
	}
	return path, nil
}
