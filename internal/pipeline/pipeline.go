// Package pipeline orchestrates the four matching stages: normalization is
// applied inside exact and fuzzy matching, and the residual analyzer buckets
// whatever is left. One call, one pass, no retries; re-running with the same
// inputs produces the same outputs.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pharmalign/drugalign/internal/dataset"
	"github.com/pharmalign/drugalign/internal/match"
	"github.com/pharmalign/drugalign/internal/normalize"
	"github.com/pharmalign/drugalign/internal/utils"
)

// Options configures a pipeline run.
type Options struct {
	DrugsPath     string
	ReferencePath string
	OutDir        string
	Threshold     int
	Metric        match.Metric
}

// Output file layout under OutDir.
const (
	IntermediateDir = "intermediate_output"
	FinalDir        = "final_output"

	FileMatched            = "matched_drugs.csv"
	FileUnmatched          = "unmatched_drugs.csv"
	FileFuzzyMatches       = "fuzzy_matches.csv"
	FileRemainingUnmatched = "remaining_unmatched.csv"
	FileAllMatched         = "all_matched_drugs.csv"
)

// Summary reports what a run did: stage counts, fuzzy score statistics and
// the residual breakdown.
type Summary struct {
	SourceCount    int
	ReferenceCount int
	ExactMatched   int
	FuzzyMatched   int
	StillUnmatched int
	Duplicates     map[string][]string
	FuzzyScores    ScoreStats
	Residual       []match.CategoryCount
	OutputFiles    []string
}

// ScoreStats summarizes the accepted fuzzy similarity scores.
type ScoreStats struct {
	Min  int
	Max  int
	Mean float64
}

// Run executes the full pipeline and writes the output files. The threshold
// is validated before anything is loaded, and nothing is written until both
// inputs pass schema validation.
func Run(opts Options) (*Summary, error) {
	if opts.Threshold < 0 || opts.Threshold > 100 {
		return nil, &match.ThresholdError{Threshold: opts.Threshold}
	}

	drugs, err := dataset.LoadDrugs(opts.DrugsPath)
	if err != nil {
		return nil, err
	}
	refs, err := dataset.LoadReference(opts.ReferencePath)
	if err != nil {
		return nil, err
	}

	rules := normalize.DefaultRules()

	exact, unmatched, duplicates := match.Exact(drugs, refs, rules)
	fuzzy, residual, err := match.Fuzzy(unmatched, refs, rules, opts.Threshold, opts.Metric)
	if err != nil {
		return nil, err
	}
	buckets := match.Residual(residual)

	sum := &Summary{
		SourceCount:    len(drugs),
		ReferenceCount: len(refs),
		ExactMatched:   len(exact),
		FuzzyMatched:   len(fuzzy),
		StillUnmatched: len(residual),
		Duplicates:     duplicates,
		FuzzyScores:    scoreStats(fuzzy),
		Residual:       buckets,
	}
	if err := writeOutputs(opts.OutDir, exact, unmatched, fuzzy, residual, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func scoreStats(fuzzy []match.Result) ScoreStats {
	if len(fuzzy) == 0 {
		return ScoreStats{}
	}
	st := ScoreStats{Min: fuzzy[0].Score, Max: fuzzy[0].Score}
	total := 0
	for _, r := range fuzzy {
		if r.Score < st.Min {
			st.Min = r.Score
		}
		if r.Score > st.Max {
			st.Max = r.Score
		}
		total += r.Score
	}
	st.Mean = float64(total) / float64(len(fuzzy))
	return st
}

func writeOutputs(outDir string, exact []match.Result, unmatched []dataset.DrugRecord, fuzzy []match.Result, residual []dataset.DrugRecord, sum *Summary) error {
	interDir := filepath.Join(outDir, IntermediateDir)
	finalDir := filepath.Join(outDir, FinalDir)
	for _, dir := range []string{interDir, finalDir} {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	writes := []struct {
		path   string
		header []string
		rows   [][]string
	}{
		{filepath.Join(interDir, FileMatched), matchedHeader, matchedRows(exact)},
		{filepath.Join(interDir, FileUnmatched), unmatchedHeader, unmatchedRows(unmatched)},
		{filepath.Join(interDir, FileFuzzyMatches), fuzzyHeader, fuzzyRows(fuzzy)},
		{filepath.Join(interDir, FileRemainingUnmatched), unmatchedHeader, unmatchedRows(residual)},
		{filepath.Join(finalDir, FileAllMatched), allMatchedHeader, allMatchedRows(exact, fuzzy)},
	}
	for _, w := range writes {
		if err := dataset.WriteCSV(w.path, w.header, w.rows); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
		sum.OutputFiles = append(sum.OutputFiles, w.path)
	}
	return nil
}

var (
	matchedHeader    = []string{"GENERIC_NAME", "SYNONYMS", "clinical_phase", "moa", "target", "disease_area", "indication", "matched_name"}
	unmatchedHeader  = []string{"GENERIC_NAME", "SYNONYMS"}
	fuzzyHeader      = []string{"original_name", "matched_name", "similarity_score", "clinical_phase", "moa", "target", "disease_area", "indication"}
	allMatchedHeader = []string{"GENERIC_NAME", "matched_name", "method", "similarity_score", "clinical_phase", "moa", "target", "disease_area", "indication"}
)

func matchedRows(results []match.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Source.Name, strings.Join(r.Source.Synonyms, ";"),
			r.Reference.ClinicalPhase, r.Reference.MOA, r.Reference.Target,
			r.Reference.DiseaseArea, r.Reference.Indication, r.Reference.Name,
		})
	}
	return rows
}

func unmatchedRows(records []dataset.DrugRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Name, strings.Join(rec.Synonyms, ";")})
	}
	return rows
}

func fuzzyRows(results []match.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Source.Name, r.Reference.Name, strconv.Itoa(r.Score),
			r.Reference.ClinicalPhase, r.Reference.MOA, r.Reference.Target,
			r.Reference.DiseaseArea, r.Reference.Indication,
		})
	}
	return rows
}

func allMatchedRows(exact, fuzzy []match.Result) [][]string {
	rows := make([][]string, 0, len(exact)+len(fuzzy))
	for _, set := range [][]match.Result{exact, fuzzy} {
		for _, r := range set {
			rows = append(rows, []string{
				r.Source.Name, r.Reference.Name, string(r.Method), strconv.Itoa(r.Score),
				r.Reference.ClinicalPhase, r.Reference.MOA, r.Reference.Target,
				r.Reference.DiseaseArea, r.Reference.Indication,
			})
		}
	}
	return rows
}
