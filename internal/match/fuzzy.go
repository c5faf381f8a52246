package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/pharmalign/drugalign/internal/dataset"
	"github.com/pharmalign/drugalign/internal/normalize"
)

// Metric selects the similarity scorer used by the fuzzy stage.
type Metric string

const (
	// MetricLevenshtein is a token-sort edit-distance ratio: both names are
	// normalized, their words sorted, and the Levenshtein distance converted
	// to a 0-100 ratio. Word order differences score as equal.
	MetricLevenshtein Metric = "levenshtein"
	// MetricJaroWinkler scores with Jaro-Winkler similarity scaled to 0-100.
	MetricJaroWinkler Metric = "jaro-winkler"
)

// ThresholdError reports a similarity threshold outside 0-100. Raised before
// any matching work happens.
type ThresholdError struct {
	Threshold int
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("similarity threshold %d out of range (must be 0-100)", e.Threshold)
}

// ParseMetric validates a metric name from config or flag input.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricLevenshtein, "":
		return MetricLevenshtein, nil
	case MetricJaroWinkler:
		return MetricJaroWinkler, nil
	}
	return "", fmt.Errorf("unknown similarity metric %q (use %s or %s)", s, MetricLevenshtein, MetricJaroWinkler)
}

// Score computes the similarity of two already-normalized names on a 0-100
// scale. Identical names score 100; two empty names score 0.
func (m Metric) Score(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	switch m {
	case MetricJaroWinkler:
		return int(math.Round(matchr.JaroWinkler(a, b, false) * 100))
	default:
		a, b = tokenSort(a), tokenSort(b)
		if a == b {
			return 100
		}
		dist := matchr.Levenshtein(a, b)
		maxLen := len(a)
		if len(b) > maxLen {
			maxLen = len(b)
		}
		if maxLen == 0 {
			return 0
		}
		return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
	}
}

func tokenSort(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// Fuzzy scores every unmatched source record against every reference record
// and accepts the best-scoring reference when its score meets the threshold.
// Every pair is scored; ties go to the earlier reference. Returns accepted
// matches and the residual still-unmatched records.
func Fuzzy(unmatched []dataset.DrugRecord, refs []dataset.ReferenceRecord, rules normalize.Rules, threshold int, metric Metric) (matched []Result, residual []dataset.DrugRecord, err error) {
	if threshold < 0 || threshold > 100 {
		return nil, nil, &ThresholdError{Threshold: threshold}
	}

	type candidate struct {
		ref  dataset.ReferenceRecord
		norm string
	}
	candidates := make([]candidate, 0, len(refs))
	for _, ref := range refs {
		if n := normalize.Name(ref.Name, rules); n != "" {
			candidates = append(candidates, candidate{ref: ref, norm: n})
		}
	}

	for _, rec := range unmatched {
		source := normalize.Name(rec.Name, rules)
		// A blank normalized name never matches, even at threshold 0.
		if source == "" {
			residual = append(residual, rec)
			continue
		}
		best := -1
		bestScore := -1
		for i, c := range candidates {
			if s := metric.Score(source, c.norm); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best >= 0 && bestScore >= threshold {
			matched = append(matched, Result{
				Source:    rec,
				Reference: candidates[best].ref,
				Method:    MethodFuzzy,
				Score:     bestScore,
			})
		} else {
			residual = append(residual, rec)
		}
	}
	return matched, residual, nil
}
