// Package match implements the exact and fuzzy stages of the drug-name
// matching pipeline, plus the residual analysis of names neither stage
// resolves. Each stage is a pure function over its inputs: source records are
// partitioned into matched and unmatched, never duplicated.
package match

import (
	"github.com/pharmalign/drugalign/internal/dataset"
)

// Method records how a match was found.
type Method string

const (
	MethodExact Method = "exact"
	MethodFuzzy Method = "fuzzy"
)

// Result pairs a source drug with the reference record it matched. Score is
// always 100 for exact matches.
type Result struct {
	Source    dataset.DrugRecord
	Reference dataset.ReferenceRecord
	Method    Method
	Score     int
}
