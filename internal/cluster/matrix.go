// Package cluster builds a drug x pathway score matrix from per-drug
// enrichment files and groups the drugs by PCA-projected pathway profile.
package cluster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/pharmalign/drugalign/internal/dataset"
)

// Pathway-file column names.
const (
	ColTerm = "Term"
	ColNES  = "NES"
)

// Matrix is the dense drug x pathway score matrix. Rows follow Drugs, columns
// follow Pathways, both sorted; pathways a drug's file does not mention score
// zero.
type Matrix struct {
	Drugs    []string
	Pathways []string
	Data     *mat.Dense
}

// Warning describes a pathway file that was skipped rather than failing the
// whole load.
type Warning struct {
	File   string
	Reason string
}

// LoadPathwayMatrix reads every *.csv in dir as one drug's pathway scores
// (file base name = drug name, columns Term and NES). Files with a missing
// column or no rows are skipped with a warning, matching how partial
// enrichment exports are handled upstream. An empty directory is fatal.
func LoadPathwayMatrix(dir string) (*Matrix, []Warning, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read pathway dir: %w", err)
	}

	scores := make(map[string]map[string]float64)
	pathwaySet := make(map[string]struct{})
	var warnings []Warning

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		drug := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(dir, entry.Name())
		drugScores, err := loadPathwayFile(path)
		if err != nil {
			warnings = append(warnings, Warning{File: entry.Name(), Reason: err.Error()})
			continue
		}
		scores[drug] = drugScores
		for term := range drugScores {
			pathwaySet[term] = struct{}{}
		}
	}
	if len(scores) == 0 {
		return nil, warnings, &dataset.EmptyInputError{File: dir}
	}

	m := &Matrix{
		Drugs:    make([]string, 0, len(scores)),
		Pathways: make([]string, 0, len(pathwaySet)),
	}
	for drug := range scores {
		m.Drugs = append(m.Drugs, drug)
	}
	for term := range pathwaySet {
		m.Pathways = append(m.Pathways, term)
	}
	sort.Strings(m.Drugs)
	sort.Strings(m.Pathways)

	m.Data = mat.NewDense(len(m.Drugs), len(m.Pathways), nil)
	for i, drug := range m.Drugs {
		for j, term := range m.Pathways {
			m.Data.Set(i, j, scores[drug][term])
		}
	}
	return m, warnings, nil
}

func loadPathwayFile(path string) (map[string]float64, error) {
	header, rows, err := dataset.ReadTable(path)
	if err != nil {
		return nil, err
	}
	termIdx, nesIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColTerm:
			termIdx = i
		case ColNES:
			nesIdx = i
		}
	}
	if termIdx < 0 {
		return nil, &dataset.MissingColumnError{File: path, Column: ColTerm}
	}
	if nesIdx < 0 {
		return nil, &dataset.MissingColumnError{File: path, Column: ColNES}
	}
	if len(rows) == 0 {
		return nil, &dataset.EmptyInputError{File: path}
	}

	scores := make(map[string]float64, len(rows))
	for _, row := range rows {
		term := strings.TrimSpace(row[termIdx])
		if term == "" {
			continue
		}
		nes, err := strconv.ParseFloat(strings.TrimSpace(row[nesIdx]), 64)
		if err != nil {
			continue
		}
		scores[term] = nes
	}
	return scores, nil
}

// MOATable maps drug names to their mechanism of action, loaded from the
// matching pipeline's all-matched output. Purely optional input to cluster
// reporting; the two tools share nothing else.
type MOATable map[string]string

// LoadMOATable reads name -> moa pairs from an all_matched_drugs.csv file.
func LoadMOATable(path string) (MOATable, error) {
	header, rows, err := dataset.ReadTable(path)
	if err != nil {
		return nil, err
	}
	nameIdx, moaIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if strings.EqualFold(h, dataset.ColGenericName) {
			nameIdx = i
		}
		// The MoA column has shown up under several spellings.
		if moaIdx < 0 && strings.Contains(strings.ToLower(h), "moa") {
			moaIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, &dataset.MissingColumnError{File: path, Column: dataset.ColGenericName}
	}
	if moaIdx < 0 {
		return nil, &dataset.MissingColumnError{File: path, Column: dataset.ColMOA}
	}

	table := make(MOATable, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row[nameIdx])
		moa := strings.TrimSpace(row[moaIdx])
		if name != "" && moa != "" {
			table[name] = moa
		}
	}
	return table, nil
}
