// Package dataset loads and writes the tabular files the matching pipeline
// consumes and produces. Records are immutable once loaded; all validation
// (required columns, non-empty input) happens here, up front.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DrugRecord is one row of the source-drug file: a primary name plus any
// semicolon-delimited synonyms.
type DrugRecord struct {
	Name     string
	Synonyms []string
}

// ReferenceRecord is one row of the repurposing-reference file. Any field but
// Name may be empty.
type ReferenceRecord struct {
	Name          string
	ClinicalPhase string
	MOA           string
	Target        string
	DiseaseArea   string
	Indication    string
}

// Column names expected in the input files.
const (
	ColGenericName   = "GENERIC_NAME"
	ColSynonyms      = "SYNONYMS"
	ColPertIName     = "pert_iname"
	ColClinicalPhase = "clinical_phase"
	ColMOA           = "moa"
	ColTarget        = "target"
	ColDiseaseArea   = "disease_area"
	ColIndication    = "indication"
)

// LoadDrugs reads the source-drug file. GENERIC_NAME is required; SYNONYMS is
// optional and split on ';' when present.
func LoadDrugs(path string) ([]DrugRecord, error) {
	header, rows, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	nameIdx := columnIndex(header, ColGenericName)
	if nameIdx < 0 {
		return nil, &MissingColumnError{File: path, Column: ColGenericName}
	}
	synIdx := columnIndex(header, ColSynonyms)

	records := make([]DrugRecord, 0, len(rows))
	for _, row := range rows {
		rec := DrugRecord{Name: field(row, nameIdx)}
		if synIdx >= 0 {
			rec.Synonyms = splitSynonyms(field(row, synIdx))
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, &EmptyInputError{File: path}
	}
	return records, nil
}

// LoadReference reads the repurposing-reference file. All six columns are
// required; the reference-set order is preserved because exact matching is
// first-wins over it.
func LoadReference(path string) ([]ReferenceRecord, error) {
	header, rows, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, 6)
	for _, col := range []string{ColPertIName, ColClinicalPhase, ColMOA, ColTarget, ColDiseaseArea, ColIndication} {
		i := columnIndex(header, col)
		if i < 0 {
			return nil, &MissingColumnError{File: path, Column: col}
		}
		idx[col] = i
	}

	records := make([]ReferenceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ReferenceRecord{
			Name:          field(row, idx[ColPertIName]),
			ClinicalPhase: field(row, idx[ColClinicalPhase]),
			MOA:           field(row, idx[ColMOA]),
			Target:        field(row, idx[ColTarget]),
			DiseaseArea:   field(row, idx[ColDiseaseArea]),
			Indication:    field(row, idx[ColIndication]),
		})
	}
	if len(records) == 0 {
		return nil, &EmptyInputError{File: path}
	}
	return records, nil
}

// ReadTable reads a delimited file into header + rows. Short rows are padded
// rather than rejected, mirroring how ragged exports show up in the wild.
func ReadTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(path)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &EmptyInputError{File: path}
		}
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d of %s: %w", len(rows)+2, path, err)
		}
		if len(rec) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, rec)
			rec = tmp
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitSynonyms(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
