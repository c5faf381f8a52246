package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDrugs(t *testing.T) {
	path := writeFile(t, "drugs.csv",
		"GENERIC_NAME,SYNONYMS\n"+
			"aspirin,acetylsalicylic acid; ASA\n"+
			"warfarin,\n")
	drugs, err := LoadDrugs(path)
	if err != nil {
		t.Fatalf("LoadDrugs: %v", err)
	}
	if len(drugs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(drugs))
	}
	if drugs[0].Name != "aspirin" {
		t.Errorf("name = %q", drugs[0].Name)
	}
	if len(drugs[0].Synonyms) != 2 || drugs[0].Synonyms[0] != "acetylsalicylic acid" || drugs[0].Synonyms[1] != "ASA" {
		t.Errorf("synonyms = %v", drugs[0].Synonyms)
	}
	if len(drugs[1].Synonyms) != 0 {
		t.Errorf("expected no synonyms, got %v", drugs[1].Synonyms)
	}
}

func TestLoadDrugsWithoutSynonymsColumn(t *testing.T) {
	path := writeFile(t, "drugs.csv", "GENERIC_NAME\naspirin\n")
	drugs, err := LoadDrugs(path)
	if err != nil {
		t.Fatalf("LoadDrugs: %v", err)
	}
	if len(drugs) != 1 || drugs[0].Synonyms != nil {
		t.Fatalf("unexpected records: %+v", drugs)
	}
}

func TestLoadDrugsMissingColumn(t *testing.T) {
	path := writeFile(t, "drugs.csv", "name,SYNONYMS\naspirin,\n")
	_, err := LoadDrugs(path)
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if mce.Column != ColGenericName {
		t.Errorf("column = %q", mce.Column)
	}
}

func TestLoadDrugsEmpty(t *testing.T) {
	path := writeFile(t, "drugs.csv", "GENERIC_NAME,SYNONYMS\n")
	_, err := LoadDrugs(path)
	var eie *EmptyInputError
	if !errors.As(err, &eie) {
		t.Fatalf("expected EmptyInputError, got %v", err)
	}
}

func TestLoadReference(t *testing.T) {
	path := writeFile(t, "reference.csv",
		"pert_iname,clinical_phase,moa,target,disease_area,indication\n"+
			"aspirin,Launched,cyclooxygenase inhibitor,PTGS1,cardiology,pain\n")
	refs, err := LoadReference(path)
	if err != nil {
		t.Fatalf("LoadReference: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(refs))
	}
	ref := refs[0]
	if ref.Name != "aspirin" || ref.MOA != "cyclooxygenase inhibitor" || ref.Indication != "pain" {
		t.Errorf("unexpected record: %+v", ref)
	}
}

func TestLoadReferenceMissingColumn(t *testing.T) {
	path := writeFile(t, "reference.csv", "pert_iname,clinical_phase\naspirin,Launched\n")
	_, err := LoadReference(path)
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
}

func TestReadTableTSV(t *testing.T) {
	path := writeFile(t, "drugs.tsv", "GENERIC_NAME\tSYNONYMS\naspirin\tASA\n")
	drugs, err := LoadDrugs(path)
	if err != nil {
		t.Fatalf("LoadDrugs tsv: %v", err)
	}
	if len(drugs) != 1 || drugs[0].Synonyms[0] != "ASA" {
		t.Fatalf("unexpected records: %+v", drugs)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	header, rows, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(header) != 2 || header[0] != "a" {
		t.Errorf("header = %v", header)
	}
	if len(rows) != 2 || rows[1][1] != "4" {
		t.Errorf("rows = %v", rows)
	}
}
