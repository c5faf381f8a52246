package cluster

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pharmalign/drugalign/internal/dataset"
)

func writePathwayDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadPathwayMatrix(t *testing.T) {
	dir := writePathwayDir(t, map[string]string{
		"drugA.csv": "Term,NES\npath1,1.5\npath2,-0.5\n",
		"drugB.csv": "Term,NES\npath2,2.0\npath3,0.25\n",
		"notes.txt": "ignored",
	})
	m, warnings, err := LoadPathwayMatrix(dir)
	if err != nil {
		t.Fatalf("LoadPathwayMatrix: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(m.Drugs) != 2 || m.Drugs[0] != "drugA" || m.Drugs[1] != "drugB" {
		t.Fatalf("drugs = %v", m.Drugs)
	}
	if len(m.Pathways) != 3 {
		t.Fatalf("pathways = %v", m.Pathways)
	}
	// drugA has no score for path3: defaults to zero.
	if got := m.Data.At(0, 2); got != 0 {
		t.Errorf("drugA/path3 = %v, want 0", got)
	}
	if got := m.Data.At(1, 1); got != 2.0 {
		t.Errorf("drugB/path2 = %v, want 2.0", got)
	}
}

func TestLoadPathwayMatrixSkipsBadFiles(t *testing.T) {
	dir := writePathwayDir(t, map[string]string{
		"good.csv":      "Term,NES\npath1,1.0\n",
		"wrongcols.csv": "A,B\nx,1\n",
		"norows.csv":    "Term,NES\n",
	})
	m, warnings, err := LoadPathwayMatrix(dir)
	if err != nil {
		t.Fatalf("LoadPathwayMatrix: %v", err)
	}
	if len(m.Drugs) != 1 || m.Drugs[0] != "good" {
		t.Errorf("drugs = %v", m.Drugs)
	}
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
}

func TestLoadPathwayMatrixEmptyDir(t *testing.T) {
	_, _, err := LoadPathwayMatrix(t.TempDir())
	var eie *dataset.EmptyInputError
	if !errors.As(err, &eie) {
		t.Fatalf("expected EmptyInputError, got %v", err)
	}
}

// twoBlobMatrix builds a matrix whose drugs split into two well-separated
// groups along the first pathway axis.
func twoBlobMatrix(perBlob int) *Matrix {
	files := map[string]string{}
	for i := 0; i < perBlob; i++ {
		files[fmt.Sprintf("low%d.csv", i)] = fmt.Sprintf("Term,NES\npath1,%f\npath2,%f\n", 0.0+float64(i)*0.01, 1.0)
		files[fmt.Sprintf("high%d.csv", i)] = fmt.Sprintf("Term,NES\npath1,%f\npath2,%f\n", 100.0+float64(i)*0.01, 1.0)
	}
	// Build through the loader to keep one code path.
	dir, _ := os.MkdirTemp("", "pathways")
	for name, content := range files {
		_ = os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
	}
	m, _, _ := LoadPathwayMatrix(dir)
	_ = os.RemoveAll(dir)
	return m
}

func TestPCA(t *testing.T) {
	m := twoBlobMatrix(4)
	proj, err := PCA(m, 3)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}
	if len(proj.Points) != 8 {
		t.Fatalf("points = %d", len(proj.Points))
	}
	// Only path1 varies, so PC1 carries essentially all the variance and the
	// component count is clamped to what the data supports.
	if proj.ExplainedVariance[0] < 0.99 {
		t.Errorf("PC1 explained variance = %f, want ~1", proj.ExplainedVariance[0])
	}
	if proj.Components > len(m.Pathways) {
		t.Errorf("components = %d not clamped to %d pathways", proj.Components, len(m.Pathways))
	}

	// The two blobs must separate along PC1.
	byBlob := map[bool][]float64{}
	for i, drug := range proj.Drugs {
		byBlob[drug[0] == 'h'] = append(byBlob[drug[0] == 'h'], proj.Points[i][0])
	}
	for _, lo := range byBlob[false] {
		for _, hi := range byBlob[true] {
			if math.Signbit(lo) == math.Signbit(hi) {
				t.Fatalf("blobs not separated on PC1: low %f vs high %f", lo, hi)
			}
		}
	}
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	m := twoBlobMatrix(4)
	proj, err := PCA(m, 2)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}
	cl, err := KMeans(proj, 2)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if cl.K != 2 || len(cl.Labels) != 8 {
		t.Fatalf("k = %d, labels = %d", cl.K, len(cl.Labels))
	}
	if cl.Sizes[0]+cl.Sizes[1] != 8 {
		t.Errorf("sizes = %v", cl.Sizes)
	}

	seen := map[string]int{}
	for i, drug := range proj.Drugs {
		blob := string(drug[0])
		if prev, ok := seen[blob]; ok && prev != cl.Labels[i] {
			t.Fatalf("drugs of blob %q split across clusters", blob)
		}
		seen[blob] = cl.Labels[i]
	}
	if seen["l"] == seen["h"] {
		t.Error("both blobs landed in one cluster")
	}
	if cl.Silhouette < 0.9 {
		t.Errorf("silhouette = %f, want near 1 for separated blobs", cl.Silhouette)
	}
	// Well-separated tight blobs: high between/within ratio, near-zero
	// spread-to-separation ratio.
	if cl.CalinskiHarabasz < 10 {
		t.Errorf("calinski-harabasz = %f, want large for separated blobs", cl.CalinskiHarabasz)
	}
	if cl.DaviesBouldin < 0 || cl.DaviesBouldin > 0.1 {
		t.Errorf("davies-bouldin = %f, want near 0 for separated blobs", cl.DaviesBouldin)
	}
}

func TestKMeansRejectsBadK(t *testing.T) {
	m := twoBlobMatrix(2)
	proj, err := PCA(m, 2)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}
	if _, err := KMeans(proj, 1); err == nil {
		t.Error("expected error for k=1")
	}
	if _, err := KMeans(proj, 100); err == nil {
		t.Error("expected error for k > n")
	}
}

func TestFindOptimalKSmallData(t *testing.T) {
	m := twoBlobMatrix(2)
	proj, err := PCA(m, 2)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}
	// 4 points: n/5 < 2, no usable range, fall back to the default.
	k, err := FindOptimalK(proj, 10)
	if err != nil {
		t.Fatalf("FindOptimalK: %v", err)
	}
	if k != 4 {
		t.Errorf("k = %d, want default 4", k)
	}
}

func TestTopPathways(t *testing.T) {
	m := twoBlobMatrix(4)
	proj, err := PCA(m, 2)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}
	cl, err := KMeans(proj, 2)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	top := TopPathways(m, cl, 1)
	if len(top) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(top))
	}
	// The high blob's cluster must rank path1 first with mean near 100.
	found := false
	for _, pathways := range top {
		if len(pathways) == 1 && pathways[0].Pathway == "path1" && pathways[0].Mean > 99 {
			found = true
		}
	}
	if !found {
		t.Errorf("no cluster ranked path1 near 100: %+v", top)
	}
}

func TestLoadMOATable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_matched_drugs.csv")
	content := "GENERIC_NAME,matched_name,moa\naspirin,Aspirin,cyclooxygenase inhibitor\nblank,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	moa, err := LoadMOATable(path)
	if err != nil {
		t.Fatalf("LoadMOATable: %v", err)
	}
	if len(moa) != 1 || moa["aspirin"] != "cyclooxygenase inhibitor" {
		t.Errorf("moa = %v", moa)
	}
}

func TestExport(t *testing.T) {
	m := twoBlobMatrix(4)
	proj, err := PCA(m, 2)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}
	cl, err := KMeans(proj, 2)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	moa := MOATable{}
	for _, d := range proj.Drugs {
		if d[0] == 'h' {
			moa[d] = "agonist"
		}
	}

	outDir := t.TempDir()
	written, err := Export(outDir, proj, cl, moa)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("written = %v", written)
	}

	_, rows, err := dataset.ReadTable(filepath.Join(outDir, FileClusteringResults))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(proj.Drugs) {
		t.Errorf("results rows = %d, want %d", len(rows), len(proj.Drugs))
	}

	header, details, err := dataset.ReadTable(filepath.Join(outDir, FileClusterDetails))
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := []string{"cluster", "size", "silhouette", "calinski_harabasz", "davies_bouldin", "inertia"}
	if len(header) != len(wantHeader) {
		t.Fatalf("details header = %v", header)
	}
	for i, h := range wantHeader {
		if header[i] != h {
			t.Errorf("details header[%d] = %q, want %q", i, header[i], h)
		}
	}
	if len(details) != cl.K {
		t.Errorf("details rows = %d, want %d", len(details), cl.K)
	}

	_, rows, err = dataset.ReadTable(filepath.Join(outDir, FileMOADistribution))
	if err != nil {
		t.Fatal(err)
	}
	// One MoA with 4 drugs, all in one cluster.
	if len(rows) != 1 || rows[0][0] != "agonist" || rows[0][1] != "4" {
		t.Errorf("moa distribution rows = %v", rows)
	}
}
