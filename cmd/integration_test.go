package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, fl := range []string{"out", "threshold", "metric"} {
		if f := matchCmd.Flags().Lookup(fl); f != nil {
			f.Changed = false
		}
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func writeMatchFixtures(t *testing.T, dir string) (drugs, refs string) {
	t.Helper()
	drugs = filepath.Join(dir, "drugs.csv")
	refs = filepath.Join(dir, "reference.csv")
	drugsCSV := "GENERIC_NAME,SYNONYMS\n" +
		"Vitamin C,\n" +
		"paracetamole,\n" +
		"insulin glargine,\n"
	refsCSV := "pert_iname,clinical_phase,moa,target,disease_area,indication\n" +
		"ascorbic acid,Launched,vitamin,SLC23A1,nutrition,scurvy\n" +
		"paracetamol,Launched,analgesic,TRPV1,neurology,pain\n"
	if err := os.WriteFile(drugs, []byte(drugsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(refs, []byte(refsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return drugs, refs
}

func TestCLI_MatchEndToEnd(t *testing.T) {
	// Use a temp HOME to isolate config
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	drugs, refs := writeMatchFixtures(t, home)
	outDir := filepath.Join(home, "out")

	runCmd(t, "match", drugs, refs, "--out", outDir, "--threshold", "80", "--quiet")

	for _, name := range []string{
		filepath.Join(outDir, "intermediate_output", "matched_drugs.csv"),
		filepath.Join(outDir, "intermediate_output", "fuzzy_matches.csv"),
		filepath.Join(outDir, "intermediate_output", "remaining_unmatched.csv"),
		filepath.Join(outDir, "final_output", "all_matched_drugs.csv"),
		filepath.Join(outDir, "run_summary.yaml"),
	} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestCLI_MatchRejectsBadThreshold(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	drugs, refs := writeMatchFixtures(t, home)

	rootCmd.SetArgs([]string{"match", drugs, refs, "--out", filepath.Join(home, "out2"), "--threshold", "150"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for out-of-range threshold")
	}
}

func TestCLI_ClusterEndToEnd(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	pathwayDir := filepath.Join(home, "pathways")
	if err := os.MkdirAll(pathwayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		low := filepath.Join(pathwayDir, "low"+string(rune('a'+i))+".csv")
		high := filepath.Join(pathwayDir, "high"+string(rune('a'+i))+".csv")
		if err := os.WriteFile(low, []byte("Term,NES\npath1,0.1\npath2,1.0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(high, []byte("Term,NES\npath1,100.0\npath2,1.0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	outDir := filepath.Join(home, "results")

	runCmd(t, "cluster", pathwayDir, "--out", outDir, "--clusters", "2", "--quiet")

	for _, name := range []string{
		filepath.Join(outDir, "clustering_results.csv"),
		filepath.Join(outDir, "cluster_details.csv"),
		filepath.Join(outDir, "clusters.html"),
	} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}
