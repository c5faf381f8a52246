package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pharmalign/drugalign/internal/match"
	"github.com/pharmalign/drugalign/internal/pipeline"
)

var (
	matchOut       string
	matchThreshold int
	matchMetric    string
)

var matchCmd = &cobra.Command{
	Use:   "match <drugs.csv> <reference.csv>",
	Short: "Match source drug names against a repurposing reference",
	Long: `Match runs the four-stage name-matching pipeline: names are normalized
to a canonical comparison form, joined exactly (including synonyms), scored
fuzzily against every reference name, and whatever remains is bucketed into
descriptive categories.

Outputs under --out:
  intermediate_output/matched_drugs.csv        exact matches
  intermediate_output/unmatched_drugs.csv      drugs without an exact match
  intermediate_output/fuzzy_matches.csv        fuzzy matches with scores
  intermediate_output/remaining_unmatched.csv  drugs neither stage matched
  final_output/all_matched_drugs.csv           exact + fuzzy combined
  run_summary.yaml                             run metadata and counts`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold := matchThreshold
		metricName := matchMetric
		out := matchOut
		if cfg != nil {
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.DefaultThreshold
			}
			if !cmd.Flags().Changed("metric") && cfg.DefaultMetric != "" {
				metricName = cfg.DefaultMetric
			}
			if !cmd.Flags().Changed("out") && cfg.OutputDir != "" {
				out = cfg.OutputDir
			}
		}
		metric, err := match.ParseMetric(metricName)
		if err != nil {
			return err
		}

		opts := pipeline.Options{
			DrugsPath:     args[0],
			ReferencePath: args[1],
			OutDir:        out,
			Threshold:     threshold,
			Metric:        metric,
		}

		started := time.Now()
		if !quiet {
			fmt.Printf("Matching %s against %s (threshold %d, metric %s)...\n", args[0], args[1], threshold, metric)
		}
		sum, err := pipeline.Run(opts)
		if err != nil {
			return err
		}
		summaryPath, err := pipeline.WriteRunSummary(opts, sum, started)
		if err != nil {
			return err
		}

		if !quiet {
			printMatchSummary(sum)
			fmt.Println("\nFiles created:")
			for _, f := range sum.OutputFiles {
				fmt.Printf("  - %s\n", f)
			}
			fmt.Printf("  - %s\n", summaryPath)
		}
		fmt.Printf("✓ Matched %d/%d drugs (%d exact, %d fuzzy), %d unmatched\n",
			sum.ExactMatched+sum.FuzzyMatched, sum.SourceCount,
			sum.ExactMatched, sum.FuzzyMatched, sum.StillUnmatched)
		return nil
	},
}

func printMatchSummary(sum *pipeline.Summary) {
	fmt.Println("\nMatching statistics:")
	fmt.Printf("  Source drugs:      %d\n", sum.SourceCount)
	fmt.Printf("  Reference drugs:   %d\n", sum.ReferenceCount)
	fmt.Printf("  Exact matches:     %d\n", sum.ExactMatched)
	fmt.Printf("  Fuzzy matches:     %d\n", sum.FuzzyMatched)
	fmt.Printf("  Still unmatched:   %d\n", sum.StillUnmatched)

	if len(sum.Duplicates) > 0 {
		names := make([]string, 0, len(sum.Duplicates))
		for name := range sum.Duplicates {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("\n⚠ %d drug(s) matched a reference name shared by multiple entries (first entry used):\n", len(names))
		for _, name := range names {
			fmt.Printf("  - %s: %s\n", name, strings.Join(sum.Duplicates[name], ", "))
		}
	}

	if sum.FuzzyMatched > 0 {
		fmt.Printf("\nFuzzy score distribution: min %d, max %d, mean %.1f\n",
			sum.FuzzyScores.Min, sum.FuzzyScores.Max, sum.FuzzyScores.Mean)
	}

	printed := false
	for _, c := range sum.Residual {
		if c.Count == 0 {
			continue
		}
		if !printed {
			fmt.Println("\nPatterns in remaining unmatched drugs:")
			printed = true
		}
		fmt.Printf("  %s (%d): %s\n", c.Name, c.Count, strings.Join(c.Examples, ", "))
	}
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringVarP(&matchOut, "out", "o", ".", "output directory")
	matchCmd.Flags().IntVarP(&matchThreshold, "threshold", "t", 80, "fuzzy similarity threshold (0-100)")
	matchCmd.Flags().StringVar(&matchMetric, "metric", "levenshtein", "similarity metric: levenshtein | jaro-winkler")
}
