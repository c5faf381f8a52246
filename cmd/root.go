package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/pharmalign/drugalign/internal/config"
)

var (
	// Global flags
	cfgFile string
	quiet   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "drugalign",
	Short: "drugalign: match drug names against a repurposing reference and cluster pathway profiles",
	Long: `drugalign bundles two batch tools for drug-repurposing datasets:

  match    reconcile free-text drug names against a repurposing reference
           (exact + fuzzy matching with synonym expansion)
  cluster  group drugs by pathway-enrichment profile (PCA + k-means) and
           render an interactive scatter of the result`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.drugalign/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}
