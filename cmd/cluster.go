package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pharmalign/drugalign/internal/cluster"
	"github.com/pharmalign/drugalign/internal/visual"
)

var (
	clOut      string
	clMOAPath  string
	clClusters int
	clMaxK     int
	clNoHTML   bool
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <pathway-dir>",
	Short: "Cluster drugs by pathway-enrichment profile",
	Long: `Cluster reads one CSV per drug from <pathway-dir> (columns Term and NES),
builds the drug x pathway score matrix, projects it with PCA and groups the
drugs with k-means. When --clusters is 0 the cluster count is picked by the
elbow of the inertia curve.

Outputs under --out: clustering_results.csv, cluster_details.csv,
moa_cluster_distribution.csv (when --moa is given) and clusters.html.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxK := clMaxK
		components := 3
		if cfg != nil {
			if !cmd.Flags().Changed("max-k") && cfg.ClusterMaxK > 0 {
				maxK = cfg.ClusterMaxK
			}
			if cfg.PCAComponents > 0 {
				components = cfg.PCAComponents
			}
		}

		if !quiet {
			fmt.Printf("Loading pathway data from %s...\n", args[0])
		}
		matrix, warnings, err := cluster.LoadPathwayMatrix(args[0])
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠ Skipping %s: %s\n", w.File, w.Reason)
		}
		if !quiet {
			fmt.Printf("Loaded %d drugs and %d pathways\n", len(matrix.Drugs), len(matrix.Pathways))
		}

		proj, err := cluster.PCA(matrix, components)
		if err != nil {
			return err
		}
		if !quiet {
			parts := make([]string, len(proj.ExplainedVariance))
			for i, v := range proj.ExplainedVariance {
				parts[i] = fmt.Sprintf("PC%d %.1f%%", i+1, v*100)
			}
			fmt.Printf("PCA explained variance: %s\n", strings.Join(parts, ", "))
		}

		k := clClusters
		if k == 0 {
			k, err = cluster.FindOptimalK(proj, maxK)
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Printf("Optimal number of clusters: %d\n", k)
			}
		}
		cl, err := cluster.KMeans(proj, k)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("KMeans: %d clusters, inertia %.2f\n", cl.K, cl.Inertia)
		fmt.Printf("Quality: silhouette %.4f, Calinski-Harabasz %.2f, Davies-Bouldin %.4f\n",
			cl.Silhouette, cl.CalinskiHarabasz, cl.DaviesBouldin)
			for c, top := range cluster.TopPathways(matrix, cl, 5) {
				names := make([]string, len(top))
				for i, pm := range top {
					names[i] = fmt.Sprintf("%s (%.2f)", pm.Pathway, pm.Mean)
				}
				fmt.Printf("  cluster %d (n=%d): %s\n", c, cl.Sizes[c], strings.Join(names, ", "))
			}
		}

		var moa cluster.MOATable
		if clMOAPath != "" {
			moa, err = cluster.LoadMOATable(clMOAPath)
			if err != nil {
				// MoA enrichment is optional; continue without it.
				fmt.Fprintf(os.Stderr, "⚠ Warning: could not load MOA data: %v\n", err)
				moa = nil
			} else if !quiet {
				fmt.Printf("Loaded MOA data for %d drugs\n", len(moa))
			}
		}

		written, err := cluster.Export(clOut, proj, cl, moa)
		if err != nil {
			return err
		}
		if !clNoHTML {
			htmlPath, err := visual.RenderScatter(clOut, proj, cl, moa)
			if err != nil {
				return err
			}
			written = append(written, htmlPath)
		}

		if !quiet {
			fmt.Println("\nFiles created:")
			for _, f := range written {
				fmt.Printf("  - %s\n", f)
			}
		}
		fmt.Printf("✓ Clustered %d drugs into %d clusters\n", len(matrix.Drugs), cl.K)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().StringVarP(&clOut, "out", "o", "results", "output directory")
	clusterCmd.Flags().StringVar(&clMOAPath, "moa", "", "path to all_matched_drugs.csv for MoA lookups (optional)")
	clusterCmd.Flags().IntVarP(&clClusters, "clusters", "k", 0, "number of clusters (0 = pick by elbow method)")
	clusterCmd.Flags().IntVar(&clMaxK, "max-k", 10, "upper bound when picking the cluster count")
	clusterCmd.Flags().BoolVar(&clNoHTML, "no-html", false, "skip rendering clusters.html")
}
