package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/pharmalign/drugalign/internal/config"
	"github.com/pharmalign/drugalign/internal/match"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set drugalign configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("default_threshold: %d\n", cfg.DefaultThreshold)
		fmt.Printf("default_metric: %s\n", cfg.DefaultMetric)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("cluster_max_k: %d\n", cfg.ClusterMaxK)
		fmt.Printf("pca_components: %d\n", cfg.PCAComponents)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "default_threshold":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 || i > 100 {
				return fmt.Errorf("invalid default_threshold: %v (must be 0-100)", val)
			}
			cfg.DefaultThreshold = i
		case "default_metric":
			m, err := match.ParseMetric(val)
			if err != nil {
				return err
			}
			cfg.DefaultMetric = string(m)
		case "output_dir":
			cfg.OutputDir = val
		case "cluster_max_k":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 {
				return fmt.Errorf("invalid cluster_max_k: %v (must be >= 2)", val)
			}
			cfg.ClusterMaxK = i
		case "pca_components":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid pca_components: %v (must be >= 1)", val)
			}
			cfg.PCAComponents = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
