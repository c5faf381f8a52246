package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DefaultThreshold int    `mapstructure:"default_threshold" yaml:"default_threshold"`
	DefaultMetric    string `mapstructure:"default_metric" yaml:"default_metric"`
	OutputDir        string `mapstructure:"output_dir" yaml:"output_dir"`
	ClusterMaxK      int    `mapstructure:"cluster_max_k" yaml:"cluster_max_k"`
	PCAComponents    int    `mapstructure:"pca_components" yaml:"pca_components"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.drugalign/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".drugalign")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DRUGALIGN")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("default_threshold", 80)
	v.SetDefault("default_metric", "levenshtein")
	v.SetDefault("output_dir", ".")
	v.SetDefault("cluster_max_k", 10)
	v.SetDefault("pca_components", 3)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".drugalign")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
