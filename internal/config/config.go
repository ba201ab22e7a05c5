package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Sources holds the spreadsheet path of each indicator.
type Sources struct {
	Employed       string `mapstructure:"employed" yaml:"employed"`
	HIV            string `mapstructure:"hiv" yaml:"hiv"`
	LifeExpectancy string `mapstructure:"life_expectancy" yaml:"life_expectancy"`
	Population     string `mapstructure:"population" yaml:"population"`
	PerCapita      string `mapstructure:"per_capita" yaml:"per_capita"`
}

// Global configuration structure.
type Global struct {
	YearStart    int     `mapstructure:"year_start" yaml:"year_start"`
	YearEnd      int     `mapstructure:"year_end" yaml:"year_end"`
	ScaleFactor  float64 `mapstructure:"scale_factor" yaml:"scale_factor"`
	MinSize      float64 `mapstructure:"min_size" yaml:"min_size"`
	Sources      Sources `mapstructure:"sources" yaml:"sources"`
	RegionsPath  string  `mapstructure:"regions_path" yaml:"regions_path"`
	RegionColumn string  `mapstructure:"region_column" yaml:"region_column"`
	// XLSX sheet selection for every source
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".gapminder"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.gapminder/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
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
// Precedence: env > config file > defaults; CLI flags are applied by callers.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("GAPMINDER")
	// sources.employed => GAPMINDER_SOURCES_EMPLOYED
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("year_start", 1991)
	v.SetDefault("year_end", 2015)
	v.SetDefault("scale_factor", 200.0)
	v.SetDefault("min_size", 3.0)
	v.SetDefault("sources.employed", "")
	v.SetDefault("sources.hiv", "")
	v.SetDefault("sources.life_expectancy", "")
	v.SetDefault("sources.population", "")
	v.SetDefault("sources.per_capita", "")
	v.SetDefault("regions_path", "")
	v.SetDefault("region_column", "Group")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("output_dir", ".")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
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
