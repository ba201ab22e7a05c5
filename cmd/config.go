package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/gapminder-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set gapminder configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("year_start: %d\n", cfg.YearStart)
		fmt.Printf("year_end: %d\n", cfg.YearEnd)
		fmt.Printf("scale_factor: %.3f\n", cfg.ScaleFactor)
		fmt.Printf("min_size: %.3f\n", cfg.MinSize)
		fmt.Printf("sources.employed: %s\n", cfg.Sources.Employed)
		fmt.Printf("sources.hiv: %s\n", cfg.Sources.HIV)
		fmt.Printf("sources.life_expectancy: %s\n", cfg.Sources.LifeExpectancy)
		fmt.Printf("sources.population: %s\n", cfg.Sources.Population)
		fmt.Printf("sources.per_capita: %s\n", cfg.Sources.PerCapita)
		if cfg.RegionsPath != "" {
			fmt.Printf("regions_path: %s\n", cfg.RegionsPath)
		}
		fmt.Printf("region_column: %s\n", cfg.RegionColumn)
		if cfg.SheetName != "" {
			fmt.Printf("sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Printf("sheet_index: %d\n", cfg.SheetIndex)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
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
		case "year_start", "year_end", "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			switch key {
			case "year_start":
				cfg.YearStart = i
			case "year_end":
				cfg.YearEnd = i
			case "sheet_index":
				if i < 1 {
					return fmt.Errorf("invalid sheet_index: %d (1-based)", i)
				}
				cfg.SheetIndex = i
			}
		case "scale_factor":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for scale_factor: %v", val)
			}
			cfg.ScaleFactor = f
		case "min_size":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for min_size: %v", val)
			}
			cfg.MinSize = f
		case "sources.employed":
			cfg.Sources.Employed = val
		case "sources.hiv":
			cfg.Sources.HIV = val
		case "sources.life_expectancy":
			cfg.Sources.LifeExpectancy = val
		case "sources.population":
			cfg.Sources.Population = val
		case "sources.per_capita":
			cfg.Sources.PerCapita = val
		case "regions_path":
			cfg.RegionsPath = val
		case "region_column":
			cfg.RegionColumn = val
		case "sheet_name":
			cfg.SheetName = val
		case "output_dir":
			cfg.OutputDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if cfg.YearStart > cfg.YearEnd {
			return fmt.Errorf("year_start %d is after year_end %d", cfg.YearStart, cfg.YearEnd)
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
