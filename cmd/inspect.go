package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/gapminder-cli/internal/analysis"
	"github.com/KaramelBytes/gapminder-cli/internal/sheet"
	"github.com/spf13/cobra"
)

var (
	inOutputPath string
	inDelimiter  string
	inDecimal    string
	inThousands  string
	inSampleRows int
	inSheetName  string
	inSheetIndex int
	inQuiet      bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Summarize indicator spreadsheets: countries, year columns, gaps and value ranges",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		opt := sheet.DefaultOptions()
		opt.SheetName = inSheetName
		if inSheetIndex > 0 {
			opt.SheetIndex = inSheetIndex
		}
		if inDelimiter != "" {
			switch inDelimiter {
			case ",":
				opt.Delimiter = ','
			case "\t", "tab":
				opt.Delimiter = '\t'
			case ";":
				opt.Delimiter = ';'
			default:
				return fmt.Errorf("unsupported --delimiter: %s", inDelimiter)
			}
		}
		switch strings.ToLower(strings.TrimSpace(inDecimal)) {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		case "":
		default:
			return fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", inDecimal)
		}
		switch strings.ToLower(strings.TrimSpace(inThousands)) {
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		case "":
		default:
			return fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", inThousands)
		}

		var all strings.Builder
		total := len(files)
		for i, path := range files {
			if !inQuiet && total > 1 {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := sheet.ReadTable(filepath.Base(path), path, opt)
			if err != nil {
				return err
			}
			md := analysis.Summarize(t, inSampleRows).Markdown()
			if inOutputPath != "" {
				if all.Len() > 0 {
					all.WriteString("\n")
				}
				all.WriteString(md)
				continue
			}
			fmt.Println(md)
		}
		if inOutputPath != "" {
			if err := os.WriteFile(inOutputPath, []byte(all.String()), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if !inQuiet {
				fmt.Printf("✓ Wrote summary to %s\n", inOutputPath)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inOutputPath, "output", "o", "", "optional path to write the summaries (Markdown)")
	inspectCmd.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	inspectCmd.Flags().StringVar(&inDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	inspectCmd.Flags().StringVar(&inThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	inspectCmd.Flags().IntVar(&inSampleRows, "sample-rows", 5, "number of sample countries to list")
	inspectCmd.Flags().StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to inspect")
	inspectCmd.Flags().IntVar(&inSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	inspectCmd.Flags().BoolVar(&inQuiet, "quiet", false, "suppress progress and non-essential output")
}
