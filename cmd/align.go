package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/gapminder-cli/internal/analysis"
	"github.com/KaramelBytes/gapminder-cli/internal/export"
	"github.com/spf13/cobra"
)

var (
	alFlags  pipelineFlags
	alOutput string
	alXLSX   string
	alQuiet  bool
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align the five indicator spreadsheets and export the per-year record index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := alFlags.resolve(cmd)
		if err != nil {
			return err
		}
		res, err := run.execute(cmd.Context())
		if err != nil {
			return err
		}
		if !alQuiet {
			fmt.Println(analysis.AlignmentMarkdown(res))
		}

		out := alOutput
		if out == "" {
			out = filepath.Join(currentConfig().OutputDir, "gapminder.json")
		}
		m := export.NewManifest(run.alignOpt, run.sourcePaths())
		if err := export.WriteJSON(out, res, m); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		if !alQuiet {
			fmt.Printf("✓ Wrote %d years × %d countries to %s (run %s)\n", len(res.Years), len(res.Countries), out, m.RunID)
		}
		if alXLSX != "" {
			if err := export.WriteXLSX(alXLSX, res); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
			if !alQuiet {
				fmt.Printf("✓ Wrote aligned workbook to %s\n", alXLSX)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alignCmd)
	alFlags.register(alignCmd)
	alignCmd.Flags().StringVarP(&alOutput, "output", "o", "", "JSON output path (default <output_dir>/gapminder.json)")
	alignCmd.Flags().StringVar(&alXLSX, "xlsx", "", "optional path to also write the aligned tables as an XLSX workbook")
	alignCmd.Flags().BoolVar(&alQuiet, "quiet", false, "suppress the summary and progress output")
}
