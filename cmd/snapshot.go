package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/gapminder-cli/internal/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	snFlags  pipelineFlags
	snYear   int
	snOutput string
	snWidth  float64
	snHeight float64
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the three scatter panels for one year as a PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := snFlags.resolve(cmd)
		if err != nil {
			return err
		}
		res, err := run.execute(cmd.Context())
		if err != nil {
			return err
		}
		year := snYear
		if !cmd.Flags().Changed("year") {
			year = res.Years[len(res.Years)-1]
		}
		out := snOutput
		if out == "" {
			out = filepath.Join(currentConfig().OutputDir, fmt.Sprintf("snapshot_%d.png", year))
		}
		opt := render.DefaultOptions()
		if snWidth > 0 {
			opt.Width = vg.Length(snWidth) * vg.Inch
		}
		if snHeight > 0 {
			opt.Height = vg.Length(snHeight) * vg.Inch
		}
		if err := render.Snapshot(res, year, out, opt); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d snapshot to %s\n", year, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snFlags.register(snapshotCmd)
	snapshotCmd.Flags().IntVar(&snYear, "year", 0, "year to render (default: last aligned year)")
	snapshotCmd.Flags().StringVarP(&snOutput, "output", "o", "", "PNG output path (default <output_dir>/snapshot_<year>.png)")
	snapshotCmd.Flags().Float64Var(&snWidth, "width", 0, "image width in inches (default 8)")
	snapshotCmd.Flags().Float64Var(&snHeight, "height", 0, "image height in inches (default 12)")
}
