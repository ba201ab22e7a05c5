package cmd

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/gapminder-cli/internal/align"
	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
	"github.com/KaramelBytes/gapminder-cli/internal/sheet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pipelineFlags are shared by every command that runs the alignment.
type pipelineFlags struct {
	employed       string
	hiv            string
	lifeExpectancy string
	population     string
	perCapita      string
	regions        string
	regionColumn   string
	from           int
	to             int
	scaleFactor    float64
	minSize        float64
	sheetName      string
	sheetIndex     int
}

func (pf *pipelineFlags) register(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&pf.employed, "employed", "", "employment spreadsheet (overrides config)")
	f.StringVar(&pf.hiv, "hiv", "", "HIV prevalence spreadsheet (overrides config)")
	f.StringVar(&pf.lifeExpectancy, "life-expectancy", "", "life expectancy spreadsheet (overrides config)")
	f.StringVar(&pf.population, "population", "", "population spreadsheet (overrides config)")
	f.StringVar(&pf.perCapita, "per-capita", "", "GDP per capita spreadsheet (overrides config)")
	f.StringVar(&pf.regions, "regions", "", "country → region spreadsheet (overrides config)")
	f.StringVar(&pf.regionColumn, "region-column", "", "header of the region column (default from config: Group)")
	f.IntVar(&pf.from, "from", 0, "first year of the window (overrides config)")
	f.IntVar(&pf.to, "to", 0, "last year of the window (overrides config)")
	f.Float64Var(&pf.scaleFactor, "scale-factor", 0, "population marker scale factor (overrides config)")
	f.Float64Var(&pf.minSize, "min-size", 0, "minimum population marker size (overrides config)")
	f.StringVar(&pf.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	f.IntVar(&pf.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// pipelineRun is a resolved pipeline invocation.
type pipelineRun struct {
	sources      []sheet.Source
	regionsPath  string
	regionColumn string
	sheetOpt     sheet.Options
	alignOpt     align.Options
}

func (pf *pipelineFlags) resolve(c *cobra.Command) (*pipelineRun, error) {
	g := currentConfig()
	f := c.Flags()
	pick := func(flag, val, fallback string) string {
		if f.Changed(flag) && val != "" {
			return val
		}
		return fallback
	}
	run := &pipelineRun{
		sources: []sheet.Source{
			{Name: string(align.Employed), Path: pick("employed", pf.employed, g.Sources.Employed)},
			{Name: string(align.HIV), Path: pick("hiv", pf.hiv, g.Sources.HIV)},
			{Name: string(align.LifeExpectancy), Path: pick("life-expectancy", pf.lifeExpectancy, g.Sources.LifeExpectancy)},
			{Name: string(align.Population), Path: pick("population", pf.population, g.Sources.Population)},
			{Name: string(align.PerCapita), Path: pick("per-capita", pf.perCapita, g.Sources.PerCapita)},
		},
		regionsPath:  pick("regions", pf.regions, g.RegionsPath),
		regionColumn: pick("region-column", pf.regionColumn, g.RegionColumn),
	}
	for _, s := range run.sources {
		if s.Path == "" {
			return nil, fmt.Errorf("no spreadsheet for %s: pass --%s or set sources.%s in config", s.Name, flagName(s.Name), s.Name)
		}
	}

	run.sheetOpt = sheet.DefaultOptions()
	run.sheetOpt.SheetName = pick("sheet-name", pf.sheetName, g.SheetName)
	run.sheetOpt.SheetIndex = g.SheetIndex
	if f.Changed("sheet-index") && pf.sheetIndex > 0 {
		run.sheetOpt.SheetIndex = pf.sheetIndex
	}

	opt := align.DefaultOptions()
	opt.Window = indicator.Window{From: g.YearStart, To: g.YearEnd}
	if g.ScaleFactor > 0 {
		opt.ScaleFactor = g.ScaleFactor
	}
	if g.MinSize > 0 {
		opt.MinSize = g.MinSize
	}
	if f.Changed("from") {
		opt.Window.From = pf.from
	}
	if f.Changed("to") {
		opt.Window.To = pf.to
	}
	if f.Changed("scale-factor") {
		opt.ScaleFactor = pf.scaleFactor
	}
	if f.Changed("min-size") {
		opt.MinSize = pf.minSize
	}
	opt.Logger = logger
	run.alignOpt = opt
	return run, nil
}

// execute loads every spreadsheet and runs the alignment.
func (run *pipelineRun) execute(ctx context.Context) (*align.Result, error) {
	tables, err := sheet.LoadTables(ctx, run.sources, run.sheetOpt, logger)
	if err != nil {
		return nil, err
	}
	in := align.Input{Tables: make(map[align.Indicator]indicator.Table[string], len(tables))}
	for i, t := range tables {
		in.Tables[align.Indicator(run.sources[i].Name)] = t
	}
	if run.regionsPath != "" {
		regions, err := sheet.ReadRegions(run.regionsPath, run.regionColumn, run.sheetOpt)
		if err != nil {
			return nil, fmt.Errorf("load regions: %w", err)
		}
		in.Regions = regions
		logger.Debug("loaded regions", zap.Int("countries", len(regions)))
	}
	return align.Run(in, run.alignOpt)
}

// sourcePaths maps indicator names to their files, for export manifests.
func (run *pipelineRun) sourcePaths() map[string]string {
	out := make(map[string]string, len(run.sources)+1)
	for _, s := range run.sources {
		out[s.Name] = s.Path
	}
	if run.regionsPath != "" {
		out["regions"] = run.regionsPath
	}
	return out
}

func flagName(indicatorName string) string {
	switch indicatorName {
	case string(align.LifeExpectancy):
		return "life-expectancy"
	case string(align.PerCapita):
		return "per-capita"
	}
	return indicatorName
}
