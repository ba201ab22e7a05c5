package align

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
)

// Options controls the alignment pipeline.
type Options struct {
	Window      indicator.Window
	ScaleFactor float64
	MinSize     float64
	// Logger receives diagnostics; nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the window and marker constants of the gapminder
// dataset.
func DefaultOptions() Options {
	return Options{
		Window:      indicator.Window{From: 1991, To: 2015},
		ScaleFactor: 200,
		MinSize:     3,
	}
}

// Input is the raw material of one pipeline run.
type Input struct {
	Tables  map[Indicator]indicator.Table[string]
	Regions indicator.Regions
}

// Result is the aligned output handed to exporters and the renderer.
type Result struct {
	Window    indicator.Window
	Years     []int
	Countries []string
	// Tables are aligned and relabeled; Population holds marker sizes.
	Tables map[Indicator]indicator.Table[int]
	Index  YearIndex
	// Regions lists the distinct region labels of the aligned countries.
	Regions []string
	// CountryRegions maps every aligned country to its region; "" if unassigned.
	CountryRegions indicator.Regions
	// Bounds are computed before population scaling.
	Bounds   map[Indicator]indicator.Range
	Warnings []string
}

// Run filters every table to the window, restricts them to the countries
// they all share, relabels year columns as integers, projects every table
// onto the reference table's years, scales population to marker sizes, and
// joins everything into a YearIndex.
func Run(in Input, opt Options) (*Result, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := opt.Window.Validate(); err != nil {
		return nil, err
	}
	for _, name := range Indicators {
		if _, ok := in.Tables[name]; !ok {
			return nil, fmt.Errorf("%w: %s", indicator.ErrMissingIndicator, name)
		}
	}

	// window
	filtered := make([]indicator.Table[string], len(Indicators))
	var empty []string
	for i, name := range Indicators {
		t := indicator.FilterYearWindow(in.Tables[name], opt.Window)
		log.Debug("filtered year window",
			zap.String("table", string(name)),
			zap.Int("columns_in", in.Tables[name].Columns()),
			zap.Int("columns_out", t.Columns()))
		if t.Columns() == 0 {
			empty = append(empty, string(name))
		}
		filtered[i] = t
	}
	if len(empty) > 0 {
		return nil, &indicator.EmptyIntersectionError{Axis: "years", Tables: empty}
	}

	// countries
	keys, err := indicator.CommonKeys(filtered...)
	if err != nil {
		return nil, err
	}
	log.Debug("common countries", zap.Int("count", len(keys)))

	res := &Result{
		Window:    opt.Window,
		Countries: keys,
		Tables:    make(map[Indicator]indicator.Table[int], len(Indicators)),
		Bounds:    make(map[Indicator]indicator.Range, len(Indicators)),
	}
	relabeled := make([]indicator.Table[int], len(Indicators))
	for i, name := range Indicators {
		t, err := indicator.RestrictRows(filtered[i], keys)
		if err != nil {
			return nil, err
		}
		yt, err := indicator.RelabelYears(t, t.Labels)
		if err != nil {
			return nil, fmt.Errorf("relabel %s: %w", name, err)
		}
		relabeled[i] = yt
	}

	// years: the reference table's columns, which every table must carry
	res.Years = append([]int(nil), relabeled[0].Labels...)
	if err := indicator.CheckContiguous(res.Years); err != nil {
		return nil, fmt.Errorf("%s: %w", Employed, err)
	}
	for i, name := range Indicators {
		yt, err := indicator.RestrictYears(relabeled[i], res.Years)
		if err != nil {
			return nil, err
		}
		if extra := relabeled[i].Columns() - yt.Columns(); extra > 0 {
			log.Debug("dropped years missing from reference table",
				zap.String("table", string(name)),
				zap.Int("columns", extra))
		}
		if r, ok := indicator.Bounds(yt); ok {
			res.Bounds[name] = r
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s has no values inside %d-%d", name, opt.Window.From, opt.Window.To))
		}
		if name == Population {
			yt, err = indicator.ScalePopulation(yt, opt.ScaleFactor, opt.MinSize)
			if err != nil {
				return nil, err
			}
		}
		res.Tables[name] = yt
	}

	if missing := in.Regions.Unassigned(keys); len(missing) > 0 {
		log.Warn("countries without region", zap.Strings("countries", missing))
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d countries have no region assignment", len(missing)))
	}
	res.CountryRegions = make(indicator.Regions, len(keys))
	for _, k := range keys {
		res.CountryRegions[k] = in.Regions[k]
	}
	res.Regions = res.CountryRegions.Groups()

	idx, err := BuildYearIndex(res.Tables, res.CountryRegions, res.Years)
	if err != nil {
		return nil, err
	}
	res.Index = idx
	log.Debug("year index built", zap.Int("years", len(res.Years)), zap.Int("countries", len(keys)))
	return res, nil
}

// Table returns the aligned table for name.
func (r *Result) Table(name Indicator) indicator.Table[int] { return r.Tables[name] }
