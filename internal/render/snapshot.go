package render

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/gapminder-cli/internal/align"
	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
	"github.com/KaramelBytes/gapminder-cli/internal/utils"
)

// Panel is one scatter plot of the snapshot.
type Panel struct {
	Title      string
	X, Y       align.Indicator
	XLabel     string
	YLabel     string
	XMin, XMax float64
	YMin, YMax float64
}

// DefaultPanels are the three linked views of the dataset.
var DefaultPanels = []Panel{
	{Title: "Employed Data", X: align.Employed, Y: align.LifeExpectancy, XLabel: "Employed", YLabel: "Life expectancy (in years)", XMin: 1, XMax: 100, YMin: 1, YMax: 100},
	{Title: "Scatter Data", X: align.Employed, Y: align.HIV, XLabel: "Employed", YLabel: "HIV prevalence", XMin: 1, XMax: 100, YMin: 0, YMax: 100},
	{Title: "Scatter Data", X: align.LifeExpectancy, Y: align.PerCapita, XLabel: "life_expectancy", YLabel: "per_capita", XMin: 1, XMax: 100, YMin: 1, YMax: 5000},
}

// Options controls the output image.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Panels []Panel
}

// DefaultOptions returns a portrait image with the three default panels.
func DefaultOptions() Options {
	return Options{Width: 8 * vg.Inch, Height: 12 * vg.Inch, Panels: DefaultPanels}
}

var markerColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xcc}

// Snapshot renders the records of one year as stacked scatter panels and
// writes a PNG to path. Marker diameter is the scaled population.
func Snapshot(res *align.Result, year int, path string, opt Options) error {
	recs, ok := res.Index[year]
	if !ok {
		return &indicator.MissingYearError{Table: "year index", Year: year}
	}
	panels := opt.Panels
	if len(panels) == 0 {
		panels = DefaultPanels
	}
	if opt.Width <= 0 || opt.Height <= 0 {
		d := DefaultOptions()
		opt.Width, opt.Height = d.Width, d.Height
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, pn := range panels {
		p, err := panelPlot(pn, year, res.Countries, recs)
		if err != nil {
			return fmt.Errorf("panel %d: %w", i+1, err)
		}
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(opt.Width, opt.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func panelPlot(pn Panel, year int, countries []string, recs map[string]align.Record) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d)", pn.Title, year)
	p.X.Label.Text = pn.XLabel
	p.Y.Label.Text = pn.YLabel
	p.X.Min, p.X.Max = pn.XMin, pn.XMax
	p.Y.Min, p.Y.Max = pn.YMin, pn.YMax
	p.Add(plotter.NewGrid())

	xys, sizes := panelPoints(pn, countries, recs)
	if len(xys) == 0 {
		return p, nil
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: markerColor, Radius: vg.Points(sizes[i] / 2), Shape: draw.CircleGlyph{}}
	}
	p.Add(s)
	// Add widens the axes to the data; keep the panel's fixed ranges
	p.X.Min, p.X.Max = pn.XMin, pn.XMax
	p.Y.Min, p.Y.Max = pn.YMin, pn.YMax
	return p, nil
}

// panelPoints collects the (x, y) pairs of a panel and their marker sizes,
// skipping countries with a missing coordinate.
func panelPoints(pn Panel, countries []string, recs map[string]align.Record) (plotter.XYs, []float64) {
	var xys plotter.XYs
	var sizes []float64
	for _, c := range countries {
		r, ok := recs[c]
		if !ok {
			continue
		}
		x, y := r.Value(pn.X), r.Value(pn.Y)
		if !finite(x) || !finite(y) {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
		sizes = append(sizes, r.Population)
	}
	return xys, sizes
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
