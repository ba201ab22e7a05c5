package render

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/gapminder-cli/internal/align"
	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
)

func sampleResult() *align.Result {
	return &align.Result{
		Years:     []int{2000},
		Countries: []string{"Brazil", "Chile", "Denmark"},
		Index: align.YearIndex{
			2000: {
				"Brazil":  {Employed: 55, HIV: 0.5, LifeExpectancy: 70, PerCapita: 3000, Population: 40},
				"Chile":   {Employed: 60, HIV: 0.3, LifeExpectancy: 76, PerCapita: 4500, Population: 3},
				"Denmark": {Employed: math.NaN(), HIV: 0.2, LifeExpectancy: 77, PerCapita: math.NaN(), Population: 3},
			},
		},
	}
}

func TestSnapshotWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img", "snapshot_2000.png")
	opt := DefaultOptions()
	opt.Width, opt.Height = 4*vg.Inch, 6*vg.Inch
	require.NoError(t, Snapshot(sampleResult(), 2000, path, opt))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, 0)
	assert.Greater(t, cfg.Height, cfg.Width)
}

func TestSnapshotMissingYear(t *testing.T) {
	err := Snapshot(sampleResult(), 1999, filepath.Join(t.TempDir(), "x.png"), DefaultOptions())
	var mye *indicator.MissingYearError
	require.ErrorAs(t, err, &mye)
	assert.Equal(t, 1999, mye.Year)
}

func TestPanelPointsSkipsMissingValues(t *testing.T) {
	res := sampleResult()
	xys, sizes := panelPoints(DefaultPanels[2], res.Countries, res.Index[2000])
	require.Len(t, xys, 2)
	assert.Equal(t, 70.0, xys[0].X)
	assert.Equal(t, 3000.0, xys[0].Y)
	assert.Equal(t, []float64{40, 3}, sizes)

	xys, _ = panelPoints(DefaultPanels[1], append(res.Countries, "Egypt"), res.Index[2000])
	assert.Len(t, xys, 2, "NaN employed and unknown country are skipped")

	p, err := panelPlot(DefaultPanels[0], 2000, nil, res.Index[2000])
	require.NoError(t, err)
	assert.Equal(t, "Employed Data (2000)", p.Title.Text)
}

func TestPanelPlotKeepsFixedRanges(t *testing.T) {
	recs := map[string]align.Record{
		"Qatar": {Employed: 150, LifeExpectancy: 120, Population: 3},
		"Chile": {Employed: 60, LifeExpectancy: 76, Population: 3},
	}
	pn := DefaultPanels[0]
	p, err := panelPlot(pn, 2000, []string{"Chile", "Qatar"}, recs)
	require.NoError(t, err)
	assert.Equal(t, pn.XMin, p.X.Min)
	assert.Equal(t, pn.XMax, p.X.Max)
	assert.Equal(t, pn.YMin, p.Y.Min)
	assert.Equal(t, pn.YMax, p.Y.Max)
}
