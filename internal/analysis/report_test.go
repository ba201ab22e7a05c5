package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/gapminder-cli/internal/align"
	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
)

func TestSummarizeCountsYearsAndGaps(t *testing.T) {
	tb, err := indicator.NewTable("hiv.csv",
		[]string{"Angola", "Brazil", "Chile"},
		[]string{"1991", "1995", "notes"},
		[][]float64{{1, 2, math.NaN()}, {math.NaN(), 4, math.NaN()}, {3, 6, math.NaN()}})
	require.NoError(t, err)

	rep := Summarize(tb, 2)
	assert.Equal(t, 3, rep.Countries)
	assert.Equal(t, 2, rep.YearCols)
	assert.Equal(t, 1991, rep.FirstYear)
	assert.Equal(t, 1995, rep.LastYear)
	assert.Equal(t, []string{"notes"}, rep.BadLabels)
	assert.Equal(t, 4, rep.Missing)
	assert.Equal(t, 9, rep.Cells)
	assert.Equal(t, []string{"Angola", "Brazil"}, rep.Samples)
	require.NotNil(t, rep.Bounds)
	assert.Equal(t, indicator.Range{Min: 1, Max: 6}, *rep.Bounds)

	c := rep.Cols[1]
	assert.Equal(t, 3, c.NonNull)
	assert.Equal(t, 4.0, c.Mean)

	md := rep.Markdown()
	assert.Contains(t, md, "[DATASET SUMMARY]")
	assert.Contains(t, md, "File: hiv.csv")
	assert.Contains(t, md, "Years: 1991-1995 (2 columns)")
	assert.Contains(t, md, "Missing: 4 of 9 cells (44.4%)")
	assert.Contains(t, md, "- notes: non-null 0, missing 3\n")
	assert.Contains(t, md, "[SAMPLE COUNTRIES]\n- Angola\n- Brazil\n")
	assert.Contains(t, md, "1 column labels are not integer years")
}

func TestSummarizeEmptyTable(t *testing.T) {
	tb, err := indicator.NewTable[string]("empty", nil, nil, nil)
	require.NoError(t, err)
	rep := Summarize(tb, 5)
	md := rep.Markdown()
	assert.Contains(t, md, "Years: none")
	assert.Contains(t, md, "- no country rows")
	assert.Nil(t, rep.Bounds)
}

func TestAlignmentMarkdown(t *testing.T) {
	res := &align.Result{
		Window:    indicator.Window{From: 1991, To: 2015},
		Years:     []int{1991, 1992},
		Countries: []string{"Brazil", "Chile"},
		Regions:   []string{"America"},
		Bounds: map[align.Indicator]indicator.Range{
			align.PerCapita: {Min: 100, Max: 2000},
			align.Employed:  {Min: 40, Max: 80},
		},
		Warnings: []string{"1 countries have no region assignment"},
	}
	md := AlignmentMarkdown(res)
	assert.Contains(t, md, "[ALIGNMENT SUMMARY]\nWindow: 1991-2015\nYears: 1991-1992 (2)\nCountries: 2\nRegions: America\n")
	assert.Contains(t, md, "[BOUNDS]\n- employed: min 40, max 80\n- per_capita: min 100, max 2000\n")
	assert.Contains(t, md, "[NOTES]\n- 1 countries have no region assignment\n")
}
