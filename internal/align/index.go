package align

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
)

// Indicator names one of the aligned tables.
type Indicator string

const (
	Employed       Indicator = "employed"
	HIV            Indicator = "hiv"
	LifeExpectancy Indicator = "life_expectancy"
	Population     Indicator = "population"
	PerCapita      Indicator = "per_capita"
)

// Indicators lists every table the year index joins. Employed comes first
// and is the reference table for row keys and years.
var Indicators = []Indicator{Employed, HIV, LifeExpectancy, Population, PerCapita}

// Record is one country's joined values for one year. Population holds the
// scaled marker size, not the raw count. Missing values are NaN.
type Record struct {
	Employed       float64 `json:"employed"`
	HIV            float64 `json:"hiv"`
	LifeExpectancy float64 `json:"life_expectancy"`
	PerCapita      float64 `json:"per_capita"`
	Population     float64 `json:"population"`
	Region         string  `json:"region"`
}

// Value returns the field for name, or NaN for an unknown name.
func (r Record) Value(name Indicator) float64 {
	switch name {
	case Employed:
		return r.Employed
	case HIV:
		return r.HIV
	case LifeExpectancy:
		return r.LifeExpectancy
	case PerCapita:
		return r.PerCapita
	case Population:
		return r.Population
	}
	return math.NaN()
}

// YearIndex maps a year to the per-country records for that year.
type YearIndex map[int]map[string]Record

// BuildYearIndex joins the aligned tables and regions into one record set
// per year. Every table must carry every year in years.
func BuildYearIndex(tables map[Indicator]indicator.Table[int], regions indicator.Regions, years []int) (YearIndex, error) {
	indexed := make(map[Indicator]indicator.Table[int], len(Indicators))
	for _, name := range Indicators {
		t, ok := tables[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", indicator.ErrMissingIndicator, name)
		}
		indexed[name] = t.Indexed()
	}
	ref := indexed[Employed]
	for _, name := range Indicators[1:] {
		t := indexed[name]
		if t.Rows() != ref.Rows() {
			return nil, fmt.Errorf("%w: %s has %d rows, %s has %d", indicator.ErrNotAligned, name, t.Rows(), Employed, ref.Rows())
		}
		for _, k := range ref.Keys {
			if !t.HasKey(k) {
				return nil, fmt.Errorf("%w: %s has no row %q", indicator.ErrNotAligned, name, k)
			}
		}
	}

	// resolve every column up front so a gap fails before any record is built
	cols := make(map[Indicator]map[int]int, len(Indicators))
	for _, name := range Indicators {
		t := indexed[name]
		m := make(map[int]int, len(years))
		for _, y := range years {
			j := t.Column(y)
			if j < 0 {
				return nil, &indicator.MissingYearError{Table: tableName(t, name), Year: y}
			}
			m[y] = j
		}
		cols[name] = m
	}

	out := make(YearIndex, len(years))
	for _, y := range years {
		recs := make(map[string]Record, ref.Rows())
		for _, k := range ref.Keys {
			recs[k] = Record{
				Employed:       cell(indexed[Employed], k, cols[Employed][y]),
				HIV:            cell(indexed[HIV], k, cols[HIV][y]),
				LifeExpectancy: cell(indexed[LifeExpectancy], k, cols[LifeExpectancy][y]),
				PerCapita:      cell(indexed[PerCapita], k, cols[PerCapita][y]),
				Population:     cell(indexed[Population], k, cols[Population][y]),
				Region:         regions[k],
			}
		}
		out[y] = recs
	}
	return out, nil
}

func cell(t indicator.Table[int], key string, j int) float64 {
	row, _ := t.Row(key)
	return row[j]
}

func tableName(t indicator.Table[int], fallback Indicator) string {
	if t.Name != "" {
		return t.Name
	}
	return string(fallback)
}
