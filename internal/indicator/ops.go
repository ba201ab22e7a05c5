package indicator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Window is a closed year interval [From, To].
type Window struct {
	From int `mapstructure:"from" yaml:"from" json:"from"`
	To   int `mapstructure:"to" yaml:"to" json:"to"`
}

// Validate rejects windows with From > To.
func (w Window) Validate() error {
	if w.From > w.To {
		return fmt.Errorf("%w: %d > %d", ErrInvalidWindow, w.From, w.To)
	}
	return nil
}

// Contains reports whether y lies in the window.
func (w Window) Contains(y float64) bool {
	return float64(w.From) <= y && y <= float64(w.To)
}

// FilterYearWindow keeps the columns whose label, read as a number, lies in
// w. Labels that are not numbers never match. Rows and column order are
// preserved; a window outside the data yields a table with no columns.
func FilterYearWindow(t Table[string], w Window) Table[string] {
	var keep []int
	for j, l := range t.Labels {
		y, err := strconv.ParseFloat(strings.TrimSpace(l), 64)
		if err != nil {
			continue
		}
		if w.Contains(y) {
			keep = append(keep, j)
		}
	}
	labels := make([]string, len(keep))
	for i, j := range keep {
		labels[i] = t.Labels[j]
	}
	cells := make([][]float64, len(t.Cells))
	for i, row := range t.Cells {
		out := make([]float64, len(keep))
		for k, j := range keep {
			out[k] = row[j]
		}
		cells[i] = out
	}
	keys := append([]string(nil), t.Keys...)
	return Table[string]{Name: t.Name, Keys: keys, Labels: labels, Cells: cells}
}

// CommonKeys returns the intersection of the row keys of every table,
// sorted ascending so the result does not depend on table order.
func CommonKeys[L Label](tables ...Table[L]) ([]string, error) {
	if len(tables) == 0 {
		return nil, &EmptyIntersectionError{Axis: "countries"}
	}
	counts := make(map[string]int, len(tables[0].Keys))
	for _, t := range tables {
		seen := make(map[string]struct{}, len(t.Keys))
		for _, k := range t.Keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			counts[k]++
		}
	}
	var keys []string
	for k, n := range counts {
		if n == len(tables) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		names := make([]string, len(tables))
		for i, t := range tables {
			names[i] = t.Name
		}
		return nil, &EmptyIntersectionError{Axis: "countries", Tables: names}
	}
	sort.Strings(keys)
	return keys, nil
}

// RestrictRows returns a table holding exactly the rows for keys, in keys
// order. All columns are kept.
func RestrictRows[L Label](t Table[L], keys []string) (Table[L], error) {
	src := t.indexed()
	cells := make([][]float64, len(keys))
	for i, k := range keys {
		row, ok := src.Row(k)
		if !ok {
			return Table[L]{}, fmt.Errorf("table %s: %w %q", t.Name, ErrUnknownKey, k)
		}
		cells[i] = append([]float64(nil), row...)
	}
	return Table[L]{
		Name:   t.Name,
		Keys:   append([]string(nil), keys...),
		Labels: append([]L(nil), t.Labels...),
		Cells:  cells,
	}, nil
}

// RelabelYears replaces each of labels with its integer year, 1:1 and in
// order. labels must be the table's column labels; a label that is not an
// integer is a *ParseError.
func RelabelYears(t Table[string], labels []string) (Table[int], error) {
	if len(labels) != len(t.Labels) {
		return Table[int]{}, fmt.Errorf("table %s: %d labels for %d columns", t.Name, len(labels), len(t.Labels))
	}
	years := make([]int, len(labels))
	for j, l := range labels {
		if l != t.Labels[j] {
			return Table[int]{}, fmt.Errorf("table %s: label %q does not match column %q", t.Name, l, t.Labels[j])
		}
		y, err := strconv.Atoi(strings.TrimSpace(l))
		if err != nil {
			return Table[int]{}, &ParseError{Table: t.Name, Label: l, Err: err}
		}
		years[j] = y
	}
	cells := make([][]float64, len(t.Cells))
	for i, row := range t.Cells {
		cells[i] = append([]float64(nil), row...)
	}
	return Table[int]{
		Name:   t.Name,
		Keys:   append([]string(nil), t.Keys...),
		Labels: years,
		Cells:  cells,
	}, nil
}

// ScalePopulation converts raw counts to marker sizes whose area follows the
// count: sqrt(v/π)/scale, floored at minSize. Negative, NaN, and missing
// values map to minSize.
func ScalePopulation[L Label](t Table[L], scale, minSize float64) (Table[L], error) {
	if !(scale > 0) {
		return Table[L]{}, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	cells := make([][]float64, len(t.Cells))
	for i, row := range t.Cells {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = MarkerSize(v, scale, minSize)
		}
		cells[i] = out
	}
	return Table[L]{
		Name:   t.Name,
		Keys:   append([]string(nil), t.Keys...),
		Labels: append([]L(nil), t.Labels...),
		Cells:  cells,
	}, nil
}

// MarkerSize is the per-cell transform behind ScalePopulation.
func MarkerSize(v, scale, minSize float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return minSize
	}
	s := math.Sqrt(v/math.Pi) / scale
	if math.IsNaN(s) || s < minSize {
		return minSize
	}
	return s
}

// RestrictYears returns a table holding exactly the columns for years, in
// years order. A year the table lacks is a *MissingYearError.
func RestrictYears(t Table[int], years []int) (Table[int], error) {
	cells := make([][]float64, len(t.Cells))
	for i := range cells {
		cells[i] = make([]float64, len(years))
	}
	for k, y := range years {
		j := t.Column(y)
		if j < 0 {
			return Table[int]{}, &MissingYearError{Table: t.Name, Year: y}
		}
		for i, row := range t.Cells {
			cells[i][k] = row[j]
		}
	}
	return Table[int]{
		Name:   t.Name,
		Keys:   append([]string(nil), t.Keys...),
		Labels: append([]int(nil), years...),
		Cells:  cells,
	}, nil
}

// CheckContiguous requires years to be strictly ascending with no gaps.
func CheckContiguous(years []int) error {
	for i := 1; i < len(years); i++ {
		if years[i] != years[i-1]+1 {
			return fmt.Errorf("%w: %d is followed by %d", ErrYearGap, years[i-1], years[i])
		}
	}
	return nil
}
