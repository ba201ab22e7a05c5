package indicator

import (
	"fmt"
	"math"
)

// Label is the column label type of a Table: raw header text before
// relabeling, integer years after.
type Label interface {
	~string | ~int
}

// Table is a country × year matrix for one indicator. Missing cells are NaN.
type Table[L Label] struct {
	Name   string
	Keys   []string    // row keys (countries), unique
	Labels []L         // column labels, in source order
	Cells  [][]float64 // row-major, Cells[i][j] is Keys[i] × Labels[j]

	index map[string]int
}

// NewTable builds a table and validates its shape. Duplicate row keys are rejected.
func NewTable[L Label](name string, keys []string, labels []L, cells [][]float64) (Table[L], error) {
	if len(cells) != len(keys) {
		return Table[L]{}, fmt.Errorf("table %s: %d rows for %d keys", name, len(cells), len(keys))
	}
	seen := make(map[string]struct{}, len(keys))
	for i, k := range keys {
		if _, ok := seen[k]; ok {
			return Table[L]{}, fmt.Errorf("table %s: duplicate row key %q", name, k)
		}
		seen[k] = struct{}{}
		if len(cells[i]) != len(labels) {
			return Table[L]{}, fmt.Errorf("table %s: row %q has %d cells for %d columns", name, k, len(cells[i]), len(labels))
		}
	}
	return Table[L]{Name: name, Keys: keys, Labels: labels, Cells: cells}, nil
}

// Rows returns the number of row keys.
func (t Table[L]) Rows() int { return len(t.Keys) }

// Columns returns the number of column labels.
func (t Table[L]) Columns() int { return len(t.Labels) }

// Row returns the cells for key.
func (t Table[L]) Row(key string) ([]float64, bool) {
	i, ok := t.rowIndex(key)
	if !ok {
		return nil, false
	}
	return t.Cells[i], true
}

// Column returns the position of label, or -1.
func (t Table[L]) Column(label L) int {
	for j, l := range t.Labels {
		if l == label {
			return j
		}
	}
	return -1
}

// Value returns the cell at key × label. ok is false when either is absent;
// a present but missing cell is returned as NaN with ok true.
func (t Table[L]) Value(key string, label L) (float64, bool) {
	row, ok := t.Row(key)
	if !ok {
		return math.NaN(), false
	}
	j := t.Column(label)
	if j < 0 {
		return math.NaN(), false
	}
	return row[j], true
}

// HasKey reports whether key is a row of the table.
func (t Table[L]) HasKey(key string) bool {
	_, ok := t.rowIndex(key)
	return ok
}

func (t Table[L]) rowIndex(key string) (int, bool) {
	if t.index != nil {
		i, ok := t.index[key]
		return i, ok
	}
	for i, k := range t.Keys {
		if k == key {
			return i, true
		}
	}
	return 0, false
}

// indexed returns a copy of t carrying a key → row lookup map.
func (t Table[L]) indexed() Table[L] {
	idx := make(map[string]int, len(t.Keys))
	for i, k := range t.Keys {
		idx[k] = i
	}
	t.index = idx
	return t
}

// Indexed precomputes the key lookup used by Row, Value, and HasKey.
// Tables handed to BuildYearIndex are indexed automatically.
func (t Table[L]) Indexed() Table[L] { return t.indexed() }

// Range is the closed [Min, Max] of the non-missing values of a table.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds returns the min and max over all non-NaN cells. ok is false when
// every cell is missing.
func Bounds[L Label](t Table[L]) (Range, bool) {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	var n int
	for _, row := range t.Cells {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			n++
			if v < r.Min {
				r.Min = v
			}
			if v > r.Max {
				r.Max = v
			}
		}
	}
	if n == 0 {
		return Range{}, false
	}
	return r, true
}

// Missing counts NaN cells.
func Missing[L Label](t Table[L]) int {
	var n int
	for _, row := range t.Cells {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}
