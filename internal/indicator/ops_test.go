package indicator

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func mustTable(t *testing.T, name string, keys, labels []string, cells [][]float64) Table[string] {
	t.Helper()
	tb, err := NewTable(name, keys, labels, cells)
	require.NoError(t, err)
	return tb
}

var tableOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(Table[string]{}, Table[int]{}),
	cmpopts.EquateNaNs(),
}

func yearTable(t *testing.T, name string, keys []string) Table[string] {
	t.Helper()
	labels := []string{"1990", "1991", "1992"}
	cells := make([][]float64, len(keys))
	for i := range keys {
		cells[i] = []float64{float64(i) + 0.1, float64(i) + 0.2, float64(i) + 0.3}
	}
	return mustTable(t, name, keys, labels, cells)
}

func TestNewTableRejectsDuplicateKeys(t *testing.T) {
	_, err := NewTable("dup", []string{"A", "A"}, []string{"1990"}, [][]float64{{1}, {2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate row key")
}

func TestNewTableRejectsRaggedRows(t *testing.T) {
	_, err := NewTable("ragged", []string{"A"}, []string{"1990", "1991"}, [][]float64{{1}})
	require.Error(t, err)
}

func TestFilterYearWindowKeepsOnlyYearsInside(t *testing.T) {
	src := yearTable(t, "emp", []string{"A", "B"})
	for _, tc := range []struct {
		name string
		w    Window
		want []string
	}{
		{"single", Window{1991, 1991}, []string{"1991"}},
		{"all", Window{1900, 2100}, []string{"1990", "1991", "1992"}},
		{"upper", Window{1991, 2000}, []string{"1991", "1992"}},
		{"outside", Window{2001, 2010}, []string{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterYearWindow(src, tc.w)
			assert.Equal(t, len(tc.want), got.Columns())
			if len(tc.want) > 0 {
				assert.Equal(t, tc.want, got.Labels)
			}
			assert.Equal(t, src.Keys, got.Keys)
			for i, k := range src.Keys {
				row, _ := got.Row(k)
				require.Len(t, row, len(tc.want))
				for c, l := range tc.want {
					j := src.Column(l)
					assert.Equal(t, src.Cells[i][j], row[c])
				}
			}
		})
	}
}

func TestFilterYearWindowDoesNotMutateInput(t *testing.T) {
	src := yearTable(t, "emp", []string{"A", "B"})
	before := yearTable(t, "emp", []string{"A", "B"})
	got := FilterYearWindow(src, Window{1991, 1991})
	got.Cells[0][0] = 99
	got.Keys[0] = "Z"
	if diff := cmp.Diff(before, src, tableOpts...); diff != "" {
		t.Fatalf("input changed (-want +got):\n%s", diff)
	}
}

func TestFilterYearWindowDropsNonNumericLabels(t *testing.T) {
	src := mustTable(t, "emp", []string{"A"}, []string{"note", "1991"}, [][]float64{{1, 2}})
	got := FilterYearWindow(src, Window{1900, 2000})
	assert.Equal(t, []string{"1991"}, got.Labels)
}

func TestWindowValidate(t *testing.T) {
	require.NoError(t, Window{1991, 1991}.Validate())
	err := Window{2000, 1990}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidWindow))
}

func TestCommonKeysScenario(t *testing.T) {
	a := yearTable(t, "a", []string{"A", "B", "C"})
	b := yearTable(t, "b", []string{"B", "C", "D"})
	c := yearTable(t, "c", []string{"B", "C"})

	keys, err := CommonKeys(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, keys)

	for _, tb := range []Table[string]{a, b, c} {
		r, err := RestrictRows(tb, keys)
		require.NoError(t, err)
		assert.Equal(t, 2, r.Rows())
	}
}

func TestCommonKeysCommutativeAndIdempotent(t *testing.T) {
	a := yearTable(t, "a", []string{"C", "A", "B"})
	b := yearTable(t, "b", []string{"B", "D", "C"})
	c := yearTable(t, "c", []string{"C", "B", "E"})

	k1, err := CommonKeys(a, b, c)
	require.NoError(t, err)
	k2, err := CommonKeys(c, a, b)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	var restricted []Table[string]
	for _, tb := range []Table[string]{a, b, c} {
		r, err := RestrictRows(tb, k1)
		require.NoError(t, err)
		restricted = append(restricted, r)
	}
	k3, err := CommonKeys(restricted...)
	require.NoError(t, err)
	assert.Equal(t, k1, k3)
}

func TestCommonKeysEmpty(t *testing.T) {
	a := yearTable(t, "a", []string{"A"})
	b := yearTable(t, "b", []string{"B"})
	_, err := CommonKeys(a, b)
	var eie *EmptyIntersectionError
	require.ErrorAs(t, err, &eie)
	assert.Equal(t, "countries", eie.Axis)
	assert.Equal(t, []string{"a", "b"}, eie.Tables)

	_, err = CommonKeys[string]()
	require.ErrorAs(t, err, &eie)
}

func TestRestrictRowsOrderAndIdempotence(t *testing.T) {
	src := yearTable(t, "a", []string{"A", "B", "C"})
	keys := []string{"C", "A"}
	once, err := RestrictRows(src, keys)
	require.NoError(t, err)
	assert.Equal(t, keys, once.Keys)
	assert.Equal(t, src.Cells[2], once.Cells[0])
	assert.Equal(t, src.Cells[0], once.Cells[1])

	twice, err := RestrictRows(once, keys)
	require.NoError(t, err)
	if diff := cmp.Diff(once, twice, tableOpts...); diff != "" {
		t.Fatalf("restrict is not a fixed point (-once +twice):\n%s", diff)
	}
}

func TestRestrictRowsUnknownKey(t *testing.T) {
	src := yearTable(t, "a", []string{"A"})
	_, err := RestrictRows(src, []string{"Z"})
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestRelabelYearsRoundTrip(t *testing.T) {
	src := yearTable(t, "a", []string{"A", "B"})
	got, err := RelabelYears(src, src.Labels)
	require.NoError(t, err)
	assert.Equal(t, []int{1990, 1991, 1992}, got.Labels)
	back := make([]string, len(got.Labels))
	for i, y := range got.Labels {
		back[i] = strconv.Itoa(y)
	}
	assert.Equal(t, src.Labels, back)
	if diff := cmp.Diff(src.Cells, got.Cells, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("cells changed (-want +got):\n%s", diff)
	}
}

func TestFilterThenRelabelSingleYear(t *testing.T) {
	src := yearTable(t, "a", []string{"A"})
	f := FilterYearWindow(src, Window{1991, 1991})
	got, err := RelabelYears(f, f.Labels)
	require.NoError(t, err)
	assert.Equal(t, []int{1991}, got.Labels)
}

func TestRelabelYearsParseError(t *testing.T) {
	src := mustTable(t, "hiv", []string{"A"}, []string{"1990", "n/a"}, [][]float64{{1, 2}})
	_, err := RelabelYears(src, src.Labels)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "n/a", pe.Label)
	assert.Equal(t, "hiv", pe.Table)
}

func TestRelabelYearsRejectsFractionalLabel(t *testing.T) {
	src := mustTable(t, "hiv", []string{"A"}, []string{"1991.0"}, [][]float64{{1}})
	_, err := RelabelYears(src, src.Labels)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestRelabelYearsLabelMismatch(t *testing.T) {
	src := yearTable(t, "a", []string{"A"})
	_, err := RelabelYears(src, []string{"1990"})
	require.Error(t, err)
}

func TestScalePopulation(t *testing.T) {
	src := mustTable(t, "pop", []string{"A", "B", "C", "D", "E"}, []string{"1991"},
		[][]float64{{1256.6}, {1e10}, {-5}, {nan}, {0}})
	got, err := ScalePopulation(src, 200, 3)
	require.NoError(t, err)

	assert.Equal(t, 3.0, got.Cells[0][0], "0.9977 is below the floor")
	want := math.Sqrt(1e10/math.Pi) / 200
	assert.InDelta(t, want, got.Cells[1][0], 1e-9)
	assert.Equal(t, 3.0, got.Cells[2][0], "negative maps to floor")
	assert.Equal(t, 3.0, got.Cells[3][0], "NaN maps to floor")
	assert.Equal(t, 3.0, got.Cells[4][0])
}

func TestMarkerSizeProperty(t *testing.T) {
	for _, v := range []float64{0, 1, 3.5, 1256.6, 9e6, 1e12} {
		want := math.Max(math.Sqrt(v/math.Pi)/200, 3)
		assert.InDelta(t, want, MarkerSize(v, 200, 3), 1e-12, "v=%v", v)
	}
	assert.InDelta(t, 0.9977, math.Sqrt(1256.6/math.Pi)/200, 1e-4)
	assert.Equal(t, 3.0, MarkerSize(math.Inf(-1), 200, 3))
}

func TestScalePopulationInvalidScale(t *testing.T) {
	src := mustTable(t, "pop", []string{"A"}, []string{"1991"}, [][]float64{{1}})
	for _, s := range []float64{0, -1, nan} {
		_, err := ScalePopulation(src, s, 3)
		assert.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestBoundsAndMissing(t *testing.T) {
	src := mustTable(t, "emp", []string{"A", "B"}, []string{"1991", "1992"},
		[][]float64{{4, nan}, {-2, 10}})
	r, ok := Bounds(src)
	require.True(t, ok)
	assert.Equal(t, Range{Min: -2, Max: 10}, r)
	assert.Equal(t, 1, Missing(src))

	empty := mustTable(t, "e", []string{"A"}, []string{"1991"}, [][]float64{{nan}})
	_, ok = Bounds(empty)
	assert.False(t, ok)
}

func TestTableValueLookup(t *testing.T) {
	src := mustTable(t, "emp", []string{"A", "B"}, []string{"1991"}, [][]float64{{1}, {nan}})
	v, ok := src.Value("A", "1991")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	v, ok = src.Value("B", "1991")
	assert.True(t, ok)
	assert.True(t, math.IsNaN(v))
	_, ok = src.Value("Z", "1991")
	assert.False(t, ok)
	_, ok = src.Indexed().Value("A", "1800")
	assert.False(t, ok)
}

func TestRegionsGroupsAndUnassigned(t *testing.T) {
	r := Regions{"A": "Asia", "B": "Europe", "C": "Asia", "D": ""}
	assert.Equal(t, []string{"Asia", "Europe"}, r.Groups())
	assert.Equal(t, []string{"D", "E"}, r.Unassigned([]string{"A", "D", "E"}))
}

func TestRestrictYears(t *testing.T) {
	src, err := NewTable("hiv", []string{"A", "B"}, []int{1990, 1991, 1992}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	got, err := RestrictYears(src, []int{1992, 1991})
	require.NoError(t, err)
	assert.Equal(t, []int{1992, 1991}, got.Labels)
	assert.Equal(t, [][]float64{{3, 2}, {6, 5}}, got.Cells)
	assert.Equal(t, []float64{1, 2, 3}, src.Cells[0], "input untouched")

	_, err = RestrictYears(src, []int{1991, 1993})
	var mye *MissingYearError
	require.ErrorAs(t, err, &mye)
	assert.Equal(t, 1993, mye.Year)
	assert.Equal(t, "hiv", mye.Table)
}

func TestCheckContiguous(t *testing.T) {
	require.NoError(t, CheckContiguous(nil))
	require.NoError(t, CheckContiguous([]int{1991}))
	require.NoError(t, CheckContiguous([]int{1991, 1992, 1993}))
	assert.ErrorIs(t, CheckContiguous([]int{1991, 1993}), ErrYearGap)
	assert.ErrorIs(t, CheckContiguous([]int{1992, 1991}), ErrYearGap)
}
