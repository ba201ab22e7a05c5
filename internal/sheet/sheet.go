package sheet

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
)

// Options controls how spreadsheet files are read.
type Options struct {
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
	// Delimiter for CSV. If 0, chosen by extension (.tsv => tab, else comma).
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultOptions reads the first sheet and auto-detects separators.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Reader turns a spreadsheet file into rows of cell text, header row first.
type Reader interface {
	CanRead(filename string) bool
	ReadRows(path string, opt Options) ([][]string, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrUnsupported indicates a file format no registered reader handles.
var ErrUnsupported = errors.New("unsupported spreadsheet format")

// ErrNoHeader indicates a file with no header row.
var ErrNoHeader = errors.New("spreadsheet has no header row")

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// ReadRows selects a reader by filename and returns the raw rows.
func ReadRows(path string, opt Options) ([][]string, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.ReadRows(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

// ReadTable reads an indicator spreadsheet: the first column holds the
// country name, the remaining header cells are year labels, and the other
// cells are numbers. Blank or unparseable cells become NaN. Columns with an
// empty header and rows with an empty key are skipped.
func ReadTable(name, path string, opt Options) (indicator.Table[string], error) {
	rows, err := ReadRows(path, opt)
	if err != nil {
		return indicator.Table[string]{}, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return indicator.Table[string]{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoHeader)
	}
	header := rows[0]
	var cols []int
	var labels []string
	for j := 1; j < len(header); j++ {
		l := strings.TrimSpace(header[j])
		if l == "" {
			continue
		}
		cols = append(cols, j)
		labels = append(labels, l)
	}
	var keys []string
	var cells [][]float64
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		vals := make([]float64, len(cols))
		for k, j := range cols {
			vals[k] = math.NaN()
			if j >= len(row) {
				continue
			}
			if x, ok := parseNumeric(row[j], opt); ok {
				vals[k] = x
			}
		}
		keys = append(keys, key)
		cells = append(cells, vals)
	}
	t, err := indicator.NewTable(name, keys, labels, cells)
	if err != nil {
		return indicator.Table[string]{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// ReadRegions reads a country → region table. column names the header of
// the region column (case-insensitive); empty means the second column.
func ReadRegions(path, column string, opt Options) (indicator.Regions, error) {
	rows, err := ReadRows(path, opt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoHeader)
	}
	idx := 1
	if column != "" {
		idx = -1
		for j, h := range rows[0] {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(column)) {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("region column '%s' not found in '%s'.\nAvailable columns: %s",
				column, filepath.Base(path), strings.Join(rows[0], ", "))
		}
	}
	out := make(indicator.Regions, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" || idx >= len(row) {
			continue
		}
		out[key] = strings.TrimSpace(row[idx])
	}
	return out, nil
}
