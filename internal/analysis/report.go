package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/gapminder-cli/internal/align"
	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
)

// Report is a markdown-friendly summary of one indicator table.
type Report struct {
	Name      string
	Countries int
	Cols      []ColumnSummary
	// Year range over labels that read as integers.
	FirstYear, LastYear int
	YearCols            int
	// Labels that do not read as integer years.
	BadLabels []string
	Missing   int
	Cells     int
	Bounds    *indicator.Range
	Samples   []string
	Warnings  []string
}

// ColumnSummary captures per-year statistics.
type ColumnSummary struct {
	Label   string
	NonNull int
	Missing int
	Min     float64
	Max     float64
	Mean    float64
}

// Summarize builds a Report for a raw table. sampleRows caps the number of
// example country names.
func Summarize(t indicator.Table[string], sampleRows int) *Report {
	if sampleRows < 0 {
		sampleRows = 5
	}
	rep := &Report{Name: t.Name, Countries: t.Rows(), Cells: t.Rows() * t.Columns(), Missing: indicator.Missing(t)}
	first, last := math.MaxInt, math.MinInt
	for j, l := range t.Labels {
		if y, err := strconv.Atoi(strings.TrimSpace(l)); err == nil {
			rep.YearCols++
			if y < first {
				first = y
			}
			if y > last {
				last = y
			}
		} else {
			rep.BadLabels = append(rep.BadLabels, l)
		}
		cs := ColumnSummary{Label: l, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum float64
		for _, row := range t.Cells {
			v := row[j]
			if math.IsNaN(v) {
				cs.Missing++
				continue
			}
			cs.NonNull++
			sum += v
			if v < cs.Min {
				cs.Min = v
			}
			if v > cs.Max {
				cs.Max = v
			}
		}
		if cs.NonNull > 0 {
			cs.Mean = sum / float64(cs.NonNull)
		} else {
			cs.Min, cs.Max = 0, 0
		}
		rep.Cols = append(rep.Cols, cs)
	}
	if rep.YearCols > 0 {
		rep.FirstYear, rep.LastYear = first, last
	}
	if r, ok := indicator.Bounds(t); ok {
		rep.Bounds = &r
	}
	for i := 0; i < len(t.Keys) && i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, t.Keys[i])
	}
	if len(rep.BadLabels) > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d column labels are not integer years and would fail alignment", len(rep.BadLabels)))
	}
	if rep.Countries == 0 {
		rep.Warnings = append(rep.Warnings, "no country rows")
	}
	return rep
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Countries: %d\n", r.Countries))
	if r.YearCols > 0 {
		b.WriteString(fmt.Sprintf("Years: %d-%d (%d columns)\n", r.FirstYear, r.LastYear, r.YearCols))
	} else {
		b.WriteString("Years: none\n")
	}
	if r.Cells > 0 {
		b.WriteString(fmt.Sprintf("Missing: %d of %d cells (%.1f%%)\n", r.Missing, r.Cells, float64(r.Missing)*100.0/float64(r.Cells)))
	}
	if r.Bounds != nil {
		b.WriteString(fmt.Sprintf("Range: min %.4g, max %.4g\n", r.Bounds.Min, r.Bounds.Max))
	}
	if len(r.Cols) > 0 {
		b.WriteString("\n[YEARS]\n")
		for _, c := range r.Cols {
			b.WriteString(fmt.Sprintf("- %s: non-null %d, missing %d", safeName(c.Label), c.NonNull, c.Missing))
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
			}
			b.WriteString("\n")
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE COUNTRIES]\n")
		for _, s := range r.Samples {
			b.WriteString("- ")
			b.WriteString(safeVal(s))
			b.WriteString("\n")
		}
	}
	writeNotes(&b, r.Warnings)
	return b.String()
}

// AlignmentMarkdown renders the outcome of an alignment run.
func AlignmentMarkdown(res *align.Result) string {
	var b strings.Builder
	b.WriteString("[ALIGNMENT SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Window: %d-%d\n", res.Window.From, res.Window.To))
	if len(res.Years) > 0 {
		b.WriteString(fmt.Sprintf("Years: %d-%d (%d)\n", res.Years[0], res.Years[len(res.Years)-1], len(res.Years)))
	}
	b.WriteString(fmt.Sprintf("Countries: %d\n", len(res.Countries)))
	if len(res.Regions) > 0 {
		b.WriteString(fmt.Sprintf("Regions: %s\n", strings.Join(res.Regions, ", ")))
	}
	if len(res.Bounds) > 0 {
		b.WriteString("\n[BOUNDS]\n")
		names := make([]string, 0, len(res.Bounds))
		for k := range res.Bounds {
			names = append(names, string(k))
		}
		sort.Strings(names)
		for _, n := range names {
			r := res.Bounds[align.Indicator(n)]
			b.WriteString(fmt.Sprintf("- %s: min %.4g, max %.4g\n", n, r.Min, r.Max))
		}
	}
	writeNotes(&b, res.Warnings)
	return b.String()
}

func writeNotes(b *strings.Builder, notes []string) {
	if len(notes) == 0 {
		return
	}
	b.WriteString("\n[NOTES]\n")
	for _, w := range notes {
		b.WriteString("- ")
		b.WriteString(w)
		b.WriteString("\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
