package export

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/gapminder-cli/internal/align"
	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
	"github.com/KaramelBytes/gapminder-cli/internal/utils"
)

// Manifest describes the run that produced an export.
type Manifest struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Window      indicator.Window  `json:"window"`
	ScaleFactor float64           `json:"scale_factor"`
	MinSize     float64           `json:"min_size"`
	Sources     map[string]string `json:"sources,omitempty"`
}

// NewManifest stamps a fresh run id.
func NewManifest(opt align.Options, sources map[string]string) Manifest {
	return Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Window:      opt.Window,
		ScaleFactor: opt.ScaleFactor,
		MinSize:     opt.MinSize,
		Sources:     sources,
	}
}

// Row is one country's record in the JSON document. Missing values are null.
type Row struct {
	Country        string   `json:"country"`
	Employed       *float64 `json:"employed"`
	HIV            *float64 `json:"hiv"`
	LifeExpectancy *float64 `json:"life_expectancy"`
	PerCapita      *float64 `json:"per_capita"`
	Population     *float64 `json:"population"`
	Region         string   `json:"region"`
}

// Document is the JSON shape of an aligned result.
type Document struct {
	Manifest  Manifest                   `json:"manifest"`
	Years     []int                      `json:"years"`
	Countries []string                   `json:"countries"`
	Regions   []string                   `json:"regions"`
	Bounds    map[string]indicator.Range `json:"bounds"`
	Data      map[int][]Row              `json:"data"`
	Warnings  []string                   `json:"warnings,omitempty"`
}

// NewDocument converts a result into its JSON document. Rows are ordered by
// country.
func NewDocument(res *align.Result, m Manifest) Document {
	doc := Document{
		Manifest:  m,
		Years:     res.Years,
		Countries: res.Countries,
		Regions:   res.Regions,
		Bounds:    make(map[string]indicator.Range, len(res.Bounds)),
		Data:      make(map[int][]Row, len(res.Index)),
		Warnings:  res.Warnings,
	}
	for k, v := range res.Bounds {
		doc.Bounds[string(k)] = v
	}
	for y, recs := range res.Index {
		rows := make([]Row, 0, len(recs))
		for c, r := range recs {
			rows = append(rows, Row{
				Country:        c,
				Employed:       num(r.Employed),
				HIV:            num(r.HIV),
				LifeExpectancy: num(r.LifeExpectancy),
				PerCapita:      num(r.PerCapita),
				Population:     num(r.Population),
				Region:         r.Region,
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Country < rows[j].Country })
		doc.Data[y] = rows
	}
	return doc
}

// WriteJSON writes the result as an indented JSON document.
func WriteJSON(path string, res *align.Result, m Manifest) error {
	b, err := utils.PrettyJSON(NewDocument(res, m))
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
