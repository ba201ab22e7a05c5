package sheet

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/gapminder-cli/internal/indicator"
)

// Source names an indicator spreadsheet on disk.
type Source struct {
	Name string
	Path string
}

// LoadTables reads every source in parallel and returns the tables in
// sources order. The first failure cancels the rest.
func LoadTables(ctx context.Context, sources []Source, opt Options, log *zap.Logger) ([]indicator.Table[string], error) {
	if log == nil {
		log = zap.NewNop()
	}
	out := make([]indicator.Table[string], len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if src.Path == "" {
				return fmt.Errorf("no path configured for %s", src.Name)
			}
			t, err := ReadTable(src.Name, src.Path, opt)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Name, err)
			}
			log.Debug("loaded table",
				zap.String("table", src.Name),
				zap.String("path", src.Path),
				zap.Int("rows", t.Rows()),
				zap.Int("columns", t.Columns()))
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
