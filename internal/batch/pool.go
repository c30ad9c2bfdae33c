package batch

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/kisai-labs/bms-preview/internal/bms"
	"github.com/kisai-labs/bms-preview/internal/cache"
	"github.com/kisai-labs/bms-preview/internal/render"
)

// Run discovers chart files under root and renders each one's preview
// concurrently, bounded to jobs in flight at once. Per-chart failures are
// logged and do not abort the batch or return a non-nil error; only a bad
// songs folder does.
func Run(ctx context.Context, root string, cfg render.Config, store *cache.DB, logger *slog.Logger, jobs int) error {
	charts, err := Discover(root)
	if err != nil {
		return err
	}
	logger.Info("discovered charts", "count", len(charts), "root", root)

	g := new(errgroup.Group)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for _, chartPath := range charts {
		g.Go(func() error {
			renderOne(chartPath, cfg, store, logger)
			return nil
		})
	}

	return g.Wait()
}

func renderOne(chartPath string, cfg render.Config, store *cache.DB, logger *slog.Logger) {
	baseDir := filepath.Dir(chartPath)

	chart, err := bms.Load(chartPath)
	if err != nil {
		logger.Error("chart failed to load", "path", chartPath, "error", err)
		return
	}

	if err := render.Render(chart, baseDir, cfg, store, logger); err != nil {
		logger.Error("render failed", "path", chartPath, "error", err)
		return
	}
	logger.Info("rendered preview", "path", chartPath)
}
