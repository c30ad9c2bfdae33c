// Package batch discovers chart files under a songs folder and dispatches
// one render job per chart to a bounded worker pool.
package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kisai-labs/bms-preview/internal/bms"
	"github.com/kisai-labs/bms-preview/internal/errs"
)

// Discover walks root and returns one chart file path per subdirectory that
// contains at least one: the first encountered in lexicographic WalkDir
// order, tracked via a set of already-selected parent directories so a
// folder with several chart variants contributes exactly one job.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidSongsFolder, root)
	}

	explored := make(map[string]bool)
	var selected []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries, keep scanning
		}
		if d.IsDir() {
			return nil
		}
		if !bms.IsChartFile(path) {
			return nil
		}
		parent := filepath.Dir(path)
		if explored[parent] {
			return nil
		}
		explored[parent] = true
		selected = append(selected, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selected, nil
}
