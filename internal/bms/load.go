package bms

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kisai-labs/bms-preview/internal/errs"
)

// ValidExtensions lists the chart file extensions this package understands,
// in the order a directory scan should prefer them.
var ValidExtensions = []string{".bms", ".bme", ".bml", ".pms", ".bmson"}

// Load reads and parses the chart at path, dispatching on its extension.
func Load(path string) (*Chart, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrChartDecode, path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".bmson" {
		chart, err := ParseBMSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errs.ErrChartParse, path, err)
		}
		return chart, nil
	}

	text, err := DecodeChartBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrChartDecode, path, err)
	}
	chart, err := ParseText(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrChartParse, path, err)
	}
	return chart, nil
}

// IsChartFile reports whether path's extension is one of ValidExtensions.
func IsChartFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range ValidExtensions {
		if ext == v {
			return true
		}
	}
	return false
}
