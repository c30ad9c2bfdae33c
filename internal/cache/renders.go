package cache

import (
	"database/sql"
	"errors"
	"time"
)

// Record is one chart directory's last successful render.
type Record struct {
	ChartPath         string
	ChartContentHash  string
	PreviewPath       string
	ConfigFingerprint string
	RenderedAt        time.Time
}

// Lookup returns the last render record for a chart path, if any.
func (d *DB) Lookup(chartPath string) (*Record, bool, error) {
	row := d.db.QueryRow(`
		SELECT chart_path, chart_content_hash, preview_path, config_fingerprint, rendered_at
		FROM chart_renders WHERE chart_path = ?
	`, chartPath)

	r := &Record{}
	err := row.Scan(&r.ChartPath, &r.ChartContentHash, &r.PreviewPath, &r.ConfigFingerprint, &r.RenderedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// Upsert records a successful render, replacing any prior record for the
// same chart path.
func (d *DB) Upsert(r *Record) error {
	_, err := d.db.Exec(`
		INSERT INTO chart_renders (chart_path, chart_content_hash, preview_path, config_fingerprint, rendered_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(chart_path) DO UPDATE SET
			chart_content_hash = excluded.chart_content_hash,
			preview_path = excluded.preview_path,
			config_fingerprint = excluded.config_fingerprint,
			rendered_at = CURRENT_TIMESTAMP
	`, r.ChartPath, r.ChartContentHash, r.PreviewPath, r.ConfigFingerprint)
	return err
}
