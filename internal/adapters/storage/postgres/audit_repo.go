package postgres

import (
	"context"
	"database/sql"

	"sintrom-ocr/internal/domain/audit"
)

const auditSchema = `
	CREATE TABLE IF NOT EXISTS extraction_audit (
		id            TEXT PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL,
		source        TEXT NOT NULL,
		content_type  TEXT NOT NULL DEFAULT '',
		size_bytes    BIGINT NOT NULL DEFAULT 0,
		outcome       TEXT NOT NULL,
		code          TEXT NOT NULL DEFAULT '',
		confidence    DOUBLE PRECISION NULL,
		model         TEXT NOT NULL DEFAULT '',
		analysis_id   TEXT NOT NULL DEFAULT '',
		calendar_days INTEGER NOT NULL DEFAULT 0,
		history_rows  INTEGER NOT NULL DEFAULT 0,
		duration_ms   BIGINT NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS extraction_audit_created_at_idx ON extraction_audit (created_at DESC);
`

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// EnsureSchema crea la tabla si no existe (idempotente).
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, auditSchema)
	return err
}

func (r *AuditRepo) Create(ctx context.Context, e audit.Entry) error {
	var conf sql.NullFloat64
	if e.Confidence != nil {
		conf = sql.NullFloat64{Float64: *e.Confidence, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO extraction_audit (
			id, created_at,
			source, content_type, size_bytes,
			outcome, code,
			confidence, model, analysis_id,
			calendar_days, history_rows,
			duration_ms
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		e.ID,
		e.CreatedAt,
		string(e.Source),
		e.ContentType,
		e.SizeBytes,
		string(e.Outcome),
		e.Code,
		conf,
		e.Model,
		e.AnalysisID,
		e.CalendarLen,
		e.HistoryLen,
		e.DurationMS,
	)
	return err
}

func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = audit.DefaultLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, created_at,
			source, content_type, size_bytes,
			outcome, code,
			confidence, model, analysis_id,
			calendar_days, history_rows,
			duration_ms
		FROM extraction_audit
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		var source, outcome string
		var conf sql.NullFloat64
		if err := rows.Scan(
			&e.ID,
			&e.CreatedAt,
			&source,
			&e.ContentType,
			&e.SizeBytes,
			&outcome,
			&e.Code,
			&conf,
			&e.Model,
			&e.AnalysisID,
			&e.CalendarLen,
			&e.HistoryLen,
			&e.DurationMS,
		); err != nil {
			return nil, err
		}
		e.Source = audit.Source(source)
		e.Outcome = audit.Outcome(outcome)
		if conf.Valid {
			v := conf.Float64
			e.Confidence = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
