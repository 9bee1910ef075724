package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createReportSnapshot = `-- name: CreateReportSnapshot :exec
INSERT INTO report_snapshots (id, kind, entity_id, entity_type, period_from, period_to, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateReportSnapshotParams struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	EntityID   string             `json:"entity_id"`
	EntityType string             `json:"entity_type"`
	PeriodFrom pgtype.Timestamptz `json:"period_from"`
	PeriodTo   pgtype.Timestamptz `json:"period_to"`
	Payload    []byte             `json:"payload"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateReportSnapshot(ctx context.Context, arg CreateReportSnapshotParams) error {
	_, err := q.db.Exec(ctx, createReportSnapshot,
		arg.ID,
		arg.Kind,
		arg.EntityID,
		arg.EntityType,
		arg.PeriodFrom,
		arg.PeriodTo,
		arg.Payload,
		arg.CreatedAt,
	)
	return err
}

const listReportSnapshots = `-- name: ListReportSnapshots :many
SELECT id, kind, entity_id, entity_type, period_from, period_to, payload, created_at FROM report_snapshots
WHERE kind = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

type ListReportSnapshotsParams struct {
	Kind  string `json:"kind"`
	Limit int32  `json:"limit"`
}

func (q *Queries) ListReportSnapshots(ctx context.Context, arg ListReportSnapshotsParams) ([]ReportSnapshot, error) {
	rows, err := q.db.Query(ctx, listReportSnapshots, arg.Kind, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ReportSnapshot{}
	for rows.Next() {
		var i ReportSnapshot
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.EntityID,
			&i.EntityType,
			&i.PeriodFrom,
			&i.PeriodTo,
			&i.Payload,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
