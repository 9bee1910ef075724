package generated

import (
	"context"
)

const listBranchesByZone = `-- name: ListBranchesByZone :many
SELECT id, code, name, zone_id, created_at FROM branches WHERE zone_id = $1 ORDER BY code
`

func (q *Queries) ListBranchesByZone(ctx context.Context, zoneID string) ([]Branch, error) {
	rows, err := q.db.Query(ctx, listBranchesByZone, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Branch{}
	for rows.Next() {
		var i Branch
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Name,
			&i.ZoneID,
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

const upsertBranch = `-- name: UpsertBranch :exec
INSERT INTO branches (id, code, name, zone_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name, zone_id = EXCLUDED.zone_id
`

type UpsertBranchParams struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	ZoneID string `json:"zone_id"`
}

func (q *Queries) UpsertBranch(ctx context.Context, arg UpsertBranchParams) error {
	_, err := q.db.Exec(ctx, upsertBranch, arg.ID, arg.Code, arg.Name, arg.ZoneID)
	return err
}
