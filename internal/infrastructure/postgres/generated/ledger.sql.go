package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const checkLedgerConsistency = `-- name: CheckLedgerConsistency :one
SELECT COALESCE(SUM(dr_amount), 0)::numeric AS total_debit,
       COALESCE(SUM(cr_amount), 0)::numeric AS total_credit
FROM entries
WHERE NOT is_deleted
`

type CheckLedgerConsistencyRow struct {
	TotalDebit  pgtype.Numeric `json:"total_debit"`
	TotalCredit pgtype.Numeric `json:"total_credit"`
}

func (q *Queries) CheckLedgerConsistency(ctx context.Context) (CheckLedgerConsistencyRow, error) {
	row := q.db.QueryRow(ctx, checkLedgerConsistency)
	var i CheckLedgerConsistencyRow
	err := row.Scan(&i.TotalDebit, &i.TotalCredit)
	return i, err
}

const unbalancedReferences = `-- name: UnbalancedReferences :many
SELECT reference_id FROM entries
WHERE NOT is_deleted
GROUP BY reference_id
HAVING SUM(dr_amount) <> SUM(cr_amount)
ORDER BY reference_id
LIMIT $1
`

func (q *Queries) UnbalancedReferences(ctx context.Context, limit int32) ([]string, error) {
	rows, err := q.db.Query(ctx, unbalancedReferences, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var referenceID string
		if err := rows.Scan(&referenceID); err != nil {
			return nil, err
		}
		items = append(items, referenceID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
