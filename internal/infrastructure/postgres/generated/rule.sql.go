package generated

import (
	"context"
)

const createRule = `-- name: CreateRule :exec
INSERT INTO accounting_rules (id, event_code, determination_account_id, description)
VALUES ($1, $2, $3, $4)
`

type CreateRuleParams struct {
	ID                     string `json:"id"`
	EventCode              string `json:"event_code"`
	DeterminationAccountID string `json:"determination_account_id"`
	Description            string `json:"description"`
}

func (q *Queries) CreateRule(ctx context.Context, arg CreateRuleParams) error {
	_, err := q.db.Exec(ctx, createRule,
		arg.ID,
		arg.EventCode,
		arg.DeterminationAccountID,
		arg.Description,
	)
	return err
}

const getRuleByEventCode = `-- name: GetRuleByEventCode :one
SELECT id, event_code, determination_account_id, description FROM accounting_rules WHERE event_code = $1
`

func (q *Queries) GetRuleByEventCode(ctx context.Context, eventCode string) (AccountingRule, error) {
	row := q.db.QueryRow(ctx, getRuleByEventCode, eventCode)
	var i AccountingRule
	err := row.Scan(
		&i.ID,
		&i.EventCode,
		&i.DeterminationAccountID,
		&i.Description,
	)
	return i, err
}

const listRules = `-- name: ListRules :many
SELECT id, event_code, determination_account_id, description FROM accounting_rules ORDER BY event_code
`

func (q *Queries) ListRules(ctx context.Context) ([]AccountingRule, error) {
	rows, err := q.db.Query(ctx, listRules)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []AccountingRule{}
	for rows.Next() {
		var i AccountingRule
		if err := rows.Scan(
			&i.ID,
			&i.EventCode,
			&i.DeterminationAccountID,
			&i.Description,
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
