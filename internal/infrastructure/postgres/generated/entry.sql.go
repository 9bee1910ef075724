package generated

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const entryColumns = `id, reference_id, account_id, account_number, debit_account_number, credit_account_number, event_code, branch_id, external_branch_id, counterparty_ref, origin, narration, entry_type, status, dr_amount, cr_amount, amount, is_deleted, transaction_date, value_date, created_at`

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.ReferenceID,
			&i.AccountID,
			&i.AccountNumber,
			&i.DebitAccountNumber,
			&i.CreditAccountNumber,
			&i.EventCode,
			&i.BranchID,
			&i.ExternalBranchID,
			&i.CounterpartyRef,
			&i.Origin,
			&i.Narration,
			&i.EntryType,
			&i.Status,
			&i.DrAmount,
			&i.CrAmount,
			&i.Amount,
			&i.IsDeleted,
			&i.TransactionDate,
			&i.ValueDate,
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

const createEntry = `-- name: CreateEntry :exec
INSERT INTO entries (` + entryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
`

type CreateEntryParams struct {
	ID                  string             `json:"id"`
	ReferenceID         string             `json:"reference_id"`
	AccountID           string             `json:"account_id"`
	AccountNumber       string             `json:"account_number"`
	DebitAccountNumber  string             `json:"debit_account_number"`
	CreditAccountNumber string             `json:"credit_account_number"`
	EventCode           string             `json:"event_code"`
	BranchID            string             `json:"branch_id"`
	ExternalBranchID    string             `json:"external_branch_id"`
	CounterpartyRef     string             `json:"counterparty_ref"`
	Origin              string             `json:"origin"`
	Narration           string             `json:"narration"`
	EntryType           string             `json:"entry_type"`
	Status              string             `json:"status"`
	DrAmount            pgtype.Numeric     `json:"dr_amount"`
	CrAmount            pgtype.Numeric     `json:"cr_amount"`
	Amount              pgtype.Numeric     `json:"amount"`
	IsDeleted           bool               `json:"is_deleted"`
	TransactionDate     pgtype.Timestamptz `json:"transaction_date"`
	ValueDate           pgtype.Timestamptz `json:"value_date"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) error {
	_, err := q.db.Exec(ctx, createEntry,
		arg.ID,
		arg.ReferenceID,
		arg.AccountID,
		arg.AccountNumber,
		arg.DebitAccountNumber,
		arg.CreditAccountNumber,
		arg.EventCode,
		arg.BranchID,
		arg.ExternalBranchID,
		arg.CounterpartyRef,
		arg.Origin,
		arg.Narration,
		arg.EntryType,
		arg.Status,
		arg.DrAmount,
		arg.CrAmount,
		arg.Amount,
		arg.IsDeleted,
		arg.TransactionDate,
		arg.ValueDate,
		arg.CreatedAt,
	)
	return err
}

const getEntriesByReference = `-- name: GetEntriesByReference :many
SELECT ` + entryColumns + ` FROM entries WHERE reference_id = $1 ORDER BY created_at, id
`

func (q *Queries) GetEntriesByReference(ctx context.Context, referenceID string) ([]Entry, error) {
	rows, err := q.db.Query(ctx, getEntriesByReference, referenceID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const getActiveEntriesByReferenceForUpdate = `-- name: GetActiveEntriesByReferenceForUpdate :many
SELECT ` + entryColumns + ` FROM entries
WHERE reference_id = $1 AND NOT is_deleted
ORDER BY id
FOR UPDATE
`

func (q *Queries) GetActiveEntriesByReferenceForUpdate(ctx context.Context, referenceID string) ([]Entry, error) {
	rows, err := q.db.Query(ctx, getActiveEntriesByReferenceForUpdate, referenceID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const entryReferenceExists = `-- name: EntryReferenceExists :one
SELECT EXISTS (SELECT 1 FROM entries WHERE reference_id = $1 AND NOT is_deleted)
`

func (q *Queries) EntryReferenceExists(ctx context.Context, referenceID string) (bool, error) {
	row := q.db.QueryRow(ctx, entryReferenceExists, referenceID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getEntriesByAccount = `-- name: GetEntriesByAccount :many
SELECT ` + entryColumns + ` FROM entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type GetEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) GetEntriesByAccount(ctx context.Context, arg GetEntriesByAccountParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, getEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const findEntries = `-- name: FindEntries :many
SELECT ` + entryColumns + ` FROM entries
WHERE ($1::timestamptz IS NULL OR transaction_date >= $1)
  AND ($2::timestamptz IS NULL OR transaction_date < $2)
  AND (cardinality($3::text[]) = 0 OR branch_id = ANY($3::text[]))
  AND (cardinality($4::text[]) = 0 OR account_id = ANY($4::text[]))
  AND ($5::boolean OR NOT is_deleted)
ORDER BY transaction_date, created_at, id
`

type FindEntriesParams struct {
	From           pgtype.Timestamptz `json:"from"`
	To             pgtype.Timestamptz `json:"to"`
	BranchIds      []string           `json:"branch_ids"`
	AccountIds     []string           `json:"account_ids"`
	IncludeDeleted bool               `json:"include_deleted"`
}

func (q *Queries) FindEntries(ctx context.Context, arg FindEntriesParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, findEntries,
		arg.From,
		arg.To,
		arg.BranchIds,
		arg.AccountIds,
		arg.IncludeDeleted,
	)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const sumEntriesByAccount = `-- name: SumEntriesByAccount :one
SELECT COALESCE(SUM(dr_amount), 0)::numeric AS total_debit,
       COALESCE(SUM(cr_amount), 0)::numeric AS total_credit
FROM entries
WHERE account_id = $1
`

type SumEntriesByAccountRow struct {
	TotalDebit  pgtype.Numeric `json:"total_debit"`
	TotalCredit pgtype.Numeric `json:"total_credit"`
}

func (q *Queries) SumEntriesByAccount(ctx context.Context, accountID string) (SumEntriesByAccountRow, error) {
	row := q.db.QueryRow(ctx, sumEntriesByAccount, accountID)
	var i SumEntriesByAccountRow
	err := row.Scan(&i.TotalDebit, &i.TotalCredit)
	return i, err
}

const markEntriesReversed = `-- name: MarkEntriesReversed :execrows
UPDATE entries SET is_deleted = TRUE, status = 'Reversed' WHERE id = ANY($1::text[]) AND NOT is_deleted
`

func (q *Queries) MarkEntriesReversed(ctx context.Context, ids []string) (int64, error) {
	result, err := q.db.Exec(ctx, markEntriesReversed, ids)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteEntries = `-- name: DeleteEntries :execrows
DELETE FROM entries WHERE id = ANY($1::text[])
`

func (q *Queries) DeleteEntries(ctx context.Context, ids []string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteEntries, ids)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
