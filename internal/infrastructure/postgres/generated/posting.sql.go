package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPosting = `-- name: CreatePosting :exec
INSERT INTO postings (reference_id, operation, branch_id, reversal_of, total_amount, entry_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreatePostingParams struct {
	ReferenceID string             `json:"reference_id"`
	Operation   string             `json:"operation"`
	BranchID    string             `json:"branch_id"`
	ReversalOf  string             `json:"reversal_of"`
	TotalAmount pgtype.Numeric     `json:"total_amount"`
	EntryCount  int32              `json:"entry_count"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreatePosting(ctx context.Context, arg CreatePostingParams) error {
	_, err := q.db.Exec(ctx, createPosting,
		arg.ReferenceID,
		arg.Operation,
		arg.BranchID,
		arg.ReversalOf,
		arg.TotalAmount,
		arg.EntryCount,
		arg.CreatedAt,
	)
	return err
}

const getPostingByReference = `-- name: GetPostingByReference :one
SELECT reference_id, operation, branch_id, reversal_of, total_amount, entry_count, created_at FROM postings WHERE reference_id = $1
`

func (q *Queries) GetPostingByReference(ctx context.Context, referenceID string) (Posting, error) {
	row := q.db.QueryRow(ctx, getPostingByReference, referenceID)
	var i Posting
	err := row.Scan(
		&i.ReferenceID,
		&i.Operation,
		&i.BranchID,
		&i.ReversalOf,
		&i.TotalAmount,
		&i.EntryCount,
		&i.CreatedAt,
	)
	return i, err
}
