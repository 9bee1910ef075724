
package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const accountColumns = `id, account_number, name, branch_id, branch_code, owner_id, chart_account_id, category_id, category, balance, version, retired, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (Account, error) {
	var i Account
	err := row.Scan(
		&i.ID,
		&i.AccountNumber,
		&i.Name,
		&i.BranchID,
		&i.BranchCode,
		&i.OwnerID,
		&i.ChartAccountID,
		&i.CategoryID,
		&i.Category,
		&i.Balance,
		&i.Version,
		&i.Retired,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const countAccounts = `-- name: CountAccounts :one
SELECT COUNT(*) FROM accounts WHERE NOT retired
`

func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countAccounts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (id, account_number, name, branch_id, branch_code, owner_id, chart_account_id, category_id, category, balance, version, retired, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

type CreateAccountParams struct {
	ID             string             `json:"id"`
	AccountNumber  string             `json:"account_number"`
	Name           string             `json:"name"`
	BranchID       string             `json:"branch_id"`
	BranchCode     string             `json:"branch_code"`
	OwnerID        string             `json:"owner_id"`
	ChartAccountID string             `json:"chart_account_id"`
	CategoryID     string             `json:"category_id"`
	Category       string             `json:"category"`
	Balance        pgtype.Numeric     `json:"balance"`
	Version        int64              `json:"version"`
	Retired        bool               `json:"retired"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.AccountNumber,
		arg.Name,
		arg.BranchID,
		arg.BranchCode,
		arg.OwnerID,
		arg.ChartAccountID,
		arg.CategoryID,
		arg.Category,
		arg.Balance,
		arg.Version,
		arg.Retired,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT ` + accountColumns + ` FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	return scanAccount(row)
}

const getAccountByChartPosition = `-- name: GetAccountByChartPosition :one
SELECT ` + accountColumns + ` FROM accounts
WHERE chart_account_id = $1
  AND CASE WHEN $2::text <> '' THEN branch_id = $2 ELSE branch_code = $3::text END
  AND NOT retired
ORDER BY created_at, id
LIMIT 1
`

type GetAccountByChartPositionParams struct {
	ChartAccountID string `json:"chart_account_id"`
	BranchID       string `json:"branch_id"`
	BranchCode     string `json:"branch_code"`
}

func (q *Queries) GetAccountByChartPosition(ctx context.Context, arg GetAccountByChartPositionParams) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByChartPosition, arg.ChartAccountID, arg.BranchID, arg.BranchCode)
	return scanAccount(row)
}

const getAccountsByIDsForUpdate = `-- name: GetAccountsByIDsForUpdate :many
SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1::text[]) ORDER BY id FOR UPDATE
`

func (q *Queries) GetAccountsByIDsForUpdate(ctx context.Context, ids []string) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccountsByIDsForUpdate, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		i, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAccounts = `-- name: ListAccounts :many
SELECT ` + accountColumns + ` FROM accounts
WHERE (cardinality($1::text[]) = 0 OR branch_id = ANY($1::text[]))
  AND (cardinality($2::text[]) = 0 OR id = ANY($2::text[]))
  AND (cardinality($3::text[]) = 0 OR category = ANY($3::text[]))
  AND ($4::boolean OR NOT retired)
ORDER BY account_number, id
LIMIT NULLIF($5::int, 0) OFFSET $6
`

type ListAccountsParams struct {
	BranchIds      []string `json:"branch_ids"`
	AccountIds     []string `json:"account_ids"`
	Categories     []string `json:"categories"`
	IncludeRetired bool     `json:"include_retired"`
	Limit          int32    `json:"limit"`
	Offset         int32    `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts,
		arg.BranchIds,
		arg.AccountIds,
		arg.Categories,
		arg.IncludeRetired,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		i, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateAccountBalance = `-- name: UpdateAccountBalance :execrows
UPDATE accounts SET balance = $2, version = version + 1, updated_at = $3 WHERE id = $1
`

type UpdateAccountBalanceParams struct {
	ID        string             `json:"id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountBalance(ctx context.Context, arg UpdateAccountBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccountBalance, arg.ID, arg.Balance, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const retireAccount = `-- name: RetireAccount :execrows
UPDATE accounts SET retired = TRUE, version = version + 1, updated_at = $2 WHERE id = $1 AND NOT retired
`

type RetireAccountParams struct {
	ID        string             `json:"id"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) RetireAccount(ctx context.Context, arg RetireAccountParams) (int64, error) {
	result, err := q.db.Exec(ctx, retireAccount, arg.ID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteAccounts = `-- name: DeleteAccounts :execrows
DELETE FROM accounts WHERE id = ANY($1::text[])
`

func (q *Queries) DeleteAccounts(ctx context.Context, ids []string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAccounts, ids)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
