package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/http/middleware"
)

var errInconsistent = errors.New("ledger is inconsistent")

// apiClient calls the ledger HTTP API on behalf of one branch and operator.
type apiClient struct {
	baseURL  string
	http     *http.Client
	branchID string
	userID   string
}

func newAPIClient(opts *options) *apiClient {
	return &apiClient{
		baseURL:  strings.TrimRight(opts.baseURL, "/"),
		http:     &http.Client{Timeout: opts.timeout},
		branchID: opts.branchID,
		userID:   opts.userID,
	}
}

// do sends a request and returns the status and body. Transport failures
// are errors; HTTP error statuses are not.
func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, idempotencyKey string) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return 0, nil, err
	}

	if c.branchID != "" {
		req.Header.Set(middleware.BranchIDHeader, c.branchID)
	}
	if c.userID != "" {
		req.Header.Set(middleware.UserIDHeader, c.userID)
	}
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// get prints the body of a successful GET and fails on any error status.
func (c *apiClient) get(ctx context.Context, w io.Writer, path string, query url.Values) error {
	status, body, err := c.do(ctx, http.MethodGet, path, query, "")
	if err != nil {
		return err
	}

	if status >= http.StatusBadRequest {
		return fmt.Errorf("%s failed (status %d): %s", path, status, strings.TrimSpace(string(body)))
	}

	return printRaw(w, body)
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger-wide checks",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "consistency",
			Short: "Check that debits equal credits ledger-wide and per reference",
			RunE: func(cmd *cobra.Command, args []string) error {
				return checkConsistency(cmd.Context(), newAPIClient(opts), opts.out)
			},
		},
		&cobra.Command{
			Use:   "reconcile [account-id]",
			Short: "Recompute stored balances from entries",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := "/api/v1/ledger/reconciliation"
				if len(args) == 1 {
					path += "/" + url.PathEscape(args[0])
				}
				return newAPIClient(opts).get(cmd.Context(), opts.out, path, nil)
			},
		},
		&cobra.Command{
			Use:   "flush-outbox",
			Short: "Publish outbox events left behind by failed deliveries",
			RunE: func(cmd *cobra.Command, args []string) error {
				status, body, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/ledger/outbox/flush", nil, "")
				if err != nil {
					return err
				}
				if status != http.StatusOK {
					return fmt.Errorf("flush failed (status %d): %s", status, strings.TrimSpace(string(body)))
				}
				return printRaw(opts.out, body)
			},
		},
	)

	return cmd
}

func checkConsistency(ctx context.Context, c *apiClient, w io.Writer) error {
	status, body, err := c.do(ctx, http.MethodGet, "/api/v1/ledger/consistency", nil, "")
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK:
		fmt.Fprintln(w, "Consistency check PASSED")
		return printRaw(w, body)
	case http.StatusConflict:
		fmt.Fprintln(w, "Consistency check FAILED")
		if err := printRaw(w, body); err != nil {
			return err
		}
		return errInconsistent
	default:
		return fmt.Errorf("consistency check failed (status %d): %s", status, strings.TrimSpace(string(body)))
	}
}

func reportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}

	var (
		from, to, columns, format string
		branches                  []string
	)

	tb := &cobra.Command{
		Use:   "trial-balance",
		Short: "Trial balance over an inclusive date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"from": {from}, "to": {to}, "columns": {columns}}
			for _, b := range branches {
				query.Add("branch_id", b)
			}

			c := newAPIClient(opts)
			if format == "json" {
				return c.get(cmd.Context(), opts.out, "/api/v1/reports/trial-balance", query)
			}
			if columns != "4" {
				return fmt.Errorf("table format supports 4 columns only")
			}

			return printTrialBalanceTable(cmd.Context(), c, opts.out, query)
		},
	}
	tb.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	tb.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")
	tb.Flags().StringVar(&columns, "columns", "4", "4 or 6")
	tb.Flags().StringVar(&format, "format", "table", "table or json")
	tb.Flags().StringSliceVar(&branches, "branch-id", nil, "Restrict to branch ids")
	_ = tb.MarkFlagRequired("from")
	_ = tb.MarkFlagRequired("to")

	cmd.AddCommand(tb)

	return cmd
}

type trialBalanceRow struct {
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	BranchID      string          `json:"branch_id"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

type trialBalance struct {
	Rows        []trialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

func printTrialBalanceTable(ctx context.Context, c *apiClient, w io.Writer, query url.Values) error {
	status, body, err := c.do(ctx, http.MethodGet, "/api/v1/reports/trial-balance", query, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("trial balance failed (status %d): %s", status, strings.TrimSpace(string(body)))
	}

	var report trialBalance
	if err := decodeJSON(body, &report); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ACCOUNT\tNAME\tBRANCH\tDEBIT\tCREDIT\tBALANCE\t")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.AccountNumber, truncate(row.AccountName, 28), row.BranchID,
			row.Debit.StringFixed(2), row.Credit.StringFixed(2), row.Balance.StringFixed(2))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\t%s\t\t\n", report.TotalDebit.StringFixed(2), report.TotalCredit.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}

	if !report.Balanced {
		return errInconsistent
	}

	return nil
}

func transactionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Committed references",
	}

	get := &cobra.Command{
		Use:   "get <reference>",
		Short: "Show a reference with its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newAPIClient(opts).get(cmd.Context(), opts.out, "/api/v1/transactions/"+url.PathEscape(args[0]), nil)
		},
	}

	var key string
	reverse := &cobra.Command{
		Use:   "reverse <reference>",
		Short: "Reverse every posted entry of a reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = ulid.Make().String()
			}

			path := "/api/v1/transactions/" + url.PathEscape(args[0]) + "/reverse"
			status, body, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, nil, key)
			if err != nil {
				return err
			}
			if status != http.StatusCreated {
				return fmt.Errorf("reversal failed (status %d): %s", status, strings.TrimSpace(string(body)))
			}
			return printRaw(opts.out, body)
		},
	}
	reverse.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key; generated when empty")

	cmd.AddCommand(get, reverse)

	return cmd
}
