package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QueryLevel is the organisational scope of a report.
type QueryLevel string

const (
	QueryLevelBranch     QueryLevel = "Branch"
	QueryLevelZone       QueryLevel = "Zone"
	QueryLevelHeadOffice QueryLevel = "HeadOffice"
)

// ParseQueryLevel accepts the level names case-insensitively.
func ParseQueryLevel(s string) (QueryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "branch":
		return QueryLevelBranch, nil
	case "zone":
		return QueryLevelZone, nil
	case "headoffice", "head_office", "head-office":
		return QueryLevelHeadOffice, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidQueryLevel, s)
}

// ReportPeriod is an inclusive date range.
type ReportPeriod struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate rejects empty or inverted ranges.
func (p ReportPeriod) Validate() error {
	if p.From.IsZero() || p.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidDateRange)
	}

	if p.To.Before(p.From) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange,
			p.From.Format(time.DateOnly), p.To.Format(time.DateOnly))
	}

	return nil
}

// Bounds returns the half-open instant range [start, end) covering every
// day of the period in UTC.
func (p ReportPeriod) Bounds() (start, end time.Time) {
	start = truncateDay(p.From)
	end = truncateDay(p.To).AddDate(0, 0, 1)

	return start, end
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TrialBalanceRow is one account in the 4-column trial balance.
type TrialBalanceRow struct {
	AccountID     string          `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	BranchID      string          `json:"branch_id"`
	Category      AccountCategory `json:"category"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	// Balance is the closing net in debit-positive sign.
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalance4Column lists period debits, credits and closing balance.
type TrialBalance4Column struct {
	Period      ReportPeriod      `json:"period"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

// TrialBalanceRow6 is one account in the 6-column trial balance.
type TrialBalanceRow6 struct {
	AccountID     string          `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	BranchID      string          `json:"branch_id"`
	Category      AccountCategory `json:"category"`
	OpeningDebit  decimal.Decimal `json:"opening_debit"`
	OpeningCredit decimal.Decimal `json:"opening_credit"`
	PeriodDebit   decimal.Decimal `json:"period_debit"`
	PeriodCredit  decimal.Decimal `json:"period_credit"`
	ClosingDebit  decimal.Decimal `json:"closing_debit"`
	ClosingCredit decimal.Decimal `json:"closing_credit"`
}

// TrialBalance6Column adds opening and closing columns to the trial balance.
type TrialBalance6Column struct {
	Period             ReportPeriod       `json:"period"`
	Rows               []TrialBalanceRow6 `json:"rows"`
	TotalOpeningDebit  decimal.Decimal    `json:"total_opening_debit"`
	TotalOpeningCredit decimal.Decimal    `json:"total_opening_credit"`
	TotalPeriodDebit   decimal.Decimal    `json:"total_period_debit"`
	TotalPeriodCredit  decimal.Decimal    `json:"total_period_credit"`
	TotalClosingDebit  decimal.Decimal    `json:"total_closing_debit"`
	TotalClosingCredit decimal.Decimal    `json:"total_closing_credit"`
	Balanced           bool               `json:"balanced"`
}

// TrialBalanceFilter scopes the accounts of a trial balance.
type TrialBalanceFilter struct {
	BranchIDs  []string
	AccountIDs []string
	Categories []AccountCategory
}

// BalanceSheetLine is one account in a balance sheet section.
type BalanceSheetLine struct {
	AccountID     string          `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	BranchID      string          `json:"branch_id"`
	Balance       decimal.Decimal `json:"balance"`
}

// BalanceSheetSection groups the lines of one category.
type BalanceSheetSection struct {
	Category AccountCategory    `json:"category"`
	Lines    []BalanceSheetLine `json:"lines"`
	Total    decimal.Decimal    `json:"total"`
}

// BalanceSheet is the statement of financial position as of Period.To.
type BalanceSheet struct {
	EntityID    string              `json:"entity_id"`
	EntityType  QueryLevel          `json:"entity_type"`
	Period      ReportPeriod        `json:"period"`
	Assets      BalanceSheetSection `json:"assets"`
	Liabilities BalanceSheetSection `json:"liabilities"`
	Equity      BalanceSheetSection `json:"equity"`
	// RetainedEarnings is unclosed income less expenses before Period.From.
	RetainedEarnings          decimal.Decimal `json:"retained_earnings"`
	NetIncome                 decimal.Decimal `json:"net_income"`
	TotalAssets               decimal.Decimal `json:"total_assets"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
	Balanced                  bool            `json:"balanced"`
}

// BranchAmount is one branch's share of a consolidated statement line.
type BranchAmount struct {
	BranchID string          `json:"branch_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// IncomeStatementLine is one income or expense line.
type IncomeStatementLine struct {
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	Category      AccountCategory `json:"category"`
	BranchID      string          `json:"branch_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Breakdown     []BranchAmount  `json:"breakdown,omitempty"`
}

// IncomeExpenseStatement aggregates income and expense accounts over a period.
type IncomeExpenseStatement struct {
	Level         QueryLevel            `json:"level"`
	EntityID      string                `json:"entity_id"`
	Period        ReportPeriod          `json:"period"`
	Revenue       []IncomeStatementLine `json:"revenue"`
	Expenses      []IncomeStatementLine `json:"expenses"`
	TotalRevenue  decimal.Decimal       `json:"total_revenue"`
	TotalExpenses decimal.Decimal       `json:"total_expenses"`
	NetSurplus    decimal.Decimal       `json:"net_surplus"`
}

// ReportKind names a persisted report.
type ReportKind string

const (
	ReportKindBalanceSheet    ReportKind = "balance_sheet"
	ReportKindIncomeStatement ReportKind = "income_statement"
)

// ReportSnapshot is an append-only copy of a generated report.
type ReportSnapshot struct {
	CreatedAt  time.Time
	ID         string
	Kind       ReportKind
	EntityID   string
	EntityType QueryLevel
	Period     ReportPeriod
	Payload    []byte
}
