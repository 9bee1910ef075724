// Package reporting aggregates accounts and entries into financial reports.
//
// Every generator is a pure function of its inputs: the same accounts,
// entries and period always produce the same report. Entries for accounts
// outside the supplied set are ignored. Reversed originals are expected in
// the input together with their reversal rows, so reversed activity nets
// to zero.
package reporting

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/iho/bankledger/internal/domain"
)

// checkEvery is how many entries are folded between cancellation checks.
const checkEvery = 1024

// movement is the debit and credit activity of one account.
type movement struct {
	openDebit    decimal.Decimal
	openCredit   decimal.Decimal
	periodDebit  decimal.Decimal
	periodCredit decimal.Decimal
}

func (m *movement) openingNet() decimal.Decimal {
	return m.openDebit.Sub(m.openCredit)
}

func (m *movement) periodNet() decimal.Decimal {
	return m.periodDebit.Sub(m.periodCredit)
}

func (m *movement) closingNet() decimal.Decimal {
	return m.openingNet().Add(m.periodNet())
}

// tally splits entry activity per account into the part before the period
// and the part inside it. Entries after the period are dropped.
func tally(ctx context.Context, accounts []*domain.Account, entries []*domain.Entry, period domain.ReportPeriod) (map[string]*movement, error) {
	start, end := period.Bounds()

	moves := make(map[string]*movement, len(accounts))
	for _, a := range accounts {
		moves[a.ID] = &movement{}
	}

	for i, e := range entries {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		m, ok := moves[e.AccountID]
		if !ok || !e.TransactionDate.Before(end) {
			continue
		}

		if e.TransactionDate.Before(start) {
			m.openDebit = m.openDebit.Add(e.DrAmount)
			m.openCredit = m.openCredit.Add(e.CrAmount)
			continue
		}

		m.periodDebit = m.periodDebit.Add(e.DrAmount)
		m.periodCredit = m.periodCredit.Add(e.CrAmount)
	}

	return moves, nil
}

// sorted returns accounts ordered by account number, then id.
func sorted(accounts []*domain.Account) []*domain.Account {
	out := slices.Clone(accounts)
	slices.SortFunc(out, func(a, b *domain.Account) int {
		if c := strings.Compare(a.AccountNumber, b.AccountNumber); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return out
}

// split turns a debit-positive net into a debit or credit column.
func split(net decimal.Decimal) (debit, credit decimal.Decimal) {
	if net.IsNegative() {
		return decimal.Zero, net.Neg()
	}

	return net, decimal.Zero
}

// TrialBalance4 builds the account, debit, credit, balance view. Debit and
// credit are period activity; balance is the closing net, debit positive.
func TrialBalance4(ctx context.Context, accounts []*domain.Account, entries []*domain.Entry, period domain.ReportPeriod) (*domain.TrialBalance4Column, error) {
	moves, err := tally(ctx, accounts, entries, period)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance4Column{
		Period:      period,
		Rows:        make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, a := range sorted(accounts) {
		m := moves[a.ID]

		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:     a.ID,
			AccountNumber: a.AccountNumber,
			AccountName:   a.Name,
			BranchID:      a.BranchID,
			Category:      a.Category,
			Debit:         m.periodDebit,
			Credit:        m.periodCredit,
			Balance:       m.closingNet(),
		})

		report.TotalDebit = report.TotalDebit.Add(m.periodDebit)
		report.TotalCredit = report.TotalCredit.Add(m.periodCredit)
	}

	report.Balanced = report.TotalDebit.Equal(report.TotalCredit)

	return report, nil
}

// TrialBalance6 builds the opening, period and closing view. Opening and
// closing balances are shown on whichever side they fall.
func TrialBalance6(ctx context.Context, accounts []*domain.Account, entries []*domain.Entry, period domain.ReportPeriod) (*domain.TrialBalance6Column, error) {
	moves, err := tally(ctx, accounts, entries, period)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance6Column{
		Period:             period,
		Rows:               make([]domain.TrialBalanceRow6, 0, len(accounts)),
		TotalOpeningDebit:  decimal.Zero,
		TotalOpeningCredit: decimal.Zero,
		TotalPeriodDebit:   decimal.Zero,
		TotalPeriodCredit:  decimal.Zero,
		TotalClosingDebit:  decimal.Zero,
		TotalClosingCredit: decimal.Zero,
	}

	for _, a := range sorted(accounts) {
		m := moves[a.ID]
		openDr, openCr := split(m.openingNet())
		closeDr, closeCr := split(m.closingNet())

		report.Rows = append(report.Rows, domain.TrialBalanceRow6{
			AccountID:     a.ID,
			AccountNumber: a.AccountNumber,
			AccountName:   a.Name,
			BranchID:      a.BranchID,
			Category:      a.Category,
			OpeningDebit:  openDr,
			OpeningCredit: openCr,
			PeriodDebit:   m.periodDebit,
			PeriodCredit:  m.periodCredit,
			ClosingDebit:  closeDr,
			ClosingCredit: closeCr,
		})

		report.TotalOpeningDebit = report.TotalOpeningDebit.Add(openDr)
		report.TotalOpeningCredit = report.TotalOpeningCredit.Add(openCr)
		report.TotalPeriodDebit = report.TotalPeriodDebit.Add(m.periodDebit)
		report.TotalPeriodCredit = report.TotalPeriodCredit.Add(m.periodCredit)
		report.TotalClosingDebit = report.TotalClosingDebit.Add(closeDr)
		report.TotalClosingCredit = report.TotalClosingCredit.Add(closeCr)
	}

	report.Balanced = report.TotalOpeningDebit.Equal(report.TotalOpeningCredit) &&
		report.TotalPeriodDebit.Equal(report.TotalPeriodCredit) &&
		report.TotalClosingDebit.Equal(report.TotalClosingCredit)

	return report, nil
}

// BalanceSheet reports asset, liability and equity balances as of the end
// of the period. Income and expense accounts are folded into equity as
// retained earnings (before the period) and net income (inside it).
func BalanceSheet(ctx context.Context, entityID string, entityType domain.QueryLevel, accounts []*domain.Account, entries []*domain.Entry, period domain.ReportPeriod) (*domain.BalanceSheet, error) {
	moves, err := tally(ctx, accounts, entries, period)
	if err != nil {
		return nil, err
	}

	sheet := &domain.BalanceSheet{
		EntityID:         entityID,
		EntityType:       entityType,
		Period:           period,
		Assets:           section(domain.CategoryAsset),
		Liabilities:      section(domain.CategoryLiability),
		Equity:           section(domain.CategoryEquity),
		RetainedEarnings: decimal.Zero,
		NetIncome:        decimal.Zero,
	}

	for _, a := range sorted(accounts) {
		m := moves[a.ID]

		var target *domain.BalanceSheetSection
		switch a.Category {
		case domain.CategoryAsset:
			target = &sheet.Assets
		case domain.CategoryLiability:
			target = &sheet.Liabilities
		case domain.CategoryEquity:
			target = &sheet.Equity
		case domain.CategoryIncome, domain.CategoryExpense:
			// Income is credit-normal: a credit net raises equity.
			sheet.RetainedEarnings = sheet.RetainedEarnings.Sub(m.openingNet())
			sheet.NetIncome = sheet.NetIncome.Sub(m.periodNet())
			continue
		default:
			continue
		}

		balance := a.NaturalBalance(m.closingNet())
		target.Lines = append(target.Lines, domain.BalanceSheetLine{
			AccountID:     a.ID,
			AccountNumber: a.AccountNumber,
			AccountName:   a.Name,
			BranchID:      a.BranchID,
			Balance:       balance,
		})
		target.Total = target.Total.Add(balance)
	}

	sheet.TotalAssets = sheet.Assets.Total
	sheet.TotalLiabilitiesAndEquity = sheet.Liabilities.Total.
		Add(sheet.Equity.Total).
		Add(sheet.RetainedEarnings).
		Add(sheet.NetIncome)
	sheet.Balanced = sheet.TotalAssets.Equal(sheet.TotalLiabilitiesAndEquity)

	return sheet, nil
}

func section(category domain.AccountCategory) domain.BalanceSheetSection {
	return domain.BalanceSheetSection{
		Category: category,
		Lines:    []domain.BalanceSheetLine{},
		Total:    decimal.Zero,
	}
}

// IncomeExpenseStatement aggregates period activity of income and expense
// accounts. Branch level reports one line per account; Zone and HeadOffice
// levels consolidate accounts sharing an account number and keep the
// per-branch amounts as a breakdown.
func IncomeExpenseStatement(ctx context.Context, level domain.QueryLevel, entityID string, accounts []*domain.Account, entries []*domain.Entry, period domain.ReportPeriod) (*domain.IncomeExpenseStatement, error) {
	nominal := make([]*domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Category == domain.CategoryIncome || a.Category == domain.CategoryExpense {
			nominal = append(nominal, a)
		}
	}

	moves, err := tally(ctx, nominal, entries, period)
	if err != nil {
		return nil, err
	}

	stmt := &domain.IncomeExpenseStatement{
		Level:         level,
		EntityID:      entityID,
		Period:        period,
		Revenue:       []domain.IncomeStatementLine{},
		Expenses:      []domain.IncomeStatementLine{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	var lines []domain.IncomeStatementLine
	if level == domain.QueryLevelBranch {
		lines = accountLines(nominal, moves)
	} else {
		lines = consolidatedLines(nominal, moves)
	}

	for _, line := range lines {
		if line.Category == domain.CategoryIncome {
			stmt.Revenue = append(stmt.Revenue, line)
			stmt.TotalRevenue = stmt.TotalRevenue.Add(line.Amount)
			continue
		}

		stmt.Expenses = append(stmt.Expenses, line)
		stmt.TotalExpenses = stmt.TotalExpenses.Add(line.Amount)
	}

	stmt.NetSurplus = stmt.TotalRevenue.Sub(stmt.TotalExpenses)

	return stmt, nil
}

func accountLines(accounts []*domain.Account, moves map[string]*movement) []domain.IncomeStatementLine {
	lines := make([]domain.IncomeStatementLine, 0, len(accounts))
	for _, a := range sorted(accounts) {
		lines = append(lines, domain.IncomeStatementLine{
			AccountNumber: a.AccountNumber,
			AccountName:   a.Name,
			Category:      a.Category,
			BranchID:      a.BranchID,
			Amount:        a.NaturalBalance(moves[a.ID].periodNet()),
		})
	}

	return lines
}

func consolidatedLines(accounts []*domain.Account, moves map[string]*movement) []domain.IncomeStatementLine {
	var lines []domain.IncomeStatementLine
	index := make(map[string]int)

	for _, a := range sorted(accounts) {
		amount := a.NaturalBalance(moves[a.ID].periodNet())

		key := string(a.Category) + "/" + a.AccountNumber
		i, ok := index[key]
		if !ok {
			index[key] = len(lines)
			lines = append(lines, domain.IncomeStatementLine{
				AccountNumber: a.AccountNumber,
				AccountName:   a.Name,
				Category:      a.Category,
				Amount:        decimal.Zero,
			})
			i = len(lines) - 1
		}

		line := &lines[i]
		line.Amount = line.Amount.Add(amount)
		line.Breakdown = addBranch(line.Breakdown, a.BranchID, amount)
	}

	for i := range lines {
		slices.SortFunc(lines[i].Breakdown, func(a, b domain.BranchAmount) int {
			return strings.Compare(a.BranchID, b.BranchID)
		})
	}

	return lines
}

func addBranch(breakdown []domain.BranchAmount, branchID string, amount decimal.Decimal) []domain.BranchAmount {
	for i := range breakdown {
		if breakdown[i].BranchID == branchID {
			breakdown[i].Amount = breakdown[i].Amount.Add(amount)
			return breakdown
		}
	}

	return append(breakdown, domain.BranchAmount{BranchID: branchID, Amount: amount})
}
