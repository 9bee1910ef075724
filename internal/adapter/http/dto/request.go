package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	AccountNumber  string `json:"account_number" validate:"required,max=64"`
	Name           string `json:"name" validate:"required,max=255"`
	OwnerID        string `json:"owner_id,omitempty" validate:"max=64"`
	ChartAccountID string `json:"chart_account_id" validate:"required,max=64"`
	CategoryID     string `json:"category_id,omitempty" validate:"max=64"`
	Category       string `json:"category" validate:"required,oneof=asset liability equity income expense"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(branch domain.BranchContext) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Branch:         branch,
		AccountNumber:  r.AccountNumber,
		Name:           r.Name,
		OwnerID:        r.OwnerID,
		ChartAccountID: r.ChartAccountID,
		CategoryID:     r.CategoryID,
		Category:       r.Category,
	}
}

// AmountLineRequest is one line of an auto-posting.
type AmountLineRequest struct {
	EventCode string `json:"event_code,omitempty" validate:"required_without=AccountID,max=64"`
	AccountID string `json:"account_id,omitempty" validate:"max=64"`
	Narration string `json:"narration,omitempty" validate:"max=255"`
	Amount    string `json:"amount" validate:"required,positive_amount"`
}

// AutoPostRequest represents a request to post amount lines against a
// shared determination account.
type AutoPostRequest struct {
	TransactionDate *time.Time          `json:"transaction_date,omitempty"`
	ValueDate       *time.Time          `json:"value_date,omitempty"`
	ReferenceID     string              `json:"reference_id" validate:"required,max=128"`
	SourceEventCode string              `json:"source_event_code,omitempty" validate:"required_without=SourceAccountID,max=64"`
	SourceAccountID string              `json:"source_account_id,omitempty" validate:"max=64"`
	Narration       string              `json:"narration,omitempty" validate:"max=255"`
	CounterpartyRef string              `json:"counterparty_ref,omitempty" validate:"max=128"`
	Origin          string              `json:"origin,omitempty" validate:"max=64"`
	Lines           []AmountLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *AutoPostRequest) ToUseCaseInput(branch domain.BranchContext) (usecase.AutoPostInput, error) {
	lines := make([]usecase.AmountLine, len(r.Lines))
	for i, l := range r.Lines {
		amount, err := parseAmount(l.Amount)
		if err != nil {
			return usecase.AutoPostInput{}, fmt.Errorf("line %d: %w", i, err)
		}

		lines[i] = usecase.AmountLine{
			EventCode: l.EventCode,
			AccountID: l.AccountID,
			Narration: l.Narration,
			Amount:    amount,
		}
	}

	txDate, valueDate := dates(r.TransactionDate, r.ValueDate)

	return usecase.AutoPostInput{
		TransactionDate: txDate,
		ValueDate:       valueDate,
		Branch:          branch,
		ReferenceID:     r.ReferenceID,
		SourceEventCode: r.SourceEventCode,
		SourceAccountID: r.SourceAccountID,
		Narration:       r.Narration,
		CounterpartyRef: r.CounterpartyRef,
		Origin:          r.Origin,
		Lines:           lines,
	}, nil
}

// CashRequisitionRequest represents a branch drawing cash from an issuing account.
type CashRequisitionRequest struct {
	TransactionDate  *time.Time `json:"transaction_date,omitempty"`
	ValueDate        *time.Time `json:"value_date,omitempty"`
	ReferenceID      string     `json:"reference_id" validate:"required,max=128"`
	EventCode        string     `json:"event_code" validate:"required,max=64"`
	IssuingAccountID string     `json:"issuing_account_id" validate:"required,max=64"`
	Narration        string     `json:"narration,omitempty" validate:"max=255"`
	Amount           string     `json:"amount" validate:"required,positive_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CashRequisitionRequest) ToUseCaseInput(branch domain.BranchContext) (usecase.CashRequisitionInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.CashRequisitionInput{}, err
	}

	txDate, valueDate := dates(r.TransactionDate, r.ValueDate)

	return usecase.CashRequisitionInput{
		TransactionDate:  txDate,
		ValueDate:        valueDate,
		Branch:           branch,
		ReferenceID:      r.ReferenceID,
		EventCode:        r.EventCode,
		IssuingAccountID: r.IssuingAccountID,
		Narration:        r.Narration,
		Amount:           amount,
	}, nil
}

// CommissionRequest represents the commission owed to a daily-collection agent.
type CommissionRequest struct {
	TransactionDate    *time.Time `json:"transaction_date,omitempty"`
	ReferenceID        string     `json:"reference_id" validate:"required,max=128"`
	EventCode          string     `json:"event_code" validate:"required,max=64"`
	CollectorAccountID string     `json:"collector_account_id" validate:"required,max=64"`
	Narration          string     `json:"narration,omitempty" validate:"max=255"`
	CollectedAmount    string     `json:"collected_amount" validate:"required,positive_amount"`
	Rate               string     `json:"rate" validate:"required,positive_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CommissionRequest) ToUseCaseInput(branch domain.BranchContext) (usecase.CommissionInput, error) {
	collected, err := parseAmount(r.CollectedAmount)
	if err != nil {
		return usecase.CommissionInput{}, err
	}

	rate, err := decimal.NewFromString(r.Rate)
	if err != nil {
		return usecase.CommissionInput{}, fmt.Errorf("%w: %q", domain.ErrInvalidRate, r.Rate)
	}

	txDate, _ := dates(r.TransactionDate, nil)

	return usecase.CommissionInput{
		TransactionDate:    txDate,
		Branch:             branch,
		ReferenceID:        r.ReferenceID,
		EventCode:          r.EventCode,
		CollectorAccountID: r.CollectorAccountID,
		Narration:          r.Narration,
		CollectedAmount:    collected,
		Rate:               rate,
	}, nil
}

// AdjustmentRequest represents a non-cash adjustment.
type AdjustmentRequest struct {
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
	ValueDate       *time.Time `json:"value_date,omitempty"`
	ReferenceID     string     `json:"reference_id" validate:"required,max=128"`
	EventCode       string     `json:"event_code" validate:"required,max=64"`
	AccountID       string     `json:"account_id" validate:"required,max=64"`
	Narration       string     `json:"narration,omitempty" validate:"max=255"`
	Amount          string     `json:"amount" validate:"required,positive_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustmentRequest) ToUseCaseInput(branch domain.BranchContext) (usecase.AdjustmentInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.AdjustmentInput{}, err
	}

	txDate, valueDate := dates(r.TransactionDate, r.ValueDate)

	return usecase.AdjustmentInput{
		TransactionDate: txDate,
		ValueDate:       valueDate,
		Branch:          branch,
		ReferenceID:     r.ReferenceID,
		EventCode:       r.EventCode,
		AccountID:       r.AccountID,
		Narration:       r.Narration,
		Amount:          amount,
	}, nil
}

// TransferRequest represents a direct movement between two accounts.
type TransferRequest struct {
	TransactionDate      *time.Time `json:"transaction_date,omitempty"`
	ValueDate            *time.Time `json:"value_date,omitempty"`
	ReferenceID          string     `json:"reference_id" validate:"required,max=128"`
	EventCode            string     `json:"event_code,omitempty" validate:"max=64"`
	SourceAccountID      string     `json:"source_account_id" validate:"required,max=64"`
	DestinationAccountID string     `json:"destination_account_id" validate:"required,max=64"`
	Narration            string     `json:"narration,omitempty" validate:"max=255"`
	Amount               string     `json:"amount" validate:"required,positive_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(branch domain.BranchContext) (usecase.TransferInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	txDate, valueDate := dates(r.TransactionDate, r.ValueDate)

	return usecase.TransferInput{
		TransactionDate:      txDate,
		ValueDate:            valueDate,
		Branch:               branch,
		ReferenceID:          r.ReferenceID,
		EventCode:            r.EventCode,
		SourceAccountID:      r.SourceAccountID,
		DestinationAccountID: r.DestinationAccountID,
		Narration:            r.Narration,
		Amount:               amount,
	}, nil
}

// CreateRuleRequest represents a request to register an accounting rule.
type CreateRuleRequest struct {
	EventCode              string `json:"event_code" validate:"required,max=64"`
	DeterminationAccountID string `json:"determination_account_id" validate:"required,max=64"`
	Description            string `json:"description,omitempty" validate:"max=255"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRuleRequest) ToUseCaseInput(branch domain.BranchContext) usecase.CreateRuleInput {
	return usecase.CreateRuleInput{
		Branch:                 branch,
		EventCode:              r.EventCode,
		DeterminationAccountID: r.DeterminationAccountID,
		Description:            r.Description,
	}
}

// RemoveRequest lists ids for administrative removal.
type RemoveRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=1000,dive,required"`
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}

	return amount, nil
}

// dates defaults the transaction date to now and the value date to the
// transaction date.
func dates(txDate, valueDate *time.Time) (time.Time, time.Time) {
	tx := time.Now().UTC()
	if txDate != nil {
		tx = txDate.UTC()
	}

	value := tx
	if valueDate != nil {
		value = valueDate.UTC()
	}

	return tx, value
}
