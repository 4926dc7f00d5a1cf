package voucher

import (
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Entry is one debit or credit row of a voucher
type Entry struct {
	ID           uuid.UUID
	LineNo       int
	AccountID    uuid.UUID
	CostCenterID *uuid.UUID
	Description  string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
}

// NewEntry builds an entry; validation happens when the lines are set
func NewEntry(accountID uuid.UUID, costCenterID *uuid.UUID, description string, debit, credit decimal.Decimal) Entry {
	return Entry{
		AccountID:    accountID,
		CostCenterID: costCenterID,
		Description:  strings.TrimSpace(description),
		Debit:        debit,
		Credit:       credit,
	}
}

func (e Entry) validate() error {
	if e.AccountID == uuid.Nil {
		return errors.New("account is required")
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return errors.New("amounts cannot be negative")
	}
	if e.Debit.IsPositive() == e.Credit.IsPositive() {
		return errors.New("exactly one of debit or credit must be greater than zero")
	}
	return nil
}

// Item is a stock line of a sales or purchase voucher
type Item struct {
	ID          uuid.UUID
	LineNo      int
	GodownID    uuid.UUID
	UnitID      uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	TaxRate     decimal.Decimal // percent
	GrossAmount decimal.Decimal
	TaxAmount   decimal.Decimal
	NetAmount   decimal.Decimal
}

// NewItem builds an item and derives its amounts:
// gross = quantity*rate, tax = gross*taxRate/100, net = gross+tax, each
// rounded to two places.
func NewItem(godownID, unitID uuid.UUID, description string, quantity, rate, taxRate decimal.Decimal) (Item, error) {
	if godownID == uuid.Nil {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "Godown is required")
	}
	if unitID == uuid.Nil {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "Unit of measurement is required")
	}
	if !quantity.IsPositive() {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "Quantity must be greater than zero")
	}
	if rate.IsNegative() {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "Rate cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "Tax rate must be between 0 and 100")
	}

	gross := quantity.Mul(rate).Round(2)
	tax := gross.Mul(taxRate).Div(hundred).Round(2)
	return Item{
		GodownID:    godownID,
		UnitID:      unitID,
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Rate:        rate,
		TaxRate:     taxRate,
		GrossAmount: gross,
		TaxAmount:   tax,
		NetAmount:   gross.Add(tax),
	}, nil
}
