package invoice

import (
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("invoice not found")
	ErrItemNotFound         = errors.New("invoice item not found")
	ErrClosed               = errors.New("invoice is closed")
	ErrHasPayments          = errors.New("invoice has payments")
	ErrOverpayment          = errors.New("payment exceeds outstanding balance")
	ErrDiscountExceedsTotal = errors.New("discount exceeds invoice total")
	ErrBusy                 = errors.New("invoice is locked by another update")
)

// ClosedError names the invoice that refused a change.
type ClosedError struct {
	Number string
	Status model.InvoiceStatus
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("invoice %s is %s", e.Number, e.Status)
}

func (e *ClosedError) Unwrap() error { return ErrClosed }

type OverpaymentError struct {
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment %s exceeds outstanding balance %s", e.Amount, e.Outstanding)
}

func (e *OverpaymentError) Unwrap() error { return ErrOverpayment }
