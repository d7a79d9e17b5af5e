package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/catalog"
	"github.com/fekuna/omnipos-billing-service/internal/invoice"
	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	"github.com/fekuna/omnipos-billing-service/internal/ledger"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	lockAttempts   = 3
	lockRetryDelay = 100 * time.Millisecond
)

type Options struct {
	// AllowOverpayment lets a payment exceed the outstanding balance.
	AllowOverpayment bool
	DefaultCurrency  model.Currency
	// PaymentTerm is added to the issue date when no due date is given. Zero
	// means due at the end of the issue day.
	PaymentTerm time.Duration
	LockTTL     time.Duration
}

type invoiceUseCase struct {
	repo      invoice.Repository
	catalog   catalog.UseCase
	locker    invoice.Locker
	scheduler invoice.Scheduler
	opts      Options
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewInvoiceUseCase wires invoices. scheduler may be nil, in which case
// overdue status is only picked up by RefreshStatus calls and reports.
func NewInvoiceUseCase(
	repo invoice.Repository,
	catalogUC catalog.UseCase,
	locker invoice.Locker,
	scheduler invoice.Scheduler,
	opts Options,
	log logger.ZapLogger,
) invoice.UseCase {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Second
	}
	return &invoiceUseCase{
		repo:      repo,
		catalog:   catalogUC,
		locker:    locker,
		scheduler: scheduler,
		opts:      opts,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *invoiceUseCase) CreateInvoice(ctx context.Context, input *dto.CreateInvoiceInput) (*model.Invoice, error) {
	v := validation.Violations{}
	validation.RequiredString("guest_name", input.GuestName, v)

	currency := model.ParseCurrency(input.Currency, uc.opts.DefaultCurrency)
	validation.Enum("currency", currency, currency.Valid(), model.Currencies, v)

	discounts, ok := parseDiscount(input.Discounts)
	if !ok {
		v.Add("discounts", validation.Invalid, nil)
	}
	validation.NonNegativeDecimal("discounts", discounts, v)

	now := uc.now()
	issue := now
	if input.IssueDate != nil {
		issue = *input.IssueDate
	}
	due := issue.Add(uc.opts.PaymentTerm)
	if uc.opts.PaymentTerm <= 0 {
		// same-day term: due when the issue day closes
		y, m, d := issue.Date()
		due = time.Date(y, m, d+1, 0, 0, 0, 0, issue.Location())
	}
	if input.DueDate != nil {
		due = *input.DueDate
	}
	if due.Before(issue) {
		v.Add("due_date", validation.Invalid, nil)
	}

	items, err := catalog.ResolveLines(ctx, uc.catalog, input.PropertyID, input.Lines)
	if err := mergeViolations(v, err); err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if discounts.GreaterThan(pricing.Summarize(items, decimal.Zero).Gross()) {
		return nil, invoice.ErrDiscountExceedsTotal
	}

	inv := &model.Invoice{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		PropertyID:     input.PropertyID,
		GuestName:      strings.TrimSpace(input.GuestName),
		RoomNumber:     optional(input.RoomNumber),
		ReservationRef: optional(input.ReservationRef),
		Currency:       currency,
		IssueDate:      issue,
		DueDate:        due,
		Status:         model.InvoicePending,
		Discounts:      discounts,
		Notes:          strings.TrimSpace(input.Notes),
		CreatedBy:      optional(input.UserID),
		Items:          items,
	}
	derive(inv, now)

	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	uc.logger.Info("invoice created",
		zap.String("invoice_id", inv.ID),
		zap.String("number", inv.Number),
		zap.String("total", inv.TotalAmount.String()),
	)

	uc.scheduleOverdueCheck(ctx, inv)
	return inv, nil
}

func (uc *invoiceUseCase) scheduleOverdueCheck(ctx context.Context, inv *model.Invoice) {
	if uc.scheduler == nil || inv.Status == model.InvoicePaid {
		return
	}
	if err := uc.scheduler.ScheduleOverdueCheck(ctx, inv.PropertyID, inv.ID, inv.DueDate); err != nil {
		uc.logger.Warn("failed to schedule overdue check",
			zap.String("invoice_id", inv.ID),
			zap.Error(err),
		)
	}
}

func (uc *invoiceUseCase) GetInvoice(ctx context.Context, propertyID, id string) (*model.Invoice, error) {
	inv, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.PropertyID != propertyID {
		return nil, invoice.ErrNotFound
	}
	if inv.Items, err = uc.repo.FindItems(ctx, inv.ID); err != nil {
		return nil, err
	}
	if inv.Payments, err = uc.repo.FindPayments(ctx, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (uc *invoiceUseCase) ListInvoices(ctx context.Context, filters *dto.InvoiceFilters) ([]model.Invoice, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *invoiceUseCase) OpenFolio(ctx context.Context, propertyID, invoiceID string) (*model.Invoice, error) {
	inv, err := uc.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.PropertyID != propertyID || inv.IsCancelled() {
		return nil, nil
	}
	return inv, nil
}

func (uc *invoiceUseCase) AddItems(ctx context.Context, input *dto.AddItemsInput) (*model.Invoice, error) {
	var out *model.Invoice
	err := uc.withLock(ctx, input.InvoiceID, func() error {
		inv, err := uc.loadOpen(ctx, input.PropertyID, input.InvoiceID)
		if err != nil {
			return err
		}
		items, err := catalog.ResolveLines(ctx, uc.catalog, inv.PropertyID, input.Lines)
		if err != nil {
			return err
		}
		if err := uc.appendItems(ctx, inv, items); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

func (uc *invoiceUseCase) PostOrder(ctx context.Context, input *dto.PostOrderInput) (*model.Invoice, error) {
	v := validation.Violations{}
	if len(input.Items) == 0 {
		v.Add("items", validation.Required, nil)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var out *model.Invoice
	err := uc.withLock(ctx, input.InvoiceID, func() error {
		inv, err := uc.loadOpen(ctx, input.PropertyID, input.InvoiceID)
		if err != nil {
			return err
		}
		if input.Currency != "" && input.Currency != inv.Currency {
			v.Add("currency", validation.OneOf, map[string]any{"Values": string(inv.Currency)})
			return v
		}

		posted, err := uc.repo.HasSourceOrder(ctx, inv.ID, input.OrderID)
		if err != nil {
			return err
		}
		if posted {
			uc.logger.Info("order already on folio",
				zap.String("invoice_id", inv.ID),
				zap.String("order_id", input.OrderID),
			)
			out = inv
			return nil
		}

		now := uc.now()
		orderID := input.OrderID
		items := make([]model.LineItem, len(input.Items))
		for i, src := range input.Items {
			items[i] = model.LineItem{
				ID:             uuid.New().String(),
				SourceOrderID:  &orderID,
				CatalogItemID:  src.CatalogItemID,
				Category:       src.Category,
				Description:    src.Description,
				Quantity:       src.Quantity,
				UnitPrice:      src.UnitPrice,
				TaxRatePercent: src.TaxRatePercent,
				CreatedAt:      now,
			}
			if items[i].Quantity < 1 {
				items[i].Quantity = 1
			}
			pricing.Apply(&items[i])
		}
		if err := uc.appendItems(ctx, inv, items); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

func (uc *invoiceUseCase) appendItems(ctx context.Context, inv *model.Invoice, items []model.LineItem) error {
	next := 0
	for _, it := range inv.Items {
		if it.Position >= next {
			next = it.Position + 1
		}
	}
	for i := range items {
		items[i].InvoiceID = &inv.ID
		items[i].Position = next + i
	}

	inv.Items = append(inv.Items, items...)
	derive(inv, uc.now())
	return uc.repo.AddItems(ctx, inv, items)
}

func (uc *invoiceUseCase) RemoveItem(ctx context.Context, propertyID, invoiceID, itemID string) (*model.Invoice, error) {
	var out *model.Invoice
	err := uc.withLock(ctx, invoiceID, func() error {
		inv, err := uc.loadOpen(ctx, propertyID, invoiceID)
		if err != nil {
			return err
		}

		remaining := make([]model.LineItem, 0, len(inv.Items))
		for _, it := range inv.Items {
			if it.ID != itemID {
				remaining = append(remaining, it)
			}
		}
		if len(remaining) == len(inv.Items) {
			return invoice.ErrItemNotFound
		}
		if len(remaining) == 0 {
			v := validation.Violations{}
			v.Add("items", validation.Required, nil)
			return v
		}
		if inv.Discounts.GreaterThan(pricing.Summarize(remaining, decimal.Zero).Gross()) {
			return invoice.ErrDiscountExceedsTotal
		}

		inv.Items = remaining
		derive(inv, uc.now())
		if err := uc.repo.RemoveItem(ctx, inv, itemID); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

func (uc *invoiceUseCase) RecordPayment(ctx context.Context, input *dto.RecordPaymentInput) (*model.Payment, *model.Invoice, error) {
	v := validation.Violations{}
	validation.PositiveDecimal("amount", input.Amount, v)
	method := model.PaymentMethod(strings.ToLower(strings.TrimSpace(input.Method)))
	validation.Enum("method", method, method.Valid(), model.PaymentMethods, v)
	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	var payment *model.Payment
	var out *model.Invoice
	err := uc.withLock(ctx, input.InvoiceID, func() error {
		inv, err := uc.loadOpen(ctx, input.PropertyID, input.InvoiceID)
		if err != nil {
			return err
		}

		now := uc.now()
		derive(inv, now)
		if !uc.opts.AllowOverpayment && input.Amount.GreaterThan(inv.OutstandingBalance) {
			return &invoice.OverpaymentError{Amount: input.Amount, Outstanding: inv.OutstandingBalance}
		}

		received := now
		if input.ReceivedAt != nil {
			received = *input.ReceivedAt
		}
		p := model.Payment{
			ID:         uuid.New().String(),
			InvoiceID:  inv.ID,
			Amount:     input.Amount,
			Method:     method,
			Reference:  strings.TrimSpace(input.Reference),
			ReceivedAt: received,
			RecordedBy: optional(input.UserID),
			CreatedAt:  now,
		}
		inv.Payments = ledger.RecordPayment(inv.Payments, p)
		derive(inv, now)

		if err := uc.repo.AddPayment(ctx, inv, &p); err != nil {
			return err
		}
		uc.logger.Info("payment recorded",
			zap.String("invoice_id", inv.ID),
			zap.String("amount", p.Amount.String()),
			zap.String("outstanding", inv.OutstandingBalance.String()),
			zap.String("status", string(inv.Status)),
		)
		payment, out = &p, inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, out, nil
}

func (uc *invoiceUseCase) CancelInvoice(ctx context.Context, propertyID, id, reason string) (*model.Invoice, error) {
	var out *model.Invoice
	err := uc.withLock(ctx, id, func() error {
		inv, err := uc.loadOpen(ctx, propertyID, id)
		if err != nil {
			return err
		}
		if len(inv.Payments) > 0 {
			return invoice.ErrHasPayments
		}

		inv.Status = model.InvoiceCancelled
		if reason = strings.TrimSpace(reason); reason != "" {
			inv.Notes = strings.TrimSpace(inv.Notes + "\ncancelled: " + reason)
		}
		inv.UpdatedAt = uc.now()
		if err := uc.repo.UpdateFigures(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

func (uc *invoiceUseCase) RefreshStatus(ctx context.Context, propertyID, id string, now time.Time) (*model.Invoice, error) {
	var out *model.Invoice
	err := uc.withLock(ctx, id, func() error {
		inv, err := uc.GetInvoice(ctx, propertyID, id)
		if err != nil {
			return err
		}
		out = inv
		if inv.IsCancelled() {
			return nil
		}

		before := *inv
		derive(inv, now)
		if !figuresChanged(&before, inv) {
			return nil
		}
		if err := uc.repo.UpdateFigures(ctx, inv); err != nil {
			return err
		}
		uc.logger.Info("invoice status refreshed",
			zap.String("invoice_id", inv.ID),
			zap.String("from", string(before.Status)),
			zap.String("to", string(inv.Status)),
		)
		return nil
	})
	return out, err
}

func (uc *invoiceUseCase) Receivables(ctx context.Context, propertyID, currency string) (*invoice.Receivables, error) {
	invoices, err := uc.repo.FindForReport(ctx, propertyID, strings.ToUpper(strings.TrimSpace(currency)))
	if err != nil {
		return nil, err
	}
	return invoice.BuildReceivables(invoices, uc.now()), nil
}

// loadOpen fetches the invoice with items and payments and refuses
// cancelled ones.
func (uc *invoiceUseCase) loadOpen(ctx context.Context, propertyID, id string) (*model.Invoice, error) {
	inv, err := uc.GetInvoice(ctx, propertyID, id)
	if err != nil {
		return nil, err
	}
	if inv.IsCancelled() {
		return nil, &invoice.ClosedError{Number: inv.Number, Status: inv.Status}
	}
	return inv, nil
}

func (uc *invoiceUseCase) withLock(ctx context.Context, invoiceID string, fn func() error) error {
	key := "lock:invoice:" + invoiceID
	value := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, uc.opts.LockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire invoice lock", zap.String("key", key), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	if !acquired {
		return invoice.ErrBusy
	}

	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), key, value); err != nil {
			uc.logger.Warn("failed to release invoice lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn()
}

// derive recomputes every stored figure of inv from its items, discounts and
// payments, then classifies it at now.
func derive(inv *model.Invoice, now time.Time) {
	summary := pricing.Summarize(inv.Items, inv.Discounts)
	inv.Subtotal = summary.Subtotal
	inv.TotalTax = summary.TotalTax
	inv.TotalAmount = summary.TotalAmount

	st := ledger.ComputePaymentStatus(inv.TotalAmount, inv.Payments)
	inv.TotalPaid = st.TotalPaid
	inv.OutstandingBalance = st.OutstandingBalance
	inv.LastPaymentDate = st.LastPaymentDate

	inv.Status = ledger.Reclassify(inv, now)
	inv.UpdatedAt = now
}

func figuresChanged(a, b *model.Invoice) bool {
	return a.Status != b.Status ||
		!a.TotalAmount.Equal(b.TotalAmount) ||
		!a.TotalPaid.Equal(b.TotalPaid) ||
		!a.OutstandingBalance.Equal(b.OutstandingBalance)
}

func parseDiscount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func mergeViolations(v validation.Violations, err error) error {
	var other validation.Violations
	if errors.As(err, &other) {
		for field, viol := range other {
			if _, ok := v[field]; !ok {
				v[field] = viol
			}
		}
		return nil
	}
	return err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
