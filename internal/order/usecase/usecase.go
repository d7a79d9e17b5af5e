package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/catalog"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order"
	"github.com/fekuna/omnipos-billing-service/internal/order/dto"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo            order.Repository
	catalog         catalog.UseCase
	folios          order.FolioChecker
	publisher       order.EventPublisher
	defaultCurrency model.Currency
	logger          logger.ZapLogger
	now             func() time.Time
}

// NewOrderUseCase wires orders. folios and publisher may be nil; without a
// folio checker only the presence of a folio id is validated, and without a
// publisher no events are emitted.
func NewOrderUseCase(
	repo order.Repository,
	catalogUC catalog.UseCase,
	folios order.FolioChecker,
	publisher order.EventPublisher,
	defaultCurrency model.Currency,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:            repo,
		catalog:         catalogUC,
		folios:          folios,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
		logger:          log,
		now:             time.Now,
	}
}

func (uc *orderUseCase) QuoteCart(ctx context.Context, propertyID string, lines []pricing.LineInput) ([]model.LineItem, pricing.Summary, error) {
	items, err := catalog.ResolveLines(ctx, uc.catalog, propertyID, lines)
	if err != nil {
		return nil, pricing.Summary{}, err
	}
	return items, pricing.Summarize(items, decimal.Zero), nil
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	v := validation.Violations{}
	validation.RequiredString("outlet", input.Outlet, v)

	method := model.PaymentMethod(strings.ToLower(strings.TrimSpace(input.PaymentMethod)))
	validation.Enum("payment_method", method, method.Valid(), model.PaymentMethods, v)

	currency := model.ParseCurrency(input.Currency, uc.defaultCurrency)
	validation.Enum("currency", currency, currency.Valid(), model.Currencies, v)

	folioID := strings.TrimSpace(input.FolioInvoiceID)
	if method == model.PaymentRoomCharge {
		validation.RequiredString("folio_invoice_id", folioID, v)
	}

	items, err := catalog.ResolveLines(ctx, uc.catalog, input.PropertyID, input.Lines)
	var lineViolations validation.Violations
	if errors.As(err, &lineViolations) {
		for field, viol := range lineViolations {
			v[field] = viol
		}
	} else if err != nil {
		return nil, err
	}

	if folioID != "" && uc.folios != nil && v.Empty() {
		folio, err := uc.folios.OpenFolio(ctx, input.PropertyID, folioID)
		if err != nil {
			return nil, err
		}
		switch {
		case folio == nil:
			v.Add("folio_invoice_id", validation.Invalid, nil)
		case folio.Currency != currency:
			// the listener could never post these lines
			v.Add("currency", validation.OneOf, map[string]any{"Values": string(folio.Currency)})
		}
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	summary := pricing.Summarize(items, decimal.Zero)
	now := uc.now()
	o := &model.Order{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		PropertyID:     input.PropertyID,
		Outlet:         strings.TrimSpace(input.Outlet),
		RoomNumber:     optional(input.RoomNumber),
		FolioInvoiceID: optional(folioID),
		PaymentMethod:  method,
		Currency:       currency,
		Status:         model.OrderOpen,
		Subtotal:       summary.Subtotal,
		TotalTax:       summary.TotalTax,
		TotalAmount:    summary.TotalAmount,
		Notes:          strings.TrimSpace(input.Notes),
		CreatedBy:      optional(input.UserID),
		Items:          items,
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	uc.publishCreated(ctx, o)
	return o, nil
}

func (uc *orderUseCase) publishCreated(ctx context.Context, o *model.Order) {
	if uc.publisher == nil {
		return
	}
	event := order.NewOrderCreatedEvent(uuid.New().String(), o, uc.now())
	if err := uc.publisher.Publish(ctx, o.ID, event); err != nil {
		// The order is stored; a folio posting can be replayed from it.
		uc.logger.Error("failed to publish order event",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, propertyID, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.PropertyID != propertyID {
		return nil, order.ErrNotFound
	}
	if o.Items, err = uc.repo.FindItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) SettleOrder(ctx context.Context, propertyID, id string) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, propertyID, id)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod == model.PaymentRoomCharge {
		// Room charges leave the outlet through the folio.
		return nil, order.ErrNotOpen
	}
	return uc.transition(ctx, o, model.OrderSettled, "")
}

func (uc *orderUseCase) VoidOrder(ctx context.Context, propertyID, id, reason string) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, propertyID, id)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, o, model.OrderVoid, strings.TrimSpace(reason))
}

func (uc *orderUseCase) MarkPosted(ctx context.Context, propertyID, id string) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, propertyID, id)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, o, model.OrderPostedToFolio, "")
}

func (uc *orderUseCase) transition(ctx context.Context, o *model.Order, to model.OrderStatus, notes string) (*model.Order, error) {
	if o.Status != model.OrderOpen {
		return nil, order.ErrNotOpen
	}
	now := uc.now()
	ok, err := uc.repo.UpdateStatus(ctx, o.ID, model.OrderOpen, to, notes, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, order.ErrNotOpen
	}

	o.Status = to
	o.UpdatedAt = now
	if notes != "" {
		o.Notes = notes
	}
	uc.logger.Info("order status changed",
		zap.String("order_id", o.ID),
		zap.String("status", string(to)),
	)
	return o, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
