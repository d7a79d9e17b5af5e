package handler

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/apierr"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	catalogHandler "github.com/fekuna/omnipos-billing-service/internal/catalog/handler"
	"github.com/fekuna/omnipos-billing-service/internal/invoice"
	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

var errTable = apierr.Table{
	{Err: invoice.ErrNotFound, Code: codes.NotFound, MessageID: "ErrNotFound",
		Data: func(error) map[string]any { return map[string]any{"Resource": "invoice"} }},
	{Err: invoice.ErrItemNotFound, Code: codes.NotFound, MessageID: "ErrNotFound",
		Data: func(error) map[string]any { return map[string]any{"Resource": "invoice item"} }},
	{Err: invoice.ErrClosed, Code: codes.FailedPrecondition, MessageID: "ErrInvoiceClosed",
		Data: func(err error) map[string]any {
			var ce *invoice.ClosedError
			if errors.As(err, &ce) {
				return map[string]any{"Number": ce.Number, "Status": string(ce.Status)}
			}
			return map[string]any{"Number": "", "Status": string(model.InvoiceCancelled)}
		}},
	{Err: invoice.ErrHasPayments, Code: codes.FailedPrecondition, MessageID: "ErrInvoiceHasPayments"},
	{Err: invoice.ErrOverpayment, Code: codes.FailedPrecondition, MessageID: "ErrOverpayment",
		Data: func(err error) map[string]any {
			var oe *invoice.OverpaymentError
			if errors.As(err, &oe) {
				return map[string]any{"Amount": oe.Amount.String(), "Outstanding": oe.Outstanding.String()}
			}
			return nil
		}},
	{Err: invoice.ErrDiscountExceedsTotal, Code: codes.InvalidArgument, MessageID: "ErrDiscountExceedsTotal"},
	{Err: invoice.ErrBusy, Code: codes.Unavailable, MessageID: "ErrBusy"},
}

type InvoiceHandler struct {
	uc     invoice.UseCase
	logger logger.ZapLogger
}

func NewInvoiceHandler(uc invoice.UseCase, log logger.ZapLogger) *InvoiceHandler {
	return &InvoiceHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InvoiceHandler) fail(op string, err error) error {
	if errTable.IsInternal(err) {
		h.logger.Error("invoice "+op+" failed", zap.Error(err))
	}
	return errTable.GRPC(err)
}

func (h *InvoiceHandler) CreateInvoice(ctx context.Context, req *billingv1.CreateInvoiceRequest) (*billingv1.InvoiceResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	inv, err := h.uc.CreateInvoice(ctx, CreateInputFromPB(propertyID, auth.GetUserID(ctx), req))
	if err != nil {
		return nil, h.fail("create", err)
	}
	return &billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)}, nil
}

func (h *InvoiceHandler) GetInvoice(ctx context.Context, req *billingv1.GetInvoiceRequest) (*billingv1.InvoiceResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	inv, err := h.uc.GetInvoice(ctx, propertyID, req.ID)
	if err != nil {
		return nil, h.fail("get", err)
	}
	return &billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)}, nil
}

func (h *InvoiceHandler) ListInvoices(ctx context.Context, req *billingv1.ListInvoicesRequest) (*billingv1.ListInvoicesResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	filters := FiltersFromPB(propertyID, req)
	invoices, count, err := h.uc.ListInvoices(ctx, filters)
	if err != nil {
		return nil, h.fail("list", err)
	}
	return ListResponse(invoices, count, filters), nil
}

func (h *InvoiceHandler) AddItems(ctx context.Context, req *billingv1.AddItemsRequest) (*billingv1.InvoiceResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	inv, err := h.uc.AddItems(ctx, &dto.AddItemsInput{
		PropertyID: propertyID,
		InvoiceID:  req.InvoiceID,
		Lines:      catalogHandler.LinesFromPB(req.Items),
	})
	if err != nil {
		return nil, h.fail("add items", err)
	}
	return &billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)}, nil
}

func (h *InvoiceHandler) RemoveItem(ctx context.Context, req *billingv1.RemoveItemRequest) (*billingv1.InvoiceResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	inv, err := h.uc.RemoveItem(ctx, propertyID, req.InvoiceID, req.ItemID)
	if err != nil {
		return nil, h.fail("remove item", err)
	}
	return &billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)}, nil
}

func (h *InvoiceHandler) RecordPayment(ctx context.Context, req *billingv1.RecordPaymentRequest) (*billingv1.RecordPaymentResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	p, inv, err := h.uc.RecordPayment(ctx, PaymentInputFromPB(propertyID, auth.GetUserID(ctx), req))
	if err != nil {
		return nil, h.fail("record payment", err)
	}
	return &billingv1.RecordPaymentResponse{Payment: MapPaymentToPB(p), Invoice: MapInvoiceToPB(inv)}, nil
}

func (h *InvoiceHandler) CancelInvoice(ctx context.Context, req *billingv1.CancelInvoiceRequest) (*billingv1.InvoiceResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	inv, err := h.uc.CancelInvoice(ctx, propertyID, req.ID, req.Reason)
	if err != nil {
		return nil, h.fail("cancel", err)
	}
	return &billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)}, nil
}

func (h *InvoiceHandler) RefreshStatus(ctx context.Context, req *billingv1.RefreshStatusRequest) (*billingv1.InvoiceResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	inv, err := h.uc.RefreshStatus(ctx, propertyID, req.ID, time.Now())
	if err != nil {
		return nil, h.fail("refresh status", err)
	}
	return &billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)}, nil
}

func (h *InvoiceHandler) Receivables(ctx context.Context, req *billingv1.ReceivablesRequest) (*billingv1.ReceivablesResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	r, err := h.uc.Receivables(ctx, propertyID, req.Currency)
	if err != nil {
		return nil, h.fail("receivables", err)
	}
	return MapReceivablesToPB(r), nil
}

func CreateInputFromPB(propertyID, userID string, req *billingv1.CreateInvoiceRequest) *dto.CreateInvoiceInput {
	return &dto.CreateInvoiceInput{
		PropertyID:     propertyID,
		UserID:         userID,
		GuestName:      req.GuestName,
		RoomNumber:     req.RoomNumber,
		ReservationRef: req.ReservationRef,
		Currency:       req.Currency,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		Discounts:      string(req.Discounts),
		Notes:          req.Notes,
		Lines:          catalogHandler.LinesFromPB(req.Items),
	}
}

func PaymentInputFromPB(propertyID, userID string, req *billingv1.RecordPaymentRequest) *dto.RecordPaymentInput {
	return &dto.RecordPaymentInput{
		PropertyID: propertyID,
		InvoiceID:  req.InvoiceID,
		UserID:     userID,
		Amount:     req.Amount,
		Method:     req.Method,
		Reference:  req.Reference,
		ReceivedAt: req.ReceivedAt,
	}
}

func FiltersFromPB(propertyID string, req *billingv1.ListInvoicesRequest) *dto.InvoiceFilters {
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	return &dto.InvoiceFilters{
		PropertyID: propertyID,
		Status:     req.Status,
		GuestName:  req.GuestName,
		RoomNumber: req.RoomNumber,
		DueBefore:  req.DueBefore,
		Page:       page,
		PageSize:   size,
	}
}

func ListResponse(invoices []model.Invoice, count int, filters *dto.InvoiceFilters) *billingv1.ListInvoicesResponse {
	out := make([]*billingv1.Invoice, len(invoices))
	for i := range invoices {
		out[i] = MapInvoiceToPB(&invoices[i])
	}
	return &billingv1.ListInvoicesResponse{
		Invoices: out,
		Total:    count,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}
}

func MapInvoiceToPB(inv *model.Invoice) *billingv1.Invoice {
	if inv == nil {
		return nil
	}
	out := &billingv1.Invoice{
		ID:                 inv.ID,
		Number:             inv.Number,
		GuestName:          inv.GuestName,
		Currency:           string(inv.Currency),
		IssueDate:          inv.IssueDate,
		DueDate:            inv.DueDate,
		Status:             string(inv.Status),
		Subtotal:           inv.Subtotal,
		TotalTax:           inv.TotalTax,
		Discounts:          inv.Discounts,
		TotalAmount:        inv.TotalAmount,
		TotalPaid:          inv.TotalPaid,
		OutstandingBalance: inv.OutstandingBalance,
		LastPaymentDate:    inv.LastPaymentDate,
		Notes:              inv.Notes,
		Items:              catalogHandler.MapLineItemsToPB(inv.Items),
		Timestamps: billingv1.Timestamps{
			CreatedAt: inv.CreatedAt,
			UpdatedAt: inv.UpdatedAt,
		},
	}
	if inv.RoomNumber != nil {
		out.RoomNumber = *inv.RoomNumber
	}
	if inv.ReservationRef != nil {
		out.ReservationRef = *inv.ReservationRef
	}
	for i := range inv.Payments {
		out.Payments = append(out.Payments, MapPaymentToPB(&inv.Payments[i]))
	}
	return out
}

func MapPaymentToPB(p *model.Payment) *billingv1.Payment {
	if p == nil {
		return nil
	}
	out := &billingv1.Payment{
		ID:         p.ID,
		Amount:     p.Amount,
		Method:     string(p.Method),
		Reference:  p.Reference,
		ReceivedAt: p.ReceivedAt,
	}
	if p.RecordedBy != nil {
		out.RecordedBy = *p.RecordedBy
	}
	return out
}

func MapReceivablesToPB(r *invoice.Receivables) *billingv1.ReceivablesResponse {
	out := &billingv1.ReceivablesResponse{
		GeneratedAt: r.GeneratedAt,
		Currencies:  make([]*billingv1.CurrencyReceivables, len(r.Currencies)),
	}
	for i, c := range r.Currencies {
		cr := &billingv1.CurrencyReceivables{
			Currency:         string(c.Currency),
			Buckets:          make([]*billingv1.StatusBucket, len(c.Buckets)),
			TotalBilled:      c.TotalBilled,
			TotalPaid:        c.TotalPaid,
			TotalOutstanding: c.TotalOutstanding,
		}
		for j, b := range c.Buckets {
			cr.Buckets[j] = &billingv1.StatusBucket{
				Status:      string(b.Status),
				Count:       b.Count,
				TotalAmount: b.TotalAmount,
				TotalPaid:   b.TotalPaid,
				Outstanding: b.Outstanding,
			}
		}
		out.Currencies[i] = cr
	}
	return out
}
