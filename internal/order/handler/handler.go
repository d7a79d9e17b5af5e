package handler

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/apierr"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	catalogHandler "github.com/fekuna/omnipos-billing-service/internal/catalog/handler"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order"
	"github.com/fekuna/omnipos-billing-service/internal/order/dto"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

var errTable = apierr.Table{
	{Err: order.ErrNotFound, Code: codes.NotFound, MessageID: "ErrNotFound",
		Data: func(error) map[string]any { return map[string]any{"Resource": "order"} }},
	{Err: order.ErrNotOpen, Code: codes.FailedPrecondition, MessageID: "ErrOrderNotOpen"},
}

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) fail(op string, err error) error {
	if errTable.IsInternal(err) {
		h.logger.Error("order "+op+" failed", zap.Error(err))
	}
	return errTable.GRPC(err)
}

func (h *OrderHandler) QuoteCart(ctx context.Context, req *billingv1.QuoteCartRequest) (*billingv1.QuoteCartResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	items, summary, err := h.uc.QuoteCart(ctx, propertyID, catalogHandler.LinesFromPB(req.Items))
	if err != nil {
		return nil, h.fail("quote", err)
	}
	return &billingv1.QuoteCartResponse{
		Items:   catalogHandler.MapLineItemsToPB(items),
		Summary: catalogHandler.MapSummaryToPB(summary),
	}, nil
}

func (h *OrderHandler) CreateOrder(ctx context.Context, req *billingv1.CreateOrderRequest) (*billingv1.OrderResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	o, err := h.uc.CreateOrder(ctx, CreateInputFromPB(propertyID, auth.GetUserID(ctx), req))
	if err != nil {
		return nil, h.fail("create", err)
	}
	return &billingv1.OrderResponse{Order: MapOrderToPB(o)}, nil
}

func (h *OrderHandler) GetOrder(ctx context.Context, req *billingv1.GetOrderRequest) (*billingv1.OrderResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	o, err := h.uc.GetOrder(ctx, propertyID, req.ID)
	if err != nil {
		return nil, h.fail("get", err)
	}
	return &billingv1.OrderResponse{Order: MapOrderToPB(o)}, nil
}

func (h *OrderHandler) ListOrders(ctx context.Context, req *billingv1.ListOrdersRequest) (*billingv1.ListOrdersResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	filters := FiltersFromPB(propertyID, req)
	orders, count, err := h.uc.ListOrders(ctx, filters)
	if err != nil {
		return nil, h.fail("list", err)
	}
	return ListResponse(orders, count, filters), nil
}

func (h *OrderHandler) SettleOrder(ctx context.Context, req *billingv1.SettleOrderRequest) (*billingv1.OrderResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	o, err := h.uc.SettleOrder(ctx, propertyID, req.ID)
	if err != nil {
		return nil, h.fail("settle", err)
	}
	return &billingv1.OrderResponse{Order: MapOrderToPB(o)}, nil
}

func (h *OrderHandler) VoidOrder(ctx context.Context, req *billingv1.VoidOrderRequest) (*billingv1.OrderResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	o, err := h.uc.VoidOrder(ctx, propertyID, req.ID, req.Reason)
	if err != nil {
		return nil, h.fail("void", err)
	}
	return &billingv1.OrderResponse{Order: MapOrderToPB(o)}, nil
}

func CreateInputFromPB(propertyID, userID string, req *billingv1.CreateOrderRequest) *dto.CreateOrderInput {
	return &dto.CreateOrderInput{
		PropertyID:     propertyID,
		UserID:         userID,
		Outlet:         req.Outlet,
		RoomNumber:     req.RoomNumber,
		FolioInvoiceID: req.FolioInvoiceID,
		PaymentMethod:  req.PaymentMethod,
		Currency:       req.Currency,
		Notes:          req.Notes,
		Lines:          catalogHandler.LinesFromPB(req.Items),
	}
}

func FiltersFromPB(propertyID string, req *billingv1.ListOrdersRequest) *dto.OrderFilters {
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	return &dto.OrderFilters{
		PropertyID:     propertyID,
		Status:         req.Status,
		Outlet:         req.Outlet,
		FolioInvoiceID: req.FolioInvoiceID,
		From:           req.From,
		To:             req.To,
		Page:           page,
		PageSize:       size,
	}
}

func ListResponse(orders []model.Order, count int, filters *dto.OrderFilters) *billingv1.ListOrdersResponse {
	out := make([]*billingv1.Order, len(orders))
	for i := range orders {
		out[i] = MapOrderToPB(&orders[i])
	}
	return &billingv1.ListOrdersResponse{
		Orders:   out,
		Total:    count,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}
}

func MapOrderToPB(o *model.Order) *billingv1.Order {
	if o == nil {
		return nil
	}
	out := &billingv1.Order{
		ID:            o.ID,
		Outlet:        o.Outlet,
		PaymentMethod: string(o.PaymentMethod),
		Currency:      string(o.Currency),
		Status:        string(o.Status),
		Subtotal:      o.Subtotal,
		TotalTax:      o.TotalTax,
		TotalAmount:   o.TotalAmount,
		Notes:         o.Notes,
		Items:         catalogHandler.MapLineItemsToPB(o.Items),
		Timestamps: billingv1.Timestamps{
			CreatedAt: o.CreatedAt,
			UpdatedAt: o.UpdatedAt,
		},
	}
	if o.RoomNumber != nil {
		out.RoomNumber = *o.RoomNumber
	}
	if o.FolioInvoiceID != nil {
		out.FolioInvoiceID = *o.FolioInvoiceID
	}
	return out
}
