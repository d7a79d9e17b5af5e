package billingv1

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-billing-service/pkg/grpcjson"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

const OrderServiceName = "omnipos.billing.v1.OrderService"

type Order struct {
	ID             string          `json:"id"`
	Outlet         string          `json:"outlet"`
	RoomNumber     string          `json:"room_number,omitempty"`
	FolioInvoiceID string          `json:"folio_invoice_id,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Notes          string          `json:"notes,omitempty"`
	Items          []*LineItem     `json:"items"`
	Timestamps
}

type QuoteCartRequest struct {
	Items []LineInput `json:"items" binding:"required"`
}

type QuoteCartResponse struct {
	Items   []*LineItem `json:"items"`
	Summary Summary     `json:"summary"`
}

type CreateOrderRequest struct {
	Outlet         string      `json:"outlet" binding:"required"`
	RoomNumber     string      `json:"room_number"`
	FolioInvoiceID string      `json:"folio_invoice_id"`
	PaymentMethod  string      `json:"payment_method" binding:"required"`
	Currency       string      `json:"currency"`
	Notes          string      `json:"notes"`
	Items          []LineInput `json:"items" binding:"required"`
}

type GetOrderRequest struct {
	ID string `json:"id"`
}

type SettleOrderRequest struct {
	ID string `json:"id"`
}

type VoidOrderRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type ListOrdersRequest struct {
	Status         string     `json:"status" form:"status"`
	Outlet         string     `json:"outlet" form:"outlet"`
	FolioInvoiceID string     `json:"folio_invoice_id" form:"folio_invoice_id"`
	From           *time.Time `json:"from" form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To             *time.Time `json:"to" form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page           int        `json:"page" form:"page"`
	PageSize       int        `json:"page_size" form:"page_size"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}

type ListOrdersResponse struct {
	Orders   []*Order `json:"orders"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

type OrderServiceServer interface {
	QuoteCart(context.Context, *QuoteCartRequest) (*QuoteCartResponse, error)
	CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	SettleOrder(context.Context, *SettleOrderRequest) (*OrderResponse, error)
	VoidOrder(context.Context, *VoidOrderRequest) (*OrderResponse, error)
}

var OrderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: OrderServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(OrderServiceName, "QuoteCart", OrderServiceServer.QuoteCart),
		grpcjson.Unary(OrderServiceName, "CreateOrder", OrderServiceServer.CreateOrder),
		grpcjson.Unary(OrderServiceName, "GetOrder", OrderServiceServer.GetOrder),
		grpcjson.Unary(OrderServiceName, "ListOrders", OrderServiceServer.ListOrders),
		grpcjson.Unary(OrderServiceName, "SettleOrder", OrderServiceServer.SettleOrder),
		grpcjson.Unary(OrderServiceName, "VoidOrder", OrderServiceServer.VoidOrder),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderService_ServiceDesc, srv)
}

type OrderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderServiceClient(cc grpc.ClientConnInterface) *OrderServiceClient {
	return &OrderServiceClient{cc: cc}
}

func (c *OrderServiceClient) QuoteCart(ctx context.Context, in *QuoteCartRequest, opts ...grpc.CallOption) (*QuoteCartResponse, error) {
	return grpcjson.Invoke[QuoteCartResponse](ctx, c.cc, OrderServiceName, "QuoteCart", in, opts...)
}

func (c *OrderServiceClient) CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return grpcjson.Invoke[OrderResponse](ctx, c.cc, OrderServiceName, "CreateOrder", in, opts...)
}

func (c *OrderServiceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return grpcjson.Invoke[OrderResponse](ctx, c.cc, OrderServiceName, "GetOrder", in, opts...)
}

func (c *OrderServiceClient) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return grpcjson.Invoke[ListOrdersResponse](ctx, c.cc, OrderServiceName, "ListOrders", in, opts...)
}

func (c *OrderServiceClient) SettleOrder(ctx context.Context, in *SettleOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return grpcjson.Invoke[OrderResponse](ctx, c.cc, OrderServiceName, "SettleOrder", in, opts...)
}

func (c *OrderServiceClient) VoidOrder(ctx context.Context, in *VoidOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return grpcjson.Invoke[OrderResponse](ctx, c.cc, OrderServiceName, "VoidOrder", in, opts...)
}
