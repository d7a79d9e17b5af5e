package billingv1

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-billing-service/pkg/grpcjson"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

const InvoiceServiceName = "omnipos.billing.v1.InvoiceService"

type Payment struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
	RecordedBy string          `json:"recorded_by,omitempty"`
}

type Invoice struct {
	ID                 string          `json:"id"`
	Number             string          `json:"number"`
	GuestName          string          `json:"guest_name"`
	RoomNumber         string          `json:"room_number,omitempty"`
	ReservationRef     string          `json:"reservation_ref,omitempty"`
	Currency           string          `json:"currency"`
	IssueDate          time.Time       `json:"issue_date"`
	DueDate            time.Time       `json:"due_date"`
	Status             string          `json:"status"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	Discounts          decimal.Decimal `json:"discounts"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Items              []*LineItem     `json:"items,omitempty"`
	Payments           []*Payment      `json:"payments,omitempty"`
	Timestamps
}

type CreateInvoiceRequest struct {
	GuestName      string      `json:"guest_name" binding:"required"`
	RoomNumber     string      `json:"room_number"`
	ReservationRef string      `json:"reservation_ref"`
	Currency       string      `json:"currency"`
	IssueDate      *time.Time  `json:"issue_date"`
	DueDate        *time.Time  `json:"due_date"`
	Discounts      FormValue   `json:"discounts"`
	Notes          string      `json:"notes"`
	Items          []LineInput `json:"items" binding:"required"`
}

type GetInvoiceRequest struct {
	ID string `json:"id"`
}

type ListInvoicesRequest struct {
	Status     string     `json:"status" form:"status"`
	GuestName  string     `json:"guest_name" form:"guest_name"`
	RoomNumber string     `json:"room_number" form:"room_number"`
	DueBefore  *time.Time `json:"due_before" form:"due_before" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int        `json:"page" form:"page"`
	PageSize   int        `json:"page_size" form:"page_size"`
}

type AddItemsRequest struct {
	InvoiceID string      `json:"invoice_id"`
	Items     []LineInput `json:"items" binding:"required"`
}

type RemoveItemRequest struct {
	InvoiceID string `json:"invoice_id"`
	ItemID    string `json:"item_id"`
}

type RecordPaymentRequest struct {
	InvoiceID  string          `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method" binding:"required"`
	Reference  string          `json:"reference"`
	ReceivedAt *time.Time      `json:"received_at"`
}

type CancelInvoiceRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type RefreshStatusRequest struct {
	ID string `json:"id"`
}

type InvoiceResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
	Invoice *Invoice `json:"invoice"`
}

type ListInvoicesResponse struct {
	Invoices []*Invoice `json:"invoices"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

type ReceivablesRequest struct {
	Currency string `json:"currency" form:"currency"`
}

type StatusBucket struct {
	Status      string          `json:"status"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type CurrencyReceivables struct {
	Currency         string          `json:"currency"`
	Buckets          []*StatusBucket `json:"buckets"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

type ReceivablesResponse struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Currencies  []*CurrencyReceivables `json:"currencies"`
}

type InvoiceServiceServer interface {
	CreateInvoice(context.Context, *CreateInvoiceRequest) (*InvoiceResponse, error)
	GetInvoice(context.Context, *GetInvoiceRequest) (*InvoiceResponse, error)
	ListInvoices(context.Context, *ListInvoicesRequest) (*ListInvoicesResponse, error)
	AddItems(context.Context, *AddItemsRequest) (*InvoiceResponse, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*InvoiceResponse, error)
	RecordPayment(context.Context, *RecordPaymentRequest) (*RecordPaymentResponse, error)
	CancelInvoice(context.Context, *CancelInvoiceRequest) (*InvoiceResponse, error)
	RefreshStatus(context.Context, *RefreshStatusRequest) (*InvoiceResponse, error)
	Receivables(context.Context, *ReceivablesRequest) (*ReceivablesResponse, error)
}

var InvoiceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InvoiceServiceName,
	HandlerType: (*InvoiceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(InvoiceServiceName, "CreateInvoice", InvoiceServiceServer.CreateInvoice),
		grpcjson.Unary(InvoiceServiceName, "GetInvoice", InvoiceServiceServer.GetInvoice),
		grpcjson.Unary(InvoiceServiceName, "ListInvoices", InvoiceServiceServer.ListInvoices),
		grpcjson.Unary(InvoiceServiceName, "AddItems", InvoiceServiceServer.AddItems),
		grpcjson.Unary(InvoiceServiceName, "RemoveItem", InvoiceServiceServer.RemoveItem),
		grpcjson.Unary(InvoiceServiceName, "RecordPayment", InvoiceServiceServer.RecordPayment),
		grpcjson.Unary(InvoiceServiceName, "CancelInvoice", InvoiceServiceServer.CancelInvoice),
		grpcjson.Unary(InvoiceServiceName, "RefreshStatus", InvoiceServiceServer.RefreshStatus),
		grpcjson.Unary(InvoiceServiceName, "Receivables", InvoiceServiceServer.Receivables),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterInvoiceServiceServer(s grpc.ServiceRegistrar, srv InvoiceServiceServer) {
	s.RegisterService(&InvoiceService_ServiceDesc, srv)
}

type InvoiceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInvoiceServiceClient(cc grpc.ClientConnInterface) *InvoiceServiceClient {
	return &InvoiceServiceClient{cc: cc}
}

func (c *InvoiceServiceClient) CreateInvoice(ctx context.Context, in *CreateInvoiceRequest, opts ...grpc.CallOption) (*InvoiceResponse, error) {
	return grpcjson.Invoke[InvoiceResponse](ctx, c.cc, InvoiceServiceName, "CreateInvoice", in, opts...)
}

func (c *InvoiceServiceClient) GetInvoice(ctx context.Context, in *GetInvoiceRequest, opts ...grpc.CallOption) (*InvoiceResponse, error) {
	return grpcjson.Invoke[InvoiceResponse](ctx, c.cc, InvoiceServiceName, "GetInvoice", in, opts...)
}

func (c *InvoiceServiceClient) ListInvoices(ctx context.Context, in *ListInvoicesRequest, opts ...grpc.CallOption) (*ListInvoicesResponse, error) {
	return grpcjson.Invoke[ListInvoicesResponse](ctx, c.cc, InvoiceServiceName, "ListInvoices", in, opts...)
}

func (c *InvoiceServiceClient) AddItems(ctx context.Context, in *AddItemsRequest, opts ...grpc.CallOption) (*InvoiceResponse, error) {
	return grpcjson.Invoke[InvoiceResponse](ctx, c.cc, InvoiceServiceName, "AddItems", in, opts...)
}

func (c *InvoiceServiceClient) RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*InvoiceResponse, error) {
	return grpcjson.Invoke[InvoiceResponse](ctx, c.cc, InvoiceServiceName, "RemoveItem", in, opts...)
}

func (c *InvoiceServiceClient) RecordPayment(ctx context.Context, in *RecordPaymentRequest, opts ...grpc.CallOption) (*RecordPaymentResponse, error) {
	return grpcjson.Invoke[RecordPaymentResponse](ctx, c.cc, InvoiceServiceName, "RecordPayment", in, opts...)
}

func (c *InvoiceServiceClient) CancelInvoice(ctx context.Context, in *CancelInvoiceRequest, opts ...grpc.CallOption) (*InvoiceResponse, error) {
	return grpcjson.Invoke[InvoiceResponse](ctx, c.cc, InvoiceServiceName, "CancelInvoice", in, opts...)
}

func (c *InvoiceServiceClient) RefreshStatus(ctx context.Context, in *RefreshStatusRequest, opts ...grpc.CallOption) (*InvoiceResponse, error) {
	return grpcjson.Invoke[InvoiceResponse](ctx, c.cc, InvoiceServiceName, "RefreshStatus", in, opts...)
}

func (c *InvoiceServiceClient) Receivables(ctx context.Context, in *ReceivablesRequest, opts ...grpc.CallOption) (*ReceivablesResponse, error) {
	return grpcjson.Invoke[ReceivablesResponse](ctx, c.cc, InvoiceServiceName, "Receivables", in, opts...)
}
