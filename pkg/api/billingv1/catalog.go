package billingv1

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/pkg/grpcjson"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

const CatalogServiceName = "omnipos.billing.v1.CatalogService"

type CatalogItem struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	IsActive       bool            `json:"is_active"`
	Timestamps
}

type CreateItemRequest struct {
	Code           string          `json:"code" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Category       string          `json:"category" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

type UpdateItemRequest struct {
	ID             string          `json:"id"`
	Code           string          `json:"code" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Category       string          `json:"category" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	IsActive       bool            `json:"is_active"`
}

type GetItemRequest struct {
	ID string `json:"id"`
}

type DeleteItemRequest struct {
	ID string `json:"id"`
}

type ListItemsRequest struct {
	Category  string `json:"category" form:"category"`
	IsActive  *bool  `json:"is_active" form:"is_active"`
	Query     string `json:"query" form:"q"`
	SortBy    string `json:"sort_by" form:"sort_by"`
	SortOrder string `json:"sort_order" form:"sort_order"`
	Page      int    `json:"page" form:"page"`
	PageSize  int    `json:"page_size" form:"page_size"`
}

type ItemResponse struct {
	Item *CatalogItem `json:"item"`
}

type ListItemsResponse struct {
	Items    []*CatalogItem `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type CatalogServiceServer interface {
	CreateItem(context.Context, *CreateItemRequest) (*ItemResponse, error)
	GetItem(context.Context, *GetItemRequest) (*ItemResponse, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	UpdateItem(context.Context, *UpdateItemRequest) (*ItemResponse, error)
	DeleteItem(context.Context, *DeleteItemRequest) (*Empty, error)
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(CatalogServiceName, "CreateItem", CatalogServiceServer.CreateItem),
		grpcjson.Unary(CatalogServiceName, "GetItem", CatalogServiceServer.GetItem),
		grpcjson.Unary(CatalogServiceName, "ListItems", CatalogServiceServer.ListItems),
		grpcjson.Unary(CatalogServiceName, "UpdateItem", CatalogServiceServer.UpdateItem),
		grpcjson.Unary(CatalogServiceName, "DeleteItem", CatalogServiceServer.DeleteItem),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

type CatalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) *CatalogServiceClient {
	return &CatalogServiceClient{cc: cc}
}

func (c *CatalogServiceClient) CreateItem(ctx context.Context, in *CreateItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return grpcjson.Invoke[ItemResponse](ctx, c.cc, CatalogServiceName, "CreateItem", in, opts...)
}

func (c *CatalogServiceClient) GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return grpcjson.Invoke[ItemResponse](ctx, c.cc, CatalogServiceName, "GetItem", in, opts...)
}

func (c *CatalogServiceClient) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return grpcjson.Invoke[ListItemsResponse](ctx, c.cc, CatalogServiceName, "ListItems", in, opts...)
}

func (c *CatalogServiceClient) UpdateItem(ctx context.Context, in *UpdateItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return grpcjson.Invoke[ItemResponse](ctx, c.cc, CatalogServiceName, "UpdateItem", in, opts...)
}

func (c *CatalogServiceClient) DeleteItem(ctx context.Context, in *DeleteItemRequest, opts ...grpc.CallOption) (*Empty, error) {
	return grpcjson.Invoke[Empty](ctx, c.cc, CatalogServiceName, "DeleteItem", in, opts...)
}
