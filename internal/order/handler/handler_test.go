package handler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/internal/httpx"
	"github.com/fekuna/omnipos-billing-service/internal/middleware"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order"
	"github.com/fekuna/omnipos-billing-service/internal/order/dto"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/fekuna/omnipos-billing-service/pkg/locale"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeUseCase struct {
	order.UseCase
	lastLines  []pricing.LineInput
	lastCreate *dto.CreateOrderInput
	voidReason string
}

func (f *fakeUseCase) QuoteCart(_ context.Context, _ string, lines []pricing.LineInput) ([]model.LineItem, pricing.Summary, error) {
	f.lastLines = lines
	items := make([]model.LineItem, len(lines))
	for i, l := range lines {
		items[i] = model.LineItem{
			Description:    l.Description,
			Quantity:       pricing.NormalizeQuantity(l.Quantity),
			UnitPrice:      pricing.NormalizeAmount(l.UnitPrice),
			TaxRatePercent: pricing.NormalizeAmount(l.TaxRatePercent),
		}
		pricing.Apply(&items[i])
	}
	return items, pricing.Summarize(items, decimal.Zero), nil
}

func (f *fakeUseCase) CreateOrder(_ context.Context, in *dto.CreateOrderInput) (*model.Order, error) {
	f.lastCreate = in
	if len(in.Lines) == 0 {
		v := validation.Violations{}
		v.Add("items", validation.Required, nil)
		return nil, v
	}
	return &model.Order{BaseModel: model.BaseModel{ID: "order-1"}, Outlet: in.Outlet, Status: model.OrderOpen}, nil
}

func (f *fakeUseCase) GetOrder(_ context.Context, _, id string) (*model.Order, error) {
	if id != "order-1" {
		return nil, order.ErrNotFound
	}
	return &model.Order{BaseModel: model.BaseModel{ID: id}, Status: model.OrderSettled}, nil
}

func (f *fakeUseCase) VoidOrder(_ context.Context, _, id, reason string) (*model.Order, error) {
	f.voidReason = reason
	if id == "order-1" {
		return nil, order.ErrNotOpen
	}
	return &model.Order{BaseModel: model.BaseModel{ID: id}, Status: model.OrderVoid}, nil
}

func newEngine(uc order.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.GinContext())
	NewOrderHTTPHandler(uc, httpx.NewResponder(locale.MustTranslator(), logger.NewNop())).
		RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func do(engine *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderPropertyID, "prop-1")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHTTP_QuoteCart(t *testing.T) {
	uc := &fakeUseCase{}
	w := do(newEngine(uc), http.MethodPost, "/api/v1/orders/quote", `{"items":[
		{"description":"Club sandwich","quantity":"2","unit_price":450,"tax_rate_percent":"5"},
		{"description":"Coffee","quantity":"x","unit_price":"150","tax_rate_percent":18}
	]}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp billingv1.QuoteCartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "x", uc.lastLines[1].Quantity)
	assert.True(t, decimal.RequireFromString("1122").Equal(resp.Summary.TotalAmount))
}

func TestHTTP_CreateOrder(t *testing.T) {
	uc := &fakeUseCase{}
	engine := newEngine(uc)

	w := do(engine, http.MethodPost, "/api/v1/orders",
		`{"outlet":"Bar","payment_method":"card","items":[{"description":"Soda","quantity":1,"unit_price":"90"}]}`,
		map[string]string{auth.HeaderUserID: "user-9"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "user-9", uc.lastCreate.UserID)
	assert.Equal(t, "prop-1", uc.lastCreate.PropertyID)

	w = do(engine, http.MethodPost, "/api/v1/orders", `{"outlet":"Bar","payment_method":"card"}`,
		map[string]string{"Accept-Language": "id"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "items wajib diisi", resp.Details["items"])
}

func TestHTTP_VoidOrder(t *testing.T) {
	uc := &fakeUseCase{}
	engine := newEngine(uc)

	w := do(engine, http.MethodPost, "/api/v1/orders/order-2/void", `{"reason":"duplicate"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "duplicate", uc.voidReason)

	w = do(engine, http.MethodPost, "/api/v1/orders/order-1/void", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "order is no longer open")
}

func TestHTTP_GetOrderNotFound(t *testing.T) {
	w := do(newEngine(&fakeUseCase{}), http.MethodGet, "/api/v1/orders/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGRPC_OrderService(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(middleware.ContextInterceptor()))
	billingv1.RegisterOrderServiceServer(srv, NewOrderHandler(&fakeUseCase{}, logger.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	client := billingv1.NewOrderServiceClient(conn)
	ctx := metadata.AppendToOutgoingContext(context.Background(), auth.HeaderPropertyID, "prop-1")

	resp, err := client.GetOrder(ctx, &billingv1.GetOrderRequest{ID: "order-1"})
	require.NoError(t, err)
	assert.Equal(t, "settled", resp.Order.Status)

	_, err = client.VoidOrder(ctx, &billingv1.VoidOrderRequest{ID: "order-1"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.CreateOrder(ctx, &billingv1.CreateOrderRequest{Outlet: "Bar", PaymentMethod: "card"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	quote, err := client.QuoteCart(ctx, &billingv1.QuoteCartRequest{Items: []billingv1.LineInput{
		{Description: "Coffee", Quantity: "2", UnitPrice: "150", TaxRatePercent: "18"},
	}})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("354").Equal(quote.Summary.TotalAmount))
}
