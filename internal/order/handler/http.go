package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-billing-service/internal/auth"
	catalogHandler "github.com/fekuna/omnipos-billing-service/internal/catalog/handler"
	"github.com/fekuna/omnipos-billing-service/internal/httpx"
	"github.com/fekuna/omnipos-billing-service/internal/order"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/gin-gonic/gin"
)

type OrderHTTPHandler struct {
	uc   order.UseCase
	resp *httpx.Responder
}

func NewOrderHTTPHandler(uc order.UseCase, resp *httpx.Responder) *OrderHTTPHandler {
	return &OrderHTTPHandler{uc: uc, resp: resp}
}

func (h *OrderHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.POST("/quote", h.Quote)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/settle", h.Settle)
	g.POST("/:id/void", h.Void)
}

func (h *OrderHTTPHandler) Quote(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.QuoteCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	items, summary, err := h.uc.QuoteCart(c.Request.Context(), propertyID, catalogHandler.LinesFromPB(req.Items))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.QuoteCartResponse{
		Items:   catalogHandler.MapLineItemsToPB(items),
		Summary: catalogHandler.MapSummaryToPB(summary),
	})
}

func (h *OrderHTTPHandler) Create(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	o, err := h.uc.CreateOrder(ctx, CreateInputFromPB(propertyID, auth.GetUserID(ctx), &req))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusCreated, billingv1.OrderResponse{Order: MapOrderToPB(o)})
}

func (h *OrderHTTPHandler) Get(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	o, err := h.uc.GetOrder(c.Request.Context(), propertyID, c.Param("id"))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.OrderResponse{Order: MapOrderToPB(o)})
}

func (h *OrderHTTPHandler) List(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	filters := FiltersFromPB(propertyID, &req)
	orders, count, err := h.uc.ListOrders(c.Request.Context(), filters)
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse(orders, count, filters))
}

func (h *OrderHTTPHandler) Settle(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	o, err := h.uc.SettleOrder(c.Request.Context(), propertyID, c.Param("id"))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.OrderResponse{Order: MapOrderToPB(o)})
}

func (h *OrderHTTPHandler) Void(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.VoidOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.resp.BadRequest(c, err)
			return
		}
	}

	o, err := h.uc.VoidOrder(c.Request.Context(), propertyID, c.Param("id"), req.Reason)
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.OrderResponse{Order: MapOrderToPB(o)})
}
