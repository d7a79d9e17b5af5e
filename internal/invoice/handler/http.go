package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/auth"
	catalogHandler "github.com/fekuna/omnipos-billing-service/internal/catalog/handler"
	"github.com/fekuna/omnipos-billing-service/internal/httpx"
	"github.com/fekuna/omnipos-billing-service/internal/invoice"
	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/gin-gonic/gin"
)

type InvoiceHTTPHandler struct {
	uc   invoice.UseCase
	resp *httpx.Responder
}

func NewInvoiceHTTPHandler(uc invoice.UseCase, resp *httpx.Responder) *InvoiceHTTPHandler {
	return &InvoiceHTTPHandler{uc: uc, resp: resp}
}

func (h *InvoiceHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/invoices")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/items", h.AddItems)
	g.DELETE("/:id/items/:itemId", h.RemoveItem)
	g.POST("/:id/payments", h.RecordPayment)
	g.POST("/:id/cancel", h.Cancel)
	g.POST("/:id/status", h.RefreshStatus)

	rg.GET("/reports/receivables", h.Receivables)
}

func (h *InvoiceHTTPHandler) Create(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	inv, err := h.uc.CreateInvoice(ctx, CreateInputFromPB(propertyID, auth.GetUserID(ctx), &req))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusCreated, billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)})
}

func (h *InvoiceHTTPHandler) Get(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	inv, err := h.uc.GetInvoice(c.Request.Context(), propertyID, c.Param("id"))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)})
}

func (h *InvoiceHTTPHandler) List(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	filters := FiltersFromPB(propertyID, &req)
	invoices, count, err := h.uc.ListInvoices(c.Request.Context(), filters)
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse(invoices, count, filters))
}

func (h *InvoiceHTTPHandler) AddItems(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	inv, err := h.uc.AddItems(c.Request.Context(), &dto.AddItemsInput{
		PropertyID: propertyID,
		InvoiceID:  c.Param("id"),
		Lines:      catalogHandler.LinesFromPB(req.Items),
	})
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)})
}

func (h *InvoiceHTTPHandler) RemoveItem(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	inv, err := h.uc.RemoveItem(c.Request.Context(), propertyID, c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)})
}

func (h *InvoiceHTTPHandler) RecordPayment(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}
	req.InvoiceID = c.Param("id")

	ctx := c.Request.Context()
	p, inv, err := h.uc.RecordPayment(ctx, PaymentInputFromPB(propertyID, auth.GetUserID(ctx), &req))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusCreated, billingv1.RecordPaymentResponse{Payment: MapPaymentToPB(p), Invoice: MapInvoiceToPB(inv)})
}

func (h *InvoiceHTTPHandler) Cancel(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.CancelInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.resp.BadRequest(c, err)
			return
		}
	}

	inv, err := h.uc.CancelInvoice(c.Request.Context(), propertyID, c.Param("id"), req.Reason)
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)})
}

func (h *InvoiceHTTPHandler) RefreshStatus(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	inv, err := h.uc.RefreshStatus(c.Request.Context(), propertyID, c.Param("id"), time.Now())
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.InvoiceResponse{Invoice: MapInvoiceToPB(inv)})
}

func (h *InvoiceHTTPHandler) Receivables(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.ReceivablesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	r, err := h.uc.Receivables(c.Request.Context(), propertyID, req.Currency)
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, MapReceivablesToPB(r))
}
