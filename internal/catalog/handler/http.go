package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-billing-service/internal/catalog"
	"github.com/fekuna/omnipos-billing-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-billing-service/internal/httpx"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/gin-gonic/gin"
)

type CatalogHTTPHandler struct {
	uc   catalog.UseCase
	resp *httpx.Responder
}

func NewCatalogHTTPHandler(uc catalog.UseCase, resp *httpx.Responder) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{uc: uc, resp: resp}
}

func (h *CatalogHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/catalog")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *CatalogHTTPHandler) Create(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	item, err := h.uc.CreateItem(c.Request.Context(), &dto.CreateItemInput{
		PropertyID:     propertyID,
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		UnitPrice:      req.UnitPrice,
		TaxRatePercent: req.TaxRatePercent,
	})
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusCreated, billingv1.ItemResponse{Item: MapItemToPB(item)})
}

func (h *CatalogHTTPHandler) Get(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	item, err := h.uc.GetItem(c.Request.Context(), propertyID, c.Param("id"))
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.ItemResponse{Item: MapItemToPB(item)})
}

func (h *CatalogHTTPHandler) List(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	filters := FiltersFromPB(propertyID, &req)
	items, count, err := h.uc.ListItems(c.Request.Context(), filters)
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	out := make([]*billingv1.CatalogItem, len(items))
	for i := range items {
		out[i] = MapItemToPB(&items[i])
	}
	c.JSON(http.StatusOK, billingv1.ListItemsResponse{
		Items:    out,
		Total:    count,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}

func (h *CatalogHTTPHandler) Update(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	var req billingv1.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, err)
		return
	}

	item, err := h.uc.UpdateItem(c.Request.Context(), &dto.UpdateItemInput{
		ID:             c.Param("id"),
		PropertyID:     propertyID,
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		UnitPrice:      req.UnitPrice,
		TaxRatePercent: req.TaxRatePercent,
		IsActive:       req.IsActive,
	})
	if err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.JSON(http.StatusOK, billingv1.ItemResponse{Item: MapItemToPB(item)})
}

func (h *CatalogHTTPHandler) Delete(c *gin.Context) {
	propertyID := h.resp.PropertyID(c)
	if propertyID == "" {
		return
	}
	if err := h.uc.DeleteItem(c.Request.Context(), propertyID, c.Param("id")); err != nil {
		h.resp.Fail(c, errTable, err)
		return
	}
	c.Status(http.StatusNoContent)
}
