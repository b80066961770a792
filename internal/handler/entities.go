package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockroom/internal/repository"
	"stockroom/internal/service"
)

type EntitiesHandler struct {
	Query  *service.QueryService
	Logger *zap.Logger
}

func (h *EntitiesHandler) Register(r *gin.Engine) {
	group := r.Group("/api")
	group.GET("/customers", h.listCustomers)
	group.GET("/customers/:id", h.getCustomer)
	group.GET("/items", h.listItems)
	group.GET("/items/:id", h.getItem)
	group.GET("/sales", h.listSales)
	group.GET("/sales/:id", h.getSale)
}

// @Summary List customers
// @Tags entities
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param search query string false "name or company contains"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/customers [get]
func (h *EntitiesHandler) listCustomers(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"name":       "name",
		"balance":    "balance",
		"updated_at": "updated_at",
	})

	items, total, err := h.Query.ListCustomers(c.Request.Context(), repository.ListCustomersParams{
		Limit:   limit,
		Offset:  offset,
		Search:  strQueryPtr(c, "search"),
		OrderBy: orderBy,
		Asc:     boolQueryPtr(c, "ascending"),
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list customers failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get one customer
// @Tags entities
// @Param id path string true "customer id"
// @Success 200 {object} apiResponse
// @Router /api/customers/{id} [get]
func (h *EntitiesHandler) getCustomer(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	customer, err := h.Query.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if customer == nil {
		Error(c, http.StatusNotFound, "customer not found", nil)
		return
	}
	Ok(c, customer, nil)
}

// @Summary List inventory items
// @Tags entities
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param status query string false "active|archived|draft"
// @Param sku query string false "exact sku"
// @Param search query string false "name contains"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/items [get]
func (h *EntitiesHandler) listItems(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"name":             "name",
		"price":            "price",
		"quantity_on_hand": "quantity_on_hand",
		"updated_at":       "updated_at",
	})

	items, total, err := h.Query.ListItems(c.Request.Context(), repository.ListItemsParams{
		Limit:   limit,
		Offset:  offset,
		Status:  strQueryPtr(c, "status"),
		SKU:     strQueryPtr(c, "sku"),
		Search:  strQueryPtr(c, "search"),
		OrderBy: orderBy,
		Asc:     boolQueryPtr(c, "ascending"),
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list items failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get one inventory item
// @Tags entities
// @Param id path string true "item id"
// @Success 200 {object} apiResponse
// @Router /api/items/{id} [get]
func (h *EntitiesHandler) getItem(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	item, err := h.Query.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "item not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary List sales
// @Tags entities
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param kind query string false "invoice|order"
// @Param status query string false "open|paid|overdue|cancelled"
// @Param customer_id query string false "customer id"
// @Param needs_attention query bool false "needs attention"
// @Param since query string false "issued at or after (RFC3339)"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/sales [get]
func (h *EntitiesHandler) listSales(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"issued_at":  "issued_at",
		"due_at":     "due_at",
		"total":      "total",
		"balance":    "balance",
		"updated_at": "updated_at",
	})

	items, total, err := h.Query.ListSales(c.Request.Context(), repository.ListSalesParams{
		Limit:          limit,
		Offset:         offset,
		Kind:           strQueryPtr(c, "kind"),
		Status:         strQueryPtr(c, "status"),
		CustomerID:     strQueryPtr(c, "customer_id"),
		NeedsAttention: boolQueryPtr(c, "needs_attention"),
		Since:          timeQueryPtr(c, "since"),
		OrderBy:        orderBy,
		Asc:            boolQueryPtr(c, "ascending"),
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list sales failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get one sale with its line items
// @Tags entities
// @Param id path string true "sale id"
// @Success 200 {object} apiResponse
// @Router /api/sales/{id} [get]
func (h *EntitiesHandler) getSale(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	detail, err := h.Query.GetSaleDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if detail == nil {
		Error(c, http.StatusNotFound, "sale not found", nil)
		return
	}
	Ok(c, detail, nil)
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func timeQueryPtr(c *gin.Context, key string) *time.Time {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return &t
		}
	}
	return nil
}

func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}
