package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockroom/internal/httpx"
	"stockroom/internal/repository"
	"stockroom/internal/service"
)

type SyncHandler struct {
	Service *service.SyncService
	Query   *service.QueryService
	Logger  *zap.Logger
}

func (h *SyncHandler) Register(r *gin.Engine) {
	group := r.Group("/api/sync")
	group.POST("", h.runSync)
	group.GET("/state", h.listSyncState)
	group.GET("/runs", h.listSyncRuns)
	r.POST("/api/items/:id/push", h.pushItem)
}

// @Summary Run a sync against the connected shop and ledger
// @Tags sync
// @Param scope query string false "sync scope (customers|invoices|inventory|orders|all)"
// @Param page_size query int false "records per page"
// @Param max_pages query int false "page safety cap"
// @Success 200 {object} apiResponse
// @Router /api/sync [post]
func (h *SyncHandler) runSync(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	scope := strings.TrimSpace(c.Query("scope"))
	pageSize := intQuery(c, "page_size", 0)
	maxPages := intQuery(c, "max_pages", 0)

	result, err := h.Service.Sync(c.Request.Context(), service.SyncOptions{
		Scope:    scope,
		PageSize: pageSize,
		MaxPages: maxPages,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("sync failed", zap.String("scope", scope), zap.Error(err))
		}
		Error(c, syncErrorStatus(err), err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary List per-scope sync state
// @Tags sync
// @Success 200 {object} apiResponse
// @Router /api/sync/state [get]
func (h *SyncHandler) listSyncState(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	states, err := h.Query.SyncStates(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list sync state failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, states, nil)
}

// @Summary List past sync runs
// @Tags sync
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param scope query string false "scope filter"
// @Success 200 {object} apiResponse
// @Router /api/sync/runs [get]
func (h *SyncHandler) listSyncRuns(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	runs, err := h.Query.SyncRuns(c.Request.Context(), repository.ListSyncRunsParams{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
		Scope:  strQueryPtr(c, "scope"),
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list sync runs failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, runs, nil)
}

// @Summary Push a local inventory item to the shop
// @Tags sync
// @Param id path string true "item id"
// @Success 200 {object} apiResponse
// @Router /api/items/{id}/push [post]
func (h *SyncHandler) pushItem(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "item id required", nil)
		return
	}
	result, err := h.Service.PushItem(c.Request.Context(), id)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("push item failed", zap.String("item_id", id), zap.Error(err))
		}
		Error(c, syncErrorStatus(err), err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSyncBusy):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownScope):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, httpx.ErrMissingCredentials):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
