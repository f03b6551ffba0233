package driver

import (
	"net/http"

	"go-fleet/internal/middleware"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("driver.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("driver.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("driver request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
}

func (h *Handler) List(c *gin.Context) {
	pq := response.ParsePageQuery(c)
	q := ListDriversQuery{
		Page:            pq.Page,
		Limit:           pq.Limit,
		Status:          c.Query("status"),
		Search:          c.Query("search"),
		IncludeInactive: c.GetBool(middleware.ContextIncludeInactive),
	}

	drivers, total, err := h.service.List(c.Request.Context(), c.GetString(middleware.ContextTenantID), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.List(c, "drivers", drivers, response.NewPaginationMeta(len(drivers), total, pq.Page, pq.Limit))
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(
		c.Request.Context(),
		c.GetString(middleware.ContextTenantID),
		c.Param("id"),
		c.GetBool(middleware.ContextIncludeInactive),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"driver": resp})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString(middleware.ContextTenantID), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Driver created successfully", gin.H{"driver": resp})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.GetString(middleware.ContextTenantID), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Driver updated successfully", gin.H{"driver": resp})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString(middleware.ContextTenantID), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Driver deleted successfully", nil)
}
