package fuellog

import (
	"fmt"
	"net/http"
	"time"

	fuellogerrors "go-fleet/internal/fuellog/errors"
	"go-fleet/internal/middleware"
	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("fuellog.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("fuellog.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("fuel log request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
}

// parseRange reads from/to as calendar days. The returned to is exclusive:
// the start of the day after the one given.
func parseRange(c *gin.Context) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, nil, fuellogerrors.ErrInvalidDateRange
		}
		from = &d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, nil, fuellogerrors.ErrInvalidDateRange
		}
		d = d.AddDate(0, 0, 1)
		to = &d
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, fuellogerrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func (h *Handler) List(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	pq := response.ParsePageQuery(c)
	q := ListFuelLogsQuery{
		Page:      pq.Page,
		Limit:     pq.Limit,
		VehicleID: c.Query("vehicleId"),
		From:      from,
		To:        to,
	}

	logs, total, err := h.service.List(c.Request.Context(), c.GetString(middleware.ContextTenantID), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.List(c, "logs", logs, response.NewPaginationMeta(len(logs), total, pq.Page, pq.Limit))
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString(middleware.ContextTenantID), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"log": resp})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateFuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	caller, _ := contextutil.GetPrincipal(c.Request.Context())
	resp, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Fuel log created successfully", gin.H{"log": resp})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateFuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	caller, _ := contextutil.GetPrincipal(c.Request.Context())
	resp, err := h.service.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Fuel log updated successfully", gin.H{"log": resp})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString(middleware.ContextTenantID), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Fuel log deleted successfully", nil)
}

func (h *Handler) Export(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	buf, err := h.service.Export(c.Request.Context(), c.GetString(middleware.ContextTenantID), from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("fuel_logs_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
