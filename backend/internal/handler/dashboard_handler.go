/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 14:22:09
 * @FilePath: \dashboard-catalog\backend\internal\handler\dashboard_handler.go
 * @LastEditTime: 2026-10-14 18:36:51
 */
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	domain "dashboard-catalog/backend/internal/domain/dashboard"
	response "dashboard-catalog/backend/internal/infra/common"
	appLogger "dashboard-catalog/backend/internal/infra/logger"
	"dashboard-catalog/backend/internal/infra/metrics"
	"dashboard-catalog/backend/internal/middleware"
	"dashboard-catalog/backend/internal/repository"
	dashboardsvc "dashboard-catalog/backend/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler 提供看板记录的 HTTP 入口。
type DashboardHandler struct {
	service *dashboardsvc.Service
	logger  *zap.SugaredLogger
}

// NewDashboardHandler 构造 handler。
func NewDashboardHandler(service *dashboardsvc.Service) *DashboardHandler {
	baseLogger := appLogger.S().With("component", "dashboard.handler", "variant", service.Schema().Variant)
	return &DashboardHandler{service: service, logger: baseLogger}
}

// Health 存活探针。
func (h *DashboardHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, nil)
}

// Options 返回下拉框使用的去重取值。
func (h *DashboardHandler) Options(c *gin.Context) {
	start := time.Now()

	options, err := h.service.Options(c.Request.Context())
	if err != nil {
		h.logger.Errorw("load options failed", "error", err, "request_id", middleware.GetRequestID(c))
		metrics.ObserveRequest("options", metrics.ResultError, time.Since(start))
		response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	fields := make(gin.H, len(options))
	for key, values := range options {
		fields[key] = values
	}
	metrics.ObserveRequest("options", metrics.ResultOK, time.Since(start))
	response.Success(c, http.StatusOK, fields)
}

// List 按 category/client/created_by/search 过滤并返回全部记录。
func (h *DashboardHandler) List(c *gin.Context) {
	start := time.Now()
	filter := domain.NewFilter(
		c.Query("category"),
		c.Query("client"),
		c.Query("created_by"),
		c.Query("search"),
	)

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Errorw("list dashboards failed", "error", err, "filter", filter, "request_id", middleware.GetRequestID(c))
		metrics.ObserveRequest("list", metrics.ResultError, time.Since(start))
		response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	metrics.ObserveRequest("list", metrics.ResultOK, time.Since(start))
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// Create 新增一条看板记录。
func (h *DashboardHandler) Create(c *gin.Context) {
	start := time.Now()
	payload := bindPayload(c)

	id, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		h.handleWriteError(c, "create", err, start, "payload_keys", len(payload))
		return
	}

	h.logger.Infow("dashboard created", "id", id, "request_id", middleware.GetRequestID(c))
	metrics.ObserveRequest("create", metrics.ResultOK, time.Since(start))
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// Update 覆盖可变字段，不存在的 ID 返回 404。
func (h *DashboardHandler) Update(c *gin.Context) {
	start := time.Now()

	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		metrics.ObserveRequest("update", metrics.ResultNotFound, time.Since(start))
		response.Fail(c, http.StatusNotFound, response.MsgNotFound)
		return
	}

	if err := h.service.Update(c.Request.Context(), uint(id64), bindPayload(c)); err != nil {
		h.handleWriteError(c, "update", err, start, "id", id64)
		return
	}

	metrics.ObserveRequest("update", metrics.ResultOK, time.Since(start))
	response.Success(c, http.StatusOK, nil)
}

// handleWriteError 将写路径错误映射为 400/404/500，存储细节只写日志。
func (h *DashboardHandler) handleWriteError(c *gin.Context, op string, err error, start time.Time, kv ...any) {
	var ve *dashboardsvc.ValidationError
	switch {
	case errors.As(err, &ve):
		metrics.RecordValidationFailure(string(ve.Field))
		metrics.ObserveRequest(op, metrics.ResultInvalid, time.Since(start))
		response.Fail(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, dashboardsvc.ErrNotFound):
		metrics.ObserveRequest(op, metrics.ResultNotFound, time.Since(start))
		response.Fail(c, http.StatusNotFound, response.MsgNotFound)
	default:
		result := metrics.ResultError
		if errors.Is(err, repository.ErrConstraintViolation) {
			result = metrics.ResultConstraint
		}
		fields := append([]any{"error", err, "request_id", middleware.GetRequestID(c)}, kv...)
		h.logger.Errorw(op+" dashboard failed", fields...)
		metrics.ObserveRequest(op, result, time.Since(start))
		response.Fail(c, http.StatusInternalServerError, response.MsgDatabaseError)
	}
}

// bindPayload 解析 JSON 请求体，解析失败或非对象时按空 payload 处理。
func bindPayload(c *gin.Context) dashboardsvc.Payload {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		return dashboardsvc.Payload{}
	}
	return payload
}
