package leaveaudit

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaveaudit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveaudit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetByLeave(c *gin.Context) {
	leaveID := c.Param("id")
	h.logger.Debug("http get leave audit", zap.String("leave_id", leaveID))

	resp, err := h.service.GetByLeave(c.Request.Context(), leaveID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("leave audit request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
			zap.Error(err),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
