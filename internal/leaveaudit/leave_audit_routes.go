package leaveaudit

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) {
	audit := r.Group("/leaves")
	audit.Use(middleware.AuthMiddleware(tokens))
	audit.Use(middleware.ContextLogger(logger))
	{
		audit.GET("/:id/audit",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadAll),
			handler.GetByLeave,
		)
	}
}
