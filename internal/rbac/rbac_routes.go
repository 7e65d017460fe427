package rbac

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	service Service,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(tokens))
	group.Use(middleware.ContextLogger(logger))
	{
		group.POST("/enforce", middleware.RateLimitByUser(5, 20), handler.Enforce)
		group.GET("/roles/:role/policies",
			middleware.RoleMiddleware("HR_ADMIN"),
			middleware.RBACAuthorize(service, ResourceRBAC, ActionRead),
			handler.ListPolicies,
		)
	}
}
