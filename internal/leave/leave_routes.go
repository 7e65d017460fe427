package leave

import (
	"time"

	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const createIdempotencyTTL = 24 * time.Hour

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	tokens middleware.TokenParser,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	auth := []gin.HandlerFunc{
		middleware.AuthMiddleware(tokens),
		middleware.ContextLogger(logger),
	}

	leaves := r.Group("/leaves", auth...)
	{
		leaves.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCreate),
			middleware.Idempotency(rdb, createIdempotencyTTL),
			handler.Create,
		)

		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadAll),
			handler.GetAll,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead),
			handler.GetByID,
		)

		leaves.PATCH("/:id/status",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionUpdate),
			handler.UpdateStatus,
		)

		leaves.POST("/:id/approve",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove),
			handler.Approve,
		)

		leaves.POST("/:id/reject",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove),
			handler.Reject,
		)

		leaves.POST("/:id/cancel",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCancel),
			handler.Cancel,
		)
	}

	r.Group("/employees", auth...).GET("/:id/leaves",
		middleware.RateLimitByUser(3, 10),
		middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead),
		handler.GetByEmployee,
	)

	r.Group("/managers", auth...).GET("/:id/leaves",
		middleware.RateLimitByUser(3, 10),
		middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadTeam),
		handler.GetByManager,
	)
}
