package auth

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes exposes token minting for local environments. Production
// tokens come from the identity provider sharing JWT_SECRET.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	authGroup.POST("/token", middleware.RateLimitByIP(1, 5), handler.IssueToken)
}
