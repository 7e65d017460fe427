package middleware

import (
	"strings"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextEmployeeID = "employee_id"
	ContextRole       = "role"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthMiddleware reads the bearer token (or access_token cookie) and stores
// the acting employee in both the gin and the request context.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
			return
		}

		c.Set(ContextEmployeeID, claims.EmployeeID)
		c.Set(ContextRole, claims.Role)

		ctx := contextutil.WithActor(c.Request.Context(), contextutil.Actor{
			EmployeeID: claims.EmployeeID,
			Role:       claims.Role,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		errObj := autherrors.ErrForbidden
		response.Abort(c, errObj.HTTPStatus, errObj.Code, errObj.Message)
	}
}
