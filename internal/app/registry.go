package app

import (
	"context"
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leaveaudit"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	deps *Infra,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(deps.GormDB)
	leaveRepo := leave.NewRepository(deps.GormDB)
	leaveAuditRepo := leaveaudit.NewRepository(deps.GormDB)
	outboxRepo := kafka.NewOutboxRepository(deps.GormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbac.DefaultPolicies, rbac.DefaultInheritance)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)
	tokens := auth.NewTokenService(cfg.JWTSecret, auth.DefaultTokenTTL)

	// --- Services ---
	ledger := employee.NewLedger(employeeRepo, logger)
	employeeService := employee.NewService(deps.SQLDB, employeeRepo, ledger, deps.Redis, logger)
	leaveService := leave.NewService(deps.SQLDB, leaveRepo, employeeRepo, ledger, outboxRepo, time.Now, logger)
	leaveAuditService := leaveaudit.NewService(leaveAuditRepo, logger)
	authService := auth.NewService(auth.IdentityLookupFunc(func(ctx context.Context, employeeID string) (auth.Identity, error) {
		e, err := employeeService.GetByID(ctx, employeeID)
		if err != nil {
			return auth.Identity{}, err
		}
		return auth.Identity{EmployeeID: e.ID, Role: e.Role}, nil
	}), tokens, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	leaveAuditHandler := leaveaudit.NewHandler(leaveAuditService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	authHandler := auth.NewHandler(authService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst))

	api := router.Group("/api/v1")
	{
		if !cfg.IsProduction() {
			auth.RegisterRoutes(api, authHandler)
		}
		employee.RegisterRoutes(api, employeeHandler, rbacService, tokens, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, tokens, deps.Redis, logger)
		leaveaudit.RegisterRoutes(api, leaveAuditHandler, rbacService, tokens, logger)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, tokens, logger)
	}

	return nil
}
