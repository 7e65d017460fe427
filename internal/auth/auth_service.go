package auth

import (
	"context"

	"go.uber.org/zap"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	IssueToken(ctx context.Context, employeeID string) (TokenResponse, error)
}

type Identity struct {
	EmployeeID string
	Role       string
}

// IdentityLookup resolves the current role of an employee.
type IdentityLookup interface {
	Identity(ctx context.Context, employeeID string) (Identity, error)
}

type IdentityLookupFunc func(ctx context.Context, employeeID string) (Identity, error)

func (f IdentityLookupFunc) Identity(ctx context.Context, employeeID string) (Identity, error) {
	return f(ctx, employeeID)
}

type service struct {
	identities IdentityLookup
	tokens     *TokenService
	logger     *zap.Logger
}

func NewService(identities IdentityLookup, tokens *TokenService, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{identities: identities, tokens: tokens, logger: l}
}

// IssueToken signs a token carrying the employee's current role.
func (s *service) IssueToken(ctx context.Context, employeeID string) (TokenResponse, error) {
	id, err := s.identities.Identity(ctx, employeeID)
	if err != nil {
		s.logger.Warn("issue token employee lookup failed", zap.String("employee_id", employeeID), zap.Error(err))
		return TokenResponse{}, err
	}

	token, err := s.tokens.Issue(id.EmployeeID, id.Role)
	if err != nil {
		s.logger.Error("issue token sign failed", zap.String("employee_id", employeeID), zap.Error(err))
		return TokenResponse{}, err
	}

	s.logger.Info("token issued", zap.String("employee_id", id.EmployeeID), zap.String("role", id.Role))
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		EmployeeID:  id.EmployeeID,
		Role:        id.Role,
	}, nil
}
