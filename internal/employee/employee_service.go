package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	ManagersCacheKey = "employees:managers"
	ManagersCacheTTL = time.Hour
	managersLimit    = 10
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetManagers(ctx context.Context, name string) ([]ManagerResponse, error)
	UpdateTotalLeaves(ctx context.Context, id string, req UpdateTotalLeavesRequest) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	ledger *Ledger
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, ledger *Ledger, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		ledger: ledger,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	role := Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("role", string(role)),
		zap.String("manager_id", req.ManagerID),
	)

	if !role.Valid() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}
	if role == RoleHRAdmin {
		s.logger.Warn("create employee hr admin rejected", zap.String("request_id", rid))
		return EmployeeResponse{}, employeeerrors.ErrCannotCreateHRAdmin
	}
	if req.TotalLeaves == nil || *req.TotalLeaves < 0 {
		return EmployeeResponse{}, apperror.InvalidField("Total Leaves")
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" {
		return EmployeeResponse{}, apperror.RequiredField("First Name")
	}
	if lastName == "" {
		return EmployeeResponse{}, apperror.RequiredField("Last Name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	manager, err := s.resolveManager(ctx, qtx, role, req.ManagerID)
	if err != nil {
		s.logger.Warn("create employee resolve manager failed",
			zap.String("request_id", rid),
			zap.String("manager_id", req.ManagerID),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:              uuid.New(),
		FirstName:       firstName,
		LastName:        lastName,
		Role:            role,
		ManagerID:       &manager.ID,
		TotalLeaves:     *req.TotalLeaves,
		AvailableLeaves: *req.TotalLeaves,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if role.CanApprove() {
		s.invalidateManagersCache(ctx)
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("manager_id", manager.ID.String()),
	)

	empl.Manager = manager
	return mapToResponse(*empl), nil
}

// resolveManager applies the hierarchy rules: an EMPLOYEE reports to a MANAGER,
// a MANAGER reports to a MANAGER or HR_ADMIN and defaults to the first HR_ADMIN.
func (s *service) resolveManager(ctx context.Context, repo Repository, role Role, managerID string) (*Employee, error) {
	managerID = strings.TrimSpace(managerID)

	if managerID == "" {
		if role == RoleEmployee {
			return nil, employeeerrors.ErrManagerRequired
		}
		admin, err := repo.FindFirstByRole(ctx, RoleHRAdmin)
		if err != nil {
			return nil, mapManagerError(err)
		}
		return admin, nil
	}

	if _, err := uuid.Parse(managerID); err != nil {
		return nil, employeeerrors.ErrManagerNotFound
	}
	manager, err := repo.FindByID(ctx, managerID)
	if err != nil {
		return nil, mapManagerError(err)
	}

	switch role {
	case RoleEmployee:
		if manager.Role != RoleManager {
			return nil, employeeerrors.ErrNotManager
		}
	case RoleManager:
		if manager.Role == RoleEmployee {
			return nil, employeeerrors.ErrNotManager
		}
	}
	return manager, nil
}

func (s *service) GetAll(ctx context.Context, page, pageSize int) ([]EmployeeResponse, int64, error) {
	s.logger.Debug("get all employees requested", zap.Int("page", page), zap.Int("page_size", pageSize))

	emps, total, err := s.repo.FindAll(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}

	return mapToListResponse(emps), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

// GetManagers returns at most ten employees holding approval authority. The
// unfiltered list is cached in redis and filled through singleflight.
func (s *service) GetManagers(ctx context.Context, name string) ([]ManagerResponse, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		managers, err := s.repo.FindManagers(ctx, name, managersLimit)
		if err != nil {
			s.logger.Error("get managers by name failed", zap.String("name", name), zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		return mapToManagerList(managers), nil
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ManagersCacheKey).Result(); err == nil {
			var resp []ManagerResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("get managers cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(ManagersCacheKey, func() (interface{}, error) {
		managers, err := s.repo.FindManagers(ctx, "", managersLimit)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToManagerList(managers)
		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, ManagersCacheKey, data, ManagersCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get managers failed", zap.Error(err))
		return nil, err
	}

	return v.([]ManagerResponse), nil
}

func (s *service) UpdateTotalLeaves(ctx context.Context, id string, req UpdateTotalLeavesRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update total leaves requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.TotalLeaves == nil {
		return EmployeeResponse{}, apperror.RequiredField("Total Leaves")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update total leaves begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	empl, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, id)
	if err != nil {
		s.logger.Warn("update total leaves fetch employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.ledger.WithTx(tx).AdjustTotal(ctx, empl, *req.TotalLeaves); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update total leaves commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("update total leaves success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.Int("total_leaves", empl.TotalLeaves),
		zap.Int("available_leaves", empl.AvailableLeaves),
	)

	return mapToResponse(*empl), nil
}

func (s *service) invalidateManagersCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ManagersCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate managers cache",
			zap.Error(err),
			zap.String("key", ManagersCacheKey),
		)
	}
}

func mapManagerError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrManagerNotFound
	}
	return mapRepositoryError(err)
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              empl.ID.String(),
		FirstName:       empl.FirstName,
		LastName:        empl.LastName,
		Role:            string(empl.Role),
		TotalLeaves:     empl.TotalLeaves,
		AvailableLeaves: empl.AvailableLeaves,
	}
	if empl.Manager != nil {
		m := mapToManager(*empl.Manager)
		resp.Manager = &m
	} else if empl.ManagerID != nil {
		resp.Manager = &ManagerResponse{ID: empl.ManagerID.String()}
	}
	return resp
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, 0, len(emps))
	for _, e := range emps {
		resp = append(resp, mapToResponse(e))
	}
	return resp
}

func mapToManager(e Employee) ManagerResponse {
	return ManagerResponse{
		ID:   e.ID.String(),
		Name: e.FullName(),
		Role: string(e.Role),
	}
}

func mapToManagerList(emps []Employee) []ManagerResponse {
	resp := make([]ManagerResponse, 0, len(emps))
	for _, e := range emps {
		resp = append(resp, mapToManager(e))
	}
	return resp
}
