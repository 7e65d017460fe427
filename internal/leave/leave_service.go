package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor contextutil.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error)
	GetAll(ctx context.Context, status string, page, pageSize int) ([]LeaveResponse, int64, error)
	GetByEmployee(ctx context.Context, actor contextutil.Actor, employeeID string, page, pageSize int) ([]LeaveResponse, int64, error)
	GetByManager(ctx context.Context, actor contextutil.Actor, managerID string, page, pageSize int) ([]LeaveResponse, int64, error)
	UpdateStatus(ctx context.Context, actor contextutil.Actor, id string, req UpdateStatusRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error)
	Cancel(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	ledger    *employee.Ledger
	outbox    kafka.OutboxRepository
	validator *Validator
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires the leave state machine. now defaults to time.Now and is
// shared with the request validator.
func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	ledger *employee.Ledger,
	outbox kafka.OutboxRepository,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		ledger:    ledger,
		outbox:    outbox,
		validator: NewValidator(now),
		now:       now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor contextutil.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", actor.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if _, err := uuid.Parse(actor.EmployeeID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// The employee row lock covers both the overlap check and the deduction.
	empl, err := s.employees.WithTx(tx).FindByIDForUpdate(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Warn("create leave fetch employee failed",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.EmployeeID),
			zap.Error(err),
		)
		return LeaveResponse{}, mapEmployeeError(err)
	}

	days, err := s.validator.Validate(ctx, qtx, actor.EmployeeID, startDate, endDate)
	if err != nil {
		s.logger.Warn("create leave validation failed",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := s.ledger.WithTx(tx).Deduct(ctx, empl, days); err != nil {
		return LeaveResponse{}, err
	}

	app := &LeaveApplication{
		ID:         uuid.New(),
		EmployeeID: empl.ID,
		StartDate:  startDate,
		EndDate:    endDate,
		WorkDays:   days,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     StatusPending,
	}
	if empl.ManagerID != nil {
		managerID := *empl.ManagerID
		app.ManagerID = &managerID
	}

	if err := qtx.Create(ctx, app); err != nil {
		s.logger.Error("create leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, events.LeaveCreated, app, "", actor.EmployeeID, empl.AvailableLeaves); err != nil {
		s.logger.Error("create leave enqueue event failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", app.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.Int("work_days", days),
		zap.Int("available_leaves", empl.AvailableLeaves),
	)

	app.Employee = empl
	resp := mapToResponse(*app)
	resp.AvailableLeaves = &empl.AvailableLeaves
	return resp, nil
}

func (s *service) Approve(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, StatusRejected)
}

func (s *service) Cancel(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, StatusCancelled)
}

func (s *service) UpdateStatus(ctx context.Context, actor contextutil.Actor, id string, req UpdateStatusRequest) (LeaveResponse, error) {
	target := Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	return s.transition(ctx, actor, id, target)
}

func (s *service) transition(ctx context.Context, actor contextutil.Actor, id string, target Status) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transition leave status requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("target_status", string(target)),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		s.logger.Warn("transition leave status fetch leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	// Authority first: outsiders get the same error whatever the status.
	if err := authorizeTransition(actor, app, target); err != nil {
		s.logger.Warn("transition leave status denied",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("to_status", string(target)),
		)
		return LeaveResponse{}, err
	}

	action, err := ResolveTransition(app.Status, target)
	if err != nil {
		s.logger.Warn("transition leave status invalid",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("from_status", string(app.Status)),
			zap.String("to_status", string(target)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	empl, err := s.employees.WithTx(tx).FindByIDForUpdate(ctx, app.EmployeeID.String())
	if err != nil {
		s.logger.Error("transition leave status fetch employee failed",
			zap.String("leave_id", id),
			zap.String("employee_id", app.EmployeeID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, mapEmployeeError(err)
	}

	if action == LedgerRestore && !app.BalanceRestored {
		if err := s.ledger.WithTx(tx).Restore(ctx, empl, app.WorkDays); err != nil {
			return LeaveResponse{}, err
		}
		app.BalanceRestored = true
	}

	from := app.Status
	decidedAt := s.now().UTC()
	app.Status = target
	app.DecidedBy = &actorUUID
	app.DecidedAt = &decidedAt

	if err := qtx.Update(ctx, app); err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", string(target)),
			zap.Error(err),
		)
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, events.LeaveStatusChanged, app, from, actor.EmployeeID, empl.AvailableLeaves); err != nil {
		s.logger.Error("transition leave status enqueue event failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("transition leave status success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("from_status", string(from)),
		zap.String("status", string(target)),
		zap.String("ledger_action", action.String()),
		zap.Int("available_leaves", empl.AvailableLeaves),
	)

	app.Employee = empl
	resp := mapToResponse(*app)
	resp.AvailableLeaves = &empl.AvailableLeaves
	return resp, nil
}

// authorizeTransition: approve and reject belong to the manager snapshotted on
// the application or any HR admin, never to the applicant. Cancel belongs to
// the applicant alone.
func authorizeTransition(actor contextutil.Actor, app *LeaveApplication, target Status) error {
	isOwner := app.EmployeeID.String() == actor.EmployeeID

	switch target {
	case StatusCancelled:
		if !isOwner {
			return leaveerrors.ErrNotLeaveOwner
		}
	case StatusApproved, StatusRejected:
		if isOwner {
			return leaveerrors.ErrNotApprover
		}
		if actor.Role == string(employee.RoleHRAdmin) {
			return nil
		}
		if app.ManagerID == nil || app.ManagerID.String() != actor.EmployeeID {
			return leaveerrors.ErrNotApprover
		}
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, actor contextutil.Actor, id string) (LeaveResponse, error) {
	s.logger.Debug("get leave by id requested", zap.String("leave_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get leave by id failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if !canView(actor, app) {
		return LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
	}

	return mapToResponse(*app), nil
}

func canView(actor contextutil.Actor, app *LeaveApplication) bool {
	if actor.Role == string(employee.RoleHRAdmin) {
		return true
	}
	if app.EmployeeID.String() == actor.EmployeeID {
		return true
	}
	return app.ManagerID != nil && app.ManagerID.String() == actor.EmployeeID
}

func (s *service) GetAll(ctx context.Context, status string, page, pageSize int) ([]LeaveResponse, int64, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, 0, leaveerrors.ErrInvalidStatus
	}

	apps, total, err := s.repo.FindByStatus(ctx, st, page, pageSize)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.String("status", string(st)), zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(apps), total, nil
}

func (s *service) GetByEmployee(ctx context.Context, actor contextutil.Actor, employeeID string, page, pageSize int) ([]LeaveResponse, int64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, 0, leaveerrors.ErrInvalidEmployeeID
	}
	if employeeID != actor.EmployeeID && !employee.Role(actor.Role).CanApprove() {
		return nil, 0, leaveerrors.ErrLeaveAccessDenied
	}

	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return nil, 0, mapEmployeeError(err)
	}

	apps, total, err := s.repo.FindByEmployee(ctx, employeeID, page, pageSize)
	if err != nil {
		s.logger.Error("get leaves by employee failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(apps), total, nil
}

// GetByManager lists the applications snapshotted to a manager. Only that
// manager or an HR admin may read them.
func (s *service) GetByManager(ctx context.Context, actor contextutil.Actor, managerID string, page, pageSize int) ([]LeaveResponse, int64, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, 0, leaveerrors.ErrInvalidEmployeeID
	}

	manager, err := s.employees.FindByID(ctx, managerID)
	if err != nil {
		return nil, 0, mapEmployeeError(err)
	}
	if !manager.Role.CanApprove() {
		return nil, 0, leaveerrors.ErrNotAManager
	}
	if managerID != actor.EmployeeID && actor.Role != string(employee.RoleHRAdmin) {
		return nil, 0, leaveerrors.ErrLeaveAccessDenied
	}

	apps, total, err := s.repo.FindByManager(ctx, managerID, page, pageSize)
	if err != nil {
		s.logger.Error("get leaves by manager failed", zap.String("manager_id", managerID), zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(apps), total, nil
}

// enqueue writes the lifecycle event to the outbox inside tx.
func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, app *LeaveApplication, from Status, actorID string, available int) error {
	event := events.LeaveLifecycleEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		RequestID:       contextutil.GetRequestID(ctx),
		LeaveID:         app.ID.String(),
		EmployeeID:      app.EmployeeID.String(),
		ActorID:         actorID,
		FromStatus:      string(from),
		ToStatus:        string(app.Status),
		StartDate:       app.StartDate.Format(dateLayout),
		EndDate:         app.EndDate.Format(dateLayout),
		WorkDays:        app.WorkDays,
		BalanceRestored: app.BalanceRestored,
		AvailableLeaves: available,
		OccurredAt:      s.now().UTC(),
	}
	if app.ManagerID != nil {
		event.ManagerID = app.ManagerID.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            event.EventID,
		RequestID:     event.RequestID,
		AggregateType: events.LeaveAggregateType,
		AggregateID:   event.LeaveID,
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// parseDate returns the zero time for an empty value so the validator can
// report the missing date.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveApplication) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		StartDate:  l.StartDate.Format(dateLayout),
		EndDate:    l.EndDate.Format(dateLayout),
		WorkDays:   l.WorkDays,
		Reason:     l.Reason,
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName()
	}
	if l.ManagerID != nil {
		v := l.ManagerID.String()
		resp.ManagerID = &v
	}
	if l.Manager != nil {
		resp.ManagerName = l.Manager.FullName()
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(apps []LeaveApplication) []LeaveResponse {
	resp := make([]LeaveResponse, len(apps))
	for i, l := range apps {
		resp[i] = mapToResponse(l)
	}
	return resp
}
