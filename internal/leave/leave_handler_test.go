package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveService struct {
	CreateFn        func(ctx context.Context, actor contextutil.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	GetByIDFn       func(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error)
	GetAllFn        func(ctx context.Context, status string, page, pageSize int) ([]leave.LeaveResponse, int64, error)
	GetByEmployeeFn func(ctx context.Context, actor contextutil.Actor, employeeID string, page, pageSize int) ([]leave.LeaveResponse, int64, error)
	GetByManagerFn  func(ctx context.Context, actor contextutil.Actor, managerID string, page, pageSize int) ([]leave.LeaveResponse, int64, error)
	UpdateStatusFn  func(ctx context.Context, actor contextutil.Actor, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error)
	ApproveFn       func(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error)
	RejectFn        func(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error)
	CancelFn        func(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, actor contextutil.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.CreateFn(ctx, actor, req)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error) {
	return f.GetByIDFn(ctx, actor, id)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, status string, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
	return f.GetAllFn(ctx, status, page, pageSize)
}
func (f *fakeLeaveService) GetByEmployee(ctx context.Context, actor contextutil.Actor, employeeID string, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
	return f.GetByEmployeeFn(ctx, actor, employeeID, page, pageSize)
}
func (f *fakeLeaveService) GetByManager(ctx context.Context, actor contextutil.Actor, managerID string, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
	return f.GetByManagerFn(ctx, actor, managerID, page, pageSize)
}
func (f *fakeLeaveService) UpdateStatus(ctx context.Context, actor contextutil.Actor, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
	return f.UpdateStatusFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error) {
	return f.ApproveFn(ctx, actor, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error) {
	return f.RejectFn(ctx, actor, id)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actor contextutil.Actor, id string) (leave.LeaveResponse, error) {
	return f.CancelFn(ctx, actor, id)
}

// setupRouter injects the actor the auth middleware would normally resolve.
func setupRouter(actor contextutil.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextEmployeeID, actor.EmployeeID)
		c.Set(middleware.ContextRole, actor.Role)
		c.Next()
	})
	return r
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *response.PaginationMeta
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLeaveHandler_Create(t *testing.T) {
	actor := contextutil.Actor{EmployeeID: uuid.NewString(), Role: "EMPLOYEE"}

	t.Run("created", func(t *testing.T) {
		available := 10
		svc := &fakeLeaveService{
			CreateFn: func(_ context.Context, got contextutil.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actor, got)
				assert.Equal(t, "2026-03-02", req.StartDate)
				assert.Equal(t, "2026-03-06", req.EndDate)
				return leave.LeaveResponse{ID: uuid.NewString(), Status: "PENDING", WorkDays: 5, AvailableLeaves: &available}, nil
			},
		}
		r := setupRouter(actor)
		r.POST("/leaves", leave.NewHandler(svc).Create)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(http.MethodPost, "/leaves", `{"start_date":"2026-03-02","end_date":"2026-03-06","reason":"trip"}`))

		require.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)

		var data leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "PENDING", data.Status)
		require.NotNil(t, data.AvailableLeaves)
		assert.Equal(t, 10, *data.AvailableLeaves)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := setupRouter(actor)
		r.POST("/leaves", leave.NewHandler(&fakeLeaveService{}).Create)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(http.MethodPost, "/leaves", `{"start_date":`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decodeEnvelope(t, w).Ok)
	})

	t.Run("reason too long", func(t *testing.T) {
		r := setupRouter(actor)
		r.POST("/leaves", leave.NewHandler(&fakeLeaveService{}).Create)

		body := `{"start_date":"2026-03-02","end_date":"2026-03-06","reason":"` + strings.Repeat("x", 501) + `"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(http.MethodPost, "/leaves", body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "insufficient balance", err: employeeerrors.ErrInsufficientBalance, wantStatus: http.StatusUnprocessableEntity},
		{name: "overlap", err: leaveerrors.ErrOverlappingRequest, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "past date", err: leaveerrors.ErrPastDate, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "unknown employee", err: employeeerrors.ErrEmployeeNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeLeaveService{
				CreateFn: func(context.Context, contextutil.Actor, leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
					return leave.LeaveResponse{}, tt.err
				},
			}
			r := setupRouter(actor)
			r.POST("/leaves", leave.NewHandler(svc).Create)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, jsonRequest(http.MethodPost, "/leaves", `{"start_date":"2026-03-02","end_date":"2026-03-06"}`))

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Ok)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, env.Error.Code)
			}
		})
	}
}

func TestLeaveHandler_GetAll(t *testing.T) {
	svc := &fakeLeaveService{
		GetAllFn: func(_ context.Context, status string, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
			assert.Equal(t, "PENDING", status)
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, pageSize)
			return []leave.LeaveResponse{{ID: "a"}, {ID: "b"}}, 7, nil
		},
	}
	r := setupRouter(contextutil.Actor{EmployeeID: uuid.NewString(), Role: "HR_ADMIN"})
	r.GET("/leaves", leave.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves?status=PENDING&page=2&page_size=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Ok   bool                    `json:"ok"`
		Data []leave.LeaveResponse   `json:"data"`
		Meta response.PaginationMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	assert.Len(t, env.Data, 2)
	assert.Equal(t, int64(7), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
}

func TestLeaveHandler_GetByID(t *testing.T) {
	actor := contextutil.Actor{EmployeeID: uuid.NewString(), Role: "EMPLOYEE"}
	id := uuid.NewString()

	t.Run("found", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetByIDFn: func(_ context.Context, got contextutil.Actor, gotID string) (leave.LeaveResponse, error) {
				assert.Equal(t, actor, got)
				assert.Equal(t, id, gotID)
				return leave.LeaveResponse{ID: gotID, Status: "APPROVED"}, nil
			},
		}
		r := setupRouter(actor)
		r.GET("/leaves/:id", leave.NewHandler(svc).GetByID)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/"+id, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "APPROVED")
	})

	t.Run("someone else's leave", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetByIDFn: func(context.Context, contextutil.Actor, string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
			},
		}
		r := setupRouter(actor)
		r.GET("/leaves/:id", leave.NewHandler(svc).GetByID)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/"+id, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, w).Error.Code)
	})
}

func TestLeaveHandler_Lists(t *testing.T) {
	actor := contextutil.Actor{EmployeeID: uuid.NewString(), Role: "MANAGER"}
	target := uuid.NewString()

	svc := &fakeLeaveService{
		GetByEmployeeFn: func(_ context.Context, _ contextutil.Actor, employeeID string, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
			assert.Equal(t, target, employeeID)
			assert.Equal(t, response.DefaultPageSize, pageSize)
			return []leave.LeaveResponse{{ID: "a"}}, 1, nil
		},
		GetByManagerFn: func(_ context.Context, _ contextutil.Actor, managerID string, _, _ int) ([]leave.LeaveResponse, int64, error) {
			if managerID != actor.EmployeeID {
				return nil, 0, leaveerrors.ErrNotAManager
			}
			return []leave.LeaveResponse{{ID: "a"}, {ID: "b"}}, 2, nil
		},
	}
	r := setupRouter(actor)
	h := leave.NewHandler(svc)
	r.GET("/employees/:id/leaves", h.GetByEmployee)
	r.GET("/managers/:id/leaves", h.GetByManager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/"+target+"/leaves", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/managers/"+actor.EmployeeID+"/leaves", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(2), env.Meta.Total)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/managers/"+target+"/leaves", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandler_Transitions(t *testing.T) {
	actor := contextutil.Actor{EmployeeID: uuid.NewString(), Role: "MANAGER"}
	id := uuid.NewString()

	respond := func(status string) func(context.Context, contextutil.Actor, string) (leave.LeaveResponse, error) {
		return func(_ context.Context, got contextutil.Actor, gotID string) (leave.LeaveResponse, error) {
			assert.Equal(t, actor, got)
			assert.Equal(t, id, gotID)
			return leave.LeaveResponse{ID: gotID, Status: status}, nil
		}
	}
	svc := &fakeLeaveService{
		ApproveFn: respond("APPROVED"),
		RejectFn:  respond("REJECTED"),
		CancelFn: func(context.Context, contextutil.Actor, string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrNotLeaveOwner
		},
		UpdateStatusFn: func(_ context.Context, _ contextutil.Actor, _ string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
			if req.Status == "PENDING" {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidTransition
			}
			return leave.LeaveResponse{}, leaveerrors.ErrNotPending
		},
	}

	r := setupRouter(actor)
	h := leave.NewHandler(svc)
	r.POST("/leaves/:id/approve", h.Approve)
	r.POST("/leaves/:id/reject", h.Reject)
	r.POST("/leaves/:id/cancel", h.Cancel)
	r.PATCH("/leaves/:id/status", h.UpdateStatus)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantBody   string
	}{
		{name: "approve", req: httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/approve", nil), wantStatus: http.StatusOK, wantBody: "APPROVED"},
		{name: "reject", req: httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/reject", nil), wantStatus: http.StatusOK, wantBody: "REJECTED"},
		{name: "cancel by non owner", req: httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/cancel", nil), wantStatus: http.StatusForbidden, wantBody: "FORBIDDEN"},
		{name: "status to pending", req: jsonRequest(http.MethodPatch, "/leaves/"+id+"/status", `{"status":"PENDING"}`), wantStatus: http.StatusConflict, wantBody: "INVALID_STATE"},
		{name: "decided already", req: jsonRequest(http.MethodPatch, "/leaves/"+id+"/status", `{"status":"APPROVED"}`), wantStatus: http.StatusConflict, wantBody: "INVALID_STATE"},
		{name: "status missing", req: jsonRequest(http.MethodPatch, "/leaves/"+id+"/status", `{}`), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}
