package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/leave"
	leaveerrors "go-payroll/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn        func(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn        func(ctx context.Context, status string) ([]leave.LeaveResponse, error)
	getByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	getByIDFn       func(ctx context.Context, id string) (leave.LeaveResponse, error)
	approveFn       func(ctx context.Context, id string) (leave.LeaveResponse, error)
	rejectFn        func(ctx context.Context, id, rejectionReason string) (leave.LeaveResponse, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, status string) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, status)
}
func (f *fakeLeaveService) GetByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.getByEmployeeFn(ctx, employeeID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, id, rejectionReason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, id, rejectionReason)
}
func (f *fakeLeaveService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestLeaveHandler_Create(t *testing.T) {
	employeeID := uuid.New().String()

	svc := &fakeLeaveService{
		createFn: func(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, employeeID, req.EmployeeID)
			assert.Equal(t, "VACATION", req.LeaveType)
			return leave.LeaveResponse{
				ID:         uuid.New().String(),
				EmployeeID: req.EmployeeID,
				LeaveType:  req.LeaveType,
				Status:     leave.StatusPending,
			}, nil
		},
	}

	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + employeeID + `","leave_type":"VACATION","start_date":"2026-03-09","end_date":"2026-03-11"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestLeaveHandler_Create_BadLeaveType(t *testing.T) {
	h := leave.NewHandler(&fakeLeaveService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + uuid.New().String() + `","leave_type":"SABBATICAL","start_date":"2026-03-09","end_date":"2026-03-11"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestLeaveHandler_GetAll_ByEmployee(t *testing.T) {
	employeeID := uuid.New().String()

	svc := &fakeLeaveService{
		getAllFn: func(ctx context.Context, status string) ([]leave.LeaveResponse, error) {
			t.Fatal("employee_id filter must route to GetByEmployee")
			return nil, nil
		},
		getByEmployeeFn: func(ctx context.Context, empID string) ([]leave.LeaveResponse, error) {
			assert.Equal(t, employeeID, empID)
			return []leave.LeaveResponse{{ID: uuid.New().String(), EmployeeID: empID}}, nil
		},
	}

	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaves?employee_id="+employeeID, nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestLeaveHandler_Approve_AlreadyDecided(t *testing.T) {
	svc := &fakeLeaveService{
		approveFn: func(ctx context.Context, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
		},
	}

	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/approve", nil)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.Approve(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestLeaveHandler_Reject_RequiresReason(t *testing.T) {
	svc := &fakeLeaveService{
		rejectFn: func(ctx context.Context, id, rejectionReason string) (leave.LeaveResponse, error) {
			t.Fatal("service must not be called without a rejection reason")
			return leave.LeaveResponse{}, nil
		},
	}

	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/reject", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.Reject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}

func TestLeaveHandler_Reject(t *testing.T) {
	leaveID := uuid.New().String()

	svc := &fakeLeaveService{
		rejectFn: func(ctx context.Context, id, rejectionReason string) (leave.LeaveResponse, error) {
			assert.Equal(t, leaveID, id)
			assert.Equal(t, "overlapping project deadline", rejectionReason)
			reason := rejectionReason
			return leave.LeaveResponse{ID: id, Status: leave.StatusRejected, RejectionReason: &reason}, nil
		},
	}

	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"rejection_reason":"overlapping project deadline"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/reject", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "id", Value: leaveID}}

	h.Reject(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp leave.LeaveResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, leave.StatusRejected, resp.Status)
}
