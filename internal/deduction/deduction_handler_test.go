package deduction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/deduction"
	deductionerrors "go-payroll/internal/deduction/errors"

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

type fakeDeductionService struct {
	createFn          func(ctx context.Context, req deduction.CreateDeductionRequest) (deduction.DeductionResponse, error)
	getAllFn          func(ctx context.Context, employeeID, kind, status string) ([]deduction.DeductionResponse, error)
	getByIDFn         func(ctx context.Context, id string) (deduction.DeductionResponse, error)
	updateFn          func(ctx context.Context, id string, req deduction.UpdateDeductionRequest) (deduction.DeductionResponse, error)
	approveFn         func(ctx context.Context, id string) (deduction.DeductionResponse, error)
	deleteFn          func(ctx context.Context, id string) error
	getApplicationsFn func(ctx context.Context, id string) ([]deduction.InstallmentApplicationResponse, error)
	applyFn           func(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (deduction.AppliedInstallments, error)
	creditBackFn      func(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (deduction.CreditBackResult, error)
}

func (f *fakeDeductionService) Create(ctx context.Context, req deduction.CreateDeductionRequest) (deduction.DeductionResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeDeductionService) GetAll(ctx context.Context, employeeID, kind, status string) ([]deduction.DeductionResponse, error) {
	return f.getAllFn(ctx, employeeID, kind, status)
}
func (f *fakeDeductionService) GetByID(ctx context.Context, id string) (deduction.DeductionResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeDeductionService) Update(ctx context.Context, id string, req deduction.UpdateDeductionRequest) (deduction.DeductionResponse, error) {
	return f.updateFn(ctx, id, req)
}
func (f *fakeDeductionService) Approve(ctx context.Context, id string) (deduction.DeductionResponse, error) {
	return f.approveFn(ctx, id)
}
func (f *fakeDeductionService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeDeductionService) GetApplications(ctx context.Context, id string) ([]deduction.InstallmentApplicationResponse, error) {
	return f.getApplicationsFn(ctx, id)
}
func (f *fakeDeductionService) ApplyDueInstallments(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (deduction.AppliedInstallments, error) {
	return f.applyFn(ctx, employeeID, periodStart, periodEnd)
}
func (f *fakeDeductionService) CreditBack(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (deduction.CreditBackResult, error) {
	return f.creditBackFn(ctx, employeeID, periodStart, periodEnd)
}

func TestDeductionHandler_Create(t *testing.T) {
	employeeID := uuid.New().String()

	svc := &fakeDeductionService{
		createFn: func(ctx context.Context, req deduction.CreateDeductionRequest) (deduction.DeductionResponse, error) {
			assert.Equal(t, employeeID, req.EmployeeID)
			assert.Equal(t, "CASH_ADVANCE", req.Kind)
			assert.Equal(t, "1500", req.Amount)
			return deduction.DeductionResponse{
				ID:         uuid.New().String(),
				EmployeeID: req.EmployeeID,
				Kind:       req.Kind,
				Amount:     req.Amount,
				Status:     deduction.StatusPending,
			}, nil
		},
	}

	h := deduction.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + employeeID + `","kind":"CASH_ADVANCE","date":"2026-03-02","amount":"1500","installment_amount":"500"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/deductions", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestDeductionHandler_Create_BadKind(t *testing.T) {
	h := deduction.NewHandler(&fakeDeductionService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + uuid.New().String() + `","kind":"TAX","date":"2026-03-02","amount":"1500"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/deductions", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestDeductionHandler_GetAll_PassesFilters(t *testing.T) {
	employeeID := uuid.New().String()

	svc := &fakeDeductionService{
		getAllFn: func(ctx context.Context, empID, kind, status string) ([]deduction.DeductionResponse, error) {
			assert.Equal(t, employeeID, empID)
			assert.Equal(t, "LOAN", kind)
			assert.Equal(t, "APPROVED", status)
			return []deduction.DeductionResponse{}, nil
		},
	}

	h := deduction.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/deductions?employee_id="+employeeID+"&kind=LOAN&status=APPROVED", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestDeductionHandler_Approve_NotPending(t *testing.T) {
	svc := &fakeDeductionService{
		approveFn: func(ctx context.Context, id string) (deduction.DeductionResponse, error) {
			return deduction.DeductionResponse{}, deductionerrors.ErrNotPending
		},
	}

	h := deduction.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/deductions/"+uuid.New().String()+"/approve", nil)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.Approve(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestDeductionHandler_GetApplications(t *testing.T) {
	recordID := uuid.New().String()

	svc := &fakeDeductionService{
		getApplicationsFn: func(ctx context.Context, id string) ([]deduction.InstallmentApplicationResponse, error) {
			assert.Equal(t, recordID, id)
			return []deduction.InstallmentApplicationResponse{
				{ID: uuid.New().String(), DeductionRecordID: id, AppliedAmount: "500"},
			}, nil
		},
	}

	h := deduction.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/deductions/"+recordID+"/applications", nil)
	c.Params = []gin.Param{{Key: "id", Value: recordID}}

	h.GetApplications(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var apps []deduction.InstallmentApplicationResponse
	assert.NoError(t, json.Unmarshal(env.Data, &apps))
	assert.Len(t, apps, 1)
	assert.Equal(t, "500", apps[0].AppliedAmount)
}

func TestDeductionHandler_CreditBack_BadPeriod(t *testing.T) {
	svc := &fakeDeductionService{
		creditBackFn: func(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (deduction.CreditBackResult, error) {
			t.Fatal("service must not be called for a malformed period")
			return deduction.CreditBackResult{}, nil
		},
	}

	h := deduction.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + uuid.New().String() + `","period_start":"March 2","period_end":"2026-03-07"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/deductions/credit-back", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreditBack(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}
