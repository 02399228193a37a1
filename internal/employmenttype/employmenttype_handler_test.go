package employmenttype_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/employmenttype"
	employmenttypeerrors "go-payroll/internal/employmenttype/errors"

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

type fakeEmploymentTypeService struct {
	createFn  func(ctx context.Context, req employmenttype.CreateEmploymentTypeRequest) (employmenttype.EmploymentTypeResponse, error)
	getAllFn  func(ctx context.Context) ([]employmenttype.EmploymentTypeResponse, error)
	getByIDFn func(ctx context.Context, id string) (employmenttype.EmploymentTypeResponse, error)
	updateFn  func(ctx context.Context, id string, req employmenttype.UpdateEmploymentTypeRequest) (employmenttype.EmploymentTypeResponse, error)
	deleteFn  func(ctx context.Context, id string) error
	resolveFn func(ctx context.Context, id string, date string) (employmenttype.ScheduleWindowResponse, error)
}

func (f *fakeEmploymentTypeService) Create(ctx context.Context, req employmenttype.CreateEmploymentTypeRequest) (employmenttype.EmploymentTypeResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeEmploymentTypeService) GetAll(ctx context.Context) ([]employmenttype.EmploymentTypeResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeEmploymentTypeService) GetByID(ctx context.Context, id string) (employmenttype.EmploymentTypeResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeEmploymentTypeService) Update(ctx context.Context, id string, req employmenttype.UpdateEmploymentTypeRequest) (employmenttype.EmploymentTypeResponse, error) {
	return f.updateFn(ctx, id, req)
}
func (f *fakeEmploymentTypeService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeEmploymentTypeService) Resolve(ctx context.Context, id string, date string) (employmenttype.ScheduleWindowResponse, error) {
	return f.resolveFn(ctx, id, date)
}

func TestEmploymentTypeHandler_Create(t *testing.T) {
	svc := &fakeEmploymentTypeService{
		createFn: func(ctx context.Context, req employmenttype.CreateEmploymentTypeRequest) (employmenttype.EmploymentTypeResponse, error) {
			assert.Equal(t, "Regular", req.Name)
			assert.Len(t, req.Schedule, 7)
			return employmenttype.EmploymentTypeResponse{ID: uuid.New().String(), Name: req.Name}, nil
		},
	}

	h := employmenttype.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{
		"name": "Regular",
		"schedule": [
			{"weekday": 0, "is_rest_day": true},
			{"weekday": 1, "time_in": "08:00", "time_out": "17:00"},
			{"weekday": 2, "time_in": "08:00", "time_out": "17:00"},
			{"weekday": 3, "time_in": "08:00", "time_out": "17:00"},
			{"weekday": 4, "time_in": "08:00", "time_out": "17:00"},
			{"weekday": 5, "time_in": "08:00", "time_out": "17:00"},
			{"weekday": 6, "is_rest_day": true}
		]
	}`
	c.Request = httptest.NewRequest(http.MethodPost, "/employment-types", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestEmploymentTypeHandler_Create_MissingSchedule(t *testing.T) {
	h := employmenttype.NewHandler(&fakeEmploymentTypeService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/employment-types", strings.NewReader(`{"name":"Regular"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestEmploymentTypeHandler_GetById_NotFound(t *testing.T) {
	svc := &fakeEmploymentTypeService{
		getByIDFn: func(ctx context.Context, id string) (employmenttype.EmploymentTypeResponse, error) {
			return employmenttype.EmploymentTypeResponse{}, employmenttypeerrors.ErrEmploymentTypeNotFound
		},
	}

	h := employmenttype.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/employment-types/"+uuid.New().String(), nil)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.GetById(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEmploymentTypeHandler_ResolveSchedule(t *testing.T) {
	typeID := uuid.New().String()

	svc := &fakeEmploymentTypeService{
		resolveFn: func(ctx context.Context, id string, date string) (employmenttype.ScheduleWindowResponse, error) {
			assert.Equal(t, typeID, id)
			assert.Equal(t, "2026-03-02", date)
			return employmenttype.ScheduleWindowResponse{
				Date:                 date,
				TimeIn:               "08:00",
				TimeOut:              "17:00",
				RequiresTimeTracking: true,
			}, nil
		},
	}

	h := employmenttype.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/employment-types/"+typeID+"/schedule?date=2026-03-02", nil)
	c.Params = []gin.Param{{Key: "id", Value: typeID}}

	h.ResolveSchedule(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var win employmenttype.ScheduleWindowResponse
	assert.NoError(t, json.Unmarshal(env.Data, &win))
	assert.Equal(t, "08:00", win.TimeIn)
}

func TestEmploymentTypeHandler_ResolveSchedule_MissingDate(t *testing.T) {
	svc := &fakeEmploymentTypeService{
		resolveFn: func(ctx context.Context, id string, date string) (employmenttype.ScheduleWindowResponse, error) {
			t.Fatal("service must not be called without a date")
			return employmenttype.ScheduleWindowResponse{}, nil
		},
	}

	h := employmenttype.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/employment-types/"+uuid.New().String()+"/schedule", nil)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.ResolveSchedule(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}
