package holiday_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/holiday"
	holidayerrors "go-payroll/internal/holiday/errors"

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

type fakeHolidayService struct {
	createFn      func(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error)
	getAllFn      func(ctx context.Context, year int) ([]holiday.HolidayResponse, error)
	getByIDFn     func(ctx context.Context, id string) (holiday.HolidayResponse, error)
	getCalendarFn func(ctx context.Context, year int, month time.Month) ([]holiday.HolidayDayResponse, error)
	updateFn      func(ctx context.Context, id string, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeHolidayService) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeHolidayService) GetAll(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	return f.getAllFn(ctx, year)
}
func (f *fakeHolidayService) GetByID(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeHolidayService) GetCalendar(ctx context.Context, year int, month time.Month) ([]holiday.HolidayDayResponse, error) {
	return f.getCalendarFn(ctx, year, month)
}
func (f *fakeHolidayService) Update(ctx context.Context, id string, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	return f.updateFn(ctx, id, req)
}
func (f *fakeHolidayService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestHolidayHandler_Create(t *testing.T) {
	svc := &fakeHolidayService{
		createFn: func(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
			assert.Equal(t, "Labor Day", req.Name)
			assert.Equal(t, "REGULAR", req.Type)
			return holiday.HolidayResponse{
				ID:        uuid.New().String(),
				Name:      req.Name,
				Type:      req.Type,
				StartDate: req.StartDate,
				EndDate:   req.EndDate,
			}, nil
		},
	}

	h := holiday.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"name":"Labor Day","type":"REGULAR","start_date":"2026-05-01","end_date":"2026-05-01"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/holidays", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestHolidayHandler_Create_MissingName(t *testing.T) {
	h := holiday.NewHandler(&fakeHolidayService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"type":"REGULAR","start_date":"2026-05-01","end_date":"2026-05-01"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/holidays", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestHolidayHandler_Create_BadType(t *testing.T) {
	svc := &fakeHolidayService{
		createFn: func(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
			return holiday.HolidayResponse{}, holidayerrors.ErrInvalidHolidayType
		},
	}

	h := holiday.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"name":"Fiesta","type":"LOCAL","start_date":"2026-05-01","end_date":"2026-05-01"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/holidays", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestHolidayHandler_GetCalendar(t *testing.T) {
	svc := &fakeHolidayService{
		getCalendarFn: func(ctx context.Context, year int, month time.Month) ([]holiday.HolidayDayResponse, error) {
			assert.Equal(t, 2026, year)
			assert.Equal(t, time.April, month)
			return []holiday.HolidayDayResponse{
				{Date: "2026-04-09", Name: "Day of Valor", Type: "REGULAR"},
			}, nil
		},
	}

	h := holiday.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/holidays/calendar/2026/4", nil)
	c.Params = []gin.Param{{Key: "year", Value: "2026"}, {Key: "month", Value: "4"}}

	h.GetCalendar(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var days []holiday.HolidayDayResponse
	assert.NoError(t, json.Unmarshal(env.Data, &days))
	assert.Len(t, days, 1)
	assert.Equal(t, "2026-04-09", days[0].Date)
}

func TestHolidayHandler_GetCalendar_BadMonth(t *testing.T) {
	svc := &fakeHolidayService{
		getCalendarFn: func(ctx context.Context, year int, month time.Month) ([]holiday.HolidayDayResponse, error) {
			t.Fatal("service must not be called for an out-of-range month")
			return nil, nil
		},
	}

	h := holiday.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/holidays/calendar/2026/13", nil)
	c.Params = []gin.Param{{Key: "year", Value: "2026"}, {Key: "month", Value: "13"}}

	h.GetCalendar(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}

func TestHolidayHandler_Delete_NotFound(t *testing.T) {
	svc := &fakeHolidayService{
		deleteFn: func(ctx context.Context, id string) error {
			return holidayerrors.ErrHolidayNotFound
		},
	}

	h := holiday.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/holidays/"+uuid.New().String(), nil)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
