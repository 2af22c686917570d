package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_backend/internal/middleware"
	"stock_backend/internal/models"
	"stock_backend/internal/services"
)

type fakeWorkRecordService struct {
	startErr  error
	closeErr  error
	monthErr  error
	gotActor  models.Actor
	gotPage   models.PageParams
	gotUserID string
	gotMonth  string
	monthPage *models.MonthWorkRecordsPage
}

func (f *fakeWorkRecordService) record(status models.WorkRecordStatus) *models.WorkRecord {
	return &models.WorkRecord{ID: "r1", UserID: "u1", Status: status, Description: models.Notes{}}
}

func (f *fakeWorkRecordService) StartShift(ctx context.Context, actor models.Actor, req services.StartShiftRequest) (*models.WorkRecord, error) {
	f.gotActor = actor
	f.gotUserID = req.Profile.ID
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.record(models.WorkRecordActive), nil
}

func (f *fakeWorkRecordService) AddDetails(ctx context.Context, actor models.Actor, req services.AddDetailsRequest) (*models.WorkRecord, error) {
	if req.NewDetails.RegisterID != "r1" {
		return nil, services.ErrWorkRecordNotFound
	}
	rec := f.record(models.WorkRecordActive)
	rec.Description = append(rec.Description, models.Note{Date: time.Now(), Details: req.NewDetails.Details})
	return rec, nil
}

func (f *fakeWorkRecordService) EndShiftByUser(ctx context.Context, actor models.Actor, userID string) (*models.WorkRecord, error) {
	f.gotUserID = userID
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	return f.record(models.WorkRecordClosed), nil
}

func (f *fakeWorkRecordService) CloseShift(ctx context.Context, actor models.Actor, recordID, userID string) (*models.WorkRecord, error) {
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	return f.record(models.WorkRecordClosed), nil
}

func (f *fakeWorkRecordService) ListActive(ctx context.Context, page models.PageParams) (*models.ActiveWorkRecordsPage, error) {
	f.gotPage = page
	return &models.ActiveWorkRecordsPage{Data: []models.WorkRecord{}, TotalItems: 0, TotalPages: 0}, nil
}

func (f *fakeWorkRecordService) ListCurrentMonthByUser(ctx context.Context, userID string, page models.PageParams) (*models.UserWorkRecordsPage, error) {
	f.gotUserID = userID
	f.gotPage = page
	return &models.UserWorkRecordsPage{CurrentPage: page.Page, Data: []models.WorkRecord{}}, nil
}

func (f *fakeWorkRecordService) SearchByMonth(ctx context.Context, userID, month string, page models.PageParams) (*models.MonthWorkRecordsPage, error) {
	f.gotUserID = userID
	f.gotMonth = month
	if f.monthErr != nil {
		return nil, f.monthErr
	}
	return f.monthPage, nil
}

func withActor(actor models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, actor.ID)
		c.Set(middleware.ContextUserName, actor.Name)
		c.Set(middleware.ContextUserRole, actor.Role)
		c.Next()
	}
}

func newWorkRecordRouter(svc services.WorkRecordService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withActor(models.Actor{ID: "a1", Name: "Marta", Role: "admin"}))
	h := NewWorkRecordHandler(svc)
	r.POST("/work-records/start-worker-hours", h.StartShift)
	r.POST("/work-records/add-details", h.AddDetails)
	r.POST("/work-records/end-worker-hours", h.EndShift)
	r.POST("/work-records/close-records", h.CloseRecord)
	r.GET("/work-records/active", h.GetActiveRecords)
	r.GET("/work-hours/all-record/:userId", h.GetUserRecords)
	r.GET("/work-hours/search/months", h.SearchByMonth)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestWorkRecordHandler_StartShift(t *testing.T) {
	profile := map[string]interface{}{
		"profile": map[string]string{"id": "u1", "name": "Ana", "surName": "Paz", "documents": "30111222"},
	}

	t.Run("created", func(t *testing.T) {
		svc := &fakeWorkRecordService{}
		w := doJSON(newWorkRecordRouter(svc), http.MethodPost, "/work-records/start-worker-hours", profile)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", svc.gotUserID)
		assert.Equal(t, models.Actor{ID: "a1", Name: "Marta", Role: "admin"}, svc.gotActor)

		var rec models.WorkRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
		assert.Equal(t, models.WorkRecordActive, rec.Status)
		assert.NotContains(t, w.Body.String(), "endTime")
	})

	t.Run("missing profile fields", func(t *testing.T) {
		w := doJSON(newWorkRecordRouter(&fakeWorkRecordService{}), http.MethodPost, "/work-records/start-worker-hours",
			map[string]interface{}{"profile": map[string]string{"id": "u1"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))
	})

	t.Run("already active", func(t *testing.T) {
		svc := &fakeWorkRecordService{startErr: services.ErrActiveShiftExists}
		w := doJSON(newWorkRecordRouter(svc), http.MethodPost, "/work-records/start-worker-hours", profile)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", errorCode(t, w))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := &fakeWorkRecordService{startErr: services.ErrUserNotFound}
		w := doJSON(newWorkRecordRouter(svc), http.MethodPost, "/work-records/start-worker-hours", profile)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWorkRecordHandler_AddDetails(t *testing.T) {
	r := newWorkRecordRouter(&fakeWorkRecordService{})

	w := doJSON(r, http.MethodPost, "/work-records/add-details",
		map[string]interface{}{"newDetails": map[string]string{"registerId": "r1", "details": "limpieza"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "limpieza")

	w = doJSON(r, http.MethodPost, "/work-records/add-details",
		map[string]interface{}{"newDetails": map[string]string{"registerId": "nope", "details": "x"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestWorkRecordHandler_Close(t *testing.T) {
	svc := &fakeWorkRecordService{}
	r := newWorkRecordRouter(svc)

	w := doJSON(r, http.MethodPost, "/work-records/end-worker-hours", map[string]string{"id": "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", svc.gotUserID)

	w = doJSON(r, http.MethodPost, "/work-records/close-records", map[string]string{"recordId": "r1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.closeErr = services.ErrWorkRecordNotFound
	w = doJSON(r, http.MethodPost, "/work-records/close-records", map[string]string{"recordId": "r1", "userId": "u1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/work-records/end-worker-hours", map[string]string{"id": "u1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkRecordHandler_Listings(t *testing.T) {
	svc := &fakeWorkRecordService{}
	r := newWorkRecordRouter(svc)

	w := doJSON(r, http.MethodGet, "/work-records/active?limit=500&page=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PageParams{Page: 1, Limit: 100}, svc.gotPage)
	assert.JSONEq(t, `{"data":[],"totalItems":0,"totalPages":0}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/work-hours/all-record/u7?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u7", svc.gotUserID)
	assert.JSONEq(t, `{"totalRecords":0,"totalPages":0,"currentPage":2,"data":[]}`, w.Body.String())
}

func TestWorkRecordHandler_SearchByMonth(t *testing.T) {
	svc := &fakeWorkRecordService{monthPage: &models.MonthWorkRecordsPage{
		TotalPages: 1, TotalLogs: 0, Data: []string{"SIN DATOS PARA EL MES DE MARZO"},
	}}
	r := newWorkRecordRouter(svc)

	w := doJSON(r, http.MethodGet, "/work-hours/search/months?userId=u1&search=marzo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "marzo", svc.gotMonth)
	assert.JSONEq(t, `{"totalPages":1,"totalLogs":0,"data":["SIN DATOS PARA EL MES DE MARZO"]}`, w.Body.String())

	svc.monthErr = services.ErrInvalidMonth
	w = doJSON(r, http.MethodGet, "/work-hours/search/months?userId=u1&search=march", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, w))
}
