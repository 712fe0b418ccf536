package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appattendance "github.com/staffpoint/backend/internal/application/attendance"
	"github.com/staffpoint/backend/internal/domain/attendance"
	"github.com/staffpoint/backend/internal/domain/passes"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/staffpoint/backend/internal/infrastructure/auth"
	"github.com/staffpoint/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTokenGateway is a mock implementation of attendance.TokenGateway
type MockTokenGateway struct {
	mock.Mock
}

func (m *MockTokenGateway) FetchIfPresentable(ctx context.Context, token string) (*passes.QRToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*passes.QRToken), args.Error(1)
}

func (m *MockTokenGateway) ConsumeForCheckIn(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenGateway) ConsumeForCheckOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func setupAttendanceTest(t *testing.T) (*gin.Engine, *MockRecordRepository, *MockTokenGateway, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recordRepo := new(MockRecordRepository)
	tokens := new(MockTokenGateway)
	service := appattendance.NewAttendanceService(recordRepo, tokens, nil, shared.SystemClock{}, zap.NewNop())
	jwtService := testHandlerJWTService()

	engine := gin.New()
	engine.Use(middleware.JWTAuthMiddleware(jwtService))
	api := engine.Group("/api/v1")
	NewAttendanceHandler(service).RegisterRoutes(api)

	return engine, recordRepo, tokens, jwtService
}

func scannerToken() *passes.QRToken {
	return passes.NewQRToken(1042, 11223344556, "Ada", "Yilmaz", "10.0.0.5", time.Now())
}

func TestAttendanceHandler_CheckIn(t *testing.T) {
	t.Run("creates an open record", func(t *testing.T) {
		engine, recordRepo, tokens, _ := setupAttendanceTest(t)
		token := scannerToken()
		tokens.On("FetchIfPresentable", mock.Anything, token.Token).Return(token, nil)
		recordRepo.On("FindOpenByEmployee", mock.Anything, 1042).Return(nil, shared.ErrNotFound)
		recordRepo.On("Create", mock.Anything, mock.AnythingOfType("*attendance.Record")).Return(nil)
		tokens.On("ConsumeForCheckIn", mock.Anything, token.Token).Return(nil)

		recorder := postJSON(t, engine, "/api/v1/attendance/check-in", PunchRequest{
			Token:     token.Token,
			Latitude:  37.066,
			Longitude: 37.383,
			Note:      "Main gate",
		})

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"CHECKED_IN"`)
		tokens.AssertExpectations(t)
	})

	t.Run("accepts equator and prime meridian coordinates", func(t *testing.T) {
		engine, recordRepo, tokens, _ := setupAttendanceTest(t)
		token := scannerToken()
		tokens.On("FetchIfPresentable", mock.Anything, token.Token).Return(token, nil)
		recordRepo.On("FindOpenByEmployee", mock.Anything, 1042).Return(nil, shared.ErrNotFound)
		recordRepo.On("Create", mock.Anything, mock.AnythingOfType("*attendance.Record")).Return(nil)
		tokens.On("ConsumeForCheckIn", mock.Anything, token.Token).Return(nil)

		recorder := postJSON(t, engine, "/api/v1/attendance/check-in", PunchRequest{
			Token:     token.Token,
			Latitude:  0,
			Longitude: 0,
		})

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"CHECKED_IN"`)
	})

	t.Run("rejects a consumed token", func(t *testing.T) {
		engine, recordRepo, tokens, _ := setupAttendanceTest(t)
		token := scannerToken()
		token.UsedForCheckIn = true
		tokens.On("FetchIfPresentable", mock.Anything, token.Token).Return(token, nil)
		recordRepo.On("FindOpenByEmployee", mock.Anything, 1042).Return(nil, shared.ErrNotFound)

		recorder := postJSON(t, engine, "/api/v1/attendance/check-in", PunchRequest{
			Token:     token.Token,
			Latitude:  37.066,
			Longitude: 37.383,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "TOKEN_CONSUMED")
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		engine, _, tokens, _ := setupAttendanceTest(t)
		tokens.On("FetchIfPresentable", mock.Anything, "ghost").Return(nil, passes.ErrInvalidToken)

		recorder := postJSON(t, engine, "/api/v1/attendance/check-in", PunchRequest{
			Token:     "ghost",
			Latitude:  37.066,
			Longitude: 37.383,
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects out-of-range coordinates at binding", func(t *testing.T) {
		engine, _, _, _ := setupAttendanceTest(t)

		recorder := postJSON(t, engine, "/api/v1/attendance/check-in", gin.H{
			"token":     "whatever",
			"latitude":  137.0,
			"longitude": 37.383,
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestAttendanceHandler_CheckOut(t *testing.T) {
	t.Run("closes the open record", func(t *testing.T) {
		engine, recordRepo, tokens, _ := setupAttendanceTest(t)
		token := scannerToken()
		open, err := attendance.NewRecord(1042, time.Now().Add(-8*time.Hour), 37.066, 37.383, "10.0.0.5", "")
		require.NoError(t, err)

		tokens.On("FetchIfPresentable", mock.Anything, token.Token).Return(token, nil)
		recordRepo.On("FindOpenByEmployee", mock.Anything, 1042).Return(open, nil)
		recordRepo.On("Update", mock.Anything, open).Return(nil)
		tokens.On("ConsumeForCheckOut", mock.Anything, token.Token).Return(nil)

		recorder := postJSON(t, engine, "/api/v1/attendance/check-out", PunchRequest{
			Token:     token.Token,
			Latitude:  37.067,
			Longitude: 37.384,
		})

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"CHECKED_OUT"`)
	})

	t.Run("no open record", func(t *testing.T) {
		engine, recordRepo, tokens, _ := setupAttendanceTest(t)
		token := scannerToken()
		tokens.On("FetchIfPresentable", mock.Anything, token.Token).Return(token, nil)
		recordRepo.On("FindOpenByEmployee", mock.Anything, 1042).Return(nil, shared.ErrNotFound)

		recorder := postJSON(t, engine, "/api/v1/attendance/check-out", PunchRequest{
			Token:     token.Token,
			Latitude:  37.067,
			Longitude: 37.384,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "NO_OPEN_CHECK_IN")
	})
}

func TestAttendanceHandler_History(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		engine, _, _, _ := setupAttendanceTest(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/history", nil)
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("lists the caller's records", func(t *testing.T) {
		engine, recordRepo, _, jwtService := setupAttendanceTest(t)

		record, err := attendance.NewRecord(1042, time.Now(), 37.066, 37.383, "10.0.0.5", "")
		require.NoError(t, err)
		recordRepo.On("FindByEmployee", mock.Anything, 1042).Return([]*attendance.Record{record}, nil)

		recorder := adminGet(t, engine, jwtService, "USER", "/api/v1/attendance/history")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"employee_number":1042`)
	})
}
