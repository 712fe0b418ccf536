package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apppasses "github.com/staffpoint/backend/internal/application/passes"
	"github.com/staffpoint/backend/internal/domain/identity"
	"github.com/staffpoint/backend/internal/domain/passes"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/staffpoint/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTokenRepository is a mock implementation of passes.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *passes.QRToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) FindByToken(ctx context.Context, token string) (*passes.QRToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*passes.QRToken), args.Error(1)
}

func (m *MockTokenRepository) FindCurrentByEmployee(ctx context.Context, employeeNumber int, day time.Time) (*passes.QRToken, error) {
	args := m.Called(ctx, employeeNumber, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*passes.QRToken), args.Error(1)
}

func (m *MockTokenRepository) MarkUsedForCheckIn(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) MarkUsedForCheckOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockPersonDirectory is a mock implementation of identity.PersonDirectory
type MockPersonDirectory struct {
	mock.Mock
}

func (m *MockPersonDirectory) FindByEmployeeAndNationalID(ctx context.Context, employeeNumber int, nationalID int64) (*identity.Person, error) {
	args := m.Called(ctx, employeeNumber, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Person), args.Error(1)
}

func (m *MockPersonDirectory) FindByNationalID(ctx context.Context, nationalID int64) (*identity.Person, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Person), args.Error(1)
}

var handlerTestPerson = &identity.Person{
	EmployeeNumber: 1042,
	NationalID:     11223344556,
	FirstName:      "Ada",
	LastName:       "Yilmaz",
	Department:     "Engineering",
	Phone:          "05321234567",
}

func setupPassTest(t *testing.T) (*gin.Engine, *MockTokenRepository, *MockPersonDirectory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	tokenRepo := new(MockTokenRepository)
	directory := new(MockPersonDirectory)
	clock := shared.FixedClock{Instant: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)}
	service := apppasses.NewTokenService(tokenRepo, directory, clock, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewPassHandler(service).RegisterRoutes(api)

	return engine, tokenRepo, directory
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestPassHandler_Issue(t *testing.T) {
	t.Run("issues a pass with an embedded image", func(t *testing.T) {
		engine, tokenRepo, directory := setupPassTest(t)
		directory.On("FindByEmployeeAndNationalID", mock.Anything, 1042, int64(11223344556)).Return(handlerTestPerson, nil)
		tokenRepo.On("FindCurrentByEmployee", mock.Anything, 1042, mock.Anything).Return(nil, shared.ErrNotFound)
		tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*passes.QRToken")).Return(nil)
		tokenRepo.On("FindByToken", mock.Anything, mock.AnythingOfType("string")).
			Return(passes.NewQRToken(1042, 11223344556, "Ada", "Yilmaz", "", time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)), nil)

		recorder := postJSON(t, engine, "/api/v1/passes", IssuePassRequest{
			EmployeeNumber: 1042,
			NationalID:     11223344556,
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			Success bool         `json:"success"`
			Data    PassResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.NotEmpty(t, response.Data.Token)
		assert.NotEmpty(t, response.Data.Image)
		assert.Equal(t, 1042, response.Data.EmployeeNumber)
	})

	t.Run("unknown identity pair", func(t *testing.T) {
		engine, _, directory := setupPassTest(t)
		directory.On("FindByEmployeeAndNationalID", mock.Anything, 9999, int64(99988877766)).Return(nil, shared.ErrNotFound)

		recorder := postJSON(t, engine, "/api/v1/passes", IssuePassRequest{
			EmployeeNumber: 9999,
			NationalID:     99988877766,
		})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "PERSON_NOT_FOUND")
	})

	t.Run("missing fields", func(t *testing.T) {
		engine, _, _ := setupPassTest(t)

		recorder := postJSON(t, engine, "/api/v1/passes", gin.H{"employee_number": 1042})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestPassHandler_RenderImage(t *testing.T) {
	t.Run("renders a PNG", func(t *testing.T) {
		engine, tokenRepo, _ := setupPassTest(t)
		token := passes.NewQRToken(1042, 11223344556, "Ada", "Yilmaz", "", time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))
		tokenRepo.On("FindByToken", mock.Anything, token.Token).Return(token, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/passes/"+token.Token+"/image?size=128", nil)
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, recorder.Body.Bytes()[:4])
	})

	t.Run("unknown token", func(t *testing.T) {
		engine, tokenRepo, _ := setupPassTest(t)
		tokenRepo.On("FindByToken", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/passes/ghost/image", nil)
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_TOKEN")
	})
}
