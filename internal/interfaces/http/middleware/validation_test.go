package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/staffpoint/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type punchIdentity struct {
		NationalID int64  `json:"national_id" binding:"required,national_id"`
		Code       string `json:"code" binding:"required,len=6,numeric"`
	}

	engine := gin.New()
	engine.POST("/test", func(c *gin.Context) {
		var req punchIdentity
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return engine
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestNationalIDTag(t *testing.T) {
	engine := validationTestEngine(t)

	t.Run("accepts an 11-digit national ID", func(t *testing.T) {
		body := strings.NewReader(`{"national_id": 11223344556, "code": "123456"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("rejects a short national ID", func(t *testing.T) {
		body := strings.NewReader(`{"national_id": 12345, "code": "123456"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
	})
}

func TestFormatValidationErrors(t *testing.T) {
	engine := validationTestEngine(t)

	t.Run("reports each invalid field with its JSON name", func(t *testing.T) {
		body := strings.NewReader(`{"national_id": 12345, "code": "12ab"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		require.Len(t, resp.Error.Details, 2)

		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "national_id")
		assert.Contains(t, fields, "code")
	})

	t.Run("malformed JSON still yields a validation response", func(t *testing.T) {
		body := strings.NewReader(`{not json`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type input struct {
		Required   string `validate:"required"`
		NationalID int64  `validate:"national_id"`
		MinStr     string `validate:"min=5"`
		Len        string `validate:"len=6"`
		OneOf      string `validate:"oneof=CHECKED_IN CHECKED_OUT"`
		Numeric    string `validate:"numeric"`
	}

	v := validator.New()
	require.NoError(t, v.RegisterValidation("national_id", validNationalID))

	err := v.Struct(input{
		NationalID: 42,
		MinStr:     "ab",
		Len:        "12",
		OneOf:      "LUNCH",
		Numeric:    "12ab",
	})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.StructField()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Must be an 11-digit national ID", messages["NationalID"])
	assert.Equal(t, "Must be at least 5 characters", messages["MinStr"])
	assert.Equal(t, "Must be exactly 6 characters", messages["Len"])
	assert.Equal(t, "Must be one of: CHECKED_IN CHECKED_OUT", messages["OneOf"])
	assert.Equal(t, "Must be numeric", messages["Numeric"])
}
