package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/application/enrollment"
	"github.com/staffpoint/backend/internal/interfaces/http/middleware"
)

// EnrollmentHandler handles the SMS-verified enrollment flow and login
type EnrollmentHandler struct {
	BaseHandler
	enrollmentService *enrollment.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService *enrollment.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// InitiateEnrollmentRequest identifies the person to enroll
type InitiateEnrollmentRequest struct {
	NationalID     int64 `json:"national_id" binding:"required,national_id"`
	EmployeeNumber int   `json:"employee_number" binding:"required,min=1"`
}

// InitiateEnrollmentResponse tells the caller where the code went
type InitiateEnrollmentResponse struct {
	MaskedPhone string    `json:"masked_phone"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CompleteEnrollmentRequest carries the verification code and chosen password
type CompleteEnrollmentRequest struct {
	NationalID     int64  `json:"national_id" binding:"required,national_id"`
	EmployeeNumber int    `json:"employee_number" binding:"required,min=1"`
	Code           string `json:"code" binding:"required,len=6,numeric"`
	Password       string `json:"password" binding:"required,min=8,max=128"`
}

// AccountResponse is the API shape of a local account
type AccountResponse struct {
	ID             string `json:"id"`
	NationalID     int64  `json:"national_id"`
	EmployeeNumber int    `json:"employee_number"`
	Role           string `json:"role"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	NationalID int64  `json:"national_id" binding:"required,national_id"`
	Password   string `json:"password" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse carries tokens plus the account
type LoginResponse struct {
	Token   TokenResponse   `json:"token"`
	Account AccountResponse `json:"account"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Initiate godoc
// @Summary      Start enrollment
// @Description  Verifies the person against the registry and sends an SMS code
// @Tags         enrollment
// @Accept       json
// @Produce      json
// @Param        request body InitiateEnrollmentRequest true "Identity pair"
// @Success      200 {object} dto.Response{data=InitiateEnrollmentResponse}
// @Router       /enrollment/initiate [post]
func (h *EnrollmentHandler) Initiate(c *gin.Context) {
	var req InitiateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.enrollmentService.Initiate(c.Request.Context(), enrollment.InitiateInput{
		NationalID:     req.NationalID,
		EmployeeNumber: req.EmployeeNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, InitiateEnrollmentResponse{
		MaskedPhone: result.MaskedPhone,
		ExpiresAt:   result.ExpiresAt,
	})
}

// Complete godoc
// @Summary      Finish enrollment
// @Description  Verifies the SMS code and creates the local account
// @Tags         enrollment
// @Accept       json
// @Produce      json
// @Param        request body CompleteEnrollmentRequest true "Code and password"
// @Success      201 {object} dto.Response{data=AccountResponse}
// @Router       /enrollment/complete [post]
func (h *EnrollmentHandler) Complete(c *gin.Context) {
	var req CompleteEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.enrollmentService.Complete(c.Request.Context(), enrollment.CompleteInput{
		NationalID:     req.NationalID,
		EmployeeNumber: req.EmployeeNumber,
		Code:           req.Code,
		Password:       req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAccountResponse(result))
}

// Login godoc
// @Summary      Account login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Router       /auth/login [post]
func (h *EnrollmentHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.enrollmentService.Login(c.Request.Context(), enrollment.LoginInput{
		NationalID: req.NationalID,
		Password:   req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLoginResponse(result))
}

// Refresh godoc
// @Summary      Refresh the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Router       /auth/refresh [post]
func (h *EnrollmentHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.enrollmentService.Refresh(c.Request.Context(), enrollment.RefreshInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLoginResponse(result))
}

// Me godoc
// @Summary      The authenticated account
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=AccountResponse}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *EnrollmentHandler) Me(c *gin.Context) {
	accountID, err := uuid.Parse(middleware.GetJWTAccountID(c))
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.enrollmentService.Me(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountResponse(result))
}

// RegisterRoutes registers enrollment and auth routes
func (h *EnrollmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	enrollmentGroup := rg.Group("/enrollment")
	{
		enrollmentGroup.POST("/initiate", h.Initiate)
		enrollmentGroup.POST("/complete", h.Complete)
	}

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", h.Me)
	}
}

func toAccountResponse(result *enrollment.AccountResult) AccountResponse {
	return AccountResponse{
		ID:             result.ID.String(),
		NationalID:     result.NationalID,
		EmployeeNumber: result.EmployeeNumber,
		Role:           result.Role,
	}
}

func toLoginResponse(result *enrollment.LoginResult) LoginResponse {
	return LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		Account: toAccountResponse(&result.Account),
	}
}
