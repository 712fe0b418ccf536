package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffpoint/backend/internal/application/passes"
	"github.com/staffpoint/backend/internal/interfaces/http/middleware"
)

// PassHandler handles QR pass issuance and rendering
type PassHandler struct {
	BaseHandler
	tokenService *passes.TokenService
}

// NewPassHandler creates a new pass handler
func NewPassHandler(tokenService *passes.TokenService) *PassHandler {
	return &PassHandler{tokenService: tokenService}
}

// IssuePassRequest identifies the employee requesting a pass
type IssuePassRequest struct {
	EmployeeNumber int   `json:"employee_number" binding:"required,min=1"`
	NationalID     int64 `json:"national_id" binding:"required,national_id"`
}

// PassResponse carries the issued pass and its consumption state
type PassResponse struct {
	Token           string    `json:"token"`
	EmployeeNumber  int       `json:"employee_number"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	IssuedAt        time.Time `json:"issued_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	UsedForCheckIn  bool      `json:"used_for_check_in"`
	UsedForCheckOut bool      `json:"used_for_check_out"`
	Reused          bool      `json:"reused"`
	Image           string    `json:"image,omitempty"`
}

// RenderPassRequest selects the pass image size
type RenderPassRequest struct {
	Size int `form:"size" binding:"omitempty,min=64,max=1024"`
}

// Issue godoc
// @Summary      Issue a QR pass
// @Description  Issues the employee's pass for today, or returns the existing one
// @Tags         passes
// @Accept       json
// @Produce      json
// @Param        request body IssuePassRequest true "Employee identity pair"
// @Success      200 {object} dto.Response{data=PassResponse}
// @Router       /passes [post]
func (h *PassHandler) Issue(c *gin.Context) {
	var req IssuePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.tokenService.Issue(c.Request.Context(), passes.IssueTokenInput{
		EmployeeNumber: req.EmployeeNumber,
		NationalID:     req.NationalID,
		IP:             c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	image, err := h.tokenService.RenderBase64(c.Request.Context(), passes.RenderInput{Token: result.Token})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPassResponse(result, image))
}

// RenderImage godoc
// @Summary      Render a pass as PNG
// @Tags         passes
// @Produce      png
// @Param        token path string true "Pass token"
// @Param        size query int false "Image size in pixels"
// @Success      200 {file} binary
// @Router       /passes/{token}/image [get]
func (h *PassHandler) RenderImage(c *gin.Context) {
	var req RenderPassRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	png, err := h.tokenService.RenderPNG(c.Request.Context(), passes.RenderInput{
		Token: c.Param("token"),
		Size:  req.Size,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// RegisterRoutes registers pass routes
func (h *PassHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/passes")
	{
		group.POST("", h.Issue)
		group.GET("/:token/image", h.RenderImage)
	}
}

func toPassResponse(result *passes.TokenResult, image string) PassResponse {
	return PassResponse{
		Token:           result.Token,
		EmployeeNumber:  result.EmployeeNumber,
		FirstName:       result.FirstName,
		LastName:        result.LastName,
		IssuedAt:        result.IssuedAt,
		ExpiresAt:       result.ExpiresAt,
		UsedForCheckIn:  result.UsedForCheckIn,
		UsedForCheckOut: result.UsedForCheckOut,
		Reused:          result.Reused,
		Image:           image,
	}
}
