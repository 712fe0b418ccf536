package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffpoint/backend/internal/application/attendance"
	"github.com/staffpoint/backend/internal/interfaces/http/middleware"
)

// AttendanceHandler handles scanner punches and attendance history
type AttendanceHandler struct {
	BaseHandler
	attendanceService *attendance.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *attendance.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// PunchRequest is what the scanner posts when a pass is presented.
// Timestamp is optional; scanners that buffer punches offline send the
// capture time, others leave it empty and the server clock is used.
// The coordinate fields must not carry "required": the validator treats
// the float zero value as absent, and 0 is a legal coordinate.
type PunchRequest struct {
	Token     string  `json:"token" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Note      string  `json:"note" binding:"omitempty,max=500"`
	Timestamp string  `json:"timestamp" binding:"omitempty"`
}

// AttendanceRecordResponse is the API shape of an attendance record
type AttendanceRecordResponse struct {
	ID                string     `json:"id"`
	EmployeeNumber    int        `json:"employee_number"`
	Direction         string     `json:"direction,omitempty"`
	Status            string     `json:"status"`
	CheckInTime       time.Time  `json:"check_in_time"`
	CheckInLatitude   float64    `json:"check_in_latitude"`
	CheckInLongitude  float64    `json:"check_in_longitude"`
	CheckInNote       string     `json:"check_in_note,omitempty"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	CheckOutLatitude  *float64   `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64   `json:"check_out_longitude,omitempty"`
	CheckOutNote      string     `json:"check_out_note,omitempty"`
	DurationMinutes   int        `json:"duration_minutes,omitempty"`
}

// CheckIn godoc
// @Summary      Check in with a QR pass
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body PunchRequest true "Scanner punch"
// @Success      201 {object} dto.Response{data=AttendanceRecordResponse}
// @Router       /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	h.punch(c, h.attendanceService.CheckIn)
}

// CheckOut godoc
// @Summary      Check out with a QR pass
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body PunchRequest true "Scanner punch"
// @Success      201 {object} dto.Response{data=AttendanceRecordResponse}
// @Router       /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	h.punch(c, h.attendanceService.CheckOut)
}

// Record godoc
// @Summary      Record a punch, direction inferred from current state
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body PunchRequest true "Scanner punch"
// @Success      201 {object} dto.Response{data=AttendanceRecordResponse}
// @Router       /attendance/record [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	h.punch(c, h.attendanceService.Record)
}

type punchFunc func(ctx context.Context, input attendance.PunchInput) (*attendance.RecordResult, error)

func (h *AttendanceHandler) punch(c *gin.Context, op punchFunc) {
	var req PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := op(c.Request.Context(), attendance.PunchInput{
		Token:     req.Token,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IP:        c.ClientIP(),
		Note:      req.Note,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRecordResponse(result))
}

// History godoc
// @Summary      List the authenticated employee's attendance records
// @Tags         attendance
// @Produce      json
// @Success      200 {object} dto.Response{data=[]AttendanceRecordResponse}
// @Security     BearerAuth
// @Router       /attendance/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	results, err := h.attendanceService.History(c.Request.Context(), claims.EmployeeNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	records := make([]AttendanceRecordResponse, len(results))
	for i, result := range results {
		records[i] = toRecordResponse(result)
	}
	h.Success(c, records)
}

// RegisterRoutes registers attendance routes
func (h *AttendanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/attendance")
	{
		group.POST("/check-in", h.CheckIn)
		group.POST("/check-out", h.CheckOut)
		group.POST("/record", h.Record)
		group.GET("/history", h.History)
	}
}

func toRecordResponse(result *attendance.RecordResult) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:                result.ID.String(),
		EmployeeNumber:    result.EmployeeNumber,
		Direction:         string(result.Direction),
		Status:            string(result.Status),
		CheckInTime:       result.CheckInTime,
		CheckInLatitude:   result.CheckInLatitude,
		CheckInLongitude:  result.CheckInLongitude,
		CheckInNote:       result.CheckInNote,
		CheckOutTime:      result.CheckOutTime,
		CheckOutLatitude:  result.CheckOutLatitude,
		CheckOutLongitude: result.CheckOutLongitude,
		CheckOutNote:      result.CheckOutNote,
		DurationMinutes:   int(result.Duration.Minutes()),
	}
}
