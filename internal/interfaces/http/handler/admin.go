package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/application/attendance"
	"github.com/staffpoint/backend/internal/domain/identity"
	"github.com/staffpoint/backend/internal/interfaces/http/dto"
	"github.com/staffpoint/backend/internal/interfaces/http/middleware"
)

// AdminHandler handles administrative attendance record management
type AdminHandler struct {
	BaseHandler
	attendanceService *attendance.AttendanceService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(attendanceService *attendance.AttendanceService) *AdminHandler {
	return &AdminHandler{attendanceService: attendanceService}
}

// ListRecordsRequest filters the record listing
type ListRecordsRequest struct {
	EmployeeNumber int    `form:"employee_number" binding:"omitempty,min=1"`
	Status         string `form:"status" binding:"omitempty,oneof=CHECKED_IN CHECKED_OUT"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateRecordRequest carries the editable record fields. Absent fields
// are left unchanged.
type UpdateRecordRequest struct {
	CheckInNote  *string    `json:"check_in_note" binding:"omitempty,max=500"`
	CheckOutNote *string    `json:"check_out_note" binding:"omitempty,max=500"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
}

// ListRecords godoc
// @Summary      List attendance records
// @Tags         admin
// @Produce      json
// @Param        employee_number query int false "Filter by employee"
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]AttendanceRecordResponse}
// @Security     BearerAuth
// @Router       /admin/records [get]
func (h *AdminHandler) ListRecords(c *gin.Context) {
	var req ListRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.attendanceService.List(c.Request.Context(), attendance.ListRecordsInput{
		EmployeeNumber: req.EmployeeNumber,
		Status:         req.Status,
		Page:           req.Page,
		PageSize:       req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	records := make([]AttendanceRecordResponse, len(result.Records))
	for i, record := range result.Records {
		records[i] = toRecordResponse(record)
	}
	h.SuccessWithMeta(c, records, result.Total, result.Page, result.PageSize)
}

// GetRecord godoc
// @Summary      Get a single attendance record
// @Tags         admin
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      200 {object} dto.Response{data=AttendanceRecordResponse}
// @Security     BearerAuth
// @Router       /admin/records/{id} [get]
func (h *AdminHandler) GetRecord(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	result, err := h.attendanceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRecordResponse(result))
}

// UpdateRecord godoc
// @Summary      Correct an attendance record
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Record ID"
// @Param        request body UpdateRecordRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=AttendanceRecordResponse}
// @Security     BearerAuth
// @Router       /admin/records/{id} [patch]
func (h *AdminHandler) UpdateRecord(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.attendanceService.UpdateRecord(c.Request.Context(), attendance.UpdateRecordInput{
		ID:           id,
		CheckInNote:  req.CheckInNote,
		CheckOutNote: req.CheckOutNote,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRecordResponse(result))
}

// DeleteRecord godoc
// @Summary      Delete an attendance record
// @Tags         admin
// @Param        id path string true "Record ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/records/{id} [delete]
func (h *AdminHandler) DeleteRecord(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	if err := h.attendanceService.DeleteRecord(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers admin routes behind the ADMIN role
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/admin", middleware.RequireRole(string(identity.RoleAdmin)))
	{
		group.GET("/records", h.ListRecords)
		group.GET("/records/:id", h.GetRecord)
		group.PATCH("/records/:id", h.UpdateRecord)
		group.DELETE("/records/:id", h.DeleteRecord)
	}
}

func (h *AdminHandler) recordID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid record ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return uuid.Nil, false
	}
	return id, true
}
