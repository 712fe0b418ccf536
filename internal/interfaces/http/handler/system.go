package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffpoint/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	primary   Pinger
	registry  Pinger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(primary, registry Pinger) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		primary:   primary,
		registry:  registry,
	}
}

// HealthResponse reports component health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
	Registry string `json:"registry" example:"ok"`
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"StaffPoint Backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @Summary      Health check
// @Description  Pings the primary database and the registry connection
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	health := HealthResponse{Status: "ok", Database: "ok", Registry: "ok"}
	status := http.StatusOK

	if err := h.primary.Ping(); err != nil {
		health.Database = "unreachable"
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	// A registry outage blocks enrollment and issuance but not punches,
	// so it degrades health without failing the probe.
	if err := h.registry.Ping(); err != nil {
		health.Registry = "unreachable"
		if health.Status == "ok" {
			health.Status = "degraded"
		}
	}

	c.JSON(status, dto.NewSuccessResponse(health))
}

// Info godoc
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "StaffPoint Backend",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	h.Success(c, info)
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/system/info", h.Info)
}
