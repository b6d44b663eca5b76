package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// cronHandler serves the endpoint called by an external scheduler.
type cronHandler struct {
	payrollService portssvc.PayrollCycleSvc
	now            func() time.Time
}

func registerCronRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollCycleSvc, now func() time.Time) {
	h := &cronHandler{payrollService: payrollService, now: now}
	rg.POST("/auto-post", h.autoPost)
}

// autoPost godoc
// @Summary Auto-post the current period if due
// @Description Creates, confirms and posts the current period's cycle once the due day is reached. Safe to call repeatedly.
// @Tags cron
// @Produce  json
// @Success 200 {object} domain.AutoPostResult
// @Failure 401 {object} map[string]string "Invalid API key"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security ApiKeyAuth
// @Router /cron/auto-post [post]
func (h *cronHandler) autoPost(c *gin.Context) {
	result, err := h.payrollService.AutoPostIfDue(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, err, "Auto-post failed")
		return
	}
	c.JSON(http.StatusOK, result)
}
