package handlers

import (
	"net/http"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// payrollHandler handles HTTP requests related to payroll cycles.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// registerPayrollRoutes registers routes related to payroll cycles and lines.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}

	payroll := rg.Group("/payroll")
	{
		payroll.POST("/cycles", h.generateDraft)
		payroll.GET("/cycles", h.listCycles)
		payroll.GET("/cycles/:cycleID", h.getCycle)
		payroll.POST("/cycles/:cycleID/confirm", h.confirmFinance)
		payroll.POST("/cycles/:cycleID/post", h.postCycle)
		payroll.PATCH("/lines/:lineID", h.editLine)
	}
}

// generateDraft godoc
// @Summary Generate the draft cycle of a period
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   request body dto.GenerateDraftRequest true "Period (YYYY-MM)"
// @Success 201 {object} dto.CycleResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 409 {object} map[string]string "A cycle already exists for the period"
// @Security BearerAuth
// @Router /payroll/cycles [post]
func (h *payrollHandler) generateDraft(c *gin.Context) {
	var req dto.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cycle, err := h.payrollService.GenerateDraft(c.Request.Context(), req.Period, userID)
	if err != nil {
		respondError(c, err, "Failed to generate payroll draft")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCycleResponse(cycle))
}

// listCycles godoc
// @Summary List payroll cycles, or get the cycle of one period
// @Tags payroll
// @Produce  json
// @Param   period query string false "Period (YYYY-MM); returns that cycle with its lines"
// @Param   limit query int false "Limit number of results" default(12)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} domain.PayrollCycle
// @Security BearerAuth
// @Router /payroll/cycles [get]
func (h *payrollHandler) listCycles(c *gin.Context) {
	if period := c.Query("period"); period != "" {
		cycle, err := h.payrollService.GetCycleByPeriod(c.Request.Context(), period)
		if err != nil {
			respondError(c, err, "Failed to retrieve payroll cycle")
			return
		}
		c.JSON(http.StatusOK, dto.ToCycleResponse(cycle))
		return
	}

	var params dto.ListCyclesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	cycles, err := h.payrollService.ListCycles(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list payroll cycles")
		return
	}
	if cycles == nil {
		cycles = []domain.PayrollCycle{}
	}
	c.JSON(http.StatusOK, cycles)
}

// getCycle godoc
// @Summary Get a payroll cycle with its lines
// @Tags payroll
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Failure 404 {object} map[string]string "Cycle not found"
// @Security BearerAuth
// @Router /payroll/cycles/{cycleID} [get]
func (h *payrollHandler) getCycle(c *gin.Context) {
	cycle, err := h.payrollService.GetCycle(c.Request.Context(), c.Param("cycleID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payroll cycle")
		return
	}
	c.JSON(http.StatusOK, dto.ToCycleResponse(cycle))
}

// editLine godoc
// @Summary Edit a payroll line
// @Description Changes the actual amount, status or reason of a line while its cycle is DRAFT
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   lineID path string true "Line ID"
// @Param   line body dto.EditLineRequest true "Changes"
// @Success 200 {object} domain.PayrollLine
// @Failure 400 {object} map[string]string "Invalid change"
// @Failure 409 {object} map[string]string "Cycle is no longer editable"
// @Security BearerAuth
// @Router /payroll/lines/{lineID} [patch]
func (h *payrollHandler) editLine(c *gin.Context) {
	var req dto.EditLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	line, err := h.payrollService.EditLine(c.Request.Context(), c.Param("lineID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to edit payroll line")
		return
	}
	c.JSON(http.StatusOK, line)
}

// confirmFinance godoc
// @Summary Finance sign-off of a draft cycle
// @Tags payroll
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {object} domain.PayrollCycle
// @Failure 409 {object} map[string]string "Cycle is not DRAFT"
// @Security BearerAuth
// @Router /payroll/cycles/{cycleID}/confirm [post]
func (h *payrollHandler) confirmFinance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cycle, err := h.payrollService.ConfirmFinance(c.Request.Context(), c.Param("cycleID"), userID)
	if err != nil {
		respondError(c, err, "Failed to confirm payroll cycle")
		return
	}
	c.JSON(http.StatusOK, cycle)
}

// postCycle godoc
// @Summary Post a confirmed cycle to the member ledgers
// @Tags payroll
// @Produce  json
// @Param   cycleID path string true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Failure 409 {object} map[string]string "Cycle is not FINANCE_CONFIRMED"
// @Failure 500 {object} map[string]string "Posting rolled back"
// @Security BearerAuth
// @Router /payroll/cycles/{cycleID}/post [post]
func (h *payrollHandler) postCycle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cycle, err := h.payrollService.PostCycle(c.Request.Context(), c.Param("cycleID"), userID)
	if err != nil {
		respondError(c, err, "Failed to post payroll cycle")
		return
	}
	c.JSON(http.StatusOK, dto.ToCycleResponse(cycle))
}
