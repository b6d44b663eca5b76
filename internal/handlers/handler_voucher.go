package handlers

import (
	"net/http"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := &voucherHandler{voucherService: voucherService}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("/generate", h.generateVouchers)
		vouchers.GET("", h.listVouchers)
		vouchers.POST("/:voucherID/sent", h.markSent)
	}
}

// generateVouchers godoc
// @Summary Generate the vouchers of a period
// @Description Issues a voucher to every active member that has none for the period yet
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   request body dto.GenerateVouchersRequest true "Period (YYYY-MM)"
// @Success 200 {object} dto.GenerateVouchersResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /vouchers/generate [post]
func (h *voucherHandler) generateVouchers(c *gin.Context) {
	var req dto.GenerateVouchersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	created, existing, err := h.voucherService.GenerateVouchers(c.Request.Context(), req.Period, userID)
	if err != nil {
		respondError(c, err, "Failed to generate vouchers")
		return
	}
	if created == nil {
		created = []domain.Voucher{}
	}
	c.JSON(http.StatusOK, dto.GenerateVouchersResponse{Period: req.Period, Created: created, Existing: existing})
}

// listVouchers godoc
// @Summary List the vouchers of a period
// @Tags vouchers
// @Produce  json
// @Param   period query string true "Period (YYYY-MM)"
// @Success 200 {array} domain.Voucher
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	vouchers, err := h.voucherService.ListVouchers(c.Request.Context(), params.Period)
	if err != nil {
		respondError(c, err, "Failed to list vouchers")
		return
	}
	c.JSON(http.StatusOK, vouchers)
}

// markSent godoc
// @Summary Mark a voucher as sent
// @Tags vouchers
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} domain.Voucher
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not GENERATED"
// @Security BearerAuth
// @Router /vouchers/{voucherID}/sent [post]
func (h *voucherHandler) markSent(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	voucher, err := h.voucherService.MarkSent(c.Request.Context(), c.Param("voucherID"), userID)
	if err != nil {
		respondError(c, err, "Failed to mark voucher sent")
		return
	}
	c.JSON(http.StatusOK, voucher)
}
