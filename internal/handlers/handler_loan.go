package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// loanHandler handles HTTP requests related to loans.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// registerLoanRoutes registers routes related to loans.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := &loanHandler{loanService: loanService}

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("/:loanID", h.getLoan)
		loans.POST("/:loanID/approve", h.approveLoan)
		loans.POST("/:loanID/repayments", h.recordRepayment)
	}
}

// createLoan godoc
// @Summary Request a loan
// @Description Records a PENDING loan with its repayment terms
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.CreateLoanRequest true "Loan terms"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid terms"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 409 {object} map[string]string "Member is not active"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create loan")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan, nil))
}

// getLoan godoc
// @Summary Get a loan with its repayments
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	loan, repayments, err := h.loanService.GetLoan(c.Request.Context(), c.Param("loanID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan, repayments))
}

// approveLoan godoc
// @Summary Approve a loan
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 409 {object} map[string]string "Loan is not pending"
// @Security BearerAuth
// @Router /loans/{loanID}/approve [post]
func (h *loanHandler) approveLoan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	loan, err := h.loanService.ApproveLoan(c.Request.Context(), c.Param("loanID"), userID)
	if err != nil {
		respondError(c, err, "Failed to approve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan, nil))
}

// recordRepayment godoc
// @Summary Record a direct repayment
// @Description Applies money paid outside payroll to a loan
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   repayment body dto.DirectRepaymentRequest true "Repayment"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 409 {object} map[string]string "Loan is not approved"
// @Security BearerAuth
// @Router /loans/{loanID}/repayments [post]
func (h *loanHandler) recordRepayment(c *gin.Context) {
	var req dto.DirectRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	loan, err := h.loanService.RecordDirectRepayment(c.Request.Context(), c.Param("loanID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record repayment")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan, nil))
}
