package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/SscSPs/coop_payroll_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// memberHandler handles HTTP requests related to members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
	loanService   portssvc.LoanReaderSvc
}

func newMemberHandler(ms portssvc.MemberSvcFacade, ls portssvc.LoanReaderSvc) *memberHandler {
	return &memberHandler{memberService: ms, loanService: ls}
}

// registerMemberRoutes registers routes related to members.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade, loanService portssvc.LoanReaderSvc) {
	h := newMemberHandler(memberService, loanService)

	members := rg.Group("/members")
	{
		members.POST("", h.registerMember)
		members.GET("", h.listMembers)
		members.POST("/reconcile-loan-balances", h.reconcileLoanBalances)
		members.GET("/:memberID", h.getMember)
		members.POST("/:memberID/close", h.closeMember)
		members.GET("/:memberID/transactions", h.listTransactions)
		members.GET("/:memberID/loans", h.listLoans)
	}
}

// registerMember godoc
// @Summary Register a member
// @Description Registers a member and issues their first voucher
// @Tags members
// @Accept  json
// @Produce  json
// @Param   member body dto.RegisterMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Failed to register member"
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) registerMember(c *gin.Context) {
	var req dto.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	member, err := h.memberService.RegisterMember(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to register member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// listMembers godoc
// @Summary List members
// @Tags members
// @Produce  json
// @Param   status query string false "PENDING, ACTIVE or CLOSED"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	var params dto.ListMembersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMemberResponse(members))
}

// getMember godoc
// @Summary Get a member
// @Tags members
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// closeMember godoc
// @Summary Close a member
// @Description Closes a member without outstanding loans and removes their open vouchers
// @Tags members
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 409 {object} map[string]string "Member already closed or still owes money"
// @Security BearerAuth
// @Router /members/{memberID}/close [post]
func (h *memberHandler) closeMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	member, err := h.memberService.CloseMember(c.Request.Context(), c.Param("memberID"), userID)
	if err != nil {
		respondError(c, err, "Failed to close member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// listTransactions godoc
// @Summary List a member's ledger transactions
// @Tags members
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid cursor"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID}/transactions [get]
func (h *memberHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	txns, next, err := h.memberService.ListMemberTransactions(c.Request.Context(), c.Param("memberID"), params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: txns, NextToken: next})
}

// listLoans godoc
// @Summary List a member's loans
// @Tags members
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {array} domain.Loan
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID}/loans [get]
func (h *memberHandler) listLoans(c *gin.Context) {
	loans, err := h.loanService.ListMemberLoans(c.Request.Context(), c.Param("memberID"))
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// reconcileLoanBalances godoc
// @Summary Repair cached loan balances
// @Description Recomputes every member's loanBalance from their approved loans
// @Tags members
// @Produce  json
// @Success 200 {object} dto.ReconcileLoanBalancesResponse
// @Security BearerAuth
// @Router /members/reconcile-loan-balances [post]
func (h *memberHandler) reconcileLoanBalances(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	repaired, err := h.memberService.ReconcileLoanBalances(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to reconcile loan balances")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Loan balances reconciled", slog.Int("repaired", len(repaired)))
	c.JSON(http.StatusOK, dto.ReconcileLoanBalancesResponse{Repaired: repaired})
}
