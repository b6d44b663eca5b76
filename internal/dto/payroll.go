package dto

import (
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GenerateDraftRequest asks for the DRAFT cycle of a period.
type GenerateDraftRequest struct {
	Period string `json:"period" binding:"required,period"`
}

// EditLineRequest changes a line while its cycle is DRAFT. Nil fields keep
// their current value.
type EditLineRequest struct {
	ActualAmount *decimal.Decimal   `json:"actualAmount"`
	Status       *domain.LineStatus `json:"status" binding:"omitempty,oneof=PENDING EXCLUDED"`
	Reason       *string            `json:"reason"`
}

// CycleResponse is a cycle with its lines and totals.
type CycleResponse struct {
	domain.PayrollCycle
	Summary domain.CycleSummary `json:"summary"`
}

// ToCycleResponse converts a domain.PayrollCycle to CycleResponse DTO
func ToCycleResponse(c *domain.PayrollCycle) CycleResponse {
	return CycleResponse{PayrollCycle: *c, Summary: domain.Summarize(c.Lines)}
}

// ListCyclesParams defines query parameters for listing cycles.
type ListCyclesParams struct {
	Limit  int `form:"limit,default=12"`
	Offset int `form:"offset,default=0"`
}
