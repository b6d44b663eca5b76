package dto

import "github.com/SscSPs/coop_payroll_app/internal/core/domain"

// GenerateVouchersRequest asks for the vouchers of a period.
type GenerateVouchersRequest struct {
	Period string `json:"period" binding:"required,period"`
}

// GenerateVouchersResponse reports what a generation run produced.
type GenerateVouchersResponse struct {
	Period   string           `json:"period"`
	Created  []domain.Voucher `json:"created"`
	Existing int              `json:"existing"` // members that already had a voucher for the period
}

// ListVouchersParams defines query parameters for listing vouchers.
type ListVouchersParams struct {
	Period string `form:"period" binding:"required,period"`
}
