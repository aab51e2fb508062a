package dto

// ── Debts ──

// DebtListRequest is the query of GET /debts.
type DebtListRequest struct {
	PaginationRequest
	StudentID     int64  `form:"student_id"     binding:"omitempty,min=1"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=unpaid paid cleared"`
}

// CreateDebtRequest is the body of POST /debts.
type CreateDebtRequest struct {
	StudentID      int64   `json:"student_id"       binding:"required,min=1"`
	ExeatRequestID int64   `json:"exeat_request_id" binding:"required,min=1"`
	Amount         float64 `json:"amount"           binding:"required,gt=0"`
	OverdueHours   int     `json:"overdue_hours"    binding:"omitempty,min=0"`
	Notes          string  `json:"notes"            binding:"max=1000"`
}

// ClearDebtRequest is the body of POST /debts/:id/clear.
type ClearDebtRequest struct {
	Notes string `json:"notes" binding:"required,max=1000"`
}

// VerifyPaymentRequest is the query of GET /debts/:id/verify-payment.
type VerifyPaymentRequest struct {
	Reference string `form:"reference" binding:"required"`
}
