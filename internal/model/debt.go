package model

import (
	"time"

	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// Debt is a financial record attached to an exeat request, such as a
// late-return penalty.
type Debt struct {
	ID               int64      `json:"id"`
	StudentID        int64      `json:"student_id"`
	ExeatRequestID   int64      `json:"exeat_request_id"`
	Amount           float64    `json:"amount"`
	PaymentStatus    string     `json:"payment_status"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	OverdueHours     int        `json:"overdue_hours"`
	ClearedBy        *int64     `json:"cleared_by,omitempty"`
	ClearedAt        *time.Time `json:"cleared_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Student          *User      `json:"student,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DebtStatus returns the typed payment status; unknown values read as unpaid.
func (d *Debt) DebtStatus() workflow.DebtStatus {
	if s, ok := workflow.ParseDebtStatus(d.PaymentStatus); ok {
		return s
	}
	return workflow.DebtUnpaid
}

// PaymentVerification is the outcome of checking a payment reference.
type PaymentVerification struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
	Debt     *Debt  `json:"debt,omitempty"`
}
