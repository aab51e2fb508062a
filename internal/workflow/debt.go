package workflow

import (
	"strings"

	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// DebtStatus is the payment state of a student debt.
type DebtStatus string

const (
	DebtUnpaid  DebtStatus = "unpaid"
	DebtPaid    DebtStatus = "paid"
	DebtCleared DebtStatus = "cleared"
)

// ParseDebtStatus converts a raw payment status.
func ParseDebtStatus(s string) (DebtStatus, bool) {
	switch DebtStatus(strings.ToLower(strings.TrimSpace(s))) {
	case DebtUnpaid:
		return DebtUnpaid, true
	case DebtPaid:
		return DebtPaid, true
	case DebtCleared:
		return DebtCleared, true
	}
	return "", false
}

// CanVerifyPayment reports whether a payment reference may be checked for a debt.
func CanVerifyPayment(s DebtStatus) error {
	if s != DebtUnpaid {
		return pkgerrors.Newf(pkgerrors.KindInvalidAction, "a %s debt has no pending payment to verify", s)
	}
	return nil
}

// CanClear reports whether staff may clear a debt. Only paid debts can be
// cleared, and the audit notes are mandatory.
func CanClear(s DebtStatus, notes string) error {
	if s != DebtPaid {
		return pkgerrors.Newf(pkgerrors.KindInvalidAction, "only paid debts can be cleared, this one is %s", s)
	}
	if strings.TrimSpace(notes) == "" {
		return pkgerrors.New(pkgerrors.KindValidation, "notes are required when clearing a debt")
	}
	return nil
}
