package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/service"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// DebtHandler serves student debts.
type DebtHandler struct {
	debtSvc service.DebtService
}

// NewDebtHandler creates a DebtHandler.
func NewDebtHandler(debtSvc service.DebtService) *DebtHandler {
	return &DebtHandler{debtSvc: debtSvc}
}

// List returns debts; students only see their own.
// GET /api/v1/debts
func (h *DebtHandler) List(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.DebtListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "invalid query parameters")
		return
	}

	list, total, err := h.debtSvc.List(c.Request.Context(), snap, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Create records a debt.
// POST /api/v1/debts
func (h *DebtHandler) Create(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "student, exeat request and a positive amount are required")
		return
	}

	debt, err := h.debtSvc.Create(c.Request.Context(), snap, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, debt)
}

// Clear marks a paid debt cleared.
// POST /api/v1/debts/:id/clear
func (h *DebtHandler) Clear(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ClearDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "notes are required when clearing a debt")
		return
	}

	debt, err := h.debtSvc.Clear(c.Request.Context(), snap, id, req.Notes)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, debt)
}

// VerifyPayment checks a payment reference.
// GET /api/v1/debts/:id/verify-payment?reference=
func (h *DebtHandler) VerifyPayment(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "a payment reference is required")
		return
	}

	result, err := h.debtSvc.VerifyPayment(c.Request.Context(), snap, id, req.Reference)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}
