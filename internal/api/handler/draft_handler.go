package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/service"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// DraftHandler serves the signed-in student's saved draft.
type DraftHandler struct {
	draftSvc service.DraftService
}

// NewDraftHandler creates a DraftHandler.
func NewDraftHandler(draftSvc service.DraftService) *DraftHandler {
	return &DraftHandler{draftSvc: draftSvc}
}

// Get GET /api/v1/drafts/me
func (h *DraftHandler) Get(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	d, err := h.draftSvc.Get(c.Request.Context(), snap)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, d)
}

// Save PUT /api/v1/drafts/me
func (h *DraftHandler) Save(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "invalid draft")
		return
	}
	d, err := h.draftSvc.Save(c.Request.Context(), snap, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, d)
}

// Delete DELETE /api/v1/drafts/me
func (h *DraftHandler) Delete(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	if err := h.draftSvc.Delete(c.Request.Context(), snap); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}

// Submit POST /api/v1/drafts/me/submit
func (h *DraftHandler) Submit(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	view, err := h.draftSvc.Submit(c.Request.Context(), snap)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, view)
}
