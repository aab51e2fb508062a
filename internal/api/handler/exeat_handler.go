package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/service"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// ExeatHandler serves exeat requests, their actions and countdowns.
type ExeatHandler struct {
	exeatSvc     service.ExeatService
	countdownSvc service.CountdownService
	calendarSvc  service.CalendarService
}

// NewExeatHandler creates an ExeatHandler.
func NewExeatHandler(exeatSvc service.ExeatService, countdownSvc service.CountdownService, calendarSvc service.CalendarService) *ExeatHandler {
	return &ExeatHandler{exeatSvc: exeatSvc, countdownSvc: countdownSvc, calendarSvc: calendarSvc}
}

// List returns the requests visible to the viewer.
// GET /api/v1/exeat-requests?status=&student_id=&page=&page_size=
func (h *ExeatHandler) List(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.ExeatListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "invalid query parameters")
		return
	}

	list, total, err := h.exeatSvc.List(c.Request.Context(), snap, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get returns one request.
// GET /api/v1/exeat-requests/:id
func (h *ExeatHandler) Get(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	view, err := h.exeatSvc.Get(c.Request.Context(), snap, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, view)
}

// Create files a new application.
// POST /api/v1/exeat-requests
func (h *ExeatHandler) Create(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.CreateExeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "some required fields are missing")
		return
	}

	view, err := h.exeatSvc.Create(c.Request.Context(), snap, req.Application())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, view)
}

// Act applies an action.
// POST /api/v1/exeat-requests/:id/:action
func (h *ExeatHandler) Act(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}
	action, known := workflow.ParseAction(c.Param("action"))
	if !known {
		response.NotFound(c, response.CodeNotFound, "unknown action")
		return
	}

	var req dto.ActionRequest
	// the body is optional for approve-type actions
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, response.CodeParamError, "invalid request body")
			return
		}
	}

	result, err := h.exeatSvc.Act(c.Request.Context(), snap, id, action, req.Comment)
	if err != nil {
		if result != nil && pkgerrors.KindOf(err) == pkgerrors.KindStaleState {
			status, code := response.StatusOf(pkgerrors.KindStaleState)
			response.ErrorWithData(c, status, code, pkgerrors.MessageOf(err, pkgerrors.ErrStaleState.Message), result)
			return
		}
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Countdown returns the time left until the return deadline.
// GET /api/v1/exeat-requests/:id/countdown
func (h *ExeatHandler) Countdown(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	v, err := h.countdownSvc.Get(c.Request.Context(), snap, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, v)
}

// CountdownStream pushes countdown updates as server-sent events until the
// client disconnects.
// GET /api/v1/exeat-requests/:id/countdown/stream
func (h *ExeatHandler) CountdownStream(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	ch, err := h.countdownSvc.Watch(c.Request.Context(), snap, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		v, open := <-ch
		if !open {
			return false
		}
		c.SSEvent("countdown", v)
		return true
	})
}

// Calendar downloads the exeat window as an iCalendar file.
// GET /api/v1/exeat-requests/:id/calendar.ics
func (h *ExeatHandler) Calendar(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.calendarSvc.ExeatCalendar(c.Request.Context(), snap, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
