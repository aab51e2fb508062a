package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// Business codes shared with the UI.
const (
	CodeOK               = 0
	CodeParamError       = 10001
	CodeUnauthorized     = 10002
	CodeForbidden        = 10003
	CodeRateLimited      = 10004
	CodeBodyTooLarge     = 10005
	CodeNotFound         = 10006
	CodeInvalidAction    = 20002
	CodeUnknownStatus    = 20003
	CodeStaleState       = 20004
	CodeNetwork          = 50201
	CodeUpstream         = 50202
	CodeInternal         = 50000
	CodeUnreachableState = 50001
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Pagination page metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData is a paginated payload.
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// ── Success ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// OKPage 200 with pagination.
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data: PageData{
			List: list,
			Pagination: Pagination{
				Page:       page,
				PageSize:   pageSize,
				Total:      total,
				TotalPages: totalPages,
			},
		},
	})
}

// ── Errors ──

// Error writes an error envelope.
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails writes an error envelope with details.
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message string, details interface{}) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// ErrorWithData writes an error envelope that still carries a payload, such
// as the refreshed request after a stale-state conflict.
func ErrorWithData(c *gin.Context, httpStatus int, code int, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// StatusOf maps an error kind to its HTTP status and business code.
func StatusOf(kind pkgerrors.Kind) (int, int) {
	switch kind {
	case pkgerrors.KindValidation:
		return http.StatusBadRequest, CodeParamError
	case pkgerrors.KindUnauthenticated:
		return http.StatusUnauthorized, CodeUnauthorized
	case pkgerrors.KindPermissionDenied:
		return http.StatusForbidden, CodeForbidden
	case pkgerrors.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case pkgerrors.KindInvalidAction:
		return http.StatusConflict, CodeInvalidAction
	case pkgerrors.KindStaleState:
		return http.StatusConflict, CodeStaleState
	case pkgerrors.KindUnknownStatus:
		return http.StatusUnprocessableEntity, CodeUnknownStatus
	case pkgerrors.KindNetwork:
		return http.StatusBadGateway, CodeNetwork
	case pkgerrors.KindUpstream:
		return http.StatusBadGateway, CodeUpstream
	case pkgerrors.KindUnreachableTransition:
		return http.StatusInternalServerError, CodeUnreachableState
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// FromError writes the envelope for a classified error. Unclassified errors
// become a generic 500 so internal details never reach the browser.
func FromError(c *gin.Context, err error) {
	kind := pkgerrors.KindOf(err)
	if kind == "" {
		InternalError(c)
		return
	}
	status, code := StatusOf(kind)
	msg := pkgerrors.MessageOf(err, http.StatusText(status))
	var e *pkgerrors.Error
	if errors.As(err, &e) && len(e.Fields) > 0 {
		ErrorWithDetails(c, status, code, msg, e.Fields)
		return
	}
	Error(c, status, code, msg)
}
