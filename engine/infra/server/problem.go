package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/chainview/chainview/engine/normalizer"
	"github.com/chainview/chainview/engine/service"
	"github.com/chainview/chainview/engine/value/envelope"
	"github.com/chainview/chainview/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Problem codes carried in the "code" member of error responses.
const (
	CodeInvalidEnvelope = "invalid_envelope"
	CodeInvalidRequest  = "invalid_request"
	CodeDepthExceeded   = "depth_exceeded"
	CodeBatchTooLarge   = "batch_too_large"
	CodeBodyTooLarge    = "body_too_large"
	CodeCanceled        = "request_canceled"
	CodeInternal        = "internal_error"
)

// Problem is an RFC 7807 style error body.
type Problem struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
	Path   string `json:"path,omitempty"`
	Index  *int   `json:"index,omitempty"`
}

func newProblem(status int, code, detail string) *Problem {
	return &Problem{Status: status, Title: http.StatusText(status), Code: code, Detail: detail}
}

// problemFromError maps service and decoding errors onto HTTP problems.
func problemFromError(err error) *Problem {
	var problem *Problem
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		problem = newProblem(http.StatusRequestEntityTooLarge, CodeBodyTooLarge, err.Error())
	case errors.Is(err, service.ErrBatchTooLarge):
		problem = newProblem(http.StatusRequestEntityTooLarge, CodeBatchTooLarge, err.Error())
	case errors.Is(err, service.ErrEmptyBatch):
		problem = newProblem(http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, normalizer.ErrDepthExceeded):
		problem = newProblem(http.StatusUnprocessableEntity, CodeDepthExceeded, err.Error())
	case errors.Is(err, envelope.ErrInvalidEnvelope):
		problem = newProblem(http.StatusBadRequest, CodeInvalidEnvelope, err.Error())
		var envErr *envelope.Error
		if errors.As(err, &envErr) {
			problem.Path = envErr.Path
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		problem = newProblem(http.StatusServiceUnavailable, CodeCanceled, err.Error())
	default:
		problem = newProblem(http.StatusInternalServerError, CodeInternal, "normalization failed")
	}
	var itemErr *service.ItemError
	if errors.As(err, &itemErr) {
		idx := itemErr.Index
		problem.Index = &idx
	}
	return problem
}

// RespondProblem writes problem as application/problem+json and aborts the chain.
func RespondProblem(c *gin.Context, problem *Problem) {
	log := logger.FromContext(c.Request.Context())
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	fields := []any{"status", problem.Status, "code", problem.Code, "detail", problem.Detail, "route", route}
	if problem.Status >= http.StatusInternalServerError {
		log.Error("Request failed", fields...)
	} else {
		log.Warn("Request failed", fields...)
	}
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err and writes the resulting problem.
func RespondError(c *gin.Context, err error) {
	RespondProblem(c, problemFromError(err))
}
