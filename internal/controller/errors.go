package controller

import (
	"errors"
	"net/http"
	"strconv"

	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

var (
	ErrNilEconomy    = errors.New("economy service cannot be nil")
	ErrNilRepository = errors.New("repository cannot be nil")
	ErrNilLogger     = errors.New("logger cannot be nil")
)

type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func errorResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, APIError{Error: message})
}

func errorWithDetails(ctx *gin.Context, status int, message string, details string) {
	ctx.JSON(status, APIError{Error: message, Details: details})
}

func badRequest(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusBadRequest, message)
}

func badRequestWithDetails(ctx *gin.Context, message string, details string) {
	errorWithDetails(ctx, http.StatusBadRequest, message, details)
}

func notFound(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusNotFound, message)
}

func internalError(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusInternalServerError, message)
}

func serviceUnavailable(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusServiceUnavailable, message)
}

// serviceError maps an Economy error onto a status code. Unexpected errors are logged and
// hidden behind fallback.
func (c *Controller) serviceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		badRequest(ctx, err.Error())
	case errors.Is(err, service.ErrNotFound):
		notFound(ctx, err.Error())
	default:
		c.logger.Error(fallback, "path", ctx.FullPath(), "error", err)
		internalError(ctx, fallback)
	}
}

func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
