package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

const (
	errCodeInvalidDate     = "invalid_date"
	errCodeInvalidInterval = "invalid_interval"
	errCodeSchema          = "schema_error"
	errCodeValidation      = "validation_error"
	errCodeNotFound        = "not_found"
	errCodeUnavailable     = "unavailable"
	errCodeInternal        = "internal_error"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// respondDomainError maps core errors to 400 and everything else to 500.
func respondDomainError(ctx context.Context, c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		respondError(c, http.StatusBadRequest, errCodeInvalidDate, err.Error())
	case errors.Is(err, domain.ErrInvalidInterval):
		respondError(c, http.StatusBadRequest, errCodeInvalidInterval, err.Error())
	case errors.Is(err, domain.ErrSchema):
		respondError(c, http.StatusBadRequest, errCodeSchema, err.Error())
	default:
		slog.ErrorContext(ctx, "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errCodeInternal, "internal error")
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		slog.WarnContext(c.Request.Context(), "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, errCodeValidation, err.Error())
		return false
	}
	return true
}
