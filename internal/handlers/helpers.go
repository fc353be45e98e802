package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	derrors "github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/logger"
)

// --------------------------------------------------
// Errors
// --------------------------------------------------

// respondError writes business errors with their mapped status and
// anything else as a logged 500.
func respondError(c *gin.Context, err error) {
	if httperr.FromError(c, err) {
		return
	}
	logger.FromContext(c).Error("request failed", zap.Error(err))
	httperr.Internal(c)
}

func invalid(field, rule, message string) error {
	return httperr.ErrValidation(httperr.FieldError{Field: field, Rule: rule, Message: message})
}

func notFoundOr(err error, code string) error {
	if errors.Is(err, derrors.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}

// --------------------------------------------------
// Params
// --------------------------------------------------

func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid(name, "id", name+" must be a positive integer")
	}
	return uint(id), nil
}

// parseInstant accepts RFC3339 with an explicit offset.
func parseInstant(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalid(field, "datetime", field+" must be RFC3339")
	}
	t = t.UTC()
	return &t, nil
}

// parseDayOrInstant accepts YYYY-MM-DD (UTC midnight) or RFC3339. With
// endOfDay a bare date covers the whole day.
func parseDayOrInstant(field, raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			d = d.Add(24 * time.Hour)
		}
		return &d, nil
	}
	return parseInstant(field, raw)
}
