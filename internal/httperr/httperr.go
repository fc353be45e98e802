package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string       `json:"error_code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

var statusByCode = map[string]int{
	CodeValidation:          http.StatusBadRequest,
	CodeNotInBusiness:       http.StatusBadRequest,
	CodeMaxConfirmedReached: http.StatusConflict,
	CodeSlotTaken:           http.StatusConflict,
	CodeOnlyConfirmedCancel: http.StatusConflict,
	CodeCannotCancelIn24h:   http.StatusConflict,
	CodeConflict:            http.StatusConflict,
	CodeNotFound:            http.StatusNotFound,
	CodeForbidden:           http.StatusForbidden,
	CodeUnauthorized:        http.StatusUnauthorized,
	CodeRateLimited:         http.StatusTooManyRequests,
}

var messageByCode = map[string]string{
	CodeValidation:          "Invalid request.",
	CodeNotInBusiness:       "Client or worker does not belong to this business.",
	CodeMaxConfirmedReached: "Client already has the maximum number of confirmed appointments.",
	CodeSlotTaken:           "The requested time slot is no longer available.",
	CodeOnlyConfirmedCancel: "Only confirmed appointments can be canceled.",
	CodeCannotCancelIn24h:   "Appointments cannot be canceled this close to their start.",
	CodeConflict:            "Resource already exists.",
	CodeNotFound:            "Resource not found.",
	CodeForbidden:           "Operation not allowed for this role.",
	CodeUnauthorized:        "Authentication required.",
	CodeRateLimited:         "Too many requests.",
	CodeInternal:            "Unexpected server error.",
}

// StatusFor maps a business code to its HTTP status; unknown codes are 500.
func StatusFor(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Abort writes the error and stops the middleware chain.
func Abort(c *gin.Context, code string) {
	c.AbortWithStatusJSON(StatusFor(code), HTTPError{
		Code:    code,
		Message: messageByCode[code],
	})
}

// FromError writes a business error with its mapped status. It reports
// false when err is not a business error so the caller can log it.
func FromError(c *gin.Context, err error) bool {
	be, ok := AsBusiness(err)
	if !ok {
		return false
	}
	c.JSON(StatusFor(be.Code), HTTPError{
		Code:    be.Code,
		Message: messageByCode[be.Code],
		Fields:  be.Fields,
	})
	return true
}

// Internal writes the generic 500 body; the cause stays in the logs.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, HTTPError{
		Code:    CodeInternal,
		Message: messageByCode[CodeInternal],
	})
}
