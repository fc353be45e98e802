package httperr

import "errors"

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotInBusiness       = "NOT_IN_BUSINESS"
	CodeMaxConfirmedReached = "MAX_CONFIRMED_REACHED"
	CodeSlotTaken           = "SLOT_TAKEN"
	CodeOnlyConfirmedCancel = "ONLY_CONFIRMED_CAN_BE_CANCELED"
	CodeCannotCancelIn24h   = "CANNOT_CANCEL_WITHIN_24H"
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
)

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type BusinessError struct {
	Code   string
	Detail string
	Fields []FieldError
}

func (e BusinessError) Error() string {
	if e.Detail != "" {
		return e.Code + ": " + e.Detail
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessf(code, detail string) error {
	return BusinessError{Code: code, Detail: detail}
}

func ErrValidation(fields ...FieldError) error {
	return BusinessError{Code: CodeValidation, Fields: fields}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness unwraps err into a BusinessError when it carries one.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
