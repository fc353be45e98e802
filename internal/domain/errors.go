// Package domain holds storage-agnostic sentinel errors shared by the
// repository implementations and the use cases.
package domain

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
