package services

import (
	"errors"
	"strings"

	"catalog/internal/validators"
)

// ErrInvalidArgument is the family of caller errors. Every error below
// satisfies errors.Is(err, ErrInvalidArgument).
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrNilRequest is returned when no request was supplied.
	ErrNilRequest = &argumentError{msg: "request is required"}
	// ErrInvalidProductID is returned when an update targets an unknown product.
	ErrInvalidProductID = &argumentError{msg: "Invalid ProductId"}
)

type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return e.msg }

func (e *argumentError) Is(target error) bool { return target == ErrInvalidArgument }

// ValidationError carries the rule violations of a rejected request. Its
// message is the violation messages joined by ", ".
type ValidationError struct {
	Result validators.ValidationResult
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Result.Messages(), ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidArgument }
