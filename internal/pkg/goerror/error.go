package goerror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lukrlier/notabene/internal/shared/problem"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	// TypeServer represents server-side failures.
	TypeServer Type = iota
	// TypeBusiness represents business rule violations.
	TypeBusiness
	// TypeValidation represents input validation failures.
	TypeValidation
)

// String returns the string representation of the error type.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeBadRequest indicates a request the client must change before retrying.
	CodeBadRequest
	// CodeInvalidFormat indicates an unreadable request body.
	CodeInvalidFormat
	// CodeInvalidInput indicates invalid request input.
	CodeInvalidInput
	// CodeNotFound indicates a missing resource.
	CodeNotFound
	// CodeConflict indicates a conflict, e.g. a concurrent duplicate.
	CodeConflict
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeBadRequest:
		return "ERROR_CODE_BAD_REQUEST"
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is a structured error used across the application.
//
// Besides the user-facing message it carries the problem type URI that the
// HTTP layer renders, so clients can branch on it without parsing text.
type Error struct {
	err         error
	msg         string
	errType     Type
	code        Code
	problemType string
	fields      map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Logical business not meet with requirement"
	default:
		return "Internal error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Problem: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.ProblemType(),
		e.msg,
		e.err,
	)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Fields returns validation errors (field to message map), if any.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// ProblemType returns the problem type URI, falling back to one derived from the error type.
func (e *Error) ProblemType() string {
	if e.problemType != "" {
		return e.problemType
	}
	if e.errType == TypeValidation {
		return problem.ConstraintViolationType
	}
	return problem.DefaultType
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeBadRequest, CodeInvalidFormat, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func new(err error, msg string, et Type, code Code, pt string) *Error {
	return &Error{err: err, msg: msg, errType: et, code: code, problemType: pt}
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal, "")
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code, "")
}

// NewProblem creates a business-type error tagged with a problem type URI.
func NewProblem(msg string, code Code, problemType string) error {
	return new(nil, msg, TypeBusiness, code, problemType)
}

// NewInvalidInput creates a validation error. When err is nil the key/value
// pairs in kv become the field errors.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return new(err, "Validation error", TypeValidation, CodeInvalidInput, "")
	}

	if len(kv)%2 != 0 {
		return new(nil, "Invalid request body", TypeValidation, CodeInvalidFormat, "")
	}

	e := new(nil, "Validation error", TypeValidation, CodeInvalidInput, "")
	e.fields = make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		e.fields[kv[i]] = kv[i+1]
	}

	return e
}

// NewInvalidPassword creates the validation error reported for a password outside the length policy.
func NewInvalidPassword() error {
	return new(nil, "Incorrect password", TypeValidation, CodeInvalidInput, problem.InvalidPasswordType)
}

// NewInvalidFormat creates a validation error for an invalid request body format.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return new(nil, "Invalid request body", TypeValidation, CodeInvalidFormat, "")
	}
	return new(nil, msgs[0], TypeValidation, CodeInvalidFormat, "")
}
