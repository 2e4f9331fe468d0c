package pkg

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nimeshabuddhika/go-base-project/pkg/common"
)

// ValidationError is raised by business code to reject a request with a registered message key.
type ValidationError struct {
	Key common.MessageKey
}

func NewValidationError(key common.MessageKey) error {
	return &ValidationError{Key: key}
}

func (e *ValidationError) Error() string { return e.Key.Key() }

// MissingParameterError means a required query parameter was absent.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required request parameter '%s' is not present", e.Name)
}

// UnsupportedMediaTypeError means the request body was sent with a content type the route does not accept.
type UnsupportedMediaTypeError struct {
	ContentType string
	Supported   []string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("content type '%s' not supported, expected one of [%s]", e.ContentType, strings.Join(e.Supported, ", "))
}

// MalformedBodyError means the request body could not be decoded.
type MalformedBodyError struct {
	Cause error
}

func (e *MalformedBodyError) Error() string {
	if e.Cause == nil {
		return "malformed request body"
	}
	return fmt.Sprintf("malformed request body: %v", e.Cause)
}

func (e *MalformedBodyError) Unwrap() error { return e.Cause }

// TypeMismatchError means a parameter value could not be converted to the type the handler needs.
type TypeMismatchError struct {
	Name         string
	Value        string
	RequiredType string
	Cause        error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("failed to convert value '%s' of parameter '%s' to %s", e.Value, e.Name, e.RequiredType)
}

func (e *TypeMismatchError) Unwrap() error { return e.Cause }

// IllegalArgumentError is raised for request arguments that are well-formed but not acceptable.
type IllegalArgumentError struct {
	Message string
}

func NewIllegalArgumentError(format string, args ...any) error {
	return &IllegalArgumentError{Message: fmt.Sprintf(format, args...)}
}

func (e *IllegalArgumentError) Error() string { return e.Message }

// ConstraintViolation is one failed field-level constraint.
type ConstraintViolation struct {
	Path    string
	Message string
}

// ConstraintViolationError collects field-level constraint failures.
// Its message lists every violation as "path: message", comma separated.
type ConstraintViolationError struct {
	Violations []ConstraintViolation
}

func (e *ConstraintViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Path+": "+v.Message)
	}
	return strings.Join(parts, ", ")
}

// ObjectValidationError wraps the validator errors of a bound request object.
type ObjectValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ObjectValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "object validation failed"
	}
	return e.Errors.Error()
}

func (e *ObjectValidationError) Unwrap() error { return e.Errors }

// DefaultMessage returns the message of the first field error.
func (e *ObjectValidationError) DefaultMessage() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return FieldErrorMessage(e.Errors[0])
}

// UploadSizeExceededError means the request body went over the configured upload limit.
type UploadSizeExceededError struct {
	Limit int64
	Cause error
}

func (e *UploadSizeExceededError) Error() string {
	return fmt.Sprintf("maximum upload size of %d bytes exceeded", e.Limit)
}

func (e *UploadSizeExceededError) Unwrap() error { return e.Cause }

// MissingPartError means a required multipart part was not sent.
type MissingPartError struct {
	PartName string
}

func (e *MissingPartError) Error() string {
	return fmt.Sprintf("required request part '%s' is not present", e.PartName)
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
