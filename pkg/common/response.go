package common

import "reflect"

// SuccessMessage is the result message written by SetSuccessResponse.
const SuccessMessage = "SUCCESS"

// Void is the payload type of envelopes that never carry an object (error responses).
type Void struct{}

// ObjectResult represents the structure of a standard API response.
// Object is omitted from the JSON output until a payload has been set.
type ObjectResult[T any] struct {
	Successful    bool   `json:"successful"`
	ResultCode    int    `json:"resultCode"`
	ResultMessage string `json:"resultMessage"`
	Object        *T     `json:"object,omitempty"`
}

func NewObjectResult[T any]() *ObjectResult[T] {
	return &ObjectResult[T]{}
}

func NewResult[T any](successful bool) *ObjectResult[T] {
	return &ObjectResult[T]{Successful: successful}
}

func NewResultWithMessage[T any](successful bool, message string) *ObjectResult[T] {
	return &ObjectResult[T]{Successful: successful, ResultMessage: message}
}

func NewResultWithObject[T any](successful bool, object T) *ObjectResult[T] {
	return &ObjectResult[T]{Successful: successful, Object: valueOrNil(object)}
}

func NewResultWithMessageAndObject[T any](successful bool, message string, object T) *ObjectResult[T] {
	return &ObjectResult[T]{Successful: successful, ResultMessage: message, Object: valueOrNil(object)}
}

// SetSuccessResponse marks the result successful with code 0 and message "SUCCESS".
func (r *ObjectResult[T]) SetSuccessResponse(object T) {
	r.Successful = true
	r.ResultCode = 0
	r.ResultMessage = SuccessMessage
	r.Object = valueOrNil(object)
}

// SetSuccessResponseWithKey marks the result successful using the code and key of the given message key.
func (r *ObjectResult[T]) SetSuccessResponseWithKey(key MessageKey, object T) {
	r.Successful = true
	r.ResultCode = key.Code()
	r.ResultMessage = key.Key()
	r.Object = valueOrNil(object)
}

// SetFailure marks the result failed and drops any payload.
func (r *ObjectResult[T]) SetFailure(code int, message string) {
	r.Successful = false
	r.ResultCode = code
	r.ResultMessage = message
	r.Object = nil
}

// HasObject reports whether a payload has been set.
func (r *ObjectResult[T]) HasObject() bool {
	return r.Object != nil
}

// valueOrNil returns a pointer to v, or nil when v is itself a nil reference.
func valueOrNil[T any](v T) *T {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return nil
		}
	}
	return &v
}
