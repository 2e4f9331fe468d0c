package pkg

import (
	"errors"
	"net/http"

	"github.com/nimeshabuddhika/go-base-project/pkg/common"
	"go.uber.org/zap"
)

// RuleInternal names the catch-all rule.
const RuleInternal = "internal"

// ErrorResponse is a failure mapped to its HTTP status and response body.
type ErrorResponse struct {
	Status int
	Rule   string // name of the rule that matched, used as a metrics label
	Body   common.ObjectResult[common.Void]
}

type errorRule struct {
	name   string
	status int
	match  func(err error) bool
	build  func(err error) (code int, message string)
}

// ruleFor builds a rule that matches any error in the chain of type E.
func ruleFor[E error](name string, status int, build func(E) (int, string)) errorRule {
	return errorRule{
		name:   name,
		status: status,
		match: func(err error) bool {
			var target E
			return errors.As(err, &target)
		},
		build: func(err error) (int, string) {
			var target E
			errors.As(err, &target)
			return build(target)
		},
	}
}

// errorRules is evaluated in order; the first match wins.
var errorRules = []errorRule{
	ruleFor("validation", http.StatusBadRequest, func(e *ValidationError) (int, string) {
		return e.Key.Code(), e.Key.Key()
	}),
	ruleFor("missing_parameter", http.StatusBadRequest, func(e *MissingParameterError) (int, string) {
		return ResultCodeRequestShape, e.Name + "_parameter_is_missing"
	}),
	ruleFor("unsupported_media_type", http.StatusUnsupportedMediaType, func(*UnsupportedMediaTypeError) (int, string) {
		return ResultCodeRequestShape, "media_type_is_not_supported"
	}),
	ruleFor("malformed_body", http.StatusBadRequest, func(*MalformedBodyError) (int, string) {
		return ResultCodeMalformedBody, "json_format_is_invalid"
	}),
	ruleFor("type_mismatch", http.StatusBadRequest, func(e *TypeMismatchError) (int, string) {
		return ResultCodeTypeMismatch, "parameter_" + e.Name + "_value_could_not_converted_to_" + e.RequiredType
	}),
	ruleFor("illegal_argument", http.StatusBadRequest, func(*IllegalArgumentError) (int, string) {
		return ResultCodeIllegalArgument, "illegal_request_argument"
	}),
	ruleFor("constraint_violation", http.StatusBadRequest, func(e *ConstraintViolationError) (int, string) {
		return ResultCodeConstraint, e.Error()
	}),
	ruleFor("object_validation", http.StatusBadRequest, func(e *ObjectValidationError) (int, string) {
		return ResultCodeRequestObject, e.DefaultMessage()
	}),
	ruleFor("upload_size_exceeded", http.StatusBadRequest, func(*UploadSizeExceededError) (int, string) {
		return ResultCodeRequestObject, "maximum_upload_size_exceeded"
	}),
	ruleFor("missing_part", http.StatusBadRequest, func(e *MissingPartError) (int, string) {
		return ResultCodeRequestObject, e.PartName + "_is_not_present"
	}),
}

// ToErrorResponse converts an error into an ErrorResponse.
// Errors that match no rule become a 500 with the INTERNAL_SERVER_ERROR key and are logged
// with their full detail; the detail never reaches the response body.
func ToErrorResponse(logger *zap.Logger, traceID string, err error) ErrorResponse {
	for _, rule := range errorRules {
		if rule.match(err) {
			code, message := rule.build(err)
			return newErrorResponse(rule.name, rule.status, code, message)
		}
	}

	if err == nil {
		err = errors.New("unknown error")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := []zap.Field{zap.String(TraceId, traceID), zap.Error(err)}
	if causes := causeChain(err); len(causes) > 1 {
		fields = append(fields, zap.Strings("causes", causes))
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		fields = append(fields, zap.ByteString("stacktrace", panicErr.Stack))
	} else {
		// stack of the mapping call site; the origin of the failure is in causes
		fields = append(fields, zap.Stack("stacktrace"))
	}
	logger.Error(err.Error(), fields...)

	key := common.MessageKeyInternalServerError
	return newErrorResponse(RuleInternal, http.StatusInternalServerError, key.Code(), key.Key())
}

// causeChain lists the messages of err and every error it wraps, outermost first.
func causeChain(err error) []string {
	var out []string
	for ; err != nil; err = errors.Unwrap(err) {
		out = append(out, err.Error())
	}
	return out
}

func newErrorResponse(rule string, status, code int, message string) ErrorResponse {
	resp := ErrorResponse{Status: status, Rule: rule}
	resp.Body.SetFailure(code, message)
	return resp
}
