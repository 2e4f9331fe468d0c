package pkg

const (
	HeaderTraceId   string = "X-Trace-Id"
	HeaderRequestId string = "X-Request-Id"
)

const (
	TraceId   string = "trace_id"
	RequestId string = "request_id"
	ErrorRule string = "error_rule" // name of the mapping rule that produced the error response
)

// Result codes used by the request failure rules. Code 1 is shared by three unrelated failures.
const (
	ResultCodeRequestObject   = 1
	ResultCodeConstraint      = 2
	ResultCodeIllegalArgument = 3
	ResultCodeTypeMismatch    = 4
	ResultCodeMalformedBody   = 5
	ResultCodeRequestShape    = 6
)
