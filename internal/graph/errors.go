package graph

// Stable error codes surfaced under extensions.code so clients can branch
// without parsing messages.
const (
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

// FieldError is attached to the specific field that failed; sibling fields
// in the same request still resolve. It satisfies gqlerrors.ExtendedError.
type FieldError struct {
	Code    string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}
