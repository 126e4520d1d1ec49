package tools

// Status indicates the outcome of a tool invocation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Error codes returned to the model. Structured codes let the model
// distinguish bad input from downstream failures and retry accordingly.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeExecution  = "execution_error"
)

// Error is a structured tool error for model consumption.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the uniform envelope every tool returns. Tool failures are
// reported inside the envelope rather than as Go errors so the model sees
// a readable message instead of an aborted generation.
type Result struct {
	Status Status         `json:"status"`
	Data   map[string]any `json:"data,omitempty"`
	Error  *Error         `json:"error,omitempty"`
}

// success wraps data in a successful Result.
func success(data map[string]any) Result {
	return Result{Status: StatusSuccess, Data: data}
}

// failure wraps a code and message in a failed Result.
func failure(code, message string) Result {
	return Result{Status: StatusError, Error: &Error{Code: code, Message: message}}
}
