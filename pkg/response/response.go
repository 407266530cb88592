package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// WorkflowResult is the data payload returned by state-changing workflow
// endpoints (approve, deliver, reject, ...).
type WorkflowResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Workflow returns a success response carrying a WorkflowResult payload
func Workflow(statusCode int, message string) Response {
	return Success(statusCode, WorkflowResult{Success: true, Message: message})
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
