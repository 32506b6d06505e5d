package dto

// Response is the uniform envelope returned by every endpoint. Failure
// messages are surfaced verbatim to the caller.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage returns a success envelope with a message and no payload.
func OKMessage(message string) Response {
	return Response{Success: true, Message: message}
}

// Fail returns a failure envelope carrying a human-readable message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
