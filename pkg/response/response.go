// Package response holds the error envelope returned by middleware and the
// central HTTP error handler. Successful payloads use fres envelopes.
package response

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func Error(code, message string, details any) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
