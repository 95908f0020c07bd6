package types

// SuccessEnvelope wraps every successful API payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a rejected request. Details carry
// structured context such as available and requested stock.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewErrorEnvelope builds the error body; nil details are omitted.
func NewErrorEnvelope(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Message: message, Details: details}}
}
