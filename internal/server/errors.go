package server

import (
	"encoding/json"
	"net/http"

	apperr "github.com/matzehuels/xbar/pkg/errors"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

func errorBody(r *http.Request, code, message string) errorResponse {
	return errorResponse{
		Error:     errorDetail{Code: code, Message: message},
		RequestID: RequestIDFrom(r.Context()),
	}
}

func errNotFound(path string) error {
	return apperr.New(apperr.ErrCodeNotFound, "no route for %s", path)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeInvalidArgument, apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperr.ErrCodeOutOfRange:
		return http.StatusUnprocessableEntity
	case apperr.ErrCodeNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case apperr.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.ErrCodeCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error response. Internal failures are
// reported without their details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	status := statusFor(code)
	msg := apperr.UserMessage(err)
	if status == http.StatusInternalServerError && code != apperr.ErrCodeInvariant {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody(r, string(code), msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
