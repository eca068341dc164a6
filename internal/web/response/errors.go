package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/conduit-lang/querykit/internal/orm/crud"
	"github.com/conduit-lang/querykit/internal/orm/query"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// InvalidRecordResponse lists the fields a write rejected
type InvalidRecordResponse struct {
	Error    string   `json:"error"`
	Code     string   `json:"code"`
	Invalids []string `json:"invalids"`
}

// RenderError renders a standard error response
func RenderError(w http.ResponseWriter, statusCode int, err error) {
	RenderErrorWithCode(w, statusCode, err, "")
}

// RenderErrorWithCode renders an error with a specific error code
func RenderErrorWithCode(w http.ResponseWriter, statusCode int, err error, code string) {
	if code == "" {
		code = errorCodeFromStatus(statusCode)
	}

	writeJSON(w, statusCode, &ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: err.Error(),
		Code:    code,
	})
}

// RenderInvalidRecord renders the invalid fields of a rejected write
func RenderInvalidRecord(w http.ResponseWriter, invalid *query.InvalidRecordError) {
	writeJSON(w, http.StatusUnprocessableEntity, &InvalidRecordResponse{
		Error:    "Invalid record",
		Code:     "validation_error",
		Invalids: invalid.Fields,
	})
}

// RenderFromError picks the status for a compilation or execution error
func RenderFromError(w http.ResponseWriter, err error) {
	var invalid *query.InvalidRecordError
	switch {
	case errors.As(err, &invalid):
		RenderInvalidRecord(w, invalid)
	case query.IsBadRequest(err):
		RenderError(w, http.StatusBadRequest, err)
	case crud.IsNotFound(err):
		RenderError(w, http.StatusNotFound, err)
	case crud.IsConstraintViolation(err):
		RenderError(w, http.StatusConflict, err)
	default:
		RenderInternalError(w, err)
	}
}

// RenderBadRequest renders a 400 Bad Request error
func RenderBadRequest(w http.ResponseWriter, message string) {
	RenderError(w, http.StatusBadRequest, errors.New(message))
}

// RenderNotFound renders a 404 Not Found error
func RenderNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RenderError(w, http.StatusNotFound, errors.New(message))
}

// RenderInternalError renders a 500 Internal Server Error without exposing details
func RenderInternalError(w http.ResponseWriter, _ error) {
	RenderError(w, http.StatusInternalServerError, errors.New("Internal server error"))
}

// errorCodeFromStatus maps HTTP status codes to error codes
func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusUnprocessableEntity:
		return "unprocessable_entity"
	case http.StatusInternalServerError:
		return "internal_error"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
