package api

import (
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/sitelens/internal/domain"
)

// SuccessResponse wraps successful API responses
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse represents a pipeline failure response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetailResponse represents a client precondition violation response
type DetailResponse struct {
	Detail string `json:"detail"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a successful JSON response
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

// Error writes a pipeline failure JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// Detail writes a precondition violation JSON response
func Detail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, DetailResponse{Detail: message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes. Upstream
// errors propagate the external service's status when it is known.
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	domainErr, ok := err.(*domain.DomainError)
	if !ok {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeUnsupportedMedia:
		return http.StatusBadRequest
	case domain.ErrCodeUpstream:
		if domainErr.UpstreamStatus > 0 {
			return domainErr.UpstreamStatus
		}
		return http.StatusBadRequest
	case domain.ErrCodeParse:
		return http.StatusBadRequest
	case domain.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type.
// Client precondition violations get a {detail} payload; pipeline failures
// get an {error} payload.
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)

	if domainErr, ok := err.(*domain.DomainError); ok {
		switch domainErr.Code {
		case domain.ErrCodeValidation, domain.ErrCodeUnsupportedMedia:
			Detail(w, status, domainErr.Message)
			return
		}
	}

	Error(w, status, err.Error())
}
