package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"tenders/models"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorCode - машинный код ошибки в теле ответа.
type ErrorCode string

const (
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	CodeDuplicate       ErrorCode = "DUPLICATE"
	CodeRateLimited     ErrorCode = "RATE_LIMITED"
	CodeInternal        ErrorCode = "INTERNAL"
)

type errorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse - тело любого ответа с ошибкой.
type ErrorResponse struct {
	Error errorBody `json:"error"`
}

// ErrorHTTP - статус и тело для ошибки домена.
type ErrorHTTP struct {
	Status int
	Body   ErrorResponse
}

// FromDomainError переводит ошибку домена в HTTP-ответ. Сообщение берётся из обёртки
// "%w: message", неизвестные ошибки превращаются в 500 без подробностей.
func FromDomainError(err error) ErrorHTTP {
	var (
		status int
		code   ErrorCode
	)
	switch {
	case errors.Is(err, models.ErrNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, models.ErrForbidden):
		status, code = http.StatusForbidden, CodeForbidden
	case errors.Is(err, models.ErrValidation):
		status, code = http.StatusBadRequest, CodeValidation
	case errors.Is(err, models.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, models.ErrDuplicate):
		status, code = http.StatusBadRequest, CodeDuplicate
	default:
		return ErrorHTTP{
			Status: http.StatusInternalServerError,
			Body:   ErrorResponse{Error: errorBody{Code: CodeInternal, Message: "internal server error"}},
		}
	}
	return ErrorHTTP{Status: status, Body: ErrorResponse{Error: errorBody{Code: code, Message: message(err)}}}
}

// message убирает префикс сентинела: "not found: tender not found" -> "tender not found".
func message(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// WriteError пишет ошибку в ответ. Неожиданные ошибки логируются вместе с request id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := FromDomainError(err)
	if httpErr.Status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	}
	if httpErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, httpErr.Status, httpErr.Body)
}

func writeErrorCode(w http.ResponseWriter, status int, code ErrorCode, msg string) {
	writeJSON(w, status, ErrorResponse{Error: errorBody{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
