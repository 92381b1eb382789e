package server

import (
	"encoding/json"
	"net/http"
)

const (
	ErrUserNotFound    = "USER_NOT_FOUND"
	ErrEmailNotUnique  = "EMAIL_NOT_UNIQUE"
	ErrTokenInvalid    = "TOKEN_INVALID"
	ErrVendorNotFound  = "VENDOR_NOT_FOUND"
	ErrDuplicateReview = "DUPLICATE_REVIEW"
	ErrSelfReview      = "SELF_REVIEW"
	ErrContentRejected = "CONTENT_REJECTED"
	ErrDisposableEmail = "DISPOSABLE_EMAIL"
	ErrReviewNotFound  = "REVIEW_NOT_FOUND"
)

type CommonError struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

type Validation struct {
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Errors map[string]string `json:"errors"`
}

func writeError(w http.ResponseWriter, status int, res any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

func ParsingError(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, CommonError{
		Title:  "Parsing error occurred",
		Status: http.StatusBadRequest,
		Detail: "Parsing error",
		Code:   "PARSING_ERROR",
	})
}

func ValidationError(w http.ResponseWriter, errs map[string]string) {
	writeError(w, http.StatusUnprocessableEntity, Validation{
		Title:  "One or more model validation errors occurred",
		Status: http.StatusUnprocessableEntity,
		Detail: "See the errors property for details",
		Code:   "VALIDATION_ERROR",
		Errors: errs,
	})
}

func LogicError(w http.ResponseWriter, code string) {
	writeError(w, http.StatusBadRequest, CommonError{
		Title:  "Logic error occurred",
		Status: http.StatusBadRequest,
		Detail: "Logic error",
		Code:   code,
	})
}

// RateLimitError is distinct from validation failures so clients can map it
// to a "try again later" state.
func RateLimitError(w http.ResponseWriter) {
	writeError(w, http.StatusTooManyRequests, CommonError{
		Title:  "Submission quota exceeded",
		Status: http.StatusTooManyRequests,
		Detail: "Too many submissions, try again later",
		Code:   "RATE_LIMITED",
	})
}

func ConflictError(w http.ResponseWriter) {
	writeError(w, http.StatusConflict, CommonError{
		Title:  "Conflict error",
		Status: http.StatusConflict,
		Detail: "Conflict error",
		Code:   "CONFLICT",
	})
}

func UnauthorizedError(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, CommonError{
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: "Unauthorized",
		Code:   "UNAUTHORIZED",
	})
}

func ForbiddenError(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, CommonError{
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: "Forbidden",
		Code:   "FORBIDDEN",
	})
}

func NotFoundError(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, CommonError{
		Title:  "Not found",
		Status: http.StatusNotFound,
		Detail: "Not found",
		Code:   "NOT_FOUND",
	})
}

func InternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, CommonError{
		Title:  "Resource temporarily unavailable",
		Status: http.StatusInternalServerError,
		Detail: "Resource temporarily unavailable",
		Code:   "UNKNOWN_ERROR",
	})
}

func BadRequestError(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, CommonError{
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: "Bad request",
		Code:   "BAD_REQUEST",
	})
}
