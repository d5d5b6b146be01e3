package api

import (
	"net/http"

	"github.com/akazakov/cookbook/internal/apperrors"
)

// statusFor maps a discriminated service error to its HTTP status. The
// service layer produces the error kinds; only this file knows about status
// codes.
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsAuthorization(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the error with its mapped status. Storage
// faults are logged with detail but surface as an opaque 500.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error("internal error")
		s.respondError(w, status, "internal server error")
		return
	}
	s.respondError(w, status, err.Error())
}
