package httperrors

import (
	"errors"
	"net/http"

	"github.com/yourname/fileaccess/internal/models"
)

// Status сопоставляет виду ошибки HTTP-статус управляющего API.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrResourceExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrNotStarted), errors.Is(err, models.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Write(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), Status(err))
}
