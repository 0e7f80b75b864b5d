// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to StatusFor for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
)

// Writer writes error responses. In production, 5xx messages are replaced
// with the status text so storage details never reach clients.
type Writer struct {
	Production bool
}

// WriteError maps err to an HTTP status code and writes a JSON error response.
func (ew Writer) WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, ew.Production))
}

// WriteError is the development-mode shorthand for Writer{}.WriteError.
func WriteError(w http.ResponseWriter, err error) {
	Writer{}.WriteError(w, err)
}

// StatusFor returns the HTTP status for err. Uses errors.Is so wrapped
// sentinels are matched. Unrecognized errors map to 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrItemAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrInvalidItem):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, itemdomain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
