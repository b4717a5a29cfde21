// Package httputils holds the JSON response helpers shared by module handlers.
package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// ErrorBody is the error envelope returned by every endpoint.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// RespondJSON writes v as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// RespondError writes an ErrorBody with the given status.
func RespondError(w http.ResponseWriter, status int, body ErrorBody) {
	RespondJSON(w, status, body)
}

// StatusForKind maps a storage error kind to an HTTP status.
func StatusForKind(kind storage.Kind) int {
	switch kind {
	case storage.KindConflict:
		return http.StatusConflict
	case storage.KindNotFound:
		return http.StatusNotFound
	case storage.KindValidation:
		return http.StatusBadRequest
	case storage.KindPermissionDenied:
		return http.StatusForbidden
	case storage.KindReferentialTiming:
		// The bounded retry already ran; what is left is a server-side failure.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// RespondStorageError classifies err and writes the matching error envelope.
// The user-facing message follows the recovery guidance for each kind.
func RespondStorageError(w http.ResponseWriter, err error) {
	kind := storage.KindOf(err)
	body := ErrorBody{Code: kind.String()}

	switch kind {
	case storage.KindConflict:
		body.Error = "already registered"
		body.Details = storage.ConstraintOf(err)
	case storage.KindReferentialTiming:
		body.Error = "invalid data"
		body.Details = storage.ConstraintOf(err)
	case storage.KindPermissionDenied:
		body.Error = "contact support"
	case storage.KindNotFound:
		body.Error = "not found"
	case storage.KindValidation:
		body.Error = "invalid data"
		body.Details = storage.ConstraintOf(err)
	default:
		body.Error = err.Error()
	}

	RespondError(w, StatusForKind(kind), body)
}
