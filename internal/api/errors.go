package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/thanhvo/shiftdesk/internal/controller"
	"github.com/thanhvo/shiftdesk/internal/sheets"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// errorEnvelope is the standard error response shape.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v interface{}) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}

// writeDomainError maps controller and backend errors to HTTP responses.
// Backend rejections keep their verbatim message; transport failures hide
// theirs behind a generic one.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, controller.ErrNotEligible):
		writeError(w, http.StatusForbidden, "not_eligible", "availability self-service is limited to part-time and customer-support staff")
	case errors.Is(err, controller.ErrWeekLocked):
		writeError(w, http.StatusConflict, "week_locked", "the week is finalized; availability is read-only")
	case errors.Is(err, controller.ErrSaveInFlight):
		writeError(w, http.StatusConflict, "save_in_flight", "a save is already in progress; retry once it completes")
	case errors.Is(err, controller.ErrUnknownSlot):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "slot is not part of this week's grid")
	default:
		var backendErr *sheets.BackendError
		if errors.As(err, &backendErr) {
			msg := backendErr.Message
			if msg == "" {
				msg = "the scheduling backend rejected the request"
			}
			writeError(w, http.StatusBadGateway, "backend_error", msg)
			return
		}
		writeError(w, http.StatusBadGateway, "backend_unavailable", "the scheduling backend did not respond")
	}
}
