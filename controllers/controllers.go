package controllers

import (
	"errors"
	"net/http"

	"sparkd_server/services"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

// errorStatus maps the core error taxonomy to HTTP statuses. ErrConflict is
// resolved inside the core and should never reach here; it maps to 500 so it
// shows up if it ever does.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAlreadyActed):
		return http.StatusConflict
	case errors.Is(err, services.ErrLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.ErrValidation
	}
	if err := validate.Struct(dst); err != nil {
		return services.ErrValidation
	}
	return nil
}
