package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"bus-tracking/internal/trip-service/core/myerrors"
)

// JsonResponse writes the given data as a JSON-encoded HTTP response.
func JsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// statusFromError maps the engine's error taxonomy onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrTripNotFound),
		errors.Is(err, myerrors.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrInvalidTransition),
		errors.Is(err, myerrors.ErrInvalidLocation),
		errors.Is(err, myerrors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrDegenerateRoute):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// rejectionReason labels a rejected operation for metrics: missing records
// are counted apart from rule violations.
func rejectionReason(err error, violation string) string {
	if errors.Is(err, myerrors.ErrTripNotFound) || errors.Is(err, myerrors.ErrVehicleNotFound) {
		return "not_found"
	}
	return violation
}
