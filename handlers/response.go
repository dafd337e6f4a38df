package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"meroboard/models"
	"meroboard/utilities"
)

const defaultPageLimit = 20

type errorBody struct {
	Error string `json:"error"`
}

type listEnvelope struct {
	Data interface{}     `json:"data"`
	Meta models.ListMeta `json:"meta"`
}

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.Log.WithField("op", "handlers.WriteJSON").Errorf("encode response: %v", err)
	}
}

// WriteList wraps rows and pagination meta in the list envelope.
func WriteList(w http.ResponseWriter, data interface{}, total int, page models.Page) {
	WriteJSON(w, http.StatusOK, listEnvelope{
		Data: data,
		Meta: models.NewListMeta(total, page.Number, page.Limit),
	})
}

// WriteError resolves the model error taxonomy to an HTTP status. Anything
// outside the taxonomy is a 500 with a generic body; the detail goes to the
// log only.
func WriteError(w http.ResponseWriter, op string, err error) {
	var status int
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	default:
		utilities.Log.WithField("op", op).Errorf("internal error: %v", err)
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	utilities.Log.WithField("op", op).Debugf("request failed: %v", err)
	WriteJSON(w, status, errorBody{Error: err.Error()})
}

// decodeJSON reads the request body into v, rejecting malformed payloads.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidJSON
	}
	return nil
}

var errInvalidJSON = validationError("invalid JSON body")

func validationError(msg string) error {
	return &wrappedError{msg: msg, sentinel: models.ErrValidation}
}

type wrappedError struct {
	msg      string
	sentinel error
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.sentinel }

// parsePage reads page/limit query parameters with clamping defaults.
func parsePage(r *http.Request) models.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.NewPage(page, limit, defaultPageLimit)
}
