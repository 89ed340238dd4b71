// Package web exposes the application over HTTP: routing, authentication
// middleware and the JSON request/response surface.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"boardchat/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps the error taxonomy to a status code and a JSON body.
// Dependency and internal causes are not echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	msg := "internal error"
	switch apperr.KindOf(err) {
	case apperr.KindDependency:
		msg = "upstream unavailable"
	case apperr.KindInternal:
	default:
		var e *apperr.Error
		if errors.As(err, &e) {
			msg = e.Msg
		}
	}
	writeJSON(w, apperr.HTTPStatus(err), errorBody{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("malformed request body")
	}
	return nil
}
