// Package httpjson centralizes the JSON envelopes shared by all handler
// packages so every endpoint renders results and errors the same way.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "doctrace/pkg/domainerrors"
)

// ErrorBody is the error envelope. Code preserves the domain error kind end
// to end so the presentation layer can react to it.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Write renders v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into its HTTP form. Errors raised
// outside the domain taxonomy render as internal errors without leaking
// detail.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if errors.As(err, &de) {
		Write(w, dErrors.HTTPStatus(de.Code), ErrorBody{Error: string(de.Code), Message: de.Message})
		return
	}
	Write(w, http.StatusInternalServerError, ErrorBody{Error: string(dErrors.CodeInternal)})
}
