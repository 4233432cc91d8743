// Package handlers holds the response/decode helpers every per-operation
// handler package in internal/api/handlers/* builds on, plus the envelope
// shapes used across them.
package handlers

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// DecodeJSON decodes the first JSON value of the request body into v,
// rejecting unknown fields. Anything after that first value is not read.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// RespondJSON writes v as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes a {"error": msg} body with the given status code.
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondJSON(w, status, errorBody{Error: msg})
}

func RespondBadRequest(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusBadRequest, msg)
}

func RespondNotFound(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusNotFound, msg)
}

func RespondForbidden(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusForbidden, msg)
}

func RespondUnauthorized(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusUnauthorized, msg)
}

func RespondConflict(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusConflict, msg)
}

func RespondUnprocessable(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusUnprocessableEntity, msg)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, "internal server error")
}
