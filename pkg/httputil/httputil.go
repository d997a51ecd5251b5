// Package httputil holds the JSON response helpers shared by all HTTP
// handlers. Error bodies carry the domain code and, for client errors, a
// description; internal details never leak to the wire.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/TeoSigno88/public-OCR-extractor/pkg/domerr"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP error response.
func WriteError(w http.ResponseWriter, err error) {
	code := domerr.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != domerr.CodeInternal {
		body["error_description"] = err.Error()
	}
	WriteJSON(w, domerr.ToHTTPStatus(code), body)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domerr.Wrap(err, domerr.CodeBadRequest, "invalid request body")
	}
	return nil
}
