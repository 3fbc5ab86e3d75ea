package handlers

import (
	"encoding/json"
	"net/http"

	"bclub/backend/libs/apperr"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps a service error onto its status code and public message.
func writeAppError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": apperr.Message(err)}
	if kind := apperr.KindOf(err); kind != "" {
		body["kind"] = string(kind)
	}
	writeJSON(w, apperr.HTTPStatus(err), body)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}
