package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"bclub/backend/libs/apperr"
	"bclub/backend/libs/auth"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
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

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return decodeJSON(r, dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, apperr.Validation("invalid %s", name)
	}
	return v, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validation("invalid %s %q", name, raw)
	}
	return &v, nil
}

// activeOnly reads ?all=true as "include inactive catalog entries".
func activeOnly(r *http.Request) (bool, error) {
	all, err := queryBool(r, "all")
	if err != nil {
		return false, err
	}
	return all == nil || !*all, nil
}

// actingUser returns the id of the authenticated staff member, if any.
func actingUser(r *http.Request) *int64 {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return nil
	}
	id := p.UserID
	return &id
}
