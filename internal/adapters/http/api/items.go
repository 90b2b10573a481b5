// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parsab/itemd/internal/domain/item"
)

// ItemsHandler handles item echo requests.
type ItemsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps Dependencies, maxBodyBytes int64) *ItemsHandler {
	return &ItemsHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandlePostItem handles POST /items/ requests. The body is decoded and
// validated against the item schema; failures come back as 422 with one
// entry per violated field, matching framework-default validation bodies.
func (h *ItemsHandler) HandlePostItem(w http.ResponseWriter, r *http.Request) {
	// The subtree registration also routes nested paths here; only the
	// exact endpoint exists.
	if r.URL.Path != "/items/" && r.URL.Path != "/items" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var it item.Item
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(&it); err != nil {
		writeValidationError(w, decodeFieldErrors(err))
		return
	}

	echoed, err := h.deps.EchoItem(r.Context(), it)
	if err != nil {
		if ve, ok := item.AsValidationError(err); ok {
			writeValidationError(w, ve.Fields)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, echoed)
}

// decodeFieldErrors maps JSON decode failures onto field errors so that a
// mistyped field (price as a string) points at the offending field while
// malformed JSON points at the body as a whole.
func decodeFieldErrors(err error) []item.FieldError {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "body"
		}
		return []item.FieldError{{
			Field:   field,
			Message: "invalid type: expected " + ute.Type.String(),
		}}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return []item.FieldError{{Field: "body", Message: "request body too large"}}
	}

	return []item.FieldError{{Field: "body", Message: "malformed JSON"}}
}
