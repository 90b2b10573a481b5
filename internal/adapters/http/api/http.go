// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/parsab/itemd/internal/domain/item"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// EchoItem validates the item and returns it unchanged.
	EchoItem(ctx context.Context, it item.Item) (item.Item, error)

	// Convert turns an uploaded document into Markdown.
	Convert(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	itemsHandler   *ItemsHandler
	convertHandler *ConvertHandler
	rootHandler    *RootHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBodyBytes int64) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		itemsHandler:   NewItemsHandler(deps, maxBodyBytes),
		convertHandler: NewConvertHandler(deps),
		rootHandler:    NewRootHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/items/", RequestIDMiddleware(MetricsMiddleware(s.itemsHandler.HandlePostItem, "items")))
	mux.HandleFunc("/items", RequestIDMiddleware(MetricsMiddleware(s.itemsHandler.HandlePostItem, "items")))
	mux.HandleFunc("/convert", RequestIDMiddleware(MetricsMiddleware(s.convertHandler.HandleConvert, "convert")))
	mux.HandleFunc("/", s.rootHandler.HandleRoot)
}

// errorResponse is the generic error body for non-validation failures.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validationErrorResponse mirrors framework-style 422 bodies: a stable code
// plus one entry per violated field.
type validationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  []item.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeValidationError(w http.ResponseWriter, fields []item.FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
		Code:    "validation_error",
		Message: "request body failed validation",
		Errors:  fields,
	})
}

// NewKind tags kind with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags kind and the underlying cause with the operation.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
