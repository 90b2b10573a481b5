// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/parsab/itemd/internal/domain/convert"
)

// Multipart parsing keeps at most this much of the form in memory.
const multipartMemoryBytes = 4 << 20

// ConvertHandler handles document conversion requests.
type ConvertHandler struct {
	deps Dependencies
}

// NewConvertHandler creates a new convert handler.
func NewConvertHandler(deps Dependencies) *ConvertHandler {
	return &ConvertHandler{deps: deps}
}

// HandleConvert handles POST /convert requests. It accepts a single file
// in the "file" multipart field and responds with text/markdown.
// Status mapping: 400 missing file or filename, 415 unsupported format,
// 500 conversion failure.
func (h *ConvertHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	const op = "api.convert"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no_filename", NewKind(op, ErrBadRequest))
		return
	}

	markdown, err := h.deps.Convert(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, convert.ErrUnsupportedFormat) {
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_format", WrapKind(op, ErrUnsupportedMedia, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "conversion_failed", WrapKind(op, ErrConvertFailed, err))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markdown))
}
