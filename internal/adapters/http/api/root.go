// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// RootHandler serves a small landing page linking the service endpoints.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests. Anything other than the exact root
// path falls through to 404 so unregistered routes behave as expected.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>itemd</title>
    <style>body{font-family:sans-serif;margin:2rem;max-width:40rem}code{background:#f2f2f2;padding:0 .25rem}</style>
  </head>
  <body>
    <h1>itemd</h1>
    <p>A demo service that validates and echoes JSON items and converts uploaded documents to Markdown.</p>
    <ul>
      <li><code>POST /items/</code> &mdash; validate and echo an item</li>
      <li><code>POST /convert</code> &mdash; convert an uploaded file to Markdown</li>
      <li><a href="/docs">Interactive API docs</a></li>
      <li><a href="/openapi.yaml">OpenAPI spec</a></li>
      <li><a href="/stats">Service stats</a></li>
      <li><a href="/healthz">Metrics</a></li>
    </ul>
  </body>
</html>`
