// Package pages serves the embedded HTML surface: the landing page, viewer
// pages for audio and text uploads, the deletion confirmation page, and the
// stored files themselves.
package pages

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filedrop/service/internal/storage"
)

//go:embed html static
var content embed.FS

var audioTmpl = template.Must(template.ParseFS(content, "html/audio.html"))

// Handler serves pages and stored files.
type Handler struct {
	store storage.Store
}

// NewHandler creates a pages Handler backed by the given store.
func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store}
}

// StaticFS returns the embedded static assets rooted at "static".
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Index serves the landing page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.page(w, "html/home.html", http.StatusOK)
}

// NotFound serves the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.page(w, "html/404.html", http.StatusNotFound)
}

// DeleteView serves the deletion confirmation page. The page itself issues
// the DELETE request with the key from its own URL.
func (h *Handler) DeleteView(w http.ResponseWriter, r *http.Request) {
	h.page(w, "html/delete.html", http.StatusOK)
}

// TextView serves the plain-text viewer, which fetches the raw file client-side.
func (h *Handler) TextView(w http.ResponseWriter, r *http.Request) {
	h.page(w, "html/text.html", http.StatusOK)
}

// AudioView renders the audio player page for one stored file.
func (h *Handler) AudioView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := audioTmpl.Execute(w, struct{ File string }{File: "/" + name}); err != nil {
		log.Printf("render audio page: %v", err)
	}
}

// File streams a stored file. Unknown names get the 404 page.
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, modTime, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		log.Printf("open %q: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, name, modTime, f)
}

// page writes an embedded static page with the given status.
func (h *Handler) page(w http.ResponseWriter, path string, status int) {
	b, err := content.ReadFile(path)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
