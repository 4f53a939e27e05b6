package deletion

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/filedrop/service/internal/metrics"
	"github.com/filedrop/service/internal/response"
	"github.com/filedrop/service/internal/storage"
)

// Handler holds HTTP handlers for the deletion endpoint.
type Handler struct {
	keys  *Keyring
	store storage.Store
}

// NewHandler creates a new deletion Handler.
func NewHandler(keys *Keyring, store storage.Store) *Handler {
	return &Handler{keys: keys, store: store}
}

// Delete godoc
//
//	@Summary		Delete an uploaded file
//	@Description	Removes a stored file. The key from the deletion link is the sole authorization.
//	@Tags			deletion
//	@Produce		json
//	@Param			filename	path	string	true	"Stored filename"
//	@Param			key			path	string	true	"Deletion key issued at upload time"
//	@Success		204
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/d/{filename}/{key} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	key := chi.URLParam(r, "key")

	// Dot-prefixed names are never deletable, even if such a file exists.
	if !h.keys.Verify(filename, key) || strings.HasPrefix(filename, ".") {
		metrics.DeletionsTotal.WithLabelValues("invalid_key").Inc()
		response.Unauthorized(w, "your key is invalid")
		return
	}

	switch err := h.store.Remove(r.Context(), filename); {
	case err == nil:
		metrics.DeletionsTotal.WithLabelValues("ok").Inc()
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, storage.ErrNotFound):
		metrics.DeletionsTotal.WithLabelValues("not_found").Inc()
		response.NotFound(w, "this file doesn't exist")
	default:
		log.Printf("deletion failed: %v", err)
		metrics.DeletionsTotal.WithLabelValues("error").Inc()
		response.InternalError(w)
	}
}
