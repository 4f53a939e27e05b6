package upload

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/filedrop/service/internal/metrics"
	"github.com/filedrop/service/internal/response"
	"github.com/filedrop/service/internal/sniff"
)

// FilenameHeader carries the client's declared filename on raw POST
// uploads, where no multipart metadata is available.
const FilenameHeader = "X-Upload-Filename"

// maxUploadBytes caps one upload's body size.
const maxUploadBytes = 100 << 20

// Handler holds HTTP handlers for upload endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Streams a file to storage and returns a retrieval link plus a deletion link.
//	@Description	Accepts either a raw request body (optional X-Upload-Filename header) or a
//	@Description	multipart form, of which only the first part is read.
//	@Tags			upload
//	@Accept			octet-stream
//	@Produce		json
//	@Param			X-Upload-Filename	header		string	false	"Declared filename; its extension overrides the sniffed one"
//	@Success		200					{object}	upload.Response
//	@Failure		400					{object}	response.Envelope
//	@Failure		401					{object}	response.Envelope
//	@Failure		500					{object}	response.Envelope
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if isMultipart(contentType) {
		h.uploadMultipart(w, r)
		return
	}

	res, err := h.svc.Process(r.Context(), r.Body, contentType, r.Header.Get(FilenameHeader))
	h.respond(w, res, err)
}

// uploadMultipart reads the first part of a multipart form and ingests it,
// using the part's own filename and content type.
func (h *Handler) uploadMultipart(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		response.BadRequest(w, "malformed multipart body")
		return
	}
	part, err := mr.NextPart()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		response.BadRequest(w, "no field found")
		return
	}
	defer part.Close()

	res, procErr := h.svc.Process(r.Context(), part, part.Header.Get("Content-Type"), part.FileName())
	h.respond(w, res, procErr)
}

func (h *Handler) respond(w http.ResponseWriter, res *Result, err error) {
	switch {
	case err == nil:
		metrics.UploadsTotal.WithLabelValues("ok").Inc()
		metrics.UploadBytesTotal.Add(float64(res.Size))
		response.OK(w, res.Response)
	case errors.Is(err, sniff.ErrEmptyBody):
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		response.BadRequest(w, "empty upload")
	case isBodyTooLarge(err):
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		response.Error(w, http.StatusRequestEntityTooLarge, "file too large")
	default:
		log.Printf("upload failed: %v", err)
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		response.InternalError(w)
	}
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func isMultipart(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}
