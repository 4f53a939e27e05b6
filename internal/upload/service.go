// Package upload ingests incoming file streams: it picks a storage name,
// sniffs the content, materializes the file, and issues the retrieval and
// deletion links.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/filedrop/service/internal/deletion"
	"github.com/filedrop/service/internal/namegen"
	"github.com/filedrop/service/internal/sniff"
	"github.com/filedrop/service/internal/storage"
)

// maxNameAttempts bounds how often a fresh name is drawn when Save reports
// a collision. At 64^7 names, going past the first retry is already
// extraordinary; exhausting the budget indicates something other than luck.
const maxNameAttempts = 16

// Response is the payload returned for a successful upload.
type Response struct {
	// Link retrieves the file; audio and text uploads point at their
	// viewer routes, everything else at the raw file.
	Link string `json:"link"`
	// DeletionLink removes the file. Possession of this link is the
	// deletion authorization; it is never stored server-side.
	DeletionLink string `json:"deletionLink"`
}

// Result describes a completed upload.
type Result struct {
	Filename string
	Class    sniff.Classification
	Size     int64
	Response *Response
}

// Service orchestrates one upload from stream to stored file plus links.
type Service struct {
	store  storage.Store
	keys   *deletion.Keyring
	domain string
}

// NewService creates an upload Service.
func NewService(store storage.Store, keys *deletion.Keyring, domain string) *Service {
	return &Service{store: store, keys: keys, domain: strings.TrimRight(domain, "/")}
}

// Process ingests one upload. contentType and declaredFilename may be
// empty. A declared filename's extension, when present, overrides the
// sniffed extension verbatim; the sniffed classification still picks the
// retrieval route. Any failure aborts the request; a file partially
// written before a failure stays in place.
func (s *Service) Process(ctx context.Context, body io.Reader, contentType, declaredFilename string) (*Result, error) {
	sniffed, err := sniff.Detect(body, contentType)
	if err != nil {
		return nil, err
	}

	ext := sniffed.Extension
	if declared := strings.TrimPrefix(filepath.Ext(declaredFilename), "."); declared != "" {
		ext = declared
	}

	var (
		filename string
		size     int64
	)
	for attempt := 0; ; attempt++ {
		filename = namegen.Generate() + "." + ext
		size, err = s.store.Save(ctx, filename, sniffed.Prefix, body)
		if err == nil {
			break
		}
		if errors.Is(err, storage.ErrExists) && attempt < maxNameAttempts {
			continue
		}
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &Result{
		Filename: filename,
		Class:    sniffed.Class,
		Size:     size,
		Response: &Response{
			Link:         s.domain + routePrefix(sniffed.Class) + "/" + filename,
			DeletionLink: s.domain + "/d/" + filename + "/" + s.keys.Derive(filename),
		},
	}, nil
}

// routePrefix maps a classification to the viewer route of the retrieval link.
func routePrefix(c sniff.Classification) string {
	switch c {
	case sniff.ClassAudio:
		return "/a"
	case sniff.ClassText:
		return "/t"
	default:
		return ""
	}
}
