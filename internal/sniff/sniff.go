// Package sniff determines a file extension and a coarse type classification
// for an incoming byte stream.
//
// A declared content type, when specific enough, decides without touching the
// stream. Otherwise magic-byte inference runs over a growing prefix of the
// stream, capped at a small bound, with a text/binary fallback so every
// upload ends up with some extension. Bytes pulled off the stream during
// sniffing are handed back in Result.Prefix so the caller can replay them.
package sniff

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// maxProbe bounds how many bytes are buffered for content inference before
// giving up and falling back to the text/binary heuristic.
const maxProbe = 256

// chunkSize is the read granularity while probing the stream.
const chunkSize = 256

// ErrEmptyBody is returned when the stream ends before producing any bytes.
var ErrEmptyBody = errors.New("unexpected end of input")

// Classification is the coarse content category of an upload. It only
// selects which viewer page a retrieval link points at; storage encoding is
// unaffected.
type Classification int

const (
	ClassNone Classification = iota
	ClassAudio
	ClassText
)

// Result is the outcome of sniffing one stream.
type Result struct {
	// Extension is the chosen file extension, without a leading dot.
	Extension string
	// Class selects the retrieval route.
	Class Classification
	// Prefix holds the bytes consumed from the stream while sniffing, in
	// order. It must be written out before any remaining stream bytes.
	// Nil when the declared content type decided without reading.
	Prefix []byte
}

// Detect decides an extension and classification for the stream.
//
// contentType, when non-empty, non-wildcard, and resolvable to a known
// extension, wins without consuming any stream bytes. Otherwise the stream
// is probed chunk by chunk with magic-byte inference until a match, the
// probe cap, or EOF; unmatched buffers fall back to txt/bin depending on
// whether they are valid UTF-8. A read error aborts immediately with no
// fallback. A stream that ends with zero bytes yields ErrEmptyBody.
func Detect(r io.Reader, contentType string) (*Result, error) {
	if res := fromDeclaredType(contentType); res != nil {
		return res, nil
	}

	var buf []byte
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if res := infer(buf); res != nil {
				return res, nil
			}
			if len(buf) > maxProbe {
				return fallback(buf)
			}
		}
		if err == io.EOF {
			return fallback(buf)
		}
		if err != nil {
			return nil, fmt.Errorf("read upload stream: %w", err)
		}
	}
}

// fromDeclaredType resolves a declared media type through the platform
// type→extension table. Wildcard types, unknown types, and ambiguous
// mappings (more than 10 candidate extensions) are treated as absent.
func fromDeclaredType(contentType string) *Result {
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	major, minor, ok := strings.Cut(mediaType, "/")
	if !ok || major == "*" || minor == "*" {
		return nil
	}

	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 || len(exts) > 10 {
		return nil
	}
	return &Result{
		Extension: strings.TrimPrefix(exts[len(exts)-1], "."),
		Class:     classify(major),
	}
}

// infer runs magic-byte detection over the buffered prefix. The library's
// catch-alls (application/octet-stream and bare text/plain) are not
// treated as matches so the fallback heuristic stays in charge of them.
func infer(buf []byte) *Result {
	mt := mimetype.Detect(buf)
	if mt.Is("application/octet-stream") || mt.Is("text/plain") {
		return nil
	}
	ext := strings.TrimPrefix(mt.Extension(), ".")
	if ext == "" {
		return nil
	}
	major, _, _ := strings.Cut(mt.String(), "/")
	return &Result{
		Extension: ext,
		Class:     classify(major),
		Prefix:    buf,
	}
}

// fallback classifies an unmatched buffer as text or binary.
func fallback(buf []byte) (*Result, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBody
	}
	if utf8.Valid(buf) {
		return &Result{Extension: "txt", Class: ClassText, Prefix: buf}, nil
	}
	return &Result{Extension: "bin", Class: ClassNone, Prefix: buf}, nil
}

func classify(major string) Classification {
	switch major {
	case "audio":
		return ClassAudio
	case "text":
		return ClassText
	default:
		return ClassNone
	}
}
