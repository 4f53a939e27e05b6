package sniff

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestDetectMagicBytes(t *testing.T) {
	payload := append(append([]byte{}, pngHeader...), []byte("fake image data")...)
	r := bytes.NewReader(payload)

	res, err := Detect(r, "")
	require.NoError(t, err)
	require.Equal(t, "png", res.Extension)
	require.Equal(t, ClassNone, res.Class)
	require.NotEmpty(t, res.Prefix)

	// Prefix plus the unread remainder must reproduce the stream exactly.
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, payload, append(append([]byte{}, res.Prefix...), rest...))
}

func TestDetectMagicBytesChunked(t *testing.T) {
	payload := append(append([]byte{}, pngHeader...), []byte("trailing")...)
	chunked := iotest.OneByteReader(bytes.NewReader(payload))

	res, err := Detect(chunked, "")
	require.NoError(t, err)
	require.Equal(t, "png", res.Extension)

	rest, err := io.ReadAll(chunked)
	require.NoError(t, err)
	require.Equal(t, payload, append(append([]byte{}, res.Prefix...), rest...))
}

func TestDetectAudio(t *testing.T) {
	res, err := Detect(bytes.NewReader([]byte("ID3\x04\x00\x00\x00\x00\x00\x00")), "")
	require.NoError(t, err)
	require.Equal(t, "mp3", res.Extension)
	require.Equal(t, ClassAudio, res.Class)
}

func TestDetectTextFallback(t *testing.T) {
	res, err := Detect(strings.NewReader("just some plain notes\n"), "")
	require.NoError(t, err)
	require.Equal(t, "txt", res.Extension)
	require.Equal(t, ClassText, res.Class)
	require.Equal(t, []byte("just some plain notes\n"), res.Prefix)
}

func TestDetectBinaryFallback(t *testing.T) {
	payload := []byte{0x00, 0xff, 0x13, 0x37}
	res, err := Detect(bytes.NewReader(payload), "")
	require.NoError(t, err)
	require.Equal(t, "bin", res.Extension)
	require.Equal(t, ClassNone, res.Class)
	require.Equal(t, payload, res.Prefix)
}

func TestDetectProbeCap(t *testing.T) {
	// No magic match within the probe cap: fall back, keeping every
	// consumed byte.
	payload := bytes.Repeat([]byte("A"), 300)
	res, err := Detect(bytes.NewReader(payload), "")
	require.NoError(t, err)
	require.Equal(t, "txt", res.Extension)
	require.Equal(t, payload, res.Prefix)
}

func TestDetectEmptyStream(t *testing.T) {
	_, err := Detect(bytes.NewReader(nil), "")
	require.ErrorIs(t, err, ErrEmptyBody)
}

func TestDetectReadError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(bytes.NewReader([]byte("partial")), iotest.ErrReader(boom))

	_, err := Detect(r, "")
	require.ErrorIs(t, err, boom)
}

func TestDetectDeclaredType(t *testing.T) {
	// A specific declared type decides without consuming the stream.
	r := bytes.NewReader([]byte("not actually a png"))
	res, err := Detect(r, "image/png")
	require.NoError(t, err)
	require.Equal(t, "png", res.Extension)
	require.Equal(t, ClassNone, res.Class)
	require.Nil(t, res.Prefix)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("not actually a png"), rest)
}

func TestDetectDeclaredTypeWildcard(t *testing.T) {
	// Wildcards are treated as absent: content inference runs instead.
	for _, ct := range []string{"*/*", "audio/*"} {
		res, err := Detect(strings.NewReader("wildcard body"), ct)
		require.NoError(t, err)
		require.Equal(t, "txt", res.Extension)
		require.NotNil(t, res.Prefix)
	}
}

func TestDetectDeclaredTypeUnknown(t *testing.T) {
	res, err := Detect(strings.NewReader("mystery"), "application/x-no-such-type")
	require.NoError(t, err)
	require.Equal(t, "txt", res.Extension)
}
