package upload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/filedrop/service/internal/deletion"
	"github.com/filedrop/service/internal/sniff"
	"github.com/filedrop/service/internal/storage"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const testDomain = "https://drop.example.com"

func newTestService(t *testing.T) (*Service, *deletion.Keyring, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	keys := deletion.NewKeyring([]byte("0123456789abcdef0123456789abcdef"))
	return NewService(store, keys, testDomain), keys, dir
}

func TestProcessPNG(t *testing.T) {
	svc, keys, dir := newTestService(t)

	payload := append(append([]byte{}, pngHeader...), []byte("image body")...)
	res, err := svc.Process(context.Background(), bytes.NewReader(payload), "", "")
	require.NoError(t, err)

	require.True(t, strings.HasSuffix(res.Filename, ".png"))
	require.Equal(t, sniff.ClassNone, res.Class)
	require.Equal(t, int64(len(payload)), res.Size)

	// Direct file route: no viewer prefix.
	require.Equal(t, testDomain+"/"+res.Filename, res.Response.Link)
	require.NotContains(t, res.Response.Link, "/a/")
	require.NotContains(t, res.Response.Link, "/t/")

	// Deletion link embeds name and a token the keyring accepts.
	token := strings.TrimPrefix(res.Response.DeletionLink, testDomain+"/d/"+res.Filename+"/")
	require.Len(t, token, deletion.TokenLength)
	require.True(t, keys.Verify(res.Filename, token))

	// The stored bytes equal the original stream, sniffed prefix included.
	got, err := os.ReadFile(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestProcessDeclaredFilenameOverride(t *testing.T) {
	svc, _, _ := newTestService(t)

	// Plain text with a declared .md filename: the extension is the
	// client's, the classification still comes from sniffing the content.
	res, err := svc.Process(context.Background(),
		strings.NewReader("# notes\nplain ascii text\n"), "", "notes.md")
	require.NoError(t, err)

	require.True(t, strings.HasSuffix(res.Filename, ".md"))
	require.Equal(t, sniff.ClassText, res.Class)
	require.Equal(t, testDomain+"/t/"+res.Filename, res.Response.Link)
}

func TestProcessDeclaredFilenameWithoutExtension(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Process(context.Background(),
		strings.NewReader("no extension declared"), "", "README")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(res.Filename, ".txt"))
}

func TestProcessAudio(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Process(context.Background(),
		bytes.NewReader([]byte("ID3\x04\x00\x00\x00\x00\x00\x00audio frames")), "", "")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(res.Filename, ".mp3"))
	require.Equal(t, testDomain+"/a/"+res.Filename, res.Response.Link)
}

func TestProcessEmptyStream(t *testing.T) {
	svc, _, dir := newTestService(t)

	_, err := svc.Process(context.Background(), bytes.NewReader(nil), "", "")
	require.ErrorIs(t, err, sniff.ErrEmptyBody)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries, "a rejected upload must not create a file")
}

func TestProcessFilenameShape(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Process(context.Background(), strings.NewReader("body"), "", "")
	require.NoError(t, err)

	name, ext, found := strings.Cut(res.Filename, ".")
	require.True(t, found)
	require.Len(t, name, 7)
	require.Equal(t, "txt", ext)
	require.False(t, strings.HasPrefix(res.Filename, "."))
}
