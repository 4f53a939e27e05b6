// Package deletion implements the stateless deletion-capability scheme.
//
// A deletion token is an HMAC-SHA224 of the stored filename under the
// process secret, base64url-encoded without padding. The server keeps no
// table of issued tokens: holding a valid token for a filename is the
// authorization to delete that file, and the token is recomputed on demand.
package deletion

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// TokenLength is the fixed length of an encoded deletion token:
// 28 digest bytes in unpadded base64url.
const TokenLength = 38

// digestSize is the byte length of a SHA-224 digest.
const digestSize = sha256.Size224

// Keyring derives and verifies deletion tokens under one secret key.
type Keyring struct {
	secret []byte
}

// NewKeyring creates a Keyring bound to the given secret.
func NewKeyring(secret []byte) *Keyring {
	return &Keyring{secret: secret}
}

// Derive computes the deletion token for a stored filename. Deterministic:
// the same filename under the same secret always yields the same token.
func (k *Keyring) Derive(filename string) string {
	return base64.RawURLEncoding.EncodeToString(k.mac(filename))
}

// Verify reports whether token authorizes deletion of filename. Tokens of
// the wrong length are rejected before any MAC computation; the digest
// comparison is constant-time over the full digest.
func (k *Keyring) Verify(filename, token string) bool {
	if len(token) != TokenLength {
		return false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(decoded) != digestSize {
		return false
	}
	return hmac.Equal(decoded, k.mac(filename))
}

func (k *Keyring) mac(filename string) []byte {
	h := hmac.New(sha256.New224, k.secret)
	h.Write([]byte(filename))
	return h.Sum(nil)
}
