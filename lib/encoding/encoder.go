package encoding

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoder packs prop maps into compact, tamper-evident strings.
//
// A data-* attribute can only hold a string, which is lossy for typed props.
// Packed props keep the types: the map is msgpack-encoded, base64url'd, and
// HMAC-signed so a value that round-trips through markup (and a browser's
// dev tools) cannot be silently altered. The payload is visible, not secret;
// signing is about integrity.
type Encoder struct {
	key []byte
}

// NewEncoder returns an encoder using the given signing key. Keys shorter
// than 32 bytes are stretched through SHA-256.
func NewEncoder(key []byte) *Encoder {
	if len(key) < 32 {
		sum := sha256.Sum256(key)
		key = sum[:]
	}
	return &Encoder{key: key}
}

// Pack serializes props into a signed "payload.signature" string.
func (e *Encoder) Pack(props map[string]any) (string, error) {
	packed, err := msgpack.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("packing props: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(packed)
	return payload + "." + e.signature(packed), nil
}

// Unpack verifies and deserializes a string produced by Pack.
//
// Returns ErrInvalidFormat for malformed input and ErrSignatureInvalid when
// the payload does not match its signature.
func (e *Encoder) Unpack(encoded string) (map[string]any, error) {
	payload, sig, ok := strings.Cut(encoded, ".")
	if !ok {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidFormat)
	}

	packed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if !hmac.Equal([]byte(sig), []byte(e.signature(packed))) {
		return nil, ErrSignatureInvalid
	}

	var props map[string]any
	if err := msgpack.Unmarshal(packed, &props); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return props, nil
}

// signature returns the base64url HMAC-SHA256 tag for data, truncated to
// 128 bits.
func (e *Encoder) signature(data []byte) string {
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
}
