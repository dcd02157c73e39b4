package doson

import (
	"bytes"
	"encoding/base64"
	"os"
	"strings"
	"unicode/utf8"
)

// ============================================================
// Blob
// ============================================================

// Blob is an immutable byte sequence carried by Binary values.
type Blob struct {
	data []byte
}

// NewBlob wraps a copy of data.
func NewBlob(data []byte) Blob {
	return Blob{data: bytes.Clone(data)}
}

// BlobFromBase64 decodes standard (padded) base64 text into a blob. Line
// breaks and non-zero trailing bits are rejected, so every accepted input is
// the canonical encoding of its bytes.
func BlobFromBase64(text string) (Blob, error) {
	data, err := decodeBase64(text)
	if err != nil {
		return Blob{}, newError(CodeDecode, "blob from base64").
			Detailf("invalid base64 %q", preview(text)).
			Cause(err).
			Build()
	}
	return Blob{data: data}, nil
}

// BlobFromFile reads the entire file at path into a blob.
func BlobFromFile(path string) (Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, newError(CodeIO, "blob from file").
			Path(path).
			Cause(err).
			Build()
	}
	return Blob{data: data}, nil
}

// Size returns the byte count.
func (b Blob) Size() int {
	return len(b.data)
}

// Bytes returns a copy of the blob content.
func (b Blob) Bytes() []byte {
	return bytes.Clone(b.data)
}

// Base64 returns the content as standard padded base64.
func (b Blob) Base64() string {
	return base64.StdEncoding.EncodeToString(b.data)
}

// Equal reports whether both blobs hold the same bytes.
func (b Blob) Equal(other Blob) bool {
	return bytes.Equal(b.data, other.data)
}

// String returns the canonical blob literal: binary!(<base64>).
func (b Blob) String() string {
	var sb strings.Builder
	sb.Grow(len(binaryOpen) + base64.StdEncoding.EncodedLen(len(b.data)) + 1)
	sb.WriteString(binaryOpen)
	sb.WriteString(b.Base64())
	sb.WriteByte(')')
	return sb.String()
}

// binaryOpen introduces a blob literal.
const binaryOpen = "binary!("

// decodeBinaryBody decodes the body of a binary!(...) literal. Bodies that
// are not valid padded base64 decode to an empty blob.
func decodeBinaryBody(body string) (Blob, bool) {
	if body == "" {
		return Blob{}, true
	}
	b, err := BlobFromBase64(body)
	if err != nil {
		return Blob{}, false
	}
	return b, true
}

// decodeBase64 is the strict standard decoder shared by blobs and envelopes.
// encoding/base64 skips CR and LF even in strict mode.
func decodeBase64(text string) ([]byte, error) {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return nil, base64.CorruptInputError(i)
	}
	return base64.StdEncoding.Strict().DecodeString(text)
}

// preview truncates long input for error messages, backing off to a rune
// boundary.
func preview(s string) string {
	const limit = 32
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
