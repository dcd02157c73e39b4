package doson

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// ============================================================
// Envelope: b:<base64>:
// ============================================================

const (
	envelopePrefix = "b:"
	envelopeSuffix = ":"
)

// Envelope wraps arbitrary text as b:<base64>:.
func Envelope(text string) string {
	return envelopePrefix + base64.StdEncoding.EncodeToString([]byte(text)) + envelopeSuffix
}

// EncodeEnvelope wraps the canonical text of v in an envelope.
func EncodeEnvelope(v Value) string {
	return Envelope(v.String())
}

// IsEnvelope reports whether text has the b:...: envelope shape.
func IsEnvelope(text string) bool {
	_, ok := unwrapEnvelope(text)
	return ok
}

// unwrapEnvelope returns the base64 payload of an enveloped document.
func unwrapEnvelope(text string) (string, bool) {
	if len(text) < 3 || !strings.HasPrefix(text, envelopePrefix) || !strings.HasSuffix(text, envelopeSuffix) {
		return "", false
	}
	return text[len(envelopePrefix) : len(text)-len(envelopeSuffix)], true
}

// decodeEnvelope decodes an envelope payload to text. On failure it returns
// the empty document along with the reason.
func decodeEnvelope(payload string) (string, error) {
	data, err := decodeBase64(payload)
	if err != nil {
		return "", newError(CodeDecode, "decode envelope").
			Detailf("invalid base64 %q", preview(payload)).
			Cause(err).
			Build()
	}
	if !utf8.Valid(data) {
		return "", newError(CodeInvalidUTF8, "decode envelope").
			Detail("payload is not UTF-8").
			Build()
	}
	return string(data), nil
}
