// Package signing implements the request signature scheme of the HAVN
// webhook API: payloads are serialized to a canonical JSON form and signed
// with HMAC-SHA256 keyed by the shared webhook secret.
package signing

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"
)

// CanonicalJSON serializes a payload to its canonical wire form: object keys
// sorted lexicographically, compact separators, no HTML escaping, and all
// non-ASCII runes escaped as lowercase \uXXXX (surrogate pairs above the
// basic multilingual plane). Two payloads with equal field/value content
// yield identical bytes regardless of field order, which makes the signature
// reproducible on both ends.
//
// A payload that cannot be serialized is a programming error in the caller.
func CanonicalJSON(payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %v", err)
	}

	// round-trip through generic maps so encoding/json sorts the keys,
	// keeping numbers verbatim
	var generic interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %v", err)
	}

	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %v", err)
	}
	return escapeNonASCII(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// escapeNonASCII rewrites every rune above 0x7F as a \uXXXX escape. The
// server verifies against an ASCII-only canonical form, so raw UTF-8 in the
// signed bytes would produce a signature mismatch for non-ASCII values.
// Non-ASCII bytes can only occur inside string literals, so a whole-document
// pass is safe.
func escapeNonASCII(canonical []byte) []byte {
	ascii := true
	for _, b := range canonical {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return canonical
	}

	escaped := &bytes.Buffer{}
	for _, r := range string(canonical) {
		if r < 0x80 {
			escaped.WriteByte(byte(r))
		} else if r > 0xFFFF {
			high, low := utf16.EncodeRune(r)
			fmt.Fprintf(escaped, `\u%04x\u%04x`, high, low)
		} else {
			fmt.Fprintf(escaped, `\u%04x`, r)
		}
	}
	return escaped.Bytes()
}

// Sign computes the hex-encoded HMAC-SHA256 signature over the canonical
// payload bytes. Pure function: same payload and secret always produce the
// same signature. The timestamp header is deliberately not part of the
// signature input.
func Sign(canonicalPayload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonicalPayload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayload canonicalizes and signs in one step.
func SignPayload(payload interface{}, secret string) (string, error) {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	return Sign(canonical, secret), nil
}

// AuthHeaders assembles the authentication headers for a signed request.
func AuthHeaders(canonicalPayload []byte, apiKey string, secret string, now time.Time) map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"X-API-Key":    apiKey,
		"X-Signature":  Sign(canonicalPayload, secret),
		"X-Timestamp":  strconv.FormatInt(now.Unix(), 10),
	}
}
