package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
)

// IPNSignatureVerifier checks the x-nowpayments-sig header: the hex
// HMAC-SHA512 of the payload with object keys sorted recursively.
type IPNSignatureVerifier struct {
	secret []byte
}

// NewIPNSignatureVerifier creates a verifier. An empty secret never verifies.
func NewIPNSignatureVerifier(secret string) *IPNSignatureVerifier {
	return &IPNSignatureVerifier{secret: []byte(secret)}
}

// VerifySignature implements payment.SignatureVerifier
func (v *IPNSignatureVerifier) VerifySignature(payload []byte, signature string) bool {
	if len(v.secret) == 0 || signature == "" {
		return false
	}
	expected, err := v.Sign(payload)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// Sign returns the hex signature for payload
func (v *IPNSignatureVerifier) Sign(payload []byte) (string, error) {
	canonical, err := SortedJSON(payload)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// SortedJSON re-serializes payload compactly with object keys sorted at every
// depth. Number literals are kept as sent and HTML characters are not escaped.
func SortedJSON(payload []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	var buf bytes.Buffer
	if err := writeSorted(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSorted(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, k)
			buf.WriteByte(':')
			if err := writeSorted(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeSorted(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(val.String())
	case string:
		writeString(buf, val)
	default:
		return writeScalar(buf, val)
	}
	return nil
}

// writeString quotes s the way JSON.stringify does. Unlike encoding/json it
// writes U+2028 and U+2029 literally.
func writeString(buf *bytes.Buffer, s string) {
	const hexDigits = "0123456789abcdef"
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[r>>4])
				buf.WriteByte(hexDigits[r&0xf])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

func writeScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Ensure IPNSignatureVerifier implements SignatureVerifier
var _ payment.SignatureVerifier = (*IPNSignatureVerifier)(nil)
