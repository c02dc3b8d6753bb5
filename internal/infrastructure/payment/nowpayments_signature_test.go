package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexHMAC(secret, msg string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSortedJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sorts top-level keys",
			input: `{"payment_status":"finished","order_id":"abc","actually_paid":0.0012}`,
			want:  `{"actually_paid":0.0012,"order_id":"abc","payment_status":"finished"}`,
		},
		{
			name:  "sorts nested objects and keeps array order",
			input: `{"z":[3,1,{"b":1,"a":2}],"fee":{"withdrawalFee":0,"currency":"btc"}}`,
			want:  `{"fee":{"currency":"btc","withdrawalFee":0},"z":[3,1,{"a":2,"b":1}]}`,
		},
		{
			name:  "keeps number literals and does not escape html",
			input: `{ "amount": 10.50, "desc": "a<b & c" , "n": null, "ok": true }`,
			want:  `{"amount":10.50,"desc":"a<b & c","n":null,"ok":true}`,
		},
		{
			name:  "writes line and paragraph separators literally",
			input: `{"note":"a\u2028b\u2029c","k\u2028":"x"}`,
			want:  "{\"k\u2028\":\"x\",\"note\":\"a\u2028b\u2029c\"}",
		},
		{
			name:  "escapes control characters like JSON.stringify",
			input: `{"s":"tab\there\u0001\u001f \"q\" \\ \/ \u00e9"}`,
			want:  `{"s":"tab\there\u0001\u001f \"q\" \\ / é"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SortedJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	t.Run("rejects invalid json", func(t *testing.T) {
		_, err := SortedJSON([]byte(`{"a":`))
		assert.Error(t, err)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := SortedJSON([]byte(`{"a":1}{"b":2}`))
		assert.Error(t, err)
	})
}

func TestIPNSignatureVerifier(t *testing.T) {
	const secret = "ipn-secret"
	payload := []byte(`{"payment_status":"finished","payment_id":5077125051,"order_id":"o-1"}`)
	sorted := `{"order_id":"o-1","payment_id":5077125051,"payment_status":"finished"}`
	valid := hexHMAC(secret, sorted)

	v := NewIPNSignatureVerifier(secret)

	t.Run("accepts signature over sorted payload", func(t *testing.T) {
		assert.True(t, v.VerifySignature(payload, valid))
	})

	t.Run("accepts upper-case hex", func(t *testing.T) {
		assert.True(t, v.VerifySignature(payload, strings.ToUpper(valid)))
	})

	t.Run("rejects signature over unsorted payload", func(t *testing.T) {
		assert.False(t, v.VerifySignature(payload, hexHMAC(secret, string(payload))))
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		tampered := []byte(`{"payment_status":"finished","payment_id":5077125051,"order_id":"o-2"}`)
		assert.False(t, v.VerifySignature(tampered, valid))
	})

	t.Run("rejects empty signature", func(t *testing.T) {
		assert.False(t, v.VerifySignature(payload, ""))
	})

	t.Run("empty secret never verifies", func(t *testing.T) {
		empty := NewIPNSignatureVerifier("")
		assert.False(t, empty.VerifySignature(payload, hexHMAC("", sorted)))
	})

	t.Run("malformed payload does not verify", func(t *testing.T) {
		assert.False(t, v.VerifySignature([]byte(`not json`), valid))
	})

	t.Run("sign matches verify", func(t *testing.T) {
		sig, err := v.Sign(payload)
		require.NoError(t, err)
		assert.Equal(t, valid, sig)
	})
}
