package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks an inbound callback's signature against a rotating pair
// of shared secrets, so the sender can rotate keys without a coordinated
// flip: a signature valid under either key is accepted.
type Verifier struct {
	current string
	next    string
}

func NewVerifier(current, next string) *Verifier {
	return &Verifier{current: current, next: next}
}

// Verify reports whether signatureHex is a valid hex-encoded HMAC-SHA256
// of body under either configured key. An empty signature is always
// rejected, even if both keys happen to be empty.
func (v *Verifier) Verify(body []byte, signatureHex string) bool {
	if signatureHex == "" {
		return false
	}
	given, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	for _, key := range [2]string{v.current, v.next} {
		if key == "" {
			continue
		}
		mac := hmac.New(sha256.New, []byte(key))
		mac.Write(body)
		if hmac.Equal(given, mac.Sum(nil)) {
			return true
		}
	}
	return false
}
