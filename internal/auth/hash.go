package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces password fingerprints keyed by the process secret. The
// username acts as the only per-record salt; two users with the same
// password still get distinct fingerprints.
type Hasher struct {
	secret []byte
}

func NewHasher(secret []byte) Hasher {
	return Hasher{secret: secret}
}

// Fingerprint returns hex(HMAC-SHA256(secret, pass+user)). Deterministic,
// so verification is a straight equality check against the stored value.
func (h Hasher) Fingerprint(user, pass string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(pass + user))
	return hex.EncodeToString(mac.Sum(nil))
}
