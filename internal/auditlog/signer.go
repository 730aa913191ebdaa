package auditlog

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
)

// Signer optionally signs an entry's chain hash. No pack library
// covers detached signing for an audit trail; ed25519 is the standard
// library's own answer and needs no external dependency to justify.
type Signer interface {
	Sign(hash string) (string, error)
}

// NoopSigner never signs; Signature is left empty on every entry.
type NoopSigner struct{}

func (NoopSigner) Sign(string) (string, error) { return "", nil }

// Ed25519Signer signs each entry's chain hash with a private key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer wraps an existing private key.
func NewEd25519Signer(priv ed25519.PrivateKey) *Ed25519Signer {
	return &Ed25519Signer{priv: priv}
}

// GenerateEd25519Signer creates a fresh keypair, returning the signer
// and the public key for verification.
func GenerateEd25519Signer() (*Ed25519Signer, ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return &Ed25519Signer{priv: priv}, pub, nil
}

func (s *Ed25519Signer) Sign(hash string) (string, error) {
	sig := ed25519.Sign(s.priv, []byte(hash))
	return hex.EncodeToString(sig), nil
}

// VerifyEd25519 checks a hex-encoded signature against a chain hash.
func VerifyEd25519(pub ed25519.PublicKey, hash, signatureHex string) bool {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	return ed25519.Verify(pub, []byte(hash), sig)
}
