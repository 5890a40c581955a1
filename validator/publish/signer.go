package publish

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Signer signs telemetry payloads with the validator's hotkey.
type Signer interface {
	// SignerID returns the signer's address string, used both as the
	// envelope's signer fields and as the first component of the signed
	// message.
	SignerID() string
	// Sign signs the message bytes.
	Sign(msg []byte) ([]byte, error)
}

// KeySigner signs with a secp256k1 hotkey.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewKeySigner wraps a private key.
func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
}

// SignerID returns the hotkey's address.
func (s *KeySigner) SignerID() string {
	return s.address
}

// Sign signs the keccak digest of msg.
func (s *KeySigner) Sign(msg []byte) ([]byte, error) {
	sig, err := crypto.Sign(crypto.Keccak256(msg), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "could not sign payload")
	}
	return sig, nil
}

// VerifySignature reports whether sig over msg recovers the given signer
// address. Used by tests and by consumers replaying published envelopes.
func VerifySignature(sig, msg []byte, signerAddress string) bool {
	pub, err := crypto.SigToPub(crypto.Keccak256(msg), sig)
	if err != nil {
		return false
	}
	return crypto.PubkeyToAddress(*pub).Hex() == signerAddress
}
