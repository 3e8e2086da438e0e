// Package cryptonote is the cryptographic kernel spec.md §2 treats as an
// external collaborator: a small set of pure, side-effect-free functions
// the scan engine calls to figure out which outputs belong to which
// tracked account, without the engine needing to know anything about curve
// arithmetic itself.
//
// The real system this is modeled on derives shared secrets and one-time
// keys over the Ristretto group; no Ristretto implementation appears
// anywhere in the example corpus this package was built against. Rather
// than vendor one, the kernel here is built from two primitives the
// ecosystem and the pack's own dependency graph do carry -
// golang.org/x/crypto/curve25519 for the Diffie-Hellman shared secret, and
// golang.org/x/crypto/blake2b as the keyed-hash/KDF - composed into a
// scheme that satisfies the same four contracts (shared secret, masked
// amount decryption, subaddress recovery, one-time key/key-image
// recovery) without claiming to be production CryptoNote cryptography.
// See DESIGN.md for the explicit simplification notes.
package cryptonote

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"
)

const KeySize = 32

type (
	// PublicKey is a curve point, serialized canonically.
	PublicKey [KeySize]byte
	// PrivateKey is a scalar, serialized canonically.
	PrivateKey [KeySize]byte
	// KeyImage is the deterministic, non-invertible tag derived from a
	// one-time private key; its appearance on chain proves the
	// corresponding output has been spent.
	KeyImage [KeySize]byte
)

// GenerateKeyPair returns a fresh, random private/public key pair.
func GenerateKeyPair() (PrivateKey, PublicKey, error) {
	var sk PrivateKey
	if _, err := rand.Read(sk[:]); err != nil {
		return PrivateKey{}, PublicKey{}, err
	}
	pk, err := sk.PublicKey()
	return sk, pk, err
}

// PublicKey derives the public key corresponding to a private scalar.
func (sk PrivateKey) PublicKey() (PublicKey, error) {
	pub, err := curve25519.X25519(sk[:], curve25519.Basepoint)
	if err != nil {
		return PublicKey{}, err
	}
	var pk PublicKey
	copy(pk[:], pub)
	return pk, nil
}

func (pk PublicKey) Bytes() []byte  { return pk[:] }
func (sk PrivateKey) Bytes() []byte { return sk[:] }
func (ki KeyImage) Bytes() []byte   { return ki[:] }

// BytesToPublicKey copies a byte slice into a fixed-size PublicKey,
// returning false if the length doesn't match.
func BytesToPublicKey(b []byte) (PublicKey, bool) {
	if len(b) != KeySize {
		return PublicKey{}, false
	}
	var pk PublicKey
	copy(pk[:], b)
	return pk, true
}

// BytesToPrivateKey copies a byte slice into a fixed-size PrivateKey.
func BytesToPrivateKey(b []byte) (PrivateKey, bool) {
	if len(b) != KeySize {
		return PrivateKey{}, false
	}
	var sk PrivateKey
	copy(sk[:], b)
	return sk, true
}
