package cryptonote

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
)

// x25519 computes the Diffie-Hellman shared secret between a private
// scalar and a peer's public point, then runs it through blake2b so the
// result is a uniformly-distributed key rather than a raw curve point.
func x25519(priv PrivateKey, pub PublicKey) ([KeySize]byte, error) {
	raw, err := curve25519.X25519(priv[:], pub[:])
	if err != nil {
		return [KeySize]byte{}, err
	}
	return hashWithDomain(raw, "shared-secret"), nil
}

func hashWithDomain(data []byte, domain string) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(data)
	h.Write([]byte(domain))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
