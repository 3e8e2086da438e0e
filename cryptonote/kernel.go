package cryptonote

import (
	"github.com/shieldwallet/walletd/types"
	"golang.org/x/crypto/blake2b"
)

// Kernel is the cryptographic kernel spec.md §2.3 describes: a stateless
// set of operations the scan engine calls once per candidate output. None
// of these ever touch the wallet store or the ledger - they take public
// output fields and an account's private material, and return either "not
// ours" or the recovered plaintext.
type Kernel interface {
	// SharedSecret derives the Diffie-Hellman secret between a account's
	// view private key and an output's public key. Every other kernel
	// operation is driven off this one value.
	SharedSecret(viewPrivateKey PrivateKey, txOutPublicKey PublicKey) [KeySize]byte

	// DecryptAmount opens an output's masked amount against a shared
	// secret. ok is false when the authentication tag doesn't match,
	// meaning the output almost certainly isn't addressed to this
	// account and the caller should skip it per spec.md's trial-decrypt
	// semantics.
	DecryptAmount(sharedSecret [KeySize]byte, maskedAmount []byte) (value uint64, tokenID types.TokenID, ok bool)

	// RecoverSubaddressSpendPublicKey removes the target key's masking to
	// recover the spend public key of the subaddress the output was sent
	// to. The caller looks this key up in the assigned-subaddress index
	// to learn which subaddress (if any) it belongs to.
	RecoverSubaddressSpendPublicKey(sharedSecret [KeySize]byte, targetKey PublicKey) PublicKey

	// RecoverOnetimePrivateKeyAndKeyImage derives the one-time private key
	// for a received output - and its key image - from the shared secret
	// and the subaddress's spend private key. Only possible for accounts
	// holding the full account key; view-only accounts can decrypt
	// amounts but never compute key images.
	RecoverOnetimePrivateKeyAndKeyImage(sharedSecret [KeySize]byte, subaddressSpendPrivateKey PrivateKey) (PrivateKey, KeyImage)
}

// kdf derives a 32-byte value from a shared secret and a domain string,
// standing in for the Ristretto hash-to-scalar (Hs) this scheme's real
// counterpart would use.
func kdf(sharedSecret [KeySize]byte, domain string) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(sharedSecret[:])
	h.Write([]byte(domain))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func amountTag(sharedSecret [KeySize]byte, valueBytes, tokenBytes [8]byte) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(sharedSecret[:])
	h.Write(valueBytes[:])
	h.Write(tokenBytes[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func xor32(a, b [32]byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}
