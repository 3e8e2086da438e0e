package cryptonote

import (
	"encoding/binary"

	"github.com/shieldwallet/walletd/types"
)

// maskedAmountSize is 8 bytes of masked value + 8 bytes of masked token ID
// + 8 bytes of authentication tag.
const maskedAmountSize = 24

// TxOut is the subset of an on-chain transaction output the kernel and the
// scan engine need: the two public curve points every output carries, and
// the masked-amount ciphertext that only the recipient's view key can
// open. e_fog_hint is carried opaquely (spec.md's "opaque bytes") and
// never interpreted by this package.
type TxOut struct {
	PublicKey    PublicKey
	TargetKey    PublicKey
	MaskedAmount []byte
	EFogHint     []byte
}

// MaskAmount encrypts (value, tokenID) against sharedSecret, producing the
// bytes that would appear on chain as the output's masked amount. It is
// the inverse of Kernel.DecryptAmount and exists so tests (and anything
// standing in for a transaction builder) can construct realistic TxOuts
// without a real builder package.
func MaskAmount(sharedSecret [KeySize]byte, value uint64, tokenID types.TokenID) []byte {
	streamA := kdf(sharedSecret, "amount-value")
	streamB := kdf(sharedSecret, "amount-token")

	out := make([]byte, maskedAmountSize)
	var valueBytes, tokenBytes [8]byte
	binary.LittleEndian.PutUint64(valueBytes[:], value)
	binary.LittleEndian.PutUint64(tokenBytes[:], uint64(tokenID))

	for i := 0; i < 8; i++ {
		out[i] = valueBytes[i] ^ streamA[i]
		out[8+i] = tokenBytes[i] ^ streamB[i]
	}
	tag := amountTag(sharedSecret, valueBytes, tokenBytes)
	copy(out[16:24], tag[:8])
	return out
}
