package cryptonote

import (
	"encoding/binary"

	"github.com/shieldwallet/walletd/types"
)

// DefaultKernel is the Kernel implementation wired into the scan engine by
// cmd/walletd. See the package doc comment for what it simplifies away.
type DefaultKernel struct{}

var _ Kernel = DefaultKernel{}

func (DefaultKernel) SharedSecret(viewPrivateKey PrivateKey, txOutPublicKey PublicKey) [KeySize]byte {
	secret, err := x25519(viewPrivateKey, txOutPublicKey)
	if err != nil {
		// A malformed public key can't produce a shared secret; returning
		// the zero secret makes DecryptAmount fail its tag check and the
		// caller correctly treats the output as not-ours.
		return [KeySize]byte{}
	}
	return secret
}

func (DefaultKernel) DecryptAmount(sharedSecret [KeySize]byte, maskedAmount []byte) (uint64, types.TokenID, bool) {
	if len(maskedAmount) != maskedAmountSize {
		return 0, 0, false
	}
	streamA := kdf(sharedSecret, "amount-value")
	streamB := kdf(sharedSecret, "amount-token")

	var valueBytes, tokenBytes [8]byte
	for i := 0; i < 8; i++ {
		valueBytes[i] = maskedAmount[i] ^ streamA[i]
		tokenBytes[i] = maskedAmount[8+i] ^ streamB[i]
	}

	tag := amountTag(sharedSecret, valueBytes, tokenBytes)
	for i := 0; i < 8; i++ {
		if maskedAmount[16+i] != tag[i] {
			return 0, 0, false
		}
	}

	value := binary.LittleEndian.Uint64(valueBytes[:])
	tokenID := types.TokenID(binary.LittleEndian.Uint64(tokenBytes[:]))
	return value, tokenID, true
}

func (DefaultKernel) RecoverSubaddressSpendPublicKey(sharedSecret [KeySize]byte, targetKey PublicKey) PublicKey {
	mask := kdf(sharedSecret, "subaddress-spend-public")
	return PublicKey(xor32([32]byte(targetKey), mask))
}

func (DefaultKernel) RecoverOnetimePrivateKeyAndKeyImage(sharedSecret [KeySize]byte, subaddressSpendPrivateKey PrivateKey) (PrivateKey, KeyImage) {
	mask := kdf(sharedSecret, "subaddress-spend-public")
	onetime := PrivateKey(xor32([32]byte(subaddressSpendPrivateKey), mask))

	h := keyImageHash(onetime)
	return onetime, KeyImage(h)
}

func keyImageHash(onetime PrivateKey) [32]byte {
	return hashWithDomain(onetime[:], "key-image")
}
