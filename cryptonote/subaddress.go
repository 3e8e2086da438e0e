package cryptonote

import "encoding/binary"

// DeriveSubaddressSpendKey deterministically derives the spend key pair
// for subaddress index i of an account holding spendPrivateKey, standing
// in for the real scheme's subaddress_spend_private (scalar addition of
// a per-index hash to the account spend key). Index 0 is conventionally
// the account's main address.
func DeriveSubaddressSpendKey(spendPrivateKey PrivateKey, index uint64) (PrivateKey, PublicKey, error) {
	var indexBytes [8]byte
	binary.LittleEndian.PutUint64(indexBytes[:], index)

	data := make([]byte, 0, KeySize+8)
	data = append(data, spendPrivateKey[:]...)
	data = append(data, indexBytes[:]...)

	priv := PrivateKey(hashWithDomain(data, "subaddress-spend-private"))
	pub, err := priv.PublicKey()
	if err != nil {
		return PrivateKey{}, PublicKey{}, err
	}
	return priv, pub, nil
}
