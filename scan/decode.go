package scan

import (
	"fmt"
	"sync"

	"github.com/shieldwallet/walletd/cryptonote"
	"github.com/shieldwallet/walletd/types"
	"github.com/shieldwallet/walletd/walletdb"
)

// accountKeyEnvelope is the encoding types.Account.AccountKey carries:
// a view private key, and - for non-view-only accounts - a spend private
// key appended after it. Decoding it is this package's job, not
// walletdb's or types'.
const (
	viewOnlyEnvelopeSize = cryptonote.KeySize
	fullEnvelopeSize     = cryptonote.KeySize * 2
)

// EncodeViewOnlyAccountKey builds the AccountKey envelope for a
// view-only account.
func EncodeViewOnlyAccountKey(viewPriv cryptonote.PrivateKey) []byte {
	return append([]byte{}, viewPriv[:]...)
}

// EncodeFullAccountKey builds the AccountKey envelope for a full,
// spend-capable account.
func EncodeFullAccountKey(viewPriv, spendPriv cryptonote.PrivateKey) []byte {
	out := make([]byte, 0, fullEnvelopeSize)
	out = append(out, viewPriv[:]...)
	out = append(out, spendPriv[:]...)
	return out
}

func decodeAccountKey(account types.Account) (view cryptonote.PrivateKey, spend cryptonote.PrivateKey, err error) {
	switch {
	case account.ViewOnly && len(account.AccountKey) == viewOnlyEnvelopeSize:
		copy(view[:], account.AccountKey)
		return view, cryptonote.PrivateKey{}, nil
	case !account.ViewOnly && len(account.AccountKey) == fullEnvelopeSize:
		copy(view[:], account.AccountKey[:cryptonote.KeySize])
		copy(spend[:], account.AccountKey[cryptonote.KeySize:])
		return view, spend, nil
	default:
		return cryptonote.PrivateKey{}, cryptonote.PrivateKey{}, fmt.Errorf("scan: malformed account key envelope for account %s (view_only=%v, len=%d)", account.ID, account.ViewOnly, len(account.AccountKey))
	}
}

// decryptChunk is the parallel portion of sync_account_next_chunk: for
// every candidate output, derive the shared secret and attempt to
// decrypt its masked amount. Outputs that fail to decrypt aren't ours
// and are dropped, mirroring decode_amount's Option return. Fanned out
// across the engine's bounded worker pool, the direct analogue of
// tx_outs.into_par_iter() in the teacher corpus's Rust source.
func (e *Engine) decryptChunk(txOuts []blockTxOut, viewPriv cryptonote.PrivateKey) []decodedTxo {
	results := make([]*decodedTxo, len(txOuts))
	var wg sync.WaitGroup
	wg.Add(len(txOuts))

	for i, bt := range txOuts {
		i, bt := i, bt
		e.pool.Submit(func() {
			defer wg.Done()
			secret := e.kernel.SharedSecret(viewPriv, bt.txOut.PublicKey)
			value, tokenID, ok := e.kernel.DecryptAmount(secret, bt.txOut.MaskedAmount)
			if !ok {
				return
			}
			results[i] = &decodedTxo{
				blockIndex: bt.blockIndex,
				txOut:      bt.txOut,
				value:      value,
				tokenID:    tokenID,
			}
		})
	}
	wg.Wait()

	decoded := make([]decodedTxo, 0, len(results))
	for _, r := range results {
		if r != nil {
			decoded = append(decoded, *r)
		}
	}
	return decoded
}

// resolveSubaddress is decode_subaddress_index / decode_subaddress_and_key_image
// combined: recover the subaddress spend public key an output was sent
// to, look it up in the wallet store, and - for full accounts only -
// derive the one-time private key and key image needed to recognize the
// output being spent later. orphaned is true when the recovered key
// isn't registered to any known subaddress.
func (e *Engine) resolveSubaddress(tx *walletdb.Tx, d decodedTxo, viewPriv, spendPriv cryptonote.PrivateKey, viewOnly bool) (subaddressIndex uint64, onetimePriv cryptonote.PrivateKey, keyImage *cryptonote.KeyImage, orphaned bool) {
	secret := e.kernel.SharedSecret(viewPriv, d.txOut.PublicKey)
	recoveredSpendPublicKey := e.kernel.RecoverSubaddressSpendPublicKey(secret, d.txOut.TargetKey)

	assigned, err := tx.FindBySubaddressSpendPublicKey(recoveredSpendPublicKey)
	if err != nil {
		return 0, cryptonote.PrivateKey{}, nil, true
	}

	if viewOnly {
		return assigned.SubaddressIndex, cryptonote.PrivateKey{}, nil, false
	}

	subSpendPriv, _, err := cryptonote.DeriveSubaddressSpendKey(spendPriv, assigned.SubaddressIndex)
	if err != nil {
		return assigned.SubaddressIndex, cryptonote.PrivateKey{}, nil, false
	}
	priv, image := e.kernel.RecoverOnetimePrivateKeyAndKeyImage(secret, subSpendPriv)
	return assigned.SubaddressIndex, priv, &image, false
}
