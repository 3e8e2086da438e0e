package walletdb

import (
	"github.com/asdine/storm"
	"github.com/asdine/storm/q"

	"github.com/shieldwallet/walletd/types"
)

// CreateReceived upserts a received Txo. It is idempotent on Txo.ID (a
// TxoID is derived from the output's own content, so re-observing the
// same output - as happens on a rewind rescan - is a no-op save rather
// than a duplicate), matching full-service's Txo::create_received.
func (tx *Tx) CreateReceived(t types.Txo) error {
	node := tx.node(nodeTxos)
	var existing types.Txo
	err := node.One("ID", t.ID, &existing)
	switch err {
	case nil:
		// Preserve spend/pending bookkeeping a rescan shouldn't clobber.
		t.SpentBlockIndex = existing.SpentBlockIndex
		t.PendingTombstoneBlockIndex = existing.PendingTombstoneBlockIndex
		return node.Save(&t)
	case storm.ErrNotFound:
		return node.Save(&t)
	default:
		return err
	}
}

// ListUnspentOrPendingKeyImages returns the key images of every Txo
// belonging to accountID that isn't yet marked spent, so the scan
// engine's spend pass has a candidate set to match a chunk's observed
// key images against.
func (tx *Tx) ListUnspentOrPendingKeyImages(accountID types.AccountID) (map[[32]byte]types.TxoID, error) {
	var txos []types.Txo
	err := tx.node(nodeTxos).Select(
		q.Eq("AccountID", accountID),
		q.Eq("SpentBlockIndex", (*uint64)(nil)),
	).Find(&txos)
	if err != nil && err != storm.ErrNotFound {
		return nil, err
	}
	out := make(map[[32]byte]types.TxoID, len(txos))
	for _, t := range txos {
		if len(t.KeyImage) != 32 {
			continue
		}
		var ki [32]byte
		copy(ki[:], t.KeyImage)
		out[ki] = t.ID
	}
	return out, nil
}

// UpdateSpentBlockIndex marks a Txo spent at blockIndex and clears any
// pending-tombstone bookkeeping, since the spend is now confirmed rather
// than merely proposed.
func (tx *Tx) UpdateSpentBlockIndex(id types.TxoID, blockIndex uint64) error {
	node := tx.node(nodeTxos)
	var t types.Txo
	if err := node.One("ID", id, &t); err != nil {
		return wrapNotFound(err)
	}
	t.SpentBlockIndex = &blockIndex
	t.PendingTombstoneBlockIndex = nil
	return node.Save(&t)
}

// MarkPending records that a Txo is referenced as an input of a
// locally-submitted transaction with the given tombstone block index.
func (tx *Tx) MarkPending(id types.TxoID, tombstoneBlockIndex uint64) error {
	node := tx.node(nodeTxos)
	var t types.Txo
	if err := node.One("ID", id, &t); err != nil {
		return wrapNotFound(err)
	}
	t.PendingTombstoneBlockIndex = &tombstoneBlockIndex
	return node.Save(&t)
}

// ListTxosForAccount returns every Txo belonging to an account, for the
// read facade.
func (d *DB) ListTxosForAccount(accountID types.AccountID) ([]types.Txo, error) {
	var txos []types.Txo
	err := d.node(nodeTxos).Find("AccountID", accountID, &txos)
	if err != nil {
		if err == storm.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return txos, nil
}

// AccountBalance sums the value of every unspent Txo belonging to an
// account, per token ID.
func (d *DB) AccountBalance(accountID types.AccountID) (map[types.TokenID]types.Amount, error) {
	txos, err := d.ListTxosForAccount(accountID)
	if err != nil {
		return nil, err
	}
	balances := make(map[types.TokenID]types.Amount)
	for _, t := range txos {
		if t.Status() != types.StatusUnspent {
			continue
		}
		cur, ok := balances[t.TokenID]
		if !ok {
			cur = types.ZeroAmount
		}
		balances[t.TokenID] = cur.Add(t.Value)
	}
	return balances, nil
}
