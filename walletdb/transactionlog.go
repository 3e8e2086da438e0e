package walletdb

import (
	"github.com/asdine/storm"
	"github.com/asdine/storm/q"

	"github.com/shieldwallet/walletd/types"
)

// UpdatePendingAssociatedWithTxoToSucceeded transitions every pending
// TransactionLog that spends txoID to Succeeded, mirroring
// full-service's TransactionLog::update_pending_associated_with_txo_to_succeeded
// - called once per input Txo whose key image the scan engine has just
// observed on chain.
func (tx *Tx) UpdatePendingAssociatedWithTxoToSucceeded(txoID types.TxoID, spentBlockIndex uint64) error {
	node := tx.node(nodeTransactionLogs)
	var logs []types.TransactionLog
	if err := node.Select(q.Eq("Status", types.TransactionLogPending)).Find(&logs); err != nil {
		if err == storm.ErrNotFound {
			return nil
		}
		return err
	}
	for _, l := range logs {
		if !containsTxoID(l.InputTxoIDs, txoID) {
			continue
		}
		l.Status = types.TransactionLogSucceeded
		if err := node.Save(&l); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePendingExceedingTombstoneBlockIndexToFailed transitions every
// pending TransactionLog whose tombstone is at or below currentBlockIndex
// to Failed, mirroring full-service's
// update_pending_exceeding_tombstone_block_index_to_failed, and releases
// each failed log's input Txos back to unspent by clearing their
// PendingTombstoneBlockIndex - a Txo's pending state is only ever a
// reflection of the log that references it, so a failed log must un-pend
// its inputs the same way a succeeded one (UpdateSpentBlockIndex) marks
// them spent. Called once per chunk, after the receive and spend passes.
func (tx *Tx) UpdatePendingExceedingTombstoneBlockIndexToFailed(currentBlockIndex uint64) error {
	logNode := tx.node(nodeTransactionLogs)
	var logs []types.TransactionLog
	err := logNode.Select(
		q.Eq("Status", types.TransactionLogPending),
		q.Lte("TombstoneBlockIndex", currentBlockIndex),
	).Find(&logs)
	if err != nil {
		if err == storm.ErrNotFound {
			return nil
		}
		return err
	}
	txoNode := tx.node(nodeTxos)
	for _, l := range logs {
		l.Status = types.TransactionLogFailed
		if err := logNode.Save(&l); err != nil {
			return err
		}
		for _, txoID := range l.InputTxoIDs {
			if err := clearPendingTombstone(txoNode, txoID); err != nil {
				return err
			}
		}
	}
	return nil
}

// clearPendingTombstone reverts a Txo to unspent (assuming it hasn't
// meanwhile been confirmed spent) now that the transaction pending
// against it has failed.
func clearPendingTombstone(node storm.Node, txoID types.TxoID) error {
	var t types.Txo
	if err := node.One("ID", txoID, &t); err != nil {
		if err == storm.ErrNotFound {
			return nil
		}
		return err
	}
	if t.PendingTombstoneBlockIndex == nil {
		return nil
	}
	t.PendingTombstoneBlockIndex = nil
	return node.Save(&t)
}

func containsTxoID(ids []types.TxoID, target types.TxoID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// CreateTransactionLog inserts a new TransactionLog. Building and
// submitting the underlying transaction is the Service Facade's job;
// this just records the result so the scan engine can track it to
// completion.
func (d *DB) CreateTransactionLog(l types.TransactionLog) error {
	return d.node(nodeTransactionLogs).Save(&l)
}

// ListTransactionLogs returns every TransactionLog belonging to an
// account, for the read facade.
func (d *DB) ListTransactionLogs(accountID types.AccountID) ([]types.TransactionLog, error) {
	var logs []types.TransactionLog
	err := d.node(nodeTransactionLogs).Find("AccountID", accountID, &logs)
	if err != nil {
		if err == storm.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return logs, nil
}
