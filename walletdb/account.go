package walletdb

import (
	"fmt"
	"time"

	"github.com/asdine/storm"
	"github.com/asdine/storm/q"

	"github.com/shieldwallet/walletd/types"
)

// GetAccount fetches a single tracked account by ID.
func (d *DB) GetAccount(id types.AccountID) (types.Account, error) {
	var a types.Account
	if err := d.node(nodeAccounts).One("ID", id, &a); err != nil {
		return types.Account{}, wrapNotFound(err)
	}
	return a, nil
}

// ListAccounts returns every tracked account, in no particular order -
// the scan engine's outer loop (spec.md's sync_all_accounts) iterates
// this once per poll interval.
func (d *DB) ListAccounts() ([]types.Account, error) {
	var accounts []types.Account
	if err := d.node(nodeAccounts).All(&accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateAccount registers a new tracked account at the given first block
// index. Per SPEC_FULL.md §4.5, this is an admin-surface operation; the
// scan engine never calls it. The account's ID is NewAccountID of the
// accountKey bytes as given, not of a derived main public address.
func (d *DB) CreateAccount(accountKey []byte, viewOnly bool, firstBlockIndex uint64, name string) (types.Account, error) {
	a := types.Account{
		ID:              types.NewAccountID(accountKey),
		AccountKey:      accountKey,
		ViewOnly:        viewOnly,
		FirstBlockIndex: firstBlockIndex,
		NextBlockIndex:  firstBlockIndex,
		Name:            name,
		CreatedAt:       time.Now(),
	}
	if err := d.node(nodeAccounts).Save(&a); err != nil {
		return types.Account{}, err
	}
	return a, nil
}

// RenameAccount updates an account's display name.
func (d *DB) RenameAccount(id types.AccountID, name string) error {
	a, err := d.GetAccount(id)
	if err != nil {
		return err
	}
	a.Name = name
	return d.node(nodeAccounts).Save(&a)
}

// DeleteAccount removes an account and every Txo/AssignedSubaddress/
// TransactionLog belonging to it, all inside one ExclusiveTransaction.
func (d *DB) DeleteAccount(id types.AccountID) error {
	return d.ExclusiveTransaction(func(tx *Tx) error {
		if err := tx.node(nodeAccounts).DeleteStruct(&types.Account{ID: id}); err != nil {
			return wrapNotFound(err)
		}
		if err := deleteWhere(tx.node(nodeTxos), q.Eq("AccountID", id), new(types.Txo)); err != nil {
			return err
		}
		if err := deleteWhere(tx.node(nodeAssignedSubaddresses), q.Eq("AccountID", id), new(types.AssignedSubaddress)); err != nil {
			return err
		}
		return deleteWhere(tx.node(nodeTransactionLogs), q.Eq("AccountID", id), new(types.TransactionLog))
	})
}

// RewindAccount resets an account's NextBlockIndex back to
// FirstBlockIndex and marks it Resyncing, so the scan engine will
// re-derive every Txo from scratch. Existing Txos for the account are
// left in place; the scan engine's idempotent CreateReceived upsert
// reconciles them as the rescan progresses.
func (d *DB) RewindAccount(id types.AccountID) error {
	a, err := d.GetAccount(id)
	if err != nil {
		return err
	}
	a.NextBlockIndex = a.FirstBlockIndex
	a.Resyncing = true
	return d.node(nodeAccounts).Save(&a)
}

// UpdateNextBlockIndex sets an account's sync cursor. Per DESIGN.md's
// resolution of Open Question 3, a non-monotonic update is rejected
// unless the account is currently Resyncing, in which case any value is
// accepted. Resyncing is cleared once the new cursor is at or past the
// account's FirstBlockIndex.
func (tx *Tx) UpdateNextBlockIndex(id types.AccountID, nextBlockIndex uint64) error {
	node := tx.node(nodeAccounts)
	var a types.Account
	if err := node.One("ID", id, &a); err != nil {
		return wrapNotFound(err)
	}
	if nextBlockIndex < a.NextBlockIndex && !a.Resyncing {
		return fmt.Errorf("walletdb: refusing non-monotonic NextBlockIndex update for account %s (%d -> %d)", id, a.NextBlockIndex, nextBlockIndex)
	}
	a.NextBlockIndex = nextBlockIndex
	if a.Resyncing && nextBlockIndex >= a.FirstBlockIndex {
		a.Resyncing = false
	}
	return node.Save(&a)
}

// GetAccount reads a single account from within an exclusive transaction.
func (tx *Tx) GetAccount(id types.AccountID) (types.Account, error) {
	var a types.Account
	if err := tx.node(nodeAccounts).One("ID", id, &a); err != nil {
		return types.Account{}, wrapNotFound(err)
	}
	return a, nil
}

func wrapNotFound(err error) error {
	if err == storm.ErrNotFound {
		return ErrNotFound
	}
	return err
}

// deleteWhere removes every record matching matcher. kind must be a
// pointer to the zero value of the node's stored type, as storm uses it
// to resolve which bucket to operate on.
func deleteWhere(node storm.Node, matcher q.Matcher, kind interface{}) error {
	err := node.Select(matcher).Delete(kind)
	if err == storm.ErrNotFound {
		return nil
	}
	return err
}
