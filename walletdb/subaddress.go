package walletdb

import (
	"github.com/asdine/storm"

	"github.com/shieldwallet/walletd/cryptonote"
	"github.com/shieldwallet/walletd/types"
)

// AssignSubaddress registers a new subaddress for an account. Admin
// surface, per SPEC_FULL.md §4.5; the scan engine only ever reads these.
func (d *DB) AssignSubaddress(accountID types.AccountID, subaddressIndex uint64, spendPublicKey cryptonote.PublicKey, b58Address, comment string) error {
	s := types.AssignedSubaddress{
		ID:                       types.SubaddressKey(accountID, subaddressIndex),
		AccountID:                accountID,
		SubaddressIndex:          subaddressIndex,
		SubaddressSpendPublicKey: spendPublicKey.Bytes(),
		B58Address:               b58Address,
		Comment:                  comment,
	}
	return d.node(nodeAssignedSubaddresses).Save(&s)
}

// FindBySubaddressSpendPublicKey is the reverse lookup the scan engine
// runs once per trial-decrypted output, resolving a recovered subaddress
// spend public key back to the (account, subaddress) pair that owns it.
// Returns ErrNotFound if the key isn't registered to any account - the
// caller treats that as an orphaned Txo per spec.md's Txo-state rules.
func (tx *Tx) FindBySubaddressSpendPublicKey(spendPublicKey cryptonote.PublicKey) (types.AssignedSubaddress, error) {
	var s types.AssignedSubaddress
	err := tx.node(nodeAssignedSubaddresses).One("SubaddressSpendPublicKey", spendPublicKey.Bytes(), &s)
	if err != nil {
		return types.AssignedSubaddress{}, wrapNotFound(err)
	}
	return s, nil
}

// ListSubaddresses returns every subaddress assigned to an account.
func (d *DB) ListSubaddresses(accountID types.AccountID) ([]types.AssignedSubaddress, error) {
	var subs []types.AssignedSubaddress
	if err := d.node(nodeAssignedSubaddresses).Find("AccountID", accountID, &subs); err != nil {
		if err == storm.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return subs, nil
}
