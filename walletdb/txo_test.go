package walletdb

import (
	"errors"
	"testing"

	"github.com/shieldwallet/walletd/types"
)

var errBoom = errors.New("boom")

func newTestTxo(accountID types.AccountID, seed byte, value uint64, receivedBlockIndex uint64) types.Txo {
	sub := uint64(0)
	return types.Txo{
		ID:                 types.NewTxoID([]byte{seed}, []byte{seed, 1}, []byte{seed, 2}, nil),
		PublicKey:          []byte{seed},
		TargetKey:          []byte{seed, 1},
		MaskedAmount:       []byte{seed, 2},
		Value:              types.NewAmountFromUint64(value),
		AccountID:          accountID,
		SubaddressIndex:    &sub,
		KeyImage:           append([]byte{seed, 3}, make([]byte, 30)...),
		ReceivedBlockIndex: receivedBlockIndex,
	}
}

func TestCreateReceivedIdempotentPreservesSpendState(t *testing.T) {
	db := newTestDB(t)
	acc, err := db.CreateAccount([]byte("k"), false, 0, "name")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	txo := newTestTxo(acc.ID, 1, 1000, 0)
	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.CreateReceived(txo)
	}); err != nil {
		t.Fatalf("CreateReceived: %v", err)
	}
	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.UpdateSpentBlockIndex(txo.ID, 5)
	}); err != nil {
		t.Fatalf("UpdateSpentBlockIndex: %v", err)
	}

	// Re-observing the same output (a rescan) must not clobber the spend.
	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.CreateReceived(txo)
	}); err != nil {
		t.Fatalf("CreateReceived (rescan): %v", err)
	}

	txos, err := db.ListTxosForAccount(acc.ID)
	if err != nil {
		t.Fatalf("ListTxosForAccount: %v", err)
	}
	if len(txos) != 1 {
		t.Fatalf("got %d txos, want 1 (idempotent upsert)", len(txos))
	}
	if txos[0].Status() != types.StatusSpent {
		t.Fatalf("got status %v, want spent (preserved across rescan)", txos[0].Status())
	}
}

func TestListUnspentOrPendingKeyImages(t *testing.T) {
	db := newTestDB(t)
	acc, err := db.CreateAccount([]byte("k"), false, 0, "name")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	unspent := newTestTxo(acc.ID, 1, 100, 0)
	spent := newTestTxo(acc.ID, 2, 200, 0)
	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		if err := tx.CreateReceived(unspent); err != nil {
			return err
		}
		return tx.CreateReceived(spent)
	}); err != nil {
		t.Fatalf("CreateReceived: %v", err)
	}
	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.UpdateSpentBlockIndex(spent.ID, 1)
	}); err != nil {
		t.Fatalf("UpdateSpentBlockIndex: %v", err)
	}

	var keyImages map[[32]byte]types.TxoID
	err = db.ExclusiveTransaction(func(tx *Tx) error {
		var err error
		keyImages, err = tx.ListUnspentOrPendingKeyImages(acc.ID)
		return err
	})
	if err != nil {
		t.Fatalf("ListUnspentOrPendingKeyImages: %v", err)
	}
	if len(keyImages) != 1 {
		t.Fatalf("got %d key images, want 1 (only the unspent txo)", len(keyImages))
	}
	var ki [32]byte
	copy(ki[:], unspent.KeyImage)
	if id, ok := keyImages[ki]; !ok || id != unspent.ID {
		t.Fatalf("got %+v, want the unspent txo's key image mapped to its ID", keyImages)
	}
}

func TestMarkPendingAndUpdatePendingTransitions(t *testing.T) {
	db := newTestDB(t)
	acc, err := db.CreateAccount([]byte("k"), false, 0, "name")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	txo := newTestTxo(acc.ID, 1, 100, 0)
	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.CreateReceived(txo)
	}); err != nil {
		t.Fatalf("CreateReceived: %v", err)
	}

	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.MarkPending(txo.ID, 42)
	}); err != nil {
		t.Fatalf("MarkPending: %v", err)
	}
	txos, err := db.ListTxosForAccount(acc.ID)
	if err != nil {
		t.Fatalf("ListTxosForAccount: %v", err)
	}
	if txos[0].Status() != types.StatusPending {
		t.Fatalf("got status %v, want pending", txos[0].Status())
	}

	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.UpdatePendingAssociatedWithTxoToSucceeded(txo.ID, 43)
	}); err != nil {
		t.Fatalf("UpdatePendingAssociatedWithTxoToSucceeded: %v", err)
	}
	// UpdatePendingAssociatedWithTxoToSucceeded only transitions
	// TransactionLogs, not the Txo itself; the Txo transitions to spent
	// via UpdateSpentBlockIndex, called by the scan engine in the same
	// pass once the key image is observed.
	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		return tx.UpdateSpentBlockIndex(txo.ID, 43)
	}); err != nil {
		t.Fatalf("UpdateSpentBlockIndex: %v", err)
	}
	txos, err = db.ListTxosForAccount(acc.ID)
	if err != nil {
		t.Fatalf("ListTxosForAccount: %v", err)
	}
	if txos[0].Status() != types.StatusSpent {
		t.Fatalf("got status %v, want spent", txos[0].Status())
	}
}

func TestAccountBalanceSumsUnspentByToken(t *testing.T) {
	db := newTestDB(t)
	acc, err := db.CreateAccount([]byte("k"), false, 0, "name")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	a := newTestTxo(acc.ID, 1, 100, 0)
	a.TokenID = types.TokenID(0)
	b := newTestTxo(acc.ID, 2, 250, 0)
	b.TokenID = types.TokenID(0)
	c := newTestTxo(acc.ID, 3, 7, 0)
	c.TokenID = types.TokenID(1)
	spent := newTestTxo(acc.ID, 4, 999, 0)
	spent.TokenID = types.TokenID(0)

	if err := db.ExclusiveTransaction(func(tx *Tx) error {
		for _, t := range []types.Txo{a, b, c, spent} {
			if err := tx.CreateReceived(t); err != nil {
				return err
			}
		}
		return tx.UpdateSpentBlockIndex(spent.ID, 1)
	}); err != nil {
		t.Fatalf("seeding txos: %v", err)
	}

	balances, err := db.AccountBalance(acc.ID)
	if err != nil {
		t.Fatalf("AccountBalance: %v", err)
	}
	if got := balances[types.TokenID(0)].Uint64(); got != 350 {
		t.Fatalf("got token-0 balance %d, want 350 (spent txo excluded)", got)
	}
	if got := balances[types.TokenID(1)].Uint64(); got != 7 {
		t.Fatalf("got token-1 balance %d, want 7", got)
	}
}

func TestExclusiveTransactionRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	acc, err := db.CreateAccount([]byte("k"), false, 0, "name")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	txo := newTestTxo(acc.ID, 1, 100, 0)

	wantErr := errBoom
	err = db.ExclusiveTransaction(func(tx *Tx) error {
		if err := tx.CreateReceived(txo); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("got err %v, want %v", err, wantErr)
	}

	txos, err := db.ListTxosForAccount(acc.ID)
	if err != nil {
		t.Fatalf("ListTxosForAccount: %v", err)
	}
	if len(txos) != 0 {
		t.Fatalf("got %d txos after rolled-back transaction, want 0", len(txos))
	}
}
