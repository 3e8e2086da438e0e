package scan

import (
	"path/filepath"
	"testing"

	"github.com/shieldwallet/walletd/cryptonote"
	"github.com/shieldwallet/walletd/persist"
	"github.com/shieldwallet/walletd/types"
	"github.com/shieldwallet/walletd/walletdb"
)

// saveTransactionLog and markTxoPending are test-only helpers standing
// in for the Service Facade operation that would normally create a
// pending TransactionLog and mark its input Txos pending at submission
// time.
func saveTransactionLog(e *Engine, l types.TransactionLog) error {
	return e.wallet.CreateTransactionLog(l)
}

func markTxoPending(e *Engine, txoID types.TxoID, tombstoneBlockIndex uint64) error {
	return e.wallet.ExclusiveTransaction(func(tx *walletdb.Tx) error {
		return tx.MarkPending(txoID, tombstoneBlockIndex)
	})
}

func newTestLogger(t *testing.T) *persist.Logger {
	t.Helper()
	log, err := persist.NewFileLogger("scan-test", filepath.Join(t.TempDir(), "test.log"), false)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func newTestDB(t *testing.T) *walletdb.DB {
	t.Helper()
	db, err := walletdb.Open(t.TempDir(), newTestLogger(t))
	if err != nil {
		t.Fatalf("walletdb.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testAccountKeys bundles the key material a test needs both to build
// outputs addressed to an account and to register it with the wallet
// store.
type testAccountKeys struct {
	viewPriv  cryptonote.PrivateKey
	viewPub   cryptonote.PublicKey
	spendPriv cryptonote.PrivateKey
	spendPub  cryptonote.PublicKey
}

// subaddressSpendPub returns the spend public key of subaddress `index`
// of an account, the key its AssignedSubaddress record must carry for the
// engine's reverse lookup to find outputs minted by mintTxOut.
func subaddressSpendPub(t *testing.T, k testAccountKeys, index uint64) cryptonote.PublicKey {
	t.Helper()
	_, pub, err := cryptonote.DeriveSubaddressSpendKey(k.spendPriv, index)
	if err != nil {
		t.Fatalf("DeriveSubaddressSpendKey: %v", err)
	}
	return pub
}

func newTestAccountKeys(t *testing.T) testAccountKeys {
	t.Helper()
	viewPriv, viewPub, err := cryptonote.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	spendPriv, spendPub, err := cryptonote.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	return testAccountKeys{viewPriv, viewPub, spendPriv, spendPub}
}

// mintTxOut builds a TxOut addressed to subaddress `index` of an
// account, the way a sender constructing a payment would: pick an
// ephemeral tx key, derive the shared secret against the recipient's
// view key, mask the target subaddress spend key and the amount.
func mintTxOut(t *testing.T, k testAccountKeys, subaddressIndex uint64, value uint64, tokenID types.TokenID, eFogHint []byte) cryptonote.TxOut {
	t.Helper()
	kernel := cryptonote.DefaultKernel{}

	txPriv, txPub, err := cryptonote.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	secret := kernel.SharedSecret(txPriv, k.viewPub)

	_, subSpendPub, err := cryptonote.DeriveSubaddressSpendKey(k.spendPriv, subaddressIndex)
	if err != nil {
		t.Fatalf("DeriveSubaddressSpendKey: %v", err)
	}
	targetKey := kernel.RecoverSubaddressSpendPublicKey(secret, subSpendPub)

	return cryptonote.TxOut{
		PublicKey:    txPub,
		TargetKey:    targetKey,
		MaskedAmount: cryptonote.MaskAmount(secret, value, tokenID),
		EFogHint:     eFogHint,
	}
}

// txOutKeyImage derives the key image a full-account recipient would
// compute for a TxOut minted by mintTxOut, for tests that need to
// simulate the output later being spent.
func txOutKeyImage(t *testing.T, k testAccountKeys, subaddressIndex uint64, out cryptonote.TxOut) cryptonote.KeyImage {
	t.Helper()
	kernel := cryptonote.DefaultKernel{}
	secret := kernel.SharedSecret(k.viewPriv, out.PublicKey)
	subSpendPriv, _, err := cryptonote.DeriveSubaddressSpendKey(k.spendPriv, subaddressIndex)
	if err != nil {
		t.Fatalf("DeriveSubaddressSpendKey: %v", err)
	}
	_, image := kernel.RecoverOnetimePrivateKeyAndKeyImage(secret, subSpendPriv)
	return image
}
