// Package walletdb is the Wallet Store spec.md §2.2 and §4.3 describe: the
// persisted state the scan engine reads and updates every chunk, modeled
// as four storm-over-bbolt collections (accounts, assigned subaddresses,
// txos, transaction logs) rather than SQL tables, grounded on
// modules/explorergraphql/explorerdb/stormdb.go's StormDB wrapper.
package walletdb

import (
	"path/filepath"

	"github.com/asdine/storm"
	"github.com/asdine/storm/codec/msgpack"

	"github.com/shieldwallet/walletd/persist"
)

const (
	nodeAccounts             = "Accounts"
	nodeAssignedSubaddresses = "AssignedSubaddresses"
	nodeTxos                 = "Txos"
	nodeTransactionLogs      = "TransactionLogs"

	dbFileName = "wallet.db"

	metadataHeader  = "walletd wallet store"
	metadataVersion = "1.0"
)

// DB is the wallet store. Every method that reads or writes more than one
// node does so inside ExclusiveTransaction, matching spec.md §4.3's
// requirement that a chunk's worth of scan-engine updates commit
// atomically.
type DB struct {
	meta   *persist.BoltDatabase
	db     *storm.DB
	logger *persist.Logger
}

// Open opens (creating if necessary) the wallet store at dir/wallet.db. It
// first goes through persist.OpenDatabase, which refuses to run against a
// file written by an incompatible header/version, then hands that same
// open bolt.DB to storm rather than opening the file a second time.
func Open(dir string, logger *persist.Logger) (*DB, error) {
	meta, err := persist.OpenDatabase(persist.Metadata{Header: metadataHeader, Version: metadataVersion}, filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(filepath.Join(dir, dbFileName), storm.UseDB(meta.DB), storm.Codec(msgpack.Codec))
	if err != nil {
		meta.Close()
		return nil, err
	}
	return &DB{meta: meta, db: db, logger: logger}, nil
}

// Close releases the underlying bolt file.
func (d *DB) Close() error {
	return d.db.Close()
}

// Tx is the handle passed to the closure given to ExclusiveTransaction. It
// exposes the same per-collection operations as DB itself, just bound to
// the transaction's nodes instead of the root database.
type Tx struct {
	txn storm.Node
}

// ExclusiveTransaction runs fn inside a single exclusive bolt write
// transaction (storm.DB.Begin(true)), the direct analogue of
// full-service's sync.rs wrapping a chunk's worth of receive/spend
// bookkeeping in a single Diesel exclusive_transaction. If fn returns an
// error, every write it made is rolled back.
func (d *DB) ExclusiveTransaction(fn func(tx *Tx) error) error {
	txn, err := d.db.Begin(true)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = txn.Rollback()
		}
	}()

	if err := fn(&Tx{txn: txn}); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (d *DB) node(name string) storm.Node {
	return d.db.From(name)
}

func (tx *Tx) node(name string) storm.Node {
	return tx.txn.From(name)
}
