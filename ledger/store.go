// Package ledger is the Ledger Store spec.md §2.1 treats as an external,
// append-only collaborator: the scan engine only ever reads from it.
// Nothing in this package writes consensus state - that's a different
// service's job - so Store is deliberately narrow.
package ledger

import (
	"context"
	"errors"

	"github.com/shieldwallet/walletd/cryptonote"
)

// ErrNotFound is returned when a block or output index is out of range.
var ErrNotFound = errors.New("ledger: not found")

// Block is one ledger block's contents, as the scan engine needs them: its
// index, the outputs it minted, and the key images it spent.
type Block struct {
	Index     uint64
	TxOuts    []cryptonote.TxOut
	KeyImages []cryptonote.KeyImage
}

// Store is the read-only interface the scan engine drives against. A real
// deployment talks to it over whatever transport the ledger service
// exposes; MemStore (memstore.go) is an in-process reference
// implementation used by tests.
type Store interface {
	// NumBlocks returns the current chain height (one past the highest
	// indexed block).
	NumBlocks(ctx context.Context) (uint64, error)

	// GetBlockContents returns the full contents of a single block.
	GetBlockContents(ctx context.Context, blockIndex uint64) (Block, error)

	// GetTxOutByIndex returns a single output by its global index, used
	// when resolving a transaction's inputs.
	GetTxOutByIndex(ctx context.Context, globalIndex uint64) (cryptonote.TxOut, error)

	// GetTxOutIndexByPublicKey resolves an output's public key to its
	// global index.
	GetTxOutIndexByPublicKey(ctx context.Context, publicKey cryptonote.PublicKey) (uint64, error)

	// ContainsKeyImage reports whether a key image has been spent
	// anywhere in the ledger up to the current height.
	ContainsKeyImage(ctx context.Context, keyImage cryptonote.KeyImage) (bool, error)
}
