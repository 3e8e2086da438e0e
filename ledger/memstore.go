package ledger

import (
	"context"
	"sync"

	"github.com/shieldwallet/walletd/cryptonote"
)

// MemStore is an in-memory Store, grounded on original_source's
// test_utils ledger-building helpers (get_test_ledger /
// add_block_to_ledger_db): a reference implementation for tests and for
// exercising the scan engine without a real ledger service.
type MemStore struct {
	mu sync.RWMutex

	blocks        []Block
	txOutByPubKey map[cryptonote.PublicKey]uint64
	txOutsFlat    []cryptonote.TxOut
	spentImages   map[cryptonote.KeyImage]struct{}
}

// NewMemStore returns an empty ledger of height 0.
func NewMemStore() *MemStore {
	return &MemStore{
		txOutByPubKey: make(map[cryptonote.PublicKey]uint64),
		spentImages:   make(map[cryptonote.KeyImage]struct{}),
	}
}

// AddBlock appends a new block with the given outputs and key images,
// returning its index. It is the test-side equivalent of a consensus
// round closing.
func (m *MemStore) AddBlock(txOuts []cryptonote.TxOut, keyImages []cryptonote.KeyImage) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := uint64(len(m.blocks))
	m.blocks = append(m.blocks, Block{Index: index, TxOuts: txOuts, KeyImages: keyImages})

	for _, txOut := range txOuts {
		globalIndex := uint64(len(m.txOutsFlat))
		m.txOutsFlat = append(m.txOutsFlat, txOut)
		m.txOutByPubKey[txOut.PublicKey] = globalIndex
	}
	for _, ki := range keyImages {
		m.spentImages[ki] = struct{}{}
	}
	return index
}

func (m *MemStore) NumBlocks(ctx context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.blocks)), nil
}

func (m *MemStore) GetBlockContents(ctx context.Context, blockIndex uint64) (Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if blockIndex >= uint64(len(m.blocks)) {
		return Block{}, ErrNotFound
	}
	return m.blocks[blockIndex], nil
}

func (m *MemStore) GetTxOutByIndex(ctx context.Context, globalIndex uint64) (cryptonote.TxOut, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if globalIndex >= uint64(len(m.txOutsFlat)) {
		return cryptonote.TxOut{}, ErrNotFound
	}
	return m.txOutsFlat[globalIndex], nil
}

func (m *MemStore) GetTxOutIndexByPublicKey(ctx context.Context, publicKey cryptonote.PublicKey) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.txOutByPubKey[publicKey]
	if !ok {
		return 0, ErrNotFound
	}
	return idx, nil
}

func (m *MemStore) ContainsKeyImage(ctx context.Context, keyImage cryptonote.KeyImage) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.spentImages[keyImage]
	return ok, nil
}

var _ Store = (*MemStore)(nil)
