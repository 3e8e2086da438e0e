package ledger

import (
	"context"
	"testing"

	"github.com/shieldwallet/walletd/cryptonote"
)

func TestMemStoreAddBlockAndQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if n, err := store.NumBlocks(ctx); err != nil || n != 0 {
		t.Fatalf("got NumBlocks %d, %v; want 0, nil", n, err)
	}

	_, pub, err := cryptonote.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	out := cryptonote.TxOut{PublicKey: pub, TargetKey: pub, MaskedAmount: []byte("masked")}
	ki := cryptonote.KeyImage{0x1}

	idx := store.AddBlock([]cryptonote.TxOut{out}, []cryptonote.KeyImage{ki})
	if idx != 0 {
		t.Fatalf("got block index %d, want 0", idx)
	}

	n, err := store.NumBlocks(ctx)
	if err != nil || n != 1 {
		t.Fatalf("got NumBlocks %d, %v; want 1, nil", n, err)
	}

	block, err := store.GetBlockContents(ctx, 0)
	if err != nil {
		t.Fatalf("GetBlockContents: %v", err)
	}
	if len(block.TxOuts) != 1 || block.TxOuts[0].PublicKey != pub {
		t.Fatalf("got block %+v, want one txo with public key %x", block, pub)
	}

	globalIdx, err := store.GetTxOutIndexByPublicKey(ctx, pub)
	if err != nil {
		t.Fatalf("GetTxOutIndexByPublicKey: %v", err)
	}
	got, err := store.GetTxOutByIndex(ctx, globalIdx)
	if err != nil {
		t.Fatalf("GetTxOutByIndex: %v", err)
	}
	if got.PublicKey != pub {
		t.Fatalf("got txo %+v, want public key %x", got, pub)
	}

	spent, err := store.ContainsKeyImage(ctx, ki)
	if err != nil || !spent {
		t.Fatalf("got ContainsKeyImage %v, %v; want true, nil", spent, err)
	}

	unknownKi := cryptonote.KeyImage{0xff}
	spent, err = store.ContainsKeyImage(ctx, unknownKi)
	if err != nil || spent {
		t.Fatalf("got ContainsKeyImage %v, %v; want false, nil", spent, err)
	}
}

func TestMemStoreOutOfRangeReturnsErrNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if _, err := store.GetBlockContents(ctx, 0); err != ErrNotFound {
		t.Fatalf("got err %v, want ErrNotFound", err)
	}
	if _, err := store.GetTxOutByIndex(ctx, 0); err != ErrNotFound {
		t.Fatalf("got err %v, want ErrNotFound", err)
	}
	_, pub, err := cryptonote.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if _, err := store.GetTxOutIndexByPublicKey(ctx, pub); err != ErrNotFound {
		t.Fatalf("got err %v, want ErrNotFound", err)
	}
}
