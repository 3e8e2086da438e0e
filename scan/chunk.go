package scan

import (
	"context"
	"time"

	"github.com/shieldwallet/walletd/build"
	"github.com/shieldwallet/walletd/cryptonote"
	"github.com/shieldwallet/walletd/types"
	"github.com/shieldwallet/walletd/walletdb"
)

type blockTxOut struct {
	blockIndex uint64
	txOut      cryptonote.TxOut
}

type blockKeyImage struct {
	blockIndex uint64
	keyImage   cryptonote.KeyImage
}

type decodedTxo struct {
	blockIndex uint64
	txOut      cryptonote.TxOut
	value      uint64
	tokenID    types.TokenID
}

// syncAccountNextChunk is sync_account_next_chunk: it reads up to
// ChunkSize blocks starting at the account's current cursor, trial-
// decrypts every output in parallel, resolves subaddresses and key
// images, and commits the whole chunk's worth of Txo/TransactionLog
// updates plus the advanced cursor in a single exclusive transaction. It
// returns the number of Txos received this chunk.
func (e *Engine) syncAccountNextChunk(ctx context.Context, account types.Account) (int, error) {
	start := time.Now()
	startBlockIndex := account.NextBlockIndex

	var txOuts []blockTxOut
	var keyImages []blockKeyImage
	haveBlocks := false
	endBlockIndex := startBlockIndex

	for blockIndex := startBlockIndex; blockIndex < startBlockIndex+ChunkSize; blockIndex++ {
		block, err := e.ledger.GetBlockContents(ctx, blockIndex)
		if err != nil {
			break
		}
		haveBlocks = true
		endBlockIndex = blockIndex
		for _, txOut := range block.TxOuts {
			txOuts = append(txOuts, blockTxOut{blockIndex, txOut})
		}
		for _, ki := range block.KeyImages {
			keyImages = append(keyImages, blockKeyImage{blockIndex, ki})
		}
	}
	if !haveBlocks {
		return 0, nil
	}

	viewPriv, spendPriv, err := decodeAccountKey(account)
	if err != nil {
		return 0, err
	}

	decoded := e.decryptChunk(txOuts, viewPriv)

	numReceived := 0
	err = e.wallet.ExclusiveTransaction(func(tx *walletdb.Tx) error {
		for _, d := range decoded {
			subaddressIndex, onetimePriv, keyImage, orphaned := e.resolveSubaddress(tx, d, viewPriv, spendPriv, account.ViewOnly)

			txo := types.Txo{
				ID:                 types.NewTxoID(d.txOut.PublicKey.Bytes(), d.txOut.TargetKey.Bytes(), d.txOut.MaskedAmount, d.txOut.EFogHint),
				PublicKey:          d.txOut.PublicKey.Bytes(),
				TargetKey:          d.txOut.TargetKey.Bytes(),
				MaskedAmount:       d.txOut.MaskedAmount,
				EFogHint:           d.txOut.EFogHint,
				Value:              types.NewAmountFromUint64(d.value),
				TokenID:            d.tokenID,
				AccountID:          account.ID,
				ReceivedBlockIndex: d.blockIndex,
			}
			if !orphaned {
				idx := subaddressIndex
				txo.SubaddressIndex = &idx
			}
			if keyImage != nil {
				txo.KeyImage = keyImage.Bytes()
			}
			_ = onetimePriv

			if err := tx.CreateReceived(txo); err != nil {
				return err
			}
			numReceived++
		}

		unspent, err := tx.ListUnspentOrPendingKeyImages(account.ID)
		if err != nil {
			return err
		}
		for _, bki := range keyImages {
			txoID, ok := unspent[bki.keyImage]
			if !ok {
				continue
			}
			if err := tx.UpdateSpentBlockIndex(txoID, bki.blockIndex); err != nil {
				// unspent was read from this same transaction a moment
				// ago; txoID disappearing before we write it back would
				// mean the store's own invariants broke mid-chunk.
				build.Severe("txo vanished mid-chunk", txoID.String(), err)
				return err
			}
			if err := tx.UpdatePendingAssociatedWithTxoToSucceeded(txoID, bki.blockIndex); err != nil {
				return err
			}
		}

		if err := tx.UpdatePendingExceedingTombstoneBlockIndexToFailed(endBlockIndex + 1); err != nil {
			return err
		}

		return tx.UpdateNextBlockIndex(account.ID, endBlockIndex+1)
	})
	if err != nil {
		return 0, err
	}

	e.log.WithField("account", account.ID.String()).
		WithField("blocks", endBlockIndex-startBlockIndex+1).
		WithField("received", numReceived).
		WithField("duration", time.Since(start)).
		Debug("synced chunk")

	return numReceived, nil
}
