// Package scan is the Scan Engine spec.md §2.4 describes: a background
// worker that walks the ledger in chunks, decrypts candidate outputs
// against every tracked account's keys, and transactionally updates the
// wallet store's Txo and TransactionLog state. It is grounded on
// full-service's sync.rs (SyncThread::start / sync_all_accounts /
// sync_account_next_chunk / decode_amount / decode_subaddress_index /
// decode_subaddress_and_key_image), adapted into the teacher's
// goroutine-lifecycle idiom (modules/wallet's threadgroup-guarded
// background loop) instead of a raw OS thread with an atomic stop flag.
package scan

import (
	"context"
	"runtime"
	"time"

	"github.com/JekaMas/workerpool"

	"github.com/shieldwallet/walletd/cryptonote"
	"github.com/shieldwallet/walletd/depositset"
	"github.com/shieldwallet/walletd/ledger"
	"github.com/shieldwallet/walletd/lifecycle"
	"github.com/shieldwallet/walletd/persist"
	"github.com/shieldwallet/walletd/walletdb"
)

// ChunkSize is the number of blocks scanned per account per transaction,
// matching full-service's BLOCKS_CHUNK_SIZE.
const ChunkSize = 1000

// PollInterval is how often the engine re-checks the ledger for new
// blocks once it has caught every tracked account up, matching
// SyncThread::start's 10ms sleep.
const PollInterval = 10 * time.Millisecond

// Engine is the background ledger-scanning worker.
type Engine struct {
	ledger   ledger.Store
	wallet   *walletdb.DB
	kernel   cryptonote.Kernel
	deposits *depositset.Set
	log      *persist.Logger

	pool *workerpool.WorkerPool
	tg   *lifecycle.Group
}

// New constructs an Engine. The caller owns starting and stopping it via
// Run/Stop.
func New(store ledger.Store, wallet *walletdb.DB, kernel cryptonote.Kernel, deposits *depositset.Set, log *persist.Logger) *Engine {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		ledger:   store,
		wallet:   wallet,
		kernel:   kernel,
		deposits: deposits,
		log:      log,
		pool:     workerpool.New(workers),
		tg:       lifecycle.NewGroup(),
	}
}

// Run blocks, polling the ledger and syncing every tracked account, until
// ctx is canceled or Stop is called. It is meant to be run in its own
// goroutine.
func (e *Engine) Run(ctx context.Context) {
	defer e.tg.Done()
	e.log.Info("scan engine started")
	defer e.log.Info("scan engine stopped")

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.tg.StopChan():
			return
		case <-ticker.C:
			if err := e.syncAllAccounts(ctx); err != nil {
				e.log.WithError(err).Error("error during account sync")
			}
		}
	}
}

// Stop signals Run to return and waits for it to finish, then releases
// the worker pool.
func (e *Engine) Stop() {
	e.tg.Stop()
	e.pool.StopWait()
}

// syncAllAccounts is sync_all_accounts: once per poll, every tracked
// account either advances one chunk or, if it has no more blocks to
// consume, gets its deposit-set entry flipped ready and its Resyncing
// flag cleared.
func (e *Engine) syncAllAccounts(ctx context.Context) error {
	numBlocks, err := e.ledger.NumBlocks(ctx)
	if err != nil {
		return err
	}
	if numBlocks == 0 {
		return nil
	}

	accounts, err := e.wallet.ListAccounts()
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if account.NextBlockIndex > numBlocks-1 {
			e.deposits.MarkCaughtUp(account.ID)
			if account.Resyncing {
				if err := e.wallet.ExclusiveTransaction(func(tx *walletdb.Tx) error {
					return tx.UpdateNextBlockIndex(account.ID, account.NextBlockIndex)
				}); err != nil {
					return err
				}
			}
			continue
		}

		found, err := e.syncAccountNextChunk(ctx, account)
		if err != nil {
			e.log.WithError(err).WithField("account", account.ID.String()).Error("error syncing account chunk")
			continue
		}
		if found > 0 {
			e.deposits.InsertNewDeposit(account.ID)
		}
	}
	return nil
}
