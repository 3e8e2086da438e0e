// Package depositset implements the Webhook Dispatcher's handoff point
// with the scan engine: a small mutex-guarded map of accounts that have
// received a deposit since the dispatcher last drained it, grounded on
// the teacher's mutex-guarded map-mutation pattern in
// modules/wallet/update.go (ProcessConsensusChange's single-writer
// updateConfirmedSet) and on full-service's accounts_with_deposits map
// (sync.rs's WebhookThread::start / sync_all_accounts).
//
// The map deliberately carries a bool, not just membership: false means
// "this account found a new Txo this chunk but hasn't been scanned all
// the way to the current chain tip yet", true means "caught up, and
// ready to be reported". A deposit only fires the webhook once the
// account's scan has actually reached the tip, so a wallet with a long
// backlog doesn't spam partial results.
package depositset

import (
	"sync"

	"github.com/shieldwallet/walletd/types"
)

// Set tracks, per account, whether a pending deposit is ready to report.
type Set struct {
	mu    sync.Mutex
	state map[types.AccountID]bool
}

// New returns an empty Set.
func New() *Set {
	return &Set{state: make(map[types.AccountID]bool)}
}

// InsertNewDeposit registers that accountID found at least one new Txo
// this chunk, without marking it ready - ready only happens once the
// account's scan catches up to the chain tip (MarkCaughtUp). Called by
// the scan engine after it commits a chunk that received at least one Txo.
func (s *Set) InsertNewDeposit(accountID types.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[accountID] = false
}

// MarkCaughtUp flips accountID's entry to ready, if and only if one
// already exists. Per DESIGN.md's resolution of Open Question 1, this
// is a no-op when the account has no entry yet - an account that has
// never found a deposit has nothing to report, and getting an entry only
// when it first finds one (via InsertNewDeposit) is what lets the
// dispatcher distinguish "nothing happened" from "caught up, but still
// waiting to report an earlier deposit".
func (s *Set) MarkCaughtUp(accountID types.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state[accountID]; ok {
		s.state[accountID] = true
	}
}

// DrainReady returns every account currently marked ready and removes
// their entries entirely, atomically. Called by the webhook dispatcher
// on its poll interval; a returned account is only re-added once it
// receives and then catches up on another deposit.
func (s *Set) DrainReady() []types.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.AccountID
	for id, ready := range s.state {
		if ready {
			out = append(out, id)
			delete(s.state, id)
		}
	}
	return out
}
