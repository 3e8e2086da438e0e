package types

// TxoStatus is the derived state of a Txo, computed from its terminal
// index fields rather than stored directly (see Txo.Status).
type TxoStatus int

const (
	// StatusUnspent: received, not pending, not spent.
	StatusUnspent TxoStatus = iota
	// StatusPending: referenced as an input of a locally-submitted
	// transaction whose key image has not yet appeared on chain.
	StatusPending
	// StatusSpent: key image observed on chain.
	StatusSpent
	// StatusSecreted: minted by this wallet, not yet seen back on chain.
	StatusSecreted
	// StatusOrphaned: received but the destination subaddress is unknown.
	StatusOrphaned
)

func (s TxoStatus) String() string {
	switch s {
	case StatusUnspent:
		return "unspent"
	case StatusPending:
		return "pending"
	case StatusSpent:
		return "spent"
	case StatusSecreted:
		return "secreted"
	case StatusOrphaned:
		return "orphaned"
	default:
		return "unknown"
	}
}

// Txo is a transaction output the wallet has seen and believes belongs to
// one of its tracked accounts.
type Txo struct {
	ID TxoID `storm:"id"`

	PublicKey    []byte
	TargetKey    []byte
	MaskedAmount []byte
	EFogHint     []byte

	Value   Amount
	TokenID TokenID

	AccountID AccountID `storm:"index"`

	// SubaddressIndex is nil when the output is orphaned: decrypted as
	// ours, but the destination subaddress hasn't been assigned yet.
	SubaddressIndex *uint64

	// KeyImage is nil for view-only accounts, which cannot derive it.
	KeyImage []byte `storm:"index"`

	ReceivedBlockIndex uint64 `storm:"index"`

	// SpentBlockIndex is set once the key image is observed on chain.
	SpentBlockIndex *uint64

	// PendingTombstoneBlockIndex is the tombstone of a transaction this
	// wallet has submitted spending this Txo; nil when the Txo is not
	// currently referenced as an input of any pending transaction.
	PendingTombstoneBlockIndex *uint64

	// Secreted marks a Txo minted by this wallet (a submitted payload or
	// change output) that the scan engine has not yet observed on chain.
	// The engine clears it the moment the Txo is (re-)created via its
	// normal receive path.
	Secreted bool
}

// Status derives the Txo's lifecycle state from its terminal index fields,
// per spec.md §3's invariant that exactly one of
// {unspent,pending,spent,orphaned,secreted} holds at any time.
func (t Txo) Status() TxoStatus {
	switch {
	case t.SpentBlockIndex != nil:
		return StatusSpent
	case t.Secreted:
		return StatusSecreted
	case t.SubaddressIndex == nil:
		return StatusOrphaned
	case t.PendingTombstoneBlockIndex != nil:
		return StatusPending
	default:
		return StatusUnspent
	}
}
