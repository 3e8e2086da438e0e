package types

import "time"

// Account is a tracked wallet account: either a full spend-capable account
// or a view-only account (account_key holding just a view key). The scan
// engine only ever reads AccountKey/ViewOnly to drive trial decryption and
// writes NextBlockIndex/Resyncing; every other field is admin-surface
// bookkeeping (name, creation time) that a real account service needs but
// the engine itself never touches.
type Account struct {
	ID AccountID `storm:"id"`

	// AccountKey is the opaque, encoded account key envelope. Its contents
	// depend on ViewOnly: a full AccountKey when ViewOnly is false, or just
	// a ViewAccountKey when true. Decoding it is the scan package's job
	// (scan.EncodeFullAccountKey / EncodeViewOnlyAccountKey define the
	// layout), not this package's.
	AccountKey []byte
	ViewOnly   bool

	FirstBlockIndex uint64
	NextBlockIndex  uint64 `storm:"index"`
	Resyncing       bool

	Name      string
	CreatedAt time.Time
}

// AssignedSubaddress is a subaddress the account service has generated and
// registered for an account. The scan engine only reads these, keyed by
// the reverse lookup on SubaddressSpendPublicKey, to resolve which
// subaddress (if any) received a given output.
type AssignedSubaddress struct {
	// ID is AccountID||SubaddressIndex, giving the (account_id,
	// subaddress_index) uniqueness spec.md requires without storm's
	// single-field unique index support.
	ID              string `storm:"id"`
	AccountID       AccountID `storm:"index"`
	SubaddressIndex uint64

	// SubaddressSpendPublicKey is the unique reverse-lookup key: recovering
	// this key from a Txo and finding it here is how the scan engine learns
	// which subaddress (and thus which account) received the output.
	SubaddressSpendPublicKey []byte `storm:"unique"`

	B58Address string
	Comment    string // e.g. "Main" or "Change" - supplemental, from original_source/full-service/src/db.rs
}

// SubaddressKey builds the composite ID for an AssignedSubaddress.
func SubaddressKey(accountID AccountID, subaddressIndex uint64) string {
	b := make([]byte, 0, idSize+8)
	b = append(b, accountID[:]...)
	var idxBytes [8]byte
	putUint64(idxBytes[:], subaddressIndex)
	b = append(b, idxBytes[:]...)
	return string(b)
}
