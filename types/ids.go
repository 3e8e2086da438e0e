package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// idSize is the width of every content-addressed ID in this package: a
// 32-byte digest, hex-encoded to a 64-character string when it crosses a
// wire or database boundary. This mirrors the teacher's UnlockHash/OutputID
// pattern (types/unlockhash.go) and the original source's AccountID/TxoID
// (src/db.rs), both content digests rather than assigned sequence numbers.
const idSize = 32

// AccountID is the stable identifier of an Account: a content digest (see
// NewAccountID). walletdb.CreateAccount digests the account's encoded
// AccountKey bytes; no main public address is derived for it. It never
// changes for the lifetime of the account.
type AccountID [idSize]byte

// TxoID is the identifier of a Txo: a digest of the output's own bytes.
// Because it is content-derived, replaying the same block produces the
// same TxoID and upserts are naturally idempotent.
type TxoID [idSize]byte

// digest hashes domain||parts... into a 32-byte ID. The domain separates
// AccountIDs from TxoIDs (and from any future content-addressed ID) so that
// no input could collide across the two spaces.
func digest(domain string, parts ...[]byte) [idSize]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(domain))
	for _, p := range parts {
		var lenPrefix [8]byte
		putUint64(lenPrefix[:], uint64(len(p)))
		h.Write(lenPrefix[:])
		h.Write(p)
	}
	var out [idSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// NewAccountID derives the AccountID for a main public address.
func NewAccountID(mainAddressBytes []byte) AccountID {
	return AccountID(digest("account_data", mainAddressBytes))
}

// NewTxoID derives the TxoID from the canonical bytes of a transaction
// output (public key || target key || masked amount || e_fog_hint).
func NewTxoID(publicKey, targetKey, maskedAmount, eFogHint []byte) TxoID {
	return TxoID(digest("txo_data", publicKey, targetKey, maskedAmount, eFogHint))
}

func (id AccountID) String() string { return hex.EncodeToString(id[:]) }
func (id TxoID) String() string     { return hex.EncodeToString(id[:]) }

// IsZero reports whether this is the zero-value ID (never a valid digest
// in practice, used as a sentinel for "no ID").
func (id AccountID) IsZero() bool { return id == AccountID{} }
func (id TxoID) IsZero() bool     { return id == TxoID{} }

func (id AccountID) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }
func (id TxoID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.String()) }

func (id *AccountID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseAccountID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *TxoID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTxoID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ErrInvalidID is returned when a hex string cannot be parsed as an ID of
// the expected width.
var ErrInvalidID = errors.New("types: invalid id")

// ParseAccountID parses a 64-character lowercase hex string into an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	b, err := parseIDHex(s)
	if err != nil {
		return AccountID{}, err
	}
	var id AccountID
	copy(id[:], b)
	return id, nil
}

// ParseTxoID parses a 64-character lowercase hex string into a TxoID.
func ParseTxoID(s string) (TxoID, error) {
	b, err := parseIDHex(s)
	if err != nil {
		return TxoID{}, err
	}
	var id TxoID
	copy(id[:], b)
	return id, nil
}

func parseIDHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidID
	}
	if len(b) != idSize {
		return nil, ErrInvalidID
	}
	return b, nil
}
