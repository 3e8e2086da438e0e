package types

import (
	"encoding/json"
	"math/big"
)

// TokenID distinguishes fungible asset types carried by a Txo (the native
// token plus any others the ledger supports).
type TokenID uint64

// Amount is a non-negative token quantity. It wraps math/big.Int rather
// than a fixed-width integer because a single output's value can exceed
// 64 bits once denominated in the smallest unit (see the origin-block test
// scenario in the teacher corpus, which sums to 250,000,000 whole coins in
// picocoin-equivalent units) - the same reasoning behind the teacher's own
// types.Currency wrapping big.Int instead of uint64.
type Amount struct {
	i big.Int
}

// NewAmountFromUint64 builds an Amount from a uint64 value.
func NewAmountFromUint64(v uint64) Amount {
	var a Amount
	a.i.SetUint64(v)
	return a
}

// ZeroAmount is the additive identity.
var ZeroAmount = Amount{}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	var out Amount
	out.i.Add(&a.i, &b.i)
	return out
}

// Cmp compares a to b: -1, 0, or 1.
func (a Amount) Cmp(b Amount) int {
	return a.i.Cmp(&b.i)
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.i.Sign() == 0
}

// String renders the amount in decimal.
func (a Amount) String() string {
	return a.i.String()
}

// Uint64 returns the amount as a uint64. It is only safe to call when the
// caller knows the value fits (e.g. in tests seeding known fixture values).
func (a Amount) Uint64() uint64 {
	return a.i.Uint64()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.i.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	_, ok := a.i.SetString(s, 10)
	if !ok {
		return &json.UnmarshalTypeError{Value: s, Type: nil}
	}
	return nil
}
