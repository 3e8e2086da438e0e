package walletdb

import "errors"

// ErrNotFound is returned by lookups that find no matching record.
var ErrNotFound = errors.New("walletdb: not found")
