package walletdb

import (
	"path/filepath"
	"testing"

	"github.com/shieldwallet/walletd/persist"
)

func newTestLogger(t *testing.T) *persist.Logger {
	t.Helper()
	log, err := persist.NewFileLogger("walletdb-test", filepath.Join(t.TempDir(), "test.log"), false)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir(), newTestLogger(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
