package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shieldwallet/walletd/depositset"
	"github.com/shieldwallet/walletd/persist"
	"github.com/shieldwallet/walletd/types"
)

func newTestLogger(t *testing.T) *persist.Logger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	log, err := persist.NewFileLogger("webhook-test", path, false)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestDispatcherFiresOnReadyDeposit(t *testing.T) {
	var mu sync.Mutex
	var received payload
	gotRequest := make(chan struct{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&received)
		select {
		case gotRequest <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	deposits := depositset.New()
	accountID := types.NewAccountID([]byte("test-account"))
	deposits.InsertNewDeposit(accountID)
	deposits.MarkCaughtUp(accountID)

	d := New(srv.URL, deposits, NewRestartFlag(false), newTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go d.Run(ctx)
	defer d.Stop()

	select {
	case <-gotRequest:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for webhook request")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received.Accounts) != 1 || received.Accounts[0] != accountID {
		t.Fatalf("got accounts %v, want [%v]", received.Accounts, accountID)
	}
}

func TestDispatcherSkipsWhenNothingReady(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := New(srv.URL, depositset.New(), NewRestartFlag(false), newTestLogger(t))
	d.fireIfReady(context.Background())

	if called {
		t.Fatal("expected no request when the deposit set is empty")
	}
}
