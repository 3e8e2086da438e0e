package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shieldwallet/walletd/persist"
	"github.com/shieldwallet/walletd/walletdb"
)

func newTestAPI(t *testing.T) (*API, *walletdb.DB) {
	t.Helper()
	log, err := persist.NewFileLogger("rpc-test", filepath.Join(t.TempDir(), "test.log"), false)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })

	db, err := walletdb.Open(t.TempDir(), log)
	if err != nil {
		t.Fatalf("walletdb.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return New(db, log), db
}

func doRequest(t *testing.T, api *API, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetAccount(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doRequest(t, api, http.MethodPost, "/v1/accounts", AccountCreatePOST{
		AccountKey: []byte("key-material"),
		ViewOnly:   false,
		Name:       "primary",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var created AccountGET
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Name != "primary" {
		t.Fatalf("got name %q, want primary", created.Name)
	}

	rec = doRequest(t, api, http.MethodGet, "/v1/accounts/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var fetched AccountGET
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("got id %v, want %v", fetched.ID, created.ID)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	api, _ := newTestAPI(t)
	zeroID := strings.Repeat("00", 32)
	rec := doRequest(t, api, http.MethodGet, "/v1/accounts/"+zeroID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestGetAccountInvalidID(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doRequest(t, api, http.MethodGet, "/v1/accounts/not-hex", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestListAccounts(t *testing.T) {
	api, _ := newTestAPI(t)
	doRequest(t, api, http.MethodPost, "/v1/accounts", AccountCreatePOST{AccountKey: []byte("a"), Name: "a"})
	doRequest(t, api, http.MethodPost, "/v1/accounts", AccountCreatePOST{AccountKey: []byte("b"), Name: "b"})

	rec := doRequest(t, api, http.MethodGet, "/v1/accounts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	var list AccountsGET
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list.Accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(list.Accounts))
	}
}

func TestRenameRewindDeleteAccount(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doRequest(t, api, http.MethodPost, "/v1/accounts", AccountCreatePOST{AccountKey: []byte("k"), Name: "orig"})
	var created AccountGET
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rec = doRequest(t, api, http.MethodPost, "/v1/accounts/"+created.ID.String()+"/rename", AccountRenamePOST{Name: "renamed"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rename: got status %d, want 204", rec.Code)
	}
	rec = doRequest(t, api, http.MethodGet, "/v1/accounts/"+created.ID.String(), nil)
	var fetched AccountGET
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fetched.Name != "renamed" {
		t.Fatalf("got name %q, want renamed", fetched.Name)
	}

	rec = doRequest(t, api, http.MethodPost, "/v1/accounts/"+created.ID.String()+"/rewind", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rewind: got status %d, want 204", rec.Code)
	}

	rec = doRequest(t, api, http.MethodDelete, "/v1/accounts/"+created.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: got status %d, want 204", rec.Code)
	}
	rec = doRequest(t, api, http.MethodGet, "/v1/accounts/"+created.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d after delete, want 404", rec.Code)
	}
}

func TestGetBalanceEmptyAccount(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doRequest(t, api, http.MethodPost, "/v1/accounts", AccountCreatePOST{AccountKey: []byte("k"), Name: "n"})
	var created AccountGET
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rec = doRequest(t, api, http.MethodGet, "/v1/accounts/"+created.ID.String()+"/balance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var balance BalanceGET
	if err := json.Unmarshal(rec.Body.Bytes(), &balance); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(balance.Balances) != 0 {
		t.Fatalf("got %d balances, want 0 for a fresh account", len(balance.Balances))
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doRequest(t, api, http.MethodGet, "/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}
