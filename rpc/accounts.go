package rpc

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/shieldwallet/walletd/types"
	"github.com/shieldwallet/walletd/walletdb"
)

// AccountGET is the JSON shape of a tracked account, as returned by
// GET /v1/accounts and GET /v1/accounts/:id.
type AccountGET struct {
	ID              types.AccountID `json:"id"`
	ViewOnly        bool            `json:"view_only"`
	FirstBlockIndex uint64          `json:"first_block_index"`
	NextBlockIndex  uint64          `json:"next_block_index"`
	Resyncing       bool            `json:"resyncing"`
	Name            string          `json:"name"`
	CreatedAt       time.Time       `json:"created_at"`
}

func accountToGET(a types.Account) AccountGET {
	return AccountGET{
		ID:              a.ID,
		ViewOnly:        a.ViewOnly,
		FirstBlockIndex: a.FirstBlockIndex,
		NextBlockIndex:  a.NextBlockIndex,
		Resyncing:       a.Resyncing,
		Name:            a.Name,
		CreatedAt:       a.CreatedAt,
	}
}

// AccountsGET is the list response for GET /v1/accounts.
type AccountsGET struct {
	Accounts []AccountGET `json:"accounts"`
}

func (a *API) listAccounts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	accounts, err := a.wallet.ListAccounts()
	if err != nil {
		writeError(w, Error{err.Error()}, http.StatusInternalServerError)
		return
	}
	out := make([]AccountGET, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, accountToGET(acc))
	}
	writeJSON(w, AccountsGET{Accounts: out})
}

func (a *API) getAccount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseAccountID(w, ps)
	if !ok {
		return
	}
	acc, err := a.wallet.GetAccount(id)
	if err != nil {
		writeAccountLookupError(w, err)
		return
	}
	writeJSON(w, accountToGET(acc))
}

// AccountCreatePOST is the request body for POST /v1/accounts.
type AccountCreatePOST struct {
	AccountKey      []byte `json:"account_key"`
	ViewOnly        bool   `json:"view_only"`
	FirstBlockIndex uint64 `json:"first_block_index"`
	Name            string `json:"name"`
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req AccountCreatePOST
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, Error{"invalid request body: " + err.Error()}, http.StatusBadRequest)
		return
	}
	acc, err := a.wallet.CreateAccount(req.AccountKey, req.ViewOnly, req.FirstBlockIndex, req.Name)
	if err != nil {
		writeError(w, Error{err.Error()}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, accountToGET(acc))
}

// AccountRenamePOST is the request body for POST /v1/accounts/:id/rename.
type AccountRenamePOST struct {
	Name string `json:"name"`
}

func (a *API) renameAccount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseAccountID(w, ps)
	if !ok {
		return
	}
	var req AccountRenamePOST
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, Error{"invalid request body: " + err.Error()}, http.StatusBadRequest)
		return
	}
	if err := a.wallet.RenameAccount(id, req.Name); err != nil {
		writeAccountLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteAccount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseAccountID(w, ps)
	if !ok {
		return
	}
	if err := a.wallet.DeleteAccount(id); err != nil {
		writeAccountLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) rewindAccount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseAccountID(w, ps)
	if !ok {
		return
	}
	if err := a.wallet.RewindAccount(id); err != nil {
		writeAccountLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseAccountID(w http.ResponseWriter, ps httprouter.Params) (types.AccountID, bool) {
	id, err := types.ParseAccountID(ps.ByName("id"))
	if err != nil {
		writeError(w, Error{"invalid account id"}, http.StatusBadRequest)
		return types.AccountID{}, false
	}
	return id, true
}

func writeAccountLookupError(w http.ResponseWriter, err error) {
	if err == walletdb.ErrNotFound {
		writeError(w, Error{"no such account"}, http.StatusNotFound)
		return
	}
	writeError(w, Error{err.Error()}, http.StatusInternalServerError)
}
