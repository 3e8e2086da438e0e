// Package rpc is the read/admin facade SPEC_FULL.md §4.4-4.5 add on top
// of the otherwise-external Service Facade spec.md treats as out of
// scope: a small httprouter-based JSON API exposing the wallet store's
// read operations and the account-admin operations spec.md's
// supplemented scope calls for. Grounded on the teacher's api package
// (api/api.go's WriteJSON/WriteError, api/wallet.go's GET-struct naming
// convention) and pkg/api/router.go's Router interface.
package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shieldwallet/walletd/persist"
	"github.com/shieldwallet/walletd/walletdb"
)

// Error is the JSON shape of an API error response.
type Error struct {
	Message string `json:"message"`
}

func (e Error) Error() string { return e.Message }

// API wires the wallet store into an httprouter.Router.
type API struct {
	wallet *walletdb.DB
	log    *persist.Logger
	router *httprouter.Router
}

// New builds an API and registers every route.
func New(wallet *walletdb.DB, log *persist.Logger) *API {
	a := &API{wallet: wallet, log: log, router: httprouter.New()}

	a.router.GET("/v1/accounts", a.listAccounts)
	a.router.POST("/v1/accounts", a.createAccount)
	a.router.GET("/v1/accounts/:id", a.getAccount)
	a.router.POST("/v1/accounts/:id/rewind", a.rewindAccount)
	a.router.POST("/v1/accounts/:id/rename", a.renameAccount)
	a.router.DELETE("/v1/accounts/:id", a.deleteAccount)
	a.router.GET("/v1/accounts/:id/balance", a.getBalance)
	a.router.GET("/v1/accounts/:id/txos", a.listTxos)
	a.router.GET("/v1/accounts/:id/transactions", a.listTransactionLogs)

	a.router.NotFound = http.HandlerFunc(notFoundHandler)
	return a
}

// ServeHTTP makes API itself an http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, Error{"404 - no such route"}, http.StatusNotFound)
}

// writeJSON writes obj to w as a JSON response. If the encoding fails, an
// error is written instead, matching the teacher's WriteJSON.
func writeJSON(w http.ResponseWriter, obj interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if json.NewEncoder(w).Encode(obj) != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes err to w with the given status code, matching the
// teacher's WriteError.
func writeError(w http.ResponseWriter, err Error, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(err)
}
