package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shieldwallet/walletd/types"
)

// BalanceGET is the response for GET /v1/accounts/:id/balance: the sum of
// every unspent Txo's value, per token ID.
type BalanceGET struct {
	Balances map[types.TokenID]types.Amount `json:"balances"`
}

func (a *API) getBalance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseAccountID(w, ps)
	if !ok {
		return
	}
	balances, err := a.wallet.AccountBalance(id)
	if err != nil {
		writeError(w, Error{err.Error()}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, BalanceGET{Balances: balances})
}

// TxoGET is the JSON shape of a single Txo.
type TxoGET struct {
	ID                 types.TxoID   `json:"id"`
	Value              types.Amount  `json:"value"`
	TokenID            types.TokenID `json:"token_id"`
	Status             string        `json:"status"`
	ReceivedBlockIndex uint64        `json:"received_block_index"`
	SpentBlockIndex    *uint64       `json:"spent_block_index,omitempty"`
	SubaddressIndex    *uint64       `json:"subaddress_index,omitempty"`
}

func txoToGET(t types.Txo) TxoGET {
	return TxoGET{
		ID:                 t.ID,
		Value:              t.Value,
		TokenID:            t.TokenID,
		Status:             t.Status().String(),
		ReceivedBlockIndex: t.ReceivedBlockIndex,
		SpentBlockIndex:    t.SpentBlockIndex,
		SubaddressIndex:    t.SubaddressIndex,
	}
}

// TxosGET is the list response for GET /v1/accounts/:id/txos.
type TxosGET struct {
	Txos []TxoGET `json:"txos"`
}

func (a *API) listTxos(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseAccountID(w, ps)
	if !ok {
		return
	}
	txos, err := a.wallet.ListTxosForAccount(id)
	if err != nil {
		writeError(w, Error{err.Error()}, http.StatusInternalServerError)
		return
	}
	out := make([]TxoGET, 0, len(txos))
	for _, t := range txos {
		out = append(out, txoToGET(t))
	}
	writeJSON(w, TxosGET{Txos: out})
}

// TransactionLogGET is the JSON shape of a single TransactionLog.
type TransactionLogGET struct {
	ID                  string        `json:"id"`
	InputTxoIDs         []types.TxoID `json:"input_txo_ids"`
	OutputTxoIDs        []types.TxoID `json:"output_txo_ids"`
	SubmittedBlockIndex uint64        `json:"submitted_block_index"`
	TombstoneBlockIndex uint64        `json:"tombstone_block_index"`
	Status              string        `json:"status"`
}

func transactionLogToGET(l types.TransactionLog) TransactionLogGET {
	return TransactionLogGET{
		ID:                  l.ID,
		InputTxoIDs:         l.InputTxoIDs,
		OutputTxoIDs:        l.OutputTxoIDs,
		SubmittedBlockIndex: l.SubmittedBlockIndex,
		TombstoneBlockIndex: l.TombstoneBlockIndex,
		Status:              l.Status.String(),
	}
}

// TransactionLogsGET is the list response for
// GET /v1/accounts/:id/transactions.
type TransactionLogsGET struct {
	TransactionLogs []TransactionLogGET `json:"transaction_logs"`
}

func (a *API) listTransactionLogs(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseAccountID(w, ps)
	if !ok {
		return
	}
	logs, err := a.wallet.ListTransactionLogs(id)
	if err != nil {
		writeError(w, Error{err.Error()}, http.StatusInternalServerError)
		return
	}
	out := make([]TransactionLogGET, 0, len(logs))
	for _, l := range logs {
		out = append(out, transactionLogToGET(l))
	}
	writeJSON(w, TransactionLogsGET{TransactionLogs: out})
}
