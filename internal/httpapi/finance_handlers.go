package httpapi

import (
	"net/http"
	"strings"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

func (a *API) handleTransactionsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTransactions(w, r)
	case http.MethodPost:
		a.createTransaction(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTransactionResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(strings.TrimPrefix(r.URL.Path, "/v1/transactions/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getTransaction(w, r, id)
	case http.MethodPut:
		a.updateTransaction(w, r, id)
	case http.MethodDelete:
		a.deleteTransaction(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listTransactions(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermFinanceModule, auth.PermManageTransactions)
	if !ok {
		return
	}
	list, err := a.portal.ListTransactions(r.Context(), p, 0)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) createTransaction(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageTransactions)
	if !ok {
		return
	}
	var in portal.CreateTransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := a.portal.CreateTransaction(r.Context(), p, in)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "transaction.create", "transaction", tx.ID, nil, tx)
	respond(w, http.StatusCreated, tx)
}

func (a *API) getTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermFinanceModule, auth.PermManageTransactions)
	if !ok {
		return
	}
	tx, err := a.portal.GetTransaction(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, tx)
}

func (a *API) updateTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageTransactions)
	if !ok {
		return
	}
	var patch portal.TransactionPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	old, updated, err := a.portal.UpdateTransaction(r.Context(), p, id, patch)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "transaction.update", "transaction", id, old, updated)
	respond(w, http.StatusOK, updated)
}

func (a *API) deleteTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageTransactions)
	if !ok {
		return
	}
	old, err := a.portal.DeleteTransaction(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "transaction.delete", "transaction", id, old, nil)
	respondMessage(w, http.StatusOK, "Transaction deleted successfully")
}
