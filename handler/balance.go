package handler

import (
	"net/http"

	"hushhly/middleware"
	"hushhly/model"
)

const defaultTransactionLimit = 20

// GetBalance handles GET /api/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	bal, err := h.Balance.GetUserBalance(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to load balance")
		return
	}

	SendJSONSuccess(w, http.StatusOK, bal)
}

// AddBalance handles POST /api/balance/add
func (h *Handler) AddBalance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.BalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Balance.AddBalance(ctx, middleware.GetUserID(r), req.Amount, req.Description, req.PaymentMethod)
	if err != nil {
		sendServiceError(w, r, err, "Failed to add balance")
		return
	}

	sendBalanceResult(w, res)
}

// DeductBalance handles POST /api/balance/deduct
func (h *Handler) DeductBalance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.BalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Balance.DeductBalance(ctx, middleware.GetUserID(r), req.Amount, req.Description)
	if err != nil {
		sendServiceError(w, r, err, "Failed to deduct balance")
		return
	}

	sendBalanceResult(w, res)
}

// Transactions handles GET /api/balance/transactions?limit=
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	limit, err := queryInt(r, "limit", defaultTransactionLimit)
	if err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Limit must be a non-negative number")
		return
	}

	txs, err := h.Balance.GetTransactions(ctx, middleware.GetUserID(r), limit)
	if err != nil {
		sendServiceError(w, r, err, "Failed to load transactions")
		return
	}

	SendJSONSuccess(w, http.StatusOK, txs)
}

// sendBalanceResult answers 402 for rejected mutations, keeping the result body
func sendBalanceResult(w http.ResponseWriter, res model.BalanceResult) {
	if !res.Success {
		SendJSONSuccess(w, http.StatusPaymentRequired, res)
		return
	}
	SendJSONSuccess(w, http.StatusOK, res)
}
