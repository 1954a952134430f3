package rpc

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type purchaseCartParams struct {
	Buyer          string   `json:"buyer"`
	StoreID        string   `json:"storeId"`
	ProductIDs     []string `json:"productIds"`
	Quantities     []uint64 `json:"quantities"`
	AmountTendered uint64   `json:"amountTendered"`
	GasFee         uint64   `json:"gasFee,omitempty"`
}

func (s *Server) handleCheckoutPurchaseCart(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params purchaseCartParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	buyer, err := parseAddress(params.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	productIDs := make([]uuid.UUID, len(params.ProductIDs))
	for i, raw := range params.ProductIDs {
		productIDs[i], err = parseProductID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	receipt, err := s.engines.Checkout.PurchaseCart(buyer, storeID, productIDs, params.Quantities, params.AmountTendered, params.GasFee)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	if s.engines.Profiles != nil {
		// Best effort counter bump; the settlement already committed.
		if err := s.engines.Profiles.RecordPurchase(buyer); err != nil {
			slog.Debug("purchase counter not recorded", "buyer", params.Buyer, "err", err)
		}
	}
	writeResult(w, req.ID, newReceiptResult(receipt))
}

type receiptQueryParams struct {
	ID string `json:"id"`
}

func (s *Server) handleCheckoutGetReceipt(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params receiptQueryParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := parseHash(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	record, ok := s.engines.State.ReceiptGet(id)
	if !ok {
		writeError(w, http.StatusOK, req.ID, codeServerError, "receipt not found", nil)
		return
	}
	writeResult(w, req.ID, newReceiptResult(record))
}

type balanceQueryParams struct {
	Address string `json:"address"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params balanceQueryParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	account, err := s.engines.State.GetAccount(addr)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{
		"address": formatAddress(addr),
		"balance": account.Balance.String(),
		"nonce":   account.Nonce,
	})
}
