package rpc

import (
	"net/http"

	"commercechain/native/loyalty"
)

type initializeMintParams struct {
	Caller         string `json:"caller"`
	StoreID        string `json:"storeId"`
	PointsPerUnit  uint64 `json:"pointsPerUnit"`
	RedemptionRate uint64 `json:"redemptionRate"`
}

func (s *Server) handleLoyaltyInitializeMint(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params initializeMintParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	mint, err := s.engines.Loyalty.InitializeMint(caller, storeID, params.PointsPerUnit, params.RedemptionRate)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, newMintResult(mint))
}

type mintQueryParams struct {
	StoreID string `json:"storeId"`
}

func (s *Server) handleLoyaltyGetMint(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params mintQueryParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	mint, ok := s.engines.Loyalty.Mint(storeID)
	if !ok {
		writeEngineError(w, req.ID, loyalty.ErrMintNotFound)
		return
	}
	writeResult(w, req.ID, newMintResult(mint))
}

type loyaltyIssueParams struct {
	StoreID       string `json:"storeId"`
	Buyer         string `json:"buyer"`
	PurchaseValue uint64 `json:"purchaseValue"`
}

func (s *Server) handleLoyaltyIssue(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params loyaltyIssueParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	buyer, err := parseAddress(params.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	points, err := s.engines.Loyalty.Issue(storeID, buyer, params.PurchaseValue)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"points": points})
}

type loyaltyRedeemParams struct {
	StoreID     string `json:"storeId"`
	Redeemer    string `json:"redeemer"`
	Points      uint64 `json:"points"`
	ForCurrency bool   `json:"forCurrency,omitempty"`
}

func (s *Server) handleLoyaltyRedeem(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params loyaltyRedeemParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	redeemer, err := parseAddress(params.Redeemer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	value, err := s.engines.Loyalty.Redeem(storeID, redeemer, params.Points, params.ForCurrency)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"points": params.Points, "value": value})
}

type loyaltyBalanceParams struct {
	StoreID string `json:"storeId"`
	Address string `json:"address"`
}

func (s *Server) handleLoyaltyBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params loyaltyBalanceParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	balance, err := s.engines.State.PointsBalance(storeID, addr)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"balance": balance})
}
