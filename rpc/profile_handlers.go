package rpc

import (
	"net/http"
)

type profileUpsertParams struct {
	Caller          string `json:"caller"`
	UserID          string `json:"userId,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	PreferredStore  string `json:"preferredStore,omitempty"`
}

func (s *Server) handleProfileCreateOrUpdate(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params profileUpsertParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	var preferred [32]byte
	if params.PreferredStore != "" {
		preferred, err = parseHash(params.PreferredStore)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	record, err := s.engines.Profiles.CreateOrUpdate(caller, params.UserID, params.DeliveryAddress, preferred)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, newProfileResult(record))
}

type profileQueryParams struct {
	Address string `json:"address"`
}

func (s *Server) handleProfileGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params profileQueryParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	record, err := s.engines.Profiles.Get(addr)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, newProfileResult(record))
}
