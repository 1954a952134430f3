package rpc

import (
	"net/http"

	"commercechain/native/store"
)

type storeRegisterParams struct {
	Owner          string `json:"owner"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	LogoURI        string `json:"logoUri,omitempty"`
	PointsPerUnit  uint64 `json:"pointsPerUnit,omitempty"`
	RedemptionRate uint64 `json:"redemptionRate,omitempty"`
}

func (s *Server) handleStoreRegister(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params storeRegisterParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	loyaltyCfg := store.LoyaltyConfig{
		PointsPerUnit:  params.PointsPerUnit,
		RedemptionRate: params.RedemptionRate,
	}
	record, err := s.engines.Stores.RegisterStore(owner, params.Name, params.Description, params.LogoURI, loyaltyCfg)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, newStoreResult(record))
}

type storeQueryParams struct {
	ID    string `json:"id,omitempty"`
	Owner string `json:"owner,omitempty"`
}

func (s *Server) resolveStoreID(params storeQueryParams) ([32]byte, error) {
	if params.ID != "" {
		return parseHash(params.ID)
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		return [32]byte{}, err
	}
	return store.DeriveID(owner), nil
}

func (s *Server) handleStoreGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params storeQueryParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := s.resolveStoreID(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	record, ok := s.engines.Stores.GetStore(id)
	if !ok {
		writeEngineError(w, req.ID, store.ErrStoreNotFound)
		return
	}
	writeResult(w, req.ID, newStoreResult(record))
}

type storeUpdateParams struct {
	Caller         string  `json:"caller"`
	ID             string  `json:"id"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	LogoURI        *string `json:"logoUri,omitempty"`
	PointsPerUnit  *uint64 `json:"pointsPerUnit,omitempty"`
	RedemptionRate *uint64 `json:"redemptionRate,omitempty"`
}

func (s *Server) handleStoreUpdate(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params storeUpdateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := parseHash(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	update := store.StoreUpdate{
		Name:        params.Name,
		Description: params.Description,
		LogoURI:     params.LogoURI,
	}
	if params.PointsPerUnit != nil || params.RedemptionRate != nil {
		record, ok := s.engines.Stores.GetStore(id)
		if !ok {
			writeEngineError(w, req.ID, store.ErrStoreNotFound)
			return
		}
		loyaltyCfg := record.Loyalty
		if params.PointsPerUnit != nil {
			loyaltyCfg.PointsPerUnit = *params.PointsPerUnit
		}
		if params.RedemptionRate != nil {
			loyaltyCfg.RedemptionRate = *params.RedemptionRate
		}
		update.Loyalty = &loyaltyCfg
	}
	if err := s.engines.Stores.UpdateStore(caller, id, update); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	record, _ := s.engines.Stores.GetStore(id)
	writeResult(w, req.ID, newStoreResult(record))
}

type storeSetActiveParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

func (s *Server) handleStoreSetActive(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params storeSetActiveParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := parseHash(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engines.Stores.SetActive(caller, id, params.Active); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"active": params.Active})
}

type storeAdminParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Target string `json:"target"`
	Role   string `json:"role,omitempty"`
}

func (s *Server) handleStoreAddAdmin(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params storeAdminParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := parseHash(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	target, err := parseAddress(params.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	role, err := parseRole(params.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engines.Stores.AddAdmin(caller, id, target, role); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"added": formatAddress(target)})
}

func (s *Server) handleStoreRemoveAdmin(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params storeAdminParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := parseHash(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	target, err := parseAddress(params.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engines.Stores.RemoveAdmin(caller, id, target); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"removed": formatAddress(target)})
}
