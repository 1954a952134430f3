package rpc

import (
	"net/http"
)

type platformAdminParams struct {
	Caller string `json:"caller"`
	Target string `json:"target"`
	Role   string `json:"role,omitempty"`
}

func (s *Server) handleAdminAdd(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params platformAdminParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
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
	if err := s.engines.Platform.AddAdmin(caller, target, role); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"added": formatAddress(target)})
}

func (s *Server) handleAdminRemove(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params platformAdminParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	target, err := parseAddress(params.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engines.Platform.RemoveAdmin(caller, target); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"removed": formatAddress(target)})
}

func (s *Server) handleAdminList(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	if len(req.Params) != 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "no parameters expected", nil)
		return
	}
	entries, err := s.engines.Platform.Admins()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	result := make([]adminEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, adminEntry{Address: formatAddress(entry.Addr), Role: entry.Role.String()})
	}
	writeResult(w, req.ID, result)
}

type isAdminParams struct {
	Address string `json:"address"`
}

func (s *Server) handleAdminIsAdmin(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params isAdminParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	isAdmin, err := s.engines.Platform.IsAdmin(addr)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"isAdmin": isAdmin})
}
