package rpc

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"commercechain/core/state"
	"commercechain/native/admin"
	"commercechain/native/checkout"
	"commercechain/native/escrow"
	"commercechain/native/loyalty"
	"commercechain/native/profile"
	"commercechain/native/store"
	"commercechain/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeRateLimited    = -32020
)

// Engines bundles the module entry points the server dispatches into.
type Engines struct {
	State    *state.Manager
	Stores   *store.Registry
	Catalog  *store.Catalog
	Escrow   *escrow.Engine
	Checkout *checkout.Engine
	Loyalty  *loyalty.Engine
	Profiles *profile.Engine
	Platform *admin.PlatformRegistry
}

// ServerConfig carries the transport knobs.
type ServerConfig struct {
	AuthToken string
	RateLimit int
	RateBurst int
	// TrustProxyHeaders resolves the client address from X-Forwarded-For /
	// X-Real-IP. The headers are spoofable, so only enable behind a trusted
	// reverse proxy; otherwise the limiter keys on the TCP peer address.
	TrustProxyHeaders bool
}

type Server struct {
	engines Engines
	cfg     ServerConfig
	metrics *metrics.Collector

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	httpServer *http.Server
}

// NewServer wires the RPC server over the module engines.
func NewServer(engines Engines, cfg ServerConfig, collector *metrics.Collector) *Server {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = cfg.RateLimit * 2
	}
	return &Server{
		engines:  engines,
		cfg:      cfg,
		metrics:  collector,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Router builds the HTTP mux: the JSON-RPC endpoint plus health and metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	if s.cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Post("/rpc", s.handle)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start serves the router on addr until the context is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("rpc server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) limiterFor(client string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[client]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)
		s.limiters[client] = limiter
	}
	return limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.cfg.AuthToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, req *RPCRequest)

func (s *Server) route(method string) (handlerFunc, bool, bool) {
	switch method {
	case "store_register":
		return s.handleStoreRegister, true, true
	case "store_get":
		return s.handleStoreGet, false, true
	case "store_update":
		return s.handleStoreUpdate, true, true
	case "store_setActive":
		return s.handleStoreSetActive, true, true
	case "store_addAdmin":
		return s.handleStoreAddAdmin, true, true
	case "store_removeAdmin":
		return s.handleStoreRemoveAdmin, true, true
	case "product_register":
		return s.handleProductRegister, true, true
	case "product_get":
		return s.handleProductGet, false, true
	case "product_update":
		return s.handleProductUpdate, true, true
	case "product_deactivate":
		return s.handleProductDeactivate, true, true
	case "escrow_balance":
		return s.handleEscrowBalance, false, true
	case "escrow_release":
		return s.handleEscrowRelease, true, true
	case "escrow_refund":
		return s.handleEscrowRefund, true, true
	case "checkout_purchaseCart":
		return s.handleCheckoutPurchaseCart, true, true
	case "checkout_getReceipt":
		return s.handleCheckoutGetReceipt, false, true
	case "loyalty_initializeMint":
		return s.handleLoyaltyInitializeMint, true, true
	case "loyalty_getMint":
		return s.handleLoyaltyGetMint, false, true
	case "loyalty_issue":
		return s.handleLoyaltyIssue, true, true
	case "loyalty_redeem":
		return s.handleLoyaltyRedeem, true, true
	case "loyalty_balance":
		return s.handleLoyaltyBalance, false, true
	case "admin_add":
		return s.handleAdminAdd, true, true
	case "admin_remove":
		return s.handleAdminRemove, true, true
	case "admin_list":
		return s.handleAdminList, false, true
	case "admin_isAdmin":
		return s.handleAdminIsAdmin, false, true
	case "profile_createOrUpdate":
		return s.handleProfileCreateOrUpdate, true, true
	case "profile_get":
		return s.handleProfileGet, false, true
	case "commerce_getBalance":
		return s.handleGetBalance, false, true
	default:
		return nil, false, false
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	if !s.limiterFor(clientIP(r)).Allow() {
		s.metrics.ObserveRateLimited()
		writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "rate limit exceeded", nil)
		return
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	handler, needsAuth, ok := s.route(req.Method)
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
		s.metrics.ObserveRPC(req.Method, "not_found", time.Since(started).Seconds())
		return
	}
	if needsAuth {
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			s.metrics.ObserveRPC(req.Method, "unauthorized", time.Since(started).Seconds())
			return
		}
	}
	handler(w, r, req)
	s.metrics.ObserveRPC(req.Method, "handled", time.Since(started).Seconds())
}

// singleParams decodes the single expected parameter object into out.
func singleParams(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "exactly one parameter object expected"}
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid parameter object", Data: err.Error()}
	}
	return nil
}
