package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"commercechain/core/state"
	"commercechain/native/admin"
	"commercechain/native/checkout"
	"commercechain/native/escrow"
	"commercechain/native/loyalty"
	"commercechain/native/profile"
	"commercechain/native/store"
	"commercechain/storage"
)

const testToken = "test-token"

func testAddrHex(b byte) string {
	var addr [20]byte
	addr[19] = b
	return formatAddress(addr)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())

	escrowEngine := escrow.NewEngine()
	escrowEngine.SetState(manager)

	loyaltyEngine := loyalty.NewEngine()
	loyaltyEngine.SetState(manager)

	checkoutEngine := checkout.NewEngine()
	checkoutEngine.SetState(manager)

	profileEngine := profile.NewEngine()
	profileEngine.SetState(manager)

	var root [20]byte
	root[19] = 0x99

	return NewServer(Engines{
		State:    manager,
		Stores:   store.NewRegistry(manager),
		Catalog:  store.NewCatalog(manager),
		Escrow:   escrowEngine,
		Checkout: checkoutEngine,
		Loyalty:  loyaltyEngine,
		Profiles: profileEngine,
		Platform: admin.NewPlatformRegistry(manager, root),
	}, ServerConfig{AuthToken: testToken, RateLimit: 1000, RateBurst: 1000}, nil)
}

func post(t *testing.T, handler http.Handler, method string, params interface{}, token string) *RPCResponse {
	t.Helper()
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
	}
	if params != nil {
		body["params"] = []interface{}{params}
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(payload))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	resp := new(RPCResponse)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), resp))
	return resp
}

func TestMethodNotFound(t *testing.T) {
	server := newTestServer(t)
	resp := post(t, server.Router(), "bogus_method", nil, "")
	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestAuthRequired(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()

	resp := post(t, router, "store_register", map[string]interface{}{"owner": testAddrHex(1), "name": "Shop"}, "")
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)

	resp = post(t, router, "store_register", map[string]interface{}{"owner": testAddrHex(1), "name": "Shop"}, "wrong")
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)
}

func TestStoreRegisterAndGet(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()

	resp := post(t, router, "store_register", map[string]interface{}{
		"owner":          testAddrHex(1),
		"name":           "Corner Shop",
		"pointsPerUnit":  uint64(5),
		"redemptionRate": uint64(10),
	}, testToken)
	require.Nil(t, resp.Error)

	encoded, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var registered storeResult
	require.NoError(t, json.Unmarshal(encoded, &registered))
	require.Equal(t, "Corner Shop", registered.Name)
	require.True(t, registered.Active)
	require.Len(t, registered.Admins, 1)

	// Queries resolve either by id or by owner, no auth needed.
	resp = post(t, router, "store_get", map[string]interface{}{"owner": testAddrHex(1)}, "")
	require.Nil(t, resp.Error)
	var fetched storeResult
	encoded, err = json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(encoded, &fetched))
	require.Equal(t, registered.ID, fetched.ID)

	// Duplicate registration surfaces the module sentinel.
	resp = post(t, router, "store_register", map[string]interface{}{
		"owner": testAddrHex(1),
		"name":  "Another",
	}, testToken)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeServerError, resp.Error.Code)
}

func TestInvalidParams(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()

	resp := post(t, router, "store_get", map[string]interface{}{"owner": "not-an-address"}, "")
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)

	resp = post(t, router, "store_get", nil, "")
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestAdminEndToEnd(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	rootHex := testAddrHex(0x99)

	resp := post(t, router, "admin_add", map[string]interface{}{
		"caller": rootHex,
		"target": testAddrHex(1),
		"role":   "manager",
	}, testToken)
	require.Nil(t, resp.Error)

	resp = post(t, router, "admin_isAdmin", map[string]interface{}{"address": testAddrHex(1)}, "")
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, true, result["isAdmin"])

	// Non-root callers are rejected with the unauthorized code.
	resp = post(t, router, "admin_add", map[string]interface{}{
		"caller": testAddrHex(1),
		"target": testAddrHex(2),
		"role":   "viewer",
	}, testToken)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)
}

func TestRateLimiting(t *testing.T) {
	server := newTestServer(t)
	server.cfg.RateLimit = 1
	server.cfg.RateBurst = 1
	router := server.Router()

	first := post(t, router, "admin_list", nil, "")
	require.Nil(t, first.Error)
	second := post(t, router, "admin_list", nil, "")
	require.NotNil(t, second.Error)
	require.Equal(t, codeRateLimited, second.Error.Code)
}

func TestRateLimiterIgnoresProxyHeadersByDefault(t *testing.T) {
	server := newTestServer(t)
	server.cfg.RateLimit = 1
	server.cfg.RateBurst = 1
	router := server.Router()

	send := func(forwardedFor string) *RPCResponse {
		payload := []byte(`{"jsonrpc":"2.0","id":1,"method":"admin_list"}`)
		req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(payload))
		req.Header.Set("X-Forwarded-For", forwardedFor)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		resp := new(RPCResponse)
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), resp))
		return resp
	}

	// Rotating the spoofable header must not mint a fresh limiter: both
	// requests arrive from the same peer address.
	first := send("203.0.113.1")
	require.Nil(t, first.Error)
	second := send("203.0.113.2")
	require.NotNil(t, second.Error)
	require.Equal(t, codeRateLimited, second.Error.Code)

	// Behind a trusted proxy the forwarded address keys the limiter.
	server.cfg.TrustProxyHeaders = true
	trusted := server.Router()
	payload := []byte(`{"jsonrpc":"2.0","id":1,"method":"admin_list"}`)
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(payload))
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	recorder := httptest.NewRecorder()
	trusted.ServeHTTP(recorder, req)
	resp := new(RPCResponse)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), resp))
	require.Nil(t, resp.Error)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "ok")
}

func TestPurchaseOverRPC(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	owner := testAddrHex(1)
	buyer := testAddrHex(2)

	resp := post(t, router, "store_register", map[string]interface{}{"owner": owner, "name": "Shop"}, testToken)
	require.Nil(t, resp.Error)
	encoded, _ := json.Marshal(resp.Result)
	var registered storeResult
	require.NoError(t, json.Unmarshal(encoded, &registered))

	resp = post(t, router, "product_register", map[string]interface{}{
		"caller":  owner,
		"storeId": registered.ID,
		"price":   uint64(100),
		"stock":   uint64(5),
	}, testToken)
	require.Nil(t, resp.Error)
	encoded, _ = json.Marshal(resp.Result)
	var product productResult
	require.NoError(t, json.Unmarshal(encoded, &product))

	// Fund the buyer directly through the state manager.
	var buyerAddr [20]byte
	buyerAddr[19] = 2
	require.NoError(t, server.engines.State.Credit(buyerAddr, 1000))

	resp = post(t, router, "checkout_purchaseCart", map[string]interface{}{
		"buyer":          buyer,
		"storeId":        registered.ID,
		"productIds":     []string{product.ID},
		"quantities":     []uint64{2},
		"amountTendered": uint64(1000),
	}, testToken)
	require.Nil(t, resp.Error)
	encoded, _ = json.Marshal(resp.Result)
	var receipt receiptResult
	require.NoError(t, json.Unmarshal(encoded, &receipt))
	require.Equal(t, uint64(200), receipt.TotalPaid)
	require.Equal(t, "completed", receipt.Status)

	resp = post(t, router, "checkout_getReceipt", map[string]interface{}{"id": receipt.ID}, "")
	require.Nil(t, resp.Error)

	resp = post(t, router, "escrow_balance", map[string]interface{}{"storeId": registered.ID}, "")
	require.Nil(t, resp.Error)
	balance, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, float64(200), balance["balance"])
}

func TestProfileOverRPC(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()

	resp := post(t, router, "profile_createOrUpdate", map[string]interface{}{
		"caller": testAddrHex(5),
		"userId": "alice",
	}, testToken)
	require.Nil(t, resp.Error)

	resp = post(t, router, "profile_get", map[string]interface{}{"address": testAddrHex(5)}, "")
	require.Nil(t, resp.Error)
	encoded, _ := json.Marshal(resp.Result)
	var fetched profileResult
	require.NoError(t, json.Unmarshal(encoded, &fetched))
	require.Equal(t, "alice", fetched.UserID)

	resp = post(t, router, "profile_get", map[string]interface{}{"address": testAddrHex(6)}, "")
	require.NotNil(t, resp.Error)
}
