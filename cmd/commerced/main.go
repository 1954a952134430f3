package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"commercechain/config"
	"commercechain/core/events"
	"commercechain/core/state"
	"commercechain/native/admin"
	"commercechain/native/checkout"
	"commercechain/native/escrow"
	"commercechain/native/loyalty"
	"commercechain/native/profile"
	"commercechain/native/store"
	"commercechain/observability/logging"
	"commercechain/observability/metrics"
	"commercechain/rpc"
	"commercechain/storage"
)

// newDatabase opens the persistent store, or an in-memory one for the
// ":memory:" data dir used in local experiments.
func newDatabase(dataDir string) (storage.Database, error) {
	if dataDir == ":memory:" {
		return storage.NewMemDB(), nil
	}
	return storage.NewLevelDB(dataDir)
}

// pauseSet adapts the configured pause list to the module guard interface.
type pauseSet struct {
	cfg *config.Config
}

func (p pauseSet) IsPaused(module string) bool {
	return p.cfg.Paused(module)
}

// logEmitter mirrors every module event onto the structured log at debug.
type logEmitter struct{}

func (logEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	slog.Debug("module event", "type", evt.EventType())
}

// settlementIssuer exposes the loyalty engine through the optional settlement
// hook: a store without a mint yields zero points rather than an error.
type settlementIssuer struct {
	engine *loyalty.Engine
}

func (s settlementIssuer) Issue(storeID [32]byte, buyer [20]byte, purchaseValue uint64) (uint64, error) {
	return s.engine.IssueForSettlement(storeID, buyer, purchaseValue)
}

func main() {
	configPath := flag.String("config", "./config.toml", "path to the node configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Env, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	root, err := cfg.RootAddress()
	if err != nil {
		slog.Error("invalid root authority", "error", err)
		os.Exit(1)
	}

	db, err := newDatabase(cfg.DataDir)
	if err != nil {
		slog.Error("failed to open database", "dataDir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	manager := state.NewManager(db)
	pauses := pauseSet{cfg: cfg}

	emitters := events.Fanout{logEmitter{}}
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.NewCollector(prometheus.DefaultRegisterer)
		emitters = append(emitters, collector)
	}

	stores := store.NewRegistry(manager)
	stores.SetEmitter(emitters)
	stores.SetPauses(pauses)

	catalog := store.NewCatalog(manager)
	catalog.SetEmitter(emitters)
	catalog.SetPauses(pauses)

	escrowEngine := escrow.NewEngine()
	escrowEngine.SetState(manager)
	escrowEngine.SetEmitter(emitters)
	escrowEngine.SetPauses(pauses)

	loyaltyEngine := loyalty.NewEngine()
	loyaltyEngine.SetState(manager)
	loyaltyEngine.SetEmitter(emitters)
	loyaltyEngine.SetPauses(pauses)

	checkoutEngine := checkout.NewEngine()
	checkoutEngine.SetState(manager)
	checkoutEngine.SetLoyalty(settlementIssuer{engine: loyaltyEngine})
	checkoutEngine.SetEmitter(emitters)
	checkoutEngine.SetPauses(pauses)

	profileEngine := profile.NewEngine()
	profileEngine.SetState(manager)
	profileEngine.SetEmitter(emitters)
	profileEngine.SetPauses(pauses)

	platform := admin.NewPlatformRegistry(manager, root)
	platform.SetEmitter(emitters)
	platform.SetPauses(pauses)

	authToken := strings.TrimSpace(cfg.RPCAuthToken)
	if authToken == "" {
		authToken = strings.TrimSpace(os.Getenv("COMMERCE_RPC_TOKEN"))
	}

	server := rpc.NewServer(rpc.Engines{
		State:    manager,
		Stores:   stores,
		Catalog:  catalog,
		Escrow:   escrowEngine,
		Checkout: checkoutEngine,
		Loyalty:  loyaltyEngine,
		Profiles: profileEngine,
		Platform: platform,
	}, rpc.ServerConfig{
		AuthToken:         authToken,
		RateLimit:         cfg.RPCRateLimit,
		RateBurst:         cfg.RPCRateBurst,
		TrustProxyHeaders: cfg.RPCTrustProxyHeaders,
	}, collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting commerce node",
		"network", cfg.NetworkName,
		"env", cfg.Env,
		"listen", cfg.ListenAddress,
	)
	if err := server.Start(ctx, cfg.ListenAddress); err != nil {
		slog.Error("rpc server exited", "error", err)
		os.Exit(1)
	}
}
