package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ealtun16/Vespro-sub000/internal/config"
	"github.com/ealtun16/Vespro-sub000/internal/excel"
	"github.com/ealtun16/Vespro-sub000/internal/handler"
	"github.com/ealtun16/Vespro-sub000/internal/logging"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
	"github.com/ealtun16/Vespro-sub000/internal/service"
	"github.com/ealtun16/Vespro-sub000/internal/storage"
	"github.com/ealtun16/Vespro-sub000/pkg/agent"
)

func main() {
	cfg := config.Load()
	logging.Setup("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, repository.PoolOptions{MaxConns: cfg.DBMaxConns})
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	store, err := newStorage(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to initialise storage", "backend", cfg.StorageBackend, "error", err)
	}

	tankFormRepo := repository.NewPgTankFormRepository(pool)
	specRepo := repository.NewPgTankSpecificationRepository(pool)
	analysisRepo := repository.NewPgCostAnalysisRepository(pool)
	settingsRepo := repository.NewPgSettingsRepository(pool)

	autoAnalysisService := service.NewAutoAnalysisService(settingsRepo, specRepo, analysisRepo, cfg.AnalysisBatchDelay)
	importService := service.NewImportService(excel.NewParser(), tankFormRepo, specRepo, store, autoAnalysisService)
	tankFormService := service.NewTankFormService(tankFormRepo, store)
	specService := service.NewTankSpecificationService(specRepo, autoAnalysisService)
	costAnalysisService := service.NewCostAnalysisService(analysisRepo, specRepo, settingsRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	dashboardService := service.NewDashboardService(analysisRepo, tankFormRepo)

	// agent 未設定時は呼び出しごとに ErrNotConfigured を返す
	agentClient := agent.NewClient(cfg.Agent.URL, cfg.Agent.APIKey, agent.Options{
		Timeout:    cfg.Agent.Timeout,
		MaxRetries: cfg.Agent.MaxRetries,
	})
	agentService := service.NewAgentService(agentClient, costAnalysisService)

	h := handler.New(cfg.FrontendURL,
		handler.DatabaseCheck(pool),
		handler.HealthCheck{Name: "storage", Check: store.Ping},
	)
	importHandler := handler.NewImportHandler(importService, cfg.MaxUploadBytes)
	tankFormHandler := handler.NewTankFormHandler(tankFormService)
	specHandler := handler.NewTankSpecificationHandler(specService, costAnalysisService)
	analysisHandler := handler.NewCostAnalysisHandler(costAnalysisService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	autoAnalysisHandler := handler.NewAutoAnalysisHandler(autoAnalysisService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	agentHandler := handler.NewAgentHandler(agentService)

	limiter := handler.NewRateLimiter(ctx, handler.RateLimitConfig{
		PerMinute: map[string]int{
			handler.ScopeImport:   cfg.RateLimit.ImportPerMinute,
			handler.ScopeAnalysis: cfg.RateLimit.AnalysisPerMinute,
			handler.ScopeAgent:    cfg.RateLimit.AgentPerMinute,
		},
		TrustedProxyCount: cfg.RateLimit.TrustedProxyCount,
	})
	limited := func(scope string, f http.HandlerFunc) http.Handler { return limiter.Limit(scope, f) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Get)

	// Excel 取り込み・タンクフォーム
	mux.Handle("POST /api/tank-forms/import", limited(handler.ScopeImport, importHandler.Import))
	mux.HandleFunc("GET /api/tank-forms", tankFormHandler.List)
	mux.HandleFunc("GET /api/tank-forms/{id}", tankFormHandler.Get)
	mux.HandleFunc("GET /api/tank-forms/{id}/source", tankFormHandler.Source)
	mux.HandleFunc("DELETE /api/tank-forms/{id}", tankFormHandler.Delete)

	// タンク仕様
	mux.HandleFunc("GET /api/tank-specifications", specHandler.List)
	mux.HandleFunc("POST /api/tank-specifications", specHandler.Create)
	mux.HandleFunc("GET /api/tank-specifications/{id}", specHandler.Get)
	mux.HandleFunc("PATCH /api/tank-specifications/{id}", specHandler.Update)
	mux.HandleFunc("PUT /api/tank-specifications/{id}", specHandler.Update)
	mux.HandleFunc("DELETE /api/tank-specifications/{id}", specHandler.Delete)
	mux.HandleFunc("GET /api/tank-specifications/{id}/cost-analyses", specHandler.Analyses)

	// 原価解析
	mux.HandleFunc("GET /api/cost-analyses", analysisHandler.List)
	mux.HandleFunc("POST /api/cost-analyses", analysisHandler.Create)
	mux.HandleFunc("POST /api/cost-analyses/calculate", analysisHandler.Calculate)
	mux.HandleFunc("GET /api/cost-analyses/{id}", analysisHandler.Get)
	mux.HandleFunc("PATCH /api/cost-analyses/{id}", analysisHandler.Update)
	mux.HandleFunc("DELETE /api/cost-analyses/{id}", analysisHandler.Delete)
	mux.HandleFunc("GET /api/cost-analyses/{id}/export", analysisHandler.Export)

	// 自動解析
	mux.HandleFunc("POST /api/auto-analysis/tank-specifications/{id}", autoAnalysisHandler.Trigger)
	mux.Handle("POST /api/auto-analysis/batch", limited(handler.ScopeAnalysis, autoAnalysisHandler.Batch))

	// 設定
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PATCH /api/settings", settingsHandler.Update)

	// 外部 agent
	mux.Handle("POST /api/agent/chat", limited(handler.ScopeAgent, agentHandler.Chat))
	mux.Handle("POST /api/agent/price-analysis", limited(handler.ScopeAgent, agentHandler.PriceAnalysis))

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "storage", cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageMinIO:
		m := cfg.MinIO
		return storage.NewMinIOStorage(ctx, m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL)
	default:
		return storage.NewLocalStorage(cfg.UploadDir), nil
	}
}
