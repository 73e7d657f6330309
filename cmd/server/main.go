package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"jo3qma.com/kiosk_listings/internal/api/listingsv1"
	"jo3qma.com/kiosk_listings/internal/domain/repository"
	"jo3qma.com/kiosk_listings/internal/handler"
	"jo3qma.com/kiosk_listings/internal/infrastructure/kioskapi"
	"jo3qma.com/kiosk_listings/internal/infrastructure/yahoo"
	"jo3qma.com/kiosk_listings/internal/platform/config"
	"jo3qma.com/kiosk_listings/internal/platform/otel"
	"jo3qma.com/kiosk_listings/internal/usecase"
)

const serviceName = "kiosk-listings"

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// シグナル待機（Ctrl+Cなど）
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, otel.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatalf("❌ Tracing setup failed: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// 依存関係の組み立て（依存性注入）
	// 取得元を差し替えても同期エンジンはリポジトリのインターフェースだけを見る
	repo := newRepository(cfg)
	screen := usecase.NewScreenState(cfg.ForceSync)
	engine := usecase.NewListingsSyncEngine(repo, usecase.EngineConfig{
		AuctionID:    cfg.AuctionID,
		PageSize:     cfg.PageSize,
		SyncInterval: cfg.SyncInterval,
		FetchTimeout: cfg.FetchTimeout,
	}, screen.ShouldSync)

	h := handler.NewListingsHandler(engine, screen)

	// Connectハンドラーの登録
	mux := http.NewServeMux()
	path, svc := listingsv1.NewListingsServiceHandler(h)
	mux.Handle(path, svc)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// WatchListings はストリームを張り続けるので WriteTimeout は設定しない
	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     handler.RequestIDMiddleware(handler.AccessLogMiddleware(mux)),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// 停止時にストリーム中のリクエストも終わらせる
	srv.BaseContext = func(net.Listener) context.Context { return gctx }

	g.Go(func() error {
		log.Printf("🔄 Sync engine starting auction=%s source=%s interval=%s", cfg.AuctionID, cfg.ListingsSource, cfg.SyncInterval)
		return engine.Run(gctx)
	})

	g.Go(func() error {
		log.Printf("🚀 Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// グレースフルシャットダウン
	g.Go(func() error {
		<-gctx.Done()
		log.Println("🛑 Shutting down server...")

		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("❌ Server stopped with error: %v", err)
	}

	log.Println("✅ Server exited")
}

func newRepository(cfg config.Config) repository.ListingRepository {
	switch cfg.ListingsSource {
	case config.SourceYahoo:
		return yahoo.NewYahooCategoryScraper(cfg.UserAgent)
	default:
		return kioskapi.NewListingsClient(kioskapi.Options{
			BaseURL:           cfg.BaseURL,
			UserAgent:         cfg.UserAgent,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxTries:          cfg.FetchMaxTries,
			Timeout:           cfg.FetchTimeout,
		})
	}
}
