package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"tomatocr/cotizador/internal/app/config"
	apphttp "tomatocr/cotizador/internal/app/http"
	"tomatocr/cotizador/internal/app/http/handlers"
	"tomatocr/cotizador/internal/domain/access"
	"tomatocr/cotizador/internal/domain/quote/gateway"
	"tomatocr/cotizador/internal/domain/quote/local"
	pdfgen "tomatocr/cotizador/internal/domain/quote/pdf/gofpdf"
	"tomatocr/cotizador/internal/domain/quote/render"
	"tomatocr/cotizador/internal/domain/quote/store"
	"tomatocr/cotizador/internal/infra/observability"
)

// Run serves the HTTP API until the process receives SIGINT or SIGTERM,
// then drains requests and writes any pending draft.
func Run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defaults, brand, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}

	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	kvStore, err := OpenKV(cfg)
	if err != nil {
		return err
	}
	defer kvStore.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	counter := local.NewCounter(kvStore)
	st := store.New(store.Deps{
		Drafts:   meteredDrafts{DraftStore: local.NewDrafts(kvStore), metrics: metrics},
		Counter:  counter,
		Defaults: defaults,
		Debounce: cfg.DraftDebounce,
		Logger:   log.Named("store"),
	})
	snap, err := st.RestoreDraft(ctx)
	if err != nil {
		return err
	}
	log.Info("store: ready", zap.String("quote", snap.Quote.Number))

	svc := gateway.NewService(backend.Quotes, counter, defaults, log.Named("gateway"))
	svc.ListRecent(ctx, gateway.MaxRecent)

	h := &handlers.Handlers{
		Store:      st,
		Gateway:    svc,
		Renderer:   render.New(brand),
		PDF:        pdfgen.New(pdfgen.Options{FontDir: cfg.PDFFontDir, Branding: brand, Logger: log.Named("pdf")}),
		Archive:    backend.Archive,
		ArchiveAll: cfg.ArchivePDF,
		Prefs:      local.NewPreferences(kvStore),
		Gate:       access.NewGate(backend.Secrets),
		Defaults:   defaults,
		Metrics:    metrics,
		Log:        log.Named("http"),
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apphttp.NewRouter(cfg, h, reg, log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http: listening", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.StoreBackend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			st.Close(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("http: shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http: shutdown", zap.Error(err))
	}
	return st.Close(shutdownCtx)
}
