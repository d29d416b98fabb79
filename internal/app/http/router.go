package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tomatocr/cotizador/internal/app/config"
	"tomatocr/cotizador/internal/app/http/handlers"
	"tomatocr/cotizador/internal/app/http/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handlers, gatherer prometheus.Gatherer, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(log, h.Metrics))
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/session", h.CreateSession)
		r.Delete("/session", h.DeleteSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.InternalAuth(cfg.InternalToken))

			r.Post("/quotes/render", h.RenderQuote)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(handlers.SessionCookie, h.Gate))

			r.Get("/quote", h.GetQuote)
			r.Post("/quote/new", h.NewQuote)
			r.Post("/quote/duplicate", h.DuplicateQuote)
			r.Delete("/quote/draft", h.ClearDraft)
			r.Patch("/quote/fields", h.SetField)
			r.Post("/quote/items", h.AddItem)
			r.Patch("/quote/items/{id}", h.UpdateItem)
			r.Delete("/quote/items/{id}", h.RemoveItem)
			r.Post("/quote/save", h.SaveQuote)
			r.Get("/quote/export.html", h.ExportHTML)
			r.Get("/quote/export.pdf", h.ExportPDF)

			r.Get("/quotes/recent", h.RecentQuotes)
			r.Post("/quotes/{id}/load", h.LoadQuote)

			r.Get("/preferences/theme", h.GetTheme)
			r.Put("/preferences/theme", h.PutTheme)
		})
	})

	return r
}
