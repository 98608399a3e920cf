package serverhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"csvexport-service/internal/config"
	convHnd "csvexport-service/internal/convert/handler"
	convSvc "csvexport-service/internal/convert/service"
	"csvexport-service/internal/middleware"
	"csvexport-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, svc *convSvc.Service, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check и метрики
	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// конвертация и сверка CSV
	r.Post("/convert", convHnd.Convert(svc, logger))
	r.Post("/convert/csv", convHnd.ConvertCSV(svc, logger))
	r.Post("/compare", convHnd.Compare(logger))

	return r
}
