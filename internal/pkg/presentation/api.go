package presentation

import (
	"compress/flate"
	"context"
	"net/http"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/services/catalog"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/presentation/handlers"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type API interface {
	Start(port string) error
}

type catalogAPI struct {
	router chi.Router
	log    zerolog.Logger
}

func NewAPI(ctx context.Context, r chi.Router, svc catalog.CatalogService) API {
	return newCatalogAPI(ctx, r, svc)
}

func newCatalogAPI(ctx context.Context, r chi.Router, svc catalog.CatalogService) *catalogAPI {
	log := logging.GetFromContext(ctx)

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	}).Handler)

	// Enable gzip compression for our responses
	compressor := middleware.NewCompressor(
		flate.DefaultCompression,
		"application/json", "application/xml", "application/rdf+xml", catalog.RDFMediaType,
	)
	r.Use(compressor.Handler)
	r.Use(otelchi.Middleware("iaest-dcat", otelchi.WithChiRoutes(r)))

	a := &catalogAPI{
		router: r,
		log:    log,
	}

	a.addCatalogHandlers(r, log, svc)
	a.addProbeHandlers(r)

	return a
}

func (a *catalogAPI) Start(port string) error {
	a.log.Info().Msgf("Starting iaest-dcat on port:%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

func (a *catalogAPI) addCatalogHandlers(r chi.Router, log zerolog.Logger, svc catalog.CatalogService) {
	r.Get(
		"/api/datasets/dcat",
		handlers.NewRetrieveCatalogHandler(log, svc),
	)
	r.Get(
		"/api/datasets",
		handlers.NewRetrieveDatasetsHandler(log, svc),
	)
	r.Get(
		"/api/datasets/{name}",
		handlers.NewRetrieveDatasetByNameHandler(log, svc),
	)
}

func (a *catalogAPI) addProbeHandlers(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
