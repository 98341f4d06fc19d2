package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/services/catalog"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iaest-dcat/api/datasets")

// NewRetrieveCatalogHandler serves the cached RDF serialization of the
// whole catalog.
func NewRetrieveCatalogHandler(logger zerolog.Logger, svc catalog.CatalogService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := svc.GetRDF()

		w.Header().Add("Content-Type", catalog.RDFMediaType)
		w.Write(body)
	})
}

// NewRetrieveDatasetsHandler serves the flat JSON listing of every dataset.
func NewRetrieveDatasetsHandler(logger zerolog.Logger, svc catalog.CatalogService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := svc.GetAll()

		w.Header().Add("Content-Type", "application/json")
		w.Write(body)
	})
}

// NewRetrieveDatasetByNameHandler serves the flat JSON document of a single
// dataset.
func NewRetrieveDatasetByNameHandler(logger zerolog.Logger, svc catalog.CatalogService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		ctx, span := tracer.Start(r.Context(), "retrieve-dataset-by-name")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, _, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		name, _ := url.QueryUnescape(chi.URLParam(r, "name"))
		if name == "" {
			err = fmt.Errorf("no dataset name supplied in query")
			log.Error().Err(err).Msg("bad request")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		body, err := svc.GetByName(name)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.Write(body)
	})
}
