package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/converters"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/profiles"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/rdf"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/datasets"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/formats"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/groups"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/licenses"
	"github.com/cayleygraph/quad"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iaest-dcat/svcs/catalog")

// RDFMediaType is the content type the serialized catalog is served with.
const RDFMediaType string = "application/n-quads"

// CatalogService keeps a serialized view of the dataset store: the full
// catalog as RDF and the flat federation JSON, both refreshed in the
// background and served from memory.
type CatalogService interface {
	GetRDF() []byte
	GetAll() []byte
	GetByName(name string) ([]byte, error)

	Refresh(ctx context.Context) error

	Start()
	Shutdown()
}

func NewCatalogService(ctx context.Context, logger zerolog.Logger, store datasets.Store, opts profiles.Options,
	licenseRegister licenses.Register, groupRegister groups.Register, formatRegister formats.Register) CatalogService {

	svc := &catalogSvc{
		ctx:   ctx,
		log:   logger,
		store: store,
		opts:  opts,

		licenses: licenseRegister,
		groups:   groupRegister,
		formats:  formatRegister,

		catalogRDF:         []byte{},
		descriptions:       []byte("[]"),
		descriptionsByName: map[string][]byte{},

		keepRunning: true,
	}

	return svc
}

type catalogSvc struct {
	store datasets.Store
	opts  profiles.Options

	licenses licenses.Register
	groups   groups.Register
	formats  formats.Register

	cacheMutex         sync.Mutex
	catalogRDF         []byte
	descriptions       []byte
	descriptionsByName map[string][]byte

	ctx context.Context
	log zerolog.Logger

	keepRunning bool
}

func (svc *catalogSvc) GetRDF() []byte {
	svc.cacheMutex.Lock()
	defer svc.cacheMutex.Unlock()

	return svc.catalogRDF
}

func (svc *catalogSvc) GetAll() []byte {
	svc.cacheMutex.Lock()
	defer svc.cacheMutex.Unlock()

	return svc.descriptions
}

func (svc *catalogSvc) GetByName(name string) ([]byte, error) {
	svc.cacheMutex.Lock()
	defer svc.cacheMutex.Unlock()

	body, ok := svc.descriptionsByName[name]
	if !ok {
		return []byte{}, fmt.Errorf("no such dataset")
	}

	return body, nil
}

func (svc *catalogSvc) Start() {
	svc.log.Info().Msg("starting catalog service")
	go svc.run()
}

func (svc *catalogSvc) Shutdown() {
	svc.log.Info().Msg("shutting down catalog service")
	svc.keepRunning = false
}

func (svc *catalogSvc) run() {
	nextRefreshTime := time.Now()

	for svc.keepRunning {
		if time.Now().After(nextRefreshTime) {
			svc.log.Info().Msg("refreshing the serialized catalog")
			err := svc.Refresh(svc.ctx)

			if err != nil {
				svc.log.Error().Err(err).Msg("failed to refresh the catalog")
				nextRefreshTime = time.Now().Add(10 * time.Second)
			} else {
				nextRefreshTime = time.Now().Add(5 * time.Minute)
			}
		}

		time.Sleep(1 * time.Second)
	}

	svc.log.Info().Msg("catalog service exiting")
}

// Refresh serializes every stored dataset plus the catalog node through the
// profile chain and swaps the cached views in one go.
func (svc *catalogSvc) Refresh(ctx context.Context) error {
	var err error
	ctx, span := tracer.Start(ctx, "refresh-catalog")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, svc.log, ctx)

	records, err := svc.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read the dataset store: %w", err)
	}

	g := rdf.NewGraph()
	chain := svc.newProfileChain(g, logger)

	catalogBase := strings.TrimRight(svc.opts.CatalogURI, "/")
	catalogRef := quad.IRI(catalogBase + "/catalogo")

	for _, profile := range chain {
		if err = profile.GraphFromCatalog(ctx, nil, catalogRef); err != nil {
			return fmt.Errorf("failed to serialize the catalog node: %w", err)
		}
	}

	for i := range records {
		dataset := records[i]
		datasetRef := quad.IRI(fmt.Sprintf("%s/catalogo/%s", catalogBase, dataset.Name))

		g.Add(quad.Value(catalogRef), rdf.DCAT.Term("dataset"), quad.Value(datasetRef))

		for _, profile := range chain {
			if err = profile.GraphFromDataset(ctx, &dataset, datasetRef); err != nil {
				return fmt.Errorf("failed to serialize dataset %s: %w", dataset.Name, err)
			}
		}
	}

	var serialized bytes.Buffer
	if err = g.Write(&serialized); err != nil {
		return fmt.Errorf("failed to write the catalog graph: %w", err)
	}

	descriptions := make([]domain.Description, 0, len(records))
	byName := map[string][]byte{}

	for _, dataset := range records {
		description := converters.FromDataset(dataset)
		descriptions = append(descriptions, description)

		jsonBytes, err := json.MarshalIndent(description, "  ", "  ")
		if err != nil {
			logger.Error().Err(err).Msgf("failed to marshal dataset %s to json", dataset.Name)
			continue
		}

		byName[dataset.Name] = jsonBytes
	}

	listBytes, err := json.MarshalIndent(descriptions, "  ", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal the dataset list: %w", err)
	}

	svc.cacheMutex.Lock()
	defer svc.cacheMutex.Unlock()

	svc.catalogRDF = serialized.Bytes()
	svc.descriptions = listBytes
	svc.descriptionsByName = byName

	return nil
}

func (svc *catalogSvc) newProfileChain(g *rdf.Graph, logger zerolog.Logger) []profiles.Profile {
	base := profiles.NewRDFProfile(g, svc.opts, logger, svc.licenses, svc.groups, svc.formats, svc.store)

	return []profiles.Profile{
		profiles.NewEuropeanDCATAPProfile(base),
	}
}
