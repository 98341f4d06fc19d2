package harvester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/converters"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/profiles"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/rdf"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/datasets"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/formats"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/groups"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/licenses"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iaest-dcat/svcs/harvester")

// SourceFormat selects how the harvested body is interpreted.
type SourceFormat string

const (
	// FormatRDF treats the source as N-Quads/N-Triples DCAT-AP metadata.
	FormatRDF SourceFormat = "rdf"
	// FormatIAESTJSON treats the source as a list of flat federation
	// description documents.
	FormatIAESTJSON SourceFormat = "iaest-json"
)

// HarvesterService periodically pulls dataset metadata from a remote source
// and upserts the parsed records into the store. A dataset that fails to
// parse is logged and skipped; the rest of the harvest proceeds.
type HarvesterService interface {
	SourceURL() string

	Harvest(ctx context.Context) error

	Start()
	Shutdown()
}

func NewHarvesterService(ctx context.Context, logger zerolog.Logger, sourceURL string, format SourceFormat,
	store datasets.Store, opts profiles.Options,
	licenseRegister licenses.Register, groupRegister groups.Register, formatRegister formats.Register) HarvesterService {

	svc := &harvesterSvc{
		ctx:       ctx,
		log:       logger,
		sourceURL: sourceURL,
		format:    format,
		store:     store,
		opts:      opts,

		licenses: licenseRegister,
		groups:   groupRegister,
		formats:  formatRegister,

		keepRunning: true,
	}

	return svc
}

type harvesterSvc struct {
	sourceURL string
	format    SourceFormat

	store datasets.Store
	opts  profiles.Options

	licenses licenses.Register
	groups   groups.Register
	formats  formats.Register

	ctx context.Context
	log zerolog.Logger

	keepRunning bool
}

func (svc *harvesterSvc) SourceURL() string {
	return svc.sourceURL
}

func (svc *harvesterSvc) Start() {
	svc.log.Info().Msg("starting harvester service")
	go svc.run()
}

func (svc *harvesterSvc) Shutdown() {
	svc.log.Info().Msg("shutting down harvester service")
	svc.keepRunning = false
}

func (svc *harvesterSvc) run() {
	nextHarvestTime := time.Now()

	for svc.keepRunning {
		if time.Now().After(nextHarvestTime) {
			svc.log.Info().Msg("harvesting dataset metadata")
			err := svc.Harvest(svc.ctx)

			if err != nil {
				svc.log.Error().Err(err).Msg("failed to harvest")
				nextHarvestTime = time.Now().Add(30 * time.Second)
			} else {
				nextHarvestTime = time.Now().Add(30 * time.Minute)
			}
		}

		time.Sleep(1 * time.Second)
	}

	svc.log.Info().Msg("harvester service exiting")
}

// Harvest fetches the source once and upserts everything it can parse.
func (svc *harvesterSvc) Harvest(ctx context.Context) error {
	var err error
	ctx, span := tracer.Start(ctx, "harvest-datasets")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, svc.log, ctx)

	body, err := svc.fetchSource(ctx)
	if err != nil {
		return err
	}

	var records []domain.Dataset

	switch svc.format {
	case FormatIAESTJSON:
		records, err = svc.parseDescriptions(body)
	default:
		records, err = svc.parseGraph(ctx, logger, body)
	}

	if err != nil {
		return err
	}

	stored := 0
	for i := range records {
		if records[i].Name == "" {
			records[i].Name = slugify(records[i].Title)
		}

		if err := svc.store.Upsert(ctx, records[i]); err != nil {
			logger.Error().Err(err).Msgf("failed to store dataset %s", records[i].Name)
			continue
		}
		stored++
	}

	logger.Info().Msgf("harvested %d datasets, stored %d", len(records), stored)

	return nil
}

func (svc *harvesterSvc) fetchSource(ctx context.Context) ([]byte, error) {
	logger := logging.GetFromContext(ctx)

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %s", err.Error())
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %s", err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %s", err.Error())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		logger.Error().Str("request", string(reqbytes)).Str("response", string(respbytes)).Msg("request failed")
		return nil, fmt.Errorf("request failed")
	}

	if resp.StatusCode != http.StatusOK {
		contentType := resp.Header.Get("Content-Type")
		return nil, fmt.Errorf("source returned status code %d (content-type: %s)", resp.StatusCode, contentType)
	}

	return respBody, nil
}

// parseGraph loads the body as RDF and runs the profile chain over every
// dcat:Dataset node it finds.
func (svc *harvesterSvc) parseGraph(ctx context.Context, logger zerolog.Logger, body []byte) ([]domain.Dataset, error) {
	g := rdf.NewGraph()
	if err := g.Load(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("failed to load the harvested graph: %s", err.Error())
	}

	base := profiles.NewRDFProfile(g, svc.opts, logger, svc.licenses, svc.groups, svc.formats, svc.store)
	profile := profiles.NewEuropeanDCATAPProfile(base)

	nodes := profile.Datasets()
	records := make([]domain.Dataset, 0, len(nodes))

	for _, node := range nodes {
		dataset := domain.Dataset{}

		if err := profile.ParseDataset(ctx, &dataset, node); err != nil {
			logger.Error().Err(err).Msgf("failed to parse dataset %s", rdf.TermString(node))
			continue
		}

		records = append(records, dataset)
	}

	return records, nil
}

func (svc *harvesterSvc) parseDescriptions(body []byte) ([]domain.Dataset, error) {
	var descriptions []domain.Description

	if err := json.Unmarshal(body, &descriptions); err != nil {
		var single domain.Description
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, fmt.Errorf("failed to unmarshal the harvested documents: %s", err.Error())
		}
		descriptions = []domain.Description{single}
	}

	records := make([]domain.Dataset, 0, len(descriptions))
	for _, description := range descriptions {
		records = append(records, converters.ToDataset(description))
	}

	return records, nil
}

// slugify derives a store name from a free text title.
func slugify(title string) string {
	var b strings.Builder
	previousDash := true

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			previousDash = false
			continue
		}

		if !previousDash {
			b.WriteByte('-')
			previousDash = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
