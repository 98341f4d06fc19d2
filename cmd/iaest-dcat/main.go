package main

import (
	"context"
	"flag"
	"os"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/profiles"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/services/catalog"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/application/services/harvester"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/datasets"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/formats"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/groups"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/licenses"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/presentation"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
)

const serviceName string = "iaest-dcat"

var licensesFileName string
var groupsFileName string
var formatsFileName string

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion)
	defer cleanup()

	log.Info().Msgf("Starting up %s ...", serviceName)

	flag.StringVar(&licensesFileName, "licenses", "/opt/iaest/licenses.yaml", "A YAML file with the known license list")
	flag.StringVar(&groupsFileName, "groups", "/opt/iaest/groups.yaml", "A YAML file with the catalog groups")
	flag.StringVar(&formatsFileName, "formats", "/opt/iaest/formats.yaml", "A YAML file with the resource format table")
	flag.Parse()

	opts := profiles.Options{
		CatalogURI:        env.GetVariableOrDie(log, "IAEST_CATALOG_URI", "catalog base URI"),
		NormalizeFormats:  env.GetVariableOrDefault(log, "IAEST_NORMALIZE_FORMATS", "true") != "false",
		CompatibilityMode: env.GetVariableOrDefault(log, "IAEST_COMPATIBILITY_MODE", "false") == "true",
		SiteTitle:         env.GetVariableOrDefault(log, "IAEST_SITE_TITLE", ""),
		SiteDescription:   env.GetVariableOrDefault(log, "IAEST_SITE_DESCRIPTION", ""),
		SiteURL:           env.GetVariableOrDefault(log, "IAEST_SITE_URL", ""),
		SiteLocale:        env.GetVariableOrDefault(log, "IAEST_SITE_LOCALE", "en"),
	}

	licenseRegister := newLicenseRegister(ctx, licensesFileName)
	groupRegister := newGroupRegister(ctx, groupsFileName)
	formatRegister := newFormatRegister(ctx, formatsFileName)

	store := datasets.NewStore()

	catalogSvc := catalog.NewCatalogService(ctx, log, store, opts, licenseRegister, groupRegister, formatRegister)
	catalogSvc.Start()
	defer catalogSvc.Shutdown()

	sourceURL := env.GetVariableOrDefault(log, "IAEST_HARVEST_URL", "")
	if sourceURL != "" {
		format := harvester.SourceFormat(env.GetVariableOrDefault(log, "IAEST_HARVEST_FORMAT", string(harvester.FormatRDF)))

		harvesterSvc := harvester.NewHarvesterService(ctx, log, sourceURL, format, store, opts, licenseRegister, groupRegister, formatRegister)
		harvesterSvc.Start()
		defer harvesterSvc.Shutdown()
	}

	port := os.Getenv("SERVICE_PORT")
	if port == "" {
		port = "8880"
	}

	r := chi.NewRouter()

	app := presentation.NewAPI(ctx, r, catalogSvc)
	err := app.Start(port)
	if err != nil {
		log.Fatal().Msgf("failed to start router: %s", err.Error())
	}
}

func newLicenseRegister(ctx context.Context, path string) licenses.Register {
	file := openRegistryFile(ctx, path)
	if file == nil {
		register, _ := licenses.NewRegister(nil)
		return register
	}
	defer file.Close()

	log := logging.GetFromContext(ctx)

	register, err := licenses.NewRegister(file)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to load the license list from %s", path)
	}

	return register
}

func newGroupRegister(ctx context.Context, path string) groups.Register {
	log := logging.GetFromContext(ctx)

	file := openRegistryFile(ctx, path)
	if file == nil {
		log.Fatal().Msgf("unable to open the groups file %s, exiting", path)
	}
	defer file.Close()

	register, err := groups.NewRegister(file)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to load the catalog groups from %s", path)
	}

	return register
}

func newFormatRegister(ctx context.Context, path string) formats.Register {
	file := openRegistryFile(ctx, path)
	if file == nil {
		register, _ := formats.NewRegister(nil)
		return register
	}
	defer file.Close()

	log := logging.GetFromContext(ctx)

	register, err := formats.NewRegister(file)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to load the resource format table from %s", path)
	}

	return register
}

func openRegistryFile(ctx context.Context, path string) *os.File {
	log := logging.GetFromContext(ctx)

	file, err := os.Open(path)
	if err != nil {
		log.Info().Msgf("failed to open the registry file %s.", path)
		return nil
	}

	return file
}
