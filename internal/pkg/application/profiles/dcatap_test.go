package profiles

import (
	"context"
	"fmt"
	"testing"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/rdf"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/formats"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/groups"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/licenses"
	"github.com/cayleygraph/quad"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestParseDatasetBasicFields(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)
	ds := newDatasetNode(g)

	g.Add(ds, rdf.DCT.Term("title"), rdf.LangLiteral("Paro registrado", "es"))
	g.Add(ds, rdf.DCT.Term("description"), rdf.Literal("Paro registrado por municipio"))
	g.Add(ds, rdf.OWL.Term("versionInfo"), rdf.Literal("1.0"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	is.Equal(dataset.Title, "Paro registrado")
	is.Equal(dataset.Notes, "Paro registrado por municipio")
	is.Equal(dataset.Version, "1.0")
	is.Equal(len(dataset.Tags), 0)
	is.Equal(len(dataset.Resources), 0)
}

func TestParseDatasetSplitsKeywordsWithCommas(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)
	ds := newDatasetNode(g)

	g.Add(ds, rdf.DCAT.Term("keyword"), rdf.Literal("c"))
	g.Add(ds, rdf.DCAT.Term("keyword"), rdf.Literal("a, b"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	// plain keywords keep their order, split fragments come after
	is.Equal(len(dataset.Tags), 3)
	is.Equal(dataset.Tags[0].Name, "c")
	is.Equal(dataset.Tags[1].Name, "a")
	is.Equal(dataset.Tags[2].Name, "b")
}

func TestParseDatasetVersionFallsBackToADMS(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)
	ds := newDatasetNode(g)

	g.Add(ds, rdf.ADMS.Term("version"), rdf.Literal("0.9"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	is.Equal(dataset.Version, "0.9")
}

func TestParseDatasetPublisherMapping(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)
	ds := newDatasetNode(g)

	agent := quad.Value(quad.IRI("http://example.org/org/iaest"))
	g.Add(ds, rdf.DCAT.Term("landingPage"), rdf.Literal("http://example.org/landing"))
	g.Add(ds, rdf.DCT.Term("publisher"), agent)
	g.Add(agent, rdf.DCT.Term("title"), rdf.Literal("Instituto Aragonés de Estadística"))
	g.Add(agent, rdf.FOAF.Term("homepage"), rdf.Literal("http://www.aragon.es/iaest"))
	g.Add(ds, rdf.DCAT.Term("author_email"), rdf.Literal("iaest@aragon.es"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	is.Equal(dataset.Maintainer, "Instituto Aragonés de Estadística")
	is.Equal(dataset.Author, "Instituto Aragonés de Estadística")
	is.Equal(dataset.AuthorEmail, "iaest@aragon.es")
	is.Equal(dataset.URL, "http://www.aragon.es/iaest") // the publisher homepage replaces the landing page
}

func TestParseDatasetStatisticalExtras(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)
	ds := newDatasetNode(g)

	g.Add(ds, rdf.DCAT.Term("tema_estadistico"), rdf.Literal("Mercado laboral"))
	g.Add(ds, rdf.DCAT.Term("urlDictionary"), rdf.Literal("http://example.org/diccionario"))
	g.Add(ds, rdf.DCT.Term("temporalFrom"), rdf.Literal("2010-01-01"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	is.Equal(dataset.Extra("01_IAEST_Tema estadistico"), "Mercado laboral")
	is.Equal(dataset.Extra("TemporalFrom"), "2010-01-01")

	// a dictionary url synthesizes the accompanying note entry
	is.Equal(dataset.Extra("Data Dictionary URL0"), "http://example.org/diccionario")
	is.Equal(dataset.Extra("Data Dictionary"), "El diccionario del dato se encuentra en la siguiente url")
}

func TestParseDatasetResolvesThemes(t *testing.T) {
	register := &groups.RegisterMock{
		GetFunc: func(identifier string) (*domain.Group, error) {
			return &domain.Group{ID: "economia"}, nil
		},
	}

	is, g, p := dcatTestSetup(t, register)
	ds := newDatasetNode(g)

	theme := quad.Value(g.NewBNode())
	g.Add(ds, rdf.DCAT.Term("theme"), theme)
	g.Add(theme, rdf.DCT.Term("identifier"), rdf.Literal("economia"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	is.Equal(len(dataset.Groups), 1)
	is.Equal(dataset.Groups[0].ID, "economia")
	is.Equal(len(register.GetCalls()), 1)
	is.Equal(register.GetCalls()[0].Identifier, "economia")
}

func TestParseDatasetFailsOnUnknownTheme(t *testing.T) {
	register := &groups.RegisterMock{
		GetFunc: func(identifier string) (*domain.Group, error) {
			return nil, fmt.Errorf("no group matches identifier %s", identifier)
		},
	}

	is, g, p := dcatTestSetup(t, register)
	ds := newDatasetNode(g)

	g.Add(ds, rdf.DCT.Term("title"), rdf.Literal("some title"))
	theme := quad.Value(g.NewBNode())
	g.Add(ds, rdf.DCAT.Term("theme"), theme)
	g.Add(theme, rdf.DCT.Term("identifier"), rdf.Literal("desconocido"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.True(err != nil) // an unresolvable theme aborts the dataset
}

func TestParseDatasetDistributions(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)
	ds := newDatasetNode(g)

	dist := quad.Value(quad.IRI("http://example.org/ds/recurso/1"))
	g.Add(ds, rdf.DCAT.Term("distribution"), dist)
	g.Add(dist, rdf.DCT.Term("title"), rdf.Literal("CSV completo"))
	g.Add(dist, rdf.DCT.Term("description"), rdf.Literal("todos los municipios"))
	g.Add(dist, rdf.DCAT.Term("downloadURL"), rdf.Literal("http://example.org/data.csv"))
	g.Add(dist, rdf.DCAT.Term("mediaType"), rdf.Literal("text/csv"))
	g.Add(dist, rdf.DCAT.Term("byteSize"), rdf.Literal("2048"))
	g.Add(dist, rdf.DCT.Term("language"), rdf.Literal("es"))
	g.Add(dist, rdf.DCT.Term("language"), rdf.Literal("en"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	is.Equal(len(dataset.Resources), 1)
	resource := dataset.Resources[0]
	is.Equal(resource.Name, "CSV completo")
	is.Equal(resource.Description, "todos los municipios")
	is.Equal(resource.DownloadURL, "http://example.org/data.csv")
	is.Equal(resource.URL, "http://example.org/data.csv") // no accessURL, downloadURL fills in
	is.Equal(resource.MimeType, "text/csv")
	is.Equal(resource.Format, "CSV")
	is.True(resource.Size != nil)
	is.Equal(*resource.Size, int64(2048))
	is.Equal(resource.Language, `["es","en"]`)
	is.Equal(resource.URI, "http://example.org/ds/recurso/1")
}

func TestParseDatasetChecksumLastOneWins(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)
	ds := newDatasetNode(g)

	dist := quad.Value(g.NewBNode())
	g.Add(ds, rdf.DCAT.Term("distribution"), dist)

	first := quad.Value(g.NewBNode())
	g.Add(dist, rdf.SPDX.Term("checksum"), first)
	g.Add(first, rdf.SPDX.Term("algorithm"), rdf.Literal("md5"))
	g.Add(first, rdf.SPDX.Term("checksumValue"), rdf.Literal("aaa"))

	second := quad.Value(g.NewBNode())
	g.Add(dist, rdf.SPDX.Term("checksum"), second)
	g.Add(second, rdf.SPDX.Term("algorithm"), rdf.Literal("sha1"))
	g.Add(second, rdf.SPDX.Term("checksumValue"), rdf.Literal("bbb"))

	dataset := domain.Dataset{}
	err := p.ParseDataset(context.Background(), &dataset, ds)
	is.NoErr(err)

	is.Equal(dataset.Resources[0].HashAlgorithm, "sha1")
	is.Equal(dataset.Resources[0].Hash, "bbb")
}

func TestCompatibilityModeRenamesLegacyExtras(t *testing.T) {
	is := is.New(t)

	p := &EuropeanDCATAPProfile{}
	dataset := domain.Dataset{Extras: []domain.Extra{
		{Key: "issued", Value: "2020-01-01"},
		{Key: "publisher_name", Value: "IAEST"},
		{Key: "language", Value: `["es","en"]`},
		{Key: "Granularity", Value: "Municipios"},
	}}

	p.applyCompatibilityMode(&dataset)

	is.Equal(dataset.Extras[0].Key, "dcat_issued")
	is.Equal(dataset.Extras[1].Key, "dcat_publisher_name")
	is.Equal(dataset.Extras[2].Value, "en,es") // languages are sorted and comma joined
	is.Equal(dataset.Extras[3].Key, "Granularity")
}

func TestGraphFromDatasetEmitsCoreTriples(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)

	dataset := domain.Dataset{
		Name:  "paro-registrado",
		Title: "Paro registrado",
		Notes: "Paro registrado por municipio",
		Tags:  []domain.Tag{{Name: "empleo"}},
		Groups: []domain.Group{
			{ID: "economia", DisplayName: "Economía"},
		},
		Organization: &domain.Organization{Name: "iaest"},
		LicenseURL:   "http://www.opendefinition.org/licenses/cc-by",
	}

	ref := quad.IRI("http://opendata.aragon.es/catalogo/paro-registrado")
	err := p.GraphFromDataset(context.Background(), &dataset, ref)
	is.NoErr(err)

	refv := quad.Value(ref)
	is.True(g.Has(refv, rdf.RDF.Term("type"), quad.Value(rdf.DCAT.Term("Dataset"))))
	is.True(g.Has(refv, rdf.DCT.Term("title"), rdf.LangLiteral("Paro registrado", "es")))
	is.True(g.Has(refv, rdf.DCAT.Term("theme"), rdf.Literal("Economía")))
	is.True(g.Has(refv, rdf.DCAT.Term("keyword"), rdf.LangLiteral("empleo", "es")))
	is.True(g.Has(refv, rdf.DCT.Term("identifier"), rdf.TypedLiteral("http://opendata.aragon.es/catalogo/paro-registrado", rdf.XSD.Term("anyURI"))))
	is.True(g.Has(refv, rdf.DCT.Term("publisher"), quad.Value(quad.IRI("http://opendata.aragon.es/catalogo/iaest"))))
	is.True(g.Has(refv, rdf.DCT.Term("license"), quad.Value(quad.IRI("http://www.opendefinition.org/licenses/cc-by"))))
}

func TestGraphFromDatasetOmitsAbsentFields(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)

	dataset := domain.Dataset{Name: "vacio"}
	ref := quad.IRI("http://opendata.aragon.es/catalogo/vacio")

	err := p.GraphFromDataset(context.Background(), &dataset, ref)
	is.NoErr(err)

	refv := quad.Value(ref)
	is.Equal(len(g.Objects(refv, rdf.DCT.Term("title"))), 0) // absent fields emit no triple
	is.Equal(len(g.Objects(refv, rdf.DCT.Term("description"))), 0)
	is.Equal(len(g.Objects(refv, rdf.DCT.Term("license"))), 0)
}

func TestGraphFromDatasetSpatialIsFixed(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)

	dataset := domain.Dataset{Name: "paro-registrado"}
	ref := quad.IRI("http://opendata.aragon.es/catalogo/paro-registrado")

	err := p.GraphFromDataset(context.Background(), &dataset, ref)
	is.NoErr(err)

	spatials := g.Objects(quad.Value(ref), rdf.DCT.Term("spatial"))
	is.Equal(len(spatials), 1)

	spatial := spatials[0]
	is.True(g.Has(spatial, rdf.DCT.Term("title"), rdf.LangLiteral("aragon", "es")))
	is.True(g.Has(spatial, rdf.Aragodef.Term("ComunidadAutonoma"), rdf.LangLiteral("aragon2", "es")))
	is.True(g.Has(spatial, rdf.RDF.Term("resource"), rdf.Literal("http://opendata.aragon.es/recurso/territorio/ComunidadAutonoma/Aragon")))
}

func TestGraphFromDatasetTemporalInterval(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)

	dataset := domain.Dataset{
		Name: "paro-registrado",
		Extras: []domain.Extra{
			{Key: "TemporalFrom", Value: "2010-01-01"},
			{Key: "TemporalUntil", Value: "2020-12-31"},
		},
	}
	ref := quad.IRI("http://opendata.aragon.es/catalogo/paro-registrado")

	err := p.GraphFromDataset(context.Background(), &dataset, ref)
	is.NoErr(err)

	temporals := g.Objects(quad.Value(ref), rdf.DCT.Term("temporal"))
	is.Equal(len(temporals), 1)

	intervals := g.Objects(temporals[0], rdf.Time.Term("Interval"))
	is.Equal(len(intervals), 1)

	interval := intervals[0]
	is.True(g.Has(interval, rdf.RDF.Term("type"), quad.Value(rdf.DCT.Term("PeriodOfTime"))))

	beginnings := g.Objects(interval, rdf.Time.Term("hasBeginning"))
	is.Equal(len(beginnings), 1)
	instants := g.Objects(beginnings[0], rdf.Time.Term("Instant"))
	is.Equal(len(instants), 1)
	is.True(g.Has(instants[0], rdf.Time.Term("inXSDDate"), rdf.TypedLiteral("2010-01-01", rdf.XSD.Term("date"))))

	endings := g.Objects(interval, rdf.Time.Term("hasEnd"))
	is.Equal(len(endings), 1)
}

func TestGraphFromDatasetReferences(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)

	dataset := domain.Dataset{
		Name: "paro-registrado",
		Extras: []domain.Extra{
			{Key: "Granularity", Value: "Municipios"},
			{Key: "Data Dictionary", Value: "El diccionario del dato se encuentra en la siguiente url"},
			{Key: "Data Dictionary URL0", Value: "http://example.org/diccionario"},
		},
	}
	ref := quad.IRI("http://opendata.aragon.es/catalogo/paro-registrado")

	err := p.GraphFromDataset(context.Background(), &dataset, ref)
	is.NoErr(err)

	references := g.Objects(quad.Value(ref), rdf.DCT.Term("references"))
	is.Equal(len(references), 2)

	is.True(g.Has(references[0], rdf.RDFS.Term("label"), rdf.LangLiteral("Granularity", "es")))
	is.True(g.Has(references[0], rdf.RDFS.Term("value"), rdf.LangLiteral("Municipios", "es")))

	is.True(g.Has(references[1], rdf.RDFS.Term("label"), rdf.LangLiteral("Data Dictionary", "es")))
	is.True(g.Has(references[1], rdf.RDF.Term("resource"), rdf.Literal("http://example.org/diccionario")))
}

func TestGraphFromDatasetDistributions(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)

	dataset := domain.Dataset{
		Name: "paro-registrado",
		Resources: []domain.Resource{
			{
				Name:          "CSV completo",
				URL:           "http://example.org/view",
				DownloadURL:   "http://example.org/data.csv",
				Format:        "CSV",
				MimeTypeInner: "text/csv",
			},
		},
	}
	ref := quad.IRI("http://opendata.aragon.es/catalogo/paro-registrado")

	err := p.GraphFromDataset(context.Background(), &dataset, ref)
	is.NoErr(err)

	distributions := g.Objects(quad.Value(ref), rdf.DCAT.Term("Distribution"))
	is.Equal(len(distributions), 1)

	dist := distributions[0]
	expectedURI := "http://opendata.aragon.es/catalogo/paro-registrado/recurso/CSV%20completo"
	is.Equal(rdf.TermString(dist), expectedURI)
	is.True(g.Has(dist, rdf.DCT.Term("identifier"), rdf.TypedLiteral(expectedURI, rdf.XSD.Term("anyURI"))))
	is.True(g.Has(dist, rdf.DCT.Term("title"), rdf.LangLiteral("CSV completo", "es")))
	is.True(g.Has(dist, rdf.DCAT.Term("downloadURL"), rdf.TypedLiteral("http://example.org/data.csv", rdf.XSD.Term("anyURI"))))
	is.True(g.Has(dist, rdf.DCAT.Term("accessURL"), rdf.TypedLiteral("http://example.org/view", rdf.XSD.Term("anyURI"))))

	formatNodes := g.Objects(dist, rdf.DCT.Term("format"))
	is.Equal(len(formatNodes), 1)
	mediaTypes := g.Objects(formatNodes[0], rdf.DCT.Term("MediaType"))
	is.Equal(len(mediaTypes), 1)
	is.True(g.Has(mediaTypes[0], rdf.RDFS.Term("label"), rdf.Literal("CSV")))
	is.True(g.Has(mediaTypes[0], rdf.RDFS.Term("value"), rdf.Literal("text/csv")))
}

func TestGraphFromDatasetSkipsAccessURLEqualToDownloadURL(t *testing.T) {
	is, g, p := dcatTestSetup(t, nil)

	dataset := domain.Dataset{
		Name: "paro-registrado",
		Resources: []domain.Resource{
			{
				URI:         "http://example.org/recurso/1",
				URL:         "http://example.org/data.csv",
				DownloadURL: "http://example.org/data.csv",
			},
		},
	}
	ref := quad.IRI("http://opendata.aragon.es/catalogo/paro-registrado")

	err := p.GraphFromDataset(context.Background(), &dataset, ref)
	is.NoErr(err)

	dist := quad.Value(quad.IRI("http://example.org/recurso/1"))
	is.Equal(len(g.Objects(dist, rdf.DCAT.Term("downloadURL"))), 1)
	is.Equal(len(g.Objects(dist, rdf.DCAT.Term("accessURL"))), 0)
}

func TestGraphFromCatalogUsesSiteFallbacks(t *testing.T) {
	is := is.New(t)
	g := rdf.NewGraph()

	opts := Options{
		CatalogURI:      "http://opendata.aragon.es",
		SiteTitle:       "Aragón Open Data",
		SiteDescription: "Datos abiertos de Aragón",
		SiteURL:         "http://opendata.aragon.es",
	}

	search := &searchProviderMock{modified: "2023-04-01T10:00:00"}
	base := NewRDFProfile(g, opts, zerolog.Logger{}, nil, nil, nil, search)
	p := NewEuropeanDCATAPProfile(base)

	ref := quad.IRI("http://opendata.aragon.es/catalogo")
	err := p.GraphFromCatalog(context.Background(), nil, ref)
	is.NoErr(err)

	refv := quad.Value(ref)
	is.True(g.Has(refv, rdf.RDF.Term("type"), quad.Value(rdf.DCAT.Term("Catalog"))))
	is.True(g.Has(refv, rdf.DCT.Term("title"), rdf.Literal("Aragón Open Data")))
	is.True(g.Has(refv, rdf.FOAF.Term("homepage"), quad.Value(quad.IRI("http://opendata.aragon.es"))))
	is.True(g.Has(refv, rdf.DCT.Term("language"), rdf.Literal("en"))) // locale defaults to en
	is.True(g.Has(refv, rdf.DCT.Term("modified"), rdf.TypedLiteral("2023-04-01T10:00:00", rdf.XSD.Term("dateTime"))))
}

func TestGraphFromCatalogPrefersCatalogValues(t *testing.T) {
	is := is.New(t)
	g := rdf.NewGraph()

	opts := Options{SiteTitle: "fallback title"}
	base := NewRDFProfile(g, opts, zerolog.Logger{}, nil, nil, nil, nil)
	p := NewEuropeanDCATAPProfile(base)

	catalog := &domain.Catalog{Title: "Catálogo IAEST"}
	ref := quad.IRI("http://opendata.aragon.es/catalogo")

	err := p.GraphFromCatalog(context.Background(), catalog, ref)
	is.NoErr(err)

	is.True(g.Has(quad.Value(ref), rdf.DCT.Term("title"), rdf.Literal("Catálogo IAEST")))
	is.Equal(len(g.Objects(quad.Value(ref), rdf.DCT.Term("title"))), 1)
}

type searchProviderMock struct {
	modified string
}

func (s *searchProviderMock) LastModified(ctx context.Context) (string, error) {
	return s.modified, nil
}

func dcatTestSetup(t *testing.T, groupRegister groups.Register) (*is.I, *rdf.Graph, *EuropeanDCATAPProfile) {
	is := is.New(t)
	g := rdf.NewGraph()

	formatRegister, err := formats.NewRegister(nil)
	is.NoErr(err)

	licenseRegister, err := licenses.NewRegister(nil)
	is.NoErr(err)

	opts := Options{CatalogURI: "http://opendata.aragon.es", NormalizeFormats: true}
	base := NewRDFProfile(g, opts, zerolog.Logger{}, licenseRegister, groupRegister, formatRegister, nil)

	return is, g, NewEuropeanDCATAPProfile(base)
}

func newDatasetNode(g *rdf.Graph) quad.Value {
	node := quad.Value(quad.IRI("http://example.org/ds"))
	g.Add(node, rdf.RDF.Term("type"), quad.Value(rdf.DCAT.Term("Dataset")))
	return node
}
