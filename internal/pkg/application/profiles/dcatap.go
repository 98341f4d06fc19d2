package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/rdf"
	"github.com/cayleygraph/quad"
	"golang.org/x/exp/slices"
)

// EuropeanDCATAPProfile maps datasets to and from the DCAT-AP application
// profile for European data portals, carrying the statistical metadata
// extensions the IAEST federation uses.
type EuropeanDCATAPProfile struct {
	RDFProfile
}

// NewEuropeanDCATAPProfile returns the profile bound to a graph.
func NewEuropeanDCATAPProfile(base RDFProfile) *EuropeanDCATAPProfile {
	return &EuropeanDCATAPProfile{RDFProfile: base}
}

// statisticalExtras binds the statistical metadata predicates to the extras
// keys their values are stored under. The keys are display labels consumed
// downstream as-is, not machine identifiers.
var statisticalExtras = []struct {
	Key       string
	Predicate quad.IRI
}{
	{"01_IAEST_Tema estadistico", rdf.DCAT.Term("tema_estadistico")},
	{"04_IAEST_Unidad de medida", rdf.DCAT.Term("unidad_medida")},
	{"06_IAEST_Periodo base", rdf.DCAT.Term("periodo_base")},
	{"07_IAEST_Tipo de operacion", rdf.DCAT.Term("tipo_operacion")},
	{"08_IAEST_Tipologia de datos de origen", rdf.DCAT.Term("tipologia_datos_origen")},
	{"09_IAEST_Fuente", rdf.DCAT.Term("fuente")},
	{"11_IAEST_Tratamiento estadistico", rdf.DCAT.Term("tratamiento_estadistico")},
	{"5_IAEST_Legislacion UE", rdf.DCAT.Term("legislacion_ue")},
	{"Data Dictionary URL0", rdf.DCAT.Term("urlDictionary")},
	{"Granularity", rdf.DCAT.Term("granularity")},
	{"LangES", rdf.DCAT.Term("language")},
	{"Spatial", rdf.DCT.Term("spatial")},
	{"TemporalFrom", rdf.DCT.Term("temporalFrom")},
	{"TemporalUntil", rdf.DCT.Term("temporalUntil")},
	{"nameAragopedia", rdf.DCAT.Term("name_aragopedia")},
	{"shortUriAragopedia", rdf.DCAT.Term("short_uri_aragopedia")},
	{"typeAragopedia", rdf.DCAT.Term("type_aragopedia")},
	{"uriAragopedia", rdf.DCAT.Term("uri_aragopedia")},
}

const dataDictionaryKey = "Data Dictionary"
const dataDictionaryNote = "El diccionario del dato se encuentra en la siguiente url"

// aragonTerritoryURL identifies the one region this deployment publishes
// datasets for.
const aragonTerritoryURL = "http://opendata.aragon.es/recurso/territorio/ComunidadAutonoma/Aragon"

// ParseDataset populates a dataset record from a dcat:Dataset node. Every
// step tolerates missing data by leaving the field out, with one exception:
// a theme whose identifier cannot be resolved against the group register
// aborts the whole dataset.
func (p *EuropeanDCATAPProfile) ParseDataset(ctx context.Context, dataset *domain.Dataset, ref quad.Value) error {
	p.log.Debug().Msgf("parsing dataset %s with the IAEST DCAT-AP profile", rdf.TermString(ref))

	dataset.Tags = []domain.Tag{}
	dataset.Extras = []domain.Extra{}
	dataset.Resources = []domain.Resource{}
	dataset.Groups = []domain.Group{}

	// Tags. Keywords that carry commas are re-split into trimmed fragments,
	// which end up after the plain keywords.
	keywords := p.objectValueList(ref, rdf.DCAT.Term("keyword"))
	plain := make([]string, 0, len(keywords))
	var fragments []string
	for _, keyword := range keywords {
		if strings.Contains(keyword, ",") {
			for _, fragment := range strings.Split(keyword, ",") {
				fragments = append(fragments, strings.TrimSpace(fragment))
			}
			continue
		}
		plain = append(plain, keyword)
	}
	for _, keyword := range append(plain, fragments...) {
		dataset.Tags = append(dataset.Tags, domain.Tag{Name: keyword})
	}

	// Basic fields
	if v := p.objectValue(ref, rdf.DCT.Term("title")); v != "" {
		dataset.Title = v
	}
	if v := p.objectValue(ref, rdf.DCT.Term("description")); v != "" {
		dataset.Notes = v
	}
	if v := p.objectValue(ref, rdf.DCAT.Term("landingPage")); v != "" {
		dataset.URL = v
	}
	if v := p.objectValue(ref, rdf.OWL.Term("versionInfo")); v != "" {
		dataset.Version = v
	}

	// Publisher. The author email deliberately comes from a non-standard
	// predicate on the dataset node, not from the agent's mbox.
	publisher := p.publisher(ref, rdf.DCT.Term("publisher"))
	dataset.Maintainer = publisher.Title
	dataset.Author = publisher.Title
	dataset.AuthorEmail = p.objectValue(ref, rdf.DCAT.Term("author_email"))
	dataset.URL = publisher.URL

	// adms:version was the spelling on the first DCAT-AP revision
	if dataset.Version == "" {
		if v := p.objectValue(ref, rdf.ADMS.Term("version")); v != "" {
			dataset.Version = v
		}
	}

	// Statistical metadata extras
	for _, item := range statisticalExtras {
		value := p.objectValue(ref, item.Predicate)
		if value == "" {
			continue
		}

		dataset.AddExtra(item.Key, value)
		if item.Key == "Data Dictionary URL0" {
			dataset.AddExtra(dataDictionaryKey, dataDictionaryNote)
		}
	}

	// License
	licenseID, licenseTitle := p.license(ref)
	dataset.LicenseID = licenseID
	dataset.LicenseTitle = licenseTitle

	// Themes resolve against the group register; a miss is fatal for this
	// dataset.
	for _, theme := range p.themes(ref) {
		themeID := p.objectValue(theme, rdf.DCT.Term("identifier"))
		if themeID == "" {
			continue
		}

		group, err := p.groups.Get(themeID)
		if err != nil {
			return fmt.Errorf("failed to resolve theme %s: %w", themeID, err)
		}

		dataset.Groups = append(dataset.Groups, domain.Group{ID: group.ID})
	}

	// Distributions
	for _, distribution := range p.distributions(ref) {
		dataset.Resources = append(dataset.Resources, p.parseDistribution(distribution))
	}

	if p.opts.CompatibilityMode {
		p.applyCompatibilityMode(dataset)
	}

	return nil
}

func (p *EuropeanDCATAPProfile) parseDistribution(distribution quad.Value) domain.Resource {
	resource := domain.Resource{}

	// Simple values
	if v := p.objectValue(distribution, rdf.DCT.Term("title")); v != "" {
		resource.Name = v
	}
	if v := p.objectValue(distribution, rdf.DCT.Term("description")); v != "" {
		resource.Description = v
	}
	if v := p.objectValue(distribution, rdf.DCAT.Term("downloadURL")); v != "" {
		resource.DownloadURL = v
	}
	if v := p.objectValue(distribution, rdf.DCT.Term("issued")); v != "" {
		resource.Issued = v
	}
	if v := p.objectValue(distribution, rdf.DCT.Term("modified")); v != "" {
		resource.Modified = v
	}
	if v := p.objectValue(distribution, rdf.ADMS.Term("status")); v != "" {
		resource.Status = v
	}
	if v := p.objectValue(distribution, rdf.DCT.Term("rights")); v != "" {
		resource.Rights = v
	}
	if v := p.objectValue(distribution, rdf.DCT.Term("license")); v != "" {
		resource.License = v
	}

	resource.URL = p.objectValue(distribution, rdf.DCAT.Term("accessURL"))
	if resource.URL == "" {
		resource.URL = p.objectValue(distribution, rdf.DCAT.Term("downloadURL"))
	}

	// Multi-valued fields are stored JSON encoded
	lists := []struct {
		set       func(string)
		predicate quad.IRI
	}{
		{func(v string) { resource.Language = v }, rdf.DCT.Term("language")},
		{func(v string) { resource.Documentation = v }, rdf.FOAF.Term("page")},
		{func(v string) { resource.ConformsTo = v }, rdf.DCT.Term("conformsTo")},
	}
	for _, list := range lists {
		values := p.objectValueList(distribution, list.predicate)
		if len(values) > 0 {
			encoded, _ := json.Marshal(values)
			list.set(string(encoded))
		}
	}

	// Format and media type
	imt, label := p.distributionFormat(distribution, p.opts.NormalizeFormats)
	if imt != "" {
		resource.MimeType = imt
	}
	if label != "" {
		resource.Format = label
	} else if imt != "" {
		resource.Format = imt
	}

	resource.Size = p.objectValueInt(distribution, rdf.DCAT.Term("byteSize"))

	// Checksum; with several checksum nodes the last one wins
	for _, checksum := range p.g.Objects(distribution, rdf.SPDX.Term("checksum")) {
		if algorithm := p.objectValue(checksum, rdf.SPDX.Term("algorithm")); algorithm != "" {
			resource.HashAlgorithm = algorithm
		}
		if value := p.objectValue(checksum, rdf.SPDX.Term("checksumValue")); value != "" {
			resource.Hash = value
		}
	}

	if rdf.IsIRI(distribution) {
		resource.URI = rdf.TermString(distribution)
	}

	return resource
}

// applyCompatibilityMode rewrites the record the way older consumers of
// this mapping expect it: certain extras keys gain the legacy prefix and
// the language extra becomes a sorted comma separated string instead of a
// JSON list.
func (p *EuropeanDCATAPProfile) applyCompatibilityMode(dataset *domain.Dataset) {
	for i := range dataset.Extras {
		switch dataset.Extras[i].Key {
		case "issued", "modified", "publisher_name", "publisher_email":
			dataset.Extras[i].Key = domain.LegacyExtraPrefix + dataset.Extras[i].Key
		}

		if dataset.Extras[i].Key == "language" {
			var languages []string
			if err := json.Unmarshal([]byte(dataset.Extras[i].Value), &languages); err == nil {
				slices.Sort(languages)
				dataset.Extras[i].Value = strings.Join(languages, ",")
			}
		}
	}
}

// GraphFromDataset emits the dcat:Dataset node, its distributions and the
// deployment's fixed spatial coverage for one dataset record.
func (p *EuropeanDCATAPProfile) GraphFromDataset(ctx context.Context, dataset *domain.Dataset, ref quad.IRI) error {
	g := p.g
	refv := quad.Value(ref)
	catalogBase := strings.TrimRight(p.opts.CatalogURI, "/")

	g.Add(refv, rdf.RDF.Term("type"), quad.Value(rdf.DCAT.Term("Dataset")))

	if dataset.Title != "" {
		g.Add(refv, rdf.DCT.Term("title"), rdf.LangLiteral(dataset.Title, "es"))
	}
	if dataset.Notes != "" {
		g.Add(refv, rdf.DCT.Term("description"), rdf.LangLiteral(dataset.Notes, "es"))
	}

	for _, group := range dataset.Groups {
		g.Add(refv, rdf.DCAT.Term("theme"), rdf.Literal(group.DisplayName))
	}

	for _, tag := range dataset.Tags {
		g.Add(refv, rdf.DCAT.Term("keyword"), rdf.LangLiteral(tag.Name, "es"))
	}

	identifier := fmt.Sprintf("%s/catalogo/%s", catalogBase, dataset.Name)
	g.Add(refv, rdf.DCT.Term("identifier"), rdf.TypedLiteral(identifier, rdf.XSD.Term("anyURI")))

	p.addDateTriplesFromDict(dataset, refv, []tripleItem{
		{Key: "issued", Predicate: rdf.DCT.Term("issued"), Fallbacks: []string{"metadata_created"}},
		{Key: "modified", Predicate: rdf.DCT.Term("modified"), Fallbacks: []string{"metadata_modified"}},
	})

	var publisher quad.Value
	if dataset.Organization != nil && dataset.Organization.Name != "" {
		publisher = quad.Value(quad.IRI(fmt.Sprintf("%s/catalogo/%s", catalogBase, dataset.Organization.Name)))
	} else {
		publisher = quad.Value(g.NewBNode())
	}
	g.Add(refv, rdf.DCT.Term("publisher"), publisher)

	if dataset.LicenseURL != "" {
		g.Add(refv, rdf.DCT.Term("license"), quad.Value(quad.IRI(dataset.LicenseURL)))
	}

	// Spatial coverage is fixed: this catalog only publishes datasets for
	// one autonomous community.
	spatial := quad.Value(g.NewBNode())
	g.Add(spatial, rdf.DCT.Term("title"), rdf.LangLiteral("aragon", "es"))
	g.Add(spatial, rdf.Aragodef.Term("ComunidadAutonoma"), rdf.LangLiteral("aragon2", "es"))
	g.Add(spatial, rdf.RDF.Term("resource"), rdf.Literal(aragonTerritoryURL))
	g.Add(refv, rdf.DCT.Term("spatial"), spatial)

	p.addTemporal(dataset, refv)
	p.addGranularity(dataset, refv)
	p.addDataDictionary(dataset, refv)

	for i := range dataset.Resources {
		p.addDistribution(dataset, &dataset.Resources[i], i, refv, catalogBase)
	}

	return nil
}

// addTemporal emits the W3C time ontology shaped interval built from the
// TemporalFrom/TemporalUntil extras. The time namespace carries no trailing
// separator; federation consumers expect the directly concatenated terms.
func (p *EuropeanDCATAPProfile) addTemporal(dataset *domain.Dataset, ref quad.Value) {
	start := dataset.Value("TemporalFrom")
	end := dataset.Value("TemporalUntil")
	if start == "" && end == "" {
		return
	}

	g := p.g
	temporal := quad.Value(g.NewBNode())
	interval := quad.Value(g.NewBNode())

	g.Add(temporal, rdf.Time.Term("Interval"), interval)
	g.Add(interval, rdf.RDF.Term("type"), quad.Value(rdf.DCT.Term("PeriodOfTime")))

	if start != "" {
		beginning := quad.Value(g.NewBNode())
		g.Add(interval, rdf.Time.Term("hasBeginning"), beginning)

		instant := quad.Value(g.NewBNode())
		g.Add(beginning, rdf.Time.Term("Instant"), instant)
		g.Add(instant, rdf.Time.Term("inXSDDate"), rdf.TypedLiteral(start, rdf.XSD.Term("date")))
	}

	if end != "" {
		ending := quad.Value(g.NewBNode())
		g.Add(interval, rdf.Time.Term("hasEnd"), ending)

		instant := quad.Value(g.NewBNode())
		g.Add(ending, rdf.Time.Term("Instant"), instant)
		g.Add(instant, rdf.Time.Term("inXSDDate"), rdf.TypedLiteral(end, rdf.XSD.Term("date")))
	}

	g.Add(ref, rdf.DCT.Term("temporal"), temporal)
}

func (p *EuropeanDCATAPProfile) addGranularity(dataset *domain.Dataset, ref quad.Value) {
	granularity := dataset.Value("Granularity")
	if granularity == "" {
		return
	}

	g := p.g
	reference := quad.Value(g.NewBNode())
	g.Add(reference, rdf.RDFS.Term("label"), rdf.LangLiteral("Granularity", "es"))
	g.Add(reference, rdf.RDFS.Term("value"), rdf.LangLiteral(granularity, "es"))
	g.Add(ref, rdf.DCT.Term("references"), reference)
}

func (p *EuropeanDCATAPProfile) addDataDictionary(dataset *domain.Dataset, ref quad.Value) {
	dictionary := dataset.Value(dataDictionaryKey)
	dictionaryURL := dataset.Value("Data Dictionary URL0")
	if dictionary == "" || dictionaryURL == "" {
		return
	}

	g := p.g
	reference := quad.Value(g.NewBNode())
	g.Add(reference, rdf.RDFS.Term("label"), rdf.LangLiteral(dataDictionaryKey, "es"))
	g.Add(reference, rdf.RDFS.Term("value"), rdf.LangLiteral(dictionary, "es"))
	g.Add(reference, rdf.RDF.Term("resource"), rdf.Literal(dictionaryURL))
	g.Add(ref, rdf.DCT.Term("references"), reference)
}

func (p *EuropeanDCATAPProfile) addDistribution(dataset *domain.Dataset, resource *domain.Resource, index int, ref quad.Value, catalogBase string) {
	g := p.g

	uri := resourceURI(dataset, resource, index, catalogBase)
	distribution := quad.Value(quad.IRI(uri))

	g.Add(ref, rdf.DCAT.Term("Distribution"), distribution)
	g.Add(distribution, rdf.DCT.Term("identifier"), rdf.TypedLiteral(uri, rdf.XSD.Term("anyURI")))

	if resource.Name != "" {
		g.Add(distribution, rdf.DCT.Term("title"), rdf.LangLiteral(resource.Name, "es"))
	}
	if resource.Description != "" {
		g.Add(distribution, rdf.DCT.Term("description"), rdf.LangLiteral(resource.Description, "es"))
	}

	if resource.DownloadURL != "" {
		g.Add(distribution, rdf.DCAT.Term("downloadURL"), rdf.TypedLiteral(resource.DownloadURL, rdf.XSD.Term("anyURI")))
	}
	if resource.URL != "" && (resource.DownloadURL == "" || resource.URL != resource.DownloadURL) {
		g.Add(distribution, rdf.DCAT.Term("accessURL"), rdf.TypedLiteral(resource.URL, rdf.XSD.Term("anyURI")))
	}

	if resource.Format != "" {
		formatNode := quad.Value(g.NewBNode())
		mediaType := quad.Value(g.NewBNode())

		if resource.MimeTypeInner != "" {
			g.Add(mediaType, rdf.RDFS.Term("value"), rdf.Literal(resource.MimeTypeInner))
		}
		g.Add(mediaType, rdf.RDFS.Term("label"), rdf.Literal(resource.Format))

		g.Add(formatNode, rdf.DCT.Term("MediaType"), mediaType)
		g.Add(distribution, rdf.DCT.Term("format"), formatNode)
	}
}

func resourceURI(dataset *domain.Dataset, resource *domain.Resource, index int, catalogBase string) string {
	if resource.URI != "" {
		return resource.URI
	}

	name := resource.Name
	if name == "" {
		name = fmt.Sprintf("%d", index)
	}

	return fmt.Sprintf("%s/catalogo/%s/recurso/%s", catalogBase, dataset.Name, url.PathEscape(name))
}

// GraphFromCatalog emits the catalog node. Catalog fields fall back to the
// configured site values, and the modification date is the most recent one
// over the indexed datasets.
func (p *EuropeanDCATAPProfile) GraphFromCatalog(ctx context.Context, catalog *domain.Catalog, ref quad.IRI) error {
	g := p.g
	refv := quad.Value(ref)

	if catalog == nil {
		catalog = &domain.Catalog{}
	}

	g.Add(refv, rdf.RDF.Term("type"), quad.Value(rdf.DCAT.Term("Catalog")))

	items := []struct {
		value     string
		fallback  string
		predicate quad.IRI
		iri       bool
	}{
		{catalog.Title, p.opts.SiteTitle, rdf.DCT.Term("title"), false},
		{catalog.Description, p.opts.SiteDescription, rdf.DCT.Term("description"), false},
		{catalog.Homepage, p.opts.SiteURL, rdf.FOAF.Term("homepage"), true},
		{catalog.Language, p.opts.SiteLocale, rdf.DCT.Term("language"), false},
	}

	for _, item := range items {
		value := item.value
		if value == "" {
			value = item.fallback
		}
		if value == "" {
			continue
		}

		if item.iri {
			g.Add(refv, item.predicate, quad.Value(quad.IRI(value)))
		} else {
			g.Add(refv, item.predicate, rdf.Literal(value))
		}
	}

	if modified := p.lastCatalogModification(ctx); modified != "" {
		p.addDateTriple(refv, rdf.DCT.Term("modified"), modified)
	}

	return nil
}
