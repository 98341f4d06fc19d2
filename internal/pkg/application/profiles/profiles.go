package profiles

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/rdf"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/formats"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/groups"
	"github.com/aragonopendata/iaest-dcat/internal/pkg/infrastructure/repositories/licenses"
	"github.com/cayleygraph/quad"
	"github.com/rs/zerolog"
	geojson "github.com/twpayne/go-geom/encoding/geojson"
	wkt "github.com/twpayne/go-geom/encoding/wkt"
)

// Profile maps between an RDF graph and dataset records. Profiles are
// applied in a fixed sequence to the same graph/record pair, and each one
// may read and further mutate what the previous one produced.
type Profile interface {
	ParseDataset(ctx context.Context, dataset *domain.Dataset, ref quad.Value) error
	GraphFromDataset(ctx context.Context, dataset *domain.Dataset, ref quad.IRI) error
	GraphFromCatalog(ctx context.Context, catalog *domain.Catalog, ref quad.IRI) error
}

// Options is the configuration every profile pass reads. Site fields are
// fallbacks for catalog-level values.
type Options struct {
	CatalogURI        string
	NormalizeFormats  bool
	CompatibilityMode bool
	SiteTitle         string
	SiteDescription   string
	SiteURL           string
	SiteLocale        string
}

// SearchProvider supplies the most recent modification timestamp over the
// indexed datasets, used on the catalog node.
type SearchProvider interface {
	LastModified(ctx context.Context) (string, error)
}

// RDFProfile carries the graph and record accessors shared by concrete
// profiles. It is not a profile itself; it is embedded by one.
type RDFProfile struct {
	g        *rdf.Graph
	opts     Options
	log      zerolog.Logger
	licenses licenses.Register
	groups   groups.Register
	formats  formats.Register
	search   SearchProvider

	// one-shot snapshot of the license register, built on first use
	licenseCache []licenses.License
}

// NewRDFProfile wires a base profile around a graph and its collaborators.
func NewRDFProfile(g *rdf.Graph, opts Options, logger zerolog.Logger,
	licenseRegister licenses.Register, groupRegister groups.Register,
	formatRegister formats.Register, search SearchProvider) RDFProfile {

	if opts.SiteLocale == "" {
		opts.SiteLocale = "en"
	}

	return RDFProfile{
		g:        g,
		opts:     opts,
		log:      logger,
		licenses: licenseRegister,
		groups:   groupRegister,
		formats:  formatRegister,
		search:   search,
	}
}

// Graph exposes the graph a profile reads from and writes to.
func (p *RDFProfile) Graph() *rdf.Graph {
	return p.g
}

// Datasets enumerates all dcat:Dataset nodes on the graph.
func (p *RDFProfile) Datasets() []quad.Value {
	return p.g.Subjects(rdf.RDF.Term("type"), quad.Value(rdf.DCAT.Term("Dataset")))
}

func (p *RDFProfile) distributions(dataset quad.Value) []quad.Value {
	return p.g.Objects(dataset, rdf.DCAT.Term("distribution"))
}

func (p *RDFProfile) themes(dataset quad.Value) []quad.Value {
	return p.g.Objects(dataset, rdf.DCAT.Term("theme"))
}

// object returns the first object for this subject and predicate, or nil.
func (p *RDFProfile) object(subject quad.Value, predicate quad.IRI) quad.Value {
	return p.g.Object(subject, predicate)
}

// objectValue returns the string value of the first object, or the empty
// string if there is none. When multiple objects exist the first one in
// graph iteration order wins; callers must not rely on a particular
// tie-break.
func (p *RDFProfile) objectValue(subject quad.Value, predicate quad.IRI) string {
	obj := p.g.Object(subject, predicate)
	if obj == nil {
		return ""
	}
	return rdf.TermString(obj)
}

// objectValueInt parses the first object as an integer. Unparsable values
// yield nil, never an error.
func (p *RDFProfile) objectValueInt(subject quad.Value, predicate quad.IRI) *int64 {
	value := p.objectValue(subject, predicate)
	if value == "" {
		return nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// objectValueList returns the string values of all objects, in graph
// iteration order, without deduplication.
func (p *RDFProfile) objectValueList(subject quad.Value, predicate quad.IRI) []string {
	objs := p.g.Objects(subject, predicate)
	values := make([]string, 0, len(objs))
	for _, o := range objs {
		values = append(values, rdf.TermString(o))
	}
	return values
}

// timeInterval resolves the start and end dates of a dct:temporal style
// object. The schema.org startDate/endDate pair is checked first on each
// interval node; the W3C time ontology hasBeginning/hasEnd pair is the
// fallback. With several interval nodes and no schema.org match, the last
// node's values win.
func (p *RDFProfile) timeInterval(subject quad.Value, predicate quad.IRI) (string, string) {
	startDate := ""
	endDate := ""

	for _, interval := range p.g.Objects(subject, predicate) {
		startDate = p.objectValue(interval, rdf.Schema.Term("startDate"))
		endDate = p.objectValue(interval, rdf.Schema.Term("endDate"))

		if startDate != "" || endDate != "" {
			return startDate, endDate
		}

		startNodes := p.g.Objects(interval, rdf.Time.Term("hasBeginning"))
		endNodes := p.g.Objects(interval, rdf.Time.Term("hasEnd"))

		if len(startNodes) > 0 {
			startDate = p.objectValue(startNodes[0], rdf.Time.Term("inXSDDateTime"))
		}
		if len(endNodes) > 0 {
			endDate = p.objectValue(endNodes[0], rdf.Time.Term("inXSDDateTime"))
		}
	}

	return startDate, endDate
}

type agentDetails struct {
	URI   string
	Name  string
	Email string
	URL   string
	Type  string
	Title string
}

// publisher resolves a dct:publisher style foaf:Agent. Absent sub-fields
// stay empty strings; the URI is only set when the agent node carries
// portable IRI identity.
func (p *RDFProfile) publisher(subject quad.Value, predicate quad.IRI) agentDetails {
	publisher := agentDetails{}

	for _, agent := range p.g.Objects(subject, predicate) {
		if rdf.IsIRI(agent) {
			publisher.URI = rdf.TermString(agent)
		} else {
			publisher.URI = ""
		}

		publisher.Name = p.objectValue(agent, rdf.FOAF.Term("name"))
		publisher.Email = p.objectValue(agent, rdf.FOAF.Term("mbox"))
		publisher.URL = p.objectValue(agent, rdf.FOAF.Term("homepage"))
		publisher.Type = p.objectValue(agent, rdf.DCT.Term("type"))
		publisher.Title = p.objectValue(agent, rdf.DCT.Term("title"))
	}

	return publisher
}

type contactDetails struct {
	URI   string
	Name  string
	Email string
}

// contact resolves a vcard shaped contact point.
func (p *RDFProfile) contact(subject quad.Value, predicate quad.IRI) contactDetails {
	contact := contactDetails{}

	for _, agent := range p.g.Objects(subject, predicate) {
		if rdf.IsIRI(agent) {
			contact.URI = rdf.TermString(agent)
		} else {
			contact.URI = ""
		}

		contact.Name = p.objectValue(agent, rdf.VCARD.Term("fn"))
		contact.Email = p.objectValue(agent, rdf.VCARD.Term("hasEmail"))
	}

	return contact
}

type spatialDetails struct {
	URI  string
	Text string
	Geom string
}

// spatial resolves a dct:spatial object. Geometries always come back as
// GeoJSON: literals already in GeoJSON pass through, WKT literals are
// converted. The first successfully parsed geometry wins and malformed
// input is swallowed.
func (p *RDFProfile) spatial(subject quad.Value, predicate quad.IRI) spatialDetails {
	details := spatialDetails{}

	for _, spatial := range p.g.Objects(subject, predicate) {
		if rdf.IsIRI(spatial) {
			details.URI = rdf.TermString(spatial)
		}
		if rdf.IsLiteral(spatial) {
			details.Text = rdf.TermString(spatial)
		}

		if !p.g.Has(spatial, rdf.RDF.Term("type"), quad.Value(rdf.DCT.Term("Location"))) {
			continue
		}

		for _, geometry := range p.g.Objects(spatial, rdf.LOCN.Term("geometry")) {
			datatype := rdf.Datatype(geometry)

			if details.Geom == "" && (datatype == rdf.GeoJSONMediaType || datatype == "") {
				value := rdf.TermString(geometry)
				if json.Valid([]byte(value)) {
					details.Geom = value
				}
			}

			if details.Geom == "" && datatype == rdf.GSP.Term("wktLiteral") {
				if geoJSON, ok := wktToGeoJSON(rdf.TermString(geometry)); ok {
					details.Geom = geoJSON
				}
			}
		}

		for _, label := range p.g.Objects(spatial, rdf.SKOS.Term("prefLabel")) {
			details.Text = rdf.TermString(label)
		}
		for _, label := range p.g.Objects(spatial, rdf.RDFS.Term("label")) {
			details.Text = rdf.TermString(label)
		}
	}

	return details
}

func wktToGeoJSON(value string) (string, bool) {
	geometry, err := wkt.Unmarshal(value)
	if err != nil {
		return "", false
	}

	encoded, err := geojson.Marshal(geometry)
	if err != nil {
		return "", false
	}

	return string(encoded), true
}

// license resolves the dataset's declared dct:license reference against the
// license register. The first register entry whose id equals the declared
// reference wins; no match yields two empty strings. The register snapshot
// is taken once per profile instance.
func (p *RDFProfile) license(datasetRef quad.Value) (string, string) {
	declared := p.objectValue(datasetRef, rdf.DCT.Term("license"))
	p.log.Debug().Msgf("resolving declared license %s", declared)

	if p.licenseCache == nil && p.licenses != nil {
		p.licenseCache = p.licenses.Licenses()
	}

	for _, l := range p.licenseCache {
		if l.ID == declared {
			return l.ID, l.Title
		}
	}

	return "", ""
}

// distributionFormat resolves the media type and format label of a
// distribution.
//
// The media type is checked in this order: the literal value of
// dcat:mediaType, the literal value of dct:format when it contains a slash,
// and the rdf:value of a dct:format node typed dct:IMT. The label comes
// from a slash-free dct:format literal, or the rdfs:label of the typed IMT
// node.
//
// With normalize set, both values are looked up in the format register and
// a hit replaces the label with the register's canonical one. Misses pass
// through unchanged.
func (p *RDFProfile) distributionFormat(distribution quad.Value, normalize bool) (string, string) {
	imt := p.objectValue(distribution, rdf.DCAT.Term("mediaType"))
	label := ""

	format := p.object(distribution, rdf.DCT.Term("format"))

	if format != nil && rdf.IsLiteral(format) {
		value := rdf.TermString(format)
		if imt == "" && strings.Contains(value, "/") {
			imt = value
		} else {
			label = value
		}
	} else if format != nil {
		if p.object(format, rdf.RDF.Term("type")) == quad.Value(rdf.DCT.Term("IMT")) {
			if imt == "" {
				imt = p.objectValue(format, rdf.RDF.Term("value"))
			}
			label = p.objectValue(format, rdf.RDFS.Term("label"))
		}
	}

	if (imt != "" || label != "") && normalize && p.formats != nil {
		if f, ok := p.formats.Lookup(imt); ok {
			label = f.Label
		} else if f, ok := p.formats.Lookup(label); ok {
			label = f.Label
		}
	}

	return imt, label
}

// tripleItem binds a record key to the predicate it serializes to, with
// fallback keys tried in order when the primary key has no value.
type tripleItem struct {
	Key       string
	Predicate quad.IRI
	Fallbacks []string
}

type valueSource interface {
	Value(key string) string
}

func (p *RDFProfile) addTriplesFromDict(source valueSource, subject quad.Value, items []tripleItem) {
	for _, item := range items {
		p.addTripleFromDict(source, subject, item, p.addPlainTriple)
	}
}

func (p *RDFProfile) addDateTriplesFromDict(source valueSource, subject quad.Value, items []tripleItem) {
	for _, item := range items {
		p.addTripleFromDict(source, subject, item, p.addDateTriple)
	}
}

func (p *RDFProfile) addListTriplesFromDict(source valueSource, subject quad.Value, items []tripleItem) {
	for _, item := range items {
		p.addTripleFromDict(source, subject, item, p.addListTriple)
	}
}

func (p *RDFProfile) addTripleFromDict(source valueSource, subject quad.Value, item tripleItem, add func(quad.Value, quad.IRI, string)) {
	value := source.Value(item.Key)

	for _, fallback := range item.Fallbacks {
		if value != "" {
			break
		}
		value = source.Value(fallback)
	}

	if value != "" {
		add(subject, item.Predicate, value)
	}
}

func (p *RDFProfile) addPlainTriple(subject quad.Value, predicate quad.IRI, value string) {
	p.g.Add(subject, predicate, rdf.Literal(value))
}

// addListTriple writes one triple per item of a multi-valued field. The
// value is accepted as a JSON encoded list (scalars are wrapped into a
// singleton), a comma separated list, or a single literal.
func (p *RDFProfile) addListTriple(subject quad.Value, predicate quad.IRI, value string) {
	for _, item := range splitListValue(value) {
		p.g.Add(subject, predicate, rdf.Literal(item))
	}
}

func splitListValue(value string) []string {
	var decoded interface{}
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		switch v := decoded.(type) {
		case []interface{}:
			items := make([]string, 0, len(v))
			for _, entry := range v {
				items = append(items, stringify(entry))
			}
			return items
		case float64, bool, string:
			return []string{stringify(v)}
		}
	}

	if strings.Contains(value, ",") {
		return strings.Split(value, ",")
	}

	return []string{value}
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}

// addDateTriple writes a date value as an xsd:dateTime typed literal.
// Partial dates are completed with the lenient parser; when parsing fails
// the raw string is written as an untyped literal instead.
func (p *RDFProfile) addDateTriple(subject quad.Value, predicate quad.IRI, value string) {
	if value == "" {
		return
	}

	iso, err := parseDate(value)
	if err != nil {
		p.g.Add(subject, predicate, rdf.Literal(value))
		return
	}

	p.g.Add(subject, predicate, rdf.TypedLiteral(iso, rdf.XSD.Term("dateTime")))
}

// lastCatalogModification returns the most recent modification timestamp of
// any indexed dataset, or the empty string when the search collaborator has
// nothing to offer.
func (p *RDFProfile) lastCatalogModification(ctx context.Context) string {
	if p.search == nil {
		return ""
	}

	modified, err := p.search.LastModified(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to look up the last catalog modification")
		return ""
	}

	return modified
}
