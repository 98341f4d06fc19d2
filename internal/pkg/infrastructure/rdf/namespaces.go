package rdf

import "github.com/cayleygraph/quad"

// Namespace is a base IRI prefix for a vocabulary. Terms are built by
// direct concatenation, so prefixes that lack a trailing separator keep
// that behaviour.
type Namespace string

// Term returns the full IRI for a local name within this namespace.
func (ns Namespace) Term(local string) quad.IRI {
	return quad.IRI(string(ns) + local)
}

// Vocabularies used by the DCAT-AP mapping.
const (
	DCT      Namespace = "http://purl.org/dc/terms/"
	DCAT     Namespace = "http://www.w3.org/ns/dcat#"
	ADMS     Namespace = "http://www.w3.org/ns/adms#"
	VCARD    Namespace = "http://www.w3.org/2006/vcard/ns#"
	FOAF     Namespace = "http://xmlns.com/foaf/0.1/"
	Schema   Namespace = "http://schema.org/"
	Time     Namespace = "http://www.w3.org/2006/time"
	SKOS     Namespace = "http://www.w3.org/2004/02/skos/core#"
	LOCN     Namespace = "http://www.w3.org/ns/locn#"
	GSP      Namespace = "http://www.opengis.net/ont/geosparql#"
	OWL      Namespace = "http://www.w3.org/2002/07/owl#"
	SPDX     Namespace = "http://spdx.org/rdf/terms#"
	RDF      Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS     Namespace = "http://www.w3.org/2000/01/rdf-schema#"
	DC       Namespace = "http://purl.org/dc/elements/1.1/"
	XSD      Namespace = "http://www.w3.org/2001/XMLSchema#"
	DBpedia  Namespace = "http://dbpedia.org/ontology/"
	Aragodef Namespace = "http://opendata.aragon.es/def/Aragopedia.html"
)

// GeoJSONMediaType is the datatype IRI that marks a geometry literal as
// already being GeoJSON encoded.
const GeoJSONMediaType quad.IRI = "https://www.iana.org/assignments/media-types/application/vnd.geo+json"

// Prefixes maps the short prefix names to their namespaces, in the shape
// expected by serializers that support prefix binding.
var Prefixes = map[string]Namespace{
	"dct":      DCT,
	"dcat":     DCAT,
	"adms":     ADMS,
	"vcard":    VCARD,
	"foaf":     FOAF,
	"schema":   Schema,
	"time":     Time,
	"skos":     SKOS,
	"locn":     LOCN,
	"gsp":      GSP,
	"owl":      OWL,
	"rdf":      RDF,
	"rdfs":     RDFS,
	"dc":       DC,
	"dbpedia":  DBpedia,
	"aragodef": Aragodef,
}
