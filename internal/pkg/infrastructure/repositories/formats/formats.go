package formats

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// Format is one entry of the resource format register: a canonical label
// plus the media type it corresponds to.
type Format struct {
	Label    string `yaml:"label"`
	MimeType string `yaml:"mimetype"`
}

// Register normalizes distribution format values. Lookups match exactly,
// on either the media type or the label; a miss leaves the caller's value
// untouched.
type Register interface {
	Lookup(key string) (Format, bool)
}

// NewRegister reads a YAML format list. A nil reader yields the built-in
// register.
func NewRegister(input io.Reader) (Register, error) {
	if input == nil {
		return build(defaultFormats), nil
	}

	buf, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read format register: %s", err.Error())
	}

	var entries []Format
	if err := yaml.Unmarshal(buf, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse format register: %s", err.Error())
	}

	return build(entries), nil
}

func build(entries []Format) *register {
	r := &register{byKey: map[string]Format{}}
	for _, f := range entries {
		if f.MimeType != "" {
			r.byKey[f.MimeType] = f
		}
		if f.Label != "" {
			r.byKey[f.Label] = f
		}
	}
	return r
}

type register struct {
	byKey map[string]Format
}

func (r *register) Lookup(key string) (Format, bool) {
	f, ok := r.byKey[key]
	return f, ok
}

// defaultFormats mirrors the canonical resource format table shipped with
// the catalog.
var defaultFormats = []Format{
	{Label: "CSV", MimeType: "text/csv"},
	{Label: "XML", MimeType: "application/xml"},
	{Label: "JSON", MimeType: "application/json"},
	{Label: "HTML", MimeType: "text/html"},
	{Label: "TXT", MimeType: "text/plain"},
	{Label: "PDF", MimeType: "application/pdf"},
	{Label: "XLS", MimeType: "application/vnd.ms-excel"},
	{Label: "XLSX", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	{Label: "ODS", MimeType: "application/vnd.oasis.opendocument.spreadsheet"},
	{Label: "RDF", MimeType: "application/rdf+xml"},
	{Label: "N3", MimeType: "application/x-n3"},
	{Label: "NT", MimeType: "application/n-triples"},
	{Label: "TSV", MimeType: "text/tab-separated-values"},
	{Label: "GeoJSON", MimeType: "application/vnd.geo+json"},
	{Label: "KML", MimeType: "application/vnd.google-earth.kml+xml"},
	{Label: "SHP", MimeType: "application/x-shapefile"},
	{Label: "ZIP", MimeType: "application/zip"},
	{Label: "PX", MimeType: "application/x-px"},
}
