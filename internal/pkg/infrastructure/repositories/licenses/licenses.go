package licenses

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// License is one entry of the license register.
type License struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Register is the ordered license register the mapping layer resolves
// declared license references against. The register is small and read-only;
// callers scan it linearly.
type Register interface {
	Licenses() []License
}

// NewRegister reads a YAML license list. A nil reader yields the built-in
// register.
func NewRegister(input io.Reader) (Register, error) {
	if input == nil {
		return &register{licenses: defaultLicenses}, nil
	}

	buf, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read license register: %s", err.Error())
	}

	r := &register{}
	if err := yaml.Unmarshal(buf, &r.licenses); err != nil {
		return nil, fmt.Errorf("failed to parse license register: %s", err.Error())
	}

	return r, nil
}

type register struct {
	licenses []License
}

func (r *register) Licenses() []License {
	return r.licenses
}

var defaultLicenses = []License{
	{ID: "cc-by", Title: "Creative Commons Attribution", URL: "http://www.opendefinition.org/licenses/cc-by"},
	{ID: "cc-by-sa", Title: "Creative Commons Attribution Share-Alike", URL: "http://www.opendefinition.org/licenses/cc-by-sa"},
	{ID: "cc-zero", Title: "Creative Commons CCZero", URL: "http://www.opendefinition.org/licenses/cc-zero"},
	{ID: "cc-nc", Title: "Creative Commons Non-Commercial (Any)", URL: "http://creativecommons.org/licenses/by-nc/2.0/"},
	{ID: "odc-pddl", Title: "Open Data Commons Public Domain Dedication and License (PDDL)", URL: "http://www.opendefinition.org/licenses/odc-pddl"},
	{ID: "odc-odbl", Title: "Open Data Commons Open Database License (ODbL)", URL: "http://www.opendefinition.org/licenses/odc-odbl"},
	{ID: "odc-by", Title: "Open Data Commons Attribution License", URL: "http://www.opendefinition.org/licenses/odc-by"},
	{ID: "other-open", Title: "Other (Open)"},
	{ID: "other-pd", Title: "Other (Public Domain)"},
	{ID: "other-at", Title: "Other (Attribution)"},
	{ID: "notspecified", Title: "License not specified"},
}
