package domain

import (
	"encoding/json"
	"strconv"
)

// Description is the flat DCAT-AP flavoured JSON document the IAEST
// federation endpoints exchange. It is a plain JSON subset of DCAT-AP, used
// by the ingestion path that does not speak RDF.
type Description struct {
	Title        string         `json:"title,omitempty"`
	Description  string         `json:"description,omitempty"`
	LandingPage  string         `json:"landingPage,omitempty"`
	Keyword      []string       `json:"keyword,omitempty"`
	Issued       string         `json:"issued,omitempty"`
	Modified     string         `json:"modified,omitempty"`
	Identifier   string         `json:"identifier,omitempty"`
	Publisher    *Agent         `json:"publisher,omitempty"`
	Language     []string       `json:"language,omitempty"`
	Distribution []Distribution `json:"distribution,omitempty"`
}

// Distribution is one downloadable representation in the flat JSON shape.
type Distribution struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	DownloadURL string   `json:"downloadURL,omitempty"`
	AccessURL   string   `json:"accessURL,omitempty"`
	Format      string   `json:"format,omitempty"`
	ByteSize    ByteSize `json:"byteSize,omitempty"`
	License     string   `json:"license,omitempty"`
}

// Agent is the publisher of a description document. Source documents carry
// it either as a plain name string or as a structured object with name and
// mbox; Structured records which of the two variants was read.
type Agent struct {
	Name       string
	MBox       string
	Structured bool
}

type structuredAgent struct {
	Name string `json:"name,omitempty"`
	MBox string `json:"mbox,omitempty"`
}

func (a *Agent) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*a = Agent{Name: name}
		return nil
	}

	var sa structuredAgent
	if err := json.Unmarshal(data, &sa); err != nil {
		return err
	}

	*a = Agent{Name: sa.Name, MBox: sa.MBox, Structured: true}
	return nil
}

func (a Agent) MarshalJSON() ([]byte, error) {
	return json.Marshal(structuredAgent{Name: a.Name, MBox: a.MBox})
}

// ByteSize is a distribution size that source documents encode either as a
// JSON number or as a quoted string. The raw text is kept so that
// non-numeric values can be dropped at conversion time instead of failing
// the whole document.
type ByteSize string

func (b *ByteSize) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = ByteSize(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}

	*b = ByteSize(n.String())
	return nil
}

func (b ByteSize) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		return []byte(b), nil
	}
	return json.Marshal(string(b))
}

// Int returns the numeric value, or false when the size is absent or not an
// integer.
func (b ByteSize) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
