package domain

// Tag is a dataset keyword. Order of appearance is preserved and duplicate
// names are allowed.
type Tag struct {
	Name string `json:"name"`
}

// Extra is one entry of the free-form key/value bag that carries fields
// without a first-class slot. Key uniqueness is not enforced here; consumers
// decide what duplicate keys mean.
type Extra struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Group is a catalog group/theme a dataset belongs to.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Organization is the owning organization of a dataset, as supplied by the
// catalog when the record is shown.
type Organization struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Resource is one concrete representation of a dataset, the record-side
// counterpart of a dcat:Distribution. Language, Documentation and ConformsTo
// hold JSON-encoded string lists.
type Resource struct {
	URI           string `json:"uri,omitempty"`
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	URL           string `json:"url,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
	Format        string `json:"format,omitempty"`
	MimeType      string `json:"mimetype,omitempty"`
	MimeTypeInner string `json:"mimetype_inner,omitempty"`
	Size          *int64 `json:"size,omitempty"`
	Hash          string `json:"hash,omitempty"`
	HashAlgorithm string `json:"hash_algorithm,omitempty"`
	Issued        string `json:"issued,omitempty"`
	Modified      string `json:"modified,omitempty"`
	Status        string `json:"status,omitempty"`
	Rights        string `json:"rights,omitempty"`
	License       string `json:"license,omitempty"`
	Language      string `json:"language,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	ConformsTo    string `json:"conforms_to,omitempty"`
}

// Dataset is the record shape exchanged with the catalog store. The parse
// pipeline always leaves Tags, Extras, Resources and Groups non-nil, so an
// empty collection means "none" rather than "unknown".
type Dataset struct {
	ID               string        `json:"id,omitempty"`
	Name             string        `json:"name,omitempty"`
	Title            string        `json:"title,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	URL              string        `json:"url,omitempty"`
	Version          string        `json:"version,omitempty"`
	LicenseID        string        `json:"license_id,omitempty"`
	LicenseTitle     string        `json:"license_title,omitempty"`
	LicenseURL       string        `json:"license_url,omitempty"`
	Maintainer       string        `json:"maintainer,omitempty"`
	MaintainerEmail  string        `json:"maintainer_email,omitempty"`
	Author           string        `json:"author,omitempty"`
	AuthorEmail      string        `json:"author_email,omitempty"`
	MetadataCreated  string        `json:"metadata_created,omitempty"`
	MetadataModified string        `json:"metadata_modified,omitempty"`
	Organization     *Organization `json:"organization,omitempty"`
	Tags             []Tag         `json:"tags"`
	Extras           []Extra       `json:"extras"`
	Resources        []Resource    `json:"resources"`
	Groups           []Group       `json:"groups"`
}

// LegacyExtraPrefix is the prefix older catalog versions used when storing
// mapped fields in extras. Value lookups accept both spellings.
const LegacyExtraPrefix = "dcat_"

// Value resolves a field by its record key: recognized top-level keys are
// checked first, then the extras bag, both with the key itself and with the
// legacy prefix. Returns the empty string if nothing is found.
func (d *Dataset) Value(key string) string {
	if v, ok := d.topLevel(key); ok && v != "" {
		return v
	}

	return extraValue(d.Extras, key)
}

// Extra returns the value of the first extras entry with the given key,
// accepting the legacy prefixed spelling as well.
func (d *Dataset) Extra(key string) string {
	return extraValue(d.Extras, key)
}

// AddExtra appends an entry to the extras bag.
func (d *Dataset) AddExtra(key, value string) {
	d.Extras = append(d.Extras, Extra{Key: key, Value: value})
}

func (d *Dataset) topLevel(key string) (string, bool) {
	switch key {
	case "name":
		return d.Name, true
	case "title":
		return d.Title, true
	case "notes":
		return d.Notes, true
	case "url":
		return d.URL, true
	case "version":
		return d.Version, true
	case "license_id":
		return d.LicenseID, true
	case "license_title":
		return d.LicenseTitle, true
	case "license_url":
		return d.LicenseURL, true
	case "maintainer":
		return d.Maintainer, true
	case "maintainer_email":
		return d.MaintainerEmail, true
	case "author":
		return d.Author, true
	case "author_email":
		return d.AuthorEmail, true
	case "metadata_created":
		return d.MetadataCreated, true
	case "metadata_modified":
		return d.MetadataModified, true
	}
	return "", false
}

func extraValue(extras []Extra, key string) string {
	for _, extra := range extras {
		if extra.Key == key || extra.Key == LegacyExtraPrefix+key {
			return extra.Value
		}
	}
	return ""
}

// Value resolves a resource field by its record key, mirroring the dataset
// level lookup for the keys a resource carries.
func (r *Resource) Value(key string) string {
	switch key {
	case "uri":
		return r.URI
	case "name":
		return r.Name
	case "description":
		return r.Description
	case "url":
		return r.URL
	case "download_url":
		return r.DownloadURL
	case "format":
		return r.Format
	case "mimetype":
		return r.MimeType
	case "mimetype_inner":
		return r.MimeTypeInner
	case "issued":
		return r.Issued
	case "modified":
		return r.Modified
	case "status":
		return r.Status
	case "rights":
		return r.Rights
	case "license":
		return r.License
	case "language":
		return r.Language
	case "documentation":
		return r.Documentation
	case "conforms_to":
		return r.ConformsTo
	}
	return ""
}

// Catalog carries the catalog-level fields serialized on the dcat:Catalog
// node. Unset fields fall back to the site configuration.
type Catalog struct {
	Title       string
	Description string
	Homepage    string
	Language    string
}
