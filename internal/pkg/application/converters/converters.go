package converters

import (
	"strconv"
	"strings"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
)

// ToDataset converts a flat federation description into a dataset record.
// The mapping is deliberately shallow; anything the description does not
// carry stays empty on the record.
func ToDataset(description domain.Description) domain.Dataset {
	dataset := domain.Dataset{
		Title: description.Title,
		Notes: description.Description,
		URL:   description.LandingPage,

		Tags:      []domain.Tag{},
		Extras:    []domain.Extra{},
		Resources: []domain.Resource{},
		Groups:    []domain.Group{},
	}

	for _, keyword := range description.Keyword {
		dataset.Tags = append(dataset.Tags, domain.Tag{Name: keyword})
	}

	dataset.AddExtra("iaest_issued", description.Issued)
	dataset.AddExtra("iaest_modified", description.Modified)
	dataset.AddExtra("guid", description.Identifier)

	if publisher := description.Publisher; publisher != nil {
		if !publisher.Structured {
			dataset.AddExtra("iaest_publisher_name", publisher.Name)
		} else if publisher.Name != "" {
			dataset.AddExtra("iaest_publisher_name", publisher.Name)
			dataset.AddExtra("iaest_publisher_email", publisher.MBox)
		}
	}

	dataset.AddExtra("language", strings.Join(description.Language, ","))

	for _, distribution := range description.Distribution {
		resource := domain.Resource{
			Name:        distribution.Title,
			Description: distribution.Description,
			URL:         distribution.DownloadURL,
			Format:      distribution.Format,
		}
		if resource.URL == "" {
			resource.URL = distribution.AccessURL
		}

		if size, ok := distribution.ByteSize.Int(); ok {
			resource.Size = &size
		}

		dataset.Resources = append(dataset.Resources, resource)
	}

	return dataset
}

// FromDataset converts a dataset record back into the flat federation
// shape. The publisher is taken from the extras when present, falling back
// to the record's maintainer.
func FromDataset(dataset domain.Dataset) domain.Description {
	description := domain.Description{
		Title:       dataset.Title,
		Description: dataset.Notes,
		LandingPage: dataset.URL,

		Keyword:      []string{},
		Distribution: []domain.Distribution{},
	}

	for _, tag := range dataset.Tags {
		description.Keyword = append(description.Keyword, tag.Name)
	}

	publisher := domain.Agent{Structured: true}

	for _, extra := range dataset.Extras {
		switch extra.Key {
		case "iaest_issued":
			description.Issued = extra.Value
		case "iaest_modified":
			description.Modified = extra.Value
		case "language":
			description.Language = strings.Split(extra.Value, ",")
		case "iaest_publisher_name":
			publisher.Name = extra.Value
		case "iaest_publisher_email":
			publisher.MBox = extra.Value
		case "guid":
			description.Identifier = extra.Value
		}
	}

	if publisher.Name == "" && dataset.Maintainer != "" {
		publisher.Name = dataset.Maintainer
		if dataset.MaintainerEmail != "" {
			publisher.MBox = dataset.MaintainerEmail
		}
	}
	description.Publisher = &publisher

	for _, resource := range dataset.Resources {
		distribution := domain.Distribution{
			Title:       resource.Name,
			Description: resource.Description,
			Format:      resource.Format,
			// TODO: downloadURL or accessURL depending on resource type?
			AccessURL: resource.URL,
			License:   "cc-by-4.0",
		}
		if resource.Size != nil {
			distribution.ByteSize = domain.ByteSize(strconv.FormatInt(*resource.Size, 10))
		}

		description.Distribution = append(description.Distribution, distribution)
	}

	return description
}
