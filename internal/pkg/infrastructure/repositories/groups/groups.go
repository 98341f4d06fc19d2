package groups

import (
	"fmt"
	"io"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
	"gopkg.in/yaml.v2"
)

// Register resolves theme identifiers to catalog groups. Unlike every other
// lookup in the mapping layer, a miss here is an error: the caller aborts
// the dataset being parsed.
//
//go:generate moq -rm -out groupsregister_mock.go . Register
type Register interface {
	Get(identifier string) (*domain.Group, error)
}

type groupEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	DisplayName string `yaml:"display_name"`
}

// NewRegister reads a YAML group list. Identifiers resolve against both the
// group id and its name.
func NewRegister(input io.Reader) (Register, error) {
	buf, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read group register: %s", err.Error())
	}

	var entries []groupEntry
	if err := yaml.Unmarshal(buf, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse group register: %s", err.Error())
	}

	r := &register{groups: map[string]domain.Group{}}
	for _, e := range entries {
		displayName := e.DisplayName
		if displayName == "" {
			displayName = e.Title
		}
		g := domain.Group{ID: e.ID, Name: e.Name, Title: e.Title, DisplayName: displayName}
		if e.ID != "" {
			r.groups[e.ID] = g
		}
		if e.Name != "" {
			r.groups[e.Name] = g
		}
	}

	return r, nil
}

type register struct {
	groups map[string]domain.Group
}

func (r *register) Get(identifier string) (*domain.Group, error) {
	g, ok := r.groups[identifier]
	if !ok {
		return nil, fmt.Errorf("no group matches identifier %s", identifier)
	}
	return &g, nil
}
