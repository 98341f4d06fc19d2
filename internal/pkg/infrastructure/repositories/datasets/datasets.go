package datasets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aragonopendata/iaest-dcat/internal/pkg/domain"
)

// Store keeps the dataset records the mapping layer reads from and writes
// to. Persistence and search belong to the catalog, not to the mapping
// layer, so the canonical implementation is in-memory.
//
//go:generate moq -rm -out datasetstore_mock.go . Store
type Store interface {
	Upsert(ctx context.Context, dataset domain.Dataset) error
	GetAll(ctx context.Context) ([]domain.Dataset, error)
	GetByName(ctx context.Context, name string) (*domain.Dataset, error)
	LastModified(ctx context.Context) (string, error)
}

// NewStore returns an empty in-memory store.
func NewStore() Store {
	return &store{byName: map[string]int{}}
}

type store struct {
	mutex    sync.Mutex
	datasets []domain.Dataset
	byName   map[string]int
}

func (s *store) Upsert(ctx context.Context, dataset domain.Dataset) error {
	if dataset.Name == "" {
		return fmt.Errorf("dataset has no name")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if idx, ok := s.byName[dataset.Name]; ok {
		s.datasets[idx] = dataset
		return nil
	}

	s.byName[dataset.Name] = len(s.datasets)
	s.datasets = append(s.datasets, dataset)
	return nil
}

func (s *store) GetAll(ctx context.Context) ([]domain.Dataset, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	all := make([]domain.Dataset, len(s.datasets))
	copy(all, s.datasets)
	return all, nil
}

func (s *store) GetByName(ctx context.Context, name string) (*domain.Dataset, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("no such dataset: %s", name)
	}

	dataset := s.datasets[idx]
	return &dataset, nil
}

// LastModified returns the most recent metadata_modified value over all
// stored datasets, or the empty string for an empty store. Timestamps are
// ISO formatted so a lexical comparison is a chronological one.
func (s *store) LastModified(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	mostRecent := ""
	for _, d := range s.datasets {
		if strings.Compare(d.MetadataModified, mostRecent) > 0 {
			mostRecent = d.MetadataModified
		}
	}

	return mostRecent, nil
}
