// Package municipality serves the Algerian communes data file.
package municipality

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	dommun "github.com/odhiyaty/odhiyaty/internal/domain/municipality"
)

// Service loads the data file on first use. A failed load is retried on the
// next call; only a successful one is kept.
type Service struct {
	path string

	mu     sync.Mutex
	loaded bool
	raw    []byte
	groups map[string][]string
}

// New creates a service reading the JSON file at path.
func New(path string) *Service {
	return &Service{path: path}
}

func (s *Service) load() ([]byte, map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.raw, s.groups, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("read municipalities %s: %w", s.path, err)
	}
	var records []dommun.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, nil, fmt.Errorf("parse municipalities %s: %w", s.path, err)
	}
	s.raw = raw
	s.groups = dommun.GroupByWilaya(records)
	s.loaded = true
	return s.raw, s.groups, nil
}

// Raw returns the data file as stored.
func (s *Service) Raw() ([]byte, error) {
	raw, _, err := s.load()
	return raw, err
}

// Communes returns the sorted communes of a wilaya, empty when unknown.
func (s *Service) Communes(wilaya string) ([]string, error) {
	_, groups, err := s.load()
	if err != nil {
		return nil, err
	}
	c := groups[strings.TrimSpace(wilaya)]
	if c == nil {
		return []string{}, nil
	}
	return c, nil
}

// Wilayas returns the sorted wilaya names.
func (s *Service) Wilayas() ([]string, error) {
	_, groups, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(groups))
	for w := range groups {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}
