// Package inventory loads the EC2 instance inventory the cost engine
// simulates against. Sources load fresh on every call; callers that need
// caching layer it themselves and must not mutate loaded instances.
package inventory

import (
	"context"
	"encoding/json"
	"os"

	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// Source provides the instance inventory for a query
type Source interface {
	// Load returns the full inventory. A failed load is fatal to the
	// query: partial data would silently break the rollup invariants.
	Load(ctx context.Context) ([]types.Instance, error)
}

// FileSource reads a JSON inventory file
type FileSource struct {
	Path string
}

// NewFileSource creates a file-backed inventory source
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load implements Source
func (s *FileSource) Load(_ context.Context) ([]types.Instance, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Inventory("read inventory file "+s.Path, err)
	}

	var instances []types.Instance
	if err := json.Unmarshal(data, &instances); err != nil {
		return nil, errors.Inventory("parse inventory file "+s.Path, err)
	}
	return instances, nil
}

// StaticSource serves a fixed in-memory inventory
type StaticSource struct {
	Instances []types.Instance
}

// NewStaticSource creates an in-memory inventory source
func NewStaticSource(instances []types.Instance) *StaticSource {
	return &StaticSource{Instances: instances}
}

// Load implements Source
func (s *StaticSource) Load(_ context.Context) ([]types.Instance, error) {
	return s.Instances, nil
}
