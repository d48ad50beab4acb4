// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/asn1spec/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the catalog to catalogDir/export.yaml. It supports the
// same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	blocks, err := s.exportBlocks(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, "export.yaml")
	data, err := yaml.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the catalog to catalogDir/export.json. It supports the
// same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	blocks, err := s.exportBlocks(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, "export.json")
	data, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportBlocks(ctx context.Context, opts QueryOptions) ([]types.Block, error) {
	opts.MaxResults = exportLimit
	blocks, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return blocks, nil
}
