// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"path/filepath"

	"github.com/pdiddy/goflow/internal/genemap"
	"github.com/pdiddy/goflow/internal/goterms"
	"github.com/pdiddy/goflow/internal/registry"
	"github.com/pdiddy/goflow/pkg/types"
)

// IngestDir indexes an experiment that was already converted into dataDir.
// Metadata comes from the directory's experiments.json when it lists the
// experiment.
func (s *Store) IngestDir(ctx context.Context, dataDir string, experimentID int) (IngestSummary, error) {
	terms, err := goterms.ReadFile(filepath.Join(dataDir, goterms.FileName(experimentID)))
	if err != nil {
		return IngestSummary{}, err
	}
	mappings, err := genemap.ReadFile(filepath.Join(dataDir, genemap.FileName(experimentID)))
	if err != nil {
		return IngestSummary{}, err
	}

	rec := types.ExperimentRecord{ExperimentID: experimentID}
	doc, err := registry.New(dataDir).Load()
	if err != nil {
		return IngestSummary{}, err
	}
	if found, ok := doc.Find(experimentID); ok {
		rec = found
	}
	return s.Ingest(ctx, rec, terms, mappings)
}
