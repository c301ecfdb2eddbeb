// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/goflow/pkg/types"
)

// Manifest lists several conversions to run in one invocation. Shared
// settings apply to every job that does not set its own.
//
//	output_dir: ../public/data
//	organism: Saccharomyces cerevisiae
//	jobs:
//	  - experiment_id: 1
//	    enrichment: heat/enrichment.csv
//	    genes: heat/genes.csv
//	    mapping: heat/mapping.tsv
//	    experiment_name: Heat shock
type Manifest struct {
	OutputDir string                `yaml:"output_dir"`
	Organism  string                `yaml:"organism"`
	Catalog   string                `yaml:"catalog"`
	Jobs      []types.ConvertConfig `yaml:"jobs"`

	// dir is the manifest's directory; relative paths resolve against it.
	dir string
}

// LoadManifest reads a YAML batch manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest %s has no jobs", path)
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

// Configs returns the jobs with shared defaults applied and relative paths
// resolved against the manifest's directory.
func (m *Manifest) Configs() []types.ConvertConfig {
	cfgs := make([]types.ConvertConfig, len(m.Jobs))
	for i, job := range m.Jobs {
		if job.OutputDir == "" {
			job.OutputDir = m.OutputDir
		}
		if job.OutputDir == "" {
			job.OutputDir = types.DefaultOutputDir
		}
		if job.Organism == "" {
			job.Organism = m.Organism
		}
		if job.CatalogPath == "" {
			job.CatalogPath = m.Catalog
		}
		job.EnrichmentPath = absUnder(m.dir, job.EnrichmentPath)
		job.GenesPath = absUnder(m.dir, job.GenesPath)
		job.MappingPath = absUnder(m.dir, job.MappingPath)
		job.OutputDir = absUnder(m.dir, job.OutputDir)
		job.CatalogPath = absUnder(m.dir, job.CatalogPath)
		cfgs[i] = job
	}
	return cfgs
}

// RunBatch runs every job in order and stops at the first failure. Results
// of the jobs that completed are returned alongside the error.
func (r *Runner) RunBatch(ctx context.Context, m *Manifest) ([]*Result, error) {
	cfgs := m.Configs()
	results := make([]*Result, 0, len(cfgs))
	for i, cfg := range cfgs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fmt.Fprintf(r.out(), "[%d/%d] experiment %d\n", i+1, len(cfgs), cfg.ExperimentID)
		res, err := r.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("job %d (experiment %d): %w", i+1, cfg.ExperimentID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// absUnder resolves p against dir unless it is empty or already absolute.
func absUnder(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
