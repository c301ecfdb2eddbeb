//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sampleDir holds a small heat-shock experiment used for smoke runs.
const sampleDir = "testdata/sample"

// Sample converts the sample experiment into public/data with the freshly
// built binary and indexes it into goflow.db.
func Sample() error {
	mg.Deps(Init, Build)

	err := sh.RunV(filepath.Join(binDir, binName), "convert",
		"--enrichment", filepath.Join(sampleDir, "enrichment.csv"),
		"--genes", filepath.Join(sampleDir, "genes.csv"),
		"--mapping", filepath.Join(sampleDir, "go_gene_mapping.tsv"),
		"--experiment-id", "1",
		"--experiment-name", "Sample heat shock",
		"--experiment-desc", "Yeast heat shock response, 30 minutes at 37C",
		"--output-dir", dataDir,
		"--catalog", "goflow.db",
	)
	if err != nil {
		return fmt.Errorf("converting sample: %w", err)
	}
	return nil
}
