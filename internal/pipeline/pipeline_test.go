// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/goflow/internal/catalog"
	"github.com/pdiddy/goflow/internal/genemap"
	"github.com/pdiddy/goflow/internal/goterms"
	"github.com/pdiddy/goflow/internal/loader"
	"github.com/pdiddy/goflow/internal/registry"
	"github.com/pdiddy/goflow/pkg/types"
)

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// scenarioInputs writes the single-term heat-shock example into dir.
func scenarioInputs(t *testing.T, dir string) types.ConvertConfig {
	t.Helper()
	return types.ConvertConfig{
		EnrichmentPath: writeFile(t, dir, "enrichment.csv",
			"go_id,term,category,p_value\nGO:0006950,stress response,biological_process,0.0001\n"),
		GenesPath: writeFile(t, dir, "genes.csv",
			"gene_symbol,description,expression_value,p_value\nSSA2,Hsp70 chaperone,2.456,0.01\n"),
		MappingPath: writeFile(t, dir, "mapping.tsv",
			"go_id\tgene_symbols\nGO:0006950\tSSA2,HSP82\n"),
		ExperimentID: 8,
		OutputDir:    filepath.Join(dir, "out"),
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
}

// --- tests ---

func TestValidate(t *testing.T) {
	valid := types.ConvertConfig{
		EnrichmentPath: "e.csv", GenesPath: "g.csv", MappingPath: "m.csv", OutputDir: "out",
	}
	assert.NoError(t, Validate(valid))

	tests := []struct {
		name    string
		mutate  func(*types.ConvertConfig)
		wantMsg string
	}{
		{"missing enrichment", func(c *types.ConvertConfig) { c.EnrichmentPath = "" }, "enrichment is required"},
		{"missing output", func(c *types.ConvertConfig) { c.OutputDir = "" }, "output_dir is required"},
		{"negative id", func(c *types.ConvertConfig) { c.ExperimentID = -1 }, "experiment_id must be >= 0"},
		{"bad date", func(c *types.ConvertConfig) { c.Date = "14/03/2026" }, "date must be a date like 2006-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRunScenario(t *testing.T) {
	dir := t.TempDir()
	cfg := scenarioInputs(t, dir)

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Terms)
	assert.Equal(t, 1, res.MappedTerms)
	assert.Equal(t, 1, res.Genes)
	assert.Equal(t, 1, res.MissingGenes)
	assert.Empty(t, res.UnmappedTerms)
	assert.Empty(t, res.Registry)
	assert.Nil(t, res.Catalog)
	assert.Equal(t, []string{
		filepath.Join(cfg.OutputDir, "experiment_8_go_terms.json"),
		filepath.Join(cfg.OutputDir, "experiment_8_genes.json"),
	}, res.Files())

	terms, err := goterms.ReadFile(res.GoTermsFile)
	require.NoError(t, err)
	assert.Equal(t, []types.GoTermOutput{{
		GoID: "GO:0006950", Text: "stress response", Category: "biological_process",
		Weight: 4.0, FontSize: 160,
	}}, terms)

	mappings, err := genemap.ReadFile(res.GenesFile)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	require.Len(t, mappings[0].Genes, 1)
	assert.Equal(t, types.GeneEntry{
		GeneID: "SSA2", Symbol: "SSA2", Description: "Hsp70 chaperone",
		ExpressionValue: 2.46, PValue: 0.01, EnsemblID: "SSA2", UniprotID: "Unknown",
	}, mappings[0].Genes[0])

	_, err = os.Stat(filepath.Join(cfg.OutputDir, registry.FileName))
	assert.True(t, errors.Is(err, os.ErrNotExist), "no name means no registry update")

	assert.Contains(t, out.String(), "GoFlow Data Converter")
	assert.Contains(t, out.String(), "✓ Created "+res.GoTermsFile+" with 1 GO terms")
	assert.Contains(t, out.String(), "with mappings for 1 GO terms")
	assert.Contains(t, out.String(), "✓ Conversion complete!")
}

func TestRunSchemaErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := scenarioInputs(t, dir)
	cfg.EnrichmentPath = writeFile(t, dir, "bad.csv", "go_id,term,p_value\nGO:1,x,0.1\n")
	cfg.ExperimentMeta.Name = "never written"

	_, err := Run(context.Background(), cfg, nil, &bytes.Buffer{})
	require.Error(t, err)

	var se *loader.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"category"}, se.Missing)

	_, err = os.Stat(cfg.OutputDir)
	assert.True(t, errors.Is(err, os.ErrNotExist), "output directory is not created")
}

func TestRunParseErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := scenarioInputs(t, dir)
	cfg.GenesPath = writeFile(t, dir, "bad_genes.csv",
		"gene_symbol,expression_value,p_value\nSSA2,high,0.01\n")

	_, err := Run(context.Background(), cfg, nil, &bytes.Buffer{})
	var pe *loader.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "expression_value", pe.Column)

	_, err = os.Stat(cfg.OutputDir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunUpsertsRegistry(t *testing.T) {
	dir := t.TempDir()
	cfg := scenarioInputs(t, dir)
	cfg.Name = "Heat shock"
	runner := &Runner{Out: &bytes.Buffer{}, Now: fixedNow}

	res, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, registry.Added, res.Registry)
	assert.Len(t, res.Files(), 3)

	cfg.Name = "Heat shock (repeat)"
	cfg.Description = "second pass"
	res, err = runner.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, registry.Updated, res.Registry)

	doc, err := registry.New(cfg.OutputDir).Load()
	require.NoError(t, err)
	assert.Equal(t, []types.ExperimentRecord{{
		ExperimentID:   8,
		Name:           "Heat shock (repeat)",
		Description:    "second pass",
		OrganismName:   types.DefaultOrganism,
		ExperimentDate: "2026-03-14",
	}}, doc.Records())
}

func TestRunWarnsOnUnmappedTerm(t *testing.T) {
	dir := t.TempDir()
	cfg := scenarioInputs(t, dir)
	cfg.EnrichmentPath = writeFile(t, dir, "two.csv",
		"go_id,term,category,p_value\n"+
			"GO:0006950,stress response,biological_process,0.0001\n"+
			"GO:0009999,orphan,biological_process,0.5\n")

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := Run(context.Background(), cfg, zap.New(core), &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Terms)
	assert.Equal(t, []string{"GO:0009999"}, res.UnmappedTerms)

	entries := logs.FilterField(zap.String("go_id", "GO:0009999")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestRunIngestsCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := scenarioInputs(t, dir)
	cfg.Name = "Heat shock"
	cfg.CatalogPath = filepath.Join(dir, "catalog", "goflow.db")

	res, err := (&Runner{Out: &bytes.Buffer{}, Now: fixedNow}).Run(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Catalog)
	assert.Equal(t, 1, res.Catalog.Terms)
	assert.Equal(t, 1, res.Catalog.Genes)

	store, err := catalog.NewStore(types.CatalogConfig{Path: cfg.CatalogPath})
	require.NoError(t, err)
	defer store.Close()

	found, err := store.SearchTerms(context.Background(), catalog.TermQuery{Text: "stress"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Heat shock", found[0].ExperimentName)
	assert.Equal(t, 1, found[0].GeneCount)
}

func TestRunCancelled(t *testing.T) {
	cfg := scenarioInputs(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunInvalidConfig(t *testing.T) {
	_, err := Run(context.Background(), types.ConvertConfig{OutputDir: t.TempDir()}, nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrichment is required")
}
