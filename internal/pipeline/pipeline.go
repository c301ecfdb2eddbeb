// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a conversion end to end: load the three input
// tables, write the GO-term and gene-mapping documents, then update the
// experiment registry and catalog when asked to.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/goflow/internal/catalog"
	"github.com/pdiddy/goflow/internal/genemap"
	"github.com/pdiddy/goflow/internal/goterms"
	"github.com/pdiddy/goflow/internal/loader"
	"github.com/pdiddy/goflow/internal/registry"
	"github.com/pdiddy/goflow/pkg/types"
)

var rule = strings.Repeat("=", 60)

// Result summarizes one conversion.
type Result struct {
	ExperimentID int

	// Terms is the number of GO terms written.
	Terms int
	// MappedTerms is the number of terms with at least one gene.
	MappedTerms int
	// Genes is the total number of gene entries written.
	Genes int
	// UnmappedTerms lists go_ids absent from the mapping.
	UnmappedTerms []string
	// MissingGenes counts mapped symbols with no expression row.
	MissingGenes int

	GoTermsFile  string
	GenesFile    string
	RegistryFile string

	// Registry is "" when no experiment name was given.
	Registry registry.Action

	// Catalog is nil when no catalog was configured.
	Catalog *catalog.IngestSummary
}

// Files returns every path the run wrote.
func (r *Result) Files() []string {
	files := []string{r.GoTermsFile, r.GenesFile}
	if r.RegistryFile != "" {
		files = append(files, r.RegistryFile)
	}
	return files
}

// Runner executes conversions. The zero value logs nowhere and prints to
// stdout.
type Runner struct {
	Log *zap.Logger
	Out io.Writer

	// Now supplies the default experiment date.
	Now func() time.Time
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Run converts one experiment. Input problems (missing columns, bad
// numbers, unreadable files) fail before anything is written.
func (r *Runner) Run(ctx context.Context, cfg types.ConvertConfig) (*Result, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	w := r.out()
	log := r.log().With(zap.Int("experiment_id", cfg.ExperimentID))

	fmt.Fprintf(w, "\n%s\nGoFlow Data Converter\n%s\n\n", rule, rule)
	fmt.Fprintln(w, "Loading input files...")

	in, err := loader.Load(cfg)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "  • Loaded %d GO terms\n", len(in.Terms))
	fmt.Fprintf(w, "  • Loaded %d genes\n", len(in.Genes))
	fmt.Fprintf(w, "  • Loaded mappings for %d GO terms\n\n", len(in.Mapping))
	log.Debug("inputs loaded",
		zap.Int("terms", len(in.Terms)),
		zap.Int("genes", len(in.Genes)),
		zap.Int("mapped_terms", len(in.Mapping)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}
	fmt.Fprintln(w, "Converting data to GoFlow format...")
	fmt.Fprintln(w)

	res := &Result{ExperimentID: cfg.ExperimentID}

	terms := goterms.Transform(in.Terms)
	res.GoTermsFile, err = goterms.WriteFile(cfg.OutputDir, cfg.ExperimentID, terms)
	if err != nil {
		return nil, err
	}
	res.Terms = len(terms)
	fmt.Fprintf(w, "✓ Created %s with %d GO terms\n", res.GoTermsFile, res.Terms)

	mappings, stats := genemap.NewJoiner(in.Genes, log).Join(in.Terms, in.Mapping)
	res.GenesFile, err = genemap.WriteFile(cfg.OutputDir, cfg.ExperimentID, mappings)
	if err != nil {
		return nil, err
	}
	res.MappedTerms = stats.Terms
	res.Genes = stats.Genes
	res.UnmappedTerms = stats.UnmappedTerms
	res.MissingGenes = stats.MissingGenes
	fmt.Fprintf(w, "✓ Created %s with mappings for %d GO terms\n", res.GenesFile, res.MappedTerms)

	rec := types.ExperimentRecord{ExperimentID: cfg.ExperimentID}
	if cfg.Name != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reg := registry.New(cfg.OutputDir)
		if r.Now != nil {
			reg.Now = r.Now
		}
		rec = reg.NewRecord(cfg.ExperimentID, cfg.ExperimentMeta)
		res.Registry, err = reg.Upsert(rec)
		if err != nil {
			return nil, err
		}
		res.RegistryFile = reg.Path()
		switch res.Registry {
		case registry.Updated:
			fmt.Fprintf(w, "✓ Updated experiment %d in %s\n", cfg.ExperimentID, registry.FileName)
		default:
			fmt.Fprintf(w, "✓ Added experiment %d to %s\n", cfg.ExperimentID, registry.FileName)
		}
	}

	if cfg.CatalogPath != "" {
		summary, err := ingest(ctx, cfg.CatalogPath, rec, terms, mappings)
		if err != nil {
			return nil, err
		}
		res.Catalog = &summary
		fmt.Fprintf(w, "✓ Indexed experiment %d in %s (run %s)\n", cfg.ExperimentID, cfg.CatalogPath, summary.RunID)
	}

	printSummary(w, res)
	if len(res.UnmappedTerms) > 0 || res.MissingGenes > 0 {
		log.Info("lookup misses",
			zap.Int("unmapped_terms", len(res.UnmappedTerms)),
			zap.Int("missing_genes", res.MissingGenes))
	}
	return res, nil
}

func ingest(ctx context.Context, path string, rec types.ExperimentRecord, terms []types.GoTermOutput, mappings []types.GeneMappingOutput) (catalog.IngestSummary, error) {
	if err := ctx.Err(); err != nil {
		return catalog.IngestSummary{}, err
	}
	store, err := catalog.NewStore(types.CatalogConfig{Path: path})
	if err != nil {
		return catalog.IngestSummary{}, err
	}
	defer store.Close()
	return store.Ingest(ctx, rec, terms, mappings)
}

func printSummary(w io.Writer, res *Result) {
	fmt.Fprintf(w, "\n%s\n✓ Conversion complete!\n%s\n\n", rule, rule)
	fmt.Fprintln(w, "Files created:")
	fmt.Fprintf(w, "  • %s\n", res.GoTermsFile)
	fmt.Fprintf(w, "  • %s\n", res.GenesFile)
	if res.RegistryFile != "" {
		fmt.Fprintf(w, "  • %s (updated)\n", res.RegistryFile)
	}
	if n := len(res.UnmappedTerms); n > 0 {
		fmt.Fprintf(w, "\n%d GO term(s) had no gene mapping\n", n)
	}
	fmt.Fprintln(w)
}

// Run converts one experiment with a default Runner.
func Run(ctx context.Context, cfg types.ConvertConfig, log *zap.Logger, w io.Writer) (*Result, error) {
	r := &Runner{Log: log, Out: w}
	return r.Run(ctx, cfg)
}
