// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genemap joins GO terms to the expressed genes annotated with them,
// producing the per-term gene lists shown in the front-end's detail view.
package genemap

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/goflow/internal/jsonfile"
	"github.com/pdiddy/goflow/pkg/types"
)

// FileName returns the gene mapping file name for an experiment.
func FileName(experimentID int) string {
	return fmt.Sprintf("experiment_%d_genes.json", experimentID)
}

// Stats counts what the join resolved and what it skipped.
type Stats struct {
	// Terms is the number of terms written (at least one resolved gene).
	Terms int
	// Genes is the total number of gene entries written.
	Genes int
	// UnmappedTerms lists go_ids with no entry in the mapping, in input order.
	UnmappedTerms []string
	// EmptyTerms counts mapped terms whose genes were all absent from the
	// expression table.
	EmptyTerms int
	// MissingGenes counts mapped symbols with no expression row.
	MissingGenes int
}

// Joiner resolves GO terms to gene entries.
type Joiner struct {
	log   *zap.Logger
	index map[string]int
	genes []types.GeneRecord
}

// NewJoiner indexes genes by symbol. When a symbol appears more than once
// the first row wins.
func NewJoiner(genes []types.GeneRecord, log *zap.Logger) *Joiner {
	if log == nil {
		log = zap.NewNop()
	}
	index := make(map[string]int, len(genes))
	for i, g := range genes {
		if _, ok := index[g.Symbol]; !ok {
			index[g.Symbol] = i
		}
	}
	return &Joiner{log: log, index: index, genes: genes}
}

// Join walks terms in the given order. Terms without a mapping entry are
// skipped with a warning; genes missing from the expression table are
// skipped silently, and a term left with no genes is dropped.
func (j *Joiner) Join(terms []types.EnrichmentRecord, mapping types.GoGeneMapping) ([]types.GeneMappingOutput, Stats) {
	out := []types.GeneMappingOutput{}
	var stats Stats

	for _, term := range terms {
		symbols, ok := mapping[term.GoID]
		if !ok {
			j.log.Warn("no genes found for GO term", zap.String("go_id", term.GoID))
			stats.UnmappedTerms = append(stats.UnmappedTerms, term.GoID)
			continue
		}

		var entries []types.GeneEntry
		for _, sym := range symbols {
			idx, ok := j.index[sym]
			if !ok {
				stats.MissingGenes++
				continue
			}
			entries = append(entries, entry(j.genes[idx]))
		}

		if len(entries) == 0 {
			j.log.Debug("dropping GO term with no expressed genes", zap.String("go_id", term.GoID))
			stats.EmptyTerms++
			continue
		}

		out = append(out, types.GeneMappingOutput{GoID: term.GoID, Genes: entries})
		stats.Terms++
		stats.Genes += len(entries)
	}
	return out, stats
}

// Join is a convenience wrapper around NewJoiner(genes, log).Join.
func Join(terms []types.EnrichmentRecord, genes []types.GeneRecord, mapping types.GoGeneMapping, log *zap.Logger) ([]types.GeneMappingOutput, Stats) {
	return NewJoiner(genes, log).Join(terms, mapping)
}

func entry(g types.GeneRecord) types.GeneEntry {
	return types.GeneEntry{
		GeneID:          g.GeneID,
		Symbol:          g.Symbol,
		Description:     g.Description,
		ExpressionValue: types.Round(g.ExpressionValue, 2),
		PValue:          g.PValue,
		EnsemblID:       g.EnsemblID,
		UniprotID:       g.UniprotID,
	}
}

// WriteFile writes mappings to dir/experiment_<id>_genes.json and returns
// the path written.
func WriteFile(dir string, experimentID int, mappings []types.GeneMappingOutput) (string, error) {
	path := filepath.Join(dir, FileName(experimentID))
	if err := jsonfile.Write(path, mappings); err != nil {
		return "", fmt.Errorf("writing gene mappings: %w", err)
	}
	return path, nil
}

// ReadFile loads a gene mapping file written by WriteFile.
func ReadFile(path string) ([]types.GeneMappingOutput, error) {
	var mappings []types.GeneMappingOutput
	if err := jsonfile.Read(path, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}
