// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader reads the three tabular inputs of a conversion: GO
// enrichment results, gene expression values, and the GO-to-gene mapping.
// Column presence is checked before any row is interpreted, and optional
// gene fields are resolved to their display defaults here so later stages
// never deal with missing values.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/goflow/pkg/types"
)

const (
	unknownText        = "Unknown"
	noDescription      = "No description"
	unknownUniprot     = "Unknown"
	enrichmentTable    = "enrichment"
	genesTable         = "genes"
	mappingTable       = "mapping"
	mappingIDColumn    = "go_id"
	mappingGenesColumn = "gene_symbols"
)

var (
	requiredEnrichment = []string{"go_id", "category"}
	requiredGenes      = []string{"gene_symbol", "expression_value", "p_value"}
)

// Inputs holds everything a conversion reads from disk.
type Inputs struct {
	Terms   []types.EnrichmentRecord
	Genes   []types.GeneRecord
	Mapping types.GoGeneMapping
}

// Load reads the enrichment, gene, and mapping files named in cfg.
func Load(cfg types.ConvertConfig) (*Inputs, error) {
	terms, err := LoadEnrichment(cfg.EnrichmentPath)
	if err != nil {
		return nil, err
	}
	genes, err := LoadGenes(cfg.GenesPath)
	if err != nil {
		return nil, err
	}
	mapping, err := LoadMapping(cfg.MappingPath)
	if err != nil {
		return nil, err
	}
	return &Inputs{Terms: terms, Genes: genes, Mapping: mapping}, nil
}

// ResolveScoreSource picks the weight column for an enrichment table with
// the given header. enrichment_score beats fold_enrichment beats p_value.
func ResolveScoreSource(columns []string) (types.ScoreSource, bool) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	for _, src := range types.ScoreSources {
		if present[string(src)] {
			return src, true
		}
	}
	return "", false
}

// LoadEnrichment reads a comma-delimited GO enrichment table. Rows keep
// their file order.
func LoadEnrichment(path string) ([]types.EnrichmentRecord, error) {
	t, err := readFile(enrichmentTable, path, ',')
	if err != nil {
		return nil, err
	}
	if err := t.require(requiredEnrichment...); err != nil {
		return nil, err
	}
	src, ok := ResolveScoreSource(t.columns)
	if !ok {
		return nil, &SchemaError{
			Table:  enrichmentTable,
			Path:   path,
			Reason: "no enrichment_score, fold_enrichment, or p_value column found",
		}
	}

	records := make([]types.EnrichmentRecord, len(t.rows))
	for i := range t.rows {
		score, err := t.float(i, string(src))
		if err != nil {
			return nil, err
		}
		records[i] = types.EnrichmentRecord{
			GoID:     t.value(i, "go_id"),
			Text:     termText(t, i),
			Category: t.value(i, "category"),
			Source:   src,
			Score:    score,
		}
	}
	return records, nil
}

// termText prefers the term column, then go_term, then "Unknown".
func termText(t *table, i int) string {
	for _, col := range []string{"term", "go_term"} {
		if v := t.optional(i, col); v != nil {
			return *v
		}
	}
	return unknownText
}

// geneRow is a gene table row before defaults are applied.
type geneRow struct {
	symbol      string
	expression  float64
	pValue      float64
	geneID      *string
	description *string
	ensemblID   *string
	uniprotID   *string
}

func (g geneRow) record() types.GeneRecord {
	rec := types.GeneRecord{
		Symbol:          g.symbol,
		GeneID:          g.symbol,
		Description:     noDescription,
		ExpressionValue: g.expression,
		PValue:          g.pValue,
		UniprotID:       unknownUniprot,
	}
	if g.geneID != nil {
		rec.GeneID = *g.geneID
	}
	if g.description != nil {
		rec.Description = *g.description
	}
	// ensembl_id falls back to gene_id, which itself falls back to the symbol.
	rec.EnsemblID = rec.GeneID
	if g.ensemblID != nil {
		rec.EnsemblID = *g.ensemblID
	}
	if g.uniprotID != nil {
		rec.UniprotID = *g.uniprotID
	}
	return rec
}

// LoadGenes reads a comma-delimited gene expression table.
func LoadGenes(path string) ([]types.GeneRecord, error) {
	t, err := readFile(genesTable, path, ',')
	if err != nil {
		return nil, err
	}
	if err := t.require(requiredGenes...); err != nil {
		return nil, err
	}

	genes := make([]types.GeneRecord, len(t.rows))
	for i := range t.rows {
		expr, err := t.float(i, "expression_value")
		if err != nil {
			return nil, err
		}
		p, err := t.float(i, "p_value")
		if err != nil {
			return nil, err
		}
		row := geneRow{
			symbol:      t.value(i, "gene_symbol"),
			expression:  expr,
			pValue:      p,
			geneID:      t.optional(i, "gene_id"),
			description: t.optional(i, "description"),
			ensemblID:   t.optional(i, "ensembl_id"),
			uniprotID:   t.optional(i, "uniprot_id"),
		}
		genes[i] = row.record()
	}
	return genes, nil
}

// LoadMapping reads a GO-to-gene mapping file. The delimiter is chosen once
// from the first line: a tab makes the whole file tab-delimited, anything
// else means commas. A later row for the same go_id replaces an earlier one.
func LoadMapping(path string) (types.GoGeneMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", mappingTable, err)
	}
	t, err := parseTable(mappingTable, path, data, DetectDelimiter(data))
	if err != nil {
		return nil, err
	}
	if err := t.require(mappingIDColumn, mappingGenesColumn); err != nil {
		return nil, err
	}

	mapping := make(types.GoGeneMapping, len(t.rows))
	for i := range t.rows {
		mapping[t.value(i, mappingIDColumn)] = SplitSymbols(t.value(i, mappingGenesColumn))
	}
	return mapping, nil
}

// DetectDelimiter returns '\t' if the first line of data contains a tab and
// ',' otherwise.
func DetectDelimiter(data []byte) rune {
	first := data
	if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
		first = data[:nl]
	}
	if bytes.IndexByte(first, '\t') >= 0 {
		return '\t'
	}
	return ','
}

// SplitSymbols splits a gene list on commas and semicolons, trimming each
// symbol and dropping empty ones.
func SplitSymbols(field string) []string {
	parts := strings.Split(strings.ReplaceAll(field, ";", ","), ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func readFile(name, path string, comma rune) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", name, err)
	}
	return parseTable(name, path, data, comma)
}
