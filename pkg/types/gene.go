// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// GeneRecord is one row of a gene expression table. Optional columns are
// already resolved to their display defaults by the loader.
type GeneRecord struct {
	Symbol          string  `json:"symbol" yaml:"symbol"`
	GeneID          string  `json:"gene_id" yaml:"gene_id"`
	Description     string  `json:"description" yaml:"description"`
	ExpressionValue float64 `json:"expression_value" yaml:"expression_value"`
	PValue          float64 `json:"p_value" yaml:"p_value"`
	EnsemblID       string  `json:"ensembl_id" yaml:"ensembl_id"`
	UniprotID       string  `json:"uniprot_id" yaml:"uniprot_id"`
}

// GoGeneMapping maps a raw go_id to its gene symbols in file order.
type GoGeneMapping map[string][]string

// GeneEntry is one gene inside a GeneMappingOutput. A whole-valued
// expression_value keeps its decimal point (2 is emitted as 2.0).
type GeneEntry struct {
	GeneID          string  `json:"gene_id"`
	Symbol          string  `json:"symbol"`
	Description     string  `json:"description"`
	ExpressionValue float64 `json:"expression_value"`
	PValue          float64 `json:"p_value"`
	EnsemblID       string  `json:"ensembl_id"`
	UniprotID       string  `json:"uniprot_id"`
}

// MarshalJSON writes expression_value with a decimal point; p_value is
// left to the standard encoding.
func (g GeneEntry) MarshalJSON() ([]byte, error) {
	return marshalUnescaped(struct {
		GeneID          string      `json:"gene_id"`
		Symbol          string      `json:"symbol"`
		Description     string      `json:"description"`
		ExpressionValue json.Number `json:"expression_value"`
		PValue          float64     `json:"p_value"`
		EnsemblID       string      `json:"ensembl_id"`
		UniprotID       string      `json:"uniprot_id"`
	}{g.GeneID, g.Symbol, g.Description, pointed(g.ExpressionValue), g.PValue, g.EnsemblID, g.UniprotID})
}

// GeneMappingOutput is one entry of experiment_<id>_genes.json.
type GeneMappingOutput struct {
	GoID  string      `json:"go_id"`
	Genes []GeneEntry `json:"genes"`
}
