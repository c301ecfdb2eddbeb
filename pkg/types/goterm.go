// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// ScoreSource identifies the enrichment column a term's weight is derived from.
type ScoreSource string

const (
	ScoreEnrichment     ScoreSource = "enrichment_score"
	ScoreFoldEnrichment ScoreSource = "fold_enrichment"
	ScorePValue         ScoreSource = "p_value"
)

// ScoreSources lists the weight columns in resolution order. The first one
// present in an enrichment table wins.
var ScoreSources = []ScoreSource{ScoreEnrichment, ScoreFoldEnrichment, ScorePValue}

// EnrichmentRecord is one row of a GO enrichment table.
type EnrichmentRecord struct {
	// GoID is the GO identifier as written in the input (e.g. "GO:0006950").
	GoID string `json:"go_id" yaml:"go_id"`

	// Text is the display label: the term column, else go_term, else "Unknown".
	Text string `json:"text" yaml:"text"`

	// Category is the ontology branch (e.g. "biological_process").
	Category string `json:"category" yaml:"category"`

	// Source names the column Score was read from.
	Source ScoreSource `json:"source" yaml:"source"`

	// Score is the raw value of the Source column.
	Score float64 `json:"score" yaml:"score"`
}

// GoTermOutput is one entry of experiment_<id>_go_terms.json. Weight is
// written with one decimal place, so 4 is emitted as 4.0.
type GoTermOutput struct {
	GoID     string  `json:"go_id"`
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
	FontSize int     `json:"font_size"`
}

// MarshalJSON writes the weight with a fixed single decimal.
func (t GoTermOutput) MarshalJSON() ([]byte, error) {
	return marshalUnescaped(struct {
		GoID     string      `json:"go_id"`
		Text     string      `json:"text"`
		Category string      `json:"category"`
		Weight   json.Number `json:"weight"`
		FontSize int         `json:"font_size"`
	}{t.GoID, t.Text, t.Category, fixed(t.Weight, 1), t.FontSize})
}
