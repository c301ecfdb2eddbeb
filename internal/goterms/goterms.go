// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package goterms turns enrichment records into the weighted, font-sized GO
// term list that drives the front-end's tag cloud.
package goterms

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"github.com/pdiddy/goflow/internal/jsonfile"
	"github.com/pdiddy/goflow/pkg/types"
)

const (
	// MinFontSize and MaxFontSize bound the tag cloud font sizes in pixels.
	MinFontSize = 70
	MaxFontSize = 250

	// PValueSentinel is the weight used when a p-value is zero or negative.
	PValueSentinel = 50.0
)

// FileName returns the GO terms file name for an experiment.
func FileName(experimentID int) string {
	return fmt.Sprintf("experiment_%d_go_terms.json", experimentID)
}

// Weight derives the display weight of a record from its score source.
// Enrichment and fold-enrichment scores are used as-is; p-values become
// -log10(p), or PValueSentinel when p <= 0.
func Weight(rec types.EnrichmentRecord) float64 {
	if rec.Source != types.ScorePValue {
		return rec.Score
	}
	if rec.Score <= 0 {
		return PValueSentinel
	}
	return -math.Log10(rec.Score)
}

// FontSize interpolates linearly between MinFontSize and MaxFontSize by the
// position of weight within [minWeight, maxWeight]. A degenerate range gives
// the midpoint size.
func FontSize(weight, minWeight, maxWeight float64) int {
	if maxWeight == minWeight {
		return (MinFontSize + MaxFontSize) / 2
	}
	normalized := (weight - minWeight) / (maxWeight - minWeight)
	return int(math.RoundToEven(MinFontSize + normalized*(MaxFontSize-MinFontSize)))
}

// Transform computes weights and font sizes for every record and returns
// them sorted by weight, highest first. The sort is stable: equal weights
// keep their input order. Font sizes are computed from unrounded weights;
// only the emitted weight is rounded to one decimal.
func Transform(records []types.EnrichmentRecord) []types.GoTermOutput {
	if len(records) == 0 {
		return []types.GoTermOutput{}
	}

	type weighted struct {
		rec    types.EnrichmentRecord
		weight float64
	}
	items := make([]weighted, len(records))
	minW, maxW := math.Inf(1), math.Inf(-1)
	for i, rec := range records {
		w := Weight(rec)
		items[i] = weighted{rec: rec, weight: w}
		minW = math.Min(minW, w)
		maxW = math.Max(maxW, w)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].weight > items[j].weight
	})

	out := make([]types.GoTermOutput, len(items))
	for i, it := range items {
		out[i] = types.GoTermOutput{
			GoID:     it.rec.GoID,
			Text:     it.rec.Text,
			Category: it.rec.Category,
			Weight:   types.Round(it.weight, 1),
			FontSize: FontSize(it.weight, minW, maxW),
		}
	}
	return out
}

// WriteFile writes terms to dir/experiment_<id>_go_terms.json and returns
// the path written.
func WriteFile(dir string, experimentID int, terms []types.GoTermOutput) (string, error) {
	path := filepath.Join(dir, FileName(experimentID))
	if err := jsonfile.Write(path, terms); err != nil {
		return "", fmt.Errorf("writing GO terms: %w", err)
	}
	return path, nil
}

// ReadFile loads a GO terms file written by WriteFile.
func ReadFile(path string) ([]types.GoTermOutput, error) {
	var terms []types.GoTermOutput
	if err := jsonfile.Read(path, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}
