// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		// Stored just above the half: rounds up.
		{0.45, 1, 0.5},
		// Stored just below the half: rounds down.
		{0.15, 1, 0.1},
		{4.35, 1, 4.3},
		{2.675, 2, 2.67},
		{1.115, 2, 1.11},
		{-0.15, 1, -0.1},
		// Exact halves go to even.
		{0.125, 2, 0.12},
		{0.375, 2, 0.38},
		{2.5, 0, 2},
		{3.14159, 1, 3.1},
		{2.96, 1, 3.0},
		{1.23456, 2, 1.23},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in, tt.places), "Round(%v, %d)", tt.in, tt.places)
	}
}

func TestGoTermOutputJSON(t *testing.T) {
	tests := []struct {
		weight float64
		want   string
	}{
		{4, `"weight":4.0`},
		{0, `"weight":0.0`},
		{12.3, `"weight":12.3`},
		{-0.3, `"weight":-0.3`},
		{50, `"weight":50.0`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(GoTermOutput{GoID: "GO:1", Text: "a", Category: "c", Weight: tt.weight, FontSize: 70})
		require.NoError(t, err)
		assert.Contains(t, string(data), tt.want)
	}
}

func TestGoTermOutputJSONFieldsAndEscaping(t *testing.T) {
	term := GoTermOutput{GoID: "GO:1", Text: "5'->3' <exo> & endo", Category: "molecular_function", Weight: 2.5, FontSize: 115}

	data, err := json.Marshal(term)
	require.NoError(t, err)
	assert.Equal(t,
		`{"go_id":"GO:1","text":"5'->3' <exo> & endo","category":"molecular_function","weight":2.5,"font_size":115}`,
		string(data))

	var back GoTermOutput
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, term, back)
}

func TestGoTermOutputJSONRejectsNaN(t *testing.T) {
	_, err := json.Marshal(GoTermOutput{Weight: math.NaN()})
	assert.Error(t, err)
}

func TestGeneEntryJSON(t *testing.T) {
	tests := []struct {
		expr float64
		want string
	}{
		{2, `"expression_value":2.0`},
		{2.46, `"expression_value":2.46`},
		{-1.5, `"expression_value":-1.5`},
		{0, `"expression_value":0.0`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(GeneEntry{GeneID: "A", Symbol: "A", ExpressionValue: tt.expr, PValue: 0.01})
		require.NoError(t, err)
		assert.Contains(t, string(data), tt.want)
		assert.Contains(t, string(data), `"p_value":0.01`)
	}

	entry := GeneEntry{GeneID: "YLL024C", Symbol: "SSA2", Description: "Hsp70", ExpressionValue: 2, PValue: 1e-5, EnsemblID: "YLL024C", UniprotID: "P10592"}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	var back GeneEntry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, entry, back)
}
