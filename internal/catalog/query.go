// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/goflow/pkg/types"
)

// TermQuery holds the filters for SearchTerms. Zero values mean "any".
type TermQuery struct {
	// Text matches a case-insensitive substring of the term text or go_id.
	Text string

	// Category filters by ontology branch.
	Category string

	// ExperimentID restricts results to one experiment.
	ExperimentID *int

	// MinWeight drops terms below this weight.
	MinWeight *float64

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// TermResult is a GO term row with its experiment and gene count.
type TermResult struct {
	types.GoTermOutput
	ExperimentID   int    `json:"experiment_id"`
	ExperimentName string `json:"experiment_name,omitempty"`
	GeneCount      int    `json:"gene_count"`
}

// MarshalJSON flattens the term fields next to the experiment fields. It
// shadows the embedded GoTermOutput encoder, which would drop them.
func (r TermResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		GoID           string      `json:"go_id"`
		Text           string      `json:"text"`
		Category       string      `json:"category"`
		Weight         json.Number `json:"weight"`
		FontSize       int         `json:"font_size"`
		ExperimentID   int         `json:"experiment_id"`
		ExperimentName string      `json:"experiment_name,omitempty"`
		GeneCount      int         `json:"gene_count"`
	}{
		r.GoID, r.Text, r.Category,
		json.Number(strconv.FormatFloat(r.Weight, 'f', 1, 64)), r.FontSize,
		r.ExperimentID, r.ExperimentName, r.GeneCount,
	})
}

// SearchTerms returns catalog terms matching q, highest weight first.
func (s *Store) SearchTerms(ctx context.Context, q TermQuery) ([]TermResult, error) {
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT t.experiment_id, e.name, t.go_id, t.text, t.category, t.weight, t.font_size,
			(SELECT count(*) FROM term_genes g
			 WHERE g.experiment_id = t.experiment_id AND g.go_id = t.go_id
			   AND g.term_index = (SELECT min(term_index) FROM term_genes
			                       WHERE experiment_id = t.experiment_id AND go_id = t.go_id))
		FROM go_terms t
		LEFT JOIN experiments e ON e.experiment_id = t.experiment_id
		WHERE 1=1`)

	if q.Text != "" {
		qb.WriteString(` AND (t.text LIKE ? ESCAPE '\' OR t.go_id LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(q.Text) + "%"
		args = append(args, pattern, pattern)
	}
	if q.Category != "" {
		qb.WriteString(` AND t.category = ?`)
		args = append(args, q.Category)
	}
	if q.ExperimentID != nil {
		qb.WriteString(` AND t.experiment_id = ?`)
		args = append(args, *q.ExperimentID)
	}
	if q.MinWeight != nil {
		qb.WriteString(` AND t.weight >= ?`)
		args = append(args, *q.MinWeight)
	}

	qb.WriteString(` ORDER BY t.weight DESC, t.experiment_id, t.rank LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []TermResult
	for rows.Next() {
		var (
			r        TermResult
			name     sql.NullString
			text     sql.NullString
			category sql.NullString
		)
		if err := rows.Scan(&r.ExperimentID, &name, &r.GoID, &text, &category,
			&r.Weight, &r.FontSize, &r.GeneCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.ExperimentName = name.String
		r.Text = text.String
		r.Category = category.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// TermGenes returns the genes stored for goID in an experiment. When the
// term was listed more than once, the first listing is used.
func (s *Store) TermGenes(ctx context.Context, experimentID int, goID string) ([]types.GeneEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT gene_id, symbol, description, expression_value, p_value, ensembl_id, uniprot_id
		 FROM term_genes
		 WHERE experiment_id = ? AND go_id = ?
		   AND term_index = (SELECT min(term_index) FROM term_genes WHERE experiment_id = ? AND go_id = ?)
		 ORDER BY position`,
		experimentID, goID, experimentID, goID)
	if err != nil {
		return nil, fmt.Errorf("querying genes for %s: %w", goID, err)
	}
	defer rows.Close()

	var genes []types.GeneEntry
	for rows.Next() {
		var g types.GeneEntry
		if err := rows.Scan(&g.GeneID, &g.Symbol, &g.Description, &g.ExpressionValue,
			&g.PValue, &g.EnsemblID, &g.UniprotID); err != nil {
			return nil, fmt.Errorf("scanning gene: %w", err)
		}
		genes = append(genes, g)
	}
	return genes, rows.Err()
}

// Experiments lists catalogued experiments ordered by id.
func (s *Store) Experiments(ctx context.Context) ([]types.ExperimentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT experiment_id, name, description, organism_name, experiment_date
		 FROM experiments ORDER BY experiment_id`)
	if err != nil {
		return nil, fmt.Errorf("listing experiments: %w", err)
	}
	defer rows.Close()

	var recs []types.ExperimentRecord
	for rows.Next() {
		var (
			rec                           types.ExperimentRecord
			name, desc, organism, expDate sql.NullString
		)
		if err := rows.Scan(&rec.ExperimentID, &name, &desc, &organism, &expDate); err != nil {
			return nil, fmt.Errorf("scanning experiment: %w", err)
		}
		rec.Name = name.String
		rec.Description = desc.String
		rec.OrganismName = organism.String
		rec.ExperimentDate = expDate.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
