// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes converted experiments in a local SQLite database
// so GO terms and their genes can be searched across experiments without
// reopening the JSON files.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/goflow/pkg/types"
)

// DefaultPath is the catalog file used when none is configured.
const DefaultPath = "goflow.db"

const defaultMaxResults = 50

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog at cfg.Path and ensures the schema
// exists.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS experiments (
			experiment_id INTEGER PRIMARY KEY,
			name TEXT,
			description TEXT,
			organism_name TEXT,
			experiment_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS go_terms (
			experiment_id INTEGER NOT NULL REFERENCES experiments(experiment_id),
			rank INTEGER NOT NULL,
			go_id TEXT NOT NULL,
			text TEXT,
			category TEXT,
			weight REAL,
			font_size INTEGER,
			PRIMARY KEY (experiment_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_go_terms_go_id ON go_terms(go_id)`,
		`CREATE INDEX IF NOT EXISTS idx_go_terms_category ON go_terms(category)`,
		`CREATE TABLE IF NOT EXISTS term_genes (
			experiment_id INTEGER NOT NULL REFERENCES experiments(experiment_id),
			term_index INTEGER NOT NULL,
			position INTEGER NOT NULL,
			go_id TEXT NOT NULL,
			gene_id TEXT,
			symbol TEXT,
			description TEXT,
			expression_value REAL,
			p_value REAL,
			ensembl_id TEXT,
			uniprot_id TEXT,
			PRIMARY KEY (experiment_id, term_index, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_term_genes_go_id ON term_genes(experiment_id, go_id)`,
		`CREATE INDEX IF NOT EXISTS idx_term_genes_symbol ON term_genes(symbol)`,
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			id TEXT PRIMARY KEY,
			experiment_id INTEGER NOT NULL,
			ingested_at TEXT NOT NULL,
			terms INTEGER NOT NULL,
			genes INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary describes one catalog ingest.
type IngestSummary struct {
	RunID string
	Terms int
	Genes int
}

// Ingest replaces everything stored for experiment.ExperimentID with terms
// and mappings in a single transaction. Only ExperimentID is required; an
// experiment that already has metadata keeps it when the other fields are
// empty.
func (s *Store) Ingest(ctx context.Context, experiment types.ExperimentRecord, terms []types.GoTermOutput, mappings []types.GeneMappingOutput) (IngestSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := experiment.ExperimentID

	for _, table := range []string{"term_genes", "go_terms"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE experiment_id = ?`, id); err != nil {
			return IngestSummary{}, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if experiment.Name != "" {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO experiments (experiment_id, name, description, organism_name, experiment_date)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(experiment_id) DO UPDATE SET
				name=excluded.name, description=excluded.description,
				organism_name=excluded.organism_name, experiment_date=excluded.experiment_date`,
			id, experiment.Name, experiment.Description, experiment.OrganismName, experiment.ExperimentDate,
		)
	} else {
		_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO experiments (experiment_id) VALUES (?)`, id)
	}
	if err != nil {
		return IngestSummary{}, fmt.Errorf("upserting experiment %d: %w", id, err)
	}

	termStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO go_terms (experiment_id, rank, go_id, text, category, weight, font_size)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing term insert: %w", err)
	}
	defer termStmt.Close()

	for i, t := range terms {
		if _, err := termStmt.ExecContext(ctx, id, i, t.GoID, t.Text, t.Category, t.Weight, t.FontSize); err != nil {
			return IngestSummary{}, fmt.Errorf("inserting term %s: %w", t.GoID, err)
		}
	}

	geneStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO term_genes (experiment_id, term_index, position, go_id, gene_id, symbol,
			description, expression_value, p_value, ensembl_id, uniprot_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing gene insert: %w", err)
	}
	defer geneStmt.Close()

	summary := IngestSummary{RunID: uuid.New().String(), Terms: len(terms)}
	for ti, m := range mappings {
		for pos, g := range m.Genes {
			_, err := geneStmt.ExecContext(ctx, id, ti, pos, m.GoID, g.GeneID, g.Symbol,
				g.Description, g.ExpressionValue, g.PValue, g.EnsemblID, g.UniprotID)
			if err != nil {
				return IngestSummary{}, fmt.Errorf("inserting gene %s for %s: %w", g.Symbol, m.GoID, err)
			}
			summary.Genes++
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, experiment_id, ingested_at, terms, genes) VALUES (?, ?, ?, ?, ?)`,
		summary.RunID, id, time.Now().UTC().Format(time.RFC3339), summary.Terms, summary.Genes,
	)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("recording ingest run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing ingest: %w", err)
	}
	return summary, nil
}
