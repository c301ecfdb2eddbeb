// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/goflow/internal/catalog"
	"github.com/pdiddy/goflow/internal/registry"
	"github.com/pdiddy/goflow/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index and search converted experiments",
	Long: `Catalog manages a local SQLite database of converted experiments so GO
terms and their genes can be searched across experiments. Use subcommands to
index experiment files, search terms, or list a term's genes.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest [experiment-ids...]",
	Short: "Index converted experiment files into the catalog",
	Long: `Ingest reads experiment_<id>_go_terms.json and experiment_<id>_genes.json
from the data directory and replaces the catalog's rows for each experiment.
With no ids, every experiment listed in experiments.json is indexed.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("output_dir")
	}
	if dataDir == "" {
		dataDir = types.DefaultOutputDir
	}

	ids, err := ingestIDs(dataDir, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No experiments to index.")
		return nil
	}

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	failed := 0
	for _, id := range ids {
		summary, err := store.IngestDir(context.Background(), dataDir, id)
		if err != nil {
			logger.Error("ingest failed", zap.Int("experiment_id", id), zap.Error(err))
			failed++
			continue
		}
		fmt.Printf("indexed: experiment %d (%d terms, %d genes)\n", id, summary.Terms, summary.Genes)
	}
	if failed > 0 {
		return fmt.Errorf("%d experiment(s) failed indexing", failed)
	}
	return nil
}

func ingestIDs(dataDir string, args []string) ([]int, error) {
	if len(args) > 0 {
		ids := make([]int, len(args))
		for i, a := range args {
			id, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("invalid experiment id %q", a)
			}
			ids[i] = id
		}
		return ids, nil
	}

	doc, err := registry.New(dataDir).Load()
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, rec := range doc.Records() {
		ids = append(ids, rec.ExperimentID)
	}
	return ids, nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search catalogued GO terms",
	Long: `Search finds GO terms whose text or GO id contains the given text,
optionally restricted by category, experiment, and minimum weight. Results
are ordered by weight, highest first.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	q := catalog.TermQuery{Text: strings.Join(args, " ")}
	q.Category, _ = cmd.Flags().GetString("category")
	q.MaxResults, _ = cmd.Flags().GetInt("limit")
	if cmd.Flags().Changed("experiment") {
		id, _ := cmd.Flags().GetInt("experiment")
		q.ExperimentID = &id
	}
	if cmd.Flags().Changed("min-weight") {
		w, _ := cmd.Flags().GetFloat64("min-weight")
		q.MinWeight = &w
	}

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.SearchTerms(context.Background(), q)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-40s  %-20s  %6s  %5s\n",
		"Exp", "GO ID", "Term", "Category", "Weight", "Genes")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 98))
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-40s  %-20s  %6.1f  %5d\n",
			r.ExperimentID, r.GoID, truncate(r.Text, 40), truncate(r.Category, 20), r.Weight, r.GeneCount)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- genes subcommand ---

var catalogGenesCmd = &cobra.Command{
	Use:   "genes <experiment-id> <go-id>",
	Short: "List the genes behind a GO term",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalogGenes,
}

func runCatalogGenes(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid experiment id %q", args[0])
	}

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	genes, err := store.TermGenes(context.Background(), id, args[1])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(genes)
	}
	if len(genes) == 0 {
		fmt.Printf("No genes for %s in experiment %d.\n", args[1], id)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-12s  %10s  %10s  %s\n", "Symbol", "Gene ID", "Expression", "p-value", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, g := range genes {
		fmt.Fprintf(os.Stdout, "%-10s  %-12s  %10.2f  %10.3g  %s\n",
			g.Symbol, g.GeneID, g.ExpressionValue, g.PValue, truncate(g.Description, 30))
	}
	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	path, _ := cmd.Flags().GetString("db")
	if !cmd.Flags().Changed("db") {
		if v := viper.GetString("catalog"); v != "" {
			path = v
		}
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.CatalogConfig{Path: path, MaxResults: maxResults}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("db", catalog.DefaultPath, "catalog database file")
	catalogCmd.PersistentFlags().Int("max-results", 50, "default maximum number of search results")

	catalogIngestCmd.Flags().String("data-dir", "", "directory holding the converted JSON files (default: output_dir)")

	catalogSearchCmd.Flags().String("category", "", "filter by category: biological_process, molecular_function, cellular_component")
	catalogSearchCmd.Flags().Int("experiment", 0, "filter by experiment id")
	catalogSearchCmd.Flags().Float64("min-weight", 0, "drop terms below this weight")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	catalogGenesCmd.Flags().Bool("json", false, "output genes as JSON")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogGenesCmd)

	rootCmd.AddCommand(catalogCmd)
}
