// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/goflow/internal/pipeline"
	"github.com/pdiddy/goflow/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert enrichment, gene, and mapping tables into GoFlow JSON",
	Long: `Convert reads a GO enrichment CSV, a gene expression CSV, and a GO-to-gene
mapping (CSV or TSV) and writes experiment_<id>_go_terms.json and
experiment_<id>_genes.json into the output directory.

When --experiment-name is given the experiment is also added to, or updated
in, experiments.json. With --catalog the results are indexed into a SQLite
catalog for later searching.

Use --batch with a YAML manifest to convert several experiments in one run.`,
	Example: `  goflow convert --enrichment enrichment.csv --genes genes.csv \
    --mapping go_gene_mapping.tsv --experiment-id 8 \
    --experiment-name "Heat shock" --output-dir ../public/data

  goflow convert --batch jobs.yaml`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("enrichment", "", "GO enrichment results CSV")
	convertCmd.Flags().String("genes", "", "gene expression CSV")
	convertCmd.Flags().String("mapping", "", "GO term to gene mapping (CSV or TSV)")
	convertCmd.Flags().Int("experiment-id", 0, "experiment id used in output file names")
	convertCmd.Flags().String("output-dir", types.DefaultOutputDir, "directory for the JSON files")
	convertCmd.Flags().String("experiment-name", "", "experiment name; updates experiments.json when set")
	convertCmd.Flags().String("experiment-desc", "", "experiment description")
	convertCmd.Flags().String("organism", types.DefaultOrganism, "organism name")
	convertCmd.Flags().String("date", "", "experiment date as YYYY-MM-DD (default today)")
	convertCmd.Flags().String("catalog", "", "SQLite catalog to index the results into")
	convertCmd.Flags().String("batch", "", "YAML manifest listing several conversions")

	_ = viper.BindPFlag("output_dir", convertCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("organism", convertCmd.Flags().Lookup("organism"))
	_ = viper.BindPFlag("catalog", convertCmd.Flags().Lookup("catalog"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &pipeline.Runner{Log: logger, Out: os.Stdout}

	if batch, _ := cmd.Flags().GetString("batch"); batch != "" {
		return runBatch(ctx, runner, batch)
	}

	cfg, err := convertConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	_, err = runner.Run(ctx, cfg)
	return err
}

func runBatch(ctx context.Context, runner *pipeline.Runner, path string) error {
	m, err := pipeline.LoadManifest(path)
	if err != nil {
		return err
	}
	// Settings from flags, env, or config are relative to the working
	// directory, not the manifest.
	if m.OutputDir == "" {
		m.OutputDir = absPath(viper.GetString("output_dir"))
	}
	if m.Organism == "" {
		m.Organism = viper.GetString("organism")
	}
	if m.Catalog == "" {
		m.Catalog = absPath(viper.GetString("catalog"))
	}

	results, err := runner.RunBatch(ctx, m)
	fmt.Printf("%d of %d experiment(s) converted\n", len(results), len(m.Jobs))
	return err
}

func convertConfigFromFlags(cmd *cobra.Command) (types.ConvertConfig, error) {
	var missing []string
	for _, name := range []string{"enrichment", "genes", "mapping", "experiment-id"} {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return types.ConvertConfig{}, errors.New("required flag(s) not set: " + strings.Join(missing, ", "))
	}

	enrichment, _ := cmd.Flags().GetString("enrichment")
	genes, _ := cmd.Flags().GetString("genes")
	mapping, _ := cmd.Flags().GetString("mapping")
	id, _ := cmd.Flags().GetInt("experiment-id")
	name, _ := cmd.Flags().GetString("experiment-name")
	desc, _ := cmd.Flags().GetString("experiment-desc")
	date, _ := cmd.Flags().GetString("date")

	return types.ConvertConfig{
		EnrichmentPath: enrichment,
		GenesPath:      genes,
		MappingPath:    mapping,
		ExperimentID:   id,
		OutputDir:      viper.GetString("output_dir"),
		ExperimentMeta: types.ExperimentMeta{
			Name:        name,
			Description: desc,
			Organism:    viper.GetString("organism"),
			Date:        date,
		},
		CatalogPath: viper.GetString("catalog"),
	}, nil
}

func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
