package types

// DefaultOutputDir is where converted files go when no output directory is
// configured. It points at the front-end's static data folder.
const DefaultOutputDir = "../public/data"

// ExperimentMeta holds the optional registry metadata for a conversion run.
// An empty Name means the registry is left untouched.
type ExperimentMeta struct {
	// Name is the experiment title shown in the front-end sidebar.
	Name string `json:"experiment_name,omitempty" yaml:"experiment_name,omitempty"`

	// Description is free text; it defaults to "".
	Description string `json:"experiment_desc,omitempty" yaml:"experiment_desc,omitempty"`

	// Organism defaults to DefaultOrganism.
	Organism string `json:"organism,omitempty" yaml:"organism,omitempty"`

	// Date is the experiment date as YYYY-MM-DD (default: today).
	Date string `json:"date,omitempty" yaml:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ConvertConfig holds the settings for a single conversion run.
type ConvertConfig struct {
	// EnrichmentPath is the GO enrichment results CSV.
	EnrichmentPath string `json:"enrichment" yaml:"enrichment" validate:"required"`

	// GenesPath is the gene expression CSV.
	GenesPath string `json:"genes" yaml:"genes" validate:"required"`

	// MappingPath is the GO term to gene mapping file (CSV or TSV).
	MappingPath string `json:"mapping" yaml:"mapping" validate:"required"`

	// ExperimentID names the output files (experiment_<id>_*.json).
	ExperimentID int `json:"experiment_id" yaml:"experiment_id" validate:"gte=0"`

	// OutputDir receives the JSON files and experiments.json.
	OutputDir string `json:"output_dir" yaml:"output_dir" validate:"required"`

	ExperimentMeta `yaml:",inline"`

	// CatalogPath, when set, is a SQLite catalog the results are indexed into.
	CatalogPath string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

// CatalogConfig holds settings for the experiment catalog.
type CatalogConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of search results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
