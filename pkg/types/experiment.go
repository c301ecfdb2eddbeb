// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultOrganism is recorded when no organism is supplied for an experiment.
const DefaultOrganism = "Saccharomyces cerevisiae"

// ExperimentRecord is one entry of the experiments.json registry.
type ExperimentRecord struct {
	ExperimentID   int    `json:"experiment_id" yaml:"experiment_id"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	OrganismName   string `json:"organism_name" yaml:"organism_name"`
	ExperimentDate string `json:"experiment_date" yaml:"experiment_date"`
}
