// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry maintains experiments.json, the list of converted
// experiments the front-end offers in its sidebar.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/pdiddy/goflow/internal/jsonfile"
	"github.com/pdiddy/goflow/pkg/types"
)

// FileName is the registry document inside the output directory.
const FileName = "experiments.json"

const dateLayout = "2006-01-02"

// Action reports what Upsert did to the registry.
type Action string

const (
	Added   Action = "added"
	Updated Action = "updated"
)

// Document is the on-disk registry. Entries are kept as raw JSON so fields
// written by other tools survive a rewrite.
type Document struct {
	Experiments []json.RawMessage `json:"experiments"`
}

// Registry reads and rewrites experiments.json in a directory.
type Registry struct {
	path string

	// Now supplies the default experiment date. Tests override it.
	Now func() time.Time
}

// New returns a Registry for dir/experiments.json.
func New(dir string) *Registry {
	return &Registry{path: filepath.Join(dir, FileName), Now: time.Now}
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// Load reads the registry. A missing file yields an empty document.
func (r *Registry) Load() (*Document, error) {
	var doc Document
	err := jsonfile.Read(r.path, &doc)
	if errors.Is(err, fs.ErrNotExist) {
		return &Document{Experiments: []json.RawMessage{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Experiments == nil {
		doc.Experiments = []json.RawMessage{}
	}
	return &doc, nil
}

// NewRecord builds the record for an experiment, filling the organism and
// date defaults.
func (r *Registry) NewRecord(id int, meta types.ExperimentMeta) types.ExperimentRecord {
	rec := types.ExperimentRecord{
		ExperimentID:   id,
		Name:           meta.Name,
		Description:    meta.Description,
		OrganismName:   meta.Organism,
		ExperimentDate: meta.Date,
	}
	if rec.OrganismName == "" {
		rec.OrganismName = types.DefaultOrganism
	}
	if rec.ExperimentDate == "" {
		rec.ExperimentDate = r.Now().Format(dateLayout)
	}
	return rec
}

// Upsert writes rec into the registry, replacing the entry with the same
// experiment_id in place or appending a new one. The whole document is
// rewritten atomically.
func (r *Registry) Upsert(rec types.ExperimentRecord) (Action, error) {
	doc, err := r.Load()
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshaling experiment %d: %w", rec.ExperimentID, err)
	}

	action := Added
	if i := doc.index(rec.ExperimentID); i >= 0 {
		doc.Experiments[i] = raw
		action = Updated
	} else {
		doc.Experiments = append(doc.Experiments, raw)
	}

	if err := jsonfile.Write(r.path, doc); err != nil {
		return "", fmt.Errorf("writing registry: %w", err)
	}
	return action, nil
}

// Records decodes every registry entry. Entries that do not fit an
// ExperimentRecord are skipped.
func (d *Document) Records() []types.ExperimentRecord {
	recs := make([]types.ExperimentRecord, 0, len(d.Experiments))
	for _, raw := range d.Experiments {
		var rec types.ExperimentRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

// Find returns the record with the given id.
func (d *Document) Find(id int) (types.ExperimentRecord, bool) {
	i := d.index(id)
	if i < 0 {
		return types.ExperimentRecord{}, false
	}
	var rec types.ExperimentRecord
	if err := json.Unmarshal(d.Experiments[i], &rec); err != nil {
		return types.ExperimentRecord{}, false
	}
	return rec, true
}

// index returns the position of the first entry whose experiment_id is the
// number id, or -1. Entries with a non-numeric id never match.
func (d *Document) index(id int) int {
	for i, raw := range d.Experiments {
		var key struct {
			ExperimentID any `json:"experiment_id"`
		}
		if err := json.Unmarshal(raw, &key); err != nil {
			continue
		}
		if n, ok := key.ExperimentID.(float64); ok && n == float64(id) {
			return i
		}
	}
	return -1
}
