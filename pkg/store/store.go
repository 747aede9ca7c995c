// Package store archives generated networks as run documents.
//
// A [Run] records the generation parameters, summary counts, and the full
// network JSON, keyed by the run ID the pipeline mints. Backends:
//   - memory: in-process storage for development and testing
//   - mongo: MongoDB-backed storage for a persistent archive
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Params are the generation parameters of an archived run.
// StopProb is nil for uniform edge selection.
type Params struct {
	Tips          int      `bson:"tips" json:"tips"`
	Beta          float64  `bson:"beta" json:"beta"`
	Reticulations int      `bson:"reticulations" json:"reticulations"`
	StopProb      *float64 `bson:"stop_prob,omitempty" json:"stop_prob,omitempty"`
	Seed          uint64   `bson:"seed" json:"seed"`
}

// Run is one archived generation run.
type Run struct {
	ID        string          `bson:"_id" json:"id"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	Params    Params          `bson:"params" json:"params"`
	NodeCount int             `bson:"node_count" json:"node_count"`
	EdgeCount int             `bson:"edge_count" json:"edge_count"`
	Network   json.RawMessage `bson:"network" json:"network"`
}

// Store is the interface for run archive backends.
type Store interface {
	// Put stores a run, replacing any run with the same ID.
	Put(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns a NOT_FOUND error if no run with that ID exists.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Run, error)

	// Delete removes a run by ID.
	// Returns a NOT_FOUND error if no run with that ID exists.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
