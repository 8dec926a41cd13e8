// Package storage provides an interface for the archive target cache.
//
// The cache records the state of every archive target after a run. The next
// run compares freshly resolved targets against the stored state to decide
// which targets are unchanged and can be skipped.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist indicates that a record does not exist
var ErrNotExist = errors.New("does not exist")

// SourceRecord is the persisted state of one archive source.
type SourceRecord struct {
	Name     string
	Checksum string
}

// TargetRecord is the persisted state of one archive target.
// CommandRC is the exit status of the last archive command, a provisional
// record written before execution carries 1.
type TargetRecord struct {
	Name             string
	CompressScheme   string
	CommandFormat    string
	CommandRC        int
	SourceEditFormat string
	Sources          []*SourceRecord
}

// Storer stores and retrieves the archive state of targets between runs.
type Storer interface {
	Close() error

	// InsertTarget stores a target inclusive its sources.
	InsertTarget(ctx context.Context, target *TargetRecord) error

	// SelectTarget returns the stored state of the named target.
	// If the target is not stored, ErrNotExist is returned.
	SelectTarget(ctx context.Context, targetName string) (*TargetRecord, error)

	// DeleteTarget removes the named target and its sources.
	// Removing a target that is not stored is not an error.
	DeleteTarget(ctx context.Context, targetName string) error

	// DeleteAllExcept removes every stored target whose name is not in keep.
	// An empty keep list removes all stored targets.
	DeleteAllExcept(ctx context.Context, keep []string) error

	// UpdateCommandRC sets the stored command return code of the named
	// target.
	UpdateCommandRC(ctx context.Context, targetName string, commandRC int) error
}
