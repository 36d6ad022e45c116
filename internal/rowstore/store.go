// Package rowstore defines the adapter contract for the tabular record
// store. The backing store offers no schema enforcement, no transactions and
// no secondary indexes: every operation is either a single-row access keyed
// by the key column or a linear scan. Higher layers are written against that
// contract and must not assume anything stronger.
package rowstore

import (
	"context"
	"errors"
)

// Row is a string-keyed mapping of column name to cell text. Column order is
// owned by the store's header schema, not by the map.
type Row map[string]string

// ErrRowNotFound is the sentinel for key lookups that resolve to nothing.
// Repositories translate it into domain errors; for reads, absence is a
// valid non-error outcome.
var ErrRowNotFound = errors.New("row not found")

// Store is the raw adapter over one worksheet/table. Each call is a blocking
// network round trip; callers must tolerate hundreds of milliseconds and
// propagate failures untranslated.
type Store interface {
	// ListRows returns every row in scan order.
	ListRows(ctx context.Context) ([]Row, error)
	// FindRow resolves a row by exact match on the key column. Returns
	// ErrRowNotFound when absent.
	FindRow(ctx context.Context, key string) (Row, error)
	// AppendRow adds a row at the end of the table. The store enforces no
	// uniqueness; that is the repository's job.
	AppendRow(ctx context.Context, row Row) error
	// ReplaceRow overwrites the whole row identified by key. Returns
	// ErrRowNotFound when absent.
	ReplaceRow(ctx context.Context, key string, row Row) error
	// DeleteRow removes the row identified by key. Returns ErrRowNotFound
	// when absent.
	DeleteRow(ctx context.Context, key string) error
	// ListKeyColumn returns only the key column values, in scan order. It
	// must stay consistent with ListRows (same key space) while avoiding
	// materializing full rows.
	ListKeyColumn(ctx context.Context) ([]string, error)
}

// AppendOnlyStore is the slice of Store the archive needs: the archive is
// append-only and never mutated or re-deleted.
type AppendOnlyStore interface {
	AppendRow(ctx context.Context, row Row) error
	ListRows(ctx context.Context) ([]Row, error)
}
