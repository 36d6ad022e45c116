package document

import (
	"context"
	"time"

	"doctrace/internal/rowstore"
	dErrors "doctrace/pkg/domainerrors"
)

// ArchiveRepository is the append-only audit archive of soft-deleted
// documents. Archived rows are never mutated or re-deleted, so only the
// append-only slice of the store contract is accepted.
type ArchiveRepository struct {
	store rowstore.AppendOnlyStore
}

func NewArchiveRepository(store rowstore.AppendOnlyStore) *ArchiveRepository {
	return &ArchiveRepository{store: store}
}

// Append writes a copy of the document plus its deletion audit fields.
func (a *ArchiveRepository) Append(ctx context.Context, doc Document, deletedBy string, deletedAt time.Time) error {
	row := doc.ToRow()
	row[ColDeletedAt] = deletedAt.Format(time.RFC3339)
	row[ColDeletedBy] = deletedBy
	if err := a.store.AppendRow(ctx, row); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "append to archive", err)
	}
	return nil
}

// ListRows returns the raw archive rows in scan order. The archive is an
// audit view; rows are served as stored, not re-parsed into Documents.
func (a *ArchiveRepository) ListRows(ctx context.Context) ([]rowstore.Row, error) {
	rows, err := a.store.ListRows(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "scan archive", err)
	}
	return rows, nil
}
