package document

import (
	"context"
	"errors"
	"log/slog"

	"doctrace/internal/platform/metrics"
	"doctrace/internal/rowstore"
	dErrors "doctrace/pkg/domainerrors"
)

// Repository maps raw rows to Documents and enforces the consistency
// contract every higher component relies on. The backing store enforces
// nothing: existence and uniqueness checks happen here by scanning, and the
// check-then-act sequences that implies are inherently racy under concurrent
// callers. That window is documented (and exercised in tests), not papered
// over with in-process locks that would only protect a single instance.
type Repository struct {
	store   rowstore.Store
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewRepository builds a Repository over the given row store. metrics may be
// nil.
func NewRepository(store rowstore.Store, log *slog.Logger, m *metrics.Metrics) *Repository {
	return &Repository{store: store, log: log, metrics: m}
}

// GetAll returns every parseable live document in scan order. Rows that fail
// to parse are skipped with a recorded warning and never abort the read; a
// total store failure still propagates.
func (r *Repository) GetAll(ctx context.Context) ([]Document, error) {
	rows, err := r.store.ListRows(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "scan documents", err)
	}
	r.metrics.IncStoreScans()

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, warnings, err := r.fromRow(ctx, row)
		if err != nil {
			r.metrics.IncRowsSkipped()
			r.log.WarnContext(ctx, "skipping unparseable row", "error", err)
			continue
		}
		_ = warnings // already logged by fromRow
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetByID resolves a document by its natural key. Absence is a valid,
// non-error outcome reported through found.
func (r *Repository) GetByID(ctx context.Context, id string) (doc Document, found bool, err error) {
	row, err := r.store.FindRow(ctx, id)
	if errors.Is(err, rowstore.ErrRowNotFound) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, dErrors.Wrap(dErrors.CodeUnavailable, "find document", err)
	}
	doc, _, err = r.fromRow(ctx, row)
	if err != nil {
		return Document{}, false, dErrors.Wrap(dErrors.CodeInternal, "malformed row for existing key", err)
	}
	return doc, true, nil
}

// GetAllIDs returns the key column only. Cheaper than GetAll for callers
// like the identifier allocator that need the key space, not the rows.
func (r *Repository) GetAllIDs(ctx context.Context) ([]string, error) {
	ids, err := r.store.ListKeyColumn(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "list document ids", err)
	}
	return ids, nil
}

// Create appends a new document after checking the key is free. The check
// and the append are two separate store calls; keeping them adjacent is the
// closest this store lets us get to an atomic conditional append, and two
// truly concurrent creates of the same id can still both pass the check.
func (r *Repository) Create(ctx context.Context, doc Document) error {
	_, found, err := r.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if found {
		return dErrors.Newf(dErrors.CodeDuplicate, "document id already exists: %s", doc.ID)
	}
	if err := r.store.AppendRow(ctx, doc.ToRow()); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "append document", err)
	}
	return nil
}

// Update replaces the entire row for the document's key. There is no partial
// patch: callers mutate a loaded Document and write the whole thing back.
func (r *Repository) Update(ctx context.Context, doc Document) error {
	err := r.store.ReplaceRow(ctx, doc.ID, doc.ToRow())
	if errors.Is(err, rowstore.ErrRowNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "document not found: %s", doc.ID)
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "replace document", err)
	}
	return nil
}

// Delete removes the row for the given key.
func (r *Repository) Delete(ctx context.Context, id string) error {
	err := r.store.DeleteRow(ctx, id)
	if errors.Is(err, rowstore.ErrRowNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "document not found: %s", id)
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "delete document", err)
	}
	return nil
}

// Predicate filters documents in FindByCriteria.
type Predicate func(Document) bool

// FindByCriteria is a full scan followed by a conjunctive filter. No backend
// push-down exists; this is the contract, not a missing optimization.
func (r *Repository) FindByCriteria(ctx context.Context, predicates ...Predicate) ([]Document, error) {
	docs, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := docs[:0]
	for _, doc := range docs {
		ok := true
		for _, p := range predicates {
			if !p(doc) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func (r *Repository) fromRow(ctx context.Context, row rowstore.Row) (Document, []string, error) {
	doc, warnings, err := FromRow(ctx, row)
	for _, w := range warnings {
		r.log.WarnContext(ctx, "row recovered with defaults", "warning", w)
	}
	return doc, warnings, err
}
