package document

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"doctrace/internal/filestore"
	"doctrace/internal/rowstore"
	dErrors "doctrace/pkg/domainerrors"
	"doctrace/pkg/requestcontext"
)

// RecentCache is an optional caller-layer snapshot cache for the
// recent-documents listing. The repository contract itself always reflects a
// fresh full scan; only this one derived listing may be served stale, and
// every write invalidates it.
type RecentCache interface {
	Get(ctx context.Context) ([]Document, bool)
	Set(ctx context.Context, docs []Document)
	Invalidate(ctx context.Context)
}

// Service orchestrates the document lifecycle: creation with identifier
// allocation, updates, search, thread reconstruction and soft deletion. It
// keeps orchestration out of handlers and the row plumbing out of domain
// logic.
type Service struct {
	repo          *Repository
	archive       *ArchiveRepository
	alloc         *Allocator
	files         filestore.Store // nil when no file store is configured
	deletedFolder string
	cache         RecentCache // nil disables caching
	log           *slog.Logger
}

// ServiceOption customizes optional collaborators.
type ServiceOption func(*Service)

// WithFileStore wires the attachment store and the folder archived
// attachments move to.
func WithFileStore(files filestore.Store, deletedFolder string) ServiceOption {
	return func(s *Service) {
		s.files = files
		s.deletedFolder = deletedFolder
	}
}

// WithRecentCache wires the snapshot cache for the recent listing.
func WithRecentCache(cache RecentCache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

func NewService(repo *Repository, archive *ArchiveRepository, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		archive: archive,
		alloc:   NewAllocator(repo),
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries everything needed to create a document. Date arrives
// already parsed; textual decodings (and their fallback-to-now semantics)
// are the transport layer's job via ParseDate.
type CreateInput struct {
	Date          time.Time
	Type          Type
	Agency        string
	Subject       string
	ParentID      string
	AttachmentRef string
	// ManualID bypasses allocation. Uniqueness is still enforced by the
	// repository on create.
	ManualID string
}

// Create validates the input, allocates (or accepts) an identifier and
// persists the new document. The acting user is read from the context and
// stamped into the audit fields.
func (s *Service) Create(ctx context.Context, in CreateInput) (Document, error) {
	actor := requestcontext.Actor(ctx)
	if actor == "" {
		return Document{}, dErrors.New(dErrors.CodeBusinessRule, "document creation requires an acting user")
	}
	if in.Agency == "" || in.Subject == "" {
		return Document{}, dErrors.New(dErrors.CodeValidation, "agency and subject are required")
	}
	if utf8.RuneCountInString(in.Subject) < MinSubjectRunes {
		return Document{}, dErrors.Newf(dErrors.CodeValidation, "subject must be at least %d characters", MinSubjectRunes)
	}
	if _, err := ParseType(string(in.Type)); err != nil {
		return Document{}, err
	}

	id := in.ManualID
	if id == "" {
		var err error
		id, err = s.alloc.Next(ctx, in.Date, in.ParentID != "", in.ParentID)
		if err != nil {
			return Document{}, err
		}
	}

	doc := Document{
		ID:                id,
		Date:              in.Date,
		Type:              in.Type,
		Agency:            in.Agency,
		Subject:           in.Subject,
		ParentID:          in.ParentID,
		AttachmentRef:     in.AttachmentRef,
		CreatedAt:         requestcontext.Now(ctx),
		CreatedBy:         actor,
		RecognitionStatus: RecognitionPending,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	s.invalidate(ctx)
	return doc, nil
}

// Get resolves a single document, translating absence into NotFound for the
// service surface.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	doc, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !found {
		return Document{}, dErrors.Newf(dErrors.CodeNotFound, "document not found: %s", id)
	}
	return doc, nil
}

// Update replaces the stored row with the given document.
func (s *Service) Update(ctx context.Context, doc Document) error {
	if doc.Agency == "" || doc.Subject == "" {
		return dErrors.New(dErrors.CodeValidation, "agency and subject are required")
	}
	if _, err := ParseType(string(doc.Type)); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, doc); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SetRecognition stores the external recognizer's result on the document.
// The engine treats the payload as opaque; only the status literal is
// checked.
func (s *Service) SetRecognition(ctx context.Context, id string, status RecognitionStatus, text string, at time.Time) (Document, error) {
	if _, err := ParseRecognitionStatus(string(status)); err != nil {
		return Document{}, err
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc.RecognitionStatus = status
	doc.RecognitionText = text
	doc.RecognitionDate = at
	if err := s.repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	s.invalidate(ctx)
	return doc, nil
}

// SearchQuery is a conjunction of independent, optional predicates. Zero
// values are pass-throughs.
type SearchQuery struct {
	Keyword  string // case-sensitive substring on subject
	DateFrom time.Time
	DateTo   time.Time
	Type     Type
	Agency   string // substring match
}

// Search applies the query over a fresh full scan. Result order is the
// store's natural scan order.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Document, error) {
	if q.Keyword != "" && utf8.RuneCountInString(q.Keyword) < MinKeywordRunes {
		return nil, dErrors.Newf(dErrors.CodeValidation, "keyword must be at least %d characters", MinKeywordRunes)
	}
	if q.Type != "" {
		if _, err := ParseType(string(q.Type)); err != nil {
			return nil, err
		}
	}

	var predicates []Predicate
	if q.Keyword != "" {
		predicates = append(predicates, func(d Document) bool {
			return strings.Contains(d.Subject, q.Keyword)
		})
	}
	if !q.DateFrom.IsZero() {
		predicates = append(predicates, func(d Document) bool {
			return !d.Date.Before(q.DateFrom)
		})
	}
	if !q.DateTo.IsZero() {
		predicates = append(predicates, func(d Document) bool {
			return !d.Date.After(q.DateTo)
		})
	}
	if q.Type != "" {
		predicates = append(predicates, func(d Document) bool {
			return d.Type == q.Type
		})
	}
	if q.Agency != "" {
		predicates = append(predicates, func(d Document) bool {
			return strings.Contains(d.Agency, q.Agency)
		})
	}
	return s.repo.FindByCriteria(ctx, predicates...)
}

// Thread returns the reply tree rooted at rootID in pre-order.
func (s *Service) Thread(ctx context.Context, rootID string) ([]ThreadEntry, error) {
	docs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries := BuildThread(docs, rootID)
	if entries == nil {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "document not found: %s", rootID)
	}
	return entries, nil
}

// Recent lists documents dated within the recent window. This is the one
// listing that may be served from the snapshot cache when one is wired.
func (s *Service) Recent(ctx context.Context) ([]Document, error) {
	if s.cache != nil {
		if docs, ok := s.cache.Get(ctx); ok {
			return s.recentOf(ctx, docs), nil
		}
	}
	docs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, docs)
	}
	return s.recentOf(ctx, docs), nil
}

func (s *Service) recentOf(ctx context.Context, docs []Document) []Document {
	cutoff := requestcontext.Now(ctx).AddDate(0, 0, -RecentMonths*30)
	recent := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if !doc.Date.Before(cutoff) {
			recent = append(recent, doc)
		}
	}
	return recent
}

// Roots lists documents without a parent reference.
func (s *Service) Roots(ctx context.Context) ([]Document, error) {
	return s.repo.FindByCriteria(ctx, func(d Document) bool { return !d.IsReply() })
}

// SoftDelete archives the document and then removes it from the live set.
//
// The two steps are not atomic as a pair. If the archive append fails the
// delete must not run, so a document can never leave the live set without an
// archive record. If the delete fails after a successful append, the
// document exists in both stores: a duplicate, not data loss, and the error
// still propagates so the caller can retry the delete.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	actor := requestcontext.Actor(ctx)
	if actor == "" {
		return dErrors.New(dErrors.CodeBusinessRule, "soft delete requires an acting user")
	}

	doc, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return dErrors.Newf(dErrors.CodeNotFound, "document not found: %s", id)
	}

	if err := s.archive.Append(ctx, doc, actor, requestcontext.Now(ctx)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.ErrorContext(ctx, "document archived but live delete failed; row now exists in both stores",
			"id", id, "error", err)
		return err
	}
	s.invalidate(ctx)

	// Attachment relocation is best-effort: the archival invariant concerns
	// the record stores only.
	if doc.AttachmentRef != "" && s.files != nil && s.deletedFolder != "" {
		if err := s.files.Move(ctx, doc.AttachmentRef, s.deletedFolder); err != nil {
			s.log.WarnContext(ctx, "failed to relocate archived attachment",
				"id", id, "attachment", doc.AttachmentRef, "error", err)
		}
	}
	return nil
}

// Archived returns the raw archive rows.
func (s *Service) Archived(ctx context.Context) ([]rowstore.Row, error) {
	return s.archive.ListRows(ctx)
}

// UploadAttachment stores the given bytes in the file store and returns the
// opaque reference to persist on a document.
func (s *Service) UploadAttachment(ctx context.Context, content []byte, name string) (string, error) {
	if s.files == nil {
		return "", dErrors.New(dErrors.CodeUnavailable, "no file store configured")
	}
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "attachment name is required")
	}
	ref, err := s.files.Store(ctx, content, name)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeUnavailable, "store attachment", err)
	}
	return ref, nil
}

// Allocator exposes identifier allocation for callers that want to preview
// the next code without creating.
func (s *Service) Allocator() *Allocator { return s.alloc }

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
