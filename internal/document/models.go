package document

import (
	"context"
	"fmt"
	"time"

	"doctrace/internal/rowstore"
	dErrors "doctrace/pkg/domainerrors"
	"doctrace/pkg/requestcontext"
)

// Type classifies a piece of correspondence. OUTGOING and LETTER are our own
// outbound mail and the only types subject to reply tracking.
type Type string

const (
	TypeOutgoing Type = "OUTGOING"
	TypeIncoming Type = "INCOMING"
	TypeMemo     Type = "MEMO"
	TypeLetter   Type = "LETTER"
)

// ParseType validates a type literal.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeOutgoing, TypeIncoming, TypeMemo, TypeLetter:
		return Type(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown document type %q", s)
}

// Trackable reports whether documents of this type are subject to SLA
// tracking.
func (t Type) Trackable() bool {
	return t == TypeOutgoing || t == TypeLetter
}

// RecognitionStatus mirrors the state reported by the external OCR
// collaborator. The engine stores these fields verbatim and never interprets
// them beyond literal validity.
type RecognitionStatus string

const (
	RecognitionPending   RecognitionStatus = "pending"
	RecognitionCompleted RecognitionStatus = "completed"
	RecognitionFailed    RecognitionStatus = "failed"
	RecognitionSkipped   RecognitionStatus = "skipped"
)

// ParseRecognitionStatus validates a recognition status literal. The empty
// string reads as pending so half-written rows stay loadable.
func ParseRecognitionStatus(s string) (RecognitionStatus, error) {
	if s == "" {
		return RecognitionPending, nil
	}
	switch RecognitionStatus(s) {
	case RecognitionPending, RecognitionCompleted, RecognitionFailed, RecognitionSkipped:
		return RecognitionStatus(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown recognition status %q", s)
}

// Column names of the canonical row schema. The order in Columns is fixed and
// externally defined; it drives marshalling, never in-memory struct layout.
const (
	ColID                = "ID"
	ColDate              = "Date"
	ColType              = "Type"
	ColAgency            = "Agency"
	ColSubject           = "Subject"
	ColParentID          = "Parent_ID"
	ColAttachmentRef     = "Attachment_Ref"
	ColCreatedAt         = "Created_At"
	ColCreatedBy         = "Created_By"
	ColRecognitionStatus = "Recognition_Status"
	ColRecognitionText   = "Recognition_Text"
	ColRecognitionDate   = "Recognition_Date"
	ColDeletedAt         = "Deleted_At"
	ColDeletedBy         = "Deleted_By"
)

// Columns is the live-table schema in column order.
var Columns = []string{
	ColID, ColDate, ColType, ColAgency, ColSubject, ColParentID,
	ColAttachmentRef, ColCreatedAt, ColCreatedBy,
	ColRecognitionStatus, ColRecognitionText, ColRecognitionDate,
}

// ArchiveColumns is the archive-table schema: the live schema plus the
// deletion audit pair.
var ArchiveColumns = append(append([]string{}, Columns...), ColDeletedAt, ColDeletedBy)

const dateLayout = "2006-01-02"

// dateLayouts are the textual encodings accepted for the document date, in
// the order they are tried.
var dateLayouts = []string{dateLayout, "2006/01/02", "20060102", time.RFC3339}

// Document is a tracked piece of correspondence, root or reply. The ID is
// the natural key; no surrogate key exists. Zero values stand in for absent
// optional fields.
type Document struct {
	ID            string
	Date          time.Time
	Type          Type
	Agency        string
	Subject       string
	ParentID      string
	AttachmentRef string
	CreatedAt     time.Time
	CreatedBy     string

	// Recognition fields are populated by the external OCR collaborator and
	// passed through opaquely.
	RecognitionStatus RecognitionStatus
	RecognitionText   string
	RecognitionDate   time.Time
}

// IsReply reports whether the document references a parent.
func (d Document) IsReply() bool { return d.ParentID != "" }

// Trackable reports whether this document is subject to reply tracking.
func (d Document) Trackable() bool { return d.Type.Trackable() }

// ParseDate parses a document date in any accepted encoding. Unparseable
// input falls back to the request time and reports ok=false so the caller
// can record the warning; it never fails.
func ParseDate(ctx context.Context, s string) (t time.Time, ok bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return requestcontext.Now(ctx), false
}

// FromRow maps a raw store row to a Document.
//
// A row without an ID or with an unknown type literal fails outright (the
// scan skips it). Everything else degrades: missing columns become neutral
// values and a bad date falls back to the request time, reported through
// warnings so the caller can log it.
func FromRow(ctx context.Context, row rowstore.Row) (Document, []string, error) {
	var warnings []string

	id := row[ColID]
	if id == "" {
		return Document{}, nil, fmt.Errorf("row has no %s", ColID)
	}

	typ, err := ParseType(row[ColType])
	if err != nil {
		return Document{}, nil, fmt.Errorf("row %s: %w", id, err)
	}

	date, ok := ParseDate(ctx, row[ColDate])
	if !ok {
		warnings = append(warnings, fmt.Sprintf("row %s: unparseable date %q, defaulting to now", id, row[ColDate]))
	}

	recognition, err := ParseRecognitionStatus(row[ColRecognitionStatus])
	if err != nil {
		// Opaque pass-through field: neutralize rather than drop the row.
		warnings = append(warnings, fmt.Sprintf("row %s: %v, defaulting to pending", id, err))
		recognition = RecognitionPending
	}

	return Document{
		ID:                id,
		Date:              date,
		Type:              typ,
		Agency:            row[ColAgency],
		Subject:           row[ColSubject],
		ParentID:          row[ColParentID],
		AttachmentRef:     row[ColAttachmentRef],
		CreatedAt:         parseTimestamp(row[ColCreatedAt]),
		CreatedBy:         row[ColCreatedBy],
		RecognitionStatus: recognition,
		RecognitionText:   row[ColRecognitionText],
		RecognitionDate:   parseTimestamp(row[ColRecognitionDate]),
	}, warnings, nil
}

// ToRow maps a Document to its canonical row form.
func (d Document) ToRow() rowstore.Row {
	return rowstore.Row{
		ColID:                d.ID,
		ColDate:              d.Date.Format(dateLayout),
		ColType:              string(d.Type),
		ColAgency:            d.Agency,
		ColSubject:           d.Subject,
		ColParentID:          d.ParentID,
		ColAttachmentRef:     d.AttachmentRef,
		ColCreatedAt:         formatTimestamp(d.CreatedAt),
		ColCreatedBy:         d.CreatedBy,
		ColRecognitionStatus: string(d.RecognitionStatus),
		ColRecognitionText:   d.RecognitionText,
		ColRecognitionDate:   formatTimestamp(d.RecognitionDate),
	}
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
