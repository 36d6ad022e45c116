// Package tracking computes reply/SLA status for outbound correspondence.
// Nothing here is persisted: every status is derived fresh from the live
// document set, so the report is always as current as the last scan.
package tracking

import (
	"context"
	"sort"
	"time"

	"doctrace/internal/document"
	"doctrace/pkg/requestcontext"
)

// Repository is the slice of the document repository this service reads.
type Repository interface {
	GetAll(ctx context.Context) ([]document.Document, error)
}

// Status is the derived tracking state of one document.
type Status struct {
	HasReply        bool
	DaysWaiting     int
	NeedsAttention  bool
	ReplyCount      int
	LatestReplyDate time.Time // zero when no replies
}

// PendingItem pairs a reply-less document with its status in the pending
// report.
type PendingItem struct {
	Document document.Document
	Status   Status
}

// Stats aggregates the pending-reply report.
type Stats struct {
	TotalPending   int `json:"total_pending"`
	UrgentCount    int `json:"urgent_count"`
	NormalCount    int `json:"normal_count"`
	MaxWaitingDays int `json:"max_waiting_days"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CheckReplyStatus computes the tracking status for one document. Documents
// that are not trackable yield the neutral zero status without touching the
// store.
func (s *Service) CheckReplyStatus(ctx context.Context, doc document.Document) (Status, error) {
	if !doc.Trackable() {
		return Status{}, nil
	}
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return Status{}, err
	}
	return statusOf(ctx, doc, all), nil
}

// PendingReplies partitions all trackable, reply-less documents into urgent
// (needs attention) and normal lists, each sorted by days waiting descending
// with ties kept in scan order.
func (s *Service) PendingReplies(ctx context.Context) (urgent, normal []PendingItem, err error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, doc := range all {
		if !doc.Trackable() {
			continue
		}
		status := statusOf(ctx, doc, all)
		if status.HasReply {
			continue
		}
		item := PendingItem{Document: doc, Status: status}
		if status.NeedsAttention {
			urgent = append(urgent, item)
		} else {
			normal = append(normal, item)
		}
	}

	byWaitingDesc := func(items []PendingItem) {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Status.DaysWaiting > items[j].Status.DaysWaiting
		})
	}
	byWaitingDesc(urgent)
	byWaitingDesc(normal)
	return urgent, normal, nil
}

// Statistics aggregates the pending report. MaxWaitingDays is 0 when nothing
// is urgent.
func (s *Service) Statistics(ctx context.Context) (Stats, error) {
	urgent, normal, err := s.PendingReplies(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		TotalPending: len(urgent) + len(normal),
		UrgentCount:  len(urgent),
		NormalCount:  len(normal),
	}
	if len(urgent) > 0 {
		stats.MaxWaitingDays = urgent[0].Status.DaysWaiting
	}
	return stats, nil
}

// statusOf derives one document's status against a snapshot. The threshold
// is strict: a document waiting exactly the threshold does not yet need
// attention.
func statusOf(ctx context.Context, doc document.Document, all []document.Document) Status {
	status := Status{
		DaysWaiting: int(requestcontext.Now(ctx).Sub(doc.Date) / (24 * time.Hour)),
	}
	for _, candidate := range all {
		if candidate.ParentID != doc.ID {
			continue
		}
		status.ReplyCount++
		if candidate.Date.After(status.LatestReplyDate) {
			status.LatestReplyDate = candidate.Date
		}
	}
	status.HasReply = status.ReplyCount > 0
	status.NeedsAttention = !status.HasReply && status.DaysWaiting > document.TrackingThresholdDays
	return status
}
