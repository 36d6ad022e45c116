package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	dErrors "doctrace/pkg/domainerrors"
)

// IDLister is the slice of the repository the allocator needs.
type IDLister interface {
	GetAllIDs(ctx context.Context) ([]string, error)
}

// Allocator computes the next human-readable document code from the current
// set of existing codes.
//
// The sequence is a point-in-time count over the live key space, not a
// persisted counter: two concurrent allocations for the same date or parent
// can compute the same sequence number. The duplicate check in
// Repository.Create is the last line of defense, and even that leaves a
// narrow window under true concurrency. Known limitation; a stronger
// guarantee would need a conditional append the backing store does not
// offer.
type Allocator struct {
	ids IDLister
}

func NewAllocator(ids IDLister) *Allocator {
	return &Allocator{ids: ids}
}

// Next allocates the next code for a document dated date. Reply codes embed
// the parent id; requesting a reply without one is a validation error.
//
// Root:  {IDPrefixGeneral}{YYYYMMDD}{seq:03d}
// Reply: {IDPrefixReply}{seq:02d}{parentID}
func (a *Allocator) Next(ctx context.Context, date time.Time, isReply bool, parentID string) (string, error) {
	if isReply && parentID == "" {
		return "", dErrors.New(dErrors.CodeValidation, "reply allocation requires a parent document id")
	}

	ids, err := a.ids.GetAllIDs(ctx)
	if err != nil {
		return "", err
	}

	if isReply {
		seq := 1
		for _, id := range ids {
			if strings.HasPrefix(id, IDPrefixReply) && strings.Contains(id, parentID) {
				seq++
			}
		}
		return fmt.Sprintf("%s%02d%s", IDPrefixReply, seq, parentID), nil
	}

	prefix := IDPrefixGeneral + date.Format("20060102")
	seq := 1
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			seq++
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}
