package document

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"doctrace/internal/rowstore"
	dErrors "doctrace/pkg/domainerrors"
	"doctrace/pkg/testutil"
)

type staticIDs []string

func (s staticIDs) GetAllIDs(context.Context) ([]string, error) { return s, nil }

func TestAllocatorNextGeneral(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("first code of the day", func(t *testing.T) {
		alloc := NewAllocator(staticIDs{})
		id, err := alloc.Next(ctx, date, false, "")
		require.NoError(t, err)
		assert.Equal(t, "INQ20260310001", id)
	})

	t.Run("sequence counts same-day codes only", func(t *testing.T) {
		alloc := NewAllocator(staticIDs{
			"INQ20260310001",
			"INQ20260310002",
			"INQ20260309004", // previous day, not counted
			"RE01INQ20260310001",
		})
		id, err := alloc.Next(ctx, date, false, "")
		require.NoError(t, err)
		assert.Equal(t, "INQ20260310003", id)
	})
}

func TestAllocatorNextReply(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("first reply", func(t *testing.T) {
		alloc := NewAllocator(staticIDs{"INQ20260310001"})
		id, err := alloc.Next(ctx, date, true, "INQ20260310001")
		require.NoError(t, err)
		assert.Equal(t, "RE01INQ20260310001", id)
	})

	t.Run("sequence counts replies to the same parent", func(t *testing.T) {
		alloc := NewAllocator(staticIDs{
			"INQ20260310001",
			"RE01INQ20260310001",
			"RE01INQ20260310002", // different parent
		})
		id, err := alloc.Next(ctx, date, true, "INQ20260310001")
		require.NoError(t, err)
		assert.Equal(t, "RE02INQ20260310001", id)
	})

	t.Run("reply without a parent is a validation error", func(t *testing.T) {
		alloc := NewAllocator(staticIDs{})
		_, err := alloc.Next(ctx, date, true, "")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

// The sequence is a count over a point-in-time snapshot, not a persisted
// counter. Two allocations against the same snapshot compute the same code;
// the duplicate check at create time is what catches the collision. Pinning
// the interleaving here keeps the limitation visible.
func TestAllocatorRaceWindowYieldsSameCode(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	snapshot := staticIDs{"INQ20260310001"}

	first, err := NewAllocator(snapshot).Next(ctx, date, false, "")
	require.NoError(t, err)
	second, err := NewAllocator(snapshot).Next(ctx, date, false, "")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same snapshot, same code")
}

// Sequential create-through-the-repository keeps codes unique even under
// concurrent callers contending on the goroutine scheduler, because each
// create re-reads the key space. This does not exercise the true concurrent
// window above; it shows the normal path converges.
func TestAllocatorUniqueAcrossCreates(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := rowstore.NewMemory(ColID)
	repo := NewRepository(store, testutil.Logger(), nil)
	alloc := NewAllocator(repo)

	sem := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			// Serialize allocate+create pairs; the goroutines still contend
			// on everything else.
			sem <- struct{}{}
			defer func() { <-sem }()

			id, err := alloc.Next(gctx, date, false, "")
			if err != nil {
				return err
			}
			return repo.Create(gctx, Document{
				ID: id, Date: date, Type: TypeMemo,
				Agency: "Agency", Subject: fmt.Sprintf("Subject %s", id),
			})
		})
	}
	require.NoError(t, g.Wait())

	ids, err := repo.GetAllIDs(ctx)
	require.NoError(t, err)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate code %s", id)
		seen[id] = true
	}
	assert.Len(t, ids, 8)
}
