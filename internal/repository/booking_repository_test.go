package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakgill786/luxury-car-service/internal/model"
)

func TestBookingCreateRejectsOverlap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	renter := createTestUser(t, db, "renter")
	other := createTestUser(t, db, "other")
	spot := createTestSpot(t, db, owner.ID)

	repo := NewBookingRepository(db)

	first := &model.Booking{
		SpotID:    spot.ID,
		UserID:    renter.ID,
		StartDate: date(t, "2025-06-01"),
		EndDate:   date(t, "2025-06-05"),
	}
	require.NoError(t, repo.Create(ctx, first))

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"starts inside", "2025-06-03", "2025-06-10"},
		{"ends inside", "2025-05-28", "2025-06-02"},
		{"surrounds", "2025-05-28", "2025-06-10"},
		{"contained", "2025-06-02", "2025-06-04"},
		{"identical", "2025-06-01", "2025-06-05"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := &model.Booking{
				SpotID:    spot.ID,
				UserID:    other.ID,
				StartDate: date(t, tc.start),
				EndDate:   date(t, tc.end),
			}
			err := repo.Create(ctx, candidate)
			assert.ErrorIs(t, err, ErrBookingConflict)
		})
	}

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBookingCreateAllowsAdjacentRanges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	renter := createTestUser(t, db, "renter")
	next := createTestUser(t, db, "next")
	spot := createTestSpot(t, db, owner.ID)

	repo := NewBookingRepository(db)

	require.NoError(t, repo.Create(ctx, &model.Booking{
		SpotID:    spot.ID,
		UserID:    renter.ID,
		StartDate: date(t, "2025-06-01"),
		EndDate:   date(t, "2025-06-05"),
	}))

	// Checkout day equals checkin day: no conflict under the half-open range.
	require.NoError(t, repo.Create(ctx, &model.Booking{
		SpotID:    spot.ID,
		UserID:    next.ID,
		StartDate: date(t, "2025-06-05"),
		EndDate:   date(t, "2025-06-08"),
	}))

	require.NoError(t, repo.Create(ctx, &model.Booking{
		SpotID:    spot.ID,
		UserID:    next.ID,
		StartDate: date(t, "2025-05-28"),
		EndDate:   date(t, "2025-06-01"),
	}))
}

func TestBookingCreateIgnoresOtherSpots(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	renter := createTestUser(t, db, "renter")
	spotA := createTestSpot(t, db, owner.ID)
	spotB := createTestSpot(t, db, owner.ID)

	repo := NewBookingRepository(db)

	require.NoError(t, repo.Create(ctx, &model.Booking{
		SpotID:    spotA.ID,
		UserID:    renter.ID,
		StartDate: date(t, "2025-06-01"),
		EndDate:   date(t, "2025-06-05"),
	}))

	require.NoError(t, repo.Create(ctx, &model.Booking{
		SpotID:    spotB.ID,
		UserID:    renter.ID,
		StartDate: date(t, "2025-06-01"),
		EndDate:   date(t, "2025-06-05"),
	}))
}

func TestBookingUpdateExcludesItself(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	renter := createTestUser(t, db, "renter")
	spot := createTestSpot(t, db, owner.ID)

	repo := NewBookingRepository(db)

	booking := &model.Booking{
		SpotID:    spot.ID,
		UserID:    renter.ID,
		StartDate: date(t, "2025-06-01"),
		EndDate:   date(t, "2025-06-05"),
	}
	require.NoError(t, repo.Create(ctx, booking))

	// Extending a booking over its own range is not a conflict.
	booking.EndDate = date(t, "2025-06-07")
	require.NoError(t, repo.Update(ctx, booking))

	stored, err := repo.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndDate.Equal(date(t, "2025-06-07")))
}

func TestBookingUpdateRejectsOverlapWithOthers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	renter := createTestUser(t, db, "renter")
	spot := createTestSpot(t, db, owner.ID)

	repo := NewBookingRepository(db)

	existing := &model.Booking{
		SpotID:    spot.ID,
		UserID:    renter.ID,
		StartDate: date(t, "2025-06-10"),
		EndDate:   date(t, "2025-06-15"),
	}
	require.NoError(t, repo.Create(ctx, existing))

	booking := &model.Booking{
		SpotID:    spot.ID,
		UserID:    renter.ID,
		StartDate: date(t, "2025-06-01"),
		EndDate:   date(t, "2025-06-05"),
	}
	require.NoError(t, repo.Create(ctx, booking))

	booking.EndDate = date(t, "2025-06-12")
	assert.ErrorIs(t, repo.Update(ctx, booking), ErrBookingConflict)
}

func TestBookingConcurrentCreateStoresExactlyOne(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	spot := createTestSpot(t, db, owner.ID)

	repo := NewBookingRepository(db)

	const attempts = 8
	renters := make([]*model.User, attempts)
	for i := range renters {
		renters[i] = createTestUser(t, db, "renter"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			results <- repo.Create(ctx, &model.Booking{
				SpotID:    spot.ID,
				UserID:    userID,
				StartDate: date(t, "2025-07-01"),
				EndDate:   date(t, "2025-07-05"),
			})
		}(renters[i].ID)
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrBookingConflict):
			conflicted++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBookingListByUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	renter := createTestUser(t, db, "renter")
	other := createTestUser(t, db, "other")
	spot := createTestSpot(t, db, owner.ID)

	repo := NewBookingRepository(db)

	require.NoError(t, repo.Create(ctx, &model.Booking{
		SpotID: spot.ID, UserID: renter.ID,
		StartDate: date(t, "2025-06-01"), EndDate: date(t, "2025-06-05"),
	}))
	require.NoError(t, repo.Create(ctx, &model.Booking{
		SpotID: spot.ID, UserID: other.ID,
		StartDate: date(t, "2025-06-05"), EndDate: date(t, "2025-06-08"),
	}))

	bookings, err := repo.ListByUser(ctx, renter.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, renter.ID, bookings[0].UserID)
}
