package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakgill786/luxury-car-service/internal/model"
)

func TestSpotDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	renter := createTestUser(t, db, "renter")
	spot := createTestSpot(t, db, owner.ID)
	keep := createTestSpot(t, db, owner.ID)

	require.NoError(t, db.Create(&model.SpotImage{SpotID: spot.ID, URL: "https://img.test/1.jpg", Preview: true}).Error)
	require.NoError(t, db.Create(&model.SpotImage{SpotID: keep.ID, URL: "https://img.test/keep.jpg"}).Error)

	review := model.Review{SpotID: spot.ID, UserID: renter.ID, Review: "Great stay", Stars: 5}
	require.NoError(t, db.Create(&review).Error)
	require.NoError(t, db.Create(&model.ReviewImage{ReviewID: review.ID, URL: "https://img.test/r.jpg"}).Error)

	require.NoError(t, db.Create(&model.Booking{
		SpotID: spot.ID, UserID: renter.ID,
		StartDate: date(t, "2025-06-01"), EndDate: date(t, "2025-06-05"),
	}).Error)

	repo := NewSpotRepository(db)
	require.NoError(t, repo.Delete(ctx, spot.ID))

	counts := map[string]interface{}{
		"spot images":   &model.SpotImage{},
		"reviews":       &model.Review{},
		"review images": &model.ReviewImage{},
		"bookings":      &model.Booking{},
	}
	for name, entity := range counts {
		var count int64
		require.NoError(t, db.Model(entity).Count(&count).Error)
		if name == "spot images" {
			// The unrelated spot's image survives.
			assert.Equal(t, int64(1), count, name)
		} else {
			assert.Equal(t, int64(0), count, name)
		}
	}

	_, err := repo.FindByID(ctx, spot.ID)
	assert.Error(t, err)

	_, err = repo.FindByID(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestSpotListFiltersAndPages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	repo := NewSpotRepository(db)

	prices := []float64{50, 150, 250, 350}
	for _, price := range prices {
		spot := &model.Spot{
			OwnerID: owner.ID,
			Address: "1 Test Way", City: "Austin", State: "TX", Country: "USA",
			Lat: 30.2, Lng: -97.7, Name: "Spot", Price: price,
		}
		require.NoError(t, db.Create(spot).Error)
	}

	min := 100.0
	max := 300.0
	spots, err := repo.List(ctx, SpotFilter{Page: 1, Size: 20, MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, 150.0, spots[0].Price)
	assert.Equal(t, 250.0, spots[1].Price)

	paged, err := repo.List(ctx, SpotFilter{Page: 2, Size: 3})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, 350.0, paged[0].Price)
}

func TestSpotPreviewImages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	withPreview := createTestSpot(t, db, owner.ID)
	withoutPreview := createTestSpot(t, db, owner.ID)

	require.NoError(t, db.Create(&model.SpotImage{SpotID: withPreview.ID, URL: "https://img.test/other.jpg"}).Error)
	require.NoError(t, db.Create(&model.SpotImage{SpotID: withPreview.ID, URL: "https://img.test/preview.jpg", Preview: true}).Error)
	require.NoError(t, db.Create(&model.SpotImage{SpotID: withoutPreview.ID, URL: "https://img.test/plain.jpg"}).Error)

	repo := NewSpotRepository(db)
	previews, err := repo.PreviewImages(ctx, []uint{withPreview.ID, withoutPreview.ID})
	require.NoError(t, err)

	assert.Equal(t, "https://img.test/preview.jpg", previews[withPreview.ID])
	_, ok := previews[withoutPreview.ID]
	assert.False(t, ok)
}
