package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandero/tourbook/internal/errs"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "The Forest Hiker", "the-forest-hiker"},
		{"punctuation", "Sea & Sun: Deluxe!", "sea-sun-deluxe"},
		{"numbers", "Top 10 Peaks", "top-10-peaks"},
		{"trailing separators", "Snow Adventurer  ", "snow-adventurer"},
		{"already slugged", "city-wanderer", "city-wanderer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestDistanceUnitMultiplier(t *testing.T) {
	mult, err := distanceUnitMultiplier("km")
	require.NoError(t, err)
	assert.Equal(t, 1.0, mult)

	mult, err = distanceUnitMultiplier("mi")
	require.NoError(t, err)
	assert.Equal(t, milesPerKilometer, mult)

	_, err = distanceUnitMultiplier("furlongs")
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Status)
	assert.Equal(t, "INVALID_UNIT", httpErr.Code)
}

func TestDistances_InvalidUnit(t *testing.T) {
	// The unit is checked before any store access.
	svc := &TourService{}
	_, err := svc.Distances(context.Background(), 34.1, -118.1, "furlongs")
	require.Error(t, err)
}

func TestPrepareWrite(t *testing.T) {
	svc := &TourService{}

	values := svc.PrepareWrite(map[string]any{"name": "The Forest Hiker", "price": 497.0})
	assert.Equal(t, "the-forest-hiker", values["slug"])

	// No name, no derived slug.
	values = svc.PrepareWrite(map[string]any{"price": 497.0})
	_, ok := values["slug"]
	assert.False(t, ok)
}
