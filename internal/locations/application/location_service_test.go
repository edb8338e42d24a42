package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

func TestLocationCommandService_Create(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLocationCommandService(repo)

	location, fieldErrs, err := svc.Create(context.Background(), CreateLocationCommand{
		Name:       "  Starcups ",
		Address:    "125 High Street",
		Facilities: []string{"Hot drinks", "Premium wifi"},
		Lng:        126.9,
		Lat:        37.5,
		OpeningTimes: []domain.OpeningTime{
			{Days: "Monday - Friday", Opening: "7:00am", Closing: "7:00pm"},
			{Days: "Sunday", Closed: true},
		},
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	assert.NotEmpty(t, location.ID)
	assert.Equal(t, "Starcups", location.Name)
	assert.Zero(t, location.Rating)
}

func TestLocationCommandService_CreateValidation(t *testing.T) {
	svc := NewLocationCommandService(newFakeRepo())

	_, fieldErrs, err := svc.Create(context.Background(), CreateLocationCommand{
		Name: "  ",
		Lng:  181,
		Lat:  -91,
	})
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "lng")
	assert.Contains(t, fieldErrs, "lat")
}
