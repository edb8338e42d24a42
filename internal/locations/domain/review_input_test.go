package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReviewInput_Valid(t *testing.T) {
	normalized, errs := ValidateReviewInput("  Gunsu Hwang ", " great wifi ", "5")
	require.Empty(t, errs)
	assert.Equal(t, "Gunsu Hwang", normalized.Author)
	assert.Equal(t, "great wifi", normalized.ReviewText)
	assert.Equal(t, 5, normalized.Rating)
}

func TestValidateReviewInput_RatingBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		rating  string
		wantErr string
		want    int
	}{
		{name: "zero accepted", rating: "0", want: 0},
		{name: "five accepted", rating: "5", want: 5},
		{name: "numeric text accepted", rating: " 3 ", want: 3},
		{name: "negative rejected", rating: "-1", wantErr: msgRatingRange},
		{name: "just below zero rejected", rating: "-0.001", wantErr: msgRatingRange},
		{name: "above five rejected", rating: "5.5", wantErr: msgRatingRange},
		{name: "just above five rejected", rating: "5.001", wantErr: msgRatingRange},
		{name: "fractional rejected", rating: "4.5", wantErr: msgRatingRange},
		{name: "empty rejected", rating: "", wantErr: msgRatingNumeric},
		{name: "non numeric rejected", rating: "abc", wantErr: msgRatingNumeric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			normalized, errs := ValidateReviewInput("A", "ok", tc.rating)
			if tc.wantErr == "" {
				require.Empty(t, errs)
				assert.Equal(t, tc.want, normalized.Rating)
				return
			}
			require.Contains(t, errs, "rating")
			assert.Equal(t, tc.wantErr, errs["rating"])
		})
	}
}

func TestValidateReviewInput_BlankFields(t *testing.T) {
	_, errs := ValidateReviewInput("   ", "", "9")
	require.Len(t, errs, 3)
	assert.Equal(t, msgAuthorRequired, errs["author"])
	assert.Equal(t, msgReviewTextRequired, errs["reviewText"])
	assert.Equal(t, msgRatingRange, errs["rating"])
}
