package domain

// AverageRating computes the displayed rating for a review set:
// floor(sum / count), integer truncation. The second return value is false
// when there are no reviews, in which case the stored rating must be left
// untouched rather than reset.
func AverageRating(reviews []Review) (int, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	total := 0
	for _, review := range reviews {
		total += review.Rating
	}
	return total / len(reviews), true
}
