package domain

import (
	"math"
	"strconv"
	"strings"
)

// FieldErrors maps a field name to a human-readable validation message.
// Every failing field is reported, not just the first one.
type FieldErrors map[string]string

// NormalizedReview is the trimmed, parsed result of a successful validation.
type NormalizedReview struct {
	Author     string
	ReviewText string
	Rating     int
}

const (
	msgAuthorRequired     = "author is required"
	msgReviewTextRequired = "reviewText is required"
	msgRatingNumeric      = "rating must be numeric"
	msgRatingRange        = "rating must be an integer between 0 and 5"
)

// ValidateReviewInput は 1 件分のレビュー入力を正規化し、全フィールドを検証する。
// rating は数値風の文字列も受け付ける（"5" は有効、"" や "abc" は無効）。
func ValidateReviewInput(author, reviewText, rating string) (NormalizedReview, FieldErrors) {
	errs := FieldErrors{}

	author = strings.TrimSpace(author)
	if author == "" {
		errs["author"] = msgAuthorRequired
	}

	reviewText = strings.TrimSpace(reviewText)
	if reviewText == "" {
		errs["reviewText"] = msgReviewTextRequired
	}

	parsed, ratingErr := parseRating(rating)
	if ratingErr != "" {
		errs["rating"] = ratingErr
	}

	if len(errs) > 0 {
		return NormalizedReview{}, errs
	}
	return NormalizedReview{
		Author:     author,
		ReviewText: reviewText,
		Rating:     parsed,
	}, nil
}

// parseRating distinguishes "not numeric" from "numeric but out of range".
// The stored rating is a whole number, so fractional input is rejected with
// the range message rather than silently truncated.
func parseRating(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, msgRatingNumeric
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, msgRatingNumeric
	}
	if value < 0 || value > 5 || value != math.Trunc(value) {
		return 0, msgRatingRange
	}
	return int(value), ""
}
