package public

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

// ratingField accepts a JSON number or a numeric-looking string. The raw text
// is kept so the domain validator can distinguish "abc" from "5.5".
type ratingField string

func (f *ratingField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = ratingField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("rating must be a number or a string")
	}
	*f = ratingField(n.String())
	return nil
}

// reviewRequest covers both full creation and partial update; nil pointers
// mean the field was absent from the body.
type reviewRequest struct {
	Author     *string      `json:"author"`
	Rating     *ratingField `json:"rating"`
	ReviewText *string      `json:"reviewText"`
}

type openingTimePayload struct {
	Days    string `json:"days"`
	Opening string `json:"opening,omitempty"`
	Closing string `json:"closing,omitempty"`
	Closed  bool   `json:"closed"`
}

type createLocationRequest struct {
	Name         string               `json:"name"`
	Address      string               `json:"address"`
	Facilities   []string             `json:"facilities"`
	Lng          float64              `json:"lng"`
	Lat          float64              `json:"lat"`
	OpeningTimes []openingTimePayload `json:"openingTimes"`
}

type coordsPayload struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type reviewResponse struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	CreatedOn  time.Time `json:"createdOn"`
}

type locationSummaryResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	Rating         int      `json:"rating"`
	Facilities     []string `json:"facilities,omitempty"`
	DistanceMeters float64  `json:"distanceMeters"`
	Distance       string   `json:"distance"`
}

type locationDetailResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Address      string               `json:"address,omitempty"`
	Rating       int                  `json:"rating"`
	Facilities   []string             `json:"facilities,omitempty"`
	Coords       coordsPayload        `json:"coords"`
	OpeningTimes []openingTimePayload `json:"openingTimes,omitempty"`
	Reviews      []reviewResponse     `json:"reviews"`
}

type locationSummaryPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type reviewReadResponse struct {
	Location locationSummaryPayload `json:"location"`
	Review   reviewResponse         `json:"review"`
}

func buildReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:         review.ID,
		Author:     review.Author,
		Rating:     review.Rating,
		ReviewText: review.ReviewText,
		CreatedOn:  review.CreatedOn,
	}
}

func buildLocationDetailResponse(location domain.Location) locationDetailResponse {
	openingTimes := make([]openingTimePayload, 0, len(location.OpeningTimes))
	for _, ot := range location.OpeningTimes {
		openingTimes = append(openingTimes, openingTimePayload{
			Days:    ot.Days,
			Opening: ot.Opening,
			Closing: ot.Closing,
			Closed:  ot.Closed,
		})
	}

	reviews := make([]reviewResponse, 0, len(location.Reviews))
	for _, review := range location.Reviews {
		reviews = append(reviews, buildReviewResponse(review))
	}

	return locationDetailResponse{
		ID:           location.ID,
		Name:         location.Name,
		Address:      location.Address,
		Rating:       location.Rating,
		Facilities:   append([]string{}, location.Facilities...),
		Coords:       coordsPayload{Lng: location.Coords.Lng, Lat: location.Coords.Lat},
		OpeningTimes: openingTimes,
		Reviews:      reviews,
	}
}
