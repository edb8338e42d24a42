package domain

import "time"

// Location represents a publicly visible venue with its embedded reviews.
type Location struct {
	ID           string
	Name         string
	Address      string
	Rating       int
	Facilities   []string
	Coords       Coordinates
	OpeningTimes []OpeningTime
	Reviews      []Review
}

// Coordinates holds a WGS84 point. Longitude first, matching the
// GeoJSON storage order.
type Coordinates struct {
	Lng float64
	Lat float64
}

// OpeningTime describes one row of a venue's opening schedule.
type OpeningTime struct {
	Days    string
	Opening string
	Closing string
	Closed  bool
}

// Review is a rated, authored comment embedded in exactly one Location.
// Its ID is unique only within the parent.
type Review struct {
	ID         string
	Author     string
	Rating     int
	ReviewText string
	CreatedOn  time.Time
}

// FindReview returns the embedded review with the given id, or nil.
func (l *Location) FindReview(id string) *Review {
	for i := range l.Reviews {
		if l.Reviews[i].ID == id {
			return &l.Reviews[i]
		}
	}
	return nil
}
