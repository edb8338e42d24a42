package application

import (
	"context"
	"errors"

	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

// Sentinel errors shared by repositories and services. Handlers map these to
// resource-specific 404 responses.
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrReviewNotFound   = errors.New("review not found")
)

// LocationRepository abstracts persistence of locations and their embedded
// reviews.
// LocationRepository はロケーション集約の読み書きを提供するポート。
type LocationRepository interface {
	FindNear(ctx context.Context, query NearQuery) ([]LocationDistance, error)
	FindByID(ctx context.Context, id string) (*domain.Location, error)
	Create(ctx context.Context, location *domain.Location) error
	// SaveReviews persists the whole embedded review sequence of a location.
	SaveReviews(ctx context.Context, locationID string, reviews []domain.Review) error
	// SetRating persists only the derived aggregate rating.
	SetRating(ctx context.Context, locationID string, rating int) error
	// NewReviewID mints an identifier for a review about to be embedded.
	NewReviewID() string
}

// NearQuery expresses a proximity lookup around one point.
type NearQuery struct {
	Lng         float64
	Lat         float64
	MaxDistance float64
}

// LocationDistance pairs a location with its geodesic distance from the
// query point, in meters.
type LocationDistance struct {
	Location       domain.Location
	DistanceMeters float64
}

// LocationQueryService describes location read use-cases.
// LocationQueryService は近傍検索と詳細取得のリーダーモデル。
type LocationQueryService interface {
	Near(ctx context.Context, query NearQuery) ([]LocationDistance, error)
	Detail(ctx context.Context, id string) (*domain.Location, error)
}

// LocationCommandService handles location creation.
type LocationCommandService interface {
	Create(ctx context.Context, cmd CreateLocationCommand) (*domain.Location, domain.FieldErrors, error)
}

// CreateLocationCommand captures the fields of a new venue.
type CreateLocationCommand struct {
	Name         string
	Address      string
	Facilities   []string
	Lng          float64
	Lat          float64
	OpeningTimes []domain.OpeningTime
}

// ReviewInput carries raw review fields from the transport layer. Nil means
// the field was not supplied, which matters for partial updates; Rating stays
// text so numeric-looking strings validate like numbers.
type ReviewInput struct {
	Author     *string
	ReviewText *string
	Rating     *string
}

// ReviewWithLocation is the read model for a single embedded review plus the
// minimal parent summary.
type ReviewWithLocation struct {
	LocationID   string
	LocationName string
	Review       domain.Review
}

// ReviewService owns the embedded review lifecycle.
// ReviewService はレビュー CRUD と評価集計の呼び出しを担うユースケース層。
type ReviewService interface {
	Create(ctx context.Context, locationID string, input ReviewInput) (*domain.Review, domain.FieldErrors, error)
	Get(ctx context.Context, locationID, reviewID string) (*ReviewWithLocation, error)
	Update(ctx context.Context, locationID, reviewID string, input ReviewInput) (*domain.Review, domain.FieldErrors, error)
	Delete(ctx context.Context, locationID, reviewID string) error
}
