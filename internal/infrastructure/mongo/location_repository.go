package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loc8r/loc8r-services/api/internal/locations/application"
	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

// LocationRepository implements application.LocationRepository using MongoDB.
type LocationRepository struct {
	collection *mongo.Collection
}

// NewLocationRepository creates a new Mongo-backed location repository.
func NewLocationRepository(db *mongo.Database, collectionName string) *LocationRepository {
	return &LocationRepository{collection: db.Collection(collectionName)}
}

// EnsureIndexes は coords の 2dsphere インデックスを保証する。
// 近傍検索はこのインデックスを前提とするため、起動時に必ず呼び出す。
func (r *LocationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "coords", Value: "2dsphere"}},
		Options: options.Index().SetName("coords_2dsphere"),
	})
	return err
}

// FindNear は $geoNear 集約で指定点からの球面距離つき一覧を返す。
// 距離はメートル単位で昇順ソート済み。
func (r *LocationRepository) FindNear(ctx context.Context, query application.NearQuery) ([]application.LocationDistance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{query.Lng, query.Lat},
			},
			"distanceField": "distance",
			"maxDistance":   query.MaxDistance,
			"spherical":     true,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]application.LocationDistance, 0)
	for cursor.Next(ctx) {
		var doc locationDistanceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, application.LocationDistance{
			Location:       mapLocationDocument(doc.LocationDocument),
			DistanceMeters: doc.Distance,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// FindByID returns a single location by its identifier. Malformed ids behave
// like missing documents so callers see one not-found error.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrLocationNotFound
	}
	var doc LocationDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrLocationNotFound
		}
		return nil, err
	}
	location := mapLocationDocument(doc)
	return &location, nil
}

// Create はドメインロケーションを Mongo ドキュメントへ変換して新規登録する。
// 採番した ObjectID を entity へ書き戻す。
func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) error {
	if location == nil {
		return errors.New("location payload is nil")
	}
	doc, err := mapDomainLocationToDocument(location)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	location.ID = doc.ID.Hex()
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

// SaveReviews replaces the embedded review sequence of one location. The
// whole array is written in a single document update, so the write itself is
// atomic even though the surrounding read-modify-write cycle is not.
func (r *LocationRepository) SaveReviews(ctx context.Context, locationID string, reviews []domain.Review) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(locationID))
	if err != nil {
		return application.ErrLocationNotFound
	}
	docs, err := mapDomainReviewsToDocuments(reviews)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{"reviews": docs}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrLocationNotFound
	}
	return nil
}

// SetRating persists only the derived aggregate rating field.
func (r *LocationRepository) SetRating(ctx context.Context, locationID string, rating int) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(locationID))
	if err != nil {
		return application.ErrLocationNotFound
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{"rating": rating}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrLocationNotFound
	}
	return nil
}

// NewReviewID mints an ObjectID for a review about to be embedded.
func (r *LocationRepository) NewReviewID() string {
	return primitive.NewObjectID().Hex()
}

// mapLocationDocument は Mongo ドキュメントをドメインエンティティへ復元する。
func mapLocationDocument(doc LocationDocument) domain.Location {
	coords := domain.Coordinates{}
	if len(doc.Coords.Coordinates) == 2 {
		coords.Lng = doc.Coords.Coordinates[0]
		coords.Lat = doc.Coords.Coordinates[1]
	}

	openingTimes := make([]domain.OpeningTime, 0, len(doc.OpeningTimes))
	for _, ot := range doc.OpeningTimes {
		openingTimes = append(openingTimes, domain.OpeningTime{
			Days:    ot.Days,
			Opening: ot.Opening,
			Closing: ot.Closing,
			Closed:  ot.Closed,
		})
	}

	reviews := make([]domain.Review, 0, len(doc.Reviews))
	for _, rv := range doc.Reviews {
		reviews = append(reviews, domain.Review{
			ID:         rv.ID.Hex(),
			Author:     rv.Author,
			Rating:     rv.Rating,
			ReviewText: rv.ReviewText,
			CreatedOn:  rv.CreatedOn,
		})
	}

	return domain.Location{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Address:      doc.Address,
		Rating:       doc.Rating,
		Facilities:   append([]string{}, doc.Facilities...),
		Coords:       coords,
		OpeningTimes: openingTimes,
		Reviews:      reviews,
	}
}

// mapDomainLocationToDocument はドメインロケーションを Mongo 保存形式に射影する。
func mapDomainLocationToDocument(location *domain.Location) (LocationDocument, error) {
	reviews, err := mapDomainReviewsToDocuments(location.Reviews)
	if err != nil {
		return LocationDocument{}, err
	}

	openingTimes := make([]OpeningTimeDocument, 0, len(location.OpeningTimes))
	for _, ot := range location.OpeningTimes {
		openingTimes = append(openingTimes, OpeningTimeDocument{
			Days:    ot.Days,
			Opening: ot.Opening,
			Closing: ot.Closing,
			Closed:  ot.Closed,
		})
	}

	return LocationDocument{
		Name:       location.Name,
		Address:    location.Address,
		Rating:     location.Rating,
		Facilities: append([]string{}, location.Facilities...),
		Coords: GeoJSONPoint{
			Type:        "Point",
			Coordinates: []float64{location.Coords.Lng, location.Coords.Lat},
		},
		OpeningTimes: openingTimes,
		Reviews:      reviews,
	}, nil
}

func mapDomainReviewsToDocuments(reviews []domain.Review) ([]ReviewDocument, error) {
	docs := make([]ReviewDocument, 0, len(reviews))
	for _, review := range reviews {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(review.ID))
		if err != nil {
			return nil, errors.New("review id is not a valid object id: " + review.ID)
		}
		docs = append(docs, ReviewDocument{
			ID:         id,
			Author:     review.Author,
			Rating:     review.Rating,
			ReviewText: review.ReviewText,
			CreatedOn:  review.CreatedOn,
		})
	}
	return docs, nil
}
