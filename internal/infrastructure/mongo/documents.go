package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoJSONPoint は 2dsphere インデックス対象の座標を GeoJSON 形式で保持する。
// Coordinates は [lng, lat] の順。
type GeoJSONPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// OpeningTimeDocument は営業時間 1 行分の埋め込みドキュメント。
type OpeningTimeDocument struct {
	Days    string `bson:"days"`
	Opening string `bson:"opening,omitempty"`
	Closing string `bson:"closing,omitempty"`
	Closed  bool   `bson:"closed"`
}

// ReviewDocument はロケーションに埋め込まれるレビューのスキーマ。
// 親ドキュメントと同一書き込みで永続化される。
type ReviewDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Author     string             `bson:"author"`
	Rating     int                `bson:"rating"`
	ReviewText string             `bson:"reviewText"`
	CreatedOn  time.Time          `bson:"createdOn"`
}

// LocationDocument は MongoDB 上でのロケーションスキーマを Go 構造体として表現したもの。
type LocationDocument struct {
	ID           primitive.ObjectID    `bson:"_id"`
	Name         string                `bson:"name"`
	Address      string                `bson:"address,omitempty"`
	Rating       int                   `bson:"rating"`
	Facilities   []string              `bson:"facilities,omitempty"`
	Coords       GeoJSONPoint          `bson:"coords"`
	OpeningTimes []OpeningTimeDocument `bson:"openingTime,omitempty"`
	Reviews      []ReviewDocument      `bson:"reviews,omitempty"`
}

// locationDistanceDocument は $geoNear の distanceField を含む読み取り専用形。
type locationDistanceDocument struct {
	LocationDocument `bson:",inline"`
	Distance         float64 `bson:"distance"`
}
