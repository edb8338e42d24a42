package main

import (
	"context"
	"flag"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loc8r/loc8r-services/api/internal/config"
	mongodoc "github.com/loc8r/loc8r-services/api/internal/infrastructure/mongo"
	locapp "github.com/loc8r/loc8r-services/api/internal/locations/application"
	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

type seedOptions struct {
	drop bool
}

// seedLocation はサンプル投入用の中間表現。
type seedLocation struct {
	location domain.Location
	reviews  []seedReview
}

type seedReview struct {
	author     string
	rating     string
	reviewText string
}

func main() {
	opts := seedOptions{}
	flag.BoolVar(&opts.drop, "drop", false, "投入前にコレクションを空にする")
	flag.Parse()

	cfg := config.Load()
	logger := cfg.ServerLog

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Printf("MongoDB 切断時にエラー: %v", err)
		}
	}()

	database := client.Database(cfg.MongoDatabase)

	if opts.drop {
		if _, err := database.Collection(cfg.LocationCollection).DeleteMany(ctx, bson.D{}); err != nil {
			logger.Fatalf("%s コレクションの削除に失敗: %v", cfg.LocationCollection, err)
		}
		logger.Printf("%s コレクションを空にしました", cfg.LocationCollection)
	}

	repo := mongodoc.NewLocationRepository(database, cfg.LocationCollection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("2dsphere インデックスの作成に失敗: %v", err)
	}

	locationCommands := locapp.NewLocationCommandService(repo)
	reviewService := locapp.NewReviewService(repo, logger)

	for _, seed := range sampleLocations() {
		location, fieldErrs, err := locationCommands.Create(ctx, locapp.CreateLocationCommand{
			Name:         seed.location.Name,
			Address:      seed.location.Address,
			Facilities:   seed.location.Facilities,
			Lng:          seed.location.Coords.Lng,
			Lat:          seed.location.Coords.Lat,
			OpeningTimes: seed.location.OpeningTimes,
		})
		if err != nil {
			logger.Fatalf("ロケーション %q の投入に失敗: %v", seed.location.Name, err)
		}
		if len(fieldErrs) > 0 {
			logger.Fatalf("ロケーション %q の検証に失敗: %v", seed.location.Name, fieldErrs)
		}

		for _, review := range seed.reviews {
			rating := review.rating
			_, reviewErrs, err := reviewService.Create(ctx, location.ID, locapp.ReviewInput{
				Author:     &review.author,
				ReviewText: &review.reviewText,
				Rating:     &rating,
			})
			if err != nil {
				logger.Fatalf("レビュー投入に失敗 location=%s: %v", location.Name, err)
			}
			if len(reviewErrs) > 0 {
				logger.Fatalf("レビュー検証に失敗 location=%s: %v", location.Name, reviewErrs)
			}
		}

		logger.Printf("投入完了: %s (reviews=%d)", location.Name, len(seed.reviews))
	}

	logger.Println("シード処理が完了しました")
}

// sampleLocations はローカル動作確認用のサンプル店舗セット。
func sampleLocations() []seedLocation {
	weekdayHours := []domain.OpeningTime{
		{Days: "Monday - Friday", Opening: "7:00am", Closing: "7:00pm"},
		{Days: "Saturday", Opening: "8:00am", Closing: "5:00pm"},
		{Days: "Sunday", Closed: true},
	}

	return []seedLocation{
		{
			location: domain.Location{
				Name:         "Starcups",
				Address:      "서울특별시 관악구 호암로 100",
				Facilities:   []string{"Hot drinks", "Food", "Premium wifi"},
				Coords:       domain.Coordinates{Lng: 126.9289096, Lat: 37.4622827},
				OpeningTimes: weekdayHours,
			},
			reviews: []seedReview{
				{author: "Gunsu Hwang", rating: "5", reviewText: "wifi가 잘 터짐!!"},
				{author: "Charlie Chaplin", rating: "3", reviewText: "커피가 환상적임~"},
			},
		},
		{
			location: domain.Location{
				Name:         "Cafe Hero",
				Address:      "125 High Street, Reading, RG6 1PS",
				Facilities:   []string{"Hot drinks", "Food", "Premium wifi"},
				Coords:       domain.Coordinates{Lng: 126.9389, Lat: 37.4701},
				OpeningTimes: weekdayHours,
			},
			reviews: []seedReview{
				{author: "Ada Lovelace", rating: "4", reviewText: "Quiet seats and fast wifi."},
			},
		},
		{
			location: domain.Location{
				Name:         "Burger Queen",
				Address:      "125 High Street, Reading, RG6 1PS",
				Facilities:   []string{"Food", "Premium wifi"},
				Coords:       domain.Coordinates{Lng: 126.9125, Lat: 37.4580},
				OpeningTimes: weekdayHours,
			},
			reviews: []seedReview{
				{author: "Grace Hopper", rating: "2", reviewText: "Loud at lunchtime."},
			},
		},
	}
}
