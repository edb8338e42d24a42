package application

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/loc8r/loc8r-services/api/internal/locations/domain"
)

type reviewService struct {
	repo   LocationRepository
	logger *log.Logger
}

// NewReviewService creates the review lifecycle service.
func NewReviewService(repo LocationRepository, logger *log.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

// Create はレビューを検証してから親ロケーションへ追加する。
// 検証エラー時は状態を一切変更せず FieldErrors を返す。
func (s *reviewService) Create(ctx context.Context, locationID string, input ReviewInput) (*domain.Review, domain.FieldErrors, error) {
	location, err := s.repo.FindByID(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}

	normalized, fieldErrs := domain.ValidateReviewInput(
		stringValue(input.Author),
		stringValue(input.ReviewText),
		stringValue(input.Rating),
	)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	review := domain.Review{
		ID:         s.repo.NewReviewID(),
		Author:     normalized.Author,
		Rating:     normalized.Rating,
		ReviewText: normalized.ReviewText,
		CreatedOn:  time.Now().UTC(),
	}
	location.Reviews = append(location.Reviews, review)

	if err := s.repo.SaveReviews(ctx, location.ID, location.Reviews); err != nil {
		return nil, nil, err
	}
	s.updateAverageRating(ctx, location)
	return &review, nil, nil
}

func (s *reviewService) Get(ctx context.Context, locationID, reviewID string) (*ReviewWithLocation, error) {
	location, err := s.repo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	review := location.FindReview(reviewID)
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return &ReviewWithLocation{
		LocationID:   location.ID,
		LocationName: location.Name,
		Review:       *review,
	}, nil
}

// Update は指定されたフィールドのみ既存値へ重ね、マージ結果全体を再検証する。
// 未指定フィールドが不正なまま残ることを防ぐための再検証。
func (s *reviewService) Update(ctx context.Context, locationID, reviewID string, input ReviewInput) (*domain.Review, domain.FieldErrors, error) {
	location, err := s.repo.FindByID(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}
	review := location.FindReview(reviewID)
	if review == nil {
		return nil, nil, ErrReviewNotFound
	}

	author := review.Author
	if input.Author != nil {
		author = *input.Author
	}
	reviewText := review.ReviewText
	if input.ReviewText != nil {
		reviewText = *input.ReviewText
	}
	rating := strconv.Itoa(review.Rating)
	if input.Rating != nil {
		rating = *input.Rating
	}

	normalized, fieldErrs := domain.ValidateReviewInput(author, reviewText, rating)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	review.Author = normalized.Author
	review.ReviewText = normalized.ReviewText
	review.Rating = normalized.Rating

	if err := s.repo.SaveReviews(ctx, location.ID, location.Reviews); err != nil {
		return nil, nil, err
	}
	s.updateAverageRating(ctx, location)
	return review, nil, nil
}

// Delete は id 一致で埋め込みレビューを取り除く。存在しない id はエラー。
func (s *reviewService) Delete(ctx context.Context, locationID, reviewID string) error {
	location, err := s.repo.FindByID(ctx, locationID)
	if err != nil {
		return err
	}

	remaining := make([]domain.Review, 0, len(location.Reviews))
	found := false
	for _, review := range location.Reviews {
		if review.ID == reviewID {
			found = true
			continue
		}
		remaining = append(remaining, review)
	}
	if !found {
		return ErrReviewNotFound
	}

	location.Reviews = remaining
	if err := s.repo.SaveReviews(ctx, location.ID, location.Reviews); err != nil {
		return err
	}
	s.updateAverageRating(ctx, location)
	return nil
}

// updateAverageRating はレビュー集合から表示用評価を再計算して保存する。
// ベストエフォート: 保存失敗はログに残すだけで、呼び出し元の結果には影響させない。
func (s *reviewService) updateAverageRating(ctx context.Context, location *domain.Location) {
	rating, ok := domain.AverageRating(location.Reviews)
	if !ok {
		return
	}
	if err := s.repo.SetRating(ctx, location.ID, rating); err != nil {
		if s.logger != nil {
			s.logger.Printf("評価の再計算結果を保存できませんでした location=%s: %v", location.ID, err)
		}
		return
	}
	location.Rating = rating
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
