package review

import (
	"Trademate-Backend/entities"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	ReviewRepository interface {
		CreateReview(ctx context.Context, review *entities.Review) error
		GetReviewByReviewerAndTrade(ctx context.Context, reviewerID, tradeID string) (*entities.Review, error)
		GetUserReviews(ctx context.Context, reviewedID string, page, limit int) ([]*entities.Review, int64, error)
	}

	reviewRepository struct {
		db *gorm.DB
	}
)

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// CreateReview stores the review and refreshes the reviewed user's rating
// aggregate in the same transaction.
func (r *reviewRepository) CreateReview(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var stats struct {
			Avg   float64
			Count int64
		}
		if err := tx.Model(&entities.Review{}).
			Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
			Where("reviewed_id = ?", review.ReviewedID).
			Scan(&stats).Error; err != nil {
			return err
		}

		return tx.Model(&entities.User{}).
			Where("id = ?", review.ReviewedID).
			Updates(map[string]interface{}{
				"rating":       stats.Avg,
				"review_count": stats.Count,
			}).Error
	})
}

func (r *reviewRepository) GetReviewByReviewerAndTrade(ctx context.Context, reviewerID, tradeID string) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).
		Where("reviewer_id = ? AND trade_offer_id = ?", reviewerID, tradeID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetUserReviews(ctx context.Context, reviewedID string, page, limit int) ([]*entities.Review, int64, error) {
	var reviews []*entities.Review
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("reviewed_id = ?", reviewedID)

	if err := query.Model(&entities.Review{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Reviewer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, count, nil
}
