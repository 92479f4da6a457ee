package review

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/entities"
	"Trademate-Backend/pkg/progression"
	"Trademate-Backend/pkg/sanitize"
	"Trademate-Backend/pkg/trade"
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReasonNoCompletedTrade = "noCompletedTrade"
	ReasonAlreadyReviewed  = "alreadyReviewed"
)

type (
	ReviewService interface {
		CanReview(ctx context.Context, reviewerID, tradeID string) (*domain.CanReviewResponse, error)
		SubmitReview(ctx context.Context, req domain.SubmitReviewRequest, reviewerID string) (*domain.Review, error)
		GetUserReviews(ctx context.Context, reviewedID string, page, limit int) ([]*domain.Review, int64, error)
	}

	reviewService struct {
		reviewRepository   ReviewRepository
		tradeRepository    trade.TradeRepository
		progressionService progression.ProgressionService
		sanitizer          sanitize.Sanitizer
	}
)

func NewReviewService(
	reviewRepository ReviewRepository,
	tradeRepository trade.TradeRepository,
	progressionService progression.ProgressionService,
	sanitizer sanitize.Sanitizer,
) ReviewService {
	return &reviewService{
		reviewRepository:   reviewRepository,
		tradeRepository:    tradeRepository,
		progressionService: progressionService,
		sanitizer:          sanitizer,
	}
}

// CanReview reports whether the user may still rate the other participant of
// the given trade: the trade must be completed, the user a participant, and
// no review by this user for this trade may exist yet.
func (s *reviewService) CanReview(ctx context.Context, reviewerID, tradeID string) (*domain.CanReviewResponse, error) {
	t, err := s.tradeRepository.GetTradeByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}

	if t.Status != entities.TradeStatusCompleted {
		return &domain.CanReviewResponse{CanReview: false, Reason: ReasonNoCompletedTrade}, nil
	}
	if t.SenderID.String() != reviewerID && t.ReceiverID.String() != reviewerID {
		return &domain.CanReviewResponse{CanReview: false, Reason: ReasonNoCompletedTrade}, nil
	}

	existing, err := s.reviewRepository.GetReviewByReviewerAndTrade(ctx, reviewerID, tradeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &domain.CanReviewResponse{CanReview: false, Reason: ReasonAlreadyReviewed}, nil
	}

	return &domain.CanReviewResponse{CanReview: true}, nil
}

func (s *reviewService) SubmitReview(ctx context.Context, req domain.SubmitReviewRequest, reviewerID string) (*domain.Review, error) {
	if reviewerID == req.ReviewedID {
		return nil, domain.ErrSelfReview
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	reviewedUUID, err := uuid.Parse(req.ReviewedID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	t, err := s.resolveTrade(ctx, req, reviewerID)
	if err != nil {
		return nil, err
	}

	if t.Status != entities.TradeStatusCompleted {
		return nil, domain.ErrNoCompletedTrade
	}
	participants := map[string]bool{
		t.SenderID.String():   true,
		t.ReceiverID.String(): true,
	}
	if !participants[reviewerID] || !participants[req.ReviewedID] {
		return nil, domain.ErrNoCompletedTrade
	}

	existing, err := s.reviewRepository.GetReviewByReviewerAndTrade(ctx, reviewerID, t.ID.String())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyReviewed
	}

	comment := ""
	if req.Comment != "" {
		comment, err = s.sanitizer.Sanitize(req.Comment, sanitize.Comment)
		if err != nil {
			return nil, err
		}
	}

	review := &entities.Review{
		ID:           uuid.New(),
		TradeOfferID: t.ID,
		ReviewerID:   reviewerUUID,
		ReviewedID:   reviewedUUID,
		Rating:       req.Rating,
		Comment:      comment,
	}

	if err := s.reviewRepository.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	// Fire-and-forget: a progression failure never rolls back the review.
	if err := s.progressionService.AwardXP(ctx, reviewerID, domain.XPSourceReviewSubmitted, review.ID.String()); err != nil {
		log.Printf("failed to award review XP to user %s: %v", reviewerID, err)
	}

	return toReviewResponse(review), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, reviewedID string, page, limit int) ([]*domain.Review, int64, error) {
	reviews, count, err := s.reviewRepository.GetUserReviews(ctx, reviewedID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Review, 0, len(reviews))
	for _, r := range reviews {
		result = append(result, toReviewResponse(r))
	}
	return result, count, nil
}

// resolveTrade loads the trade named by the request, or falls back to the
// most recent completed trade between the two users when no trade id was
// given. The fallback is a best-effort compatibility path for old clients
// and cannot distinguish multiple completed trades between the same pair.
func (s *reviewService) resolveTrade(ctx context.Context, req domain.SubmitReviewRequest, reviewerID string) (*entities.TradeOffer, error) {
	if req.TradeOfferID != "" {
		t, err := s.tradeRepository.GetTradeByID(ctx, req.TradeOfferID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrTradeNotFound
			}
			return nil, err
		}
		return t, nil
	}

	t, err := s.tradeRepository.GetLatestCompletedTradeBetween(ctx, reviewerID, req.ReviewedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoCompletedTrade
		}
		return nil, err
	}
	return t, nil
}

func toReviewResponse(r *entities.Review) *domain.Review {
	resp := &domain.Review{
		ID:           r.ID.String(),
		TradeOfferID: r.TradeOfferID.String(),
		ReviewerID:   r.ReviewerID.String(),
		ReviewedID:   r.ReviewedID.String(),
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
	if r.Reviewer != nil {
		resp.ReviewerName = r.Reviewer.Name
	}
	return resp
}
