package review

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/entities"
	"Trademate-Backend/pkg/sanitize"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeReviewRepository struct {
	reviews map[string]*entities.Review // keyed by reviewer|trade
	err     error
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{reviews: make(map[string]*entities.Review)}
}

func reviewKey(reviewerID, tradeID string) string {
	return reviewerID + "|" + tradeID
}

func (r *fakeReviewRepository) CreateReview(ctx context.Context, review *entities.Review) error {
	if r.err != nil {
		return r.err
	}
	r.reviews[reviewKey(review.ReviewerID.String(), review.TradeOfferID.String())] = review
	return nil
}

func (r *fakeReviewRepository) GetReviewByReviewerAndTrade(ctx context.Context, reviewerID, tradeID string) (*entities.Review, error) {
	return r.reviews[reviewKey(reviewerID, tradeID)], nil
}

func (r *fakeReviewRepository) GetUserReviews(ctx context.Context, reviewedID string, page, limit int) ([]*entities.Review, int64, error) {
	var result []*entities.Review
	for _, rev := range r.reviews {
		if rev.ReviewedID.String() == reviewedID {
			result = append(result, rev)
		}
	}
	return result, int64(len(result)), nil
}

type fakeTradeRepository struct {
	trades map[string]*entities.TradeOffer
}

func newFakeTradeRepository() *fakeTradeRepository {
	return &fakeTradeRepository{trades: make(map[string]*entities.TradeOffer)}
}

func (r *fakeTradeRepository) CreateTrade(ctx context.Context, trade *entities.TradeOffer) error {
	r.trades[trade.ID.String()] = trade
	return nil
}

func (r *fakeTradeRepository) GetTradeByID(ctx context.Context, id string) (*entities.TradeOffer, error) {
	t, ok := r.trades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTradeRepository) GetUserTrades(ctx context.Context, userID string, direction string, status string, page, limit int) ([]*entities.TradeOffer, int64, error) {
	return nil, 0, nil
}

func (r *fakeTradeRepository) GetActiveTradesForUser(ctx context.Context, userID string) ([]*entities.TradeOffer, error) {
	return nil, nil
}

func (r *fakeTradeRepository) GetActiveTradesForItem(ctx context.Context, itemID string) ([]*entities.TradeOffer, error) {
	return nil, nil
}

func (r *fakeTradeRepository) UpdateTradeStatus(ctx context.Context, id string, status entities.TradeStatus) error {
	t, ok := r.trades[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTradeRepository) CounterTrade(ctx context.Context, originalID string, newTrade *entities.TradeOffer) error {
	return r.CreateTrade(ctx, newTrade)
}

func (r *fakeTradeRepository) GetLatestCompletedTradeBetween(ctx context.Context, userA, userB string) (*entities.TradeOffer, error) {
	for _, t := range r.trades {
		if t.Status != entities.TradeStatusCompleted {
			continue
		}
		if (t.SenderID.String() == userA && t.ReceiverID.String() == userB) ||
			(t.SenderID.String() == userB && t.ReceiverID.String() == userA) {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProgressionService struct {
	awards []string // source per award
}

func (s *fakeProgressionService) AwardXP(ctx context.Context, userID string, source string, referenceID string) error {
	s.awards = append(s.awards, source)
	return nil
}

func (s *fakeProgressionService) GetUserXP(ctx context.Context, userID string) (*domain.UserXP, error) {
	return nil, nil
}

func (s *fakeProgressionService) GetXPHistory(ctx context.Context, userID string, page, limit int) ([]*domain.XPTransaction, int64, error) {
	return nil, 0, nil
}

type reviewFixture struct {
	service    ReviewService
	reviewRepo *fakeReviewRepository
	tradeRepo  *fakeTradeRepository
	progress   *fakeProgressionService
}

func newReviewFixture() *reviewFixture {
	reviewRepo := newFakeReviewRepository()
	tradeRepo := newFakeTradeRepository()
	progress := &fakeProgressionService{}
	return &reviewFixture{
		service:    NewReviewService(reviewRepo, tradeRepo, progress, sanitize.NewSanitizer()),
		reviewRepo: reviewRepo,
		tradeRepo:  tradeRepo,
		progress:   progress,
	}
}

func (f *reviewFixture) seedTrade(sender, receiver uuid.UUID, status entities.TradeStatus) *entities.TradeOffer {
	t := &entities.TradeOffer{
		ID:            uuid.New(),
		SenderID:      sender,
		ReceiverID:    receiver,
		OfferedItemID: uuid.New(),
		WantedItemID:  uuid.New(),
		Status:        status,
	}
	f.tradeRepo.trades[t.ID.String()] = t
	return t
}

func TestCanReview(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	sender := uuid.New()
	receiver := uuid.New()
	stranger := uuid.New()

	if _, err := f.service.CanReview(ctx, sender.String(), uuid.New().String()); !errors.Is(err, domain.ErrTradeNotFound) {
		t.Fatalf("unknown trade: got %v, want ErrTradeNotFound", err)
	}

	pending := f.seedTrade(sender, receiver, entities.TradeStatusPending)
	resp, err := f.service.CanReview(ctx, sender.String(), pending.ID.String())
	if err != nil {
		t.Fatalf("CanReview(pending): %v", err)
	}
	if resp.CanReview || resp.Reason != ReasonNoCompletedTrade {
		t.Errorf("pending trade: got %+v, want blocked with %q", resp, ReasonNoCompletedTrade)
	}

	completed := f.seedTrade(sender, receiver, entities.TradeStatusCompleted)

	resp, err = f.service.CanReview(ctx, stranger.String(), completed.ID.String())
	if err != nil {
		t.Fatalf("CanReview(stranger): %v", err)
	}
	if resp.CanReview {
		t.Errorf("stranger allowed to review trade %s", completed.ID)
	}

	resp, err = f.service.CanReview(ctx, sender.String(), completed.ID.String())
	if err != nil {
		t.Fatalf("CanReview(participant): %v", err)
	}
	if !resp.CanReview {
		t.Fatalf("participant blocked from reviewing completed trade: %+v", resp)
	}
}

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	sender := uuid.New()
	receiver := uuid.New()
	completed := f.seedTrade(sender, receiver, entities.TradeStatusCompleted)

	review, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		TradeOfferID: completed.ID.String(),
		ReviewedID:   receiver.String(),
		Rating:       4,
		Comment:      "  smooth trade, item as described  ",
	}, sender.String())
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.Rating != 4 {
		t.Errorf("rating = %d, want 4", review.Rating)
	}
	if review.Comment != "smooth trade, item as described" {
		t.Errorf("comment = %q, want trimmed text", review.Comment)
	}
	if len(f.progress.awards) != 1 || f.progress.awards[0] != domain.XPSourceReviewSubmitted {
		t.Errorf("XP awards = %v, want one %q award", f.progress.awards, domain.XPSourceReviewSubmitted)
	}

	// Each participant reviews each trade at most once.
	if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		TradeOfferID: completed.ID.String(),
		ReviewedID:   receiver.String(),
		Rating:       5,
	}, sender.String()); !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Fatalf("duplicate review: got %v, want ErrAlreadyReviewed", err)
	}

	// The other side still has its own review slot.
	if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		TradeOfferID: completed.ID.String(),
		ReviewedID:   sender.String(),
		Rating:       5,
	}, receiver.String()); err != nil {
		t.Fatalf("counterparty review: %v", err)
	}

	resp, err := f.service.CanReview(ctx, sender.String(), completed.ID.String())
	if err != nil {
		t.Fatalf("CanReview after submit: %v", err)
	}
	if resp.CanReview || resp.Reason != ReasonAlreadyReviewed {
		t.Errorf("after submit: got %+v, want blocked with %q", resp, ReasonAlreadyReviewed)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	sender := uuid.New()
	receiver := uuid.New()
	completed := f.seedTrade(sender, receiver, entities.TradeStatusCompleted)

	if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		TradeOfferID: completed.ID.String(),
		ReviewedID:   sender.String(),
		Rating:       5,
	}, sender.String()); !errors.Is(err, domain.ErrSelfReview) {
		t.Errorf("self review: got %v, want ErrSelfReview", err)
	}

	for _, rating := range []int{0, 6, -1} {
		if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
			TradeOfferID: completed.ID.String(),
			ReviewedID:   receiver.String(),
			Rating:       rating,
		}, sender.String()); !errors.Is(err, domain.ErrInvalidRating) {
			t.Errorf("rating %d: got %v, want ErrInvalidRating", rating, err)
		}
	}

	pending := f.seedTrade(sender, receiver, entities.TradeStatusPending)
	if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		TradeOfferID: pending.ID.String(),
		ReviewedID:   receiver.String(),
		Rating:       3,
	}, sender.String()); !errors.Is(err, domain.ErrNoCompletedTrade) {
		t.Errorf("review on pending trade: got %v, want ErrNoCompletedTrade", err)
	}

	stranger := uuid.New()
	if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		TradeOfferID: completed.ID.String(),
		ReviewedID:   stranger.String(),
		Rating:       3,
	}, sender.String()); !errors.Is(err, domain.ErrNoCompletedTrade) {
		t.Errorf("reviewing a non-participant: got %v, want ErrNoCompletedTrade", err)
	}

	var sanitizationErr *domain.SanitizationError
	if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		TradeOfferID: completed.ID.String(),
		ReviewedID:   receiver.String(),
		Rating:       3,
		Comment:      "great, details at https://scam.example",
	}, sender.String()); !errors.As(err, &sanitizationErr) {
		t.Errorf("comment with link: got %v, want SanitizationError", err)
	}
}

func TestSubmitReviewLegacyFallback(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	sender := uuid.New()
	receiver := uuid.New()

	// No trade id given and no completed trade between the pair.
	if _, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		ReviewedID: receiver.String(),
		Rating:     4,
	}, sender.String()); !errors.Is(err, domain.ErrNoCompletedTrade) {
		t.Fatalf("fallback without completed trade: got %v, want ErrNoCompletedTrade", err)
	}

	completed := f.seedTrade(sender, receiver, entities.TradeStatusCompleted)

	review, err := f.service.SubmitReview(ctx, domain.SubmitReviewRequest{
		ReviewedID: receiver.String(),
		Rating:     4,
	}, sender.String())
	if err != nil {
		t.Fatalf("fallback SubmitReview: %v", err)
	}
	if review.TradeOfferID != completed.ID.String() {
		t.Errorf("fallback resolved trade %s, want %s", review.TradeOfferID, completed.ID)
	}
}
