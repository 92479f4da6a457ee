package progression

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/entities"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type (
	ProgressionService interface {
		AwardXP(ctx context.Context, userID string, source string, referenceID string) error
		GetUserXP(ctx context.Context, userID string) (*domain.UserXP, error)
		GetXPHistory(ctx context.Context, userID string, page, limit int) ([]*domain.XPTransaction, int64, error)
	}

	progressionService struct {
		progressionRepository ProgressionRepository
		publisher             EventPublisher
	}
)

func NewProgressionService(progressionRepository ProgressionRepository, publisher EventPublisher) ProgressionService {
	return &progressionService{
		progressionRepository: progressionRepository,
		publisher:             publisher,
	}
}

// AwardXP records an experience award and publishes a progression event.
// Publishing is best-effort; a broker failure never fails the award.
func (s *progressionService) AwardXP(ctx context.Context, userID string, source string, referenceID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	refUUID, err := uuid.Parse(referenceID)
	if err != nil {
		return domain.ErrParseUUID
	}

	var amount int
	var description string
	switch source {
	case domain.XPSourceTradeCompleted:
		amount = domain.XP_TRADE_COMPLETED
		description = "Completed a trade"
	case domain.XPSourceReviewSubmitted:
		amount = domain.XP_REVIEW_SUBMITTED
		description = "Submitted a review"
	default:
		return domain.ErrInvalidXPSource
	}

	balance, err := s.progressionRepository.GetUserBalance(ctx, userID)
	if err != nil {
		return err
	}

	tx := &entities.XPTransaction{
		ID:          uuid.New(),
		UserID:      userUUID,
		Amount:      amount,
		Source:      source,
		ReferenceID: refUUID,
		Description: description,
		Balance:     balance + amount,
	}

	if err := s.progressionRepository.CreateXPTransaction(ctx, tx); err != nil {
		return err
	}

	if err := s.publisher.Publish(fmt.Sprintf("progression.%s", source), domain.ProgressionEvent{
		UserID:      userID,
		Source:      source,
		Amount:      amount,
		ReferenceID: referenceID,
		OccurredAt:  time.Now(),
	}); err != nil {
		log.Printf("failed to publish progression event for user %s: %v", userID, err)
	}

	return nil
}

func (s *progressionService) GetUserXP(ctx context.Context, userID string) (*domain.UserXP, error) {
	balance, err := s.progressionRepository.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.UserXP{
		UserID:  userID,
		Balance: balance,
		Level:   balance/100 + 1,
	}, nil
}

func (s *progressionService) GetXPHistory(ctx context.Context, userID string, page, limit int) ([]*domain.XPTransaction, int64, error) {
	transactions, count, err := s.progressionRepository.GetUserXPTransactions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.XPTransaction, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, &domain.XPTransaction{
			ID:          tx.ID.String(),
			UserID:      tx.UserID.String(),
			Amount:      tx.Amount,
			Source:      tx.Source,
			ReferenceID: tx.ReferenceID.String(),
			Description: tx.Description,
			Balance:     tx.Balance,
			CreatedAt:   tx.CreatedAt,
		})
	}

	return result, count, nil
}
