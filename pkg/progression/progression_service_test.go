package progression

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/entities"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeProgressionRepository struct {
	transactions []*entities.XPTransaction
}

func (r *fakeProgressionRepository) GetUserBalance(ctx context.Context, userID string) (int, error) {
	balance := 0
	for _, tx := range r.transactions {
		if tx.UserID.String() == userID {
			balance = tx.Balance
		}
	}
	return balance, nil
}

func (r *fakeProgressionRepository) CreateXPTransaction(ctx context.Context, tx *entities.XPTransaction) error {
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *fakeProgressionRepository) GetUserXPTransactions(ctx context.Context, userID string, page, limit int) ([]*entities.XPTransaction, int64, error) {
	var result []*entities.XPTransaction
	for _, tx := range r.transactions {
		if tx.UserID.String() == userID {
			result = append(result, tx)
		}
	}
	return result, int64(len(result)), nil
}

type fakePublisher struct {
	subjects []string
	err      error
}

func (p *fakePublisher) Publish(subject string, event interface{}) error {
	p.subjects = append(p.subjects, subject)
	return p.err
}

func TestAwardXPAccumulatesBalance(t *testing.T) {
	ctx := context.Background()
	repo := &fakeProgressionRepository{}
	publisher := &fakePublisher{}
	service := NewProgressionService(repo, publisher)

	userID := uuid.New().String()

	if err := service.AwardXP(ctx, userID, domain.XPSourceTradeCompleted, uuid.New().String()); err != nil {
		t.Fatalf("AwardXP(trade): %v", err)
	}
	if err := service.AwardXP(ctx, userID, domain.XPSourceReviewSubmitted, uuid.New().String()); err != nil {
		t.Fatalf("AwardXP(review): %v", err)
	}

	xp, err := service.GetUserXP(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserXP: %v", err)
	}
	want := domain.XP_TRADE_COMPLETED + domain.XP_REVIEW_SUBMITTED
	if xp.Balance != want {
		t.Errorf("balance = %d, want %d", xp.Balance, want)
	}

	if len(publisher.subjects) != 2 {
		t.Fatalf("published %d events, want 2", len(publisher.subjects))
	}
	if publisher.subjects[0] != "progression."+domain.XPSourceTradeCompleted {
		t.Errorf("first subject = %q", publisher.subjects[0])
	}

	history, count, err := service.GetXPHistory(ctx, userID, 1, 20)
	if err != nil {
		t.Fatalf("GetXPHistory: %v", err)
	}
	if count != 2 || len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].Balance != want {
		t.Errorf("running balance on last entry = %d, want %d", history[1].Balance, want)
	}
}

func TestAwardXPRejectsUnknownSource(t *testing.T) {
	ctx := context.Background()
	repo := &fakeProgressionRepository{}
	service := NewProgressionService(repo, &fakePublisher{})

	err := service.AwardXP(ctx, uuid.New().String(), "daily_login", uuid.New().String())
	if !errors.Is(err, domain.ErrInvalidXPSource) {
		t.Fatalf("unknown source: got %v, want ErrInvalidXPSource", err)
	}
	if len(repo.transactions) != 0 {
		t.Errorf("transaction recorded for unknown source")
	}
}

func TestAwardXPSurvivesPublisherFailure(t *testing.T) {
	ctx := context.Background()
	repo := &fakeProgressionRepository{}
	publisher := &fakePublisher{err: errors.New("broker unavailable")}
	service := NewProgressionService(repo, publisher)

	userID := uuid.New().String()
	if err := service.AwardXP(ctx, userID, domain.XPSourceTradeCompleted, uuid.New().String()); err != nil {
		t.Fatalf("AwardXP with failing publisher: %v", err)
	}
	if len(repo.transactions) != 1 {
		t.Fatalf("transaction not recorded despite publisher failure")
	}
}

func TestGetUserXPLevel(t *testing.T) {
	ctx := context.Background()
	repo := &fakeProgressionRepository{}
	service := NewProgressionService(repo, &fakePublisher{})

	userID := uuid.New().String()

	xp, err := service.GetUserXP(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserXP: %v", err)
	}
	if xp.Balance != 0 || xp.Level != 1 {
		t.Errorf("fresh user XP = %+v, want balance 0 level 1", xp)
	}

	// Three completed trades put the user past the first level boundary.
	for i := 0; i < 3; i++ {
		if err := service.AwardXP(ctx, userID, domain.XPSourceTradeCompleted, uuid.New().String()); err != nil {
			t.Fatalf("AwardXP: %v", err)
		}
	}
	xp, err = service.GetUserXP(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserXP: %v", err)
	}
	if xp.Balance != 150 || xp.Level != 2 {
		t.Errorf("XP after three trades = %+v, want balance 150 level 2", xp)
	}
}
