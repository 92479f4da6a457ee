package item

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/entities"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeItemRepository struct {
	items map[string]*entities.Item
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{items: make(map[string]*entities.Item)}
}

func (r *fakeItemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	r.items[item.ID.String()] = item
	return nil
}

func (r *fakeItemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return it, nil
}

func (r *fakeItemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	r.items[item.ID.String()] = item
	return nil
}

func (r *fakeItemRepository) DeleteItem(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepository) GetUserItems(ctx context.Context, userID string, page, limit int) ([]*entities.Item, int64, error) {
	var result []*entities.Item
	for _, it := range r.items {
		if it.UserID.String() == userID {
			result = append(result, it)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeItemRepository) GetItemFeed(ctx context.Context, excludeUserID string, category string, page, limit int) ([]*entities.Item, int64, error) {
	var result []*entities.Item
	for _, it := range r.items {
		if it.UserID.String() == excludeUserID {
			continue
		}
		if category != "all" && category != "" && it.Category != category {
			continue
		}
		result = append(result, it)
	}
	return result, int64(len(result)), nil
}

type fakeTradeCanceller struct {
	result *domain.CancelTradesForItemResult
	err    error
	calls  []string
}

func (c *fakeTradeCanceller) CancelTradesForItem(ctx context.Context, itemID string) (*domain.CancelTradesForItemResult, error) {
	c.calls = append(c.calls, itemID)
	if c.err != nil {
		return nil, c.err
	}
	if c.result != nil {
		return c.result, nil
	}
	return &domain.CancelTradesForItemResult{ItemID: itemID}, nil
}

func seedItem(repo *fakeItemRepository, owner uuid.UUID) *entities.Item {
	it := &entities.Item{
		ID:       uuid.New(),
		UserID:   owner,
		Title:    "vintage lamp",
		Category: "home",
	}
	repo.items[it.ID.String()] = it
	return it
}

func TestDeleteItemCancelsActiveTrades(t *testing.T) {
	ctx := context.Background()
	repo := newFakeItemRepository()
	canceller := &fakeTradeCanceller{}
	service := NewItemService(repo, canceller, nil)

	owner := uuid.New()
	it := seedItem(repo, owner)
	canceller.result = &domain.CancelTradesForItemResult{ItemID: it.ID.String(), CancelledCount: 2}

	resp, err := service.DeleteItem(ctx, it.ID.String(), owner.String())
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if resp.CancelledTradeCount != 2 {
		t.Errorf("cancelled trade count = %d, want 2", resp.CancelledTradeCount)
	}
	if len(canceller.calls) != 1 || canceller.calls[0] != it.ID.String() {
		t.Errorf("canceller calls = %v, want [%s]", canceller.calls, it.ID)
	}
	if _, err := repo.GetItemByID(ctx, it.ID.String()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("item still present after delete")
	}
}

func TestDeleteItemAbortsOnFailedCancellations(t *testing.T) {
	ctx := context.Background()
	repo := newFakeItemRepository()
	canceller := &fakeTradeCanceller{}
	service := NewItemService(repo, canceller, nil)

	owner := uuid.New()
	it := seedItem(repo, owner)
	canceller.result = &domain.CancelTradesForItemResult{ItemID: it.ID.String(), CancelledCount: 1, FailedCount: 1}

	if _, err := service.DeleteItem(ctx, it.ID.String(), owner.String()); err == nil {
		t.Fatal("DeleteItem with failed cancellations should abort")
	}

	// The item survives so the delete can be retried.
	if _, err := repo.GetItemByID(ctx, it.ID.String()); err != nil {
		t.Fatalf("item removed despite aborted delete: %v", err)
	}

	canceller.result = &domain.CancelTradesForItemResult{ItemID: it.ID.String(), CancelledCount: 1}
	if _, err := service.DeleteItem(ctx, it.ID.String(), owner.String()); err != nil {
		t.Fatalf("retry DeleteItem: %v", err)
	}
}

func TestDeleteItemAuthorization(t *testing.T) {
	ctx := context.Background()
	repo := newFakeItemRepository()
	canceller := &fakeTradeCanceller{}
	service := NewItemService(repo, canceller, nil)

	owner := uuid.New()
	it := seedItem(repo, owner)

	if _, err := service.DeleteItem(ctx, it.ID.String(), uuid.New().String()); !errors.Is(err, domain.ErrUnauthorizedItemAccess) {
		t.Fatalf("stranger deleting item: got %v, want ErrUnauthorizedItemAccess", err)
	}
	if len(canceller.calls) != 0 {
		t.Errorf("canceller called for unauthorized delete")
	}

	if _, err := service.DeleteItem(ctx, uuid.New().String(), owner.String()); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("deleting unknown item: got %v, want ErrItemNotFound", err)
	}
}

func TestUpdateItemAuthorization(t *testing.T) {
	ctx := context.Background()
	repo := newFakeItemRepository()
	service := NewItemService(repo, &fakeTradeCanceller{}, nil)

	owner := uuid.New()
	it := seedItem(repo, owner)

	updated, err := service.UpdateItem(ctx, it.ID.String(), domain.ItemRequest{
		Title:     "restored lamp",
		Category:  "home",
		Condition: "Good",
	}, owner.String())
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Title != "restored lamp" {
		t.Errorf("title = %q, want %q", updated.Title, "restored lamp")
	}

	if _, err := service.UpdateItem(ctx, it.ID.String(), domain.ItemRequest{Title: "x"}, uuid.New().String()); !errors.Is(err, domain.ErrUnauthorizedItemAccess) {
		t.Fatalf("stranger updating item: got %v, want ErrUnauthorizedItemAccess", err)
	}
}
