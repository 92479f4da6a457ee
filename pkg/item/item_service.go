package item

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/entities"
	"Trademate-Backend/internal/utils/storage"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// TradeCanceller releases an item from every active trade before the
	// item itself is removed. Satisfied by the trade service; declared here
	// to keep the dependency one-directional.
	TradeCanceller interface {
		CancelTradesForItem(ctx context.Context, itemID string) (*domain.CancelTradesForItemResult, error)
	}

	ItemService interface {
		CreateItem(ctx context.Context, req domain.ItemRequest, userID string) (*domain.Item, error)
		GetItemByID(ctx context.Context, id string) (*domain.Item, error)
		UpdateItem(ctx context.Context, id string, req domain.ItemRequest, userID string) (*domain.Item, error)
		DeleteItem(ctx context.Context, id string, userID string) (*domain.DeleteItemResponse, error)
		GetUserItems(ctx context.Context, userID string, page, limit int) ([]*domain.Item, int64, error)
		GetItemFeed(ctx context.Context, userID string, category string, page, limit int) ([]*domain.Item, int64, error)
	}

	itemService struct {
		itemRepository ItemRepository
		tradeCanceller TradeCanceller
		s3             storage.AwsS3
	}
)

func NewItemService(itemRepository ItemRepository, tradeCanceller TradeCanceller, s3 storage.AwsS3) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		tradeCanceller: tradeCanceller,
		s3:             s3,
	}
}

func (s *itemService) CreateItem(ctx context.Context, req domain.ItemRequest, userID string) (*domain.Item, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	itemID := uuid.New()

	var imageURL string
	if req.Image != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("item-%s", itemID.String()),
			req.Image,
			"items",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	item := &entities.Item{
		ID:          itemID,
		UserID:      userUUID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		ImageURL:    imageURL,
	}

	if err := s.itemRepository.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return toItemResponse(item), nil
}

func (s *itemService) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return toItemResponse(item), nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req domain.ItemRequest, userID string) (*domain.Item, error) {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedItemAccess
	}

	item.Title = req.Title
	item.Description = req.Description
	item.Category = req.Category
	item.Condition = req.Condition

	if req.Image != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("item-%s", item.ID.String()),
			req.Image,
			"items",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		item.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	if err := s.itemRepository.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return toItemResponse(item), nil
}

// DeleteItem cancels every active trade referencing the item before removing
// it, so no trade is left pointing at a missing item. When some trades could
// not be cancelled the delete is aborted and can be retried; cancellations
// already applied stay applied.
func (s *itemService) DeleteItem(ctx context.Context, id string, userID string) (*domain.DeleteItemResponse, error) {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedItemAccess
	}

	result, err := s.tradeCanceller.CancelTradesForItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.FailedCount > 0 {
		return nil, fmt.Errorf("item still referenced by %d active trades, retry the delete", result.FailedCount)
	}

	if err := s.itemRepository.DeleteItem(ctx, id); err != nil {
		return nil, err
	}

	return &domain.DeleteItemResponse{
		ItemID:              id,
		CancelledTradeCount: result.CancelledCount,
	}, nil
}

func (s *itemService) GetUserItems(ctx context.Context, userID string, page, limit int) ([]*domain.Item, int64, error) {
	items, count, err := s.itemRepository.GetUserItems(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result, count, nil
}

func (s *itemService) GetItemFeed(ctx context.Context, userID string, category string, page, limit int) ([]*domain.Item, int64, error) {
	items, count, err := s.itemRepository.GetItemFeed(ctx, userID, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result, count, nil
}

func toItemResponse(item *entities.Item) *domain.Item {
	resp := &domain.Item{
		ID:          item.ID.String(),
		UserID:      item.UserID.String(),
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Condition:   item.Condition,
		ImageURL:    item.ImageURL,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.User != nil {
		resp.UserName = item.User.Name
		resp.UserRating = item.User.Rating
	}
	return resp
}
