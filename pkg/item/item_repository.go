package item

import (
	"Trademate-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ItemRepository interface {
		CreateItem(ctx context.Context, item *entities.Item) error
		GetItemByID(ctx context.Context, id string) (*entities.Item, error)
		UpdateItem(ctx context.Context, item *entities.Item) error
		DeleteItem(ctx context.Context, id string) error
		GetUserItems(ctx context.Context, userID string, page, limit int) ([]*entities.Item, int64, error)
		GetItemFeed(ctx context.Context, excludeUserID string, category string, page, limit int) ([]*entities.Item, int64, error)
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Item{}).Error
}

func (r *itemRepository) GetUserItems(ctx context.Context, userID string, page, limit int) ([]*entities.Item, int64, error) {
	var items []*entities.Item
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if err := query.Model(&entities.Item{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *itemRepository) GetItemFeed(ctx context.Context, excludeUserID string, category string, page, limit int) ([]*entities.Item, int64, error) {
	var items []*entities.Item
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id != ?", excludeUserID)

	if category != "all" && category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Model(&entities.Item{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}
