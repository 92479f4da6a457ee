package trade

import (
	"Trademate-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	TradeRepository interface {
		CreateTrade(ctx context.Context, trade *entities.TradeOffer) error
		GetTradeByID(ctx context.Context, id string) (*entities.TradeOffer, error)
		GetUserTrades(ctx context.Context, userID string, direction string, status string, page, limit int) ([]*entities.TradeOffer, int64, error)
		GetActiveTradesForUser(ctx context.Context, userID string) ([]*entities.TradeOffer, error)
		GetActiveTradesForItem(ctx context.Context, itemID string) ([]*entities.TradeOffer, error)
		UpdateTradeStatus(ctx context.Context, id string, status entities.TradeStatus) error
		CounterTrade(ctx context.Context, originalID string, newTrade *entities.TradeOffer) error
		GetLatestCompletedTradeBetween(ctx context.Context, userA, userB string) (*entities.TradeOffer, error)
	}

	tradeRepository struct {
		db *gorm.DB
	}
)

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{
		db: db,
	}
}

func (r *tradeRepository) CreateTrade(ctx context.Context, trade *entities.TradeOffer) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *tradeRepository) GetTradeByID(ctx context.Context, id string) (*entities.TradeOffer, error) {
	var trade entities.TradeOffer
	if err := r.db.WithContext(ctx).
		Preload("AdditionalItems").
		Preload("Sender").
		Preload("Receiver").
		Preload("OfferedItem").
		Preload("WantedItem").
		Where("id = ?", id).
		First(&trade).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) GetUserTrades(ctx context.Context, userID string, direction string, status string, page, limit int) ([]*entities.TradeOffer, int64, error) {
	var trades []*entities.TradeOffer
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx)

	switch direction {
	case "incoming":
		query = query.Where("receiver_id = ?", userID)
	case "outgoing":
		query = query.Where("sender_id = ?", userID)
	default:
		query = query.Where("sender_id = ? OR receiver_id = ?", userID, userID)
	}

	if status != "all" && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Model(&entities.TradeOffer{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("AdditionalItems").
		Preload("OfferedItem").
		Preload("WantedItem").
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&trades).Error; err != nil {
		return nil, 0, err
	}

	return trades, count, nil
}

func (r *tradeRepository) GetActiveTradesForUser(ctx context.Context, userID string) ([]*entities.TradeOffer, error) {
	var trades []*entities.TradeOffer
	if err := r.db.WithContext(ctx).
		Preload("AdditionalItems").
		Where("(sender_id = ? OR receiver_id = ?) AND status IN ?",
			userID, userID,
			[]entities.TradeStatus{entities.TradeStatusPending, entities.TradeStatusAccepted}).
		Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) GetActiveTradesForItem(ctx context.Context, itemID string) ([]*entities.TradeOffer, error) {
	var trades []*entities.TradeOffer
	if err := r.db.WithContext(ctx).
		Preload("AdditionalItems").
		Where("status IN ?", []entities.TradeStatus{entities.TradeStatusPending, entities.TradeStatusAccepted}).
		Where(
			r.db.Where("offered_item_id = ?", itemID).
				Or("wanted_item_id = ?", itemID).
				Or("id IN (?)", r.db.Model(&entities.TradeOfferItem{}).
					Select("trade_offer_id").
					Where("item_id = ?", itemID)),
		).
		Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) UpdateTradeStatus(ctx context.Context, id string, status entities.TradeStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.TradeOffer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// CounterTrade terminates the original offer as countered and creates the
// replacement offer in a single transaction.
func (r *tradeRepository) CounterTrade(ctx context.Context, originalID string, newTrade *entities.TradeOffer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.TradeOffer{}).
			Where("id = ?", originalID).
			Updates(map[string]interface{}{
				"status":     entities.TradeStatusCountered,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Create(newTrade).Error
	})
}

func (r *tradeRepository) GetLatestCompletedTradeBetween(ctx context.Context, userA, userB string) (*entities.TradeOffer, error) {
	var trade entities.TradeOffer
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.TradeStatusCompleted).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("updated_at DESC").
		First(&trade).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}
