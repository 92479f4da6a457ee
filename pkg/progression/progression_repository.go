package progression

import (
	"Trademate-Backend/entities"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	ProgressionRepository interface {
		GetUserBalance(ctx context.Context, userID string) (int, error)
		CreateXPTransaction(ctx context.Context, tx *entities.XPTransaction) error
		GetUserXPTransactions(ctx context.Context, userID string, page, limit int) ([]*entities.XPTransaction, int64, error)
	}

	progressionRepository struct {
		db *gorm.DB
	}
)

func NewProgressionRepository(db *gorm.DB) ProgressionRepository {
	return &progressionRepository{
		db: db,
	}
}

func (r *progressionRepository) GetUserBalance(ctx context.Context, userID string) (int, error) {
	// The latest transaction carries the running balance.
	var latestTx entities.XPTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&latestTx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return latestTx.Balance, nil
}

func (r *progressionRepository) CreateXPTransaction(ctx context.Context, tx *entities.XPTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Create(tx).Error; err != nil {
			return err
		}
		return db.Model(&entities.User{}).
			Where("id = ?", tx.UserID).
			Update("xp_balance", tx.Balance).Error
	})
}

func (r *progressionRepository) GetUserXPTransactions(ctx context.Context, userID string, page, limit int) ([]*entities.XPTransaction, int64, error) {
	var transactions []*entities.XPTransaction
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if err := query.Model(&entities.XPTransaction{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}
