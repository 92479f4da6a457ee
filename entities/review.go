package entities

import (
	"github.com/google/uuid"
)

type Review struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	TradeOfferID uuid.UUID `gorm:"uniqueIndex:idx_reviews_reviewer_trade,priority:2" json:"trade_offer_id"`
	ReviewerID   uuid.UUID `gorm:"uniqueIndex:idx_reviews_reviewer_trade,priority:1" json:"reviewer_id"`
	ReviewedID   uuid.UUID `json:"reviewed_id"`
	Rating       int       `json:"rating"` // 1..5
	Comment      string    `json:"comment,omitempty"`

	TradeOffer *TradeOffer `gorm:"foreignKey:TradeOfferID"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID"`
	Reviewed   *User       `gorm:"foreignKey:ReviewedID"`
	Timestamp
}
