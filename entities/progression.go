package entities

import (
	"github.com/google/uuid"
)

type XPTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Amount      int       `json:"amount"`
	Source      string    `json:"source"` // TradeCompleted, ReviewSubmitted
	ReferenceID uuid.UUID `json:"reference_id"`
	Description string    `json:"description"`
	Balance     int       `json:"balance"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
