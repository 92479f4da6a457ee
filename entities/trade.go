package entities

import (
	"github.com/google/uuid"
)

type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusAccepted  TradeStatus = "accepted"
	TradeStatusRejected  TradeStatus = "rejected"
	TradeStatusCountered TradeStatus = "countered"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusCancelled TradeStatus = "cancelled"
)

// tradeTransitions is the full set of legal status changes. Anything not
// listed here is an illegal transition.
var tradeTransitions = map[TradeStatus][]TradeStatus{
	TradeStatusPending:  {TradeStatusAccepted, TradeStatusRejected, TradeStatusCountered, TradeStatusCancelled},
	TradeStatusAccepted: {TradeStatusCompleted, TradeStatusCountered, TradeStatusCancelled},
}

func (s TradeStatus) IsTerminal() bool {
	return len(tradeTransitions[s]) == 0
}

// IsActive reports whether a trade in this status still encumbers its items.
func (s TradeStatus) IsActive() bool {
	return s == TradeStatusPending || s == TradeStatusAccepted
}

func (s TradeStatus) CanTransitionTo(next TradeStatus) bool {
	for _, t := range tradeTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type TradeOffer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	// Primary pair, kept alongside the additional item rows for
	// compatibility with one-for-one trades.
	OfferedItemID uuid.UUID   `json:"offered_item_id"`
	WantedItemID  uuid.UUID   `json:"wanted_item_id"`
	Status        TradeStatus `gorm:"type:varchar(16)" json:"status"`
	Message       string      `json:"message,omitempty"`
	// Set on offers created by a counter, pointing at the trade they superseded.
	CounteredTradeID *uuid.UUID `json:"countered_trade_id,omitempty"`

	Sender          *User             `gorm:"foreignKey:SenderID"`
	Receiver        *User             `gorm:"foreignKey:ReceiverID"`
	OfferedItem     *Item             `gorm:"foreignKey:OfferedItemID"`
	WantedItem      *Item             `gorm:"foreignKey:WantedItemID"`
	AdditionalItems []*TradeOfferItem `gorm:"foreignKey:TradeOfferID"`
	Timestamp
}

// TradeOfferItem extends an offer beyond the primary pair, enabling
// N-for-M bundle trades.
type TradeOfferItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	TradeOfferID uuid.UUID `json:"trade_offer_id"`
	ItemID       uuid.UUID `json:"item_id"`
	Wanted       bool      `json:"wanted"` // true if the item belongs to the receiver, false if to the sender

	TradeOffer *TradeOffer `gorm:"foreignKey:TradeOfferID"`
	Item       *Item       `gorm:"foreignKey:ItemID"`
	Timestamp
}

// AllOfferedIDs returns the primary offered item plus any additional
// sender-side items.
func (t *TradeOffer) AllOfferedIDs() []uuid.UUID {
	ids := []uuid.UUID{t.OfferedItemID}
	for _, it := range t.AdditionalItems {
		if !it.Wanted {
			ids = append(ids, it.ItemID)
		}
	}
	return ids
}

// AllWantedIDs returns the primary wanted item plus any additional
// receiver-side items.
func (t *TradeOffer) AllWantedIDs() []uuid.UUID {
	ids := []uuid.UUID{t.WantedItemID}
	for _, it := range t.AdditionalItems {
		if it.Wanted {
			ids = append(ids, it.ItemID)
		}
	}
	return ids
}

// ReferencesItem reports whether the item appears in any of the four id
// roles of this offer.
func (t *TradeOffer) ReferencesItem(itemID uuid.UUID) bool {
	if t.OfferedItemID == itemID || t.WantedItemID == itemID {
		return true
	}
	for _, it := range t.AdditionalItems {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}
