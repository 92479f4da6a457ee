package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	MessageSuccessCreateTrade    = "trade offer created successfully"
	MessageSuccessGetTrades      = "trade offers retrieved successfully"
	MessageSuccessGetTradeDetail = "trade offer retrieved successfully"
	MessageSuccessRespondTrade   = "trade offer response recorded successfully"
	MessageSuccessCounterOffer   = "counter offer created successfully"
	MessageSuccessCancelTrade    = "trade offer cancelled successfully"
	MessageSuccessCompleteTrade  = "trade completed successfully"
	MessageSuccessGetBusyItems   = "busy items retrieved successfully"

	MessageFailedCreateTrade    = "failed to create trade offer"
	MessageFailedGetTrades      = "failed to retrieve trade offers"
	MessageFailedGetTradeDetail = "failed to retrieve trade offer"
	MessageFailedRespondTrade   = "failed to respond to trade offer"
	MessageFailedCounterOffer   = "failed to create counter offer"
	MessageFailedCancelTrade    = "failed to cancel trade offer"
	MessageFailedCompleteTrade  = "failed to complete trade"
	MessageFailedGetBusyItems   = "failed to retrieve busy items"

	ErrTradeNotFound       = errors.New("trade offer not found")
	ErrSelfTrade           = errors.New("cannot trade with yourself")
	ErrEmptyItemSet        = errors.New("at least one item is required on each side")
	ErrItemNotOwned        = errors.New("item does not belong to its expected owner")
	ErrItemBusy            = errors.New("item is already part of an active trade")
	ErrItemOnBothSides     = errors.New("item cannot be both offered and wanted in the same trade")
	ErrNotTradeParticipant = errors.New("user is not a participant of this trade")
	ErrNotTradeReceiver    = errors.New("only the receiver can respond to a trade offer")
	ErrIllegalTransition   = errors.New("trade status does not allow this transition")
)

// RateLimitError reports that an action was throttled. RetryAfter carries
// how long the caller has to wait; Cooldown marks hard-cap exhaustion rather
// than a short window overrun.
type RateLimitError struct {
	RetryAfter time.Duration
	Cooldown   bool
}

func (e *RateLimitError) Error() string {
	if e.Cooldown {
		return fmt.Sprintf("too many offers this hour, wait %d minutes", int(e.RetryAfter.Minutes())+1)
	}
	return fmt.Sprintf("too many requests, wait %d seconds", int(e.RetryAfter.Seconds())+1)
}

// SanitizationError carries the user-facing reason a piece of free text was
// refused.
type SanitizationError struct {
	Reason string
}

func (e *SanitizationError) Error() string {
	return e.Reason
}

type (
	CreateTradeRequest struct {
		ReceiverID               string   `json:"receiver_id" validate:"required,uuid"`
		OfferedItemID            string   `json:"offered_item_id" validate:"required,uuid"`
		WantedItemID             string   `json:"wanted_item_id" validate:"required,uuid"`
		AdditionalOfferedItemIDs []string `json:"additional_offered_item_ids" validate:"omitempty,dive,uuid"`
		AdditionalWantedItemIDs  []string `json:"additional_wanted_item_ids" validate:"omitempty,dive,uuid"`
		Message                  string   `json:"message" validate:"omitempty,max=500"`
	}

	RespondTradeRequest struct {
		Accept bool `json:"accept"`
	}

	CounterOfferRequest struct {
		OfferedItemID            string   `json:"offered_item_id" validate:"required,uuid"`
		WantedItemID             string   `json:"wanted_item_id" validate:"required,uuid"`
		AdditionalOfferedItemIDs []string `json:"additional_offered_item_ids" validate:"omitempty,dive,uuid"`
		AdditionalWantedItemIDs  []string `json:"additional_wanted_item_ids" validate:"omitempty,dive,uuid"`
		Message                  string   `json:"message" validate:"omitempty,max=500"`
	}

	TradeOffer struct {
		ID                       string    `json:"id"`
		SenderID                 string    `json:"sender_id"`
		SenderName               string    `json:"sender_name,omitempty"`
		ReceiverID               string    `json:"receiver_id"`
		ReceiverName             string    `json:"receiver_name,omitempty"`
		OfferedItemID            string    `json:"offered_item_id"`
		WantedItemID             string    `json:"wanted_item_id"`
		AdditionalOfferedItemIDs []string  `json:"additional_offered_item_ids,omitempty"`
		AdditionalWantedItemIDs  []string  `json:"additional_wanted_item_ids,omitempty"`
		Status                   string    `json:"status"`
		Message                  string    `json:"message,omitempty"`
		CounteredTradeID         string    `json:"countered_trade_id,omitempty"`
		OfferedItem              *Item     `json:"offered_item,omitempty"`
		WantedItem               *Item     `json:"wanted_item,omitempty"`
		CreatedAt                time.Time `json:"created_at"`
		UpdatedAt                time.Time `json:"updated_at"`
	}

	CounterOfferResponse struct {
		OriginalTradeID string      `json:"original_trade_id"`
		NewTrade        *TradeOffer `json:"new_trade"`
	}

	CancelTradesForItemResult struct {
		ItemID         string `json:"item_id"`
		CancelledCount int    `json:"cancelled_count"`
		FailedCount    int    `json:"failed_count"`
	}
)
