package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetUserXP = "user experience retrieved successfully"
	MessageSuccessGetXPLog  = "experience history retrieved successfully"
	MessageFailedGetUserXP  = "failed to retrieve user experience"
	MessageFailedGetXPLog   = "failed to retrieve experience history"
	MessageFailedAwardXP    = "failed to award experience"

	ErrInvalidXPSource = errors.New("invalid experience source")
)

const (
	// Award values
	XP_TRADE_COMPLETED  = 50
	XP_REVIEW_SUBMITTED = 10

	XPSourceTradeCompleted  = "TradeCompleted"
	XPSourceReviewSubmitted = "ReviewSubmitted"
)

type (
	UserXP struct {
		UserID  string `json:"user_id"`
		Balance int    `json:"balance"`
		Level   int    `json:"level"`
	}

	XPTransaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		Amount      int       `json:"amount"`
		Source      string    `json:"source"`
		ReferenceID string    `json:"reference_id"`
		Description string    `json:"description"`
		Balance     int       `json:"balance"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// ProgressionEvent is the payload published for downstream consumers
	// (push notifications, leaderboards). Publishing is fire-and-forget.
	ProgressionEvent struct {
		UserID      string    `json:"user_id"`
		Source      string    `json:"source"`
		Amount      int       `json:"amount"`
		ReferenceID string    `json:"reference_id"`
		OccurredAt  time.Time `json:"occurred_at"`
	}
)
