package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSubmitReview = "review submitted successfully"
	MessageSuccessGetReviews   = "reviews retrieved successfully"
	MessageSuccessCanReview    = "review eligibility retrieved successfully"

	MessageFailedSubmitReview = "failed to submit review"
	MessageFailedGetReviews   = "failed to retrieve reviews"
	MessageFailedCanReview    = "failed to check review eligibility"

	ErrSelfReview       = errors.New("cannot review yourself")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrNoCompletedTrade = errors.New("no completed trade with this user")
	ErrAlreadyReviewed  = errors.New("already reviewed this trade")
)

type (
	SubmitReviewRequest struct {
		ReviewedID string `json:"reviewed_id" validate:"required,uuid"`
		// Optional for backward compatibility: when absent, the most recent
		// completed trade between the two users is used.
		TradeOfferID string `json:"trade_offer_id" validate:"omitempty,uuid"`
		Rating       int    `json:"rating" validate:"required,min=1,max=5"`
		Comment      string `json:"comment" validate:"omitempty,max=1000"`
	}

	Review struct {
		ID           string    `json:"id"`
		TradeOfferID string    `json:"trade_offer_id"`
		ReviewerID   string    `json:"reviewer_id"`
		ReviewerName string    `json:"reviewer_name,omitempty"`
		ReviewedID   string    `json:"reviewed_id"`
		Rating       int       `json:"rating"`
		Comment      string    `json:"comment,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}

	CanReviewResponse struct {
		CanReview bool   `json:"can_review"`
		Reason    string `json:"reason,omitempty"` // noCompletedTrade | alreadyReviewed
	}
)
