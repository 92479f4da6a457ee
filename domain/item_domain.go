package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetItems    = "items retrieved successfully"
	MessageSuccessCreateItem  = "item created successfully"
	MessageSuccessUpdateItem  = "item updated successfully"
	MessageSuccessDeleteItem  = "item deleted successfully"
	MessageSuccessGetItemFeed = "item feed retrieved successfully"

	MessageFailedGetItems    = "failed to retrieve items"
	MessageFailedCreateItem  = "failed to create item"
	MessageFailedUpdateItem  = "failed to update item"
	MessageFailedDeleteItem  = "failed to delete item"
	MessageFailedGetItemFeed = "failed to retrieve item feed"

	ErrItemNotFound           = errors.New("item not found")
	ErrUnauthorizedItemAccess = errors.New("unauthorized access to item")
)

type (
	ItemRequest struct {
		Title       string                `json:"title" validate:"required,max=120"`
		Description string                `json:"description" validate:"omitempty,max=1000"`
		Category    string                `json:"category" validate:"required"`
		Condition   string                `json:"condition" validate:"required,oneof=New LikeNew Good Fair Worn"`
		Image       *multipart.FileHeader `json:"image" form:"image"`
	}

	Item struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		UserName    string    `json:"user_name,omitempty"`
		UserRating  float64   `json:"user_rating,omitempty"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Condition   string    `json:"condition"`
		ImageURL    string    `json:"image_url,omitempty"`
		Busy        bool      `json:"busy"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	DeleteItemResponse struct {
		ItemID              string `json:"item_id"`
		CancelledTradeCount int    `json:"cancelled_trade_count"`
	}
)
