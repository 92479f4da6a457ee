package handlers

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/internal/api/presenters"
	"Trademate-Backend/pkg/review"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReviewHandler interface {
		CanReview(c *fiber.Ctx) error
		SubmitReview(c *fiber.Ctx) error
		GetUserReviews(c *fiber.Ctx) error
	}

	reviewHandler struct {
		reviewService review.ReviewService
		validator     *validator.Validate
	}
)

func NewReviewHandler(reviewService review.ReviewService, validator *validator.Validate) ReviewHandler {
	return &reviewHandler{
		reviewService: reviewService,
		validator:     validator,
	}
}

func (h *reviewHandler) CanReview(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	resp, err := h.reviewService.CanReview(c.Context(), userID, c.Params("tradeId"))
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrTradeNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedCanReview, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessCanReview)
}

func (h *reviewHandler) SubmitReview(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SubmitReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitReview, err)
	}

	resp, err := h.reviewService.SubmitReview(c.Context(), *req, userID)
	if err != nil {
		status := fiber.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrTradeNotFound), errors.Is(err, domain.ErrUserNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, domain.ErrAlreadyReviewed):
			status = fiber.StatusConflict
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedSubmitReview, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessSubmitReview)
}

func (h *reviewHandler) GetUserReviews(c *fiber.Ctx) error {
	page, limit := pagination(c)

	reviews, count, err := h.reviewService.GetUserReviews(c.Context(), c.Params("userId"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": count,
		},
	}, fiber.StatusOK, domain.MessageSuccessGetReviews)
}
