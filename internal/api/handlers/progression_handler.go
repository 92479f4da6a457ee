package handlers

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/internal/api/presenters"
	"Trademate-Backend/pkg/progression"

	"github.com/gofiber/fiber/v2"
)

type (
	ProgressionHandler interface {
		GetUserXP(c *fiber.Ctx) error
		GetXPHistory(c *fiber.Ctx) error
	}

	progressionHandler struct {
		progressionService progression.ProgressionService
	}
)

func NewProgressionHandler(progressionService progression.ProgressionService) ProgressionHandler {
	return &progressionHandler{
		progressionService: progressionService,
	}
}

func (h *progressionHandler) GetUserXP(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	resp, err := h.progressionService.GetUserXP(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUserXP, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetUserXP)
}

func (h *progressionHandler) GetXPHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := pagination(c)

	transactions, count, err := h.progressionService.GetXPHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetXPLog, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": count,
		},
	}, fiber.StatusOK, domain.MessageSuccessGetXPLog)
}
