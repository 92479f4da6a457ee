package handlers

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/internal/api/presenters"
	"Trademate-Backend/pkg/trade"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	TradeHandler interface {
		CreateTrade(c *fiber.Ctx) error
		GetMyTrades(c *fiber.Ctx) error
		GetTradeByID(c *fiber.Ctx) error
		RespondToTrade(c *fiber.Ctx) error
		CounterOffer(c *fiber.Ctx) error
		CancelTrade(c *fiber.Ctx) error
		CompleteTrade(c *fiber.Ctx) error
		GetBusyItems(c *fiber.Ctx) error
	}

	tradeHandler struct {
		tradeService trade.TradeService
		validator    *validator.Validate
	}
)

func NewTradeHandler(tradeService trade.TradeService, validator *validator.Validate) TradeHandler {
	return &tradeHandler{
		tradeService: tradeService,
		validator:    validator,
	}
}

func (h *tradeHandler) CreateTrade(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateTradeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateTrade, err)
	}

	resp, err := h.tradeService.CreateTrade(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, tradeErrorStatus(err), domain.MessageFailedCreateTrade, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessCreateTrade)
}

func (h *tradeHandler) GetMyTrades(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := pagination(c)
	direction := c.Query("type", "all") // all, incoming, outgoing
	status := c.Query("status", "all")

	trades, count, err := h.tradeService.GetUserTrades(c.Context(), userID, direction, status, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetTrades, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"trades": trades,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": count,
		},
	}, fiber.StatusOK, domain.MessageSuccessGetTrades)
}

func (h *tradeHandler) GetTradeByID(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	resp, err := h.tradeService.GetTradeByID(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, tradeErrorStatus(err), domain.MessageFailedGetTradeDetail, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetTradeDetail)
}

func (h *tradeHandler) RespondToTrade(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.RespondTradeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	resp, err := h.tradeService.RespondToTrade(c.Context(), c.Params("id"), userID, req.Accept)
	if err != nil {
		return presenters.ErrorResponse(c, tradeErrorStatus(err), domain.MessageFailedRespondTrade, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessRespondTrade)
}

func (h *tradeHandler) CounterOffer(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CounterOfferRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCounterOffer, err)
	}

	resp, err := h.tradeService.CounterOffer(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, tradeErrorStatus(err), domain.MessageFailedCounterOffer, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessCounterOffer)
}

func (h *tradeHandler) CancelTrade(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.tradeService.CancelTrade(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, tradeErrorStatus(err), domain.MessageFailedCancelTrade, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelTrade)
}

func (h *tradeHandler) CompleteTrade(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	resp, err := h.tradeService.CompleteTrade(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, tradeErrorStatus(err), domain.MessageFailedCompleteTrade, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessCompleteTrade)
}

func (h *tradeHandler) GetBusyItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	ids, err := h.tradeService.BusyItemIDs(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetBusyItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"busy_item_ids": ids}, fiber.StatusOK, domain.MessageSuccessGetBusyItems)
}

func tradeErrorStatus(err error) int {
	var rateLimitErr *domain.RateLimitError
	switch {
	case errors.Is(err, domain.ErrTradeNotFound), errors.Is(err, domain.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrItemBusy):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotTradeParticipant), errors.Is(err, domain.ErrNotTradeReceiver):
		return fiber.StatusForbidden
	case errors.As(err, &rateLimitErr):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusBadRequest
	}
}
