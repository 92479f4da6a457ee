package trade

import (
	"Trademate-Backend/domain"
	"Trademate-Backend/entities"
	"Trademate-Backend/internal/utils/mailing"
	"Trademate-Backend/pkg/item"
	"Trademate-Backend/pkg/progression"
	"Trademate-Backend/pkg/ratelimit"
	"Trademate-Backend/pkg/sanitize"
	"Trademate-Backend/pkg/user"
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TradeService interface {
		CreateTrade(ctx context.Context, req domain.CreateTradeRequest, senderID string) (*domain.TradeOffer, error)
		GetTradeByID(ctx context.Context, id string, userID string) (*domain.TradeOffer, error)
		GetUserTrades(ctx context.Context, userID string, direction, status string, page, limit int) ([]*domain.TradeOffer, int64, error)
		RespondToTrade(ctx context.Context, tradeID string, userID string, accept bool) (*domain.TradeOffer, error)
		CounterOffer(ctx context.Context, tradeID string, req domain.CounterOfferRequest, userID string) (*domain.CounterOfferResponse, error)
		CancelTrade(ctx context.Context, tradeID string, userID string) error
		CompleteTrade(ctx context.Context, tradeID string, userID string) (*domain.TradeOffer, error)
		BusyItemIDs(ctx context.Context, userID string) ([]string, error)
		CancelTradesForItem(ctx context.Context, itemID string) (*domain.CancelTradesForItemResult, error)
	}

	tradeService struct {
		tradeRepository    TradeRepository
		itemRepository     item.ItemRepository
		userService        user.UserService
		progressionService progression.ProgressionService
		limiter            ratelimit.Limiter
		sanitizer          sanitize.Sanitizer
	}
)

func NewTradeService(
	tradeRepository TradeRepository,
	itemRepository item.ItemRepository,
	userService user.UserService,
	progressionService progression.ProgressionService,
	limiter ratelimit.Limiter,
	sanitizer sanitize.Sanitizer,
) TradeService {
	return &tradeService{
		tradeRepository:    tradeRepository,
		itemRepository:     itemRepository,
		userService:        userService,
		progressionService: progressionService,
		limiter:            limiter,
		sanitizer:          sanitizer,
	}
}

func (s *tradeService) CreateTrade(ctx context.Context, req domain.CreateTradeRequest, senderID string) (*domain.TradeOffer, error) {
	if err := s.checkRateLimit(ctx, senderID, ratelimit.Offers); err != nil {
		return nil, err
	}

	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	receiverUUID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if senderUUID == receiverUUID {
		return nil, domain.ErrSelfTrade
	}

	message := ""
	if req.Message != "" {
		message, err = s.sanitizer.Sanitize(req.Message, sanitize.Note)
		if err != nil {
			return nil, err
		}
	}

	offeredIDs, err := collectItemIDs(req.OfferedItemID, req.AdditionalOfferedItemIDs)
	if err != nil {
		return nil, err
	}
	wantedIDs, err := collectItemIDs(req.WantedItemID, req.AdditionalWantedItemIDs)
	if err != nil {
		return nil, err
	}

	trade, err := s.buildOffer(ctx, senderUUID, receiverUUID, offeredIDs, wantedIDs, message, nil)
	if err != nil {
		return nil, err
	}

	if err := s.tradeRepository.CreateTrade(ctx, trade); err != nil {
		return nil, err
	}

	s.notifyByMail(ctx, trade.ReceiverID.String(), trade.SenderID.String(), mailing.TradeOfferReceived)

	return toTradeResponse(trade), nil
}

func (s *tradeService) GetTradeByID(ctx context.Context, id string, userID string) (*domain.TradeOffer, error) {
	trade, err := s.loadTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade.SenderID.String() != userID && trade.ReceiverID.String() != userID {
		return nil, domain.ErrNotTradeParticipant
	}
	return toTradeResponse(trade), nil
}

func (s *tradeService) GetUserTrades(ctx context.Context, userID string, direction, status string, page, limit int) ([]*domain.TradeOffer, int64, error) {
	trades, count, err := s.tradeRepository.GetUserTrades(ctx, userID, direction, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.TradeOffer, 0, len(trades))
	for _, t := range trades {
		result = append(result, toTradeResponse(t))
	}
	return result, count, nil
}

// RespondToTrade lets the receiver accept or reject a pending offer.
// Acceptance is the point at which the receiver's wanted items become busy.
func (s *tradeService) RespondToTrade(ctx context.Context, tradeID string, userID string, accept bool) (*domain.TradeOffer, error) {
	trade, err := s.loadTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if trade.ReceiverID.String() != userID {
		return nil, domain.ErrNotTradeReceiver
	}

	next := entities.TradeStatusRejected
	if accept {
		next = entities.TradeStatusAccepted
	}
	if !trade.Status.CanTransitionTo(next) {
		return nil, domain.ErrIllegalTransition
	}

	if err := s.tradeRepository.UpdateTradeStatus(ctx, tradeID, next); err != nil {
		return nil, err
	}
	trade.Status = next

	if accept {
		s.notifyByMail(ctx, trade.SenderID.String(), trade.ReceiverID.String(), mailing.TradeOfferAccepted)
	}

	return toTradeResponse(trade), nil
}

// CounterOffer terminates the original trade as countered and creates a new
// pending offer with the proposer as sender. Items pledged in the original
// trade are excluded from the busy check so they are not flagged against
// themselves.
func (s *tradeService) CounterOffer(ctx context.Context, tradeID string, req domain.CounterOfferRequest, userID string) (*domain.CounterOfferResponse, error) {
	if err := s.checkRateLimit(ctx, userID, ratelimit.Offers); err != nil {
		return nil, err
	}

	original, err := s.loadTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	proposerUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if original.SenderID != proposerUUID && original.ReceiverID != proposerUUID {
		return nil, domain.ErrNotTradeParticipant
	}

	if !original.Status.CanTransitionTo(entities.TradeStatusCountered) {
		return nil, domain.ErrIllegalTransition
	}

	message := ""
	if req.Message != "" {
		message, err = s.sanitizer.Sanitize(req.Message, sanitize.Note)
		if err != nil {
			return nil, err
		}
	}

	counterparty := original.SenderID
	if proposerUUID == original.SenderID {
		counterparty = original.ReceiverID
	}

	offeredIDs, err := collectItemIDs(req.OfferedItemID, req.AdditionalOfferedItemIDs)
	if err != nil {
		return nil, err
	}
	wantedIDs, err := collectItemIDs(req.WantedItemID, req.AdditionalWantedItemIDs)
	if err != nil {
		return nil, err
	}

	newTrade, err := s.buildOffer(ctx, proposerUUID, counterparty, offeredIDs, wantedIDs, message, &original.ID)
	if err != nil {
		return nil, err
	}
	newTrade.CounteredTradeID = &original.ID

	if err := s.tradeRepository.CounterTrade(ctx, tradeID, newTrade); err != nil {
		return nil, err
	}

	s.notifyByMail(ctx, counterparty.String(), userID, mailing.TradeOfferReceived)

	return &domain.CounterOfferResponse{
		OriginalTradeID: tradeID,
		NewTrade:        toTradeResponse(newTrade),
	}, nil
}

func (s *tradeService) CancelTrade(ctx context.Context, tradeID string, userID string) error {
	trade, err := s.loadTrade(ctx, tradeID)
	if err != nil {
		return err
	}

	if trade.SenderID.String() != userID && trade.ReceiverID.String() != userID {
		return domain.ErrNotTradeParticipant
	}

	if !trade.Status.CanTransitionTo(entities.TradeStatusCancelled) {
		return domain.ErrIllegalTransition
	}

	return s.tradeRepository.UpdateTradeStatus(ctx, tradeID, entities.TradeStatusCancelled)
}

// CompleteTrade is the terminal success path, valid only from accepted, and
// the only transition that unlocks review eligibility. XP is awarded to both
// parties fire-and-forget.
func (s *tradeService) CompleteTrade(ctx context.Context, tradeID string, userID string) (*domain.TradeOffer, error) {
	trade, err := s.loadTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if trade.SenderID.String() != userID && trade.ReceiverID.String() != userID {
		return nil, domain.ErrNotTradeParticipant
	}

	if !trade.Status.CanTransitionTo(entities.TradeStatusCompleted) {
		return nil, domain.ErrIllegalTransition
	}

	if err := s.tradeRepository.UpdateTradeStatus(ctx, tradeID, entities.TradeStatusCompleted); err != nil {
		return nil, err
	}
	trade.Status = entities.TradeStatusCompleted

	for _, participant := range []string{trade.SenderID.String(), trade.ReceiverID.String()} {
		if err := s.progressionService.AwardXP(ctx, participant, domain.XPSourceTradeCompleted, tradeID); err != nil {
			log.Printf("failed to award trade completion XP to user %s: %v", participant, err)
		}
	}

	return toTradeResponse(trade), nil
}

// BusyItemIDs exposes the derived busy set for the feed and offer screens.
func (s *tradeService) BusyItemIDs(ctx context.Context, userID string) ([]string, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	busy, err := s.busyItemIDs(ctx, userUUID, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(busy))
	for id := range busy {
		ids = append(ids, id.String())
	}
	return ids, nil
}

// CancelTradesForItem cancels every active trade referencing the item in any
// role. Failures on individual trades are counted, not fatal, so the
// operation can be retried until the item is fully released.
func (s *tradeService) CancelTradesForItem(ctx context.Context, itemID string) (*domain.CancelTradesForItemResult, error) {
	trades, err := s.tradeRepository.GetActiveTradesForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	result := &domain.CancelTradesForItemResult{ItemID: itemID}
	for _, t := range trades {
		if err := s.tradeRepository.UpdateTradeStatus(ctx, t.ID.String(), entities.TradeStatusCancelled); err != nil {
			log.Printf("failed to cancel trade %s while deleting item %s: %v", t.ID, itemID, err)
			result.FailedCount++
			continue
		}
		result.CancelledCount++
	}

	return result, nil
}

// busyItemIDs derives the set of encumbered items for a user from their
// active trades. A sender's offered items are pledged from the moment the
// offer is sent; a receiver's wanted items only once the receiver accepts.
// The set is recomputed on every call and never cached. excludeTradeID skips
// the trade currently being renegotiated.
func (s *tradeService) busyItemIDs(ctx context.Context, userID uuid.UUID, excludeTradeID *uuid.UUID) (map[uuid.UUID]bool, error) {
	trades, err := s.tradeRepository.GetActiveTradesForUser(ctx, userID.String())
	if err != nil {
		// Fail closed: an unknown busy set must surface as an error, never
		// as an empty set that would let double-booking through.
		return nil, err
	}

	busy := make(map[uuid.UUID]bool)
	for _, t := range trades {
		if excludeTradeID != nil && t.ID == *excludeTradeID {
			continue
		}
		if t.SenderID == userID {
			for _, id := range t.AllOfferedIDs() {
				busy[id] = true
			}
		}
		if t.ReceiverID == userID && t.Status == entities.TradeStatusAccepted {
			for _, id := range t.AllWantedIDs() {
				busy[id] = true
			}
		}
	}
	return busy, nil
}

// buildOffer validates ownership, side disjointness and busy-item conflicts,
// then assembles the offer entity in pending status.
func (s *tradeService) buildOffer(
	ctx context.Context,
	senderID, receiverID uuid.UUID,
	offeredIDs, wantedIDs []uuid.UUID,
	message string,
	excludeTradeID *uuid.UUID,
) (*entities.TradeOffer, error) {
	if senderID == receiverID {
		return nil, domain.ErrSelfTrade
	}
	if len(offeredIDs) == 0 || len(wantedIDs) == 0 {
		return nil, domain.ErrEmptyItemSet
	}

	offered := make(map[uuid.UUID]bool, len(offeredIDs))
	for _, id := range offeredIDs {
		offered[id] = true
	}
	for _, id := range wantedIDs {
		if offered[id] {
			return nil, domain.ErrItemOnBothSides
		}
	}

	if err := s.checkOwnership(ctx, offeredIDs, senderID); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, wantedIDs, receiverID); err != nil {
		return nil, err
	}

	busy, err := s.busyItemIDs(ctx, senderID, excludeTradeID)
	if err != nil {
		return nil, err
	}
	for _, id := range offeredIDs {
		if busy[id] {
			return nil, domain.ErrItemBusy
		}
	}

	tradeID := uuid.New()
	trade := &entities.TradeOffer{
		ID:            tradeID,
		SenderID:      senderID,
		ReceiverID:    receiverID,
		OfferedItemID: offeredIDs[0],
		WantedItemID:  wantedIDs[0],
		Status:        entities.TradeStatusPending,
		Message:       message,
	}
	for _, id := range offeredIDs[1:] {
		trade.AdditionalItems = append(trade.AdditionalItems, &entities.TradeOfferItem{
			ID:           uuid.New(),
			TradeOfferID: tradeID,
			ItemID:       id,
			Wanted:       false,
		})
	}
	for _, id := range wantedIDs[1:] {
		trade.AdditionalItems = append(trade.AdditionalItems, &entities.TradeOfferItem{
			ID:           uuid.New(),
			TradeOfferID: tradeID,
			ItemID:       id,
			Wanted:       true,
		})
	}

	return trade, nil
}

func (s *tradeService) checkOwnership(ctx context.Context, itemIDs []uuid.UUID, ownerID uuid.UUID) error {
	for _, id := range itemIDs {
		it, err := s.itemRepository.GetItemByID(ctx, id.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrItemNotFound
			}
			return err
		}
		if it.UserID != ownerID {
			return domain.ErrItemNotOwned
		}
	}
	return nil
}

func (s *tradeService) checkRateLimit(ctx context.Context, userID string, cfg ratelimit.Config) error {
	result, err := s.limiter.CheckAndRecord(ctx, userID, cfg)
	if err != nil {
		return err
	}
	if !result.Allowed {
		return &domain.RateLimitError{RetryAfter: result.RetryAfter, Cooldown: result.Cooldown}
	}
	return nil
}

func (s *tradeService) loadTrade(ctx context.Context, id string) (*entities.TradeOffer, error) {
	trade, err := s.tradeRepository.GetTradeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return trade, nil
}

func (s *tradeService) notifyByMail(ctx context.Context, toUserID, fromUserID string, kind mailing.TradeMailKind) {
	to, err := s.userService.Me(ctx, toUserID)
	if err != nil {
		log.Printf("failed to load user %s for trade mail: %v", toUserID, err)
		return
	}
	from, err := s.userService.Me(ctx, fromUserID)
	if err != nil {
		log.Printf("failed to load user %s for trade mail: %v", fromUserID, err)
		return
	}
	if err := mailing.SendTradeMail(to.Email, to.Name, from.Name, kind); err != nil {
		log.Printf("failed to send trade mail to %s: %v", to.Email, err)
	}
}

func collectItemIDs(primary string, additional []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(additional)+1)

	primaryUUID, err := uuid.Parse(primary)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	seen[primaryUUID] = true
	ids = append(ids, primaryUUID)

	for _, raw := range additional {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func toTradeResponse(t *entities.TradeOffer) *domain.TradeOffer {
	resp := &domain.TradeOffer{
		ID:            t.ID.String(),
		SenderID:      t.SenderID.String(),
		ReceiverID:    t.ReceiverID.String(),
		OfferedItemID: t.OfferedItemID.String(),
		WantedItemID:  t.WantedItemID.String(),
		Status:        string(t.Status),
		Message:       t.Message,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.CounteredTradeID != nil {
		resp.CounteredTradeID = t.CounteredTradeID.String()
	}
	for _, it := range t.AdditionalItems {
		if it.Wanted {
			resp.AdditionalWantedItemIDs = append(resp.AdditionalWantedItemIDs, it.ItemID.String())
		} else {
			resp.AdditionalOfferedItemIDs = append(resp.AdditionalOfferedItemIDs, it.ItemID.String())
		}
	}
	if t.Sender != nil {
		resp.SenderName = t.Sender.Name
	}
	if t.Receiver != nil {
		resp.ReceiverName = t.Receiver.Name
	}
	if t.OfferedItem != nil {
		resp.OfferedItem = toTradeItem(t.OfferedItem)
	}
	if t.WantedItem != nil {
		resp.WantedItem = toTradeItem(t.WantedItem)
	}
	return resp
}

func toTradeItem(it *entities.Item) *domain.Item {
	return &domain.Item{
		ID:          it.ID.String(),
		UserID:      it.UserID.String(),
		Title:       it.Title,
		Description: it.Description,
		Category:    it.Category,
		Condition:   it.Condition,
		ImageURL:    it.ImageURL,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
