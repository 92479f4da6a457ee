package entities

import (
	"testing"

	"github.com/google/uuid"
)

func TestTradeStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to TradeStatus
		ok       bool
	}{
		{TradeStatusPending, TradeStatusAccepted, true},
		{TradeStatusPending, TradeStatusRejected, true},
		{TradeStatusPending, TradeStatusCountered, true},
		{TradeStatusPending, TradeStatusCancelled, true},
		{TradeStatusPending, TradeStatusCompleted, false},
		{TradeStatusAccepted, TradeStatusCompleted, true},
		{TradeStatusAccepted, TradeStatusCountered, true},
		{TradeStatusAccepted, TradeStatusCancelled, true},
		{TradeStatusAccepted, TradeStatusRejected, false},
		{TradeStatusRejected, TradeStatusAccepted, false},
		{TradeStatusCompleted, TradeStatusCancelled, false},
		{TradeStatusCancelled, TradeStatusPending, false},
		{TradeStatusCountered, TradeStatusAccepted, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestTradeStatusClassification(t *testing.T) {
	active := []TradeStatus{TradeStatusPending, TradeStatusAccepted}
	terminal := []TradeStatus{TradeStatusRejected, TradeStatusCountered, TradeStatusCompleted, TradeStatusCancelled}

	for _, s := range active {
		if !s.IsActive() {
			t.Errorf("%s should be active", s)
		}
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range terminal {
		if s.IsActive() {
			t.Errorf("%s should not be active", s)
		}
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestTradeOfferItemSets(t *testing.T) {
	offered := uuid.New()
	wanted := uuid.New()
	extraOffered := uuid.New()
	extraWanted := uuid.New()

	trade := &TradeOffer{
		ID:            uuid.New(),
		OfferedItemID: offered,
		WantedItemID:  wanted,
		AdditionalItems: []*TradeOfferItem{
			{ItemID: extraOffered, Wanted: false},
			{ItemID: extraWanted, Wanted: true},
		},
	}

	offeredIDs := trade.AllOfferedIDs()
	if len(offeredIDs) != 2 || offeredIDs[0] != offered || offeredIDs[1] != extraOffered {
		t.Errorf("AllOfferedIDs() = %v, want [%s %s]", offeredIDs, offered, extraOffered)
	}

	wantedIDs := trade.AllWantedIDs()
	if len(wantedIDs) != 2 || wantedIDs[0] != wanted || wantedIDs[1] != extraWanted {
		t.Errorf("AllWantedIDs() = %v, want [%s %s]", wantedIDs, wanted, extraWanted)
	}

	for _, id := range []uuid.UUID{offered, wanted, extraOffered, extraWanted} {
		if !trade.ReferencesItem(id) {
			t.Errorf("ReferencesItem(%s) = false, want true", id)
		}
	}
	if trade.ReferencesItem(uuid.New()) {
		t.Error("ReferencesItem(unrelated) = true, want false")
	}
}
