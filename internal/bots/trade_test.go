package bots

import (
	"errors"
	"testing"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

func ptr(id int64) *int64 { return &id }

func tradeContext() *game.Context {
	ctx := game.NewContext(0.01)
	ctx.Players = []*game.Player{
		{ID: 1, Cash: 1000},
		{ID: 2, Cash: 1000},
	}
	ctx.Properties = []*game.Property{
		{ID: 21, Name: "Park Place", Group: "darkblue", BaseRent: 35, CurrentPrice: 350, OwnerID: ptr(1)},
		{ID: 22, Name: "Boardwalk", Group: "darkblue", BaseRent: 50, CurrentPrice: 400, OwnerID: ptr(2)},
		{ID: 23, Name: "Reading Railroad", Group: game.GroupRailroad, BaseRent: 25, CurrentPrice: 200, OwnerID: ptr(2)},
	}
	return ctx
}

func TestDecideTradeOfferMissingPlayer(t *testing.T) {
	ctx := tradeContext()
	offer := TradeOffer{FromPlayerID: 1, ToPlayerID: 99}
	if _, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{}); !errors.Is(err, game.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDecideTradeOfferMissingProperty(t *testing.T) {
	ctx := tradeContext()
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, RequestedPropertyIDs: []int64{99}}
	if _, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{}); !errors.Is(err, game.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDecideTradeOfferRejectsUnownedRequest(t *testing.T) {
	ctx := tradeContext()
	// Player 1 does not own Boardwalk.
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, RequestedPropertyIDs: []int64{22}}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if d.Accept || d.Counter {
		t.Errorf("decision = %+v, want flat rejection", d)
	}
	if d.Rationale != "requested property not owned" {
		t.Errorf("Rationale = %q", d.Rationale)
	}
}

func TestDecideTradeOfferRejectsUnaffordableCash(t *testing.T) {
	ctx := tradeContext()
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, CashRequested: 5000}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if d.Accept || d.Rationale != "cannot cover requested cash" {
		t.Errorf("decision = %+v", d)
	}
}

func TestDecideTradeOfferNothingToGive(t *testing.T) {
	ctx := tradeContext()
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, CashOffered: 50}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !d.Accept || d.Rationale != "nothing to give up" {
		t.Errorf("decision = %+v", d)
	}
}

func TestDecideTradeOfferFavorableCashForCash(t *testing.T) {
	ctx := tradeContext()
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, CashOffered: 200, CashRequested: 100}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !d.Accept || d.Rationale != "favorable value exchange" {
		t.Errorf("decision = %+v", d)
	}
}

func TestDecideTradeOfferCounters(t *testing.T) {
	ctx := tradeContext()
	// Ratio 0.9 at risk factor 1.0: close enough to counter for the
	// 10-cash difference.
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, CashOffered: 90, CashRequested: 100}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if d.Accept || !d.Counter {
		t.Fatalf("decision = %+v, want counter", d)
	}
	if !almostEqual(d.CounterCash, 10) {
		t.Errorf("CounterCash = %v, want 10", d.CounterCash)
	}
}

func TestDecideTradeOfferLopsided(t *testing.T) {
	ctx := tradeContext()
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, CashOffered: 50, CashRequested: 100}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if d.Accept || d.Counter {
		t.Errorf("decision = %+v, want rejection", d)
	}
	if d.Rationale != "value exchange too lopsided" {
		t.Errorf("Rationale = %q", d.Rationale)
	}
}

func TestDecideTradeOfferMonopolyCompletionBonus(t *testing.T) {
	ctx := tradeContext()
	// Boardwalk completes the responder's darkblue pair. Estimate is
	// 50*15*1.5 = 1125; the completion bonus adds half of that again.
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, OfferedPropertyIDs: []int64{22}}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !d.Accept {
		t.Errorf("decision = %+v, want accept", d)
	}
	if !almostEqual(d.ValueGetting, 1125) {
		t.Errorf("ValueGetting = %v, want 1125", d.ValueGetting)
	}
	if !almostEqual(d.MonopolyBonus, 562.5) {
		t.Errorf("MonopolyBonus = %v, want 562.5", d.MonopolyBonus)
	}
}

func TestDecideTradeOfferRailroadNoCompletionBonus(t *testing.T) {
	ctx := tradeContext()
	// Railroads never complete a color monopoly.
	ctx.Properties[2].OwnerID = ptr(2)
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, OfferedPropertyIDs: []int64{23}}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if d.MonopolyBonus != 0 {
		t.Errorf("MonopolyBonus = %v, want 0 for a railroad", d.MonopolyBonus)
	}
}

func TestDecideTradeOfferBreakingMonopolyDoubles(t *testing.T) {
	ctx := tradeContext()
	// Responder holds the complete darkblue pair.
	ctx.Properties[1].OwnerID = ptr(1)

	// Park Place: estimate 525*1.5 = 787.5, ownership premium 1.2, then
	// doubled for breaking the monopoly: 1890.
	offer := TradeOffer{FromPlayerID: 2, ToPlayerID: 1, CashOffered: 2000, RequestedPropertyIDs: []int64{21}}
	d, err := DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !almostEqual(d.ValueGiving, 1890) {
		t.Errorf("ValueGiving = %v, want 1890", d.ValueGiving)
	}
	if !d.Accept {
		t.Errorf("2000 cash for 1890 of value rejected: %+v", d)
	}

	// The same request for half the cash is far too lopsided.
	offer.CashOffered = 1000
	d, err = DecideTradeOffer(exactProfile(0.5), ctx, offer, &stubSource{})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if d.Accept {
		t.Errorf("accepted a monopoly-breaking lowball: %+v", d)
	}
}
