package model

import (
	"fmt"
	"time"
)

// Listing is one fixed-price (BIN) auction pulled from the feed. Immutable
// once fetched; only derived state outlives the poll cycle that produced it.
type Listing struct {
	UUID      string  // 32-hex auction id
	ItemName  string  // display name from the feed
	ItemLore  string  // descriptive text (dungeon markers live here)
	ItemBytes string  // base64 NBT payload
	Price     float64 // starting_bid; for BIN this is the purchase price
	Bin       bool
	Start     int64 // ms since epoch
	End       int64 // ms since epoch
}

// Active reports whether the listing is a BIN auction that has not ended.
func (l Listing) Active(now time.Time) bool {
	return l.Bin && l.End > now.UnixMilli()
}

// FlipEvent is an underpriced listing worth buying for resale.
type FlipEvent struct {
	Name       string  // canonical item name
	Price      float64 // asking price
	Value      float64 // estimated market value
	AddedValue float64 // modifier portion of Value
	AuctionID  string  // dashed uuid form
	ImageURL   string
	Listing    Listing
}

// Profit is the estimated margin on the flip.
func (e FlipEvent) Profit() float64 {
	return e.Value - e.Price
}

// ProfitPercent is the margin relative to the asking price.
func (e FlipEvent) ProfitPercent() float64 {
	if e.Price == 0 {
		return 0
	}
	return e.Profit() / e.Price * 100
}

// TimeRemaining renders how long the listing has left, e.g. "12m 30s".
func (e FlipEvent) TimeRemaining(now time.Time) string {
	end := time.UnixMilli(e.Listing.End)
	if !end.After(now) {
		return "Ended"
	}
	d := end.Sub(now)
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}
