package models

import (
	"time"
)

// CardRecord is one row of the assembled inventory.
type CardRecord struct {
	CardID           string    `json:"card_id"`
	Name             string    `json:"name"`
	SetName          string    `json:"set_name"`
	Number           string    `json:"number"`
	Rarity           string    `json:"rarity"`
	MarketPriceUSD   *float64  `json:"market_price_usd"` // nil when the catalog has no price data
	ImageURL         string    `json:"image_url"`
	CheckedOn        time.Time `json:"checked_on"`
	AIRecommendation string    `json:"ai_recommendation"`
}

// HasPrice reports whether the catalog returned market price data for
// this card. An absent price is never the same as a zero price.
func (r *CardRecord) HasPrice() bool {
	return r.MarketPriceUSD != nil
}

// Inventory is the full set of resolved card rows for one run.
// Rows stay in input order; duplicates in the input produce duplicate
// rows. It is discarded when the run ends.
type Inventory struct {
	Rows      []CardRecord `json:"rows"`
	CheckedOn time.Time    `json:"checked_on"`
}

// RankedCard is one entry of the top-N projection.
type RankedCard struct {
	Rank           string  `json:"rank"` // "#1".."#N"
	CardID         string  `json:"card_id"`
	Name           string  `json:"name"`
	SetName        string  `json:"set_name"`
	MarketPriceUSD float64 `json:"market_price_usd"`
	ImageURL       string  `json:"image_url"`
}

// InventorySummary holds the derived views over an Inventory. It is
// recomputed from the rows on demand, never stored.
type InventorySummary struct {
	TotalValue float64      `json:"total_value"`
	TopCards   []RankedCard `json:"top_cards"`
	CardCount  int          `json:"card_count"`
}
