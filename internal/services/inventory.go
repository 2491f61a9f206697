package services

import (
	"context"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/cardledger/backend/internal/metrics"
	"github.com/cardledger/backend/internal/models"
)

// Fixed user-facing advisory strings. RecommendationUnavailable is
// substituted for any advisory failure; internally the failure stays
// a typed error so the two cases remain distinguishable.
const (
	RecommendationUnavailable = "AI analysis unavailable."
	RecommendationNoPrice     = "No price data available."
)

// CardFetcher resolves one identifier against the catalog. A missing
// card is (nil, nil).
type CardFetcher interface {
	GetCard(ctx context.Context, id string) (*models.CardRecord, error)
}

// Advisor produces a one-sentence recommendation for a priced card.
type Advisor interface {
	Recommend(ctx context.Context, name, rarity string, price float64) (string, error)
}

// InventoryService assembles uploaded identifiers into an inventory.
// Processing is strictly sequential: one catalog lookup per
// identifier, then one advisory call per priced row.
type InventoryService struct {
	fetcher CardFetcher
	advisor Advisor
}

func NewInventoryService(fetcher CardFetcher, advisor Advisor) *InventoryService {
	return &InventoryService{
		fetcher: fetcher,
		advisor: advisor,
	}
}

// Build fetches every identifier in order and assembles the inventory.
// All rows share one timestamp captured at batch start. Identifiers
// the catalog cannot resolve are dropped; nothing aborts the batch.
func (s *InventoryService) Build(ctx context.Context, ids []string) *models.Inventory {
	checkedOn := time.Now()

	inv := &models.Inventory{
		Rows:      []models.CardRecord{},
		CheckedOn: checkedOn,
	}

	for _, id := range ids {
		record, err := s.fetcher.GetCard(ctx, id)
		if err != nil {
			log.Printf("Skipping card %s: %v", id, err)
			metrics.InventorySkippedTotal.Inc()
			continue
		}
		if record == nil {
			log.Printf("Skipping card %s: not found", id)
			metrics.InventorySkippedTotal.Inc()
			continue
		}

		record.CheckedOn = checkedOn
		record.AIRecommendation = s.recommendationFor(ctx, record)
		inv.Rows = append(inv.Rows, *record)
	}

	metrics.InventoryBuildsTotal.Inc()
	metrics.InventoryRowsLastBuild.Set(float64(len(inv.Rows)))
	metrics.InventoryValueLastBuild.Set(TotalValue(inv))

	return inv
}

// recommendationFor converts the advisor result into row text. Rows
// without price data never reach the advisor.
func (s *InventoryService) recommendationFor(ctx context.Context, record *models.CardRecord) string {
	if !record.HasPrice() {
		return RecommendationNoPrice
	}

	text, err := s.advisor.Recommend(ctx, record.Name, record.Rarity, *record.MarketPriceUSD)
	if err != nil {
		log.Printf("Advisory failed for card %s: %v", record.CardID, err)
		return RecommendationUnavailable
	}
	return text
}

// TotalValue sums the market prices that are present. Rows without
// price data do not participate.
func TotalValue(inv *models.Inventory) float64 {
	total := 0.0
	for _, row := range inv.Rows {
		if row.HasPrice() {
			total += *row.MarketPriceUSD
		}
	}
	return total
}

// TopCards returns up to n rows ranked by market price, highest
// first, labeled "#1".."#n". Rows without price data are excluded
// from the pool; equal prices keep their input order.
func TopCards(inv *models.Inventory, n int) []models.RankedCard {
	priced := make([]models.CardRecord, 0, len(inv.Rows))
	for _, row := range inv.Rows {
		if row.HasPrice() {
			priced = append(priced, row)
		}
	}

	sort.SliceStable(priced, func(i, j int) bool {
		return *priced[i].MarketPriceUSD > *priced[j].MarketPriceUSD
	})

	if len(priced) > n {
		priced = priced[:n]
	}

	ranked := make([]models.RankedCard, len(priced))
	for i, row := range priced {
		ranked[i] = models.RankedCard{
			Rank:           rankLabel(i + 1),
			CardID:         row.CardID,
			Name:           row.Name,
			SetName:        row.SetName,
			MarketPriceUSD: *row.MarketPriceUSD,
			ImageURL:       row.ImageURL,
		}
	}

	return ranked
}

func rankLabel(position int) string {
	return "#" + strconv.Itoa(position)
}

// Summarize computes the derived views over an inventory.
func Summarize(inv *models.Inventory, topN int) models.InventorySummary {
	return models.InventorySummary{
		TotalValue: TotalValue(inv),
		TopCards:   TopCards(inv, topN),
		CardCount:  len(inv.Rows),
	}
}
