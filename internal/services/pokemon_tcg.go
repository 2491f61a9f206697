package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cardledger/backend/internal/config"
	"github.com/cardledger/backend/internal/metrics"
	"github.com/cardledger/backend/internal/models"
)

const pokemonTCGTimeout = 30 * time.Second

// PokemonTCGService looks up cards on the Pokemon TCG API. Responses
// are cached per card id so an upload listing the same identifier
// twice costs a single request while still producing two rows.
type PokemonTCGService struct {
	client  *http.Client
	apiKey  string
	baseURL string
	cache   *lru.Cache[string, models.CardRecord]
}

func NewPokemonTCGService(cfg config.CatalogConfig) (*PokemonTCGService, error) {
	cache, err := lru.New[string, models.CardRecord](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create card cache: %w", err)
	}

	return &PokemonTCGService{
		client: &http.Client{
			Timeout: pokemonTCGTimeout,
		},
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		cache:   cache,
	}, nil
}

type pokemonCardResponse struct {
	Data pokemonCard `json:"data"`
}

type pokemonCard struct {
	TCGPlayer *pokemonTCGPrice `json:"tcgplayer"`
	Set       pokemonSet       `json:"set"`
	Images    pokemonImages    `json:"images"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Number    string           `json:"number"`
	Rarity    string           `json:"rarity"`
}

type pokemonSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pokemonImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type pokemonTCGPrice struct {
	Prices    map[string]pokemonPriceSet `json:"prices"`
	URL       string                     `json:"url"`
	UpdatedAt string                     `json:"updatedAt"`
}

type pokemonPriceSet struct {
	Low    *float64
	Mid    *float64
	High   *float64
	Market *float64
}

// UnmarshalJSON decodes a price tier leniently. A value that is not a
// number means that price is absent; it never fails the card decode,
// since a price-only problem must not drop the row.
func (p *pokemonPriceSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Low    json.RawMessage `json:"low"`
		Mid    json.RawMessage `json:"mid"`
		High   json.RawMessage `json:"high"`
		Market json.RawMessage `json:"market"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Tier isn't even an object - no prices
		return nil
	}

	p.Low = lenientFloat(raw.Low)
	p.Mid = lenientFloat(raw.Mid)
	p.High = lenientFloat(raw.High)
	p.Market = lenientFloat(raw.Market)
	return nil
}

func lenientFloat(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// GetCard fetches a single card by identifier. A missing card returns
// (nil, nil); any other failure returns an error so the caller can
// skip the identifier.
func (s *PokemonTCGService) GetCard(ctx context.Context, id string) (*models.CardRecord, error) {
	if cached, ok := s.cache.Get(id); ok {
		metrics.CatalogLookupsTotal.WithLabelValues("cached").Inc()
		record := cached
		return &record, nil
	}

	reqURL := fmt.Sprintf("%s/cards/%s", s.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.CatalogLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to get card from pokemon tcg: %w", err)
	}
	defer resp.Body.Close()
	metrics.CatalogLookupDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusNotFound {
		metrics.CatalogLookupsTotal.WithLabelValues("not_found").Inc()
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("pokemon tcg API returned status %d", resp.StatusCode)
	}

	var response pokemonCardResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		metrics.CatalogLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode pokemon tcg response: %w", err)
	}

	record := s.convertToRecord(response.Data)
	s.cache.Add(id, record)
	metrics.CatalogLookupsTotal.WithLabelValues("success").Inc()

	return &record, nil
}

// convertToRecord maps the API shape onto a CardRecord. Only the
// normal-printing market tier is consulted for price; if any segment
// of tcgplayer.prices.normal.market is missing the price stays absent.
func (s *PokemonTCGService) convertToRecord(pc pokemonCard) models.CardRecord {
	var price *float64

	if pc.TCGPlayer != nil && pc.TCGPlayer.Prices != nil {
		if normal, ok := pc.TCGPlayer.Prices["normal"]; ok && normal.Market != nil {
			v := *normal.Market
			price = &v
		}
	}

	return models.CardRecord{
		CardID:         pc.ID,
		Name:           pc.Name,
		SetName:        pc.Set.Name,
		Number:         pc.Number,
		Rarity:         pc.Rarity,
		MarketPriceUSD: price,
		ImageURL:       pc.Images.Small,
	}
}
