package services

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"github.com/cardledger/backend/internal/models"
)

func TestWriteCSV(t *testing.T) {
	checkedOn := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	inv := &models.Inventory{
		CheckedOn: checkedOn,
		Rows: []models.CardRecord{
			{
				CardID:           "sm1-1",
				Name:             "Caterpie",
				SetName:          "Sun & Moon",
				Number:           "1",
				Rarity:           "Common",
				MarketPriceUSD:   price(12.5),
				ImageURL:         "https://images.example/sm1-1.png",
				CheckedOn:        checkedOn,
				AIRecommendation: "Hold it.",
			},
			{
				CardID:           "sm1-3",
				Name:             "Butterfree",
				SetName:          "Sun & Moon",
				Number:           "3",
				Rarity:           "Rare",
				MarketPriceUSD:   nil,
				ImageURL:         "https://images.example/sm1-3.png",
				CheckedOn:        checkedOn,
				AIRecommendation: RecommendationNoPrice,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, inv); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse back: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d CSV records, want header + 2 rows", len(records))
	}

	wantHeader := []string{"Card ID", "Name", "Set", "Number", "Rarity", "Market Price (USD)", "Image URL", "Checked On", "AI Recommendation"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}

	wantRow1 := []string{"sm1-1", "Caterpie", "Sun & Moon", "1", "Common", "12.50", "https://images.example/sm1-1.png", "2025-06-01 14:30:00", "Hold it."}
	if !reflect.DeepEqual(records[1], wantRow1) {
		t.Errorf("row 1 = %v, want %v", records[1], wantRow1)
	}

	// Absent price must round-trip as an empty cell, not "0"
	wantRow2 := []string{"sm1-3", "Butterfree", "Sun & Moon", "3", "Rare", "", "https://images.example/sm1-3.png", "2025-06-01 14:30:00", RecommendationNoPrice}
	if !reflect.DeepEqual(records[2], wantRow2) {
		t.Errorf("row 2 = %v, want %v", records[2], wantRow2)
	}
}

func TestWriteCSVQuoting(t *testing.T) {
	inv := &models.Inventory{
		Rows: []models.CardRecord{
			{
				CardID:           "sm1-9",
				Name:             `Farfetch'd, the "leek" duck`,
				SetName:          "Sun, Moon",
				AIRecommendation: "Sell now,\nprices are peaking.",
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, inv); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d CSV records, want 2", len(records))
	}

	row := records[1]
	if row[1] != `Farfetch'd, the "leek" duck` {
		t.Errorf("name cell = %q, comma/quote content must survive the round trip", row[1])
	}
	if row[2] != "Sun, Moon" {
		t.Errorf("set cell = %q", row[2])
	}
	if row[8] != "Sell now,\nprices are peaking." {
		t.Errorf("recommendation cell = %q", row[8])
	}
}

func TestWriteCSVEmptyInventory(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &models.Inventory{Rows: []models.CardRecord{}}); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse back: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d CSV records, want header only", len(records))
	}
}
