package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cardledger/backend/internal/models"
)

// ExportFilename is the fixed name the CSV download is served under.
const ExportFilename = "pokemon_card_inventory.csv"

const timestampLayout = "2006-01-02 15:04:05"

var csvHeader = []string{
	"Card ID",
	"Name",
	"Set",
	"Number",
	"Rarity",
	"Market Price (USD)",
	"Image URL",
	"Checked On",
	"AI Recommendation",
}

// WriteCSV serializes the full inventory as UTF-8 CSV with a header
// row. Absent prices become empty cells, never "0".
func WriteCSV(w io.Writer, inv *models.Inventory) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range inv.Rows {
		price := ""
		if row.HasPrice() {
			price = fmt.Sprintf("%.2f", *row.MarketPriceUSD)
		}

		record := []string{
			row.CardID,
			row.Name,
			row.SetName,
			row.Number,
			row.Rarity,
			price,
			row.ImageURL,
			row.CheckedOn.Format(timestampLayout),
			row.AIRecommendation,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
