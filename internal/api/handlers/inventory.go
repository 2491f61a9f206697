package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cardledger/backend/internal/models"
	"github.com/cardledger/backend/internal/services"
)

// Ranked cards shown in the summary view
const topCardCount = 5

// Uploads larger than this are rejected outright
const maxUploadBytes = 1 << 20 // 1MB

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

type inventoryResponse struct {
	Rows       []models.CardRecord `json:"rows"`
	TotalValue float64             `json:"total_value"`
	TopCards   []models.RankedCard `json:"top_cards"`
	CheckedOn  time.Time           `json:"checked_on"`
	Count      int                 `json:"count"`
	Warning    string              `json:"warning,omitempty"`
}

// BuildInventory accepts an uploaded identifier file and assembles
// the full inventory in one pass. The response carries everything the
// frontend renders: the table rows, the total, the ranked top cards,
// and the batch timestamp.
func (h *InventoryHandler) BuildInventory(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	ids, err := services.ParseIdentifiers(data, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(ids) == 0 {
		c.JSON(http.StatusOK, inventoryResponse{
			Rows:     []models.CardRecord{},
			TopCards: []models.RankedCard{},
			Warning:  "No card identifiers found in the uploaded file.",
		})
		return
	}

	inv := h.inventoryService.Build(c.Request.Context(), ids)
	summary := services.Summarize(inv, topCardCount)

	resp := inventoryResponse{
		Rows:       inv.Rows,
		TotalValue: summary.TotalValue,
		TopCards:   summary.TopCards,
		CheckedOn:  inv.CheckedOn,
		Count:      summary.CardCount,
	}
	if len(inv.Rows) == 0 {
		resp.Warning = "No valid card data found."
	}

	c.JSON(http.StatusOK, resp)
}

type exportRequest struct {
	Rows []models.CardRecord `json:"rows" binding:"required"`
}

// ExportInventory serializes an assembled inventory back as a CSV
// download. The frontend posts the rows it holds; nothing is stored
// server side between the build and the export.
func (h *InventoryHandler) ExportInventory(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows are required"})
		return
	}

	inv := &models.Inventory{Rows: req.Rows}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+services.ExportFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
