package services

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseIdentifiers reads card identifiers from an uploaded file, one
// per row with no header. Plain text and CSV files use the first
// comma-separated cell of each line; .xlsx files use the first column
// of the first sheet. Order is preserved and duplicates are kept.
func ParseIdentifiers(data []byte, filename string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return parseIdentifiersXLSX(data)
	}
	return parseIdentifiersText(data)
}

func parseIdentifiersText(data []byte) ([]string, error) {
	// Strip a UTF-8 BOM, common on CSVs exported from spreadsheets
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	ids := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		// First cell only - extra columns are ignored
		if idx := strings.IndexByte(line, ','); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return ids, nil
}

func parseIdentifiersXLSX(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	ids := []string{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}
