// Package importer provides CSV and Excel import for cargo manifests.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadStack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label       int
	Width       int
	Height      int
	Length      int
	Weight      int
	Zone        int
	Destination int
	Fragile     int
	StackLimit  int
	CrushFactor int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":       {"label", "name", "item", "item name", "description", "desc", "cargo", "sku"},
	"width":       {"width", "w"},
	"height":      {"height", "h", "tall"},
	"length":      {"length", "len", "l", "depth", "d"},
	"weight":      {"weight", "wt", "lbs", "pounds", "lb"},
	"zone":        {"zone", "temperature", "temp", "temp zone", "temperature zone"},
	"destination": {"destination", "dest", "stop", "stop index", "drop"},
	"fragile":     {"fragile", "breakable", "handle with care"},
	"stacklimit":  {"stack limit", "stacklimit", "stack", "max stack", "stackable"},
	"crushfactor": {"crush factor", "crushfactor", "crush", "compressibility"},
}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter. It tries comma, semicolon, tab, and pipe. The delimiter
// that produces the most consistent column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each
// column role. Returns the mapping and true if a header was detected, or a
// default positional mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Label: -1, Width: -1, Height: -1, Length: -1, Weight: -1,
		Zone: -1, Destination: -1, Fragile: -1, StackLimit: -1, CrushFactor: -1,
	}

	assign := func(role string, i int) {
		switch role {
		case "label":
			if mapping.Label == -1 {
				mapping.Label = i
			}
		case "width":
			if mapping.Width == -1 {
				mapping.Width = i
			}
		case "height":
			if mapping.Height == -1 {
				mapping.Height = i
			}
		case "length":
			if mapping.Length == -1 {
				mapping.Length = i
			}
		case "weight":
			if mapping.Weight == -1 {
				mapping.Weight = i
			}
		case "zone":
			if mapping.Zone == -1 {
				mapping.Zone = i
			}
		case "destination":
			if mapping.Destination == -1 {
				mapping.Destination = i
			}
		case "fragile":
			if mapping.Fragile == -1 {
				mapping.Fragile = i
			}
		case "stacklimit":
			if mapping.StackLimit == -1 {
				mapping.StackLimit = i
			}
		case "crushfactor":
			if mapping.CrushFactor == -1 {
				mapping.CrushFactor = i
			}
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					assign(role, i)
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping:
		// Label, Width, Height, Length, Weight, Zone, Destination, Fragile, StackLimit, CrushFactor
		return ColumnMapping{
			Label: 0, Width: 1, Height: 2, Length: 3, Weight: 4,
			Zone: 5, Destination: 6, Fragile: 7, StackLimit: 8, CrushFactor: 9,
		}, false
	}

	return mapping, true
}

// parseZone converts a temperature zone string to a model.TemperatureZone.
// It returns the zone and whether the string was recognized.
func parseZone(s string) (model.TemperatureZone, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "frozen", "freezer", "f":
		return model.ZoneFrozen, true
	case "cold", "chilled", "cool", "c":
		return model.ZoneCold, true
	case "", "regular", "ambient", "dry", "r":
		return model.ZoneRegular, true
	default:
		return model.ZoneRegular, false
	}
}

// parseBool recognizes common spreadsheet truthy/falsy spellings.
func parseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x":
		return true, true
	case "", "no", "n", "false", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts an Item from a row using the given column mapping.
// Returns the item, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.Item, string, []string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Item %d", itemCount+1)
	}

	dims := make([]float64, 3)
	for i, col := range []struct {
		name string
		idx  int
	}{
		{"width", mapping.Width},
		{"height", mapping.Height},
		{"length", mapping.Length},
	} {
		raw := getCell(row, col.idx)
		if raw == "" {
			return model.Item{}, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name), nil
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, raw), nil
		}
		dims[i] = val
	}

	weightStr := getCell(row, mapping.Weight)
	if weightStr == "" {
		return model.Item{}, fmt.Sprintf("%s: Missing weight value", rowLabel), nil
	}
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return model.Item{}, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, weightStr), nil
	}

	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 || weight <= 0 {
		return model.Item{}, fmt.Sprintf("%s: Dimensions and weight must be positive", rowLabel), nil
	}

	item := model.NewItem(label, dims[0], dims[1], dims[2], weight)

	var warnings []string

	if zoneStr := getCell(row, mapping.Zone); zoneStr != "" {
		zone, ok := parseZone(zoneStr)
		if ok {
			item.Zone = zone
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown zone '%s', defaulting to Regular", rowLabel, zoneStr))
		}
	}

	if destStr := getCell(row, mapping.Destination); destStr != "" {
		dest, err := strconv.Atoi(destStr)
		if err != nil || dest < 1 {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid destination '%s', defaulting to stop 1", rowLabel, destStr))
		} else {
			item.Destination = dest
		}
	}

	if fragStr := getCell(row, mapping.Fragile); fragStr != "" {
		frag, ok := parseBool(fragStr)
		if ok {
			item.Fragile = frag
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown fragile flag '%s', defaulting to no", rowLabel, fragStr))
		}
	}

	if stackStr := getCell(row, mapping.StackLimit); stackStr != "" {
		stack, err := strconv.Atoi(stackStr)
		if err != nil || stack < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid stack limit '%s', defaulting to 1", rowLabel, stackStr))
		} else {
			item.StackLimit = stack
		}
	}

	if crushStr := getCell(row, mapping.CrushFactor); crushStr != "" {
		crush, err := strconv.ParseFloat(crushStr, 64)
		if err != nil || crush < 0 || crush > 1 {
			warnings = append(warnings, fmt.Sprintf("%s: Crush factor '%s' must be in [0,1], defaulting to 0", rowLabel, crushStr))
		} else {
			item.CrushFactor = crush
		}
	}

	return item, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports items from a CSV manifest.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports items from a CSV reader with a specific
// delimiter. Useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports items from an Excel (.xlsx) manifest.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into items.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Weight == -1 {
			missing = append(missing, "Weight")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		// No header: check if first row is numeric (positional mapping)
		if len(rows[0]) >= 5 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
				// First column after label is not numeric - might be an
				// unrecognized header. Skip it but use positional mapping.
				startRow = 1
				result.Warnings = append(result.Warnings, "Detected header row, skipping")
			}
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		item, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Items))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Items = append(result.Items, item)
	}

	return result
}
