package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadStack/internal/model"
)

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "label,width,height\nCrate,2,2\n", ','},
		{"semicolon", "label;width;height\nCrate;2;2\n", ';'},
		{"tab", "label\twidth\theight\nCrate\t2\t2\n", '\t'},
		{"pipe", "label|width|height\nCrate|2|2\n", '|'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCSVDelimiter([]byte(tt.data)))
		})
	}
}

func TestDetectColumns_HeaderAliases(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Item Name", "W", "H", "Len", "LBS", "Temp", "Stop", "Fragile"})

	require.True(t, hasHeader)
	assert.Equal(t, 0, mapping.Label)
	assert.Equal(t, 1, mapping.Width)
	assert.Equal(t, 2, mapping.Height)
	assert.Equal(t, 3, mapping.Length)
	assert.Equal(t, 4, mapping.Weight)
	assert.Equal(t, 5, mapping.Zone)
	assert.Equal(t, 6, mapping.Destination)
	assert.Equal(t, 7, mapping.Fragile)
	assert.Equal(t, -1, mapping.StackLimit)
}

func TestDetectColumns_NoHeaderFallsBackToPositional(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Crate", "2", "2", "2", "50"})

	assert.False(t, hasHeader)
	assert.Equal(t, 0, mapping.Label)
	assert.Equal(t, 4, mapping.Weight)
	assert.Equal(t, 9, mapping.CrushFactor)
}

func TestImportCSV_WithHeader(t *testing.T) {
	csv := strings.Join([]string{
		"Label,Width,Height,Length,Weight,Zone,Destination,Fragile,Stack Limit,Crush Factor",
		"Frozen Fish,2,2,3,120,frozen,2,no,1,0.2",
		"Glassware,1.5,2,1.5,40,regular,1,yes,0,0.8",
		"",
		"Dry Goods,3,3,4,300,,1,,2,",
	}, "\n")

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Items, 3)

	fish := result.Items[0]
	assert.Equal(t, "Frozen Fish", fish.Label)
	assert.Equal(t, model.ZoneFrozen, fish.Zone)
	assert.Equal(t, 2, fish.Destination)
	assert.InDelta(t, 0.2, fish.CrushFactor, 1e-9)

	glass := result.Items[1]
	assert.True(t, glass.Fragile)
	assert.Zero(t, glass.StackLimit)

	dry := result.Items[2]
	assert.Equal(t, model.ZoneRegular, dry.Zone)
	assert.Equal(t, 2, dry.StackLimit)
}

func TestImportCSV_PositionalWithoutHeader(t *testing.T) {
	csv := "Crate A,2,2,2,100\nCrate B,3,2,4,250,cold\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Crate A", result.Items[0].Label)
	assert.Equal(t, model.ZoneCold, result.Items[1].Zone)
}

func TestImportCSV_BadRowsAreReportedNotFatal(t *testing.T) {
	csv := strings.Join([]string{
		"Label,Width,Height,Length,Weight",
		"Good,2,2,2,100",
		"NoWeight,2,2,2,",
		"Negative,2,-1,2,50",
		"BadNumber,2,abc,2,50",
	}, "\n")

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Good", result.Items[0].Label)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Missing weight")
	assert.Contains(t, result.Errors[1], "must be positive")
	assert.Contains(t, result.Errors[2], "Invalid height")
}

func TestImportCSV_UnknownOptionalValuesWarnAndDefault(t *testing.T) {
	csv := strings.Join([]string{
		"Label,Width,Height,Length,Weight,Zone,Destination,Fragile",
		"Odd,2,2,2,100,lukewarm,zero,maybe",
	}, "\n")

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, model.ZoneRegular, item.Zone)
	assert.Equal(t, 1, item.Destination)
	assert.False(t, item.Fragile)
	assert.Len(t, result.Warnings, 4, "header notice plus one warning per odd value")
}

func TestImportCSV_MissingRequiredColumnIsAnError(t *testing.T) {
	csv := "Label,Width,Height,Weight\nCrate,2,2,100\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	assert.Empty(t, result.Items)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Length")
}

func TestImportCSV_BlankLabelGetsGeneratedName(t *testing.T) {
	csv := "Label,Width,Height,Length,Weight\n,2,2,2,100\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Item 1", result.Items[0].Label)
}

func TestImportCSV_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.csv")
	content := "Label;Width;Height;Length;Weight\nCrate;2;2;2;100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result := ImportCSV(path)

	require.Empty(t, result.Errors)
	require.Len(t, result.Items, 1)
	assert.Contains(t, result.Warnings, "Detected semicolon delimiter")
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv"))

	assert.Empty(t, result.Items)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "Cannot open file")
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	result := ImportCSV(path)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "empty")
}

func TestParseZone(t *testing.T) {
	cases := map[string]model.TemperatureZone{
		"frozen":  model.ZoneFrozen,
		"F":       model.ZoneFrozen,
		"Chilled": model.ZoneCold,
		"cool":    model.ZoneCold,
		"":        model.ZoneRegular,
		"ambient": model.ZoneRegular,
	}
	for in, want := range cases {
		zone, ok := parseZone(in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, zone, "input %q", in)
	}

	_, ok := parseZone("volcanic")
	assert.False(t, ok)
}

func TestParseBool(t *testing.T) {
	for _, truthy := range []string{"yes", "Y", "TRUE", "1", "x"} {
		v, ok := parseBool(truthy)
		assert.True(t, ok && v, "input %q", truthy)
	}
	for _, falsy := range []string{"", "no", "N", "false", "0", "-"} {
		v, ok := parseBool(falsy)
		assert.True(t, ok, "input %q", falsy)
		assert.False(t, v, "input %q", falsy)
	}
	_, ok := parseBool("maybe")
	assert.False(t, ok)
}

func TestImportExcel_MissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "nope.xlsx"))

	assert.Empty(t, result.Items)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "Cannot open Excel file")
}
