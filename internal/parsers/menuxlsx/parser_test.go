package menuxlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParseValidWorkbook(t *testing.T) {
	reader := buildWorkbook(t, [][]interface{}{
		{"restaurant", "address", "phone", "product", "price", "available"},
		{"Burger Bar", "Lenina 1", "+70000000001", "Cheeseburger", "350.00", "true"},
		{"Burger Bar", "Lenina 1", "+70000000001", "Fries", "120,50", "false"},
	})

	rows, rowErrors, err := Parse(reader)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 2)

	assert.Equal(t, "Burger Bar", rows[0].RestaurantName)
	assert.Equal(t, "Cheeseburger", rows[0].ProductName)
	assert.Equal(t, int64(35000), rows[0].Price)
	assert.True(t, rows[0].Available)

	assert.Equal(t, int64(12050), rows[1].Price, "comma decimal separator should be accepted")
	assert.False(t, rows[1].Available)
}

func TestParseCollectsRowErrors(t *testing.T) {
	reader := buildWorkbook(t, [][]interface{}{
		{"restaurant", "address", "phone", "product", "price", "available"},
		{"Burger Bar", "Lenina 1", "+70000000001", "Cheeseburger", "350.00", "true"},
		{"", "Lenina 1", "+70000000001", "Fries", "120.00", "true"},
		{"Burger Bar", "Lenina 1", "+70000000001", "Cola", "not-a-price", "true"},
	})

	rows, rowErrors, err := Parse(reader)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "valid rows should survive invalid neighbors")
	require.Len(t, rowErrors, 2)
	assert.Equal(t, 3, rowErrors[0].RowNumber)
	assert.Contains(t, rowErrors[0].Reason, "restaurant name")
	assert.Equal(t, 4, rowErrors[1].RowNumber)
	assert.Contains(t, rowErrors[1].Reason, "invalid price")
}

func TestParseSkipsEmptyRows(t *testing.T) {
	reader := buildWorkbook(t, [][]interface{}{
		{"restaurant", "address", "phone", "product", "price", "available"},
		{"", "", "", "", "", ""},
		{"Burger Bar", "Lenina 1", "+70000000001", "Cheeseburger", "350.00", "yes"},
	})

	rows, rowErrors, err := Parse(reader)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	assert.Len(t, rows, 1)
}

func TestParseRejectsWrongHeader(t *testing.T) {
	reader := buildWorkbook(t, [][]interface{}{
		{"name", "street", "phone", "product", "price", "available"},
		{"Burger Bar", "Lenina 1", "+70000000001", "Cheeseburger", "350.00", "true"},
	})

	_, _, err := Parse(reader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header column")
}
